// Package apierror holds the error format rendered by the Tulu Titans API.
package apierror

import "net/http"

type (
	// An APIError is an error carrying the HTTP status code it renders with.
	APIError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if apierr, ok := err.(*APIError); ok && apierr.HTTPCode > 0 {
		return apierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new APIError with the given message.
func New(message string) *APIError {
	return &APIError{FieldError: err{Message: message}}
}

// NewWithCode returns a new APIError with the given HTTP code and message.
func NewWithCode(code int, message string) *APIError {
	return &APIError{HTTPCode: code, FieldError: err{Message: message}}
}

// Error implements error interface.
func (e *APIError) Error() string {
	return e.FieldError.Message
}
