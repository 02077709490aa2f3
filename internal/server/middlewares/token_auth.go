package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ajithkumarky/tulutitans/internal/server/auth"
)

// CurrentUsernameContextKey is the key to retrieve the authenticated username from echo.Context.
const CurrentUsernameContextKey = "current_username"

// TokenAuth returns a bearer-token auth middleware.
// It stores the verified username into echo.Context. When required is false
// the request proceeds unauthenticated instead of failing, which is the
// contract of the question/answer endpoints.
func TokenAuth(tokens *auth.TokenManager, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, err := verify(tokens, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if required {
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"error": echo.Map{
							"message": "Unauthorized",
						},
					})
				}
				return next(c)
			}

			c.Set(CurrentUsernameContextKey, username)
			return next(c)
		}
	}
}

func verify(tokens *auth.TokenManager, authorization string) (string, error) {
	token := bearer(authorization)
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return tokens.Verify(token)
}

func bearer(authorization string) string {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) < 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
