package service

import (
	"net/http"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
	"github.com/ajithkumarky/tulutitans/internal/database"
	"github.com/ajithkumarky/tulutitans/internal/model"
	"github.com/ajithkumarky/tulutitans/internal/server/auth"
)

// FailureDelay slows down brute-force probing after a failed login.
// It only blocks the failing request's goroutine.
const FailureDelay = time.Second

var usernameFormat = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type (
	// A UserService handles registration and authentication.
	UserService interface {
		Register(params CredentialsParams) (Render, error)
		Login(params CredentialsParams) (Render, error)
	}

	// CredentialsParams are used to register or login a user.
	CredentialsParams struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	userService struct {
		db           database.Client
		tokens       *auth.TokenManager
		limiter      auth.Limiter
		failureDelay time.Duration
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, tokens *auth.TokenManager, limiter auth.Limiter, failureDelay time.Duration) UserService {
	return &userService{
		db:           db,
		tokens:       tokens,
		limiter:      limiter,
		failureDelay: failureDelay,
	}
}

// ValidateUsername returns a user-safe message when the username is malformed.
func ValidateUsername(username string) string {
	if len(username) < 1 || len(username) > 30 {
		return "Username must be 1-30 characters"
	}
	if !usernameFormat.MatchString(username) {
		return "Username must be alphanumeric (underscores allowed)"
	}
	return ""
}

// ValidatePassword returns a user-safe message when the password is malformed.
func ValidatePassword(password string) string {
	if len(password) < 4 {
		return "Password must be at least 4 characters"
	}
	return ""
}

func (s *userService) Register(params CredentialsParams) (Render, error) {
	if message := ValidateUsername(params.Username); message != "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, message)
	}
	if message := ValidatePassword(params.Password); message != "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, message)
	}

	// Check if the username is free to use.
	u, err := s.db.FindUserByUsername(params.Username)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, apierror.NewWithCode(http.StatusConflict, "User already exists")
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}

	user := model.NewUser()
	user.Username = params.Username
	user.Salt = salt
	user.PasswordHash = auth.HashWithSalt(params.Password, salt)

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return M{"message": "User registered successfully"}, nil
}

func (s *userService) Login(params CredentialsParams) (Render, error) {
	if params.Username == "" || params.Password == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, "Username and password are required")
	}

	// The limiter gate runs before any store access.
	if s.limiter.IsBlocked(params.Username) {
		return nil, apierror.NewWithCode(http.StatusTooManyRequests, "Too many failed attempts. Try again in a few minutes.")
	}

	user, err := s.db.FindUserByUsername(params.Username)
	if err != nil {
		if s.db.IsNotFound(err) {
			// Same shape and delay as a wrong password, so usernames
			// can not be enumerated.
			return nil, s.fail(params.Username)
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	if !s.verify(user, params.Password) {
		return nil, s.fail(params.Username)
	}

	s.limiter.Clear(params.Username)

	return M{
		"message": "Login successful",
		"token":   s.tokens.Issue(user.Username),
		"user":    M{"username": user.Username},
	}, nil
}

// verify checks the submitted password against the stored digest. Records
// still holding a legacy unsalted hash are migrated in place on success: new
// salt and digest are written together in a single update.
func (s *userService) verify(user *model.User, password string) bool {
	if !user.Legacy() {
		return auth.SecureCompare(auth.HashWithSalt(password, user.Salt), user.PasswordHash)
	}

	if !auth.SecureCompare(auth.HashLegacy(password), user.PasswordHash) {
		return false
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		logrus.WithError(err).Error("could not generate migration salt")
		return true // authentication succeeded, migration retried on next login
	}
	user.Salt = salt
	user.PasswordHash = auth.HashWithSalt(password, salt)

	if err := s.db.Save(user); err != nil {
		logrus.WithError(err).Error("could not migrate legacy password hash")
	}
	return true
}

func (s *userService) fail(username string) error {
	time.Sleep(s.failureDelay)
	s.limiter.RecordFailure(username)
	return apierror.NewWithCode(http.StatusUnauthorized, "Invalid credentials")
}
