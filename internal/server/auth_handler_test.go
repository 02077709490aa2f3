package server_test

import (
	"net/http"
	"testing"

	"github.com/appleboy/gofight"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"

	"github.com/ajithkumarky/tulutitans/internal/server/auth"
)

func TestRequestRegistration(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	params := gofight.D{
		"username": "",
		"password": "",
	}
	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Username must be 1-30 characters"}}`, r.Body.String())
	})

	params["username"] = "george!"
	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Username must be alphanumeric (underscores allowed)"}}`, r.Body.String())
	})

	params["username"] = "george_the_first_of_his_name_and_more"
	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Username must be 1-30 characters"}}`, r.Body.String())
	})

	params["username"] = "george"
	params["password"] = "p42"
	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Password must be at least 4 characters"}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)
		assert.JSONEq(t, `{"message":"User registered successfully"}`, r.Body.String())
	})

	// The record is stored salted.
	user, err := ctrl.Database.FindUserByUsername("george")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.Salt)
	assert.Equal(t, auth.HashWithSalt("password42", user.Salt), user.PasswordHash)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 0, user.Experience)
	assert.Equal(t, 0, user.Currency)

	r.POST("/api/auth/register").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusConflict, r.Code)
		assert.JSONEq(t, `{"error":{"message":"User already exists"}}`, r.Body.String())
	})
}

func TestRequestLogin(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl)

	r.POST("/api/auth/login").SetJSON(gofight.D{"username": "george"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Username and password are required"}}`, r.Body.String())
	})

	params := gofight.D{
		"username": "george",
		"password": "nope42",
	}
	r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Invalid credentials"}}`, r.Body.String())
	})

	// Unknown usernames render exactly like wrong passwords.
	r.POST("/api/auth/login").SetJSON(gofight.D{"username": "nobody", "password": "nope42"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Invalid credentials"}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Login successful", string(v.GetStringBytes("message")))
		assert.Equal(t, "george", string(v.GetStringBytes("user", "username")))

		token := string(v.GetStringBytes("token"))
		assert.Regexp(t, `^george:\d+:[0-9a-f]{64}$`, token)

		username, err := auth.NewTokenManager(ctrl.SigningKey).Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "george", username)
	})
}

func TestRequestLoginLegacyMigration(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	legacy := createLegacyUser(ctrl)
	assert.Empty(t, legacy.Salt)

	params := gofight.D{
		"username": "old_titan",
		"password": "password42",
	}
	r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	// The successful login migrated the record in place.
	user, err := ctrl.Database.FindUserByUsername("old_titan")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.Salt)
	assert.Equal(t, auth.HashWithSalt("password42", user.Salt), user.PasswordHash)

	// A second login goes through the salted path and mutates nothing.
	r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	again, err := ctrl.Database.FindUserByUsername("old_titan")
	assert.NoError(t, err)
	assert.Equal(t, user.Salt, again.Salt)
	assert.Equal(t, user.PasswordHash, again.PasswordHash)

	// And the legacy password no longer verifies through the legacy path.
	r.POST("/api/auth/login").SetJSON(gofight.D{"username": "old_titan", "password": "nope42"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})
}

func TestRequestLoginRateLimited(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	params := gofight.D{
		"username": "george",
		"password": "nope42",
	}
	for i := 0; i < 5; i++ {
		r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code, "attempt %d", i+1)
		})
	}

	// The 6th attempt within the window is refused before evaluation, with no
	// attempt count in the message.
	r.POST("/api/auth/login").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusTooManyRequests, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Too many failed attempts. Try again in a few minutes."}}`, r.Body.String())
	})

	// Other usernames are unaffected.
	r.POST("/api/auth/login").SetJSON(gofight.D{"username": "totoro", "password": "nope42"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})
}

func TestRequestLoginClearsFailures(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl)

	bad := gofight.D{"username": "george", "password": "nope42"}
	for i := 0; i < 4; i++ {
		r.POST("/api/auth/login").SetJSON(bad).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code)
		})
	}

	good := gofight.D{"username": "george", "password": "password42"}
	r.POST("/api/auth/login").SetJSON(good).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	// The counter reset on success, so 5 more failures fit in the window.
	for i := 0; i < 5; i++ {
		r.POST("/api/auth/login").SetJSON(bad).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code, "attempt %d", i+1)
		})
	}
	r.POST("/api/auth/login").SetJSON(bad).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusTooManyRequests, r.Code)
	})
}
