package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
	"github.com/ajithkumarky/tulutitans/internal/server/service"
)

// authHandler contains all authentication handlers.
type authHandler struct {
	users service.UserService
}

///// Register
////
//

// Register handler creates a new user account.
func (h *authHandler) Register(c echo.Context) error {
	var params service.CredentialsParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("could not bind registration params")
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get credentials"))
	}

	register, err := h.users.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, register)
}

///// Login
////
//

// Login authenticates a user and returns a bearer token.
func (h *authHandler) Login(c echo.Context) error {
	var params service.CredentialsParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("could not bind login params")
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get credentials"))
	}

	login, err := h.users.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}
