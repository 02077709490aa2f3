package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
	"github.com/ajithkumarky/tulutitans/internal/server/service"
)

// gameHandler contains all game handlers.
type gameHandler struct {
	games service.GameService
}

// Me returns the authenticated user's progression.
func (h *gameHandler) Me(c echo.Context) error {
	stats, err := h.games.Stats(currentUsername(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Question returns a random question. Authentication is optional: anonymous
// players get default stats alongside the question.
func (h *gameHandler) Question(c echo.Context) error {
	question, err := h.games.Question(currentUsername(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, question)
}

// Answer grades a submitted answer and applies progression gains.
func (h *gameHandler) Answer(c echo.Context) error {
	var params service.AnswerParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("could not bind answer params")
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get answer"))
	}

	answer, err := h.games.Answer(currentUsername(c), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, answer)
}

// FiftyFifty halves a question's options.
func (h *gameHandler) FiftyFifty(c echo.Context) error {
	var params service.FiftyFiftyParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("could not bind fifty-fifty params")
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get question"))
	}

	options, err := h.games.FiftyFifty(params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}
