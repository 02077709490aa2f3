package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ajithkumarky/tulutitans/internal/database"
)

// vocabularyHandler lists the vocabulary content used by the game client.
type vocabularyHandler struct {
	db database.Client
}

// List returns every vocabulary entry.
func (h *vocabularyHandler) List(c echo.Context) error {
	vocabularies, err := h.db.AllVocabulary()
	if err != nil {
		return errors.Wrap(err, "could not list vocabulary")
	}
	return c.JSON(http.StatusOK, vocabularies)
}

// ListWithImages returns the vocabulary entries carrying an illustration.
func (h *vocabularyHandler) ListWithImages(c echo.Context) error {
	vocabularies, err := h.db.VocabularyWithImages()
	if err != nil {
		return errors.Wrap(err, "could not list vocabulary with images")
	}
	return c.JSON(http.StatusOK, vocabularies)
}
