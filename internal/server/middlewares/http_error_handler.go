package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
// Anything that is not a client-safe apierror degrades to an opaque 500,
// details are logged with a correlation id and never surfaced.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch err := err.(type) {
	case *echo.HTTPError:
		_ = c.JSON(err.Code, echo.Map{
			"error": echo.Map{
				"message": err.Message,
			},
		})
	case *apierror.APIError:
		status := apierror.StatusCode(err)
		if status < 500 {
			_ = c.JSON(status, err)
			return
		}
		internal(err, c)
	default:
		internal(err, c)
	}
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithField("id", id).WithError(err).Error("internal error")

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
