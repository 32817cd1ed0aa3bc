package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kchestnov/plutarch/internal/engine"
	"github.com/kchestnov/plutarch/internal/store"
)

// engineError translates engine failures into JSON error responses. Unknown
// members and sessions are the caller's mistake; a settled session is a
// state conflict; a backend outage is retryable and rendered as a short
// non-technical message while the detailed reason stays in the server log.
func engineError(c echo.Context, err error) error {
	var vErr *engine.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error()})
	case errors.Is(err, engine.ErrUnknownMember), errors.Is(err, engine.ErrUnknownSession):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrAlreadyExists), errors.Is(err, engine.ErrSessionSettled):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		c.Logger().Error(err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again later"})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// callerName returns the authenticated member identity stored by the JWT
// middleware.
func callerName(c echo.Context) string {
	name, _ := c.Get("user_name").(string)
	return name
}
