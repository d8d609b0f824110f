package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// StatusOf maps a service error kind to its HTTP status. Errors outside the
// taxonomy are internal failures.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes every failure as {"message": ...}. Internal errors
// are logged with their route and answered with a generic message.
func ErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := http.StatusInternalServerError, "internal server error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			msg = http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				msg = m
			}
		case StatusOf(err) != http.StatusInternalServerError:
			status, msg = StatusOf(err), service.PublicMessage(err)
			if msg == "" {
				msg = err.Error()
			}
		default:
			log.WithFields(map[string]interface{}{
				"method": c.Request().Method,
				"route":  c.Path(),
				"error":  err.Error(),
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"message": msg})
		}
		if err != nil {
			log.WithField("error", fmt.Sprint(err)).Warn("error response not written")
		}
	}
}
