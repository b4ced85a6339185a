// Package handler holds the echo handlers.  Every response uses the same
// envelope: {success, message, data} on success and
// {success:false, message, errors} on failure.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// requestTimeout bounds the storage work done by one request.
const requestTimeout = 5 * time.Second

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func ok(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: msg, Data: data})
}

func fail(c echo.Context, status int, msg string, errs any) error {
	return c.JSON(status, envelope{Success: false, Message: msg, Errors: errs})
}

// statusOf maps the booking error kinds onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, booking.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind.  Internal failures
// are logged and answered with a generic message.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return fail(c, status, "internal server error", nil)
	}
	return fail(c, status, booking.Message(err), nil)
}

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID reads the authenticated user id placed in the context by the
// JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v, nil
	case int:
		return uint64(v), nil
	case int64:
		return uint64(v), nil
	case float64:
		return uint64(v), nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	default:
		return 0, fmt.Errorf("user_id missing")
	}
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bind decodes and validates the request body into dst.  On failure the
// response has already been written and the returned error is the result
// of writing it; callers return it unchanged.
func bind(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid request body", nil)
	}
	if err := c.Validate(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, "validation failed", validationErrors(err))
	}
	return true, nil
}
