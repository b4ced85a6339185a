package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/handler"
)

// RegisterFields registers field browsing and administration.  cache wraps
// the public list and detail routes; the schedule changes with every
// booking and is never cached.
func RegisterFields(e *echo.Echo, h *handler.FieldHandler, ch Chain, cache echo.MiddlewareFunc) {
	e.GET("/v1/fields", h.List, ch.public(cache)...)
	e.GET("/v1/fields/:id", h.Get, ch.public(cache)...)
	e.GET("/v1/fields/:id/schedule", h.Schedule, ch.public()...)

	admin := ch.adminOnly()
	e.POST("/v1/fields", h.Create, admin...)
	e.PUT("/v1/fields/:id", h.Update, admin...)
	e.PATCH("/v1/fields/:id/status", h.ToggleStatus, admin...)
	e.DELETE("/v1/fields/:id", h.Delete, admin...)
}
