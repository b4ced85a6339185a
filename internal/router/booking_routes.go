package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/handler"
)

// RegisterBookings registers reservation routes.  Availability checks are
// public; everything else needs a session and status changes and deletes
// need the admin role.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, ch Chain) {
	e.POST("/v1/bookings/check-availability", h.CheckAvailability, ch.public()...)

	auth := ch.signedIn()
	e.GET("/v1/bookings", h.List, auth...)
	e.POST("/v1/bookings", h.Create, auth...)
	e.GET("/v1/bookings/:id", h.Get, auth...)
	e.POST("/v1/bookings/:id/cancel", h.Cancel, auth...)
	e.GET("/v1/history", h.History, auth...)

	admin := ch.adminOnly()
	e.PUT("/v1/bookings/:id", h.UpdateStatus, admin...)
	e.DELETE("/v1/bookings/:id", h.Delete, admin...)
}
