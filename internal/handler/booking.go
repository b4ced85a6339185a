package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// BookingHandler serves reservation endpoints.
type BookingHandler struct {
	Bookings *booking.Manager
	Log      *zap.Logger
}

func NewBookingHandler(m *booking.Manager, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Bookings: m, Log: log}
}

type availabilityReq struct {
	FieldID   uint64 `json:"field_id" validate:"required"`
	Date      string `json:"date" validate:"required,day"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	ExcludeID uint64 `json:"exclude_id"`
}

type createBookingReq struct {
	FieldID   uint64  `json:"field_id" validate:"required"`
	Date      string  `json:"date" validate:"required,day"`
	StartTime string  `json:"start_time" validate:"required,clock"`
	EndTime   string  `json:"end_time" validate:"required,clock"`
	Note      *string `json:"note" validate:"omitempty,max=1000"`
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// CheckAvailability reports whether a window is free and which
// reservations collide with it.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var req availabilityReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	av, err := h.Bookings.CheckAvailability(ctx, req.FieldID, req.Date, req.StartTime, req.EndTime, req.ExcludeID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	msg := "time slot is available"
	if !av.Available {
		msg = "time slot is already booked"
	}
	return ok(c, http.StatusOK, msg, av)
}

// List returns reservations.  Non-admins only ever see their own.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	f := model.ReservationFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Date:   strings.TrimSpace(c.QueryParam("date")),
	}
	if v := c.QueryParam("field_id"); v != "" {
		if f.FieldID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return fail(c, http.StatusBadRequest, "invalid field_id", nil)
		}
	}
	if isAdmin(c) {
		if v := c.QueryParam("user_id"); v != "" {
			if f.UserID, err = strconv.ParseUint(v, 10, 64); err != nil {
				return fail(c, http.StatusBadRequest, "invalid user_id", nil)
			}
		}
	} else {
		f.UserID = uid
	}
	return h.list(c, f, "bookings")
}

// History returns the caller's own reservations regardless of role.
func (h *BookingHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return h.list(c, model.ReservationFilter{UserID: uid, Status: strings.TrimSpace(c.QueryParam("status"))}, "booking history")
}

func (h *BookingHandler) list(c echo.Context, f model.ReservationFilter, msg string) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	out, err := h.Bookings.List(ctx, f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, msg, out)
}

// Create books a field for the caller.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	var req createBookingReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	d, err := h.Bookings.Create(ctx, booking.CreateRequest{
		FieldID:   req.FieldID,
		UserID:    uid,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusCreated, "booking created", d)
}

// Get returns one reservation.  Non-admins may only read their own.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	d, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !isAdmin(c) && d.UserID != uid {
		return fail(c, http.StatusForbidden, "you do not have access to this booking", nil)
	}
	return ok(c, http.StatusOK, "booking", d)
}

// Cancel cancels a pending or confirmed reservation of the caller.
// Admins may cancel any reservation.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	d, err := h.Bookings.Cancel(ctx, id, uid, isAdmin(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "booking cancelled", d)
}

// UpdateStatus sets the status of a reservation (admin).
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	var req statusReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	d, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "booking status updated", d)
}

// Delete removes a reservation (admin).
func (h *BookingHandler) Delete(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "booking deleted", nil)
}
