package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/field"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// FieldHandler exposes field browsing and administration.
type FieldHandler struct {
	Fields   *field.Service
	Bookings *booking.Manager
	Log      *zap.Logger
}

func NewFieldHandler(fields *field.Service, bookings *booking.Manager, log *zap.Logger) *FieldHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FieldHandler{Fields: fields, Bookings: bookings, Log: log}
}

type fieldReq struct {
	Name        *string          `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	PhotoURLs   []string         `json:"photo_urls" validate:"omitempty,dive,url"`
	Facilities  []string         `json:"facilities" validate:"omitempty,dive,min=1,max=50"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r fieldReq) input() field.Input {
	return field.Input{
		Name:        r.Name,
		Description: r.Description,
		HourlyRate:  r.HourlyRate,
		PhotoURLs:   r.PhotoURLs,
		Facilities:  r.Facilities,
		Status:      r.Status,
	}
}

// List returns fields, optionally filtered by ?status= and ?search=.
func (h *FieldHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	out, err := h.Fields.List(ctx, model.FieldFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Name:   c.QueryParam("search"),
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "fields", out)
}

// Get returns one field.
func (h *FieldHandler) Get(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid field id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	f, err := h.Fields.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "field", f)
}

// Schedule lists booked and free windows of a field on ?date=.  ?open=
// and ?close= override the default opening hours.
func (h *FieldHandler) Schedule(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid field id", nil)
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return fail(c, http.StatusBadRequest, "date is required", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	s, err := h.Bookings.Schedule(ctx, id, date, c.QueryParam("open"), c.QueryParam("close"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "schedule", s)
}

// Create adds a field.
func (h *FieldHandler) Create(c echo.Context) error {
	var req fieldReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	f, err := h.Fields.Create(ctx, req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusCreated, "field created", f)
}

// Update changes the supplied attributes of a field.
func (h *FieldHandler) Update(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid field id", nil)
	}
	var req fieldReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	f, err := h.Fields.Update(ctx, id, req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "field updated", f)
}

// ToggleStatus flips a field between active and inactive.
func (h *FieldHandler) ToggleStatus(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid field id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	f, err := h.Fields.ToggleStatus(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "field status changed to "+f.Status, f)
}

// Delete removes a field and its reservations.
func (h *FieldHandler) Delete(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid field id", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Fields.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, "field deleted", nil)
}
