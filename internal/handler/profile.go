package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	Users UserStore
	Log   *zap.Logger
}

func NewProfileHandler(u UserStore, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{Users: u, Log: log}
}

type profileReq struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Phone string `json:"phone" validate:"required,numeric,min=10,max=15"`
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "user not found", nil)
		}
		h.Log.Error("load profile failed", zap.Uint64("user_id", uid), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	return ok(c, http.StatusOK, "profile", model.ProfileOf(u))
}

// Update changes the caller's name and phone.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	var req profileReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "user not found", nil)
		}
		h.Log.Error("update profile failed", zap.Uint64("user_id", uid), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	return ok(c, http.StatusOK, "profile updated", model.ProfileOf(u))
}
