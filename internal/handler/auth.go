package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/config"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/repository"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/utils"
)

// UserStore is the account persistence used by the auth and profile
// handlers.  *repository.UserRepo implements it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, name, phone string) (model.User, error)
}

// TokenStore keeps hashed refresh tokens.  *repository.TokenRepo
// implements it.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	Rotate(ctx context.Context, oldHash, newHash string, exp time.Time) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    model.Profile `json:"user"`
	Access  tokenPart     `json:"access"`
	Refresh tokenPart     `json:"refresh"`
}

// Register creates a user account and returns a token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if bound, err := bind(c, &req); !bound {
		return err
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	u := model.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already registered", nil)
		}
		h.Log.Error("create user failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	u.CreatedAt = time.Now().UTC()

	resp, err := h.issue(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	h.Log.Info("user registered", zap.Uint64("user_id", u.ID))
	return ok(c, http.StatusCreated, "registration successful", resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if bound, err := bind(c, &req); !bound {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "invalid email or password", nil)
		}
		h.Log.Error("load user failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid email or password", nil)
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	return ok(c, http.StatusOK, "login successful", resp)
}

// Refresh exchanges a refresh token for a new pair.  The old token is
// revoked in the same transaction that stores the new one.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "refresh_token required", nil)
	}
	oldHash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	next, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		h.Log.Error("issue refresh failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	userID, err := h.Tokens.Rotate(ctx, oldHash, utils.HashRefreshRaw(next.Raw), next.Exp)
	if err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		}
		h.Log.Error("rotate refresh failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		}
		h.Log.Error("load user failed", zap.Uint64("user_id", userID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("issue access failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	return ok(c, http.StatusOK, "token refreshed", authResp{
		User:    model.ProfileOf(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: next.Raw, Expires: next.Exp},
	})
}

// Logout revokes the given refresh token.  With a valid bearer token and
// no refresh token in the body every session of the user is revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := withTimeout(c)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			h.Log.Error("revoke refresh failed", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return ok(c, http.StatusOK, "logged out", nil)
	}

	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return fail(c, http.StatusBadRequest, "provide Authorization header or refresh_token", nil)
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid token", nil)
	}
	uid, _ := claims.UserID()
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		h.Log.Error("revoke sessions failed", zap.Uint64("user_id", uid), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
	return ok(c, http.StatusOK, "logged out from all sessions", nil)
}

// Me returns the identity carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return ok(c, http.StatusOK, "current user", echo.Map{
		"user_id": uid,
		"role":    c.Get("role"),
	})
}

func (h *AuthHandler) issue(ctx context.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    model.ProfileOf(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}
