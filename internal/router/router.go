// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/handler"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/middleware"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Chain holds the middleware shared by route groups.  RateLimit, when set,
// runs after JWTAuth on authenticated routes so that per-user keys see the
// caller id, and first on public routes.
type Chain struct {
	JWTSecret string
	RateLimit echo.MiddlewareFunc
}

func (ch Chain) public(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	var mw []echo.MiddlewareFunc
	if ch.RateLimit != nil {
		mw = append(mw, ch.RateLimit)
	}
	return append(mw, extra...)
}

func (ch Chain) authenticated(roles ...string) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(ch.JWTSecret)}
	if ch.RateLimit != nil {
		mw = append(mw, ch.RateLimit)
	}
	return append(mw, middleware.RequireRole(roles...))
}

// signedIn admits any authenticated user or admin.
func (ch Chain) signedIn() []echo.MiddlewareFunc {
	return ch.authenticated(model.RoleUser, model.RoleAdmin)
}

// adminOnly admits authenticated admins.
func (ch Chain) adminOnly() []echo.MiddlewareFunc {
	return ch.authenticated(model.RoleAdmin)
}

// RegisterAuth registers account routes.  Token exchange lives under
// /v1/auth without a session; identity and profile need an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, ch Chain) {
	g := e.Group("/v1/auth", ch.public()...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := ch.signedIn()
	e.GET("/v1/me", a.Me, auth...)
	e.GET("/v1/profile", p.Get, auth...)
	e.PUT("/v1/profile", p.Update, auth...)
}
