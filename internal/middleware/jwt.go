// Package middleware holds the echo middleware of the API: bearer token
// authentication, role guards, the Redis rate limiter and response cache,
// and the request logger.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller in the
// context: "user_id" as uint64 and "role" as string.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return deny(c, http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid or expired token")
			}
			uid, _ := claims.UserID()
			c.Set("user_id", uid)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
