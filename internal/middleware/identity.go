package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the caller id set by JWTAuth as a key fragment,
// or "anon" before authentication.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		if v != 0 {
			return strconv.FormatUint(v, 10)
		}
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
