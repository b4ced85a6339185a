package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the process is serving requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
