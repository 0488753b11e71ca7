package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"advicehub/internal/auth"
	"advicehub/internal/middleware"
)

// fail writes the structured error body every endpoint uses: a stable
// machine-readable kind plus a human-readable message. Internal error text
// never travels in either field.
func fail(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, echo.Map{"error": kind, "message": msg})
}

// principal returns the authenticated principal for this request, or nil on
// public routes.
func principal(c echo.Context) *auth.Principal {
	return middleware.CurrentPrincipal(c)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}
