package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// ctxSession extracts the advisor session injected by the Auth middleware
// and performs a fast-fail check before any service call: username and role
// must be non-empty (presence proves the middleware ran).
func ctxSession(c echo.Context) (ports.Session, error) {
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	if username == "" || role == "" {
		return ports.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	displayName, _ := c.Get("display_name").(string)
	return ports.Session{
		Username:    username,
		DisplayName: displayName,
		Role:        role,
	}, nil
}
