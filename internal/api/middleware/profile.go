package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// Profile resolves the authenticated principal to its stored profile, creating
// it on first visit, and injects the landing and role into context. It must
// run after Auth.
func Profile(identity ports.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := c.Get(KeyPrincipal).(*domain.Principal)
			if principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			landing, err := identity.ResolveLanding(c.Request().Context(), principal)
			if err != nil {
				return err
			}

			c.Set(KeyLanding, landing)
			c.Set(KeyRole, landing.Role)
			return next(c)
		}
	}
}
