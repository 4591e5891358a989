package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/api/middleware"
	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// ctxLanding returns the landing injected by the Profile middleware. Its
// absence means the route was mounted without the auth chain.
func ctxLanding(c echo.Context) (*domain.Landing, error) {
	landing, _ := c.Get(middleware.KeyLanding).(*domain.Landing)
	if landing == nil || landing.Profile == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return landing, nil
}

// ctxProfile returns the caller's stored profile.
func ctxProfile(c echo.Context) (*domain.Profile, error) {
	landing, err := ctxLanding(c)
	if err != nil {
		return nil, err
	}
	return landing.Profile, nil
}
