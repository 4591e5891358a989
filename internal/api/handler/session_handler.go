package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/api/metrics"
)

// SessionHandler serves the post-login routing decision and the caller's profile.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Landing handles POST /v1/session/landing.
//
// @Summary      Resolve the post-login landing page
// @Description  Creates the caller's profile with role tanod on first visit.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  landingResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/session/landing [post]
func (h *SessionHandler) Landing(c echo.Context) error {
	landing, err := ctxLanding(c)
	if err != nil {
		return err
	}

	metrics.LandingResolvedTotal.WithLabelValues(string(landing.Role), strconv.FormatBool(landing.Created)).Inc()
	return c.JSON(http.StatusOK, landingResponse{
		Role:    string(landing.Role),
		Route:   landing.Route,
		Created: landing.Created,
		Profile: toProfileResponse(landing.Profile),
	})
}

// Me handles GET /v1/me.
//
// @Summary      Get the caller's profile
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}
