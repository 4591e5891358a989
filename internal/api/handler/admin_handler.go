package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// AdminHandler serves the administrator dashboard.
type AdminHandler struct {
	identity   ports.IdentityService
	dashboard  ports.DashboardService
	defaultLoc *time.Location
	now        func() time.Time
}

// NewAdminHandler creates an AdminHandler. defaultLoc is the calendar
// timezone used when a request carries no tz parameter.
func NewAdminHandler(identity ports.IdentityService, dashboard ports.DashboardService, defaultLoc *time.Location) *AdminHandler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &AdminHandler{identity: identity, dashboard: dashboard, defaultLoc: defaultLoc, now: time.Now}
}

// Tanods handles GET /v1/admin/tanods.
//
// @Summary      List tanods ordered by name
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/admin/tanods [get]
func (h *AdminHandler) Tanods(c echo.Context) error {
	profiles, err := h.identity.ListTanods(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Reports handles GET /v1/admin/reports.
//
// @Summary      Reports in a date window with reporter names
// @Description  start and end are inclusive calendar dates; both default to today.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        start     query     string  false  "First day (YYYY-MM-DD)"
// @Param        end       query     string  false  "Last day (YYYY-MM-DD)"
// @Param        tz        query     string  false  "IANA timezone, e.g. Asia/Manila"
// @Param        severity  query     string  false  "normal or emergency"
// @Success      200       {object}  reportWindowResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Failure      503       {object}  errorResponse
// @Router       /v1/admin/reports [get]
func (h *AdminHandler) Reports(c echo.Context) error {
	loc, err := h.location(c.QueryParam("tz"))
	if err != nil {
		return err
	}
	window, err := domain.ParseDayWindow(c.QueryParam("start"), c.QueryParam("end"), loc, h.now())
	if err != nil {
		return err
	}

	var severity domain.Severity
	if s := c.QueryParam("severity"); s != "" {
		if severity, err = domain.ParseSeverity(s); err != nil {
			return err
		}
	}

	reports, err := h.dashboard.ReportsInWindow(c.Request().Context(), window, severity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportWindowResponse{
		Start:   window.Start,
		End:     window.End,
		Reports: toAttributedResponses(reports),
	})
}

// Emergencies handles GET /v1/admin/reports/emergencies.
//
// @Summary      Emergency feed with reporter names
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   attributedReportResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/admin/reports/emergencies [get]
func (h *AdminHandler) Emergencies(c echo.Context) error {
	reports, err := h.dashboard.EmergencyFeed(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttributedResponses(reports))
}

func (h *AdminHandler) location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return h.defaultLoc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, domain.Invalid("unknown timezone %q", tz)
	}
	return loc, nil
}
