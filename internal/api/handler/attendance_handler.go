package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/api/metrics"
	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// AttendanceHandler handles time-in/time-out requests and ledger reads.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// History handles GET /v1/attendance.
//
// @Summary      Get the caller's attendance ledger
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  attendanceHistoryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/attendance [get]
func (h *AttendanceHandler) History(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	return h.history(c, profile.ID)
}

// OwnerHistory handles GET /v1/admin/tanods/:uid/attendance.
//
// @Summary      Get a tanod's attendance ledger
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Profile id"
// @Success      200  {object}  attendanceHistoryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/admin/tanods/{uid}/attendance [get]
func (h *AttendanceHandler) OwnerHistory(c echo.Context) error {
	return h.history(c, c.Param("uid"))
}

func (h *AttendanceHandler) history(c echo.Context, ownerID string) error {
	hist, err := h.service.History(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(*hist))
}

// Record handles POST /v1/attendance.
//
// @Summary      Time in or time out
// @Description  kind must equal the ledger's next allowed action.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordAttendanceRequest  true  "Attendance event"
// @Success      201   {object}  recordAttendanceResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/attendance [post]
func (h *AttendanceHandler) Record(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req recordAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AttendanceRejectedTotal.WithLabelValues("validation").Inc()
		return err
	}

	res, err := h.service.Record(c.Request().Context(), ports.RecordAttendanceInput{
		OwnerID:  profile.ID,
		Kind:     domain.AttendanceKind(req.Kind),
		Location: req.Location,
	})
	if err != nil {
		metrics.AttendanceRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	metrics.AttendanceRecordedTotal.WithLabelValues(string(res.Record.Kind)).Inc()
	return c.JSON(http.StatusCreated, recordAttendanceResponse{
		Record:  toAttendanceRecordResponse(res.Record),
		History: toHistoryResponse(res.History),
	})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return "conflict"
	default:
		return "error"
	}
}
