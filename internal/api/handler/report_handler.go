package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tanodwatch/tanod-system/internal/api/metrics"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// ReportHandler handles incident report submission and the caller's report list.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit handles POST /v1/reports.
//
// @Summary      Submit an incident report
// @Description  severity is "normal" (default) or "emergency". Emergencies alert administrators.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string               false  "Client key for safe retries"
// @Param        body             body      submitReportRequest  true   "Report"
// @Success      201              {object}  submitReportResponse
// @Success      200              {object}  submitReportResponse  "Replayed submission"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Same Idempotency-Key still in flight"
// @Failure      422              {object}  errorResponse
// @Failure      503              {object}  errorResponse
// @Router       /v1/reports [post]
func (h *ReportHandler) Submit(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Submit(c.Request().Context(), ports.SubmitReportInput{
		OwnerID:        profile.ID,
		Severity:       req.Severity,
		Body:           req.Body,
		Location:       req.Location,
		OccurredAt:     req.OccurredAt,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
		ReporterName:   profile.Label(),
	})
	if err != nil {
		return err
	}

	metrics.ReportsSubmittedTotal.WithLabelValues(string(res.Report.Severity), strconv.FormatBool(res.Replayed)).Inc()
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, submitReportResponse{Report: toReportResponse(res.Report), Replayed: res.Replayed})
}

// List handles GET /v1/reports.
//
// @Summary      List the caller's reports, most recent first
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   reportResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListForOwner(c.Request().Context(), profile.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponses(reports))
}
