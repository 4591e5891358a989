package ports

import (
	"context"
	"time"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// SubmitReportInput carries a new incident report.
type SubmitReportInput struct {
	OwnerID  string
	Severity string
	Body     string
	Location string
	// OccurredAt is optional; nil means the submission time.
	OccurredAt     *time.Time
	IdempotencyKey string
	// ReporterName labels emergency alerts; the owner id is used when empty.
	ReporterName string
}

// SubmitReportResult is returned by Submit.
type SubmitReportResult struct {
	Report domain.Report
	// Replayed is true when the Idempotency-Key matched an earlier submission.
	Replayed bool
}

// ReportService defines use-case operations for the report log.
type ReportService interface {
	Submit(ctx context.Context, input SubmitReportInput) (*SubmitReportResult, error)
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Report, error)
	ListForWindow(ctx context.Context, window domain.DayWindow, severity domain.Severity) ([]domain.Report, error)
	ListEmergencies(ctx context.Context) ([]domain.Report, error)
}
