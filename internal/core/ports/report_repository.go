package ports

import (
	"context"
	"time"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// ReportFilter narrows a report listing. Zero values mean no constraint.
type ReportFilter struct {
	OwnerID  string
	Severity domain.Severity
	From     time.Time // occurred_at >= From
	To       time.Time // occurred_at <= To
}

// ReportRepository is the append-only report log store.
type ReportRepository interface {
	Insert(ctx context.Context, r *domain.Report) error
	// FindByID returns domain.ErrReportNotFound when no report exists.
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns matching reports, most recent first.
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
}
