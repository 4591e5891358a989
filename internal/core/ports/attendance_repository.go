package ports

import (
	"context"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// AttendanceRepository is the append-only attendance ledger store.
type AttendanceRepository interface {
	Append(ctx context.Context, rec *domain.AttendanceRecord) error
	// ListByOwner returns the owner's records, most recent first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.AttendanceRecord, error)
}
