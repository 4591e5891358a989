package ports

import (
	"context"
	"time"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// RecordAttendanceInput carries a time-in or time-out request.
type RecordAttendanceInput struct {
	OwnerID  string
	Kind     domain.AttendanceKind
	Location string
	// At defaults to the current time when zero.
	At time.Time
}

// AttendanceHistory is an owner's ledger plus the action the UI should offer.
type AttendanceHistory struct {
	Records    []domain.AttendanceRecord
	NextAction domain.AttendanceKind
}

// RecordAttendanceResult is the appended record and the refreshed ledger.
type RecordAttendanceResult struct {
	Record  domain.AttendanceRecord
	History AttendanceHistory
}

// AttendanceService defines use-case operations for the attendance ledger.
type AttendanceService interface {
	Record(ctx context.Context, input RecordAttendanceInput) (*RecordAttendanceResult, error)
	History(ctx context.Context, ownerID string) (*AttendanceHistory, error)
}
