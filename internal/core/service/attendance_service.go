package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// AttendanceService enforces the time-in/time-out toggle over the ledger store.
type AttendanceService struct {
	repo   ports.AttendanceRepository
	lock   ports.OwnerLock
	now    func() time.Time
	logger zerolog.Logger
}

func NewAttendanceService(repo ports.AttendanceRepository, lock ports.OwnerLock, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{repo: repo, lock: lock, now: time.Now, logger: logger}
}

// Record appends a time-in or time-out for the owner if it is the next
// allowed action, then returns the refreshed ledger.
func (s *AttendanceService) Record(ctx context.Context, in ports.RecordAttendanceInput) (*ports.RecordAttendanceResult, error) {
	// 1. Input checks that need no store access.
	if err := domain.ValidateAttendanceInput(in.OwnerID, in.Kind, in.Location); err != nil {
		return nil, err
	}

	// 2. Serialise the read-then-write for this owner.
	release, err := s.lock.Acquire(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, ports.ErrLockHeld) {
			return nil, fmt.Errorf("record attendance: %w", domain.ErrConcurrentUpdate)
		}
		return nil, domain.Unavailable("acquire attendance lock", err)
	}
	defer release()

	// 3. Validate the toggle against the current ledger.
	history, err := s.repo.ListByOwner(ctx, in.OwnerID)
	if err != nil {
		return nil, domain.Unavailable("load attendance", err)
	}
	if err := domain.CheckTransition(in.Kind, history); err != nil {
		return nil, err
	}

	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	rec := domain.AttendanceRecord{
		ID:         uuid.NewString(),
		OwnerID:    in.OwnerID,
		Kind:       in.Kind,
		OccurredAt: at.UTC(),
		Location:   strings.TrimSpace(in.Location),
	}

	// 4. Append.
	if err := s.repo.Append(ctx, &rec); err != nil {
		return nil, domain.Unavailable("append attendance", err)
	}

	s.logger.Info().
		Str("uid", rec.OwnerID).
		Str("kind", string(rec.Kind)).
		Str("location", rec.Location).
		Msg("attendance recorded")

	// 5. Refresh from the store; the write already succeeded, so a failed
	// re-read falls back to the ledger we validated against.
	refreshed, err := s.repo.ListByOwner(ctx, in.OwnerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("uid", in.OwnerID).Msg("attendance refresh failed")
		refreshed = append([]domain.AttendanceRecord{rec}, history...)
	}

	return &ports.RecordAttendanceResult{
		Record: rec,
		History: ports.AttendanceHistory{
			Records:    refreshed,
			NextAction: domain.NextAllowedAction(refreshed),
		},
	}, nil
}

// History returns the owner's ledger, most recent first, with the next allowed action.
func (s *AttendanceService) History(ctx context.Context, ownerID string) (*ports.AttendanceHistory, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.Invalid("owner is required")
	}
	records, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Unavailable("load attendance", err)
	}
	return &ports.AttendanceHistory{
		Records:    records,
		NextAction: domain.NextAllowedAction(records),
	}, nil
}
