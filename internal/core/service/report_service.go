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

// ReportService implements the incident report log.
type ReportService struct {
	repo   ports.ReportRepository
	idem   ports.IdempotencyStore
	alerts ports.AlertDispatcher
	policy domain.ReportPolicy
	now    func() time.Time
	logger zerolog.Logger
}

// NewReportService wires the report log. idem and alerts may be nil.
func NewReportService(
	repo ports.ReportRepository,
	idem ports.IdempotencyStore,
	alerts ports.AlertDispatcher,
	policy domain.ReportPolicy,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		repo:   repo,
		idem:   idem,
		alerts: alerts,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// Submit validates and appends a report. If an idempotency key is provided
// and already seen for this owner, the earlier report is returned unchanged.
// The key is reserved before the insert so concurrent retries cannot both write.
func (s *ReportService) Submit(ctx context.Context, in ports.SubmitReportInput) (*ports.SubmitReportResult, error) {
	severity, err := domain.ParseSeverity(in.Severity)
	if err != nil {
		return nil, err
	}

	now := s.now()
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
	}
	if err := domain.ValidateReport(in.OwnerID, in.Body, in.Location, occurredAt, now, s.policy); err != nil {
		return nil, err
	}

	var reserved bool
	if in.IdempotencyKey != "" && s.idem != nil {
		existing, owned, err := s.claim(ctx, in.OwnerID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.SubmitReportResult{Report: *existing, Replayed: true}, nil
		}
		reserved = owned
	}

	report := domain.Report{
		ID:         uuid.NewString(),
		OwnerID:    in.OwnerID,
		Severity:   severity,
		Body:       strings.TrimSpace(in.Body),
		Location:   strings.TrimSpace(in.Location),
		OccurredAt: occurredAt.UTC(),
	}
	if err := s.repo.Insert(ctx, &report); err != nil {
		s.logger.Error().Err(err).Str("uid", in.OwnerID).Msg("failed to insert report")
		if reserved {
			if rerr := s.idem.Release(ctx, in.OwnerID, in.IdempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("uid", in.OwnerID).Msg("failed to release idempotency key")
			}
		}
		return nil, domain.Unavailable("insert report", err)
	}

	if reserved {
		if err := s.idem.Remember(ctx, in.OwnerID, in.IdempotencyKey, report.ID); err != nil {
			s.logger.Warn().Err(err).Str("uid", in.OwnerID).Msg("failed to set idempotency key")
		}
	}

	s.logger.Info().
		Str("uid", report.OwnerID).
		Str("report_id", report.ID).
		Str("severity", string(report.Severity)).
		Msg("report submitted")

	if report.IsEmergency() && s.alerts != nil {
		reporter := in.ReporterName
		if reporter == "" {
			reporter = in.OwnerID
		}
		s.alerts.Enqueue(ports.EmergencyAlert{Report: report, Reporter: reporter})
	}

	return &ports.SubmitReportResult{Report: report}, nil
}

// claim reserves key for this submission. It returns the earlier report when
// the key was already used, and whether the caller now owns the key. A key
// still reserved by an in-flight submission yields ErrConcurrentUpdate.
// Store failures are logged and treated as a miss without ownership.
func (s *ReportService) claim(ctx context.Context, ownerID, key string) (*domain.Report, bool, error) {
	reserved, err := s.idem.Reserve(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("uid", ownerID).Msg("idempotency reserve failed, submitting anyway")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}

	id, found, err := s.idem.Lookup(ctx, ownerID, key)
	switch {
	case errors.Is(err, ports.ErrIdempotencyPending):
		return nil, false, fmt.Errorf("submit report: %w", domain.ErrConcurrentUpdate)
	case err != nil:
		s.logger.Warn().Err(err).Str("uid", ownerID).Msg("idempotency lookup failed, submitting anyway")
		return nil, false, nil
	case !found:
		// Expired between Reserve and Lookup.
		return nil, false, nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrReportNotFound) {
			s.logger.Warn().Err(err).Str("report_id", id).Msg("idempotent replay lookup failed")
			return nil, false, nil
		}
		// The mapped report is gone; this submission takes the key over.
		return nil, true, nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("report_id", id).Msg("idempotent replay")
	return existing, false, nil
}

// ListForOwner returns the owner's reports, most recent first.
func (s *ReportService) ListForOwner(ctx context.Context, ownerID string) ([]domain.Report, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.Invalid("owner is required")
	}
	return s.list(ctx, "list reports", ports.ReportFilter{OwnerID: ownerID})
}

// ListForWindow returns reports that occurred inside the window, optionally
// restricted to one severity.
func (s *ReportService) ListForWindow(ctx context.Context, window domain.DayWindow, severity domain.Severity) ([]domain.Report, error) {
	return s.list(ctx, "list reports in window", ports.ReportFilter{
		Severity: severity,
		From:     window.Start,
		To:       window.End,
	})
}

// ListEmergencies returns every emergency report, most recent first.
func (s *ReportService) ListEmergencies(ctx context.Context) ([]domain.Report, error) {
	return s.list(ctx, "list emergencies", ports.ReportFilter{Severity: domain.SeverityEmergency})
}

func (s *ReportService) list(ctx context.Context, op string, filter ports.ReportFilter) ([]domain.Report, error) {
	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Unavailable(op, err)
	}
	return reports, nil
}
