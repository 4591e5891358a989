package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// DashboardService attributes reports to their reporters for admin views.
type DashboardService struct {
	reports  ports.ReportService
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewDashboardService(reports ports.ReportService, profiles ports.ProfileRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{reports: reports, profiles: profiles, logger: logger}
}

func (s *DashboardService) ReportsInWindow(ctx context.Context, window domain.DayWindow, severity domain.Severity) ([]domain.AttributedReport, error) {
	reports, err := s.reports.ListForWindow(ctx, window, severity)
	if err != nil {
		return nil, err
	}
	return s.attribute(ctx, reports), nil
}

func (s *DashboardService) EmergencyFeed(ctx context.Context) ([]domain.AttributedReport, error) {
	reports, err := s.reports.ListEmergencies(ctx)
	if err != nil {
		return nil, err
	}
	return s.attribute(ctx, reports), nil
}

// attribute never fails: if profiles cannot be loaded every report falls back
// to its raw owner id.
func (s *DashboardService) attribute(ctx context.Context, reports []domain.Report) []domain.AttributedReport {
	profiles := map[string]*domain.Profile{}
	if len(reports) > 0 {
		ids := domain.OwnerIDs(reports)
		found, err := s.profiles.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn().Err(err).Int("owners", len(ids)).Msg("profile lookup failed, using owner ids")
		} else {
			profiles = found
		}
	}
	return domain.AttributeReports(reports, profiles)
}
