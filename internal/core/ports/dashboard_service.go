package ports

import (
	"context"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// DashboardService builds the attributed report views shown to administrators.
type DashboardService interface {
	ReportsInWindow(ctx context.Context, window domain.DayWindow, severity domain.Severity) ([]domain.AttributedReport, error)
	EmergencyFeed(ctx context.Context) ([]domain.AttributedReport, error)
}
