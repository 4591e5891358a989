package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// LogNotifier writes alerts to the log. Used when push delivery is not configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyEmergency(_ context.Context, alert ports.EmergencyAlert) error {
	n.log.Warn().
		Str("report_id", alert.Report.ID).
		Str("reporter", alert.Reporter).
		Str("location", alert.Report.Location).
		Time("occurred_at", alert.Report.OccurredAt).
		Msg("emergency report")
	return nil
}
