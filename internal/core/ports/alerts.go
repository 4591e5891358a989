package ports

import (
	"context"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// EmergencyAlert is what administrators are told about a new emergency report.
type EmergencyAlert struct {
	Report   domain.Report
	Reporter string
}

// EmergencyNotifier delivers an alert to administrators.
type EmergencyNotifier interface {
	NotifyEmergency(ctx context.Context, alert EmergencyAlert) error
}

// AlertDispatcher queues alerts for asynchronous delivery.
type AlertDispatcher interface {
	Enqueue(alert EmergencyAlert)
}
