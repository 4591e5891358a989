package notification

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// messageSender is the subset of *messaging.Client used here.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier publishes emergency alerts to a Firebase Cloud Messaging topic
// that admin devices subscribe to.
type FCMNotifier struct {
	client messageSender
	topic  string
}

func NewFCMNotifier(client messageSender, topic string) *FCMNotifier {
	return &FCMNotifier{client: client, topic: topic}
}

func (n *FCMNotifier) NotifyEmergency(ctx context.Context, alert ports.EmergencyAlert) error {
	if _, err := n.client.Send(ctx, buildMessage(n.topic, alert)); err != nil {
		return fmt.Errorf("send emergency alert: %w", err)
	}
	return nil
}

func buildMessage(topic string, alert ports.EmergencyAlert) *messaging.Message {
	r := alert.Report
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: "Emergency report from " + alert.Reporter,
			Body:  fmt.Sprintf("%s (%s)", r.Body, r.Location),
		},
		Data: map[string]string{
			"report_id":   r.ID,
			"owner_id":    r.OwnerID,
			"location":    r.Location,
			"occurred_at": r.OccurredAt.UTC().Format(time.RFC3339),
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}
}
