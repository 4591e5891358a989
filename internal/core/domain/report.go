package domain

import (
	"strings"
	"time"
)

// Severity tags a report as routine or urgent.
type Severity string

const (
	SeverityNormal    Severity = "normal"
	SeverityEmergency Severity = "emergency"
)

// ParseSeverity accepts the empty string as SeverityNormal.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case "", SeverityNormal:
		return SeverityNormal, nil
	case SeverityEmergency:
		return SeverityEmergency, nil
	default:
		return "", Invalid("severity must be one of: normal emergency")
	}
}

// UnknownLocation is shown for legacy reports stored without a location.
const UnknownLocation = "Unknown location"

// Report is an incident report filed by a tanod.
type Report struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Severity   Severity  `json:"severity"`
	Body       string    `json:"body"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsEmergency reports whether the report belongs on the emergency feed.
func (r *Report) IsEmergency() bool {
	return r.Severity == SeverityEmergency
}

// ReportPolicy bounds caller-supplied occurrence times.
type ReportPolicy struct {
	AllowFuture bool
	FutureSkew  time.Duration
}

// ValidateReport checks the caller-supplied fields of a new report.
func ValidateReport(ownerID, body, location string, occurredAt, now time.Time, policy ReportPolicy) error {
	if strings.TrimSpace(ownerID) == "" {
		return Invalid("owner is required")
	}
	if strings.TrimSpace(body) == "" {
		return Invalid("report body is required")
	}
	if strings.TrimSpace(location) == "" {
		return Invalid("report location is required")
	}
	if !policy.AllowFuture && occurredAt.After(now.Add(policy.FutureSkew)) {
		return Invalid("occurred_at cannot be in the future")
	}
	return nil
}
