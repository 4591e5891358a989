package domain

import (
	"strings"
	"time"
)

// AttendanceKind is the direction of an attendance event.
type AttendanceKind string

const (
	KindIn  AttendanceKind = "in"
	KindOut AttendanceKind = "out"
)

// Valid reports whether k is one of the known kinds.
func (k AttendanceKind) Valid() bool {
	return k == KindIn || k == KindOut
}

// Opposite returns the other kind.
func (k AttendanceKind) Opposite() AttendanceKind {
	if k == KindIn {
		return KindOut
	}
	return KindIn
}

// AttendanceRecord is a single time-in or time-out event.
type AttendanceRecord struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	Kind       AttendanceKind `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
	Location   string         `json:"location"`
}

// NextAllowedAction derives the only kind that may be recorded next.
// records must be ordered most recent first; an empty history allows KindIn.
func NextAllowedAction(records []AttendanceRecord) AttendanceKind {
	if len(records) == 0 {
		return KindIn
	}
	return records[0].Kind.Opposite()
}

// ValidateAttendanceInput checks the caller-supplied fields of a record,
// independent of the owner's history.
func ValidateAttendanceInput(ownerID string, kind AttendanceKind, location string) error {
	if strings.TrimSpace(ownerID) == "" {
		return Invalid("owner is required")
	}
	if !kind.Valid() {
		return Invalid("kind must be one of: in out")
	}
	if strings.TrimSpace(location) == "" {
		return Invalid("location is required")
	}
	return nil
}

// CheckTransition rejects kind unless it is the next allowed action.
func CheckTransition(kind AttendanceKind, history []AttendanceRecord) error {
	if next := NextAllowedAction(history); kind != next {
		return Invalid("cannot time %s: next allowed action is %s", kind, next)
	}
	return nil
}

// ValidateAttendance checks a requested record against the owner's history.
func ValidateAttendance(ownerID string, kind AttendanceKind, location string, history []AttendanceRecord) error {
	if err := ValidateAttendanceInput(ownerID, kind, location); err != nil {
		return err
	}
	return CheckTransition(kind, history)
}
