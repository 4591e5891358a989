package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prepend mirrors the store's newest-first ordering.
func prepend(history []AttendanceRecord, kind AttendanceKind) []AttendanceRecord {
	rec := AttendanceRecord{OwnerID: "u1", Kind: kind, Location: "Plaza", OccurredAt: time.Now()}
	return append([]AttendanceRecord{rec}, history...)
}

func TestNextAllowedAction(t *testing.T) {
	tests := []struct {
		name    string
		history []AttendanceRecord
		want    AttendanceKind
	}{
		{name: "no records", history: nil, want: KindIn},
		{name: "last in", history: prepend(nil, KindIn), want: KindOut},
		{name: "last out", history: prepend(prepend(nil, KindIn), KindOut), want: KindIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAllowedAction(tt.history))
		})
	}
}

func TestValidateAttendance_Rejections(t *testing.T) {
	lastIn := prepend(nil, KindIn)
	tests := []struct {
		name     string
		owner    string
		kind     AttendanceKind
		location string
		history  []AttendanceRecord
	}{
		{name: "missing owner", owner: "", kind: KindIn, location: "Plaza"},
		{name: "blank location", owner: "u1", kind: KindIn, location: "   "},
		{name: "unknown kind", owner: "u1", kind: "break", location: "Plaza"},
		{name: "out with no records", owner: "u1", kind: KindOut, location: "Plaza"},
		{name: "in after in", owner: "u1", kind: KindIn, location: "Plaza", history: lastIn},
		{name: "out after out", owner: "u1", kind: KindOut, location: "Plaza", history: prepend(lastIn, KindOut)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttendance(tt.owner, tt.kind, tt.location, tt.history)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestAttendance_AlternationScenario(t *testing.T) {
	var history []AttendanceRecord

	require.Equal(t, KindIn, NextAllowedAction(history))
	require.NoError(t, ValidateAttendance("u1", KindIn, "Plaza", history))
	history = prepend(history, KindIn)

	require.Equal(t, KindOut, NextAllowedAction(history))
	require.ErrorIs(t, ValidateAttendance("u1", KindIn, "Plaza", history), ErrValidation)

	require.NoError(t, ValidateAttendance("u1", KindOut, "Plaza", history))
	history = prepend(history, KindOut)
	assert.Equal(t, KindIn, NextAllowedAction(history))
}

func TestAttendance_AcceptedSequencesAlternate(t *testing.T) {
	var history []AttendanceRecord
	attempts := []AttendanceKind{KindOut, KindIn, KindIn, KindOut, KindOut, KindIn, KindOut, KindIn}

	for _, kind := range attempts {
		if ValidateAttendance("u1", kind, "Gate 2", history) == nil {
			history = prepend(history, kind)
		}
	}

	require.NotEmpty(t, history)
	assert.Equal(t, KindIn, history[len(history)-1].Kind, "oldest record must be a time-in")
	for i := 1; i < len(history); i++ {
		assert.NotEqual(t, history[i-1].Kind, history[i].Kind, "consecutive records at %d share a kind", i)
	}
}
