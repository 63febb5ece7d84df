package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(base time.Time, hour, min int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, min, 0, 0, base.Location())
}

func TestFilterAvailable_DenturesTuesdayScenario(t *testing.T) {
	// Dentures Tue 10:00-16:00, 60-minute appointments, one busy block
	// 12:00-13:00. Expected open starts: 10, 11, 13, 14, 15.
	date := day(t, 2026, time.March, 3)
	now := day(t, 2026, time.March, 2)
	candidates := CandidateSlots(date, ServiceDentures, now)
	busy := []BusyInterval{{Start: at(date, 12, 0), End: at(date, 13, 0)}}

	got := FilterAvailable(candidates, busy, ServiceDentures.Duration())

	require.Len(t, got, 5)
	wantHours := []int{10, 11, 13, 14, 15}
	for i, s := range got {
		assert.Equal(t, wantHours[i], s.Hour())
	}
}

func TestFilterAvailable_BoundaryTouchDoesNotConflict(t *testing.T) {
	date := day(t, 2026, time.March, 3)
	slot := at(date, 11, 0) // occupies [11:00, 12:00)

	tests := []struct {
		name     string
		busy     BusyInterval
		excluded bool
	}{
		{"busy ends exactly at slot start", BusyInterval{Start: at(date, 10, 0), End: at(date, 11, 0)}, false},
		{"busy starts exactly at slot end", BusyInterval{Start: at(date, 12, 0), End: at(date, 13, 0)}, false},
		{"one minute of overlap at the front", BusyInterval{Start: at(date, 10, 0), End: at(date, 11, 1)}, true},
		{"one minute of overlap at the back", BusyInterval{Start: at(date, 11, 59), End: at(date, 13, 0)}, true},
		{"busy fully inside the slot", BusyInterval{Start: at(date, 11, 15), End: at(date, 11, 45)}, true},
		{"slot fully inside the busy block", BusyInterval{Start: at(date, 9, 0), End: at(date, 14, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAvailable([]time.Time{slot}, []BusyInterval{tt.busy}, time.Hour)
			if tt.excluded {
				assert.Empty(t, got)
			} else {
				assert.Len(t, got, 1)
			}
		})
	}
}

func TestFilterAvailable_ShortAppointmentClearsLaterBusy(t *testing.T) {
	// A 30-minute repair starting 11:00 occupies [11:00, 11:30) and must
	// survive a busy block starting 11:30.
	date := day(t, 2026, time.March, 3)
	slot := at(date, 11, 0)
	busy := []BusyInterval{{Start: at(date, 11, 30), End: at(date, 12, 0)}}

	assert.Len(t, FilterAvailable([]time.Time{slot}, busy, ServiceRepairs.Duration()), 1)
	assert.Empty(t, FilterAvailable([]time.Time{slot}, busy, ServiceDentures.Duration()))
}

func TestFilterAvailable_NoBusyReturnsCandidatesUnchanged(t *testing.T) {
	date := day(t, 2026, time.March, 3)
	now := day(t, 2026, time.March, 2)
	candidates := CandidateSlots(date, ServiceDentures, now)

	got := FilterAvailable(candidates, nil, ServiceDentures.Duration())

	assert.Equal(t, candidates, got)
}

func TestFilterAvailable_PureAndOrderPreserving(t *testing.T) {
	date := day(t, 2026, time.March, 3)
	now := day(t, 2026, time.March, 2)
	candidates := CandidateSlots(date, ServiceDentures, now)
	busy := []BusyInterval{
		{Start: at(date, 10, 30), End: at(date, 11, 0)},
		{Start: at(date, 14, 0), End: at(date, 15, 0)},
	}

	first := FilterAvailable(candidates, busy, ServiceDentures.Duration())
	second := FilterAvailable(candidates, busy, ServiceDentures.Duration())

	require.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Before(first[i]), "chronological order preserved")
	}
}
