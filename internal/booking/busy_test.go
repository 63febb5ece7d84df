package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBusyIntervals_DropsNonBlockingEvents(t *testing.T) {
	start := time.Date(2026, time.March, 3, 10, 0, 0, 0, testLoc)

	tests := []struct {
		name   string
		event  Event
		blocks bool
	}{
		{
			"regular appointment",
			Event{ID: "1", Start: start, End: start.Add(time.Hour)},
			true,
		},
		{
			"working location marker",
			Event{ID: "2", Start: start, End: start.Add(time.Hour), EventType: "workingLocation"},
			false,
		},
		{
			"transparent event",
			Event{ID: "3", Start: start, End: start.Add(time.Hour), Transparency: "transparent"},
			false,
		},
		{
			"all-day marker",
			Event{ID: "4", AllDay: true},
			false,
		},
		{
			"zero duration",
			Event{ID: "5", Start: start, End: start},
			false,
		},
		{
			"negative duration",
			Event{ID: "6", Start: start, End: start.Add(-time.Hour)},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			busy := ExtractBusyIntervals([]Event{tt.event}, testLoc)
			if tt.blocks {
				require.Len(t, busy["2026-03-03"], 1)
			} else {
				assert.Empty(t, busy)
			}
		})
	}
}

func TestExtractBusyIntervals_BucketsByStartDate(t *testing.T) {
	events := []Event{
		{ID: "a", Start: time.Date(2026, time.March, 3, 10, 0, 0, 0, testLoc), End: time.Date(2026, time.March, 3, 11, 0, 0, 0, testLoc)},
		{ID: "b", Start: time.Date(2026, time.March, 3, 14, 0, 0, 0, testLoc), End: time.Date(2026, time.March, 3, 15, 30, 0, 0, testLoc)},
		{ID: "c", Start: time.Date(2026, time.March, 4, 9, 0, 0, 0, testLoc), End: time.Date(2026, time.March, 4, 10, 0, 0, 0, testLoc)},
		// Crosses midnight: bucketed under its start date only.
		{ID: "d", Start: time.Date(2026, time.March, 5, 23, 0, 0, 0, testLoc), End: time.Date(2026, time.March, 6, 1, 0, 0, 0, testLoc)},
	}

	busy := ExtractBusyIntervals(events, testLoc)

	assert.Len(t, busy["2026-03-03"], 2)
	assert.Len(t, busy["2026-03-04"], 1)
	assert.Len(t, busy["2026-03-05"], 1)
	assert.NotContains(t, busy, "2026-03-06")
}

func TestExtractBusyIntervals_ConvertsToClinicTime(t *testing.T) {
	// A UTC event lands in the Sydney date of its local start.
	events := []Event{
		{ID: "utc", Start: time.Date(2026, time.March, 2, 23, 0, 0, 0, time.UTC), End: time.Date(2026, time.March, 2, 23, 30, 0, 0, time.UTC)},
	}

	busy := ExtractBusyIntervals(events, testLoc)

	// 23:00 UTC on 2 March is 10:00 AEDT on 3 March.
	require.Len(t, busy["2026-03-03"], 1)
	assert.Equal(t, 10, busy["2026-03-03"][0].Start.Hour())
}
