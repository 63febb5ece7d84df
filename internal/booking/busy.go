package booking

import "time"

// Event is one calendar event as delivered by the external calendar
// fetcher, already parsed into clinic-local times. AllDay marks events
// that only carried a date (no explicit start/end clock time).
type Event struct {
	ID           string
	Summary      string
	Start        time.Time
	End          time.Time
	EventType    string
	Transparency string
	AllDay       bool
}

// BusyInterval is a blocking time range derived from one calendar event.
// Start < End always holds; zero-duration events never produce one.
type BusyInterval struct {
	Start   time.Time
	End     time.Time
	Summary string
}

const (
	eventTypeWorkingLocation = "workingLocation"
	transparencyTransparent  = "transparent"
)

// ExtractBusyIntervals turns raw calendar events into busy intervals
// bucketed by clinic-local ISO date of the event start. Events that do
// not block appointment time are dropped: working-location markers,
// transparent (free) events, all-day markers, and zero-duration events.
// A multi-day event is bucketed under its start date only.
func ExtractBusyIntervals(events []Event, loc *time.Location) map[string][]BusyInterval {
	busy := make(map[string][]BusyInterval)
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		if ev.EventType == eventTypeWorkingLocation {
			continue
		}
		if ev.Transparency == transparencyTransparent {
			continue
		}
		start := ev.Start.In(loc)
		end := ev.End.In(loc)
		if !start.Before(end) {
			continue
		}
		key := DateKey(start)
		busy[key] = append(busy[key], BusyInterval{Start: start, End: end, Summary: ev.Summary})
	}
	return busy
}
