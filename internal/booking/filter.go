package booking

import "time"

// FilterAvailable removes candidate slots whose occupied window
// [start, start+duration) overlaps any busy interval. Intervals are
// half-open, so a slot ending exactly when a busy period starts does
// not conflict. Pure: input order is preserved and inputs are not
// mutated.
func FilterAvailable(candidates []time.Time, busy []BusyInterval, duration time.Duration) []time.Time {
	if len(busy) == 0 {
		return candidates
	}
	out := make([]time.Time, 0, len(candidates))
	for _, start := range candidates {
		if !overlapsAny(start, start.Add(duration), busy) {
			out = append(out, start)
		}
	}
	return out
}

// overlapsAny reports whether [start, end) intersects any busy interval
// under the standard half-open test: start < b.End && b.Start < end.
func overlapsAny(start, end time.Time, busy []BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
