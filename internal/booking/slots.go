package booking

import "time"

// CandidateSlots expands the business-hours table into the full set of
// candidate slot starts for one calendar day, before any busy filtering.
// Weekends and closed weekdays yield nothing. When date is the current
// day and the wall clock has reached the closing hour, the whole day is
// treated as gone; the rule never applies to future dates.
//
// date and now must carry the clinic's location.
func CandidateSlots(date time.Time, svc Service, now time.Time) []time.Time {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return nil
	}
	open, close, ok := svc.Hours(wd)
	if !ok {
		return nil
	}
	if sameDay(date, now) && now.Hour() >= close {
		return nil
	}

	year, month, day := date.Date()
	slots := make([]time.Time, 0, close-open)
	for h := open; h < close; h++ {
		slots = append(slots, time.Date(year, month, day, h, 0, 0, 0, date.Location()))
	}
	return slots
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
