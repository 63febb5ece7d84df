package booking

import (
	"fmt"
	"time"
)

// Service identifies one of the clinic's bookable appointment types.
type Service string

const (
	ServiceDentures    Service = "dentures"
	ServiceRepairs     Service = "repairs"
	ServiceMouthguards Service = "mouthguards"
)

// Services lists every bookable service in catalog order.
var Services = []Service{ServiceDentures, ServiceRepairs, ServiceMouthguards}

// ParseService validates a raw service value coming off the wire.
// An unrecognized value is a configuration error, never defaulted.
func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServiceDentures, ServiceRepairs, ServiceMouthguards:
		return Service(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownService, s)
}

// hours is an open/close pair in whole clinic-local hours.
// Close is exclusive for slot starts: closing at 16 means the last
// bookable start is 15:00.
type hours struct {
	Open  int
	Close int
}

// businessHours holds the weekly table per service. A missing weekday
// means the clinic is closed for that service. Saturday and Sunday are
// never present.
var businessHours = map[Service]map[time.Weekday]hours{
	ServiceDentures: {
		time.Monday:    {10, 16},
		time.Tuesday:   {10, 16},
		time.Wednesday: {10, 16},
		time.Thursday:  {10, 16},
		time.Friday:    {10, 16},
	},
	ServiceRepairs: {
		time.Monday:    {10, 16},
		time.Tuesday:   {10, 16},
		time.Wednesday: {10, 16},
		time.Thursday:  {10, 16},
		time.Friday:    {10, 16},
	},
	ServiceMouthguards: {
		time.Monday:    {10, 18},
		time.Tuesday:   {10, 18},
		time.Wednesday: {10, 18},
		time.Thursday:  {10, 18},
		time.Friday:    {10, 16},
	},
}

var serviceDurations = map[Service]time.Duration{
	ServiceDentures:    60 * time.Minute,
	ServiceRepairs:     30 * time.Minute,
	ServiceMouthguards: 30 * time.Minute,
}

// SlotLength is the fixed granularity at which slots are generated,
// independent of the appointment duration used for overlap checks.
const SlotLength = time.Hour

// Duration returns the appointment length used when testing a slot
// against busy calendar time.
func (s Service) Duration() time.Duration {
	return serviceDurations[s]
}

// Hours returns the open/close hours for the given weekday, or ok=false
// when the clinic does not take this service that day.
func (s Service) Hours(day time.Weekday) (open, close int, ok bool) {
	h, ok := businessHours[s][day]
	return h.Open, h.Close, ok
}

// Label returns the patient-facing service name.
func (s Service) Label() string {
	switch s {
	case ServiceDentures:
		return "Denture Consultation"
	case ServiceRepairs:
		return "Denture Repair"
	case ServiceMouthguards:
		return "Mouthguard Fitting"
	}
	return string(s)
}

// DateKey is the ISO calendar-date key used throughout the availability
// map ("2006-01-02", clinic-local).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
