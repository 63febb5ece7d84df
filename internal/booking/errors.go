package booking

import "errors"

var (
	// ErrUnknownService marks a service value outside the catalog. This
	// is a programming/configuration error and is never defaulted away.
	ErrUnknownService = errors.New("unknown service")

	// ErrAvailabilityUnknown means the engine has no trustworthy
	// availability data (nothing loaded yet, load failed, or the
	// selection changed mid-flight). Callers must not treat any day as
	// bookable while this is returned.
	ErrAvailabilityUnknown = errors.New("availability unknown")

	// ErrSlotTaken means the requested slot is no longer in the last
	// known availability snapshot.
	ErrSlotTaken = errors.New("slot no longer available")
)
