package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle of the availability cache.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Fetcher reads raw calendar events for a time window. Implementations
// must return an error on any fetch failure; an empty result means the
// calendar really is empty, never "could not reach it".
type Fetcher interface {
	Events(ctx context.Context, from, to time.Time) ([]Event, error)
}

// Writer creates the appointment on the external calendar and returns
// the created event ID.
type Writer interface {
	CreateAppointment(ctx context.Context, appt Appointment) (string, error)
}

// Notifier sends the patient-facing booking confirmation.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, appt Appointment) error
}

// Contact is the patient's details captured by the booking form.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// Appointment is a confirmed booking handed to the write collaborators.
type Appointment struct {
	Reference string
	Service   Service
	Start     time.Time
	End       time.Time
	Contact   Contact
	Notes     string
}

// Confirmation is returned to the caller after a successful submission.
type Confirmation struct {
	Reference string
	EventID   string
	Service   Service
	Start     time.Time
}

const (
	defaultWindowMonths = 3
	defaultFetchTimeout = 30 * time.Second
)

// EngineConfig wires an Engine's collaborators. Fetcher and Location
// are required; Writer and Notifier may be nil for read-only use.
type EngineConfig struct {
	Fetcher  Fetcher
	Writer   Writer
	Notifier Notifier
	Location *time.Location

	// WindowMonths is how far ahead availability is computed (default 3).
	WindowMonths int
	// FetchTimeout bounds the external fetch (default 30s); a timeout is
	// a fetch failure, never substituted with synthetic data.
	FetchTimeout time.Duration
	// Now is a clock hook for tests.
	Now    func() time.Time
	Logger *zap.Logger
}

// Engine owns the availability cache for one booking-widget instance:
// it orchestrates slot generation, busy extraction and filtering into a
// per-service availability map, and validates booking submissions
// against the last loaded snapshot before delegating the write.
type Engine struct {
	fetcher  Fetcher
	writer   Writer
	notifier Notifier
	loc      *time.Location
	window   int
	timeout  time.Duration
	now      func() time.Time
	log      *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	state   State
	service Service
	epoch   uint64
	avail   map[string][]time.Time
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Fetcher == nil {
		panic("booking: fetcher required")
	}
	if cfg.Location == nil {
		panic("booking: location required")
	}
	if cfg.WindowMonths <= 0 {
		cfg.WindowMonths = defaultWindowMonths
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		fetcher:  cfg.Fetcher,
		writer:   cfg.Writer,
		notifier: cfg.Notifier,
		loc:      cfg.Location,
		window:   cfg.WindowMonths,
		timeout:  cfg.FetchTimeout,
		now:      cfg.Now,
		log:      cfg.Logger,
		state:    StateEmpty,
	}
}

// State returns the cache lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SelectedService returns the currently selected service, if any.
func (e *Engine) SelectedService() (Service, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.service, e.service != ""
}

// SelectService makes svc the active service and loads its availability
// window. Reselecting a Ready service is a no-op; selecting while a
// load for the same service is in flight attaches to that load rather
// than starting a second fetch. Switching services invalidates the
// cache, and a fetch that was already in flight for the old selection
// has its result discarded when it lands.
func (e *Engine) SelectService(ctx context.Context, svc Service) error {
	if _, err := ParseService(string(svc)); err != nil {
		return err
	}

	e.mu.Lock()
	if e.service == svc {
		switch e.state {
		case StateReady:
			e.mu.Unlock()
			return nil
		case StateLoading:
			epoch := e.epoch
			e.mu.Unlock()
			return e.load(svc, epoch)
		}
	}
	e.service = svc
	e.epoch++
	epoch := e.epoch
	e.state = StateLoading
	e.avail = nil
	e.mu.Unlock()

	return e.load(svc, epoch)
}

// load performs (or attaches to) the single-flight fetch-and-build for
// svc, then installs the result unless the selection moved on.
func (e *Engine) load(svc Service, epoch uint64) error {
	v, err, shared := e.group.Do(string(svc), func() (interface{}, error) {
		// Detached from any one caller's context: attached callers share
		// this operation and must not lose it to the first caller's
		// cancellation. The fetch timeout still bounds it.
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		now := e.now().In(e.loc)
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
		to := from.AddDate(0, e.window, 0)

		events, err := e.fetcher.Events(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("fetch calendar events: %w", err)
		}
		return e.buildAvailability(svc, events, from, to, now), nil
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.service != svc || e.epoch != epoch {
		// The selection changed while this fetch was in flight. The
		// result no longer describes the active service: drop it.
		e.log.Debug("discarding stale availability load",
			zap.String("service", string(svc)),
			zap.String("selected", string(e.service)))
		return ErrAvailabilityUnknown
	}
	if err != nil {
		e.state = StateUnavailable
		e.avail = nil
		e.log.Warn("availability load failed",
			zap.String("service", string(svc)), zap.Error(err))
		return err
	}

	e.avail = v.(map[string][]time.Time)
	e.state = StateReady
	e.log.Info("availability loaded",
		zap.String("service", string(svc)),
		zap.Int("days", len(e.avail)),
		zap.Bool("shared_fetch", shared))
	return nil
}

// buildAvailability runs generation and filtering for every day of the
// window. Days with no candidates (weekends, closed days, today after
// closing) are absent from the map; a present-but-empty day means fully
// booked.
func (e *Engine) buildAvailability(svc Service, events []Event, from, to, now time.Time) map[string][]time.Time {
	busy := ExtractBusyIntervals(events, e.loc)
	avail := make(map[string][]time.Time)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		candidates := CandidateSlots(day, svc, now)
		if len(candidates) == 0 {
			continue
		}
		key := DateKey(day)
		avail[key] = FilterAvailable(candidates, busy[key], svc.Duration())
	}
	return avail
}

// AvailableSlots returns the open slot starts for one clinic-local
// date. ErrAvailabilityUnknown is returned whenever the cache is not
// Ready — a failed or in-flight load never looks like an empty day. A
// nil slice with nil error means the date is simply not bookable
// (weekend, closed, or outside the loaded window).
func (e *Engine) AvailableSlots(date time.Time) ([]time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return nil, ErrAvailabilityUnknown
	}
	slots, ok := e.avail[DateKey(date.In(e.loc))]
	if !ok {
		return nil, nil
	}
	return append([]time.Time(nil), slots...), nil
}

// Snapshot returns a copy of the whole availability map, keyed by ISO
// date. Only valid in the Ready state.
func (e *Engine) Snapshot() (map[string][]time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return nil, ErrAvailabilityUnknown
	}
	out := make(map[string][]time.Time, len(e.avail))
	for k, v := range e.avail {
		out[k] = append([]time.Time(nil), v...)
	}
	return out, nil
}

// SubmitBooking validates that the slot is still open in the last
// loaded snapshot, then delegates the actual write to the calendar
// writer and the confirmation to the notifier. A slot that is no
// longer listed yields ErrSlotTaken. A failed confirmation email does
// not undo the booking; a failed calendar write releases the slot.
func (e *Engine) SubmitBooking(ctx context.Context, start time.Time, contact Contact) (*Confirmation, error) {
	if e.writer == nil {
		return nil, fmt.Errorf("booking: no calendar writer configured")
	}
	if contact.Name == "" || contact.Email == "" {
		return nil, fmt.Errorf("booking: contact name and email required")
	}

	start = start.In(e.loc)
	key := DateKey(start)

	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return nil, ErrAvailabilityUnknown
	}
	svc := e.service
	idx := -1
	for i, s := range e.avail[key] {
		if s.Equal(start) {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return nil, ErrSlotTaken
	}
	// Hold the slot locally so a concurrent double submit conflicts
	// before it reaches the calendar.
	slots := e.avail[key]
	e.avail[key] = append(append([]time.Time(nil), slots[:idx]...), slots[idx+1:]...)
	e.mu.Unlock()

	appt := Appointment{
		Reference: uuid.NewString(),
		Service:   svc,
		Start:     start,
		End:       start.Add(svc.Duration()),
		Contact:   contact,
	}

	eventID, err := e.writer.CreateAppointment(ctx, appt)
	if err != nil {
		e.releaseSlot(svc, key, start)
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if e.notifier != nil {
		if err := e.notifier.SendBookingConfirmation(ctx, appt); err != nil {
			// Booking stands; the clinic follows up by phone if needed.
			e.log.Warn("booking confirmation email failed",
				zap.String("reference", appt.Reference), zap.Error(err))
		}
	}

	e.log.Info("booking submitted",
		zap.String("reference", appt.Reference),
		zap.String("service", string(svc)),
		zap.Time("start", start),
		zap.String("event_id", eventID))

	return &Confirmation{
		Reference: appt.Reference,
		EventID:   eventID,
		Service:   svc,
		Start:     start,
	}, nil
}

// releaseSlot puts a held slot back after a failed calendar write,
// provided the cache still describes the same service.
func (e *Engine) releaseSlot(svc Service, key string, start time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady || e.service != svc {
		return
	}
	slots := e.avail[key]
	pos := len(slots)
	for i, s := range slots {
		if start.Before(s) {
			pos = i
			break
		}
	}
	slots = append(slots, time.Time{})
	copy(slots[pos+1:], slots[pos:])
	slots[pos] = start
	e.avail[key] = slots
}
