package app

import (
	"time"

	"go.uber.org/zap"

	"dkdental-booking/internal/booking"
	"dkdental-booking/internal/config"
	"dkdental-booking/internal/mailer"
)

// App carries the wired collaborators the HTTP handlers need: one
// availability engine per service (so concurrent widget loads share a
// single calendar fetch per service), the contact-form relay, and the
// form-token secret.
type App struct {
	Cfg     *config.Config
	Log     *zap.Logger
	Loc     *time.Location
	Engines map[booking.Service]*booking.Engine
	Contact *mailer.ContactRelay
}

// engine returns the engine for a raw service value off the wire.
func (a *App) engine(raw string) (*booking.Engine, booking.Service, error) {
	svc, err := booking.ParseService(raw)
	if err != nil {
		return nil, "", err
	}
	return a.Engines[svc], svc, nil
}
