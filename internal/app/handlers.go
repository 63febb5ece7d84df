package app

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dkdental-booking/internal/booking"
	"dkdental-booking/internal/mailer"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// HealthHandler reports liveness.
func (a *App) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListServicesHandler returns the service catalog the widget renders.
// GET /api/services
func (a *App) ListServicesHandler(c *gin.Context) {
	type serviceInfo struct {
		ID              string         `json:"id"`
		Label           string         `json:"label"`
		DurationMinutes int            `json:"duration_minutes"`
		Hours           map[string]any `json:"hours"`
	}

	var out []serviceInfo
	for _, svc := range booking.Services {
		hours := make(map[string]any)
		for wd := time.Monday; wd <= time.Friday; wd++ {
			if open, close, ok := svc.Hours(wd); ok {
				hours[wd.String()] = gin.H{"open": open, "close": close}
			}
		}
		out = append(out, serviceInfo{
			ID:              string(svc),
			Label:           svc.Label(),
			DurationMinutes: int(svc.Duration().Minutes()),
			Hours:           hours,
		})
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

// AvailabilityHandler returns the full availability map for a service's
// booking window: ISO date -> open start times. An absent date is not
// bookable; a present-but-empty date is fully booked.
// GET /api/availability/:service
func (a *App) AvailabilityHandler(c *gin.Context) {
	eng, svc, err := a.engine(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eng.SelectService(c.Request.Context(), svc); err != nil {
		a.unavailable(c, err)
		return
	}
	snapshot, err := eng.Snapshot()
	if err != nil {
		a.unavailable(c, err)
		return
	}

	days := make(map[string][]string, len(snapshot))
	for date, slots := range snapshot {
		days[date] = formatSlots(slots)
	}
	c.JSON(http.StatusOK, gin.H{"service": string(svc), "days": days})
}

// SlotsHandler returns the open slots for a single date.
// GET /api/availability/:service/slots?date=YYYY-MM-DD
func (a *App) SlotsHandler(c *gin.Context) {
	eng, svc, err := a.engine(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(dateLayout, c.Query("date"), a.Loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}

	if err := eng.SelectService(c.Request.Context(), svc); err != nil {
		a.unavailable(c, err)
		return
	}
	slots, err := eng.AvailableSlots(date)
	if err != nil {
		a.unavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": string(svc),
		"date":    c.Query("date"),
		"slots":   formatSlots(slots),
	})
}

type createBookingReq struct {
	Service string `json:"service" binding:"required"`
	Date    string `json:"date" binding:"required"`    // YYYY-MM-DD
	Time    string `json:"time" binding:"required"`    // HH:MM
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"required,email"`
}

// CreateBookingHandler revalidates the requested slot against the last
// availability snapshot and delegates the calendar write and the
// confirmation email.
// POST /api/bookings
func (a *App) CreateBookingHandler(c *gin.Context) {
	var req createBookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng, svc, err := a.engine(req.Service)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, req.Date+" "+req.Time, a.Loc)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date or time"})
		return
	}

	if err := eng.SelectService(c.Request.Context(), svc); err != nil {
		a.unavailable(c, err)
		return
	}

	conf, err := eng.SubmitBooking(c.Request.Context(), start, booking.Contact{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "this slot is no longer available, please pick another"})
		return
	case errors.Is(err, booking.ErrAvailabilityUnknown):
		a.unavailable(c, err)
		return
	case err != nil:
		a.Log.Error("booking submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking could not be completed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference": conf.Reference,
		"service":   string(conf.Service),
		"date":      conf.Start.Format(dateLayout),
		"time":      conf.Start.Format(timeLayout),
	})
}

type contactReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// ContactHandler relays a contact-form submission to the practice
// mailbox.
// POST /api/contact
func (a *App) ContactHandler(c *gin.Context) {
	var req contactReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := a.Contact.Relay(c.Request.Context(), mailer.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		a.Log.Error("contact relay failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message could not be sent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// unavailable maps an engine failure to the "technical difficulties"
// response. Availability is never faked when the calendar cannot be
// reached; the widget falls back to phone/email contact.
func (a *App) unavailable(c *gin.Context, err error) {
	if errors.Is(err, booking.ErrUnknownService) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.Log.Warn("availability unavailable", zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "appointment availability is temporarily unavailable",
		"fallback": gin.H{
			"message": fmt.Sprintf("Please call %s or email %s to book.", a.Cfg.ClinicName, a.Cfg.ClinicMail),
			"email":   a.Cfg.ClinicMail,
		},
	})
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(timeLayout))
	}
	sort.Strings(out)
	return out
}
