package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dkdental-booking/internal/app"
	"dkdental-booking/internal/booking"
	"dkdental-booking/internal/calendar"
	"dkdental-booking/internal/config"
	"dkdental-booking/internal/logging"
	"dkdental-booking/internal/mailer"
	"dkdental-booking/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	if cfg.FormTokenSecret == "" {
		logger.Fatal("FORM_TOKEN_SECRET required")
	}
	if !cfg.HasGoogleCredentials() {
		logger.Fatal("google calendar credentials required (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN)")
	}

	creds := calendar.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	}
	cal, err := calendar.NewClient(ctx, creds, cfg.CalendarID, loc)
	if err != nil {
		logger.Fatal("failed to create calendar client", zap.Error(err))
	}

	var mail mailer.Mailer
	if cfg.MailFrom != "" {
		ts, err := creds.TokenSource(ctx)
		if err != nil {
			logger.Fatal("failed to build token source", zap.Error(err))
		}
		mail, err = mailer.NewGmailMailer(ctx, ts, cfg.MailFrom)
		if err != nil {
			logger.Fatal("failed to create gmail mailer", zap.Error(err))
		}
	} else {
		logger.Warn("MAIL_FROM not set, using dev mailer")
		mail = &mailer.DevMailer{Log: logger}
	}

	notifier := &mailer.BookingNotifier{
		Mailer:     mail,
		ClinicName: cfg.ClinicName,
		ClinicMail: cfg.ClinicMail,
	}
	engines := make(map[booking.Service]*booking.Engine, len(booking.Services))
	for _, svc := range booking.Services {
		engines[svc] = booking.NewEngine(booking.EngineConfig{
			Fetcher:      cal,
			Writer:       cal,
			Notifier:     notifier,
			Location:     loc,
			WindowMonths: cfg.WindowMonths,
			FetchTimeout: cfg.FetchTimeout,
			Logger:       logger.With(zap.String("service", string(svc))),
		})
	}

	appInstance := &app.App{
		Cfg:     cfg,
		Log:     logger,
		Loc:     loc,
		Engines: engines,
		Contact: &mailer.ContactRelay{Mailer: mail, ClinicMail: cfg.ClinicMail},
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.GET("/healthz", appInstance.HealthHandler)

	api := router.Group("/api")
	{
		api.GET("/services", appInstance.ListServicesHandler)
		api.GET("/availability/:service", appInstance.AvailabilityHandler)
		api.GET("/availability/:service/slots", appInstance.SlotsHandler)
		api.GET("/form-token", appInstance.FormTokenHandler)

		forms := api.Group("")
		forms.Use(appInstance.RequireFormToken())
		{
			forms.POST("/bookings", appInstance.CreateBookingHandler)
			forms.POST("/contact", appInstance.ContactHandler)
		}
	}

	logger.Info("starting server", zap.String("port", cfg.AppPort))
	if err := server.Run(router, cfg.AppPort, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
