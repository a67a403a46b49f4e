package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/config"
	"github.com/clinicflow/clinic-api/internal/email"
	"github.com/clinicflow/clinic-api/internal/gemini"
	"github.com/clinicflow/clinic-api/internal/handler/analysis"
	"github.com/clinicflow/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicflow/clinic-api/internal/handler/auth"
	"github.com/clinicflow/clinic-api/internal/handler/health"
	noteassisthandler "github.com/clinicflow/clinic-api/internal/handler/noteassist"
	notificationhandler "github.com/clinicflow/clinic-api/internal/handler/notification"
	patienthandler "github.com/clinicflow/clinic-api/internal/handler/patient"
	unithandler "github.com/clinicflow/clinic-api/internal/handler/unit"
	userhandler "github.com/clinicflow/clinic-api/internal/handler/user"
	"github.com/clinicflow/clinic-api/internal/middleware"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/repository/postgres"
	"github.com/clinicflow/clinic-api/internal/router"
	appointmentsvc "github.com/clinicflow/clinic-api/internal/service/appointment"
	authsvc "github.com/clinicflow/clinic-api/internal/service/auth"
	noteassistsvc "github.com/clinicflow/clinic-api/internal/service/noteassist"
	notificationsvc "github.com/clinicflow/clinic-api/internal/service/notification"
	patientsvc "github.com/clinicflow/clinic-api/internal/service/patient"
	unitsvc "github.com/clinicflow/clinic-api/internal/service/unit"
	usersvc "github.com/clinicflow/clinic-api/internal/service/user"
	pkgauth "github.com/clinicflow/clinic-api/pkg/auth"
	"github.com/clinicflow/clinic-api/pkg/metrics"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var db *sqlx.DB
	if cfg.StoreEnabled() {
		db, err = postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
	} else {
		log.Warn().Msg("database not configured, store access disabled")
	}
	if !cfg.NoteAssistEnabled() {
		log.Warn().Msg("model credentials not configured, note assist disabled")
	}

	m := metrics.NewMetrics("clinicflow")
	validate := validator.New()
	tokens := pkgauth.NewTokenService(pkgauth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})

	var (
		patientRepo      repository.PatientRepository
		userRepo         repository.UserRepository
		unitRepo         repository.UnitRepository
		appointmentRepo  repository.AppointmentRepository
		notificationRepo repository.NotificationRepository
		tokenRepo        repository.TokenRepository
		outboxRepo       repository.OutboxRepository
	)
	if db != nil {
		patientRepo = postgres.NewPatientRepository(db)
		userRepo = postgres.NewUserRepository(db)
		unitRepo = postgres.NewUnitRepository(db)
		appointmentRepo = postgres.NewAppointmentRepository(db)
		notificationRepo = postgres.NewNotificationRepository(db)
		tokenRepo = postgres.NewTokenRepository(db)
		outboxRepo = postgres.NewOutboxRepository(db)
	}

	var mailer email.Sender = email.NopSender{}
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPSender(cfg.SMTP)
	}

	patientService := patientsvc.NewService(patientRepo)
	userService := usersvc.NewService(userRepo)
	unitService := unitsvc.NewService(unitRepo)
	appointmentService := appointmentsvc.NewService(appointmentRepo, patientRepo)
	notificationService := notificationsvc.NewService(notificationRepo, userRepo)
	authService := authsvc.NewService(userRepo, tokenRepo, tokens, mailer)
	noteAssistService := noteassistsvc.NewService(
		gemini.NewClient(cfg.Gemini), m, cfg.Gemini.Timeout, cfg.Gemini.MaxRetries)

	handlers := router.Handlers{
		Auth:         authhandler.NewHandler(authService, validate),
		Patient:      patienthandler.NewHandler(patientService, outboxRepo, validate),
		User:         userhandler.NewHandler(userService, outboxRepo, validate),
		Appointment:  appointment.NewHandler(appointmentService, outboxRepo, validate),
		Unit:         unithandler.NewHandler(unitService, outboxRepo, validate),
		Notification: notificationhandler.NewHandler(notificationService, outboxRepo, validate),
		NoteAssist:   noteassisthandler.NewHandler(noteAssistService, cfg.NoteAssistEnabled(), validate),
		Analysis:     analysis.NewHandler(appointmentService),
		Health:       health.NewHandler(db),
	}

	authMW := middleware.NewAuthMiddleware(tokens)
	r := router.NewRouter(authMW, handlers, cfg, m)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
