package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pawhub/vetbook-api/internal/config"
	"github.com/pawhub/vetbook-api/internal/email"
	authHandler "github.com/pawhub/vetbook-api/internal/handler/auth"
	bookingHandler "github.com/pawhub/vetbook-api/internal/handler/booking"
	clinicHandler "github.com/pawhub/vetbook-api/internal/handler/clinic"
	healthHandler "github.com/pawhub/vetbook-api/internal/handler/health"
	petHandler "github.com/pawhub/vetbook-api/internal/handler/pet"
	prometheusHandler "github.com/pawhub/vetbook-api/internal/handler/prometheus"
	scheduleHandler "github.com/pawhub/vetbook-api/internal/handler/schedule"
	staffHandler "github.com/pawhub/vetbook-api/internal/handler/staff"
	treatmentHandler "github.com/pawhub/vetbook-api/internal/handler/treatment"
	vetserviceHandler "github.com/pawhub/vetbook-api/internal/handler/vetservice"
	"github.com/pawhub/vetbook-api/internal/middleware"
	"github.com/pawhub/vetbook-api/internal/repository/postgres"
	"github.com/pawhub/vetbook-api/internal/router"
	auditService "github.com/pawhub/vetbook-api/internal/service/audit"
	authService "github.com/pawhub/vetbook-api/internal/service/auth"
	bookingService "github.com/pawhub/vetbook-api/internal/service/booking"
	clinicService "github.com/pawhub/vetbook-api/internal/service/clinic"
	petService "github.com/pawhub/vetbook-api/internal/service/pet"
	scheduleService "github.com/pawhub/vetbook-api/internal/service/schedule"
	staffService "github.com/pawhub/vetbook-api/internal/service/staff"
	treatmentService "github.com/pawhub/vetbook-api/internal/service/treatment"
	vetserviceService "github.com/pawhub/vetbook-api/internal/service/vetservice"
	"github.com/pawhub/vetbook-api/pkg/auth"
	"github.com/pawhub/vetbook-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	clinicRepo := postgres.NewClinicRepository(db)
	userRepo := postgres.NewUserRepository(db)
	petRepo := postgres.NewPetRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	var mailer email.Service = email.NoopService{}
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// Services
	auditSvc := auditService.NewService(auditRepo)
	authSvc := authService.NewService(userRepo, jwtSvc, auditSvc)
	clinicSvc := clinicService.NewService(clinicRepo, userRepo, auditSvc)
	petSvc := petService.NewService(petRepo, auditSvc)
	vetSvc := vetserviceService.NewService(serviceRepo, auditSvc)
	scheduleSvc := scheduleService.NewService(scheduleRepo, auditSvc)
	bookingSvc := bookingService.NewService(bookingRepo, scheduleRepo, clinicRepo,
		petRepo, serviceRepo, userRepo, outboxRepo, auditSvc, mailer, appLogger)
	treatmentSvc := treatmentService.NewService(treatmentRepo, bookingSvc, auditSvc)
	staffSvc := staffService.NewService(userRepo, authSvc, auditSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handlers := router.Handlers{
		Auth:       authHandler.NewHandler(authSvc),
		Booking:    bookingHandler.NewHandler(bookingSvc),
		Clinic:     clinicHandler.NewHandler(clinicSvc, vetSvc),
		Pet:        petHandler.NewHandler(petSvc, treatmentSvc),
		Schedule:   scheduleHandler.NewHandler(scheduleSvc),
		Staff:      staffHandler.NewHandler(staffSvc),
		Treatment:  treatmentHandler.NewHandler(treatmentSvc),
		VetService: vetserviceHandler.NewHandler(vetSvc),
		Health:     healthHandler.NewHandler(db),
		Metrics:    prometheusHandler.New(),
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:  cfg.RateLimit.Burst,
		Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig: middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
