package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/pawhub/vetbook-api/internal/config"
	"github.com/pawhub/vetbook-api/internal/email"
	"github.com/pawhub/vetbook-api/internal/repository/postgres"
	"github.com/pawhub/vetbook-api/pkg/logger"
	"github.com/pawhub/vetbook-api/pkg/messaging/redis"
	"github.com/pawhub/vetbook-api/pkg/metrics"
	"github.com/pawhub/vetbook-api/pkg/worker"
)

// WorkerEnv holds knobs specific to the background worker binary. The
// shared settings (database, redis, outbox batch) come from config.yaml.
type WorkerEnv struct {
	HealthPort       int           `envconfig:"HEALTH_PORT" default:"8081"`
	RetryAttempts    int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay       time.Duration `envconfig:"RETRY_DELAY" default:"5s"`
	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"15m"`
	CleanupInterval  time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env WorkerEnv
	if err := envconfig.Process("WORKER", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker environment")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

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

	workerMetrics := metrics.NewMetrics("vetbook_worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: env.RetryAttempts,
		RetryDelay:    env.RetryDelay,
	}, appLogger, workerMetrics)

	reminder := worker.NewReminderWorker(bookingRepo, userRepo, clinicRepo, mailer,
		env.ReminderInterval, appLogger, workerMetrics)

	cleaner := worker.NewCleanupWorker(auditRepo, outboxRepo,
		cfg.Outbox.RetentionPeriod, env.CleanupInterval, appLogger, workerMetrics)

	startHealthServer(env.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, w := range []interface{ Start(context.Context) }{processor, reminder, cleaner} {
		wg.Add(1)
		go func(w interface{ Start(context.Context) }) {
			defer wg.Done()
			w.Start(ctx)
		}(w)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutting down workers")
	cancel()
	wg.Wait()
}

func startHealthServer(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := ":" + strconv.Itoa(port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Error(err, "Health server failed")
			os.Exit(1)
		}
	}()
}
