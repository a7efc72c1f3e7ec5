package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/odontoflow/clinic-api/internal/api/router"
	"github.com/odontoflow/clinic-api/internal/appointments"
	"github.com/odontoflow/clinic-api/internal/auth"
	appconfig "github.com/odontoflow/clinic-api/internal/config"
	httpmiddleware "github.com/odontoflow/clinic-api/internal/http/middleware"
	"github.com/odontoflow/clinic-api/internal/medicalrecords"
	"github.com/odontoflow/clinic-api/internal/observability/metrics"
	"github.com/odontoflow/clinic-api/internal/odontogram"
	"github.com/odontoflow/clinic-api/internal/patients"
	"github.com/odontoflow/clinic-api/internal/procedures"
	"github.com/odontoflow/clinic-api/internal/requests"
	"github.com/odontoflow/clinic-api/internal/transactions"
	"github.com/odontoflow/clinic-api/internal/users"
	"github.com/odontoflow/clinic-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	clinicMetrics := metrics.NewClinicMetrics(registry)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	userStore := users.NewStore(pool)
	userService := users.NewService(userStore, cfg.BcryptCost)
	authService := auth.NewService(userService, userStore, tokens)

	patientStore := patients.NewStore(pool)
	patientService := patients.NewService(patientStore)

	appointmentStore := appointments.NewStore(pool)
	appointmentService := appointments.NewService(appointmentStore)

	recordStore := medicalrecords.NewStore(pool)
	recordService := medicalrecords.NewService(recordStore)

	procedureStore := procedures.NewStore(pool)
	procedureService := procedures.NewService(procedureStore)

	odontogramStore := odontogram.NewStore(pool)
	odontogramService := odontogram.NewService(odontogramStore, clinicMetrics, logger)

	transactionStore := transactions.NewStore(pool)
	transactionService := transactions.NewService(transactionStore, logger)

	requestStore := requests.NewStore(pool)
	requestService := requests.NewService(requestStore, logger)

	// The public form endpoint is rate limited through Redis when available,
	// falling back to an in-process token bucket.
	var publicLimiter httpmiddleware.Limiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		publicLimiter = httpmiddleware.NewRedisLimiter(redisClient, int64(cfg.PublicRequestBurst), time.Minute)
		logger.Info("using redis rate limiter", "addr", cfg.RedisAddr)
	} else {
		publicLimiter = httpmiddleware.NewMemoryLimiter(cfg.PublicRequestRate, cfg.PublicRequestBurst)
	}

	r := router.New(&router.Config{
		Logger:              logger,
		Tokens:              tokens,
		AuthHandler:         auth.NewHandler(authService),
		UsersHandler:        users.NewHandler(userService),
		PatientsHandler:     patients.NewHandler(patientService),
		AppointmentsHandler: appointments.NewHandler(appointmentService),
		RecordsHandler:      medicalrecords.NewHandler(recordService),
		ProceduresHandler:   procedures.NewHandler(procedureService),
		OdontogramHandler:   odontogram.NewHandler(odontogramService),
		TransactionsHandler: transactions.NewHandler(transactionService),
		RequestsHandler:     requests.NewHandler(requestService),
		PublicLimiter:       publicLimiter,
		Metrics:             clinicMetrics,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
