package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/database"
	"github.com/fourloop/sourceflow/internal/http/handler"
	"github.com/fourloop/sourceflow/internal/http/middleware"
	"github.com/fourloop/sourceflow/internal/http/router"
	"github.com/fourloop/sourceflow/internal/jobs"
	"github.com/fourloop/sourceflow/internal/logger"
	"github.com/fourloop/sourceflow/internal/repository"
	"github.com/fourloop/sourceflow/internal/service"
	"github.com/fourloop/sourceflow/internal/view"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := database.AutoMigrate(db, log); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db)
	noteRepo := repository.NewRequestNoteRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Initialize services
	requestService := service.NewRequestService(requestRepo, noteRepo, statusRepo, customerRepo, db, log)

	// Initialize views and handlers
	renderer, err := view.NewRenderer(cfg.App.Name)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	requestHandler := handler.NewRequestHandler(requestService, renderer, cfg.Server.MaxFormSizeKB<<10, log)

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, rateLimiter, requestHandler)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.StatusDigestEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterStatusDigestJob(
			scheduler,
			requestService,
			log,
			cfg.Jobs.StatusDigestCron,
			cfg.Jobs.StatusDigestTimeoutDuration(),
			true,
		); err != nil {
			log.Error("Failed to register status digest job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Status digest job disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
