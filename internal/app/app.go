package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/config"
	"github.com/disha2301/employee-payroll-application/internal/db"
	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/health"
	"github.com/disha2301/employee-payroll-application/internal/kafka"
	"github.com/disha2301/employee-payroll-application/internal/logger"
	"github.com/disha2301/employee-payroll-application/internal/messaging"
	"github.com/disha2301/employee-payroll-application/internal/metrics"
	"github.com/disha2301/employee-payroll-application/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	telemetry *telemetry.Telemetry
	closers   []io.Closer
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		logger: slogLogger,
	}

	app.telemetry, err = telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, cfg.Env, slogLogger)
	if err != nil {
		return nil, err
	}
	m := app.telemetry.Metrics

	app.db, err = db.New(ctx, cfg.Database, slogLogger)
	if err != nil {
		return nil, err
	}
	if err := m.Database.RegisterDB(app.db.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database metrics", "error", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.CreateTables(ctx, app.db, (*employee.Employee)(nil)); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slogLogger.Info("database migrations completed successfully")
	}

	checks := []health.Check{{Name: "postgres", Probe: app.db.PingContext}}

	notifier, notifierCheck := app.newNotifier(cfg, m)
	if notifierCheck != nil {
		checks = append(checks, *notifierCheck)
	}

	repo := employee.NewRepository(app.db, m)
	service := employee.NewService(repo, notifier,
		employee.NewBcryptHasher(cfg.Security.BcryptCost),
		slogLogger, m,
		employee.WithWelcomeSubject(cfg.Notifier.WelcomeSubject),
	)

	app.router = NewRouter(RouterOptions{
		Logger:      slogLogger,
		CORSOrigins: cfg.Server.CORSOrigins,
		JWTSecret:   cfg.Auth.JWTSecret,
		Employees:   employee.NewHandler(service, employee.NewValidator(nil), slogLogger),
		Health:      health.NewHandler(m.Health, checks...),
	})

	slogLogger.Info("application initialized successfully",
		"notifier", cfg.Notifier.Transport,
		"auth_enabled", cfg.Auth.JWTSecret != "",
	)

	return app, nil
}

// newNotifier connects the configured transport. An unreachable broker
// falls back to the log notifier so the service still starts.
func (a *App) newNotifier(cfg *config.Config, m *metrics.Metrics) (employee.Notifier, *health.Check) {
	switch cfg.Notifier.Transport {
	case "nats":
		producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, a.logger, m.Messaging)
		if err != nil {
			a.logger.Warn("failed to initialize NATS producer, logging welcome messages instead", "error", err)
			return messaging.NewLogNotifier(a.logger), nil
		}
		a.closers = append(a.closers, producer)
		return producer, &health.Check{Name: "nats", Probe: func(context.Context) error {
			if !producer.Healthy() {
				return errors.New("nats connection is down")
			}
			return nil
		}}
	case "kafka":
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.logger, m.Messaging)
		if err != nil {
			a.logger.Warn("failed to initialize kafka producer, logging welcome messages instead", "error", err)
			return messaging.NewLogNotifier(a.logger), nil
		}
		a.closers = append(a.closers, producer)
		return producer, nil
	case "none":
		return nil, nil
	default:
		return messaging.NewLogNotifier(a.logger), nil
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	db.Close(a.db)
	errs = append(errs, a.telemetry.Shutdown(ctx, a.logger))

	return errors.Join(errs...)
}
