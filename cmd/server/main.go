package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_srv/internal/config"
	"campus_srv/internal/database"
	"campus_srv/internal/report"
	"campus_srv/internal/server"
	"campus_srv/internal/service"
	"campus_srv/internal/storage"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			database.New,
			provideDataStore,
			provideRegistry,
			provideEngine,
			service.NewRecordsService,
			service.NewAuditService,
			storage.NewFromConfig,
			server.NewServer,
		),

		fx.Invoke(registerLifecycleHooks),
	)

	runWithGracefulShutdown(app)
}

// provideConfig loads the application configuration
func provideConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// provideLogger builds the logger from configuration
func provideLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithError(err).Warn("Invalid logging level, falling back to info")
	}
	logger.SetLevel(level)

	switch cfg.Logging.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logger.WithField("config", cfg.String()).Info("Starting campus service")
	return logger
}

// provideDataStore exposes the shared pool as the report engine's data store
func provideDataStore(db *gorm.DB, cfg config.Config) (report.DataStore, error) {
	sqlDB, err := database.RawDB(db)
	if err != nil {
		return nil, err
	}
	return report.NewSQLStore(sqlDB, cfg.DB.Driver), nil
}

// provideRegistry builds the template catalog
func provideRegistry() *report.Registry {
	return report.NewBuiltinRegistry()
}

// provideEngine assembles the report engine facade
func provideEngine(registry *report.Registry, store report.DataStore, logger *logrus.Logger) *report.Engine {
	return report.NewEngine(registry, store, logger)
}

// registerLifecycleHooks wires the HTTP server into the fx lifecycle
func registerLifecycleHooks(
	srv *server.Server,
	cfg config.Config,
	logger *logrus.Logger,
	lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server")
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.WithError(err).Error("HTTP server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// runWithGracefulShutdown drives the application lifecycle with signal handling
func runWithGracefulShutdown(app *fx.App) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		logrus.WithError(err).Fatal("Failed to start application")
	}

	<-quit
	logrus.Info("Shutdown signal received")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		logrus.WithError(err).Error("Error during shutdown")
		os.Exit(1)
	}

	logrus.Info("Campus service stopped cleanly")
}
