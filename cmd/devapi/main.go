package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"gorm.io/gorm"

	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/config"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/handler"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/repository"
	"github.com/victoragudo/hotel-management-system/console/pkg/database"
	"github.com/victoragudo/hotel-management-system/console/pkg/entities"
	"github.com/victoragudo/hotel-management-system/console/pkg/logger"
)

const (
	seedBookings     = 25
	rateLimiterIdle  = 10 * time.Minute
	shutdownTimeout  = 30 * time.Second
	devTokenUsername = "admin"
)

type Application struct {
	config *config.DevAPIConfig
	db     *gorm.DB
	stores *repository.Stores
	auth   *handler.JWTManager
	logger *slog.Logger
	server *http.Server
}

func main() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}

	cfg, err := config.LoadDevAPIConfig(dir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applicationLogger := logger.SetupLogger(cfg.Logging.Level)

	app, err := NewApplication(cfg, applicationLogger)
	if err != nil {
		applicationLogger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		applicationLogger.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
}

func NewApplication(cfg *config.DevAPIConfig, applicationLogger *slog.Logger) (*Application, error) {
	db, stores, err := openStores(cfg, applicationLogger)
	if err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := repository.Seed(context.Background(), stores, seedBookings); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
		applicationLogger.Info("Store seeded", "store", cfg.Store, "bookings", seedBookings)
	}

	var auth *handler.JWTManager
	if cfg.Auth.Required {
		auth = handler.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	}

	var rateLimiter *handler.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rateLimiter = handler.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimiterIdle, applicationLogger)
	}

	router := handler.NewRouter(handler.RouterOptions{
		Stores:      stores,
		Validator:   adapter.NewStructValidator(),
		Logger:      applicationLogger,
		Auth:        auth,
		RateLimiter: rateLimiter,
	})
	handler.PrintRoutes(router, applicationLogger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		config: cfg,
		db:     db,
		stores: stores,
		auth:   auth,
		logger: applicationLogger,
		server: server,
	}, nil
}

// openStores returns a nil db for the memory store.
func openStores(cfg *config.DevAPIConfig, applicationLogger *slog.Logger) (*gorm.DB, *repository.Stores, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Store {
	case "memory":
		applicationLogger.Info("Using in-memory store")
		return nil, repository.NewMemoryStores(), nil
	case "postgres":
		applicationLogger.Info("Connecting to PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Database)
		db, err = database.GormOpen(cfg.Database.DSN())
	case "sqlite":
		applicationLogger.Info("Opening SQLite database", "path", cfg.Database.Path)
		db, err = database.GormOpenSQLite(cfg.Database.Path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = database.ConfigurePool(db, database.PoolConfig{
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		ConnMaxLife:        cfg.Database.ConnMaxLife,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := database.RunMigrations(db, entities.All()...); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, repository.NewGormStores(db), nil
}

func (app *Application) Start() error {
	ctx := context.Background()

	app.logger.Info("Starting development API",
		"store", app.config.Store,
		"auth", app.config.Auth.Required,
		"address", app.config.Server.Address())

	if err := app.performHealthChecks(ctx); err != nil {
		app.logger.Error("Health checks failed", "error", err)
		return err
	}

	if app.auth != nil {
		token, err := app.auth.GenerateToken(devTokenUsername, "admin")
		if err != nil {
			return fmt.Errorf("failed to issue development token: %w", err)
		}
		app.logger.Info("Development token issued", "username", devTokenUsername, "token", token)
	}

	go func() {
		figure.NewFigure("DEV API", "", true).Print()
		fmt.Println("")
		fmt.Println("Development API started at " + app.config.Server.Address())
		fmt.Println("")
		if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server failed", "error", err)
		}
	}()

	app.waitForShutdown()

	return nil
}

func (app *Application) performHealthChecks(ctx context.Context) error {
	if app.db == nil {
		return nil
	}

	app.logger.Info("Performing health checks")
	sqlDB, err := app.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	app.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("Server forced to shutdown", "error", err)
	}

	if app.db != nil {
		if sqlDB, err := app.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				app.logger.Error("Error closing database", "error", err)
			}
		}
	}

	app.logger.Info("Server stopped gracefully")
}
