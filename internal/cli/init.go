// Package cli provides the initialization shared by the spendwise binaries:
// environment loading, logger setup, config validation, backend wiring and
// graceful shutdown.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/backend"
	"spendwise/internal/config"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
)

// SetupLogger builds the process logger from config and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: component,
		Format:    cfg.LogFormat,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Setup loads .env and the configuration, builds a logger writing to out and
// validates. The logger is returned even when validation fails so the caller
// can report it.
func Setup(component string, out io.Writer) (*config.Config, *applog.Logger, error) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component, out)
	if err := cfg.Validate(); err != nil {
		return cfg, logger, err
	}
	return cfg, logger, nil
}

// MustSetup is Setup that exits the process on invalid configuration.
func MustSetup(component string) (*config.Config, *applog.Logger) {
	cfg, logger, err := Setup(component, os.Stdout)
	if err != nil {
		logger.Error("Configuration validation failed",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg, logger
}

// App bundles the services every binary builds from the same config.
type App struct {
	Registry *core.Registry
	Backend  *backend.BackendResult
	Ledger   *services.LedgerService
	Reports  *services.ReportService
}

// NewApp builds the registry, storage backend and services. clock may be nil.
// Close releases the backend.
func NewApp(ctx context.Context, cfg *config.Config, logger *applog.Logger, clock core.Clock) (*App, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("build category registry: %w", err)
	}

	bcfg, err := backend.FromAppConfig(cfg, reg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	ledger := services.NewLedgerService(res.Backend, reg, res.Publisher, logger)
	if res.Cleanup != nil {
		ledger.OnClose(res.Cleanup)
	}

	return &App{
		Registry: reg,
		Backend:  res,
		Ledger:   ledger,
		Reports:  services.NewReportService(res.Backend, res.Backend, reg, clock, cfg.Location()),
	}, nil
}

func (a *App) Close() error {
	return a.Ledger.Close()
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. After the
// signal, cleanup runs with a context bounded by timeout, then done is closed.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), applog.FieldOperation, applog.OpShutdown)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
