// Package cli wires configuration, logging and the store into the
// command-line surface of studyledger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"studyledger/internal/backend"
	"studyledger/internal/config"
	"studyledger/internal/log"
)

// SetupLogger builds the process logger on out and makes it the slog default.
func SetupLogger(level string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = log.ComponentCLI
	if out != nil {
		cfg.Output = out
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file from the working directory when present.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from path (or the default search
// locations when empty) and validates it.
func LoadAndValidateConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore opens the configured backend. The caller must run Cleanup on every exit path.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open store",
			log.FieldBackend, cfg.Backend,
			log.FieldDBPath, cfg.DBPath,
			log.FieldError, err)
		return nil, fmt.Errorf("open store: %w", err)
	}
	return res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
