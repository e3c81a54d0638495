package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/student-records/internal/config"
	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories/sqlite"
	"github.com/SAP-F-2025/student-records/internal/services"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitError
	}

	// Initialize logger
	logger := newLogger(cfg, stderr)

	// Initialize repositories
	repoManager := sqlite.NewRepositoryManager(sqlite.RepositoryConfig{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
		LogQueries:  cfg.Database.LogQueries,
		Logger:      logger,
	})
	if err := repoManager.Initialize(); err != nil {
		printError(stderr, err)
		return exitError
	}

	// Initialize validator
	validator := validator.New(cfg.Students.Rules())

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager, logger, validator, services.ServiceManagerConfig{
		PassThreshold:    cfg.Students.PassThreshold,
		InitializeSchema: true,
	})
	if err := serviceManager.Initialize(ctx); err != nil {
		_ = repoManager.Shutdown(ctx)
		printError(stderr, err)
		return exitError
	}
	defer func() {
		if err := serviceManager.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown services", "error", err)
		}
	}()

	app := &application{
		cfg:      cfg,
		services: serviceManager,
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
	}

	if err := cmd.run(ctx, app, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		printError(stderr, err)
		return exitError
	}

	return exitOK
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// printError renders a failure as "kind: message".
func printError(w io.Writer, err error) {
	var re *models.RecordError
	if errors.As(err, &re) {
		if re.Field != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", re.Kind, re.Message, re.Field)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", re.Kind, re.Message)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
