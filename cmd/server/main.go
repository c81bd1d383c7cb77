package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/notekeeper/internal/crypto"
	"github.com/iudanet/notekeeper/internal/logging"
	"github.com/iudanet/notekeeper/internal/server"
	"github.com/iudanet/notekeeper/internal/server/config"
	"github.com/iudanet/notekeeper/internal/server/storage"
	"github.com/iudanet/notekeeper/internal/server/storage/postgres"
	"github.com/iudanet/notekeeper/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	showVersion := fs.Bool("version", false, "Show version information")
	genSecret := fs.Bool("gen-secret", false, "Generate a random token signing secret and exit")

	cfg, err := config.Load(fs, os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		return nil
	}

	if *genSecret {
		secret, err := crypto.GenerateSecret()
		if err != nil {
			return err
		}
		fmt.Println(secret)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	logger.Info("storage ready", slog.String("driver", cfg.Database.Driver))

	srv, err := server.New(cfg, logger, store, Version)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func openStorage(ctx context.Context, db config.DatabaseConfig) (storage.Storage, error) {
	switch db.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, db.DSN)
	default:
		return sqlite.New(ctx, db.DSN)
	}
}

func printVersion() {
	fmt.Printf("NoteKeeper Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
