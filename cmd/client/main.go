package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/notekeeper/internal/client/api"
	"github.com/iudanet/notekeeper/internal/client/auth"
	"github.com/iudanet/notekeeper/internal/client/cli"
	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/notekeeper/internal/logging"
)

const defaultServerURL = "http://localhost:8080"

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
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Server URL (default: last used server or "+defaultServerURL+")")
	dbPath := flag.String("db", "notekeeper-client.db", "Path to local session database")
	password := flag.String("password", "", "Password for register/login")
	passwordFile := flag.String("password-file", "", "Path to file containing the password")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = func() { cli.PrintUsage(os.Stderr) }

	flag.Parse()

	if *showVersion {
		printVersion()
		return nil
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	// диагностика клиента идет в stderr, чтобы не смешиваться с выводом команд
	logger, err := logging.New(*logLevel, "text", os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	server := *serverURL
	if server == "" {
		remembered, err := boltStorage.GetServerURL(ctx)
		if err != nil {
			logger.Warn("failed to read remembered server", slog.Any("error", err))
		}
		server = remembered
	}
	if server == "" {
		server = defaultServerURL
	}
	logger.Debug("using server", slog.String("url", server))

	apiClient := api.NewClient(server)
	authService := auth.NewService(logger, apiClient, boltStorage)

	c := cli.New(iocli.NewStdio(), authService, apiClient, boltStorage, server, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	return c.Run(ctx, args[0], args[1:])
}

func printVersion() {
	fmt.Printf("NoteKeeper Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
