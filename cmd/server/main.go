package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/iudanet/usersauth/internal/logging"
	"github.com/iudanet/usersauth/internal/server"
	"github.com/iudanet/usersauth/internal/server/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Options are the server command line flags; everything else comes from config
type Options struct {
	Config       string `short:"c" long:"config" description:"config file (yaml, json or toml)"`
	Version      bool   `short:"v" long:"version" description:"show version information"`
	MigrateOnly  bool   `long:"migrate-only" description:"apply database migrations and exit"`
	Seed         bool   `long:"seed" description:"create demo identities and exit"`
	SeedPassword string `long:"seed-password" env:"USERSAUTH_SEED_PASSWORD" description:"password for demo identities"`
	Deactivate   string `long:"deactivate" value-name:"EMAIL" description:"disable the identity with this email and exit"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}

	if options.Version {
		printVersion()
		return nil
	}

	if options.Seed && options.SeedPassword == "" {
		return errors.New("--seed requires --seed-password or USERSAUTH_SEED_PASSWORD")
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Миграции применяются при открытии хранилища
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	switch {
	case options.MigrateOnly:
		logger.Info("migrations applied")
		return nil
	case options.Seed:
		created, err := app.Seed(ctx, options.SeedPassword)
		if err != nil {
			return err
		}
		logger.Info("seed finished", "created", created)
		return nil
	case options.Deactivate != "":
		return app.Deactivate(ctx, options.Deactivate)
	}

	logger.Info("usersauth server starting", "version", Version, "address", cfg.Server.Address)

	return app.Run(ctx)
}

func printVersion() {
	fmt.Printf("usersauth server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
