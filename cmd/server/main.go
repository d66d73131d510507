// Package main implements the entry point for the Phrasebook API server,
// which stores the phrases a user is learning, schedules their review and
// offers AI autofill of meanings and examples.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/platform/logger"
	"github.com/spf13/pflag"
)

// cliOptions are the command line flags handled by main itself. Flags that
// map to configuration keys are bound into the config loader.
type cliOptions struct {
	configFile  string
	migrateOnly bool
	flags       *pflag.FlagSet
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "phrasebook: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string) (cliOptions, error) {
	fs := pflag.NewFlagSet("phrasebook", pflag.ContinueOnError)
	var opts cliOptions
	fs.StringVarP(&opts.configFile, "config", "c", "", "path to a config file (yaml, json or toml)")
	fs.BoolVar(&opts.migrateOnly, "migrate", false, "apply database migrations and exit")
	fs.Int("port", 0, "HTTP port (overrides server.port)")
	fs.String("log-level", "", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	opts.flags = fs
	return opts, nil
}

// run loads configuration, sets up logging and storage, and then either
// applies migrations and returns or serves HTTP until ctx is canceled.
func run(ctx context.Context, opts cliOptions) error {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: opts.configFile,
		EnvFiles:   []string{".env"},
		Flags:      changedFlags(opts.flags),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver()),
		slog.Bool("auth_enabled", cfg.Auth.Enabled()),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("llm_configured", cfg.LLM.Configured()))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if opts.migrateOnly {
		defer closeDatabase(db, log)
		return migrateDatabase(ctx, db, cfg.Database.Driver(), log)
	}

	app, err := newApplication(ctx, cfg, log, db, nil)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// changedFlags returns a flag set holding only the flags given on the
// command line, so that flag defaults never shadow the environment.
func changedFlags(fs *pflag.FlagSet) *pflag.FlagSet {
	if fs == nil {
		return nil
	}
	changed := pflag.NewFlagSet(fs.Name(), pflag.ContinueOnError)
	fs.Visit(func(f *pflag.Flag) {
		changed.AddFlag(f)
	})
	return changed
}
