// Command token mints an access token for a Phrasebook server that has
// auth.jwt_secret configured.
//
// Usage:
//
//	token [--config file] [--subject name] [--ttl duration]
//
// A ttl of 0 produces a token that never expires.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/service/auth"
	"github.com/spf13/pflag"
)

// DefaultTTL is the lifetime of a minted token when --ttl is not given.
const DefaultTTL = 30 * 24 * time.Hour

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "path to a config file")
	subject := fs.String("subject", "owner", "token subject")
	ttl := fs.Duration("ttl", DefaultTTL, "token lifetime, 0 for no expiry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ttl < 0 {
		return fmt.Errorf("ttl cannot be negative: %s", *ttl)
	}

	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: *configFile,
		EnvFiles:   []string{".env"},
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Auth.Enabled() {
		return errors.New("auth.jwt_secret is not configured")
	}

	jwtService, err := auth.NewJWTService(cfg.Auth, clock.System{})
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	token, err := jwtService.GenerateToken(ctx, *subject, *ttl)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
