package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/phrasebook/internal/clock"
	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRun_MintsValidToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PHRASEBOOK_AUTH_JWT_SECRET", testSecret)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--subject", "me", "--ttl", "1h"}, &out))

	svc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret}, clock.System{})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "me", claims.Subject)
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestRun_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("no secret", func(t *testing.T) {
		t.Setenv("PHRASEBOOK_AUTH_JWT_SECRET", "")
		t.Setenv("JWT_SECRET", "")
		err := run(context.Background(), nil, &bytes.Buffer{})
		assert.ErrorContains(t, err, "jwt_secret")
	})

	t.Run("negative ttl", func(t *testing.T) {
		err := run(context.Background(), []string{"--ttl", "-1h"}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "negative")
	})

	t.Run("unknown flag", func(t *testing.T) {
		err := run(context.Background(), []string{"--nope"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
