package boot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verzel/leadflow/internal/config"
)

func TestProvideRuntimeConfig(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "s3cret"
	cfg.Auth.JWTExpiresIn = "12h"
	cfg.Server.Addr = ":8081"

	rc, err := ProvideRuntimeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", rc.JwtSecret)
	assert.Equal(t, 12*time.Hour, rc.JwtExpiresIn)
	assert.Equal(t, ":8081", rc.ServerAddr)
}

func TestProvideRuntimeConfigRequiresSecret(t *testing.T) {
	cfg := config.Config{}
	cfg.Auth.JWTExpiresIn = "24h"

	_, err := ProvideRuntimeConfig(cfg)
	assert.Error(t, err)
}

func TestProvideRuntimeConfigAddrOverride(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "s3cret"
	cfg.Auth.JWTExpiresIn = "24h"
	cfg.Server.Addr = ":8080"

	rc, err := ProvideRuntimeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, ":9999", rc.ServerAddr)
}
