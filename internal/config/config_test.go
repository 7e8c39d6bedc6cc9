package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AppEnv:          "development",
		ServerPort:      "8080",
		RequestTimeout:  30 * time.Second,
		DatabaseURL:     "postgres://localhost/gallery",
		DBMaxConns:      4,
		JWTSecret:       "test-secret",
		JWTAccessTTL:    15 * time.Minute,
		RefreshTTL:      168 * time.Hour,
		MediaRoot:       "./media",
		MaxUploadSize:   1024,
		GalleryPageSize: 20,
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("requires database URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects missing secret outside development", func(t *testing.T) {
		cfg := validConfig()
		cfg.AppEnv = "production"
		cfg.JWTSecret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("falls back to dev secret in development", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		require.NoError(t, cfg.Validate())
		require.True(t, cfg.UsingFallbackSecret())
	})

	t.Run("explicit secret is never reported as fallback", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
		require.False(t, cfg.UsingFallbackSecret())
	})
}
