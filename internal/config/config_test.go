package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.False(t, cfg.IsProdLike())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("MEDIA_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "id-docs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "s3", cfg.MediaBackend)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("MEDIA_BACKEND", "s3")
		_, err := Load()
		assert.ErrorContains(t, err, "S3_BUCKET")
	})

	t.Run("unknown media backend", func(t *testing.T) {
		t.Setenv("MEDIA_BACKEND", "ftp")
		_, err := Load()
		assert.ErrorContains(t, err, "MEDIA_BACKEND")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("prod with default secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("prod without internal token", func(t *testing.T) {
		t.Setenv("APP_ENV", "release")
		t.Setenv("JWT_SECRET", "a-real-secret")
		_, err := Load()
		assert.ErrorContains(t, err, "INTERNAL_TOKEN")
	})
}
