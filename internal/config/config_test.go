package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_URL", " https://api.bantuin.id/api/ ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("BANTUIN_TOKEN_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.bantuin.id/api", cfg.APIURL)
	assert.True(t, cfg.UpstreamConfigured())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.NotificationPollInterval)
	assert.Equal(t, int64(1<<20), cfg.MaxRequestBodySize)
	assert.Equal(t, filepath.Join("bantuin", "token"), filepath.Join(filepath.Base(filepath.Dir(cfg.TokenFile)), filepath.Base(cfg.TokenFile)))
}

func TestLoad_OriginsList(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://bantuin.id, https://admin.bantuin.id,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://bantuin.id", "https://admin.bantuin.id"}, cfg.AllowedOrigins)
}

func TestLoad_ProductionRequiresOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingAPIURLIsNotFatal(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UpstreamConfigured())
}
