package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CATALOG_API_URL", "http://catalog.local")
	t.Setenv("CLOUDINARY_BACKEND_URL", "http://backend.local")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	LoadConfig()
	require.NotNil(t, AppConfig)

	assert.Equal(t, "0.0.0.0", AppConfig.Server.Host)
	assert.Equal(t, 4000, AppConfig.Server.Port)
	assert.Equal(t, "development", AppConfig.Server.Env)
	assert.Equal(t, 15*time.Second, AppConfig.Catalog.Timeout)
	assert.Equal(t, 30*time.Second, AppConfig.Cloudinary.Timeout)
	assert.Equal(t, 30*time.Minute, AppConfig.Form.SessionTTL)
	assert.NotEmpty(t, AppConfig.Form.PreviewDir)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("FORM_SESSION_TTL", "1h")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "ml_default")

	LoadConfig()

	assert.Equal(t, 8080, AppConfig.Server.Port)
	assert.Equal(t, "production", AppConfig.Server.Env)
	assert.Equal(t, 5*time.Second, AppConfig.Catalog.Timeout)
	assert.Equal(t, time.Hour, AppConfig.Form.SessionTTL)
	assert.Equal(t, "ml_default", AppConfig.Cloudinary.UploadPreset)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	LoadConfig()

	assert.Equal(t, 4000, AppConfig.Server.Port)
	assert.Equal(t, 15*time.Second, AppConfig.Catalog.Timeout)
}
