package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test. An empty but set variable
// would bypass the envconfig default.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, "APP_ENV", "DB_DRIVER", "JWT_SECRET", "JWT_EXPIRY_MINUTES", "STORAGE_BACKEND",
		"GOOGLE_CLIENT_ID", "GOOGLE_CALENDAR_ID")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, 1440, cfg.JWT.ExpiryMinutes)
	assert.Equal(t, "primary", cfg.Google.CalendarID)
	assert.False(t, cfg.CalendarConfigured())
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/hub.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_MINUTES", "60")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8088/api/calendar/callback")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/hub.db", cfg.DB.Path)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 60, cfg.JWT.ExpiryMinutes)
	assert.True(t, cfg.CalendarConfigured())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"unknown storage", map[string]string{"STORAGE_BACKEND": "s3"}},
		{"gcs without bucket", map[string]string{"STORAGE_BACKEND": "gcs", "STORAGE_BUCKET": ""}},
		{"zero expiry", map[string]string{"JWT_EXPIRY_MINUTES": "0"}},
		{"default secret in production", map[string]string{"APP_ENV": "production", "JWT_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetenv(t, "APP_ENV", "DB_DRIVER", "JWT_EXPIRY_MINUTES", "STORAGE_BACKEND")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestOpenDatabaseSQLite(t *testing.T) {
	cfg := &Config{}
	cfg.App.Env = "test"
	cfg.DB.Driver = DriverSQLite
	cfg.DB.Path = "file::memory:"

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	assert.Same(t, db, DB)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	_ = sqlDB.Close()
}
