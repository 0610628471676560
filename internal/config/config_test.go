package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "ridesync", cfg.Database.Name)
	assert.Equal(t, "data", cfg.RideLog.Dir)
	assert.True(t, cfg.Seed)
	assert.False(t, cfg.NewRelic.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_NAME", "ridesync_test")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, "ridesync_test", cfg.Database.Name)
	assert.False(t, cfg.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mysql" }, "STORAGE_BACKEND"},
		{"postgres without host", func(c *Config) {
			c.Storage.Backend = StoragePostgres
			c.Database.Host = ""
		}, "DB_HOST"},
		{"newrelic without key", func(c *Config) {
			c.NewRelic.Enabled = true
			c.NewRelic.LicenseKey = ""
		}, "NEW_RELIC_LICENSE_KEY"},
		{"missing ride log dir", func(c *Config) { c.RideLog.Dir = "" }, "RIDE_LOG_DIR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
