package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("KLINIK_SERVER_URL", "https://backend.example.com/functions/v1/")

		cfg, err := Load("testdata/missing.env")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "https://backend.example.com/functions/v1", cfg.Klinik.ServerURL)
		assert.Equal(t, 15*time.Second, cfg.Klinik.Timeout)
		assert.Equal(t, 500*time.Millisecond, cfg.Print.AssetDelay)
		assert.Equal(t, "Asia/Jakarta", cfg.Clinic.Timezone)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
		assert.False(t, cfg.Sheets.Enabled())
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("KLINIK_SERVER_URL", "http://localhost:9000")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("PRINT_ASSET_DELAY", "1s")
		t.Setenv("CHROME_NO_SANDBOX", "true")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load("testdata/missing.env")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, time.Second, cfg.Print.AssetDelay)
		assert.True(t, cfg.Print.NoSandbox)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	})

	t.Run("rejects bad duration", func(t *testing.T) {
		t.Setenv("KLINIK_SERVER_URL", "http://localhost:9000")
		t.Setenv("KLINIK_TIMEOUT", "soon")

		_, err := Load("testdata/missing.env")
		assert.ErrorContains(t, err, "KLINIK_TIMEOUT")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080"},
			Klinik:  KlinikConfig{ServerURL: "https://backend.example.com"},
			Clinic:  ClinicConfig{Name: "Klinik Gigi", Timezone: "Asia/Jakarta"},
			Jobs:    JobsConfig{PeriodCheckCron: "5 0 1 * *"},
			MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing server url", mutate: func(c *Config) { c.Klinik.ServerURL = "" }, wantErr: "KLINIK_SERVER_URL"},
		{name: "non http server url", mutate: func(c *Config) { c.Klinik.ServerURL = "ftp://x" }, wantErr: "http(s)"},
		{name: "bad timezone", mutate: func(c *Config) { c.Clinic.Timezone = "Mars/Base" }, wantErr: "TIMEZONE"},
		{name: "half sheets config", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, wantErr: "together"},
		{name: "negative delay", mutate: func(c *Config) { c.Print.AssetDelay = -time.Second }, wantErr: "PRINT_ASSET_DELAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
