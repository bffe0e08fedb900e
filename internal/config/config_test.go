package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:5211", cfg.APIConfig.BaseURL)
				assert.Equal(t, time.Duration(0), cfg.APIConfig.Timeout)
				assert.Empty(t, cfg.StoreConfig.TokenFile)
				assert.Equal(t, "info", cfg.LogConfig.Level)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"API_BASE_URL": "https://movies.example.com/",
				"API_TIMEOUT":  "15s",
				"TOKEN_FILE":   "/tmp/moviedesk-token",
				"LOG_LEVEL":    "DEBUG",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://movies.example.com", cfg.APIConfig.BaseURL)
				assert.Equal(t, 15*time.Second, cfg.APIConfig.Timeout)
				assert.Equal(t, "/tmp/moviedesk-token", cfg.StoreConfig.TokenFile)
				assert.Equal(t, "debug", cfg.LogConfig.Level)
			},
		},
		{
			name:    "relative base url",
			envVars: map[string]string{"API_BASE_URL": "movies.example.com"},
			wantErr: true,
		},
		{
			name:    "bad timeout",
			envVars: map[string]string{"API_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			envVars: map[string]string{"API_TIMEOUT": "-1s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"API_BASE_URL", "API_TIMEOUT", "TOKEN_FILE", "LOG_LEVEL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(zaptest.NewLogger(t))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	os.Unsetenv("API_BASE_URL")
	t.Setenv("API_TIMEOUT", "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://catalog.internal:8080\n"), 0o600))

	cfg, err := LoadConfig(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.internal:8080", cfg.APIConfig.BaseURL)
}
