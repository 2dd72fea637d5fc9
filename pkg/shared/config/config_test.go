package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Devici.BaseURL)
	assert.Equal(t, "", cfg.Logger.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
devici:
  base_url: https://devici.example.com/api/v1
  collection: Engineering
logger:
  level: debug
http_client:
  retry_count: 3
  timeout: 15
schema:
  path: /tmp/otm_schema.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://devici.example.com/api/v1", cfg.Devici.BaseURL)
	assert.Equal(t, "Engineering", cfg.Devici.Collection)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 3, cfg.HTTPClient.RetryCount)
	assert.Equal(t, 15, cfg.HTTPClient.Timeout)
	assert.Equal(t, "/tmp/otm_schema.json", cfg.Schema.Path)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("devici:\n  base_url: https://from-file\n"), 0644))

	t.Setenv(EnvBaseURL, "https://from-env/api/v1")
	t.Setenv(EnvCollection, "Sandbox Two")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env/api/v1", cfg.Devici.BaseURL)
	assert.Equal(t, "Sandbox Two", cfg.Devici.Collection)
}

func TestValidateConfigDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DEVICI_HOME", home)
	t.Setenv("DEVICI_RESULTS_FOLDER", "")

	cfg := &Config{}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, home, cfg.Devici.HomeFolder)
	assert.Equal(t, filepath.Join(home, "results"), cfg.Devici.ResultsFolder)
	assert.Equal(t, DefaultBaseURL, cfg.Devici.BaseURL)
	assert.Equal(t, DefaultCollection, cfg.Devici.Collection)
	assert.Equal(t, filepath.Join(home, "otm_schema.json"), cfg.Schema.Path)
	assert.DirExists(t, cfg.Devici.ResultsFolder)
}

func TestValidateHTTPConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HTTPClient
		wantErr string
	}{
		{
			name:    "defaults are valid",
			cfg:     HTTPClient{},
			wantErr: "",
		},
		{
			name:    "negative retry count",
			cfg:     HTTPClient{RetryCount: -1},
			wantErr: "retry_count must be between 0 and 20: -1",
		},
		{
			name:    "timeout too long",
			cfg:     HTTPClient{Timeout: 1000},
			wantErr: `"timeout" duration is too long: 16m40s exceeds maximum of 1m40s`,
		},
		{
			name:    "bad proxy port",
			cfg:     HTTPClient{Proxy: Proxy{Host: "proxy.local", Port: 70000}},
			wantErr: "port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPConfig(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	t.Setenv(EnvClientID, "id-123")
	t.Setenv(EnvClientSecret, "secret-456")

	id, secret, err := Credentials()
	require.NoError(t, err)
	assert.Equal(t, "id-123", id)
	assert.Equal(t, "secret-456", secret)

	t.Setenv(EnvClientSecret, "")
	_, _, err = Credentials()
	assert.Error(t, err)
}
