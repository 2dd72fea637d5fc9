package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

// Environment variables recognized by LoadConfig. Credentials are never read
// from the YAML file.
const (
	EnvBaseURL      = "DEVICI_API_BASE_URL"
	EnvClientID     = "DEVICI_CLIENT_ID"
	EnvClientSecret = "DEVICI_CLIENT_SECRET"
	EnvCollection   = "DEVICI_COLLECTION"
	EnvSchemaPath   = "DEVICI_SCHEMA_PATH"
)

// DefaultBaseURL is the production API endpoint of the Devici platform.
const DefaultBaseURL = "https://api.devici.com/api/v1"

// DefaultCollection is the collection threat models are imported into when
// none is configured.
const DefaultCollection = "Sandbox"

// ValidateConfigPath checks that the given path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig builds the application configuration. A .env file in the working
// directory is loaded first, then the YAML file at configPath, then
// environment variable overrides. A missing config file is not an error; the
// defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is the common case and is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		if err := LoadYAML(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets environment variables take precedence over YAML values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Devici.BaseURL = v
	}
	if v := os.Getenv(EnvCollection); v != "" {
		cfg.Devici.Collection = v
	}
	if v := os.Getenv(EnvSchemaPath); v != "" {
		cfg.Schema.Path = v
	}
}

// Credentials returns the platform client credentials from the environment.
func Credentials() (clientID, clientSecret string, err error) {
	clientID = os.Getenv(EnvClientID)
	clientSecret = os.Getenv(EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return "", "", fmt.Errorf("both %s and %s must be set", EnvClientID, EnvClientSecret)
	}
	return clientID, clientSecret, nil
}
