package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables alone, for
// deployments that ship no config file. Retry and transport settings keep
// their package defaults.
func FromEnv() *AppConfig {
	cfg := &AppConfig{}
	cfg.Auth.ClientID = os.Getenv("GOOGLE_ADS_CLIENT_ID")
	cfg.Auth.ClientSecret = os.Getenv("GOOGLE_ADS_CLIENT_SECRET")
	cfg.Auth.RefreshToken = os.Getenv("GOOGLE_ADS_REFRESH_TOKEN")
	cfg.Auth.DeveloperToken = os.Getenv("GOOGLE_ADS_DEVELOPER_TOKEN")
	cfg.Auth.LoginCustomerID = os.Getenv("GOOGLE_ADS_LOGIN_CUSTOMER_ID")
	cfg.Server.DefaultCustomerID = os.Getenv("GOOGLE_ADS_CUSTOMER_ID")
	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.applyDefaults()
	return cfg
}

func (cfg *AppConfig) applyDefaults() {
	// Server.Port keeps its zero value: 0 means the health/metrics
	// endpoint stays disabled.
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
