package config

import (
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/auth"
	"github.com/grantweston/google-ads-mcp-complete/internal/dispatch"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/gads"
	redisclient "github.com/grantweston/google-ads-mcp-complete/internal/infra/redis"
	"github.com/grantweston/google-ads-mcp-complete/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig         `yaml:"server"`
	Auth     auth.Config          `yaml:"auth"`
	API      gads.Config          `yaml:"api"`
	Retry    dispatch.RetryConfig `yaml:"retry"`
	Redis    redisclient.Config   `yaml:"redis"`
	Logging  LoggingConfig        `yaml:"logging"`
	Database postgres.Config      `yaml:"database"`
	Audit    AuditConfig          `yaml:"audit"`
}

// ServerConfig holds HTTP server settings for the health endpoint. The MCP
// surface itself speaks over stdio and needs no port.
type ServerConfig struct {
	Port              int    `yaml:"port"`
	DefaultCustomerID string `yaml:"default_customer_id"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// AuditConfig holds audit log settings.
type AuditConfig struct {
	Retention time.Duration `yaml:"retention"` // 0 = keep forever
}
