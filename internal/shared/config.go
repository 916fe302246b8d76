package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Invitations InvitationsConfig `toml:"invitations"`
	Email       EmailConfig       `toml:"email"`
	Media       MediaConfig       `toml:"media"`
	Log         LogConfig         `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	FrontendOrigin     string `toml:"frontend_origin"`
	SuccessRedirectURL string `toml:"success_redirect_url"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// InvitationsConfig contains invitation link settings.
type InvitationsConfig struct {
	ExpiresInHours int `toml:"expires_in_hours"`
}

// EmailConfig contains outbound email settings.
type EmailConfig struct {
	From      string  `toml:"from"`
	RateLimit float64 `toml:"rate_limit"` // messages per second
	Burst     int     `toml:"burst"`
}

// MediaConfig points at the media service serving profile photos.
type MediaConfig struct {
	BaseURL string `toml:"base_url"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that have no usable zero value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Invitations.ExpiresInHours <= 0 {
		return fmt.Errorf("%w: invitations.expires_in_hours must be positive", ErrInvalidConfig)
	}
	if c.Email.RateLimit < 0 {
		return fmt.Errorf("%w: email.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
