// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"retreat-quote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Environment is "development" or "production"
	Environment string `json:"environment"`

	// Rates contains rate table settings
	Rates RatesConfig `json:"rates"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Email contains operator notification settings
	Email EmailConfig `json:"email"`

	// Document contains printable quote settings
	Document DocumentConfig `json:"document"`

	// Output contains CLI output settings
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RatesConfig points at the rate table file
type RatesConfig struct {
	// File is an HCL or JSON rate table; empty uses the built-in defaults
	File string `json:"file,omitempty"`
}

// ServerConfig contains HTTP settings
type ServerConfig struct {
	Addr            string `json:"addr"`
	ReadTimeoutSec  int    `json:"read_timeout_sec"`
	WriteTimeoutSec int    `json:"write_timeout_sec"`

	// CSRFKey enables CSRF protection on form posts when it is 32 bytes long
	CSRFKey string `json:"-"`

	// TrustedOrigins are hosts allowed to post cross-origin
	TrustedOrigins []string `json:"trusted_origins,omitempty"`
}

// EmailConfig contains operator notification settings
type EmailConfig struct {
	// ResendAPIKey is read from the environment only
	ResendAPIKey string `json:"-"`

	From    string `json:"from"`
	Manager string `json:"manager"`
	ReplyTo string `json:"reply_to,omitempty"`

	// SiteURL is linked from step emails
	SiteURL string `json:"site_url,omitempty"`

	TimeoutSec int `json:"timeout_sec"`
}

// Enabled reports whether real email delivery is configured
func (e EmailConfig) Enabled() bool {
	return e.ResendAPIKey != "" && e.From != "" && e.Manager != ""
}

// Timeout returns the per-send timeout
func (e EmailConfig) Timeout() time.Duration {
	if e.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.TimeoutSec) * time.Second
}

// DocumentConfig contains printable quote settings
type DocumentConfig struct {
	VenueName  string `json:"venue_name"`
	VenueURL   string `json:"venue_url"`
	LogoPath   string `json:"logo_path,omitempty"`
	ChromePath string `json:"chrome_path,omitempty"`
	TimeoutSec int    `json:"timeout_sec"`
}

// Timeout returns the PDF render timeout
func (d DocumentConfig) Timeout() time.Duration {
	if d.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(d.TimeoutSec) * time.Second
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows the itemized breakdown
	ShowDetails bool `json:"show_details"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version:     "1.0",
		Environment: "development",
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 60,
		},
		Email: EmailConfig{
			TimeoutSec: 10,
		},
		Document: DocumentConfig{
			VenueName:  "Céleste Maison d'Hôtes",
			VenueURL:   "www.celestemaisondhotes.fr",
			TimeoutSec: 30,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadDotEnv loads a .env file into the process environment outside production.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if os.Getenv("QUOTE_ENV") == "production" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Overload(path)
}

// ApplyEnv overlays environment variables on top of the file configuration.
func (c *Config) ApplyEnv() {
	setString(&c.Environment, "QUOTE_ENV")
	setString(&c.Rates.File, "QUOTE_RATES_FILE")
	setString(&c.Server.Addr, "QUOTE_ADDR")
	setString(&c.Server.CSRFKey, "QUOTE_CSRF_KEY")
	setString(&c.Email.ResendAPIKey, "RESEND_API_KEY")
	setString(&c.Email.From, "FROM_EMAIL")
	setString(&c.Email.Manager, "MANAGER_EMAIL")
	setString(&c.Email.ReplyTo, "REPLY_TO_EMAIL")
	setString(&c.Email.SiteURL, "QUOTE_SITE_URL")
	setString(&c.Document.LogoPath, "QUOTE_LOGO")
	setString(&c.Document.ChromePath, "CHROME_PATH")
	setString(&c.Logging.Level, "QUOTE_LOG_LEVEL")

	if port := os.Getenv("PORT"); port != "" && os.Getenv("QUOTE_ADDR") == "" {
		if _, err := strconv.Atoi(port); err == nil {
			c.Server.Addr = ":" + port
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
