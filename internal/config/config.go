package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// ErrConfigNotFound is returned by Load when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the main application configuration
type Config struct {
	// Daemon connection
	Transmission TransmissionConfig `yaml:"transmission"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TransmissionConfig holds the RPC endpoint settings
type TransmissionConfig struct {
	URL               string        `yaml:"url"`
	Path              string        `yaml:"path,omitempty"`
	Username          string        `yaml:"username,omitempty"`
	Password          string        `yaml:"password,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	Proxy             string        `yaml:"proxy,omitempty"` // http, https or socks5
	MaxSessionRetries int           `yaml:"max_session_retries,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel      string        `yaml:"log_level"`      // "debug", "info", "warn", "error"
	WatchInterval time.Duration `yaml:"watch_interval"` // Refresh period of the watch view
}

// Default returns a configuration pointing at a local daemon.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a configuration from defaults and environment variables only.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if err := c.applyEnvOverrides(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validateConfigPath checks that path names a readable regular file.
func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("TRANSMATE_URL"); v != "" {
		c.Transmission.URL = v
	}
	if v := os.Getenv("TRANSMATE_RPC_PATH"); v != "" {
		c.Transmission.Path = v
	}
	if v := os.Getenv("TRANSMATE_USERNAME"); v != "" {
		c.Transmission.Username = v
	}
	if v := os.Getenv("TRANSMATE_PASSWORD"); v != "" {
		c.Transmission.Password = v
	}
	if v := os.Getenv("TRANSMATE_PROXY"); v != "" {
		c.Transmission.Proxy = v
	}
	if v := os.Getenv("TRANSMATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TRANSMATE_TIMEOUT: %w", err)
		}
		c.Transmission.Timeout = d
	}
	if v := os.Getenv("TRANSMATE_MAX_SESSION_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRANSMATE_MAX_SESSION_RETRIES: %w", err)
		}
		c.Transmission.MaxSessionRetries = n
	}

	// App
	if v := os.Getenv("TRANSMATE_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("TRANSMATE_WATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TRANSMATE_WATCH_INTERVAL: %w", err)
		}
		c.App.WatchInterval = d
	}
	return nil
}

// setDefaults fills zero values. Negative values are left for Validate.
func (c *Config) setDefaults() {
	if c.Transmission.URL == "" {
		c.Transmission.URL = "http://localhost:9091"
	}
	if c.Transmission.Path == "" {
		c.Transmission.Path = "/transmission/rpc"
	}
	if c.Transmission.Timeout == 0 {
		c.Transmission.Timeout = 5 * time.Second
	}
	if c.Transmission.MaxSessionRetries == 0 {
		c.Transmission.MaxSessionRetries = 3
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.WatchInterval == 0 {
		c.App.WatchInterval = 2 * time.Second
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateURL(c.Transmission.URL, "transmission.url"); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Transmission.Path, "/") {
		return fmt.Errorf("transmission.path must start with '/'")
	}
	if c.Transmission.Timeout < 0 {
		return fmt.Errorf("transmission.timeout must be positive")
	}
	if c.Transmission.MaxSessionRetries < 0 {
		return fmt.Errorf("transmission.max_session_retries must not be negative")
	}
	if c.Transmission.Password != "" && c.Transmission.Username == "" {
		return fmt.Errorf("transmission.username is required when a password is set")
	}
	if c.Transmission.Proxy != "" {
		if err := validateProxy(c.Transmission.Proxy); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}
	if c.App.WatchInterval < 0 {
		return fmt.Errorf("app.watch_interval must be positive")
	}
	return nil
}

// validateURL checks that raw is an absolute http(s) URL with a host.
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}

func validateProxy(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("transmission.proxy is invalid: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("transmission.proxy must use http, https or socks5")
	}
	if u.Host == "" {
		return fmt.Errorf("transmission.proxy is missing host")
	}
	return nil
}
