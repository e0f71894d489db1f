package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Cgriz365/inkbridge/internal/bridge"
	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/logging"
)

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Config represents the entire user configuration file.
type Config struct {
	Version          int             `yaml:"version"`
	APIBaseURL       string          `yaml:"api_base_url,omitempty"`      // Empty means the hosted backend
	Store            string          `yaml:"store,omitempty"`             // Credential store URI (file://, sqlite://, memory://)
	NetworkInterface string          `yaml:"network_interface,omitempty"` // Interface used to derive the device id
	LogLevel         string          `yaml:"log_level,omitempty"`         // debug, info, warn, error
	Transport        TransportConfig `yaml:"transport"`
	Cache            CacheConfig     `yaml:"cache"`

	path string
}

// TransportConfig is the retry and timeout policy for backend requests.
type TransportConfig struct {
	MaxAttempts        int           `yaml:"max_attempts"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
	Timeout            time.Duration `yaml:"timeout"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // Accept any server certificate
	MaxResponseBytes   int64         `yaml:"max_response_bytes"`
}

// CacheConfig controls the resource cache.
type CacheConfig struct {
	RefetchFailures bool `yaml:"refetch_failures"` // Refetch slots that hold an error response
}

// New creates a Config with default values.
func New() *Config {
	d := bridge.DefaultTransportConfig()
	return &Config{
		Version: CurrentVersion,
		Transport: TransportConfig{
			MaxAttempts:        d.MaxAttempts,
			RetryDelay:         d.RetryDelay,
			Timeout:            d.Timeout,
			HandshakeTimeout:   d.HandshakeTimeout,
			InsecureSkipVerify: !d.VerifyTLS,
			MaxResponseBytes:   d.MaxResponseBytes,
		},
	}
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil {
			return fmt.Errorf("invalid api_base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid api_base_url %q: scheme must be http or https", c.APIBaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid api_base_url %q: missing host", c.APIBaseURL)
		}
	}

	if c.Store != "" {
		if _, err := credstore.Open(c.Store); err != nil {
			return fmt.Errorf("invalid store: %w", err)
		}
	}

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}

	t := c.Transport
	switch {
	case t.MaxAttempts < 1:
		return fmt.Errorf("transport.max_attempts must be at least 1, got %d", t.MaxAttempts)
	case t.RetryDelay < 0:
		return fmt.Errorf("transport.retry_delay must not be negative, got %s", t.RetryDelay)
	case t.Timeout <= 0:
		return fmt.Errorf("transport.timeout must be positive, got %s", t.Timeout)
	case t.HandshakeTimeout <= 0:
		return fmt.Errorf("transport.handshake_timeout must be positive, got %s", t.HandshakeTimeout)
	case t.MaxResponseBytes <= 0:
		return fmt.Errorf("transport.max_response_bytes must be positive, got %d", t.MaxResponseBytes)
	}

	return nil
}

// BridgeTransport converts the transport settings for bridge.Options.
func (c *Config) BridgeTransport() bridge.TransportConfig {
	t := c.Transport
	return bridge.TransportConfig{
		MaxAttempts:      t.MaxAttempts,
		RetryDelay:       t.RetryDelay,
		Timeout:          t.Timeout,
		HandshakeTimeout: t.HandshakeTimeout,
		VerifyTLS:        !t.InsecureSkipVerify,
		MaxResponseBytes: t.MaxResponseBytes,
	}
}

// CachePolicy converts the cache settings for bridge.Options.
func (c *Config) CachePolicy() bridge.CachePolicy {
	return bridge.CachePolicy{RefetchFailures: c.Cache.RefetchFailures}
}
