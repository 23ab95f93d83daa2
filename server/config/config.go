// Package config holds the settings of the evmmockd HTTP server.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultAddress is the address the JSON-RPC server listens on.
	DefaultAddress = "127.0.0.1:8545"
	// DefaultMetricsAddress is the address of the prometheus endpoint.
	DefaultMetricsAddress = "127.0.0.1:6065"
	// DefaultLogLevel is the level of go-ethereum logs bridged into the node logger.
	DefaultLogLevel = "info"
)

// Config defines the evmmockd server configuration.
type Config struct {
	// Address defines the HTTP server address to bind to.
	Address string `mapstructure:"address"`
	// CORSOrigins lists the origins allowed to call the server. Empty allows any origin.
	CORSOrigins []string `mapstructure:"cors-origins"`
	// EnableMetrics serves node metrics in the prometheus format.
	EnableMetrics bool `mapstructure:"metrics"`
	// MetricsAddress defines the metrics server address to bind to.
	MetricsAddress string `mapstructure:"metrics-address"`
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `mapstructure:"log-level"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:        DefaultAddress,
		MetricsAddress: DefaultMetricsAddress,
		LogLevel:       DefaultLogLevel,
	}
}

// Validate returns an error if the server fields are invalid.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf("invalid address %q: %w", c.Address, err)
	}
	if c.EnableMetrics {
		if _, _, err := net.SplitHostPort(c.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics-address %q: %w", c.MetricsAddress, err)
		}
		if c.MetricsAddress == c.Address {
			return errors.New("metrics-address can't be the same as address")
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q", c.LogLevel)
	}
	return nil
}

// GetConfig returns a fully parsed Config object.
func GetConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error extracting server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
