package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// DefaultPort is used when PORT is unset or not an integer.
const DefaultPort = 5000

// DefaultAddress binds all interfaces.
const DefaultAddress = "0.0.0.0"

// Config is the effective configuration of a fixture process.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Address string
	Port    int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
	Sink  string // "" for stdout or "file:<path>"
}

// MetricsConfig holds the optional metrics listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// EnvResult describes how the environment contributed to the config.
type EnvResult struct {
	// PortFromEnv is true when PORT was set and parsed as an integer.
	PortFromEnv bool
	// RejectedPort holds the raw PORT value when it was set but unparsable.
	RejectedPort string
}

// Default returns the configuration used when the environment is empty.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Address = DefaultAddress
	cfg.Server.Port = DefaultPort
	cfg.Logging.Level = "info"
	return cfg
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = DefaultAddress
	}
	return net.JoinHostPort(addr, strconv.Itoa(c.Server.Port))
}

// ParseConfigEnvs reads environment variables into a fresh Config. PORT
// falls back to DefaultPort when absent or not an integer; an integer that is
// not a usable port is kept so ValidateConfig can reject it.
func ParseConfigEnvs() (*Config, EnvResult) {
	cfg := Default()
	var res EnvResult

	if v, ok := os.LookupEnv("PORT"); ok {
		if p, err := ParsePort(v); err == nil {
			cfg.Server.Port = p
			res.PortFromEnv = true
		} else {
			res.RejectedPort = v
		}
	}

	if v := strings.TrimSpace(os.Getenv("FIXTURE_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FIXTURE_LOG_SINK")); v != "" {
		cfg.Logging.Sink = v
	}
	if v := strings.TrimSpace(os.Getenv("FIXTURE_METRICS_ADDR")); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, res
}

// ParsePort parses a PORT value. Surrounding whitespace is ignored.
func ParsePort(v string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", v, err)
	}
	return p, nil
}

// ValidateConfig rejects configurations that cannot be bound.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range 0-65535", cfg.Server.Port)
	}
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("invalid metrics address %q: %w", cfg.Metrics.Addr, err)
		}
	}
	return nil
}
