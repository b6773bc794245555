// Package config loads settings for the calculator server and CLI.
//
// Values are layered: built-in defaults, then an optional TOML or YAML file
// (chosen by extension), then CALC_* / OTEL_* environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Sessions  SessionsConfig  `toml:"sessions" yaml:"sessions"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry" yaml:"telemetry"`
	TUI       TUIConfig       `toml:"tui" yaml:"tui"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SessionsConfig bounds the remote session store.
type SessionsConfig struct {
	TTL           Duration `toml:"ttl" yaml:"ttl"`
	MaxSessions   int      `toml:"max_sessions" yaml:"max_sessions"`
	SweepInterval Duration `toml:"sweep_interval" yaml:"sweep_interval"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string   `toml:"level" yaml:"level"`
	Format      string   `toml:"format" yaml:"format"`
	OutputPaths []string `toml:"output_paths" yaml:"output_paths"`
}

// TelemetryConfig configures the OTel exporters.
type TelemetryConfig struct {
	ServiceName string `toml:"service_name" yaml:"service_name"`
	OTLPEnabled bool   `toml:"otlp_enabled" yaml:"otlp_enabled"`

	// SampleRatio is the fraction of root traces kept. Zero means 1.
	SampleRatio    float64  `toml:"sample_ratio" yaml:"sample_ratio"`
	ExportInterval Duration `toml:"export_interval" yaml:"export_interval"`
}

// TUIConfig configures the terminal keypad.
type TUIConfig struct {
	// RemoteURL, when set, points the keypad at a server's WebSocket
	// endpoint instead of an in-process calculator.
	RemoteURL string `toml:"remote_url" yaml:"remote_url"`
	ShowHelp  bool   `toml:"show_help" yaml:"show_help"`
}

// Duration wraps time.Duration for TOML and YAML decoding.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string such as "30s".
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (if non-empty), applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cfg.decodeFile(os.ExpandEnv(path)); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by CALC_CONFIG, or only defaults and
// environment when it is unset.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("CALC_CONFIG"))
}

func (c *Config) decodeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), c); err != nil {
			return fmt.Errorf("parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, c); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 5 * time.Second
	}

	if c.Sessions.TTL.Duration == 0 {
		c.Sessions.TTL.Duration = 30 * time.Minute
	}
	if c.Sessions.MaxSessions == 0 {
		c.Sessions.MaxSessions = 10000
	}
	if c.Sessions.SweepInterval.Duration == 0 {
		c.Sessions.SweepInterval.Duration = time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stderr"}
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "go-chi-calculator"
	}
	if c.Telemetry.SampleRatio == 0 {
		c.Telemetry.SampleRatio = 1
	}
	if c.Telemetry.ExportInterval.Duration == 0 {
		c.Telemetry.ExportInterval.Duration = 15 * time.Second
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
	}
	if c.Sessions.TTL.Duration < 0 {
		return fmt.Errorf("sessions.ttl must not be negative")
	}
	if c.Sessions.MaxSessions < 0 {
		return fmt.Errorf("sessions.max_sessions must not be negative")
	}
	if c.Sessions.SweepInterval.Duration <= 0 {
		return fmt.Errorf("sessions.sweep_interval must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q: want json or console", c.Log.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio %v: want a value in (0, 1]", c.Telemetry.SampleRatio)
	}
	if c.Telemetry.ExportInterval.Duration <= 0 {
		return fmt.Errorf("telemetry.export_interval must be positive")
	}

	if c.TUI.RemoteURL != "" && !strings.HasPrefix(c.TUI.RemoteURL, "ws://") && !strings.HasPrefix(c.TUI.RemoteURL, "wss://") {
		return fmt.Errorf("tui.remote_url %q: want a ws:// or wss:// URL", c.TUI.RemoteURL)
	}
	return nil
}
