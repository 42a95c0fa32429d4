package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mlerror "github.com/msto63/minilang/foundation/core/error"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "MINIC_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Frontend FrontendConfig `toml:"frontend" yaml:"frontend"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// FrontendConfig holds lexer and checker limits
type FrontendConfig struct {
	MaxInputLength int `toml:"max_input_length" yaml:"max_input_length"`
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"` // text, json or yaml
	Color  bool   `toml:"color" yaml:"color"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// ServerConfig holds check server settings
type ServerConfig struct {
	Host         string   `toml:"host" yaml:"host"`
	Port         int      `toml:"port" yaml:"port"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	CacheSize    int      `toml:"cache_size" yaml:"cache_size"` // negative disables the result cache
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v", value.Tag)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.History.Enabled = true
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mlerror.Newf("config file not found: %s", path).
				WithCode(mlerror.CodeConfigError).
				WithDetail("path", path)
		}
		return nil, mlerror.Wrap(err, "failed to read config").
			WithCode(mlerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg := &Config{History: HistoryConfig{Enabled: true}}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, mlerror.Newf("unsupported config format: %s", ext).
			WithCode(mlerror.CodeConfigError).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mlerror.Wrap(err, "failed to parse config").
			WithCode(mlerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from MINIC_CONFIG or a default location.
// Without any config file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// DefaultPaths lists the config files searched when MINIC_CONFIG is unset
func DefaultPaths() []string {
	return []string{
		"./configs/minic.toml",
		"./minic.toml",
		"./minic.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/minic/config.toml"),
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Frontend
	if c.Frontend.MaxInputLength == 0 {
		c.Frontend.MaxInputLength = 65536
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join("${HOME}", ".local/share/minic/history.db")
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8470
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 1024
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	invalid := func(key string, value interface{}) error {
		return mlerror.Newf("invalid value for %s: %v", key, value).
			WithCode(mlerror.CodeInvalidConfig).
			WithDetail("key", key)
	}

	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "yaml":
	default:
		return invalid("output.format", c.Output.Format)
	}

	switch strings.ToLower(c.General.LogFormat) {
	case "text", "json":
	default:
		return invalid("general.log_format", c.General.LogFormat)
	}

	if c.Frontend.MaxInputLength < 0 {
		return invalid("frontend.max_input_length", c.Frontend.MaxInputLength)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Server.CacheTTL.Duration < 0 {
		return invalid("server.cache_ttl", c.Server.CacheTTL)
	}

	return nil
}

// ServerAddress returns the listen address of the check server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
