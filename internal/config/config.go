// Package config loads the variants CLI configuration and definition files
// with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config is the CLI configuration.
type Config struct {
	// Definitions is the path of the definitions document.
	Definitions string    `mapstructure:"definitions"`
	Addr        string    `mapstructure:"addr"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the defaults applied before files and environment.
func DefaultConfig() Config {
	return Config{
		Definitions: "variants.json",
		Addr:        "127.0.0.1:8080",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Manager resolves configuration from defaults, an optional file, VARIANTS_*
// environment variables and explicit overrides, in increasing precedence.
type Manager struct {
	viper    *viper.Viper
	explicit bool
	mu       sync.RWMutex
	config   *Config
}

// NewManager creates a manager reading configFile. An empty path looks for
// variants.config.{toml,yaml,json} in the working directory and tolerates its
// absence.
func NewManager(configFile string) (*Manager, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("variants.config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VARIANTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("log.level", "VARIANTS_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind VARIANTS_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("log.format", "VARIANTS_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind VARIANTS_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v, explicit: configFile != ""}, nil
}

// Override sets key with the highest precedence, typically from a CLI flag.
func (m *Manager) Override(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viper.Set(key, value)
}

// Load reads the configuration sources and validates the result.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if m.explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file %s: %w", m.viper.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = cfg
	return nil
}

// Config returns the loaded configuration, or the defaults before Load.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return DefaultConfig()
	}
	return *m.config
}

// ConfigFileUsed returns the file the configuration was read from, if any.
func (m *Manager) ConfigFileUsed() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.ConfigFileUsed()
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()
	m.viper.SetDefault("definitions", defaults.Definitions)
	m.viper.SetDefault("addr", defaults.Addr)
	m.viper.SetDefault("log.level", defaults.Log.Level)
	m.viper.SetDefault("log.format", defaults.Log.Format)
}

func normalizeConfig(cfg *Config) {
	cfg.Definitions = strings.TrimSpace(cfg.Definitions)
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
}

func validateConfig(cfg *Config) error {
	if cfg.Definitions == "" {
		return errors.New("definitions path must not be empty")
	}
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", cfg.Log.Format)
	}
	return nil
}
