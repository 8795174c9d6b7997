package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bryanchriswhite/lswt/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultLogLevel   = string(logger.WarnLevel)
	DefaultAppIDWidth = 40
)

// Config represents the application configuration
type Config struct {
	LogLevel   string `json:"log_level" yaml:"log_level"`
	AppIDWidth int    `json:"app_id_width" yaml:"app_id_width"`
}

// Manager loads configuration from an optional YAML file, then applies
// flag and environment overrides.
type Manager struct {
	configPath string
	config     *Config
}

// DefaultPath returns $XDG_CONFIG_HOME/lswt/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "lswt", "config.yaml"), nil
}

// Bind wires the LSWT_ environment variables and the --log-level flag into
// v.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("lswt")
	for _, key := range []string{"log_level", "app_id_width"} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	if f := flags.Lookup("log-level"); f != nil {
		if err := v.BindPFlag("log_level", f); err != nil {
			return err
		}
	}
	return nil
}

// NewManager creates a new configuration manager. An empty configFile
// selects DefaultPath. A missing file is not an error; nothing is written
// to disk.
func NewManager(configFile string, v *viper.Viper) (*Manager, error) {
	path := configFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	m := &Manager{configPath: path}
	if err := m.load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.WithComponent("config").Debug().
			Str("path", m.configPath).
			Msg("Config file not found, using defaults")
		m.config = getDefaults()
	}

	if v != nil {
		m.override(v)
	}
	if err := m.config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}

	logger.WithComponent("config").Debug().
		Str("path", m.configPath).
		Str("log_level", m.config.LogLevel).
		Int("app_id_width", m.config.AppIDWidth).
		Msg("Config loaded")
	return m, nil
}

// getDefaults returns default configuration
func getDefaults() *Config {
	return &Config{
		LogLevel:   DefaultLogLevel,
		AppIDWidth: DefaultAppIDWidth,
	}
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := getDefaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	m.config = cfg
	return nil
}

func (m *Manager) override(v *viper.Viper) {
	if v.IsSet("log_level") {
		if level := v.GetString("log_level"); level != "" {
			m.config.LogLevel = level
		}
	}
	if v.IsSet("app_id_width") {
		m.config.AppIDWidth = v.GetInt("app_id_width")
	}
}

func (c *Config) validate() error {
	switch LogLevelName(c.LogLevel) {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.AppIDWidth < 0 {
		return fmt.Errorf("app_id_width must not be negative, got %d", c.AppIDWidth)
	}
	return nil
}

// LogLevelName normalizes a configured level name.
func LogLevelName(level string) logger.LogLevel {
	if level == "warning" {
		return logger.WarnLevel
	}
	return logger.LogLevel(level)
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	return *m.config
}

// GetConfigPath returns the path of the configuration file
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
