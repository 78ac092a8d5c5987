package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GitHubConfig holds settings for the GitHub connection used to capture
// item snapshots and resolve the acting user.
type GitHubConfig struct {
	// BaseURL is the API root. Empty means api.github.com.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Username is the acting user. Resolved from the API on first run
	// when empty.
	Username string `mapstructure:"username" yaml:"username"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DatabasePath is where the tracked-record database lives.
	// Empty means <config dir>/unread.db.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// LogLevel controls file logging verbosity ("debug", "info", ...).
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ConfigDir returns the application configuration directory,
// ~/.config/unread-tracker.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "unread-tracker")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DatabasePath: filepath.Join(ConfigDir(), "unread.db"),
		LogLevel:     "info",
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database_path", filepath.Join(ConfigDir(), "unread.db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database_path", cfg.DatabasePath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("github", cfg.GitHub)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
