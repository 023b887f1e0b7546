package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig controls where the board is persisted.
type DatabaseConfig struct {
	// Path is the SQLite file holding the board. An empty value resolves
	// to DefaultDatabasePath.
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// ShowResolution renders the resolution note under each task.
	ShowResolution bool `mapstructure:"show_resolution" yaml:"show_resolution"`

	// Mouse enables pointer drag-and-drop in the terminal.
	Mouse bool `mapstructure:"mouse" yaml:"mouse"`
}

// LogConfig controls the diagnostic log destination.
type LogConfig struct {
	// File receives diagnostics while the terminal UI is running.
	File string `mapstructure:"file" yaml:"file"`
}

// ServerConfig holds settings for the local web bridge.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// configDir returns ~/.config/taskboard, falling back to the working
// directory when the home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskboard")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDatabasePath returns ~/.config/taskboard/TaskDatabase.db.
func DefaultDatabasePath() string {
	return filepath.Join(configDir(), "TaskDatabase.db")
}

// DefaultLogPath returns ~/.config/taskboard/taskboard.log.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "taskboard.log")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},
		Display: DisplayConfig{
			Theme:          "default",
			ShowResolution: true,
			Mouse:          true,
		},
		Log: LogConfig{
			File: DefaultLogPath(),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:3001",
			AllowedOrigins: []string{"http://localhost:3001", "http://127.0.0.1:3001"},
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := DefaultAppConfig()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.show_resolution", def.Display.ShowResolution)
	v.SetDefault("display.mouse", def.Display.Mouse)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.allowed_origins", def.Server.AllowedOrigins)

	// TASKBOARD_DATABASE_PATH and friends override the file.
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isConfigNotFound(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}

	return cfg, nil
}

func isConfigNotFound(err error) bool {
	if _, ok := err.(*os.PathError); ok {
		return true
	}
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
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

	v.Set("database", cfg.Database)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("server", cfg.Server)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
