// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper: a TOML
// file under the platform config directory, with built-in defaults for
// everything it doesn't set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds every watchexec setting, file-loadable and flag-
// overridable, plus the ambient fields (Verbose, ConfigFile) the CLI
// layer needs.
type Config struct {
	Paths   []string `mapstructure:"paths"`
	Filters []string `mapstructure:"filters"`
	Ignores []string `mapstructure:"ignores"`

	NoIgnore    bool `mapstructure:"no_ignore"`
	NoVCSIgnore bool `mapstructure:"no_vcs_ignore"`

	Poll         bool          `mapstructure:"poll"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Debounce     time.Duration `mapstructure:"debounce"`
	NoMeta       bool          `mapstructure:"no_meta"`

	RunInitially bool `mapstructure:"run_initially"`
	Once         bool `mapstructure:"once"`
	ClearScreen  bool `mapstructure:"clear_screen"`

	Cmd             []string `mapstructure:"cmd"`
	Shell           string   `mapstructure:"shell"`
	NoEnvironment   bool     `mapstructure:"no_environment"`
	UseProcessGroup bool     `mapstructure:"use_process_group"`
	Signal          string   `mapstructure:"signal"`
	OnBusyUpdate    string   `mapstructure:"on_busy_update"`

	Verbose    bool   `mapstructure:"verbose"`
	ConfigFile string `mapstructure:"-"`
}

const (
	// AppName names the XDG/platform config subdirectory.
	AppName = "watchexec"
	// ConfigFileName is the config file's base name (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file format.
	ConfigFileExt = "toml"
)

// Default returns the configuration applied when no file and no flags
// override a setting.
func Default() *Config {
	return &Config{
		Paths:           []string{"."},
		PollInterval:    1 * time.Second,
		Debounce:        500 * time.Millisecond,
		UseProcessGroup: true,
		Shell:           "none",
		OnBusyUpdate:    "do-nothing",
	}
}

// Dir returns the watchexec configuration directory, resolved per-OS
// (APPDATA, Library/Application Support, or XDG).
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("config: home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads config.toml from the watchexec config directory and the
// current directory (whichever viper finds first), falling back silently
// to Default() when no file exists. explicitFile, when non-empty,
// overrides the search path entirely (the CLI's --config flag).
func Load(explicitFile string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("paths", defaults.Paths)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("debounce", defaults.Debounce)
	v.SetDefault("use_process_group", defaults.UseProcessGroup)
	v.SetDefault("on_busy_update", defaults.OnBusyUpdate)
	v.SetDefault("shell", "none")

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)

		cfgDir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(cfgDir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
		return defaults, nil
	}

	cfg := *defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", v.ConfigFileUsed(), err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	return &cfg, nil
}

// EnsureDir creates the watchexec config directory if it doesn't exist.
func EnsureDir() error {
	cfgDir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}
