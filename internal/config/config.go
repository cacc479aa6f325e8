// SPDX-License-Identifier: MPL-2.0

// Package config loads plugpack's own configuration: which external tools
// the bundle pipeline invokes and UI behavior. The plugin manifest is not
// handled here; see pkg/manifest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "plugpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// Config is the effective plugpack configuration.
type Config struct {
	Tools ToolsConfig `mapstructure:"tools" toml:"tools"`
	UI    UIConfig    `mapstructure:"ui" toml:"ui"`
}

// ToolsConfig selects the external tools the pipeline shells out to.
type ToolsConfig struct {
	// PackageManager is the install command, or "auto" for lockfile detection.
	PackageManager string `mapstructure:"package_manager" toml:"package_manager"`
	// Bundler is the compile command template with {dir}, {entry} and
	// {output} placeholders.
	Bundler string `mapstructure:"bundler" toml:"bundler"`
}

// UIConfig controls CLI behavior.
type UIConfig struct {
	// Verbose enables debug diagnostics.
	Verbose bool `mapstructure:"verbose" toml:"verbose"`
	// AssumeYes answers confirmation prompts affirmatively without asking.
	AssumeYes bool `mapstructure:"assume_yes" toml:"assume_yes"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			PackageManager: "auto",
			Bundler:        "npx esbuild {entry} --bundle --outfile={output}",
		},
		UI: UIConfig{},
	}
}

var (
	// configFilePathOverride is set via the --config flag.
	configFilePathOverride string
	// configDirOverride lets tests redirect the config directory.
	configDirOverride string
)

// SetConfigFilePathOverride points Load at a specific config file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// SetConfigDirOverride redirects the config directory (tests only).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the plugpack configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

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
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the effective config file path, honoring the --config
// override.
func FilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the config file (when present) over the defaults. A missing
// default config file is not an error; a missing --config file is.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("tools.package_manager", defaults.Tools.PackageManager)
	v.SetDefault("tools.bundler", defaults.Tools.Bundler)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.assume_yes", defaults.UI.AssumeYes)

	path, err := FilePath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		v.SetConfigType(ConfigFileExt)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if configFilePathOverride != "" {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}

// WriteDefault writes the default configuration as TOML to path, creating
// parent directories as needed. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// TOML renders the configuration as TOML for display.
func (c *Config) TOML() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}
