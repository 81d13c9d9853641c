// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the sshkeymanager configuration from defaults, a YAML
// file, SSHKEYMANAGER_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Name is used for the config file name, the config directory and the
// environment variable prefix.
const Name = "sshkeymanager"

// Naming holds the file name suffixes that tell keys and options apart.
type Naming struct {
	KeySuffix     string `mapstructure:"key_suffix" yaml:"key_suffix"`
	OptionsSuffix string `mapstructure:"options_suffix" yaml:"options_suffix"`
}

// Config is the effective configuration of one run.
type Config struct {
	Base     string `mapstructure:"base" yaml:"base"`
	Hostname string `mapstructure:"hostname" yaml:"hostname,omitempty"`
	Output   string `mapstructure:"output" yaml:"output"`
	NoBackup bool   `mapstructure:"no-backup" yaml:"no-backup"`
	Verbose  int    `mapstructure:"verbose" yaml:"verbose,omitempty"`
	Language string `mapstructure:"language" yaml:"language"`
	Naming   Naming `mapstructure:"naming" yaml:"naming"`
}

// Defaults returns the built-in values, keyed like the config file.
func Defaults() map[string]any {
	return map[string]any{
		"base":                  "~/.ssh/keys",
		"hostname":              "",
		"output":                "~/.ssh/authorized_keys",
		"no-backup":             false,
		"verbose":               0,
		"language":              "en",
		"naming.key_suffix":     ".pub",
		"naming.options_suffix": ".opt",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), Name)
		default:
			configDir = filepath.Join("/etc", Name)
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, Name)
	}

	return filepath.Join(configDir, Name+".yaml"), nil
}

// LoadConfig reads the configuration into a T. explicitPath, when non-nil,
// names the config file to use instead of searching the standard locations.
// A missing config file is not an error; a malformed one is.
func LoadConfig[T any](flags *pflag.FlagSet, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Config file: explicit path, or search the user, system and
	// working directories.
	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	if explicitPath != nil {
		v.SetConfigFile(*explicitPath)
	} else {
		if userConfigPath, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(userConfigPath))
		}
		if systemConfigPath, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(systemConfigPath))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("error reading config: %w", err)
		}
	}

	// 3. Environment
	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// 4. Flags
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("error decoding config: %w", err)
	}
	return c, nil
}

// Marshal renders c as YAML.
func Marshal[T any](c *T) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteConfigFile writes c to the user (or system) config path and returns
// that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// ExpandHome replaces a leading ~ or ~user with the matching home directory.
// Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	name, rest, _ := strings.Cut(path[1:], "/")
	if sep := string(filepath.Separator); sep != "/" && strings.Contains(name, sep) {
		name, rest, _ = strings.Cut(path[1:], sep)
	}

	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		home = u.HomeDir
	}
	if rest == "" {
		return home, nil
	}
	return filepath.Join(home, filepath.FromSlash(rest)), nil
}
