// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists the mensad configuration. Configuration
// is resolved from (lowest to highest precedence) built-in defaults, the
// system and user config files, an explicit --config file, MENSAD_*
// environment variables and bound command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database struct {
		// Type selects the backend: sqlite, postgres or mysql.
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	Server struct {
		// Addr is the HTTP listen address, e.g. ":8000".
		Addr string `mapstructure:"addr" yaml:"addr"`
		// Token guards POST /fetch when non-empty.
		Token     string `mapstructure:"token" yaml:"token,omitempty"`
		RateLimit struct {
			Rps   float64 `mapstructure:"rps" yaml:"rps"`
			Burst int     `mapstructure:"burst" yaml:"burst"`
		} `mapstructure:"rate_limit" yaml:"rate_limit"`
	} `mapstructure:"server" yaml:"server"`

	Fetch struct {
		// Url is the cafeteria's published Speisenplan PDF.
		Url            string `mapstructure:"url" yaml:"url"`
		IntervalHours  int    `mapstructure:"interval_hours" yaml:"interval_hours"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		// ArchiveDir is where fetched PDFs are kept. Container deployments
		// usually point this at a mounted volume such as /app/data/pdfs.
		ArchiveDir string `mapstructure:"archive_dir" yaml:"archive_dir"`
		// ArchiveKeep caps archived PDFs; 0 keeps everything.
		ArchiveKeep int `mapstructure:"archive_keep" yaml:"archive_keep"`
	} `mapstructure:"fetch" yaml:"fetch"`

	Language string `mapstructure:"language" yaml:"language"`
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Mensad")
		default: // Linux, macOS, etc.
			configDir = "/etc/mensad"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "mensad")
	}

	return filepath.Join(configDir, "mensad.yaml"), nil
}

func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("mensad")
	v.SetConfigType("yaml")

	// 3. Add explicit config file path if provided via --config flag.
	// This has the highest precedence for file-based configuration.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	// 4. Add standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for mensad.yaml in current dir

	// 5. Read in the primary config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// 6. For backward compatibility, check for and merge `.mensad.yaml` in the current directory.
	mergeLegacyConfig(v)

	// 7. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("mensad")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 8. Bind command-line flags
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// mergeLegacyConfig checks for a `.mensad.yaml` file in the current directory
// and merges it into the viper configuration if found. This is for backward compatibility.
func mergeLegacyConfig(v *viper.Viper) {
	legacyConfigFile := ".mensad.yaml"
	if _, err := os.Stat(legacyConfigFile); err == nil {
		// File exists, let's try to merge it.
		v.SetConfigFile(legacyConfigFile)
		// MergeInConfig will not error on file not found, but we already checked.
		// It will error on a malformed file, which is the desired behavior.
		// We can ignore the error for this compatibility layer to avoid breaking startup.
		_ = v.MergeInConfig()
		// Reset the config file path to avoid side effects.
		v.SetConfigFile("")
	}
}

func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	err = os.WriteFile(path, data, 0600) // Use 0600 for security, as it may contain secrets
	if err != nil {
		return err
	}

	return nil
}
