// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads NetPlus settings from defaults, netplus.yaml,
// NETPLUS_* environment variables and command-line flags, in that order
// of increasing precedence.
package config // import "github.com/netplus-lab/netplus/internal/config"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName = "netplus"
	// EnvPrefix prefixes every environment override, e.g. NETPLUS_DATABASE_DSN.
	EnvPrefix = "NETPLUS"
)

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	// Output is "table" or "json".
	Output string       `mapstructure:"output" yaml:"output"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-" yaml:"-"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the built-in values keyed by their dotted config path.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":     "sqlite",
		"database.dsn":      "./netplus.db",
		"language":          "en",
		"output":            "table",
		"server.listen":     "127.0.0.1:8080",
		"server.rate_limit": 120,
		"log.level":         "info",
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{"sqlite", "postgres", "mysql"}, c.Database.Type) {
		errs = append(errs, fmt.Errorf("database.type %q: want sqlite, postgres or mysql", c.Database.Type))
	}
	if strings.TrimSpace(c.Database.Dsn) == "" {
		errs = append(errs, errors.New("database.dsn must not be empty"))
	}
	if c.Output != "table" && c.Output != "json" {
		errs = append(errs, fmt.Errorf("output %q: want table or json", c.Output))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit %d must not be negative", c.Server.RateLimit))
	}
	return errors.Join(errs...)
}

// GetConfigPath returns the full path for the user or system
// configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "NetPlus")
		default:
			configDir = "/etc/" + appName
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, appName)
	}
	return filepath.Join(configDir, appName+".yaml"), nil
}

// LoadConfig resolves T from defaults, the first netplus.yaml found (or
// explicitPath), the environment and the flags of cmd. A missing config
// file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	c, _, err := load[T](cmd, defaults, explicitPath)
	return c, err
}

func load[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, string, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if explicitPath != nil && *explicitPath != "" {
		v.SetConfigFile(*explicitPath)
	}
	if p, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(p))
	}
	if p, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(p))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		// Flags are registered with dotted names (e.g. --database.type) so
		// they bind straight onto config keys.
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, "", fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decode config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

// Load is LoadConfig for Config with Defaults, followed by Validate.
func Load(cmd *cobra.Command, explicitPath *string) (Config, error) {
	c, used, err := load[Config](cmd, Defaults(), explicitPath)
	if err != nil {
		return c, err
	}
	c.Source = used
	return c, c.Validate()
}

// WriteConfigFile writes c to the user (or system) config path unless a
// file already exists there. It reports whether a file was written.
func WriteConfigFile[T any](c *T, system bool) (bool, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return false, err
	}
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	// 0600: the DSN may carry a password.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, err
	}
	return true, nil
}

// SaveLanguage sets the language key in the config file at path, or in the
// user config file when path is empty. Other keys are preserved.
func SaveLanguage(lang, path string) error {
	if path == "" {
		p, err := GetConfigPath(false)
		if err != nil {
			return err
		}
		path = p
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	doc["language"] = lang

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
