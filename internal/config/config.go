// Package config handles agent-stuff configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (AGENT_STUFF_*)
//  2. Config file ($XDG_CONFIG_HOME/agent-stuff/config.yaml)
//  3. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/psg2/agent-stuff/internal/paths"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "AGENT_STUFF"

// Keys.
const (
	KeySetupSource   = "setup.source"
	KeySetupMode     = "setup.mode"
	KeyFooterWidth   = "footer.width"
	KeyNotifyBell    = "notify.bell"
	KeyNotifyDesktop = "notify.desktop"
	KeyGitTimeout    = "git.timeout"
)

const (
	// DefaultSetupMode installs by symlink.
	DefaultSetupMode = "link"
	// DefaultGitTimeout bounds git status queries.
	DefaultGitTimeout = 2 * time.Second
)

// Keys lists every supported key, sorted.
func Keys() []string {
	keys := []string{KeySetupSource, KeySetupMode, KeyFooterWidth, KeyNotifyBell, KeyNotifyDesktop, KeyGitTimeout}
	sort.Strings(keys)

	return keys
}

// IsKnownKey reports whether key is supported.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}

	return false
}

// Config holds the agent-stuff configuration.
type Config struct {
	v       *viper.Viper
	dir     string
	loadErr error
}

// Load reads configuration from all sources.
func Load() *Config {
	dir, err := paths.ConfigRoot()
	if err != nil {
		cfg := LoadFrom("")
		cfg.loadErr = err

		return cfg
	}

	return LoadFrom(dir)
}

// LoadFrom reads configuration with dir as the config directory. An empty
// dir skips the config file.
func LoadFrom(dir string) *Config {
	v := viper.New()

	v.SetDefault(KeySetupSource, "")
	v.SetDefault(KeySetupMode, DefaultSetupMode)
	v.SetDefault(KeyFooterWidth, 0)
	v.SetDefault(KeyNotifyBell, true)
	v.SetDefault(KeyNotifyDesktop, false)
	v.SetDefault(KeyGitTimeout, DefaultGitTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{v: v, dir: dir}

	if dir == "" {
		return cfg
	}

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// A missing file is fine; anything else is reported by LoadError.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cfg.loadErr = fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg
}

// LoadError returns the error hit while reading the config file, if any.
func (c *Config) LoadError() error {
	return c.loadErr
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// Get returns a configuration value.
func (c *Config) Get(key string) any {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a configuration value as int.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool returns a configuration value as bool.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value any) error {
	if c.dir == "" {
		return fmt.Errorf("no config directory")
	}

	c.v.Set(key, value)

	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return c.v.WriteConfigAs(filepath.Join(c.dir, "config.yaml"))
}

// All returns all configuration as a map.
func (c *Config) All() map[string]any {
	return c.v.AllSettings()
}

// SetupSource returns the bundle directory, with ~ expanded. Empty means
// unset.
func (c *Config) SetupSource() string {
	src := c.GetString(KeySetupSource)
	if src == "" {
		return ""
	}

	expanded, err := paths.ExpandUserHome(src)
	if err != nil {
		return src
	}

	return expanded
}

// SetupMode returns "link" or "copy".
func (c *Config) SetupMode() string {
	return c.GetString(KeySetupMode)
}

// FooterWidth returns the fixed footer width, or 0 to use the terminal's.
func (c *Config) FooterWidth() int {
	return c.GetInt(KeyFooterWidth)
}

// NotifyBell reports whether the notify hook rings the bell.
func (c *Config) NotifyBell() bool {
	return c.GetBool(KeyNotifyBell)
}

// NotifyDesktop reports whether the notify hook sends an OSC 777 alert.
func (c *Config) NotifyDesktop() bool {
	return c.GetBool(KeyNotifyDesktop)
}

// GitTimeout returns the git query timeout, falling back to the default
// for non-positive values.
func (c *Config) GitTimeout() time.Duration {
	d := c.v.GetDuration(KeyGitTimeout)
	if d <= 0 {
		return DefaultGitTimeout
	}

	return d
}
