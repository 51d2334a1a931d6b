// Package config loads rctui configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"rctui/internal/store"
)

// Config holds application configuration.
type Config struct {
	Helper HelperConfig
	Tree   TreeConfig
	Log    LogConfig
	// Chords maps space-separated source key sequences to space-separated
	// target sequences, e.g. "Z Z" -> "q".
	Chords map[string]string
}

// HelperConfig selects the supervised helper binary.
type HelperConfig struct {
	Binary string
	Args   []string
}

// TreeConfig holds file browser settings.
type TreeConfig struct {
	Root string
}

// LogConfig holds session event log settings.
type LogConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from file and env. Env var overrides use prefix
// RCTUI_; the config file lives at ~/.config/rctui/config.toml unless
// RCTUI_CONFIG points elsewhere.
func Load() (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("helper.binary", "rclone")
	v.SetDefault("helper.args", []string{"rcd"})
	v.SetDefault("tree.root", home)
	v.SetDefault("log.enabled", true)
	v.SetDefault("log.path", store.DefaultPath())
	v.SetDefault("chords", map[string]string{"Z Z": "q"})

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RCTUI_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "rctui"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RCTUI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Tree.Root == "" {
		c.Tree.Root = home
	}
	return c, nil
}

// ParseSequence splits a space-separated key sequence from the config file
// into individual key names.
func ParseSequence(s string) []string {
	return strings.Fields(s)
}
