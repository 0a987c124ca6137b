// Package config manages the user's own settings file at
// ~/.cargotune/config.yaml (probe timeout, default jobs percentage) via
// viper, with CARGOTUNE_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/cargotune-labs/cargotune/internal/branding"
	"github.com/cargotune-labs/cargotune/internal/cargocfg"
	"github.com/cargotune-labs/cargotune/internal/toolchain"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys recognized in the user config file.
const (
	KeyProbeTimeout = "probe_timeout"
	KeyJobsPercent  = "jobs_percent"
)

// Dir returns the path to the settings directory (~/.cargotune/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the settings file (~/.cargotune/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the settings directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes viper to read from the settings file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyProbeTimeout, toolchain.DefaultProbeTimeout.String())
	viper.SetDefault(KeyJobsPercent, cargocfg.DefaultJobsPercent)

	// Ignore error if the settings file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a setting by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// ProbeTimeout returns the configured probe timeout, falling back to the
// prober default on unparseable values.
func ProbeTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyProbeTimeout))
	if err != nil || d <= 0 {
		return toolchain.DefaultProbeTimeout
	}
	return d
}

// JobsPercent returns the configured default CPU fraction for build.jobs.
func JobsPercent() int {
	p := viper.GetInt(KeyJobsPercent)
	if p < 1 || p > 100 {
		return cargocfg.DefaultJobsPercent
	}
	return p
}

// Set writes a settings key-value pair and saves the file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating settings file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}
