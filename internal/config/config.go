// Package config loads mpatch's on-disk defaults, following the same
// viper-based "optional YAML file plus flag overrides" pattern the
// teacher project uses for its own settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Romelium/mpatch/internal/patch"
)

// Config is the on-disk shape of mpatch's settings file. Command-line flags
// take precedence over these values; the apply command merges the flags the
// user set on top of ToApplyOptions' result.
type Config struct {
	FuzzFactor  float64  `mapstructure:"fuzz_factor"`
	Strict      bool     `mapstructure:"strict"`
	IgnoreGlobs []string `mapstructure:"ignore_globs"`
}

// Load reads mpatch's config file (if present) from the user config
// directory or the current directory, falling back to ApplyOptions'
// defaults for anything unset. A missing config file is not an error.
func Load() (*Config, error) {
	configPath, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	defaults := patch.NewApplyOptions()
	viper.SetDefault("fuzz_factor", defaults.FuzzFactor)
	viper.SetDefault("strict", defaults.Strict)
	viper.SetDefault("ignore_globs", []string{})

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ToApplyOptions converts a loaded Config into the ApplyOptions the patch
// package's Driver consumes.
func (c *Config) ToApplyOptions() patch.ApplyOptions {
	return patch.ApplyOptions{
		FuzzFactor:  c.FuzzFactor,
		Strict:      c.Strict,
		IgnoreGlobs: c.IgnoreGlobs,
	}
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mpatch"), nil
}

// ConfigFilePath returns the path where the config file should live.
func ConfigFilePath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Exists reports whether a config file is present.
func Exists() bool {
	path, err := ConfigFilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes cfg to disk as YAML, creating the config directory if needed.
func Save(cfg *Config) error {
	path, err := ConfigFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`fuzz_factor: %g
strict: %t
ignore_globs:
`, cfg.FuzzFactor, cfg.Strict)
	for _, g := range cfg.IgnoreGlobs {
		content += fmt.Sprintf("  - %q\n", g)
	}

	return os.WriteFile(path, []byte(content), 0o600)
}
