// Package config loads flashdeck settings from, in order of precedence:
// built-in defaults, an optional YAML file, FLASHDECK_* environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "FLASHDECK_"

// Config holds every runtime setting.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db" validate:"required"`
	// LogLevel controls slog verbosity.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// ReposDir is where git deck sources are checked out.
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

func defaults() map[string]any {
	return map[string]any{
		"db":        "flashdeck.db",
		"log_level": "info",
		"repos_dir": "repos",
	}
}

// Load builds the effective configuration. configFile may be empty, in
// which case no file is read; flags may be nil when no flag set applies.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	// FLASHDECK_LOG_LEVEL -> log_level
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		// Flag names use dashes (--log-level); config keys use underscores.
		flagProvider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
