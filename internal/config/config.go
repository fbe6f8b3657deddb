// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (ADJUTANT_* prefix; runtime override)
//  2. Config file (~/.adjutant/config.yaml)
//  3. Default values
//
// The Gemini API key is special-cased: it may come from the config file
// (the local secrets store), from ADJUTANT_GEMINI_API_KEY or
// GEMINI_API_KEY, or interactively from the terminal (see cmd package).
//
// Security: the API key is never logged and is masked in MarshalJSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates no Gemini API key could be resolved.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidDatabasePath indicates the sqlite database path is empty.
	ErrInvalidDatabasePath = errors.New("invalid database path")

	// ErrInvalidHistoryLimit indicates max_history_messages is out of range.
	ErrInvalidHistoryLimit = errors.New("invalid max history messages")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

const (
	// DefaultModelName is the provider-qualified default chat model.
	DefaultModelName = "googleai/gemini-2.5-flash"

	// DefaultMaxHistoryMessages is the default number of persisted
	// messages replayed into each completion request.
	DefaultMaxHistoryMessages = 100

	// MinHistoryMessages and MaxHistoryMessages bound the configurable
	// history window.
	MinHistoryMessages = 10
	MaxHistoryMessages = 10000

	// envPrefix is the prefix for all adjutant environment variables.
	envPrefix = "ADJUTANT"
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON.
type Config struct {
	ModelName          string `mapstructure:"model_name" json:"model_name"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key" json:"gemini_api_key"`
	DatabasePath       string `mapstructure:"database_path" json:"database_path"`
	MaxHistoryMessages int    `mapstructure:"max_history_messages" json:"max_history_messages"`
	LogLevel           string `mapstructure:"log_level" json:"log_level"`
	LogJSON            bool   `mapstructure:"log_json" json:"log_json"`
}

// Load reads configuration from ~/.adjutant/config.yaml, the current
// directory, and the environment, then validates the result.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".adjutant")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // also support current directory

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.GeminiAPIKey = resolveAPIKeySource(v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("database_path", filepath.Join(configDir, "adjutant.db"))
	v.SetDefault("max_history_messages", DefaultMaxHistoryMessages)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

func bindEnvVariables(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// resolveAPIKeySource applies the API key priority: config file (the
// local secrets store) first, then the environment. This is the inverse
// of viper's usual env-over-file precedence, so the file value is read
// through a bare instance that has no environment layer; the env names
// (including the one the Google SDKs use) only fill the gap.
func resolveAPIKeySource(v *viper.Viper) string {
	if path := v.ConfigFileUsed(); path != "" {
		fv := viper.New()
		fv.SetConfigFile(path)
		if err := fv.ReadInConfig(); err == nil {
			if key := strings.TrimSpace(fv.GetString("gemini_api_key")); key != "" {
				return key
			}
		}
	}

	for _, name := range []string{"ADJUTANT_GEMINI_API_KEY", "GEMINI_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// Validate checks all configuration values and fails fast with sentinel
// errors that callers can match with errors.Is.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: database path must not be empty", ErrInvalidDatabasePath)
	}
	if c.MaxHistoryMessages < MinHistoryMessages || c.MaxHistoryMessages > MaxHistoryMessages {
		return fmt.Errorf("%w: %d (must be between %d and %d)",
			ErrInvalidHistoryLimit, c.MaxHistoryMessages, MinHistoryMessages, MaxHistoryMessages)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q (must be debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// MarshalJSON masks the API key so that configuration dumps and debug
// logs never leak the secret.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	if masked.GeminiAPIKey != "" {
		masked.GeminiAPIKey = "***"
	}
	return json.Marshal(masked)
}
