package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		ModelName:          DefaultModelName,
		DatabasePath:       "/tmp/adjutant.db",
		MaxHistoryMessages: DefaultMaxHistoryMessages,
		LogLevel:           "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "whitespace model name",
			mutate:  func(c *Config) { c.ModelName = "   " },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.DatabasePath = "" },
			wantErr: ErrInvalidDatabasePath,
		},
		{
			name:    "history below minimum",
			mutate:  func(c *Config) { c.MaxHistoryMessages = MinHistoryMessages - 1 },
			wantErr: ErrInvalidHistoryLimit,
		},
		{
			name:    "history above maximum",
			mutate:  func(c *Config) { c.MaxHistoryMessages = MaxHistoryMessages + 1 },
			wantErr: ErrInvalidHistoryLimit,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want errors.Is(%v)", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModelName != DefaultModelName {
		t.Errorf("ModelName = %q, want %q", cfg.ModelName, DefaultModelName)
	}
	if cfg.MaxHistoryMessages != DefaultMaxHistoryMessages {
		t.Errorf("MaxHistoryMessages = %d, want %d", cfg.MaxHistoryMessages, DefaultMaxHistoryMessages)
	}
	if !strings.HasSuffix(cfg.DatabasePath, "adjutant.db") {
		t.Errorf("DatabasePath = %q, want *.adjutant.db", cfg.DatabasePath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ADJUTANT_MODEL_NAME", "googleai/gemini-2.5-pro")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModelName != "googleai/gemini-2.5-pro" {
		t.Errorf("ModelName = %q, want env override", cfg.ModelName)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want value from GEMINI_API_KEY", cfg.GeminiAPIKey)
	}
}

func TestLoadFileAPIKeyBeatsEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, "gemini_api_key: file-key\n")

	// A stale key in the environment must not shadow the secrets store.
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("ADJUTANT_GEMINI_API_KEY", "env-key-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GeminiAPIKey != "file-key" {
		t.Errorf("GeminiAPIKey = %q, want config file value %q", cfg.GeminiAPIKey, "file-key")
	}
}

func TestLoadEnvAPIKeyFillsFileGap(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, "log_level: debug\n")
	t.Setenv("ADJUTANT_GEMINI_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q, want env fallback %q", cfg.GeminiAPIKey, "env-key")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want config file value %q", cfg.LogLevel, "debug")
	}
}

// writeConfigFile places a config.yaml where Load searches for it.
func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".adjutant")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestMarshalJSONMasksAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.GeminiAPIKey = "super-secret"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if strings.Contains(string(data), "super-secret") {
		t.Errorf("marshaled config leaks the API key: %s", data)
	}
	if !strings.Contains(string(data), `"***"`) {
		t.Errorf("marshaled config does not mask the API key: %s", data)
	}
}
