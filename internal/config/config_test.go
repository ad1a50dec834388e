package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvServerURL, EnvCloneID, EnvLogLevel, EnvStrictExit, EnvConfigPath} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("expected BaseURL=http://localhost:5000, got %s", cfg.Server.BaseURL)
	}
	if cfg.Clone.ID == "" {
		t.Error("expected a host-derived clone id")
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		assert.Equal(t, host, cfg.Clone.ID)
	}
	assert.False(t, cfg.Output.StrictExit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://coord.internal:8000"
	cfg.Clone.ID = "worker-7"
	cfg.Output.Pretty = true
	cfg.Logging.Level = "debug"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server.BaseURL)
	assert.Equal(t, DefaultConfig().Clone.ID, cfg.Clone.ID)
}

func TestLoad_EmptyPath(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_EmptyIDFallsBackToHost(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clone:\n  id: \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultCloneID(), cfg.Clone.ID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "https", mutate: func(c *Config) { c.Server.BaseURL = "https://coord.example.com/api" }},
		{name: "empty url", mutate: func(c *Config) { c.Server.BaseURL = "" }, wantErr: "not configured"},
		{name: "bad scheme", mutate: func(c *Config) { c.Server.BaseURL = "ftp://host" }, wantErr: "scheme"},
		{name: "no host", mutate: func(c *Config) { c.Server.BaseURL = "http://" }, wantErr: "missing host"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, ok = ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, ok = ParseLevel("verbose")
	assert.False(t, ok)

	assert.Equal(t, zapcore.WarnLevel, LoggingConfig{Level: "nonsense"}.ZapLevel())
}

func TestConfig_YAML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clone.ID = "yaml-clone"

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: yaml-clone")
	assert.Contains(t, string(data), "base_url: http://localhost:5000")
}
