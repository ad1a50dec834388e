package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("CLONE_SERVER_URL sets base url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvServerURL, "http://10.0.0.5:9000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://10.0.0.5:9000", cfg.Server.BaseURL)
	})

	t.Run("CLONE_ID sets identity", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvCloneID, "clone-b")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "clone-b", cfg.Clone.ID)
	})

	t.Run("CLONE_STRICT_EXIT parses booleans", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvStrictExit, "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Output.StrictExit)

		t.Setenv(EnvStrictExit, "not-a-bool")
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Output.StrictExit)
	})

	t.Run("CLONE_LOG_LEVEL sets level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvLogLevel, "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty variables leave values alone", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Server: ServerConfig{BaseURL: "http://keep:1"}, Clone: CloneConfig{ID: "keep"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://keep:1", cfg.Server.BaseURL)
		assert.Equal(t, "keep", cfg.Clone.ID)
	})
}

func TestEnvOverrides_BeatFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  base_url: http://from-file:5000\nclone:\n  id: file-clone\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:5000", cfg.Server.BaseURL)
	assert.Equal(t, "file-clone", cfg.Clone.ID)

	t.Setenv(EnvServerURL, "http://from-env:5000")
	t.Setenv(EnvCloneID, "env-clone")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:5000", cfg.Server.BaseURL)
	assert.Equal(t, "env-clone", cfg.Clone.ID)
}

func TestEnvOverrides_InvalidURLRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvServerURL, "localhost:5000")

	_, err := Load("")
	require.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, "/etc/clone/custom.yaml")
	assert.Equal(t, "/etc/clone/custom.yaml", DefaultConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.True(t, strings.HasSuffix(DefaultConfigPath(), filepath.Join(".clone", "config.yaml")))
}
