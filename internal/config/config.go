package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultServerURL = "http://localhost:5000"
	DefaultLogLevel  = "warn"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvServerURL  = "CLONE_SERVER_URL"
	EnvCloneID    = "CLONE_ID"
	EnvLogLevel   = "CLONE_LOG_LEVEL"
	EnvStrictExit = "CLONE_STRICT_EXIT"
	EnvConfigPath = "CLONE_CONFIG"
)

// Config holds all clone configuration. It is built once at process start
// and handed to the protocol client; operations never consult the
// environment themselves.
type Config struct {
	// Coordination server
	Server ServerConfig `yaml:"server"`

	// Identity of this clone
	Clone CloneConfig `yaml:"clone"`

	// Rendering and exit policy
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the coordination server endpoint.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CloneConfig configures the identity used to tag requests.
type CloneConfig struct {
	ID string `yaml:"id"`
}

// OutputConfig configures how command results are rendered.
type OutputConfig struct {
	Pretty bool `yaml:"pretty"` // re-indent JSON collections

	// StrictExit makes remote failures exit non-zero. Off by default:
	// remote errors are printed and the process exits normally.
	StrictExit bool `yaml:"strict_exit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: DefaultServerURL,
		},
		Clone: CloneConfig{
			ID: defaultCloneID(),
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// defaultCloneID falls back to the local host name.
func defaultCloneID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}

// DefaultConfigPath returns ~/.clone/config.yaml, or CLONE_CONFIG when set.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clone", "config.yaml")
	}
	return filepath.Join(home, ".clone", "config.yaml")
}

// Load loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults only
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.YAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// YAML renders the configuration as it would be saved.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv(EnvServerURL); u != "" {
		c.Server.BaseURL = u
	}
	if id := os.Getenv(EnvCloneID); id != "" {
		c.Clone.ID = id
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
	if v := os.Getenv(EnvStrictExit); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Output.StrictExit = strict
		}
	}

	// An empty id in the file means "use the host name".
	if c.Clone.ID == "" {
		c.Clone.ID = defaultCloneID()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base URL not configured (set %s)", EnvServerURL)
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base URL %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server base URL %q: scheme must be http or https", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server base URL %q: missing host", c.Server.BaseURL)
	}
	if _, ok := ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	return nil
}
