package model

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the service configuration, loaded from a YAML file via viper.
type Config struct {
	Listen  string      `mapstructure:"listen" yaml:"listen"`
	Verbose bool        `mapstructure:"verbose" yaml:"verbose"`
	WorkDir string      `mapstructure:"work_dir" yaml:"work_dir"` // base for per-scan workspaces, empty => os.TempDir
	Tools   ToolsConfig `mapstructure:"tools" yaml:"tools"`
	Auth    AuthConfig  `mapstructure:"auth" yaml:"auth"`
}

// ToolsConfig controls the external analysis tool invocations.
type ToolsConfig struct {
	// Timeout is the hard wall clock budget for a single tool run.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Binaries overrides the binary path per tool name, e.g.
	// bandit: /opt/venv/bin/bandit. Unlisted tools resolve via $PATH.
	Binaries map[string]string `mapstructure:"binaries" yaml:"binaries,omitempty"`
}

// AuthConfig controls the login/JWT subsystem.
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Secret signs the tokens. Required when Enabled; left empty, an
	// ephemeral per-process key is generated instead.
	Secret     string        `mapstructure:"secret" yaml:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl" yaml:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl" yaml:"refresh_ttl"`
}

func DefaultConfig() Config {
	return Config{
		Listen:  ":8000",
		WorkDir: os.TempDir(),
		Tools: ToolsConfig{
			Timeout: 300 * time.Second,
		},
		Auth: AuthConfig{
			Enabled:    false,
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
	}
}

// LoadConfig reads and decodes the YAML config at path. Fields not present
// in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if cfg.Tools.Timeout <= 0 {
		cfg.Tools.Timeout = 300 * time.Second
	}
	return cfg, nil
}
