package model_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := model.DefaultConfig()
	require.Equal(t, ":8000", cfg.Listen)
	require.NotEmpty(t, cfg.WorkDir)
	require.Equal(t, 300*time.Second, cfg.Tools.Timeout)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "codescan.yaml")
	content := `
listen: ":9000"
verbose: true
tools:
  timeout: 30s
  binaries:
    bandit: /opt/venv/bin/bandit
auth:
  enabled: true
  secret: topsecret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.True(t, cfg.Verbose)
	require.Equal(t, 30*time.Second, cfg.Tools.Timeout)
	require.Equal(t, "/opt/venv/bin/bandit", cfg.Tools.Binaries["bandit"])
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "topsecret", cfg.Auth.Secret)
	// unset fields keep their defaults
	require.Equal(t, time.Hour, cfg.Auth.AccessTTL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	_, err := model.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigZeroTimeout(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "codescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  timeout: 0s\n"), 0o644))

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 300*time.Second, cfg.Tools.Timeout)
}
