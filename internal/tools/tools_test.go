package tools_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/tools"
)

func TestRegistryOrder(t *testing.T) {
	t.Parallel()
	var names []string
	for _, tool := range tools.Registry() {
		names = append(names, tool.Name)
	}
	require.Equal(t, []string{"bandit", "semgrep", "gitleaks", "pip-audit", "ruff"}, names)
}

func TestAppliesTo(t *testing.T) {
	t.Parallel()
	byName := map[string]tools.Tool{}
	for _, tool := range tools.Registry() {
		byName[tool.Name] = tool
	}

	for _, name := range []string{"bandit", "pip-audit", "ruff"} {
		require.True(t, byName[name].AppliesTo(model.ProjectTypePython), name)
		require.False(t, byName[name].AppliesTo(model.ProjectTypeDocker), name)
		require.False(t, byName[name].AppliesTo(model.ProjectTypeGeneric), name)
	}
	for _, name := range []string{"semgrep", "gitleaks"} {
		for _, pt := range []model.ProjectType{model.ProjectTypePython, model.ProjectTypeDocker, model.ProjectTypeGeneric} {
			require.True(t, byName[name].AppliesTo(pt), name)
		}
	}
}

func TestPipAuditManifest(t *testing.T) {
	t.Parallel()
	var pipAudit tools.Tool
	for _, tool := range tools.Registry() {
		if tool.Name == "pip-audit" {
			pipAudit = tool
		}
	}
	require.NotEmpty(t, pipAudit.Name)

	t.Run("skips without a manifest", func(t *testing.T) {
		t.Parallel()
		_, ok := pipAudit.Args(t.TempDir(), "out.json")
		require.False(t, ok)
	})

	t.Run("audits requirements.txt", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		manifest := filepath.Join(dir, "requirements.txt")
		require.NoError(t, os.WriteFile(manifest, []byte("requests==2.25.0\n"), 0o644))

		args, ok := pipAudit.Args(dir, "out.json")
		require.True(t, ok)
		require.Equal(t, []string{"-r", manifest, "--format", "json", "-o", "out.json"}, args)
	})

	t.Run("falls back to pyproject.toml", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		manifest := filepath.Join(dir, "pyproject.toml")
		require.NoError(t, os.WriteFile(manifest, []byte("[project]\nname = \"x\"\n"), 0o644))

		args, ok := pipAudit.Args(dir, "out.json")
		require.True(t, ok)
		require.Contains(t, args, manifest)
	})
}
