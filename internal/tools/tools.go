// Package tools defines the closed set of external analysis tools and the
// bounded runner that executes them.
package tools

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/normalize"
)

// Tool binds one external analysis command to the normalizer for its
// report format. Name doubles as the default binary name; deployments can
// override the path per tool in the service config.
type Tool struct {
	// Name identifies the tool and its default binary.
	Name string
	// OutputFile is the machine-readable report name under the per-scan
	// results directory.
	OutputFile string
	// Types gates the tool on the classified project type. Nil means the
	// tool runs unconditionally.
	Types []model.ProjectType
	// Args builds the invocation arguments. ok=false skips the tool for
	// this tree (e.g. no dependency manifest present).
	Args func(extractDir, outputPath string) (args []string, ok bool)
	// Normalize converts the raw report into unified findings.
	Normalize normalize.Func
}

// AppliesTo reports whether the tool runs for the given project type.
func (t Tool) AppliesTo(pt model.ProjectType) bool {
	return t.Types == nil || slices.Contains(t.Types, pt)
}

var pythonOnly = []model.ProjectType{model.ProjectTypePython}

// Registry returns the fixed tool list in execution order. Report
// aggregation preserves this order, so it is also the report order.
func Registry() []Tool {
	return []Tool{
		{
			Name:       "bandit",
			OutputFile: "bandit_results.json",
			Types:      pythonOnly,
			Args: func(extractDir, outputPath string) ([]string, bool) {
				return []string{"-r", extractDir, "-f", "json", "-o", outputPath}, true
			},
			Normalize: normalize.ParseBandit,
		},
		{
			Name:       "semgrep",
			OutputFile: "semgrep_results.json",
			Args: func(extractDir, outputPath string) ([]string, bool) {
				return []string{"--config=auto", "--json", "-o", outputPath, extractDir}, true
			},
			Normalize: normalize.ParseSemgrep,
		},
		{
			Name:       "gitleaks",
			OutputFile: "gitleaks_results.json",
			Args: func(extractDir, outputPath string) ([]string, bool) {
				return []string{"detect", "--source", extractDir, "-f", "json", "-r", outputPath}, true
			},
			Normalize: normalize.ParseGitleaks,
		},
		{
			Name:       "pip-audit",
			OutputFile: "pip_audit_results.json",
			Types:      pythonOnly,
			Args: func(extractDir, outputPath string) ([]string, bool) {
				manifest, ok := findManifest(extractDir)
				if !ok {
					return nil, false
				}
				return []string{"-r", manifest, "--format", "json", "-o", outputPath}, true
			},
			Normalize: normalize.ParsePipAudit,
		},
		{
			Name:       "ruff",
			OutputFile: "ruff_results.json",
			Types:      pythonOnly,
			Args: func(extractDir, outputPath string) ([]string, bool) {
				return []string{"check", extractDir, "--output-format=json", "--output-file", outputPath}, true
			},
			Normalize: normalize.ParseRuff,
		},
	}
}

// findManifest locates the dependency manifest pip-audit should audit.
func findManifest(extractDir string) (string, bool) {
	for _, name := range []string{"requirements.txt", "pyproject.toml", "setup.py"} {
		path := filepath.Join(extractDir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
