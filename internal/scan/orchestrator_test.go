package scan_test

import (
	"archive/zip"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/normalize"
	"github.com/codescanhq/codescan/internal/scan"
	"github.com/codescanhq/codescan/internal/tools"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// stubScript writes a shell script standing in for a scanner binary. The
// script drops the canned report at the output path it receives as $1.
func stubScript(t *testing.T, name, report string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("skipped, binary sh not available: %v", err)
	}
	path := filepath.Join(t.TempDir(), name+".sh")
	script := "#!/bin/sh\ncat > \"$1\" <<'EOF'\n" + report + "\nEOF\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func stubTool(t *testing.T, name, report string, types []model.ProjectType, parse normalize.Func) (tools.Tool, string) {
	t.Helper()
	tool := tools.Tool{
		Name:       name,
		OutputFile: name + "_results.json",
		Types:      types,
		Args: func(_, outputPath string) ([]string, bool) {
			return []string{outputPath}, true
		},
		Normalize: parse,
	}
	return tool, stubScript(t, name, report)
}

func newConfig(t *testing.T) model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.WorkDir = t.TempDir()
	cfg.Tools.Timeout = 10 * time.Second
	cfg.Tools.Binaries = map[string]string{}
	return cfg
}

var pythonOnly = []model.ProjectType{model.ProjectTypePython}

const banditReport = `{"results":[{"test_id":"B105","test_name":"hardcoded_password_string","filename":"app.py","line_number":2,"issue_severity":"HIGH","issue_text":"Possible hardcoded password"}]}`

func TestScan(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{
		"requirements.txt": "requests==2.25.0\n",
		"app.py":           "import os\npassword = 'admin123'\n",
	})

	cfg := newConfig(t)
	bandit, script := stubTool(t, "bandit", banditReport, pythonOnly, normalize.ParseBandit)
	cfg.Tools.Binaries["bandit"] = script

	rep, err := scan.New(cfg).WithTools(bandit).Scan(t.Context(), upload)
	require.NoError(t, err)
	require.NotEmpty(t, rep.ScanID)
	require.Equal(t, model.ProjectTypePython, rep.ProjectType)
	require.Len(t, rep.Vulnerabilities, 1)

	v := rep.Vulnerabilities[0]
	require.Equal(t, "Bandit: B105 - hardcoded_password_string", v.Name)
	require.Equal(t, model.SeverityHigh, v.Severity)
	require.True(t, v.Exploitable)
	// the reported path resolves against the extraction dir for the snippet
	require.Equal(t, "password = 'admin123'", firstLine(v.CodeSnippet))
}

func firstLine(s string) string {
	for i := range s {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func TestScanToolOrderPreserved(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{"app.py": "x = 1\n"})

	gitleaksReport := `[{"RuleID":"generic-api-key","File":"app.py","StartLine":1,"Secret":"s"}]`
	ruffReport := `[{"code":"S101","filename":"app.py","message":"assert","location":{"row":1}}]`

	cfg := newConfig(t)
	leaks, leaksScript := stubTool(t, "gitleaks", gitleaksReport, nil, normalize.ParseGitleaks)
	ruff, ruffScript := stubTool(t, "ruff", ruffReport, pythonOnly, normalize.ParseRuff)
	cfg.Tools.Binaries["gitleaks"] = leaksScript
	cfg.Tools.Binaries["ruff"] = ruffScript

	rep, err := scan.New(cfg).WithTools(leaks, ruff).Scan(t.Context(), upload)
	require.NoError(t, err)
	require.Len(t, rep.Vulnerabilities, 2)
	require.Equal(t, "Gitleaks: generic-api-key", rep.Vulnerabilities[0].Name)
	require.Equal(t, "Ruff: S101", rep.Vulnerabilities[1].Name)
}

func TestScanVulnerableManifest(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{"requirements.txt": "requests==2.25.0\n"})

	pipAuditReport := `{"vulnerabilities":[{"package":{"name":"requests","version":"2.25.0"},` +
		`"vulnerability":{"id":"PYSEC-2023-74","severity":"HIGH","description":"Leak of Proxy-Authorization header",` +
		`"aliases":["CVE-2023-32681"],"fix_versions":["2.31.0"]}}]}`

	cfg := newConfig(t)
	pipAudit, script := stubTool(t, "pip-audit", pipAuditReport, pythonOnly, normalize.ParsePipAudit)
	cfg.Tools.Binaries["pip-audit"] = script

	rep, err := scan.New(cfg).WithTools(pipAudit).Scan(t.Context(), upload)
	require.NoError(t, err)
	require.Equal(t, model.ProjectTypePython, rep.ProjectType)
	require.Len(t, rep.Vulnerabilities, 1)

	v := rep.Vulnerabilities[0]
	require.Contains(t, v.File, "requirements.txt")
	require.Contains(t, v.Recommendation, "Update requests to version 2.31.0")
	require.Equal(t, "CVE-2023-32681", v.CVE)
}

func TestScanTypeGating(t *testing.T) {
	t.Parallel()
	// no python markers, so python-only tools must not run
	upload := buildZip(t, map[string]string{"README.md": "hello\n"})

	cfg := newConfig(t)
	ruff, script := stubTool(t, "ruff", `[{"code":"S101","filename":"a.py","message":"m","location":{"row":1}}]`, pythonOnly, normalize.ParseRuff)
	cfg.Tools.Binaries["ruff"] = script

	rep, err := scan.New(cfg).WithTools(ruff).Scan(t.Context(), upload)
	require.NoError(t, err)
	require.Equal(t, model.ProjectTypeGeneric, rep.ProjectType)
	require.NotNil(t, rep.Vulnerabilities)
	require.Empty(t, rep.Vulnerabilities)
}

func TestScanInvalidArchive(t *testing.T) {
	t.Parallel()
	cfg := newConfig(t)

	_, err := scan.New(cfg).WithTools().Scan(t.Context(), []byte("definitely not a zip"))
	require.ErrorIs(t, err, model.ErrInvalidArchive)

	// the rejected scan must not leave a workspace behind
	entries, err := os.ReadDir(cfg.WorkDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestScanTraversalArchive(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: "../../evil.sh"})
	require.NoError(t, err)
	_, err = f.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	cfg := newConfig(t)
	_, err = scan.New(cfg).WithTools().Scan(t.Context(), buf.Bytes())
	require.ErrorIs(t, err, model.ErrInvalidArchive)

	// nothing may escape the workspace, and the workspace itself is gone
	require.NoFileExists(t, filepath.Join(cfg.WorkDir, "..", "..", "evil.sh"))
	entries, err := os.ReadDir(cfg.WorkDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestScanToolWithoutReport(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{"app.py": "x = 1\n"})

	// the stub exits nonzero and never writes its output file
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("skipped, binary sh not available: %v", err)
	}
	script := filepath.Join(t.TempDir(), "broken.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 2\n"), 0o755))

	broken := tools.Tool{
		Name:       "broken",
		OutputFile: "broken_results.json",
		Args: func(_, outputPath string) ([]string, bool) {
			return []string{outputPath}, true
		},
		Normalize: normalize.ParseBandit,
	}
	cfg := newConfig(t)
	cfg.Tools.Binaries["broken"] = script

	rep, err := scan.New(cfg).WithTools(broken).Scan(t.Context(), upload)
	require.NoError(t, err)
	require.NotNil(t, rep.Vulnerabilities)
	require.Empty(t, rep.Vulnerabilities)
}

func TestScanWorkspaceCleanup(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{"app.py": "x = 1\n"})

	cfg := newConfig(t)
	rep, err := scan.New(cfg).WithTools().Scan(t.Context(), upload)
	require.NoError(t, err)
	require.NotEmpty(t, rep.ScanID)

	entries, err := os.ReadDir(cfg.WorkDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestScanConcurrent(t *testing.T) {
	t.Parallel()
	upload := buildZip(t, map[string]string{"app.py": "x = 1\n"})
	cfg := newConfig(t)
	o := scan.New(cfg).WithTools()

	ids := make(chan string, 8)
	for range 8 {
		go func() {
			rep, err := o.Scan(t.Context(), upload)
			if err != nil {
				ids <- ""
				return
			}
			ids <- rep.ScanID
		}()
	}
	seen := map[string]bool{}
	for range 8 {
		id := <-ids
		require.NotEmpty(t, id)
		require.False(t, seen[id], "scan IDs must be unique")
		seen[id] = true
	}
}
