package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/normalize"
)

func TestParsePipAudit(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"vulnerabilities": [
			{
				"package": {"name": "requests", "version": "2.25.0"},
				"vulnerability": {
					"id": "PYSEC-2023-74",
					"severity": "HIGH",
					"description": "Leak of Proxy-Authorization header",
					"aliases": ["GHSA-j8r2-6x86-q33q", "CVE-2023-32681"],
					"fix_versions": ["2.31.0"]
				}
			},
			{
				"package": {"name": "oldpkg", "version": "1.0"},
				"vulnerability": {"id": "PYSEC-0000-1", "severity": "whatever"}
			}
		]
	}`)

	got := normalize.ParsePipAudit(raw, "")
	require.Len(t, got, 2)

	first := got[0]
	require.Equal(t, "pip-audit: PYSEC-2023-74", first.Name)
	require.Equal(t, "requirements.txt (Package: requests)", first.File)
	require.Equal(t, "N/A", first.Lines)
	require.Equal(t, model.SeverityHigh, first.Severity)
	require.True(t, first.Exploitable)
	// first CVE-prefixed alias wins, non-CVE aliases are skipped
	require.Equal(t, "CVE-2023-32681", first.CVE)
	require.Equal(t, "Update requests to version 2.31.0", first.Recommendation)
	require.Equal(t, "pip install --upgrade requests==2.31.0", first.Fix)
	require.Empty(t, first.CodeSnippet)

	// unknown severity defaults to MEDIUM, missing fix versions to "latest"
	second := got[1]
	require.Equal(t, model.SeverityMedium, second.Severity)
	require.False(t, second.Exploitable)
	require.Empty(t, second.CVE)
	require.Equal(t, "Update oldpkg to version latest", second.Recommendation)
	require.Equal(t, "pip install --upgrade oldpkg==latest", second.Fix)
}

func TestParsePipAuditGarbage(t *testing.T) {
	t.Parallel()
	require.Nil(t, normalize.ParsePipAudit([]byte("]["), ""))
}
