package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/model"
)

func TestScoreForSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		severity string
		want     float64
	}{
		{"LOW", 3.0},
		{"MEDIUM", 5.5},
		{"HIGH", 7.5},
		{"CRITICAL", 9.0},
		{"INFO", 1.0},
		{"WARNING", 3.0},
		{"ERROR", 7.0},
		{"medium", 5.5},
		{"Critical", 9.0},
		{"", 3.0},
		{"BANANA", 3.0},
	}
	for _, tc := range tests {
		t.Run(tc.severity, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tc.want, model.ScoreForSeverity(tc.severity), 0.001)
		})
	}
}

func TestSeverityScore(t *testing.T) {
	t.Parallel()
	require.InDelta(t, 7.5, model.SeverityHigh.Score(), 0.001)
	require.InDelta(t, 3.0, model.Severity("unheard of").Score(), 0.001)
}

func TestVulnerabilityJSON(t *testing.T) {
	t.Parallel()
	v := model.Vulnerability{
		Name:     "Bandit: B105 - hardcoded_password_string",
		Severity: model.SeverityHigh,
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	// cve is the only optional field
	require.NotContains(t, string(b), `"cve"`)
	require.Contains(t, string(b), `"cvssScore"`)
	require.Contains(t, string(b), `"codeSnippet"`)

	v.CVE = "CVE-2023-32681"
	b, err = json.Marshal(v)
	require.NoError(t, err)
	require.Contains(t, string(b), `"cve":"CVE-2023-32681"`)
}
