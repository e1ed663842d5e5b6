package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codescanhq/codescan/internal/model"
)

const redactionMarker = "*** REDACTED ***"

type gitleaksFinding struct {
	RuleID      string `json:"RuleID"`
	Description string `json:"Description"`
	File        string `json:"File"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	Secret      string `json:"Secret"`
}

// ParseGitleaks maps a gitleaks JSON report to unified findings. A leaked
// secret is always HIGH severity and always exploitable. The secret value
// is stripped from the code snippet before it enters the report; the raw
// value never appears in output.
func ParseGitleaks(raw []byte, root string) []model.Vulnerability {
	var findings []gitleaksFinding
	if err := json.Unmarshal(raw, &findings); err != nil {
		return nil
	}

	out := make([]model.Vulnerability, 0, len(findings))
	for _, f := range findings {
		out = append(out, gitleaksVulnerability(f, root))
	}
	return out
}

func gitleaksVulnerability(f gitleaksFinding, root string) model.Vulnerability {
	start := f.StartLine
	end := f.EndLine
	if end == 0 {
		end = start + 2
	}

	snippet := "*** Secret content redacted ***"
	if raw := Snippet(resolvePath(root, f.File), start, end); raw != "" && f.Secret != "" {
		snippet = strings.ReplaceAll(raw, f.Secret, redactionMarker)
	}

	severity := model.SeverityHigh

	return model.Vulnerability{
		Name:     "Gitleaks: " + f.RuleID,
		File:     f.File,
		Lines:    fmt.Sprintf("%d-%d", start, end),
		Severity: severity,
		Impact:   "Potential secret leak: " + description(f),
		// leaked secrets are exploitable as-is
		Exploitable: true,
		CVSSScore:   severity.Score(),
		Description: fmt.Sprintf("Potential secret or sensitive information detected in the codebase. Rule: %s. %s",
			f.RuleID, f.Description),
		Recommendation: "Remove the secret from the codebase and revoke it immediately. " +
			"Use environment variables or a secure secret management system instead.",
		CodeSnippet: snippet,
		Fix:         fmt.Sprintf("Remove the secret from %s at line %d and revoke it immediately.", f.File, start),
	}
}

func description(f gitleaksFinding) string {
	if f.Description == "" {
		return "Secret detected"
	}
	return f.Description
}
