package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/codescanhq/codescan/internal/model"
)

type semgrepReport struct {
	Results []semgrepIssue `json:"results"`
}

type semgrepIssue struct {
	CheckID string `json:"check_id"`
	Path    string `json:"path"`
	Start   struct {
		Line int `json:"line"`
	} `json:"start"`
	End struct {
		Line int `json:"line"`
	} `json:"end"`
	Extra struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
		Metadata struct {
			Description string `json:"description"`
			Fix         string `json:"fix"`
		} `json:"metadata"`
	} `json:"extra"`
}

// ParseSemgrep maps a semgrep JSON report to unified findings. Semgrep
// reports both ends of the range, which are taken directly.
func ParseSemgrep(raw []byte, root string) []model.Vulnerability {
	var report semgrepReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}

	out := make([]model.Vulnerability, 0, len(report.Results))
	for _, issue := range report.Results {
		out = append(out, semgrepVulnerability(issue, root))
	}
	return out
}

func semgrepVulnerability(issue semgrepIssue, root string) model.Vulnerability {
	start := issue.Start.Line
	end := issue.End.Line
	if end == 0 {
		end = start + 5
	}

	severity := clampSeverity(issue.Extra.Severity, model.SeverityLow)

	impact := issue.Extra.Message
	if impact == "" {
		impact = "Security issue detected"
	}

	recommendation := issue.Extra.Metadata.Fix
	if recommendation == "" {
		recommendation = "Fix the identified security issue"
	}

	return model.Vulnerability{
		Name:           "Semgrep: " + issue.CheckID,
		File:           issue.Path,
		Lines:          fmt.Sprintf("%d-%d", start, end),
		Severity:       severity,
		Impact:         impact,
		Exploitable:    severity == model.SeverityHigh,
		CVSSScore:      severity.Score(),
		Description:    issue.Extra.Message + "\n\n" + issue.Extra.Metadata.Description,
		Recommendation: recommendation,
		CodeSnippet:    Snippet(resolvePath(root, issue.Path), start, end),
		Fix:            fmt.Sprintf("Review and fix the issue in %s at line %d: %s", issue.Path, start, issue.Extra.Message),
	}
}
