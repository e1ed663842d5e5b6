package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/codescanhq/codescan/internal/model"
)

type banditReport struct {
	Results []banditIssue `json:"results"`
}

type banditIssue struct {
	TestID          string `json:"test_id"`
	TestName        string `json:"test_name"`
	Filename        string `json:"filename"`
	LineNumber      int    `json:"line_number"`
	IssueSeverity   string `json:"issue_severity"`
	IssueText       string `json:"issue_text"`
	IssueConfidence string `json:"issue_confidence"`
	MoreInfo        string `json:"more_info"`
}

// ParseBandit maps a bandit JSON report to unified findings. Bandit reports
// only a start line, so the range is approximated by a fixed ten line
// window for the code snippet.
func ParseBandit(raw []byte, root string) []model.Vulnerability {
	var report banditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}

	out := make([]model.Vulnerability, 0, len(report.Results))
	for _, issue := range report.Results {
		out = append(out, banditVulnerability(issue, root))
	}
	return out
}

func banditVulnerability(issue banditIssue, root string) model.Vulnerability {
	start := issue.LineNumber
	end := start + 10

	severity := clampSeverity(issue.IssueSeverity, model.SeverityLow)

	impact := issue.IssueText
	if impact == "" {
		impact = "Security issue detected"
	}

	recommendation := issue.IssueConfidence
	if recommendation == "" {
		recommendation = "Fix the identified security issue"
	}

	name := issue.TestName
	if name == "" {
		name = "security issue"
	}

	return model.Vulnerability{
		Name:           fmt.Sprintf("Bandit: %s - %s", issue.TestID, issue.TestName),
		File:           issue.Filename,
		Lines:          fmt.Sprintf("%d-%d", start, end),
		Severity:       severity,
		Impact:         impact,
		Exploitable:    severity == model.SeverityHigh,
		CVSSScore:      severity.Score(),
		Description:    issue.IssueText + "\n\n" + issue.MoreInfo,
		Recommendation: recommendation,
		CodeSnippet:    Snippet(resolvePath(root, issue.Filename), start, end),
		Fix:            fmt.Sprintf("Review and fix the %s in %s at line %d", name, issue.Filename, start),
	}
}
