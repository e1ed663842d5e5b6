package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codescanhq/codescan/internal/model"
)

// securityPrefixes is the fixed set of ruff rule-code prefixes considered
// security relevant (flake8-bandit, flake8-bugbear, flake8-builtins).
// Initialized once, never mutated.
var securityPrefixes = []string{"S", "B", "A"}

type ruffIssue struct {
	Code     string `json:"code"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
	Location struct {
		Row int `json:"row"`
	} `json:"location"`
}

// ParseRuff maps a ruff JSON report to unified findings. Lint findings are
// never directly exploitable; severity is derived from the rule code, not
// tool-reported: a security-relevant prefix means MEDIUM, anything else LOW.
func ParseRuff(raw []byte, root string) []model.Vulnerability {
	var issues []ruffIssue
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil
	}

	out := make([]model.Vulnerability, 0, len(issues))
	for _, issue := range issues {
		out = append(out, ruffVulnerability(issue, root))
	}
	return out
}

func ruffVulnerability(issue ruffIssue, root string) model.Vulnerability {
	row := issue.Location.Row
	start := row - 2
	if start < 1 {
		start = 1
	}
	end := row + 3

	severity := model.SeverityLow
	for _, prefix := range securityPrefixes {
		if strings.HasPrefix(issue.Code, prefix) {
			severity = model.SeverityMedium
			break
		}
	}

	impact := issue.Message
	if impact == "" {
		impact = "Code quality issue detected"
	}

	return model.Vulnerability{
		Name:           "Ruff: " + issue.Code,
		File:           issue.Filename,
		Lines:          fmt.Sprintf("%d-%d", row, row),
		Severity:       severity,
		Impact:         impact,
		Exploitable:    false,
		CVSSScore:      severity.Score(),
		Description:    "Code quality issue: " + issue.Message,
		Recommendation: fmt.Sprintf("Fix the %s issue: %s", issue.Code, issue.Message),
		CodeSnippet:    Snippet(resolvePath(root, issue.Filename), start, end),
		Fix:            fmt.Sprintf("Fix the issue in %s at line %d: %s", issue.Filename, row, issue.Message),
	}
}
