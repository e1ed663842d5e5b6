package model

import "strings"

// Severity is the unified four level severity scale. Tools emitting
// log-level style severities (INFO/WARNING/ERROR) are normalized into
// this scale by the per-tool normalizers.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// severityScores is the single source of truth for numeric scoring.
// No normalizer computes a score on its own.
var severityScores = map[string]float64{
	"LOW":      3.0,
	"MEDIUM":   5.5,
	"HIGH":     7.5,
	"CRITICAL": 9.0,
	"INFO":     1.0,
	"WARNING":  3.0,
	"ERROR":    7.0,
}

// ScoreForSeverity maps a severity string to a CVSS-like score.
// Unrecognized strings map to 3.0.
func ScoreForSeverity(severity string) float64 {
	if score, ok := severityScores[strings.ToUpper(severity)]; ok {
		return score
	}
	return 3.0
}

// Score returns the numeric score for the severity.
func (s Severity) Score() float64 {
	return ScoreForSeverity(string(s))
}

// Vulnerability is the unified finding record produced by the report
// normalizers. It is constructed once from a single raw tool record and
// not mutated afterwards.
type Vulnerability struct {
	Name           string   `json:"name"`
	File           string   `json:"file"`
	Lines          string   `json:"lines"` // "12-17" or "N/A"
	Severity       Severity `json:"severity"`
	Impact         string   `json:"impact"`
	Exploitable    bool     `json:"exploitable"`
	CVSSScore      float64  `json:"cvssScore"`
	Description    string   `json:"description"`
	CVE            string   `json:"cve,omitempty"`
	Recommendation string   `json:"recommendation"`
	CodeSnippet    string   `json:"codeSnippet"`
	Fix            string   `json:"fix"`
}

// ScanReport is the aggregated result of one scan request. Findings are
// ordered by tool invocation order, then by the order the tool emitted them.
type ScanReport struct {
	ScanID          string          `json:"scanId"`
	ProjectType     ProjectType     `json:"projectType"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}
