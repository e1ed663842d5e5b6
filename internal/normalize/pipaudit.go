package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codescanhq/codescan/internal/model"
)

type pipAuditReport struct {
	Vulnerabilities []pipAuditEntry `json:"vulnerabilities"`
}

type pipAuditEntry struct {
	Package struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"package"`
	Vulnerability struct {
		ID          string   `json:"id"`
		Severity    string   `json:"severity"`
		Description string   `json:"description"`
		Aliases     []string `json:"aliases"`
		FixVersions []string `json:"fix_versions"`
	} `json:"vulnerability"`
}

// ParsePipAudit maps a pip-audit JSON report to unified findings.
// Package vulnerabilities carry no file or line information: the file field
// is synthesized from the package name, the line range is "N/A" and there
// is no code snippet. An unrecognized severity defaults to MEDIUM, a higher
// baseline than unknown code issues.
func ParsePipAudit(raw []byte, _ string) []model.Vulnerability {
	var report pipAuditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}

	out := make([]model.Vulnerability, 0, len(report.Vulnerabilities))
	for _, entry := range report.Vulnerabilities {
		out = append(out, pipAuditVulnerability(entry))
	}
	return out
}

func pipAuditVulnerability(entry pipAuditEntry) model.Vulnerability {
	vuln := entry.Vulnerability
	pkg := entry.Package

	severity := clampSeverity(vuln.Severity, model.SeverityMedium)

	var cve string
	for _, alias := range vuln.Aliases {
		if strings.HasPrefix(alias, "CVE-") {
			cve = alias
			break
		}
	}

	fixVersion := "latest"
	if len(vuln.FixVersions) > 0 {
		fixVersion = vuln.FixVersions[0]
	}

	desc := vuln.Description
	if desc == "" {
		desc = "Vulnerable package detected"
	}

	return model.Vulnerability{
		Name:           "pip-audit: " + vuln.ID,
		File:           fmt.Sprintf("requirements.txt (Package: %s)", pkg.Name),
		Lines:          "N/A",
		Severity:       severity,
		Impact:         fmt.Sprintf("Vulnerable package: %s %s", pkg.Name, pkg.Version),
		Exploitable:    severity == model.SeverityHigh || severity == model.SeverityCritical,
		CVSSScore:      severity.Score(),
		Description:    desc,
		CVE:            cve,
		Recommendation: fmt.Sprintf("Update %s to version %s", pkg.Name, fixVersion),
		Fix:            fmt.Sprintf("pip install --upgrade %s==%s", pkg.Name, fixVersion),
	}
}
