// Package report renders a ScanReport in alternative output formats.
// The default API/CLI output is the plain JSON report; CycloneDX is
// offered for consumers that ingest BOM tooling.
package report

import (
	"fmt"
	"io"
	"runtime/debug"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/codescanhq/codescan/internal/model"
)

var version string

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		version = "unknown"
	} else {
		version = info.Main.Version
	}
}

// BOM converts a scan report into a CycloneDX BOM carrying one
// vulnerability entry per finding. The unified severity score is exported
// as the rating score, so both representations stay consistent.
func BOM(rep model.ScanReport) cdx.BOM {
	vulns := make([]cdx.Vulnerability, 0, len(rep.Vulnerabilities))
	for i, v := range rep.Vulnerabilities {
		vulns = append(vulns, vulnerability(i, v))
	}

	return cdx.BOM{
		JSONSchema:   "https://cyclonedx.org/schema/bom-1.6.schema.json",
		BOMFormat:    "CycloneDX",
		SpecVersion:  cdx.SpecVersion1_6,
		SerialNumber: "urn:uuid:" + rep.ScanID,
		Version:      1,
		Metadata: &cdx.Metadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Component: &cdx.Component{
				Type:    cdx.ComponentTypeApplication,
				Name:    "codescan",
				Version: version,
				Properties: &[]cdx.Property{
					{Name: "codescan:project_type", Value: string(rep.ProjectType)},
				},
			},
		},
		Vulnerabilities: &vulns,
	}
}

func vulnerability(idx int, v model.Vulnerability) cdx.Vulnerability {
	score := v.CVSSScore

	id := v.CVE
	if id == "" {
		id = v.Name
	}

	return cdx.Vulnerability{
		BOMRef:         fmt.Sprintf("finding-%d", idx),
		ID:             id,
		Description:    v.Description,
		Detail:         v.Impact,
		Recommendation: v.Recommendation,
		Ratings: &[]cdx.VulnerabilityRating{
			{
				Score:    &score,
				Severity: severity(v.Severity),
				Method:   cdx.ScoringMethodOther,
			},
		},
		Affects: &[]cdx.Affects{
			{Ref: v.File},
		},
		Properties: &[]cdx.Property{
			{Name: "codescan:lines", Value: v.Lines},
			{Name: "codescan:exploitable", Value: fmt.Sprintf("%t", v.Exploitable)},
		},
	}
}

func severity(s model.Severity) cdx.Severity {
	switch s {
	case model.SeverityLow:
		return cdx.SeverityLow
	case model.SeverityMedium:
		return cdx.SeverityMedium
	case model.SeverityHigh:
		return cdx.SeverityHigh
	case model.SeverityCritical:
		return cdx.SeverityCritical
	default:
		return cdx.SeverityUnknown
	}
}

// AsJSON encodes the report as a pretty-printed CycloneDX JSON BOM.
func AsJSON(w io.Writer, rep model.ScanReport) error {
	bom := BOM(rep)
	return cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON).SetPretty(true).Encode(&bom)
}
