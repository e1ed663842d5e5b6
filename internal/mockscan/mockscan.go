// Package mockscan fabricates plausible scan results for demos and UI
// development. Nothing here runs a real scanner.
package mockscan

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codescanhq/codescan/internal/model"
)

// Report is the response for a mock scan request.
type Report struct {
	Status          string                `json:"status"`
	FileCount       int                   `json:"file_count"`
	Vulnerabilities []model.Vulnerability `json:"vulnerabilities"`
}

// Dashboard holds fabricated aggregate numbers for the demo dashboard.
type Dashboard struct {
	Status               string       `json:"status"`
	TotalProjects        int          `json:"total_projects"`
	TotalScans           int          `json:"total_scans"`
	VulnerabilitiesFound int          `json:"vulnerabilities_found"`
	CriticalIssues       int          `json:"critical_issues"`
	HighIssues           int          `json:"high_issues"`
	MediumIssues         int          `json:"medium_issues"`
	LowIssues            int          `json:"low_issues"`
	RecentScans          []RecentScan `json:"recent_scans"`
}

// RecentScan is one row of the dashboard's recent activity table.
type RecentScan struct {
	Project     string `json:"project"`
	IssuesFound int    `json:"issues_found"`
	LastScan    string `json:"last_scan"`
}

// Generator produces randomized mock findings. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded from the global source.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// WithRand replaces the random source. For unit testing only.
func (g *Generator) WithRand(rng *rand.Rand) *Generator {
	g.rng = rng
	return g
}

// Scan fabricates a report for the given file names. Files whose extension
// has no templates contribute nothing.
func (g *Generator) Scan(fileNames []string) Report {
	vulns := []model.Vulnerability{}
	for _, name := range fileNames {
		vulns = append(vulns, g.forFile(name)...)
	}
	return Report{
		Status:          "success",
		FileCount:       len(fileNames),
		Vulnerabilities: vulns,
	}
}

func (g *Generator) forFile(name string) []model.Vulnerability {
	ext := strings.ToLower(filepath.Ext(name))
	candidates, ok := templates[ext]
	if !ok {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Roughly 70% of eligible files get findings.
	if g.rng.Float64() >= 0.7 {
		return nil
	}
	n := g.rng.IntN(min(2, len(candidates)) + 1)
	if n == 0 {
		return nil
	}

	var out []model.Vulnerability
	for _, idx := range g.rng.Perm(len(candidates))[:n] {
		tpl := candidates[idx]
		start := 1 + g.rng.IntN(50)
		end := start + 1 + g.rng.IntN(10)
		v := model.Vulnerability{
			Name:           tpl.Name,
			File:           name,
			Lines:          fmt.Sprintf("%d-%d", start, end),
			Severity:       tpl.Severity,
			Impact:         tpl.Impact,
			Exploitable:    g.rng.IntN(2) == 1,
			CVSSScore:      tpl.CVSSScore,
			Description:    tpl.Description,
			Recommendation: tpl.Recommendation,
			CodeSnippet:    tpl.CodeSnippet,
			Fix:            tpl.Fix,
		}
		if g.rng.Float64() < 0.3 {
			v.CVE = fmt.Sprintf("CVE-%d-%d", 2020+g.rng.IntN(4), 1000+g.rng.IntN(99000))
		}
		out = append(out, v)
	}
	return out
}

// Dashboard fabricates aggregate statistics for the demo dashboard.
func (g *Generator) Dashboard() Dashboard {
	g.mu.Lock()
	defer g.mu.Unlock()

	projects := []string{"web-frontend", "payment-service", "user-api", "legacy-portal", "infra-scripts"}
	recent := make([]RecentScan, 0, 3)
	for i, p := range g.rng.Perm(len(projects))[:3] {
		recent = append(recent, RecentScan{
			Project:     projects[p],
			IssuesFound: g.rng.IntN(20),
			LastScan:    time.Now().AddDate(0, 0, -i).Format("2006-01-02"),
		})
	}

	critical := 1 + g.rng.IntN(5)
	high := 3 + g.rng.IntN(10)
	medium := 5 + g.rng.IntN(15)
	low := 8 + g.rng.IntN(20)
	return Dashboard{
		Status:               "success",
		TotalProjects:        len(projects),
		TotalScans:           20 + g.rng.IntN(80),
		VulnerabilitiesFound: critical + high + medium + low,
		CriticalIssues:       critical,
		HighIssues:           high,
		MediumIssues:         medium,
		LowIssues:            low,
		RecentScans:          recent,
	}
}
