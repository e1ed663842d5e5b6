// Package normalize converts the native report of each supported analysis
// tool into the unified model.Vulnerability record. One parse function per
// tool family; each tolerates missing fields and never fails a scan: a
// record it cannot interpret simply yields defaults, and unparseable input
// yields no findings at all.
package normalize

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/codescanhq/codescan/internal/model"
)

// Func is the common shape of a tool-family normalizer: raw report bytes
// plus the extraction root, producing unified findings.
type Func func(raw []byte, root string) []model.Vulnerability

// Snippet reads the inclusive line range [start, end] from the file at
// path. Reads are lenient: undecodable bytes are replaced, the range is
// clamped to the file's actual line count, and an unreadable file yields
// an empty snippet rather than an error.
func Snippet(path string, start, end int) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	text := strings.ToValidUTF8(string(b), string(utf8.RuneError))
	lines := strings.Split(text, "\n")

	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// resolvePath joins a tool-reported file path with the extraction root.
// Tools invoked on an absolute extraction dir report absolute paths, which
// are kept as-is.
func resolvePath(root, file string) string {
	if file == "" {
		return ""
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
}

// clampSeverity normalizes a tool-reported severity into the three levels
// source-level scanners use; anything else falls back to def.
func clampSeverity(s string, def model.Severity) model.Severity {
	switch sev := model.Severity(strings.ToUpper(s)); sev {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh:
		return sev
	default:
		return def
	}
}
