// Package scan sequences one scan request: safe extraction, project
// classification, tool execution and report normalization, with guaranteed
// workspace cleanup. Per-tool failures are absorbed here and degrade to
// zero findings; only extraction failures and internal errors reach the
// caller.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codescanhq/codescan/internal/archive"
	"github.com/codescanhq/codescan/internal/classify"
	"github.com/codescanhq/codescan/internal/log"
	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/tools"
)

// Orchestrator runs scans. It is safe for concurrent use: every request
// owns its own workspace tree and no state is shared between requests.
type Orchestrator struct {
	baseDir  string
	toolsCfg model.ToolsConfig
	tools    []tools.Tool
}

func New(cfg model.Config) *Orchestrator {
	base := cfg.WorkDir
	if base == "" {
		base = os.TempDir()
	}
	return &Orchestrator{
		baseDir:  base,
		toolsCfg: cfg.Tools,
		tools:    tools.Registry(),
	}
}

// WithTools replaces the tool registry. This method exists for unit
// testing only.
func (o *Orchestrator) WithTools(ts ...tools.Tool) *Orchestrator {
	o.tools = ts
	return o
}

// Scan runs the full pipeline on an uploaded archive and returns the
// aggregated report. The returned error is model.ErrInvalidArchive when
// the upload is rejected, otherwise only genuinely internal failures
// surface; a tool that crashes, times out or emits garbage contributes
// zero findings and the scan still succeeds.
func (o *Orchestrator) Scan(ctx context.Context, upload []byte) (model.ScanReport, error) {
	scanID := uuid.New().String()
	ctx = log.WithScan(ctx, scanID)

	ws, err := newWorkspace(o.baseDir, scanID)
	if err != nil {
		return model.ScanReport{}, fmt.Errorf("creating scan workspace: %w", err)
	}
	defer ws.Remove(ctx)

	// keep the raw upload on disk next to its extraction for diagnostics
	if err := os.WriteFile(ws.UploadPath(), upload, 0o600); err != nil {
		return model.ScanReport{}, fmt.Errorf("storing upload: %w", err)
	}

	if err := archive.Extract(upload, ws.ExtractDir()); err != nil {
		return model.ScanReport{}, err
	}

	projectType := classify.Detect(ws.ExtractDir())
	slog.InfoContext(ctx, "project classified", "project_type", projectType)

	// findings keep tool invocation order, then tool emission order
	vulnerabilities := []model.Vulnerability{}
	for _, tool := range o.tools {
		if !tool.AppliesTo(projectType) {
			continue
		}
		vulnerabilities = append(vulnerabilities, o.runTool(ctx, tool, ws)...)
	}

	return model.ScanReport{
		ScanID:          scanID,
		ProjectType:     projectType,
		Vulnerabilities: vulnerabilities,
	}, nil
}

func (o *Orchestrator) runTool(ctx context.Context, tool tools.Tool, ws workspace) []model.Vulnerability {
	ctx = log.WithTool(ctx, tool.Name)

	outputPath := filepath.Join(ws.ResultsDir(), tool.OutputFile)
	args, ok := tool.Args(ws.ExtractDir(), outputPath)
	if !ok {
		slog.DebugContext(ctx, "tool not applicable to this tree, skipping")
		return nil
	}

	res := tools.Run(ctx, tools.Command{
		Path:    o.binary(tool.Name),
		Args:    args,
		Dir:     ws.ExtractDir(),
		Timeout: o.toolsCfg.Timeout,
	})
	switch {
	case res.TimedOut:
		slog.WarnContext(ctx, "tool timed out, contributing zero findings",
			"timeout", o.toolsCfg.Timeout.String())
	case res.ExitCode != 0:
		// most scanners exit nonzero when they find issues; only the
		// output file decides whether the run produced findings
		slog.DebugContext(ctx, "tool exited nonzero",
			"exit_code", res.ExitCode, "stderr", res.Stderr)
	}

	raw, err := os.ReadFile(outputPath)
	if err != nil {
		slog.WarnContext(ctx, "tool produced no report, contributing zero findings", "error", err)
		return nil
	}

	findings := tool.Normalize(raw, ws.ExtractDir())
	slog.InfoContext(ctx, "tool finished",
		"findings", len(findings), "elapsed", res.Duration.String())
	return findings
}

func (o *Orchestrator) binary(name string) string {
	if path, ok := o.toolsCfg.Binaries[name]; ok && path != "" {
		return path
	}
	return name
}
