package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// workspace is the ephemeral directory tree owned by one in-flight scan:
// the raw upload, the extraction target and the tool output target. It is
// created before extraction and removed on every exit path.
type workspace struct {
	root string
}

func newWorkspace(base, scanID string) (workspace, error) {
	ws := workspace{root: filepath.Join(base, "codescan-"+scanID)}
	for _, dir := range []string{ws.root, ws.ExtractDir(), ws.ResultsDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			_ = os.RemoveAll(ws.root)
			return workspace{}, fmt.Errorf("creating workspace dir %s: %w", dir, err)
		}
	}
	return ws, nil
}

func (ws workspace) UploadPath() string {
	return filepath.Join(ws.root, "upload.zip")
}

func (ws workspace) ExtractDir() string {
	return filepath.Join(ws.root, "extracted")
}

func (ws workspace) ResultsDir() string {
	return filepath.Join(ws.root, "results")
}

// Remove deletes the whole tree. Disk space is the one resource shared
// with the OS that a scan must never leak.
func (ws workspace) Remove(ctx context.Context) {
	if err := os.RemoveAll(ws.root); err != nil {
		slog.WarnContext(ctx, "removing scan workspace failed", "dir", ws.root, "error", err)
	}
}
