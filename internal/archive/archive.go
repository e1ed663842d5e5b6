// Package archive extracts uploaded ZIP archives into a target directory
// while refusing any entry that would escape it (zip-slip defense).
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codescanhq/codescan/internal/model"
)

// Extract unpacks the ZIP archive in src into dir. Validation runs over all
// entries before anything is written: a single entry resolving outside dir,
// or a structurally corrupt archive, aborts the whole extraction with
// model.ErrInvalidArchive and leaves dir untouched.
func Extract(src []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidArchive, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving extraction dir: %w", err)
	}

	// Fail closed before the first write. Partial extraction is not an
	// acceptable outcome for a safety violation.
	for _, f := range zr.File {
		if _, err := resolve(absDir, f.Name); err != nil {
			return err
		}
	}

	for _, f := range zr.File {
		dest, err := resolve(absDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", dest, err)
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps entry name to an absolute path and verifies it stays a
// descendant of dir.
func resolve(dir, name string) (string, error) {
	clean := filepath.FromSlash(name)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: entry %q escapes extraction directory", model.ErrInvalidArchive, name)
	}
	dest := filepath.Join(dir, clean)
	if dest != dir && !strings.HasPrefix(dest, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes extraction directory", model.ErrInvalidArchive, name)
	}
	return dest, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(dest), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening entry %q: %v", model.ErrInvalidArchive, f.Name, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", dest, err)
	}

	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: writing entry %q: %v", model.ErrInvalidArchive, f.Name, err)
	}
	return nil
}
