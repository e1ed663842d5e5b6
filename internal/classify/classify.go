// Package classify assigns a project-type label to an extracted tree.
// The label is advisory, it only selects which analysis tools run.
package classify

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/codescanhq/codescan/internal/model"
)

type rule struct {
	label model.ProjectType
	match func(root string) bool
}

// rules are evaluated in order, first match wins.
var rules = []rule{
	{model.ProjectTypePython, isPython},
	{model.ProjectTypeDocker, isDocker},
}

// Detect inspects the tree rooted at root and returns its project type.
// Read-only and deterministic for a given tree.
func Detect(root string) model.ProjectType {
	for _, r := range rules {
		if r.match(root) {
			return r.label
		}
	}
	return model.ProjectTypeGeneric
}

func isPython(root string) bool {
	if exists(filepath.Join(root, "requirements.txt")) || exists(filepath.Join(root, "setup.py")) {
		return true
	}
	if isPyProject(filepath.Join(root, "pyproject.toml")) {
		return true
	}
	return containsFile(root, func(name string) bool {
		return strings.HasSuffix(name, ".py")
	})
}

func isDocker(root string) bool {
	return containsFile(root, func(name string) bool {
		return name == "Dockerfile"
	})
}

// pyProject is the minimal shape needed to tell a Python package manifest
// from an unrelated file that happens to be called pyproject.toml.
type pyProject struct {
	Project *struct {
		Name string `toml:"name"`
	} `toml:"project"`
	BuildSystem *struct {
		Requires []string `toml:"requires"`
	} `toml:"build-system"`
	Tool map[string]any `toml:"tool"`
}

func isPyProject(path string) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var p pyProject
	if err := toml.Unmarshal(b, &p); err != nil {
		return false
	}
	return p.Project != nil || p.BuildSystem != nil || len(p.Tool) > 0
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func containsFile(root string, match func(name string) bool) bool {
	var found bool
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree never fails classification
		}
		if !d.IsDir() && match(d.Name()) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
