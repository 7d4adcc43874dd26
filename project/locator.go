package project

import (
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/mod/modfile"
)

// Locator identifies the project root to lint by searching up the directory
// tree for well-known marker files.
type Locator struct {
	markers []string
}

// Project describes a located project root.
type Project struct {
	RootPath string
	Type     string
	Name     string
}

// NewLocator creates a locator recognizing Elixir projects first, with
// generic fallbacks for umbrella setups that only carry VCS markers.
func NewLocator() *Locator {
	return &Locator{
		markers: []string{
			"mix.exs", // Elixir projects
			"go.mod",  // Go projects (linted trees embedded in Go repos)
			".git",    // generic VCS marker
		},
	}
}

// Locate finds the project containing path. When no marker matches, the
// starting directory itself is returned as an untyped project so a run is
// still possible.
func (l *Locator) Locate(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	dir := startDir
	for {
		for _, marker := range l.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				project := &Project{RootPath: dir, Type: projectType(marker)}
				project.Name = projectName(dir, project.Type)
				return project, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return &Project{RootPath: startDir, Type: "unknown", Name: filepath.Base(startDir)}, nil
}

func projectType(marker string) string {
	switch marker {
	case "mix.exs":
		return "elixir"
	case "go.mod":
		return "go"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}

var mixAppRegex = regexp.MustCompile(`app:\s*:(\w+)`)

func projectName(rootPath, kind string) string {
	switch kind {
	case "elixir":
		data, err := os.ReadFile(filepath.Join(rootPath, "mix.exs"))
		if err == nil {
			if matches := mixAppRegex.FindSubmatch(data); len(matches) == 2 {
				return string(matches[1])
			}
		}
	case "go":
		goModPath := filepath.Join(rootPath, "go.mod")
		if data, err := os.ReadFile(goModPath); err == nil {
			if mod, _ := modfile.Parse(goModPath, data, nil); mod != nil && mod.Module != nil {
				return mod.Module.Mod.Path
			}
		}
	}
	return filepath.Base(rootPath)
}
