package project

import (
	"path"
	"sort"
	"strings"
)

// Sources enumerates Elixir source files under the given project-relative
// roots, recursively, skipping the named directories. Results are sorted so
// downstream processing order is deterministic.
func Sources(fs FileSystem, projectRoot string, roots []string, skipDirs []string) ([]string, error) {
	skip := make(map[string]bool, len(skipDirs))
	for _, name := range skipDirs {
		skip[name] = true
	}
	var out []string
	for _, root := range roots {
		dir := path.Join(projectRoot, root)
		if !fs.Exists(dir) {
			continue
		}
		collected, err := collect(fs, dir, skip)
		if err != nil {
			return nil, err
		}
		out = append(out, collected...)
	}
	sort.Strings(out)
	return out, nil
}

func collect(fs FileSystem, dir string, skip map[string]bool) ([]string, error) {
	entries, err := fs.List(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.Dir {
			if skip[entry.Name] || strings.HasPrefix(entry.Name, ".") {
				continue
			}
			nested, err := collect(fs, path.Join(dir, entry.Name), skip)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		if strings.HasSuffix(entry.Name, ".ex") {
			out = append(out, path.Join(dir, entry.Name))
		}
	}
	return out, nil
}
