package lint

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/project"
)

// The structural-placement family: a filename that announces a role
// (_policy.ex, _repository.ex, ...) must live in its layer's canonical
// subdirectory. These checks read no syntax; they judge paths, plus an
// injected filesystem probe to tell whether the computed correct location
// already holds a file.

var layerDirs = []string{"/domain/", "/application/", "/infrastructure/", "/interface/", "/use_cases/"}

// placementCheck flags files whose role suffix (or directory) does not match
// their canonical subdirectory.
type placementCheck struct {
	rule
	fs project.FileSystem
	// suffix matches role-by-filename rules; contains matches
	// role-by-directory rules. Exactly one is set per instance.
	suffix     string
	contains   string
	dir        string
	exceptions map[string]bool
}

func newPlacementCheck(id, suffix, contains string, cfg config.Check, fs project.FileSystem) (*placementCheck, error) {
	meta, err := newRule(id, issue.CategoryWarning, cfg)
	if err != nil {
		return nil, err
	}
	exceptions := make(map[string]bool, len(cfg.Exceptions))
	for _, name := range cfg.Exceptions {
		exceptions[name] = true
	}
	return &placementCheck{
		rule:       meta,
		fs:         fs,
		suffix:     suffix,
		contains:   contains,
		dir:        cfg.Dir,
		exceptions: exceptions,
	}, nil
}

func (c *placementCheck) CheckFile(u *SourceUnit) []issue.Issue {
	base := path.Base(u.Path)
	if c.exceptions[base] {
		return nil
	}
	switch {
	case c.suffix != "":
		if !strings.HasSuffix(base, c.suffix) {
			return nil
		}
	case c.contains != "":
		if !strings.Contains(u.Path, "/"+c.contains+"/") {
			return nil
		}
	default:
		return nil
	}
	if strings.Contains(u.Path, "/"+c.dir+"/") {
		return nil
	}

	candidate := path.Join(contextRootOf(u.Path), c.dir, base)
	message := fmt.Sprintf("%s belongs under %s; move it to %s", base, c.dir, candidate)
	if c.fs.Exists(candidate) {
		message = fmt.Sprintf("%s belongs under %s; a module already exists at %s, merge them", base, c.dir, candidate)
	}
	return []issue.Issue{c.newIssue(u, 1, base, message)}
}

// contextRootOf strips the trailing layer directory chain from the file's
// location, yielding the directory the canonical subdirectory hangs off.
func contextRootOf(filePath string) string {
	cut := -1
	for _, layerDir := range layerDirs {
		if idx := strings.LastIndex(filePath, layerDir); idx > cut {
			cut = idx
		}
	}
	if cut >= 0 {
		return filePath[:cut]
	}
	// No layer directory in the path: assume the file sits directly in its
	// context directory.
	return path.Dir(filePath)
}

// missingQueriesCheck verifies that every context defining schema modules
// also has a queries module; persistence reads otherwise end up inline in
// the context. Needs the whole unit set, so it runs at the validator
// barrier, one finding per context.
type missingQueriesCheck struct {
	rule
	fs project.FileSystem
}

func newMissingQueriesCheck(cfg config.Check, fs project.FileSystem) (*missingQueriesCheck, error) {
	meta, err := newRule(config.RuleMissingQueries, issue.CategoryWarning, cfg)
	if err != nil {
		return nil, err
	}
	return &missingQueriesCheck{rule: meta, fs: fs}, nil
}

func (c *missingQueriesCheck) CheckProject(units []*SourceUnit) []issue.Issue {
	// First schema file per context, in deterministic order.
	schemaByContext := map[string]*SourceUnit{}
	for _, unit := range units {
		idx := strings.LastIndex(unit.Path, "/schemas/")
		if idx < 0 {
			continue
		}
		contextDir := strings.TrimSuffix(unit.Path[:idx], "/infrastructure")
		if existing, ok := schemaByContext[contextDir]; !ok || unit.Path < existing.Path {
			schemaByContext[contextDir] = unit
		}
	}

	contexts := make([]string, 0, len(schemaByContext))
	for contextDir := range schemaByContext {
		contexts = append(contexts, contextDir)
	}
	sort.Strings(contexts)

	var issues []issue.Issue
	for _, contextDir := range contexts {
		if c.hasQueries(contextDir) {
			continue
		}
		unit := schemaByContext[contextDir]
		issues = append(issues, c.newIssue(unit, 1, path.Base(contextDir),
			fmt.Sprintf("context %s defines schemas but no queries module; add %s",
				path.Base(contextDir), path.Join(contextDir, "queries.ex"))))
	}
	return issues
}

func (c *missingQueriesCheck) hasQueries(contextDir string) bool {
	candidates := []string{
		path.Join(contextDir, "queries.ex"),
		path.Join(contextDir, "queries"),
		path.Join(contextDir, "infrastructure", "queries.ex"),
		path.Join(contextDir, "infrastructure", "queries"),
	}
	for _, candidate := range candidates {
		if c.fs.Exists(candidate) {
			return true
		}
	}
	return false
}
