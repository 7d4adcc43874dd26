package lint

import (
	"fmt"
	"strings"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
)

// Check is one independent rule over a single source unit's syntax tree.
// The engine drives a depth-first pre-order walk and invokes Visit for every
// node; Visit inspects the node's shape and returns zero or more issues. A
// check is stateless and pure: same unit, same issues.
type Check interface {
	ID() string
	Applicable(u *SourceUnit) bool
	Visit(n syntax.Node, u *SourceUnit) []issue.Issue
}

// FileCheck is a rule that needs no syntax tree: it judges the file's
// location. File checks run even for files that failed to parse.
type FileCheck interface {
	ID() string
	CheckFile(u *SourceUnit) []issue.Issue
}

// ProjectCheck is a rule needing the full unit set at once, run at the same
// barrier as the boundary validator.
type ProjectCheck interface {
	ID() string
	CheckProject(units []*SourceUnit) []issue.Issue
}

// rule carries the identity and reporting metadata every check shares.
type rule struct {
	id         string
	category   issue.Category
	severity   issue.Severity
	exitStatus int
	excludes   []string
}

func newRule(id string, category issue.Category, cfg config.Check) (rule, error) {
	severity, err := cfg.ParsedSeverity()
	if err != nil {
		return rule{}, fmt.Errorf("check %s: %w", id, err)
	}
	exitStatus := 0
	if cfg.ExitStatus != nil {
		exitStatus = *cfg.ExitStatus
	}
	return rule{
		id:         id,
		category:   category,
		severity:   severity,
		exitStatus: exitStatus,
		excludes:   cfg.Excludes,
	}, nil
}

func (r rule) ID() string { return r.id }

// excluded reports whether the unit's module name matches a configured
// exemption substring.
func (r rule) excluded(u *SourceUnit) bool {
	name := u.ModuleName()
	for _, substring := range r.excludes {
		if substring != "" && strings.Contains(name, substring) {
			return true
		}
	}
	return false
}

func (r rule) newIssue(u *SourceUnit, line int, trigger, message string) issue.Issue {
	return issue.Issue{
		RuleID:     r.id,
		Category:   r.category,
		Severity:   r.severity,
		File:       u.Path,
		Line:       line,
		Trigger:    trigger,
		Message:    message,
		ExitStatus: r.exitStatus,
	}
}

// matchModule reports whether a call receiver (or alias name) refers to one
// of the configured capability modules. Configured names match the full
// dotted name or a trailing segment sequence, so "Repo" also catches the
// fully-qualified MyApp.Repo.
func matchModule(name string, modules []string) (string, bool) {
	for _, module := range modules {
		if name == module || strings.HasSuffix(name, "."+module) {
			return module, true
		}
	}
	return "", false
}

// matchFunction matches a qualified call like "DateTime.utc_now" against the
// configured capability calls, tolerating aliased receivers by suffix.
func matchFunction(qualified string, functions []string) (string, bool) {
	for _, function := range functions {
		if qualified == function || strings.HasSuffix(qualified, "."+function) {
			return function, true
		}
	}
	return "", false
}
