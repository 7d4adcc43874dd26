// Package issue defines the diagnostic model shared by every check: the
// immutable Issue value, severity and category enums, deterministic ordering,
// and stable fingerprints used by the baseline file.
package issue

import (
	"fmt"
	"sort"
)

// Category groups rules by violation family intent.
type Category string

const (
	// CategoryDesign marks violations of the layered dependency rule and
	// other architectural constraints.
	CategoryDesign Category = "design"
	// CategoryWarning marks softer findings such as misplaced files.
	CategoryWarning Category = "warning"
)

// Severity ranks how strongly a finding should be treated by callers.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Issue is a single reported diagnostic. Issues are value objects: produced
// by rule visitors and the boundary validator, never mutated afterwards.
type Issue struct {
	RuleID   string
	Category Category
	Severity Severity
	File     string
	Line     int
	Trigger  string
	Message  string
	// ExitStatus is the per-rule configured process exit status this issue
	// demands; the run status is the maximum across all reported issues.
	ExitStatus int
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: [%s] %s", i.File, i.Line, i.RuleID, i.Message)
}

// Sort orders issues deterministically by file path, then line, then rule id,
// then trigger, so output is stable regardless of worker scheduling.
func Sort(issues []Issue) {
	sort.Slice(issues, func(a, b int) bool {
		x, y := issues[a], issues[b]
		if x.File != y.File {
			return x.File < y.File
		}
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.RuleID != y.RuleID {
			return x.RuleID < y.RuleID
		}
		return x.Trigger < y.Trigger
	})
}

// MaxExitStatus aggregates the configured exit statuses of all issues.
func MaxExitStatus(issues []Issue) int {
	status := 0
	for _, is := range issues {
		if is.ExitStatus > status {
			status = is.ExitStatus
		}
	}
	return status
}
