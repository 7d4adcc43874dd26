package lint

import (
	"fmt"
	"strings"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
)

// The boundary-crossing family: a context's policies, schemas and query
// modules are internal; other contexts go through the context's public API.

// crossContextCheck flags aliases and calls whose target is an internal
// submodule (by name suffix) of a different context. References within the
// own context, or into an enclosing context, stay legal: nesting shares the
// ancestor chain.
type crossContextCheck struct {
	rule
	suffixes []string
}

func newCrossContextCheck(id string, cfg config.Check) (*crossContextCheck, error) {
	meta, err := newRule(id, issue.CategoryDesign, cfg)
	if err != nil {
		return nil, err
	}
	return &crossContextCheck{rule: meta, suffixes: cfg.Suffixes}, nil
}

func (c *crossContextCheck) Applicable(u *SourceUnit) bool {
	return len(u.Module) > 0 && u.Tree != nil && !c.excluded(u)
}

func (c *crossContextCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	switch node := n.(type) {
	case *syntax.Directive:
		if node.Kind != "alias" && node.Kind != "import" {
			return nil
		}
		var issues []issue.Issue
		for _, ref := range node.Aliases() {
			issues = append(issues, c.inspect(u, node.Pos(), ModuleRef(ref.Segments))...)
		}
		return issues
	case *syntax.Call:
		if len(node.Receiver) < 2 {
			// Single-segment receivers are alias-resolved locally; without
			// the full name there is no context to compare.
			return nil
		}
		return c.inspect(u, node.Pos(), ModuleRef(node.Receiver))
	default:
		return nil
	}
}

func (c *crossContextCheck) inspect(u *SourceUnit, line int, target ModuleRef) []issue.Issue {
	if !c.matchesSuffix(target.Last()) {
		return nil
	}
	targetContext := contextOf(target)
	// A module inside the target's context chain accesses its own (or an
	// enclosing) context; crossing only happens sideways.
	if len(targetContext) == 0 || u.Module.HasPrefix(targetContext) {
		return nil
	}
	return []issue.Issue{c.newIssue(u, line, target.String(),
		fmt.Sprintf("%s accesses %s, an internal module of context %s; go through that context's public API",
			u.ModuleName(), target, targetContext))}
}

func (c *crossContextCheck) matchesSuffix(segment string) bool {
	for _, suffix := range c.suffixes {
		if strings.HasSuffix(segment, suffix) {
			return true
		}
	}
	return false
}

// schemaAccessCheck flags references to a schema owned by another context.
// Ownership comes from the injected short-name table, since schema modules
// rarely carry a layer marker in their name.
type schemaAccessCheck struct {
	rule
	owners map[string]string
}

func newSchemaAccessCheck(cfg config.Check, owners map[string]string) (*schemaAccessCheck, error) {
	meta, err := newRule(config.RuleCrossContextSchema, issue.CategoryDesign, cfg)
	if err != nil {
		return nil, err
	}
	return &schemaAccessCheck{rule: meta, owners: owners}, nil
}

func (c *schemaAccessCheck) Applicable(u *SourceUnit) bool {
	return len(c.owners) > 0 && len(u.Module) > 0 && u.Tree != nil && !c.excluded(u)
}

func (c *schemaAccessCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	switch node := n.(type) {
	case *syntax.Directive:
		if node.Kind != "alias" {
			return nil
		}
		var issues []issue.Issue
		for _, ref := range node.Aliases() {
			issues = append(issues, c.inspect(u, node.Pos(), ModuleRef(ref.Segments))...)
		}
		return issues
	case *syntax.Call:
		if len(node.Receiver) == 0 {
			return nil
		}
		return c.inspect(u, node.Pos(), ModuleRef(node.Receiver))
	default:
		return nil
	}
}

func (c *schemaAccessCheck) inspect(u *SourceUnit, line int, target ModuleRef) []issue.Issue {
	owner, ok := c.owners[target.Last()]
	if !ok {
		return nil
	}
	if ownerWithin(u.Module, owner) {
		return nil
	}
	return []issue.Issue{c.newIssue(u, line, target.String(),
		fmt.Sprintf("%s accesses schema %s owned by context %s; expose the data through %s's public API",
			u.ModuleName(), target, owner, owner))}
}

// ownerWithin reports whether the owning context name appears in the unit's
// own module name, so a context and its nested contexts keep access.
func ownerWithin(module ModuleRef, owner string) bool {
	for _, segment := range module {
		if segment == owner {
			return true
		}
	}
	return false
}
