package lint

import (
	"fmt"

	"github.com/boundlint/boundlint/issue"
)

// boundaryValidator enforces the Dependency Rule across the full classified
// set: Domain modules declare no dependencies, Application modules depend
// only on their own Domain, Infrastructure modules on their own Domain and
// Application, Interface modules are unconstrained. "Own" resolves through
// nested contexts, falling back to the nearest enclosing context that has
// the layer module. It runs once, after all per-file analysis completes.
type boundaryValidator struct {
	forbidden rule
	missing   rule
}

func (v *boundaryValidator) Validate(units []*SourceUnit) []issue.Issue {
	ix := indexModules(units)
	var issues []issue.Issue
	for _, unit := range units {
		if unit.Decl == nil {
			// No boundary declaration: the module is exempt, not violating.
			continue
		}
		issues = append(issues, v.validateUnit(unit, ix)...)
	}
	return issues
}

func (v *boundaryValidator) validateUnit(unit *SourceUnit, ix *moduleIndex) []issue.Issue {
	switch unit.Layer {
	case LayerDomain:
		return v.validateDomain(unit)
	case LayerApplication:
		return v.validateOuter(unit, ix, segmentDomain)
	case LayerInfrastructure:
		return v.validateOuter(unit, ix, segmentDomain, segmentApplication)
	default:
		// Interface is unconstrained; Unknown is exempt from the rule.
		return nil
	}
}

// validateDomain flags every declared dependency: the innermost layer must
// be pure and self-contained.
func (v *boundaryValidator) validateDomain(unit *SourceUnit) []issue.Issue {
	var issues []issue.Issue
	for _, dep := range unit.Decl.Deps {
		issues = append(issues, v.forbidden.newIssue(unit, unit.Decl.Line, dep.String(),
			fmt.Sprintf("domain module %s must not depend on %s; domain boundaries declare deps: []",
				unit.ModuleName(), dep)))
	}
	return issues
}

// validateOuter checks a unit against the allowed layer modules of its own
// context: each declared dependency must fall under one of them, and each
// allowed layer module that exists on disk must be declared.
func (v *boundaryValidator) validateOuter(unit *SourceUnit, ix *moduleIndex, segments ...string) []issue.Issue {
	context := contextOf(unit.Module)

	type allowed struct {
		ref    ModuleRef
		exists bool
	}
	allowedSet := make([]allowed, 0, len(segments))
	for _, segment := range segments {
		ref, exists := resolveLayerModule(context, segment, ix)
		allowedSet = append(allowedSet, allowed{ref: ref, exists: exists})
	}

	var issues []issue.Issue
	for _, dep := range unit.Decl.Deps {
		permitted := false
		for _, a := range allowedSet {
			if dep.Equal(a.ref) || dep.HasPrefix(a.ref) {
				permitted = true
				break
			}
		}
		if !permitted {
			names := make([]string, 0, len(allowedSet))
			for _, a := range allowedSet {
				names = append(names, a.ref.String())
			}
			issues = append(issues, v.forbidden.newIssue(unit, unit.Decl.Line, dep.String(),
				fmt.Sprintf("%s module %s must not depend on %s; allowed dependencies: %s",
					unit.Layer, unit.ModuleName(), dep, joinNames(names))))
		}
	}

	for _, a := range allowedSet {
		if !a.exists {
			continue
		}
		declared := false
		for _, dep := range unit.Decl.Deps {
			if dep.Equal(a.ref) || dep.HasPrefix(a.ref) {
				declared = true
				break
			}
		}
		if !declared {
			issues = append(issues, v.missing.newIssue(unit, unit.Decl.Line, a.ref.String(),
				fmt.Sprintf("%s module %s does not declare its %s dependency %s",
					unit.Layer, unit.ModuleName(), lowered(a.ref.Last()), a.ref)))
		}
	}
	return issues
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "none"
	case 1:
		return names[0]
	default:
		out := names[0]
		for _, name := range names[1:] {
			out += ", " + name
		}
		return out
	}
}

func lowered(segment string) string {
	switch segment {
	case segmentDomain:
		return "domain"
	case segmentApplication:
		return "application"
	case segmentInfrastructure:
		return "infrastructure"
	default:
		return segment
	}
}
