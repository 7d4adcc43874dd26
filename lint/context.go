package lint

import (
	"fmt"
	"regexp"

	"github.com/boundlint/boundlint/config"
)

// Layer marker segments recognized inside module names. A module named
// MyApp.Accounts.Domain.User belongs to the MyApp.Accounts context and its
// Domain layer module is MyApp.Accounts.Domain.
const (
	segmentDomain         = "Domain"
	segmentApplication    = "Application"
	segmentInfrastructure = "Infrastructure"
)

func isLayerSegment(segment string) bool {
	return segment == segmentDomain || segment == segmentApplication || segment == segmentInfrastructure
}

// contextOf returns the architectural context owning the module: the name
// prefix before the first layer marker segment, or the module's parent when
// the name carries no marker. Contexts can nest, so the result may itself
// live inside a wider context.
func contextOf(ref ModuleRef) ModuleRef {
	for i, segment := range ref {
		if isLayerSegment(segment) {
			return ref[:i]
		}
	}
	return ref.Parent()
}

// contextMatcher recognizes context facade modules (lib/my_app/accounts.ex
// fronting MyApp.Accounts) by configured patterns over the same "Name path"
// subject the classifier uses. Facades match no layer pattern, so only
// LayerUnknown units qualify. The delegation-bypass checks inspect facades
// alongside the application layer.
type contextMatcher struct {
	patterns []*regexp.Regexp
	excludes []*regexp.Regexp
}

func newContextMatcher(cfg config.PatternGroup) (*contextMatcher, error) {
	m := &contextMatcher{}
	for _, pattern := range cfg.Patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("contexts: pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, compiled)
	}
	for _, pattern := range cfg.Excludes {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("contexts: exclude %q: %w", pattern, err)
		}
		m.excludes = append(m.excludes, compiled)
	}
	return m, nil
}

// Match reports whether the unit is a context facade module.
func (m *contextMatcher) Match(u *SourceUnit) bool {
	if u.Layer != LayerUnknown || len(u.Module) == 0 {
		return false
	}
	subject := u.ModuleName() + " " + u.Path
	for _, pattern := range m.excludes {
		if pattern.MatchString(subject) {
			return false
		}
	}
	for _, pattern := range m.patterns {
		if pattern.MatchString(subject) {
			return true
		}
	}
	return false
}

// moduleIndex answers existence queries over the full classified set: which
// modules are known, directly or as a parent of a known module.
type moduleIndex struct {
	known map[string]bool
}

func indexModules(units []*SourceUnit) *moduleIndex {
	ix := &moduleIndex{known: map[string]bool{}}
	for _, unit := range units {
		for i := range unit.Module {
			ix.known[unit.Module[:i+1].String()] = true
		}
	}
	return ix
}

// Has reports whether ref names a known module or a parent of one.
func (ix *moduleIndex) Has(ref ModuleRef) bool {
	return len(ref) > 0 && ix.known[ref.String()]
}

// resolveLayerModule returns the layer module a context's members may depend
// on, walking up through enclosing contexts when the context has no layer
// module of its own. When no known module matches anywhere up the chain, the
// structural candidate within the given context is returned with exists
// false, so the allowed-set comparison still has a subject.
func resolveLayerModule(context ModuleRef, segment string, ix *moduleIndex) (ModuleRef, bool) {
	for c := context; ; c = c.Parent() {
		candidate := c.Child(segment)
		if ix.Has(candidate) {
			return candidate, true
		}
		if len(c) == 0 {
			break
		}
	}
	return context.Child(segment), false
}
