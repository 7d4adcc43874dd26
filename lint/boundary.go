package lint

import "github.com/boundlint/boundlint/syntax"

// boundaryModule is the directive module carrying dependency declarations,
// e.g. `use Boundary, deps: [MyApp.Accounts.Domain]`.
const boundaryModule = "Boundary"

// Declaration is a module's declared allowed-dependency list. Deps is never
// nil for an extracted declaration: `deps: []` extracts as an empty slice.
type Declaration struct {
	Module ModuleRef
	Deps   []ModuleRef
	Line   int
}

// ExtractDeclarations returns the boundary declaration of every module
// defined in the tree. A module without a boundary directive contributes
// nothing. Extraction is fail-soft: malformed dependency entries are
// discarded rather than failing, and an unparseable deps attribute is
// treated as "no declaration"; under-extraction never produces the false
// positives over-extraction would.
func ExtractDeclarations(tree *syntax.Tree) []*Declaration {
	var out []*Declaration
	for _, module := range syntax.Modules(tree) {
		if decl := extractModuleDecl(module); decl != nil {
			out = append(out, decl)
		}
	}
	return out
}

// extractModuleDecl finds the boundary directive within one module body,
// without descending into nested module definitions (those own their own
// declarations).
func extractModuleDecl(module *syntax.Module) *Declaration {
	var decl *Declaration
	syntax.Walk(module.Body, func(n syntax.Node) bool {
		if _, nested := n.(*syntax.Module); nested {
			return false
		}
		if decl != nil {
			return false
		}
		directive, ok := n.(*syntax.Directive)
		if !ok || directive.Kind != "use" {
			return true
		}
		if !usesBoundary(directive) {
			return true
		}
		decl = declarationFrom(module, directive)
		return false
	})
	return decl
}

func usesBoundary(directive *syntax.Directive) bool {
	refs := directive.Aliases()
	return len(refs) > 0 && refs[0].Name() == boundaryModule
}

func declarationFrom(module *syntax.Module, directive *syntax.Directive) *Declaration {
	decl := &Declaration{
		Module: ModuleRef(module.Name),
		Deps:   []ModuleRef{},
		Line:   directive.Pos(),
	}
	for _, arg := range directive.Args {
		pair, ok := arg.(*syntax.Pair)
		if !ok || pair.Key != "deps" {
			continue
		}
		list, ok := pair.Value.(*syntax.List)
		if !ok {
			// The deps attribute exists but is not a literal list the
			// extractor can read with confidence.
			return nil
		}
		decl.Deps = depsFromList(list)
		break
	}
	return decl
}

// depsFromList reads the dependency entries, tolerating both bare module
// references and tuple-wrapped {Module, options} entries. Anything else is
// skipped.
func depsFromList(list *syntax.List) []ModuleRef {
	deps := []ModuleRef{}
	for _, item := range list.Items {
		switch entry := item.(type) {
		case *syntax.Alias:
			deps = append(deps, ModuleRef(entry.Segments))
		case *syntax.Tuple:
			if len(entry.Items) == 0 {
				continue
			}
			if ref, ok := entry.Items[0].(*syntax.Alias); ok {
				deps = append(deps, ModuleRef(ref.Segments))
			}
		}
	}
	return deps
}
