package lint

import "github.com/boundlint/boundlint/syntax"

// SourceUnit is one analyzed file: its path, classified layer, parsed tree,
// and boundary declaration. Units are created once at analysis start, owned
// by the engine for the duration of one run, and never mutated by checks.
type SourceUnit struct {
	Path   string
	Module ModuleRef
	Layer  Layer
	Tree   *syntax.Tree
	// Decl is nil when the module carries no boundary declaration, which is
	// a distinct state from declaring an empty dependency set.
	Decl *Declaration
}

// ModuleName returns the dotted root-module name, "" when the file declares
// no module.
func (u *SourceUnit) ModuleName() string { return u.Module.String() }
