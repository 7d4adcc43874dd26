// Package lint implements the architectural boundary engine: layer
// classification, boundary dependency extraction, the rule catalog, the
// cross-module dependency validator, and the driver that runs them over a
// source tree.
package lint

import "strings"

// ModuleRef is a fully-qualified module name as an ordered sequence of
// identifier segments. Equality is structural.
type ModuleRef []string

// ParseRef splits a dotted module name into its segments.
func ParseRef(name string) ModuleRef {
	if name == "" {
		return nil
	}
	return ModuleRef(strings.Split(name, "."))
}

// String returns the dotted form.
func (r ModuleRef) String() string { return strings.Join(r, ".") }

// Last returns the final segment, "" for an empty ref.
func (r ModuleRef) Last() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

// Equal reports structural equality.
func (r ModuleRef) Equal(o ModuleRef) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether o is a leading segment sequence of r, so
// MyApp.Accounts.Domain.User has prefix MyApp.Accounts.Domain.
func (r ModuleRef) HasPrefix(o ModuleRef) bool {
	if len(o) > len(r) {
		return false
	}
	for i := range o {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// Parent returns the ref without its final segment.
func (r ModuleRef) Parent() ModuleRef {
	if len(r) == 0 {
		return nil
	}
	return r[:len(r)-1]
}

// Child returns a new ref with segment appended.
func (r ModuleRef) Child(segment string) ModuleRef {
	out := make(ModuleRef, 0, len(r)+1)
	out = append(out, r...)
	return append(out, segment)
}
