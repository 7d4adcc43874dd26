package syntax

import "strings"

// Node is a single element of a parsed module in the generic tagged-variant
// representation the lint engine operates on. Concrete variants cover the
// shapes the rule catalog inspects: qualified calls, alias/import directives,
// module and function definitions, and literal containers. Anything the
// parser does not recognize is preserved as a transparent Literal so walks
// still reach nested constructs.
type Node interface {
	// Pos returns the 1-based source line of the node, 0 when unknown.
	Pos() int
	// Children returns the direct child nodes in source order.
	Children() []Node
}

// Tree is the parsed representation of one source file.
type Tree struct {
	Path string
	Root *Block
}

// Block groups sibling nodes: a file body, a do-block, or the body of a
// function clause.
type Block struct {
	Line  int
	Nodes []Node
}

func (b *Block) Pos() int         { return b.Line }
func (b *Block) Children() []Node { return b.Nodes }

// Module is a module definition with its fully-qualified name segments.
type Module struct {
	Line int
	Name []string
	Body *Block
}

func (m *Module) Pos() int { return m.Line }

func (m *Module) Children() []Node {
	if m.Body == nil {
		return nil
	}
	return []Node{m.Body}
}

// QualifiedName returns the dotted module name, e.g. "MyApp.Domain.User".
func (m *Module) QualifiedName() string { return strings.Join(m.Name, ".") }

// Def is a named function definition.
type Def struct {
	Line    int
	Name    string
	Arity   int
	Private bool
	Body    *Block
}

func (d *Def) Pos() int { return d.Line }

func (d *Def) Children() []Node {
	if d.Body == nil {
		return nil
	}
	return []Node{d.Body}
}

// Call is a function invocation. Receiver holds the qualified module
// segments for remote calls ("Repo.insert" has Receiver ["Repo"]) and is nil
// for local calls. Do carries a trailing do-block when present.
type Call struct {
	Line     int
	Receiver []string
	Name     string
	Args     []Node
	Do       *Block
}

func (c *Call) Pos() int { return c.Line }

func (c *Call) Children() []Node {
	out := make([]Node, 0, len(c.Args)+1)
	out = append(out, c.Args...)
	if c.Do != nil {
		out = append(out, c.Do)
	}
	return out
}

// Qualified returns the call target as written, e.g. "Repo.insert" or "put".
func (c *Call) Qualified() string {
	if len(c.Receiver) == 0 {
		return c.Name
	}
	return strings.Join(c.Receiver, ".") + "." + c.Name
}

// ReceiverName returns the dotted receiver module, "" for local calls.
func (c *Call) ReceiverName() string { return strings.Join(c.Receiver, ".") }

// Directive is a compile-time module directive: alias, import, require, use.
type Directive struct {
	Line int
	Kind string
	Args []Node
}

func (d *Directive) Pos() int         { return d.Line }
func (d *Directive) Children() []Node { return d.Args }

// Aliases returns every module reference appearing in the directive
// arguments, with multi-alias forms (alias Foo.{Bar, Baz}) expanded.
func (d *Directive) Aliases() []*Alias {
	var out []*Alias
	for _, arg := range d.Args {
		if ref, ok := arg.(*Alias); ok {
			out = append(out, ref)
		}
	}
	return out
}

// Alias is a bare module reference: an ordered sequence of capitalized
// identifier segments.
type Alias struct {
	Line     int
	Segments []string
}

func (a *Alias) Pos() int         { return a.Line }
func (a *Alias) Children() []Node { return nil }

// Name returns the dotted reference, e.g. "MyApp.Accounts".
func (a *Alias) Name() string { return strings.Join(a.Segments, ".") }

// List is a literal list.
type List struct {
	Line  int
	Items []Node
}

func (l *List) Pos() int         { return l.Line }
func (l *List) Children() []Node { return l.Items }

// Tuple is a literal tuple.
type Tuple struct {
	Line  int
	Items []Node
}

func (t *Tuple) Pos() int         { return t.Line }
func (t *Tuple) Children() []Node { return t.Items }

// Pair is a single keyword-list entry, e.g. `deps: [...]`.
type Pair struct {
	Line  int
	Key   string
	Value Node
}

func (p *Pair) Pos() int { return p.Line }

func (p *Pair) Children() []Node {
	if p.Value == nil {
		return nil
	}
	return []Node{p.Value}
}

// Atom is a literal atom, without the leading colon.
type Atom struct {
	Line int
	Name string
}

func (a *Atom) Pos() int         { return a.Line }
func (a *Atom) Children() []Node { return nil }

// Ident is a lowercase identifier reference.
type Ident struct {
	Line int
	Name string
}

func (i *Ident) Pos() int         { return i.Line }
func (i *Ident) Children() []Node { return nil }

// Fn is an anonymous function; Body joins the bodies of all clauses.
type Fn struct {
	Line int
	Body *Block
}

func (f *Fn) Pos() int { return f.Line }

func (f *Fn) Children() []Node {
	if f.Body == nil {
		return nil
	}
	return []Node{f.Body}
}

// Literal is the catch-all variant. Terminals keep their text; unrecognized
// non-terminals keep their converted children so traversal stays complete.
type Literal struct {
	Line  int
	Text  string
	Items []Node
}

func (l *Literal) Pos() int         { return l.Line }
func (l *Literal) Children() []Node { return l.Items }
