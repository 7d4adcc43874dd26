// Package elixir parses Elixir source into the generic syntax model using
// tree-sitter. The conversion is intentionally fail-soft: constructs the
// linter has no rule for are preserved as transparent literals so traversal
// still reaches everything nested inside them.
package elixir

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elixir"

	"github.com/boundlint/boundlint/syntax"
)

// Parser converts Elixir source files into syntax trees. A Parser is
// stateless and safe for concurrent use; each Parse call owns its own
// tree-sitter parser instance.
type Parser struct{}

// NewParser creates an Elixir parser.
func NewParser() *Parser { return &Parser{} }

// Parse parses one source file. A file that tree-sitter cannot recover a
// well-formed tree from yields a *syntax.ParseError.
func (p *Parser) Parse(path string, src []byte) (*syntax.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(elixir.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, &syntax.ParseError{Path: path, Message: "empty parse tree"}
	}
	if root.HasError() {
		line := firstErrorLine(root)
		return nil, &syntax.ParseError{Path: path, Line: line, Message: "syntax error"}
	}

	c := &converter{src: src}
	return &syntax.Tree{Path: path, Root: c.block(root)}, nil
}

// firstErrorLine locates the first ERROR node so the reported issue points
// at the offending line rather than the file head.
func firstErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if line := firstErrorLine(child); line > 0 {
			return line
		}
	}
	return int(n.StartPoint().Row) + 1
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// block converts the named children of n into a Block.
func (c *converter) block(n *sitter.Node) *syntax.Block {
	out := &syntax.Block{Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out.Nodes = append(out.Nodes, c.nodes(child)...)
	}
	return out
}

// nodes converts one tree-sitter node. Keyword lists expand into their pairs,
// multi-alias directives into one reference per member, hence the slice.
func (c *converter) nodes(n *sitter.Node) []syntax.Node {
	switch n.Type() {
	case "call":
		if converted := c.call(n); converted != nil {
			return []syntax.Node{converted}
		}
		return nil
	case "alias":
		return []syntax.Node{c.alias(n)}
	case "dot":
		// A bare remote reference, e.g. a captured &Repo.insert/1 target.
		if call := c.dotCall(n, nil, nil); call != nil {
			return []syntax.Node{call}
		}
		return []syntax.Node{c.generic(n)}
	case "identifier":
		return []syntax.Node{&syntax.Ident{Line: line(n), Name: c.text(n)}}
	case "atom":
		return []syntax.Node{&syntax.Atom{Line: line(n), Name: strings.TrimPrefix(c.text(n), ":")}}
	case "list":
		out := &syntax.List{Line: line(n)}
		out.Items = c.children(n)
		return []syntax.Node{out}
	case "tuple":
		out := &syntax.Tuple{Line: line(n)}
		out.Items = c.children(n)
		return []syntax.Node{out}
	case "keywords":
		return c.children(n)
	case "pair":
		if pair := c.pair(n); pair != nil {
			return []syntax.Node{pair}
		}
		return nil
	case "anonymous_function":
		return []syntax.Node{c.anonymousFn(n)}
	case "do_block":
		return []syntax.Node{c.block(n)}
	case "string", "charlist", "sigil", "integer", "float", "boolean", "nil", "char":
		return []syntax.Node{&syntax.Literal{Line: line(n), Text: c.text(n)}}
	case "comment":
		return nil
	default:
		return []syntax.Node{c.generic(n)}
	}
}

// children converts all named children of n.
func (c *converter) children(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, c.nodes(child)...)
	}
	return out
}

// generic preserves an unrecognized construct with its children converted so
// walks still descend through it.
func (c *converter) generic(n *sitter.Node) syntax.Node {
	lit := &syntax.Literal{Line: line(n)}
	if n.NamedChildCount() == 0 {
		lit.Text = c.text(n)
		return lit
	}
	lit.Items = c.children(n)
	return lit
}

func (c *converter) alias(n *sitter.Node) *syntax.Alias {
	return &syntax.Alias{Line: line(n), Segments: strings.Split(c.text(n), ".")}
}

// call dispatches on the call target: module/function definitions and module
// directives get dedicated variants, everything else becomes a Call node.
func (c *converter) call(n *sitter.Node) syntax.Node {
	target := n.NamedChild(0)
	if target == nil {
		return c.generic(n)
	}
	args, do := c.callTail(n)

	switch target.Type() {
	case "identifier":
		name := c.text(target)
		switch name {
		case "defmodule":
			return c.module(n, args, do)
		case "def", "defp", "defmacro", "defmacrop":
			return c.def(n, name, args, do)
		case "alias", "import", "require", "use":
			return &syntax.Directive{Line: line(n), Kind: name, Args: expandAliases(args)}
		default:
			return &syntax.Call{Line: line(n), Name: name, Args: args, Do: do}
		}
	case "dot":
		if call := c.dotCall(target, args, do); call != nil {
			return call
		}
	}
	return c.generic(n)
}

// callTail collects the converted arguments and trailing do-block of a call.
func (c *converter) callTail(n *sitter.Node) ([]syntax.Node, *syntax.Block) {
	var args []syntax.Node
	var do *syntax.Block
	for i := 1; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "arguments":
			args = append(args, c.children(child)...)
		case "do_block":
			do = c.block(child)
		}
	}
	return args, do
}

// dotCall builds a remote call from a dot target. The receiver may be a
// module alias or an Erlang atom (:crypto style); anything else is skipped
// rather than guessed at.
func (c *converter) dotCall(dot *sitter.Node, args []syntax.Node, do *syntax.Block) syntax.Node {
	if dot.NamedChildCount() < 2 {
		return nil
	}
	left, right := dot.NamedChild(0), dot.NamedChild(1)
	var receiver []string
	switch left.Type() {
	case "alias":
		receiver = strings.Split(c.text(left), ".")
	case "atom":
		receiver = []string{c.text(left)}
	default:
		return nil
	}
	if right.Type() != "identifier" {
		return nil
	}
	return &syntax.Call{
		Line:     line(dot),
		Receiver: receiver,
		Name:     c.text(right),
		Args:     args,
		Do:       do,
	}
}

func (c *converter) module(n *sitter.Node, args []syntax.Node, do *syntax.Block) syntax.Node {
	mod := &syntax.Module{Line: line(n), Body: do}
	for _, arg := range args {
		if ref, ok := arg.(*syntax.Alias); ok {
			mod.Name = ref.Segments
			break
		}
	}
	if mod.Name == nil {
		return c.generic(n)
	}
	if mod.Body == nil {
		mod.Body = &syntax.Block{Line: line(n)}
	}
	return mod
}

// def extracts the clause head from the first argument: either a plain
// identifier (zero-arity) or a nested call carrying the parameter list.
func (c *converter) def(n *sitter.Node, kind string, args []syntax.Node, do *syntax.Block) syntax.Node {
	out := &syntax.Def{
		Line:    line(n),
		Private: kind == "defp" || kind == "defmacrop",
		Body:    do,
	}
	var rest []syntax.Node
	for i, arg := range args {
		if i == 0 {
			switch head := arg.(type) {
			case *syntax.Ident:
				out.Name = head.Name
				continue
			case *syntax.Call:
				out.Name = head.Name
				out.Arity = len(head.Args)
				continue
			}
		}
		rest = append(rest, arg)
	}
	if out.Name == "" {
		return c.generic(n)
	}
	// `def foo, do: expr` keyword form carries the body as a pair.
	if out.Body == nil {
		out.Body = &syntax.Block{Line: line(n)}
		for _, arg := range rest {
			if pair, ok := arg.(*syntax.Pair); ok && pair.Key == "do" && pair.Value != nil {
				out.Body.Nodes = append(out.Body.Nodes, pair.Value)
			}
		}
	}
	return out
}

func (c *converter) pair(n *sitter.Node) *syntax.Pair {
	if n.NamedChildCount() < 2 {
		return nil
	}
	key := n.NamedChild(0)
	value := n.NamedChild(1)
	name := strings.TrimSpace(c.text(key))
	name = strings.TrimSuffix(name, ":")
	name = strings.TrimPrefix(name, "\"")
	name = strings.TrimSuffix(name, "\"")
	values := c.nodes(value)
	if len(values) == 0 {
		return nil
	}
	return &syntax.Pair{Line: line(n), Key: name, Value: values[0]}
}

// anonymousFn merges the bodies of all fn clauses into one block; clause
// heads are irrelevant to the catalog.
func (c *converter) anonymousFn(n *sitter.Node) syntax.Node {
	body := &syntax.Block{Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause == nil || clause.Type() != "stab_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			if part == nil || part.Type() != "body" {
				continue
			}
			body.Nodes = append(body.Nodes, c.children(part)...)
		}
	}
	return &syntax.Fn{Line: line(n), Body: body}
}

// expandAliases flattens multi-alias directives (alias Foo.{Bar, Baz}) into
// one reference per member. tree-sitter represents the braced group as a dot
// whose right side is a tuple of aliases.
func expandAliases(args []syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, arg := range args {
		lit, ok := arg.(*syntax.Literal)
		if !ok || len(lit.Items) != 2 {
			out = append(out, arg)
			continue
		}
		prefix, ok := lit.Items[0].(*syntax.Alias)
		if !ok {
			out = append(out, arg)
			continue
		}
		group, ok := lit.Items[1].(*syntax.Tuple)
		if !ok {
			out = append(out, arg)
			continue
		}
		expanded := false
		for _, item := range group.Items {
			member, ok := item.(*syntax.Alias)
			if !ok {
				continue
			}
			segments := append(append([]string{}, prefix.Segments...), member.Segments...)
			out = append(out, &syntax.Alias{Line: member.Line, Segments: segments})
			expanded = true
		}
		if !expanded {
			out = append(out, arg)
		}
	}
	return out
}
