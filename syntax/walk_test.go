package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_PreOrder(t *testing.T) {
	tree := &Tree{Root: &Block{Nodes: []Node{
		&Module{Name: []string{"MyApp"}, Body: &Block{Nodes: []Node{
			&Directive{Kind: "alias", Args: []Node{&Alias{Segments: []string{"MyApp", "Repo"}}}},
			&Def{Name: "run", Body: &Block{Nodes: []Node{
				&Call{Receiver: []string{"Repo"}, Name: "insert"},
			}}},
		}}},
	}}}

	var order []string
	Walk(tree.Root, func(n Node) bool {
		switch node := n.(type) {
		case *Module:
			order = append(order, "module:"+node.QualifiedName())
		case *Directive:
			order = append(order, "directive:"+node.Kind)
		case *Alias:
			order = append(order, "alias:"+node.Name())
		case *Def:
			order = append(order, "def:"+node.Name)
		case *Call:
			order = append(order, "call:"+node.Qualified())
		}
		return true
	})

	assert.Equal(t, []string{
		"module:MyApp",
		"directive:alias",
		"alias:MyApp.Repo",
		"def:run",
		"call:Repo.insert",
	}, order)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree := &Block{Nodes: []Node{
		&Module{Name: []string{"Outer"}, Body: &Block{Nodes: []Node{
			&Module{Name: []string{"Outer", "Inner"}, Body: &Block{Nodes: []Node{
				&Call{Name: "hidden"},
			}}},
		}}},
	}}

	var calls int
	Walk(tree, func(n Node) bool {
		if _, ok := n.(*Call); ok {
			calls++
		}
		if m, ok := n.(*Module); ok && len(m.Name) > 1 {
			return false
		}
		return true
	})
	assert.Zero(t, calls)
}

func TestWalk_NilSafe(t *testing.T) {
	Walk(nil, func(Node) bool {
		t.Fatal("visitor must not run for a nil node")
		return true
	})
}

func TestModules(t *testing.T) {
	tree := &Tree{Root: &Block{Nodes: []Node{
		&Module{Name: []string{"MyApp", "Accounts"}, Body: &Block{Nodes: []Node{
			&Module{Name: []string{"MyApp", "Accounts", "Token"}, Body: &Block{}},
		}}},
	}}}

	modules := Modules(tree)
	require.Len(t, modules, 2)
	assert.Equal(t, "MyApp.Accounts", modules[0].QualifiedName())
	assert.Equal(t, "MyApp.Accounts.Token", modules[1].QualifiedName())

	root := RootModule(tree)
	require.NotNil(t, root)
	assert.Equal(t, "MyApp.Accounts", root.QualifiedName())

	assert.Nil(t, RootModule(&Tree{}))
	assert.Nil(t, RootModule(nil))
}

func TestCallQualified(t *testing.T) {
	remote := &Call{Receiver: []string{"MyApp", "Repo"}, Name: "insert"}
	assert.Equal(t, "MyApp.Repo.insert", remote.Qualified())
	assert.Equal(t, "MyApp.Repo", remote.ReceiverName())

	local := &Call{Name: "insert"}
	assert.Equal(t, "insert", local.Qualified())
	assert.Equal(t, "", local.ReceiverName())
}

func TestParseError_Error(t *testing.T) {
	withLine := &ParseError{Path: "lib/a.ex", Line: 3, Message: "syntax error"}
	assert.Equal(t, "lib/a.ex:3: syntax error", withLine.Error())

	withoutLine := &ParseError{Path: "lib/a.ex", Message: "empty parse tree"}
	assert.Equal(t, "lib/a.ex: empty parse tree", withoutLine.Error())
}
