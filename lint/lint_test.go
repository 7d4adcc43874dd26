package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/project"
	"github.com/boundlint/boundlint/syntax"
)

// Tree-building helpers shared by the package tests. Trees are assembled by
// hand so check semantics are exercised independently of the parser.

func tree(path string, nodes ...syntax.Node) *syntax.Tree {
	return &syntax.Tree{Path: path, Root: &syntax.Block{Nodes: nodes}}
}

func mod(name string, nodes ...syntax.Node) *syntax.Module {
	return &syntax.Module{Name: strings.Split(name, "."), Body: &syntax.Block{Nodes: nodes}}
}

func call(line int, qualified string, args ...syntax.Node) *syntax.Call {
	segments := strings.Split(qualified, ".")
	return &syntax.Call{
		Line:     line,
		Receiver: segments[:len(segments)-1],
		Name:     segments[len(segments)-1],
		Args:     args,
	}
}

func localCall(line int, name string, args ...syntax.Node) *syntax.Call {
	return &syntax.Call{Line: line, Name: name, Args: args}
}

func aliasRef(name string) *syntax.Alias {
	return &syntax.Alias{Segments: strings.Split(name, ".")}
}

func aliasDirective(line int, names ...string) *syntax.Directive {
	d := &syntax.Directive{Line: line, Kind: "alias"}
	for _, name := range names {
		d.Args = append(d.Args, aliasRef(name))
	}
	return d
}

func useBoundary(line int, deps ...syntax.Node) *syntax.Directive {
	return &syntax.Directive{
		Line: line,
		Kind: "use",
		Args: []syntax.Node{
			aliasRef("Boundary"),
			&syntax.Pair{Key: "deps", Value: &syntax.List{Items: deps}},
		},
	}
}

func fn(nodes ...syntax.Node) *syntax.Fn {
	return &syntax.Fn{Body: &syntax.Block{Nodes: nodes}}
}

// unitFor builds a classified source unit the way the engine does, using the
// default classifier.
func unitFor(path string, t *syntax.Tree) *SourceUnit {
	unit := &SourceUnit{Path: path, Tree: t}
	if module := syntax.RootModule(t); module != nil {
		unit.Module = ModuleRef(module.Name)
	}
	classifier, err := NewClassifier(config.Default().Layers)
	if err != nil {
		panic(err)
	}
	unit.Layer = classifier.Classify(path, unit.ModuleName())
	return unit
}

func newTestContextMatcher(t *testing.T) *contextMatcher {
	matcher, err := newContextMatcher(config.Default().Contexts)
	require.NoError(t, err)
	return matcher
}

// runCheck drives the engine's walk for a single check.
func runCheck(c Check, u *SourceUnit) []issue.Issue {
	if !c.Applicable(u) {
		return nil
	}
	var out []issue.Issue
	syntax.Walk(u.Tree.Root, func(n syntax.Node) bool {
		out = append(out, c.Visit(n, u)...)
		return true
	})
	return out
}

// fakeFS is an in-memory project.FileSystem.
type fakeFS struct {
	files map[string]string
}

func newFakeFS(files map[string]string) *fakeFS {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeFS{files: files}
}

func (f *fakeFS) Exists(path string) bool {
	if _, ok := f.files[path]; ok {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for name := range f.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, &fakeNotFound{path: path}
	}
	return []byte(content), nil
}

func (f *fakeFS) List(dir string) ([]project.Entry, error) {
	return nil, nil
}

type fakeNotFound struct{ path string }

func (e *fakeNotFound) Error() string { return "not found: " + e.path }
