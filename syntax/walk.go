package syntax

// Walk traverses the tree rooted at n in depth-first pre-order. The visitor
// is invoked for every node; returning false skips the node's children.
// The walk never mutates the tree.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// Modules returns every module definition in the tree, outermost first.
func Modules(t *Tree) []*Module {
	if t == nil || t.Root == nil {
		return nil
	}
	var out []*Module
	Walk(t.Root, func(n Node) bool {
		if m, ok := n.(*Module); ok {
			out = append(out, m)
		}
		return true
	})
	return out
}

// RootModule returns the first module defined in the tree, nil when the file
// declares none.
func RootModule(t *Tree) *Module {
	modules := Modules(t)
	if len(modules) == 0 {
		return nil
	}
	return modules[0]
}
