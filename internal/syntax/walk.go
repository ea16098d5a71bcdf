package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *NumberLit, *VarRef, *Prototype:
		// leaves

	case *BinaryExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IfExpr:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *ForExpr:
		Walk(n.Start, v)
		Walk(n.End, v)
		if n.Step != nil {
			Walk(n.Step, v)
		}
		Walk(n.Body, v)

	case *FuncDecl:
		Walk(n.Proto, v)
		Walk(n.Body, v)

	case *ExternDecl:
		Walk(n.Proto, v)
	}
}

// Calls returns the distinct callee names referenced under node, in the
// order they first appear.
func Calls(node Node) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(node, func(n Node) bool {
		if c, ok := n.(*CallExpr); ok && !seen[c.Callee] {
			seen[c.Callee] = true
			names = append(names, c.Callee)
		}
		return true
	})
	return names
}
