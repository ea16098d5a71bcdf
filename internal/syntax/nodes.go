package syntax

import "github.com/you-not-fish/kaleido/internal/rtabi"

// ----------------------------------------------------------------------------
// Interfaces
//
// Expressions and top-level declarations are closed sets: the marker methods
// are unexported, so every switch over them in this module can be checked
// against the variants defined here.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first character belonging to the node
	aNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	aExpr()
}

// Decl is a top-level construct: a definition, an extern, or a bare
// expression wrapped into an anonymous definition.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Expressions

// NumberLit is a numeric literal.
type NumberLit struct {
	expr
	Value float64
}

// VarRef is a reference to a parameter or loop variable.
type VarRef struct {
	expr
	Name string
}

// BinaryExpr is X Op Y.
type BinaryExpr struct {
	expr
	Op rune
	X  Expr
	Y  Expr
}

// CallExpr is Callee(Args...).
type CallExpr struct {
	expr
	Callee string
	Args   []Expr
}

// IfExpr is: if Cond then Then else Else
type IfExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// ForExpr is: for Var = Start, End [, Step] in Body
type ForExpr struct {
	expr
	Var   string
	Start Expr
	End   Expr
	Step  Expr // nil when no step clause was written
	Body  Expr
}

// ----------------------------------------------------------------------------
// Prototypes and declarations

// Prototype is a function name and its ordered parameter names.
type Prototype struct {
	node
	Name   string
	Params []string
}

// FuncDecl is a function definition. Bare top-level expressions are parsed
// into a FuncDecl whose prototype is the anonymous entry.
type FuncDecl struct {
	decl
	Proto *Prototype
	Body  Expr
}

// IsAnonymous reports whether d wraps a bare top-level expression.
func (d *FuncDecl) IsAnonymous() bool {
	return d.Proto.Name == rtabi.AnonFunc
}

// ExternDecl declares a function signature without a body.
type ExternDecl struct {
	decl
	Proto *Prototype
}

// ----------------------------------------------------------------------------
// Constructors
//
// Nodes are normally built by the parser; these let other packages and tests
// build trees directly.

// NewNumber returns a NumberLit at pos.
func NewNumber(pos Pos, v float64) *NumberLit {
	n := &NumberLit{Value: v}
	n.pos = pos
	return n
}

// NewVar returns a VarRef at pos.
func NewVar(pos Pos, name string) *VarRef {
	n := &VarRef{Name: name}
	n.pos = pos
	return n
}

// NewBinary returns a BinaryExpr positioned at its left operand.
func NewBinary(op rune, x, y Expr) *BinaryExpr {
	n := &BinaryExpr{Op: op, X: x, Y: y}
	n.pos = x.Pos()
	return n
}

// NewCall returns a CallExpr at pos.
func NewCall(pos Pos, callee string, args ...Expr) *CallExpr {
	n := &CallExpr{Callee: callee, Args: args}
	n.pos = pos
	return n
}

// NewIf returns an IfExpr at pos.
func NewIf(pos Pos, cond, then, els Expr) *IfExpr {
	n := &IfExpr{Cond: cond, Then: then, Else: els}
	n.pos = pos
	return n
}

// NewFor returns a ForExpr at pos. step may be nil.
func NewFor(pos Pos, v string, start, end, step, body Expr) *ForExpr {
	n := &ForExpr{Var: v, Start: start, End: end, Step: step, Body: body}
	n.pos = pos
	return n
}

// NewPrototype returns a Prototype at pos.
func NewPrototype(pos Pos, name string, params ...string) *Prototype {
	n := &Prototype{Name: name, Params: params}
	n.pos = pos
	return n
}

// NewFuncDecl returns a FuncDecl positioned at its prototype.
func NewFuncDecl(proto *Prototype, body Expr) *FuncDecl {
	n := &FuncDecl{Proto: proto, Body: body}
	n.pos = proto.Pos()
	return n
}

// NewExternDecl returns an ExternDecl at pos.
func NewExternDecl(pos Pos, proto *Prototype) *ExternDecl {
	n := &ExternDecl{Proto: proto}
	n.pos = pos
	return n
}
