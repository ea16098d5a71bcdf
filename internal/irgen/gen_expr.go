package irgen

import (
	"fmt"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// GenExpr emits e at the current insertion point. It must be called while
// a function body is being generated.
func (g *Generator) GenExpr(e syntax.Expr) (Value, error) {
	if g.scope == nil {
		panic("irgen.GenExpr: no function body is being generated")
	}

	switch e := e.(type) {
	case *syntax.NumberLit:
		return g.b.ConstFloat(e.Value), nil
	case *syntax.VarRef:
		return g.varRef(e)
	case *syntax.BinaryExpr:
		return g.binaryExpr(e)
	case *syntax.CallExpr:
		return g.callExpr(e)
	case *syntax.IfExpr:
		return g.ifExpr(e)
	case *syntax.ForExpr:
		return g.forExpr(e)
	default:
		panic(fmt.Sprintf("irgen.GenExpr: unhandled %T", e))
	}
}

func (g *Generator) varRef(e *syntax.VarRef) (Value, error) {
	v, ok := g.scope.LookupParent(e.Name)
	if !ok {
		return nil, errorf(UnknownVariable, e.Pos(), "unknown variable name %s", e.Name)
	}
	return v, nil
}

// binaryExpr evaluates both operands before applying the operator.
func (g *Generator) binaryExpr(e *syntax.BinaryExpr) (Value, error) {
	x, err := g.GenExpr(e.X)
	if err != nil {
		return nil, err
	}
	y, err := g.GenExpr(e.Y)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case '+':
		return g.b.FAdd(x, y), nil
	case '-':
		return g.b.FSub(x, y), nil
	case '*':
		return g.b.FMul(x, y), nil
	case '<':
		return g.b.UIToFP(g.b.FCmpULT(x, y)), nil
	}
	return nil, errorf(InvalidOperator, e.Pos(), "invalid binary operator %q", e.Op)
}

func (g *Generator) callExpr(e *syntax.CallExpr) (Value, error) {
	callee, err := g.function(e.Callee, e.Pos())
	if err != nil {
		return nil, err
	}
	if callee.NumParams() != len(e.Args) {
		return nil, errorf(ArityMismatch, e.Pos(),
			"incorrect number of arguments passed to %s: got %d, want %d",
			e.Callee, len(e.Args), callee.NumParams())
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := g.GenExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return g.b.Call(callee, args), nil
}

// ifExpr lowers to a diamond whose merge block joins both arms with a phi.
func (g *Generator) ifExpr(e *syntax.IfExpr) (Value, error) {
	cond, err := g.GenExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	cond = g.b.FCmpONE(cond, g.b.ConstFloat(0))

	bThen := g.b.NewBlock(g.fn, "then")
	bElse := g.b.NewBlock(g.fn, "else")
	bMerge := g.b.NewBlock(g.fn, "ifcont")
	g.b.CondBr(cond, bThen, bElse)

	// Each arm may itself add blocks; the phi edge comes from wherever the
	// arm ended.
	g.b.SetInsertPoint(bThen)
	thenV, err := g.GenExpr(e.Then)
	if err != nil {
		return nil, err
	}
	g.b.Br(bMerge)
	thenEnd := g.b.InsertBlock()

	g.b.SetInsertPoint(bElse)
	elseV, err := g.GenExpr(e.Else)
	if err != nil {
		return nil, err
	}
	g.b.Br(bMerge)
	elseEnd := g.b.InsertBlock()

	g.b.SetInsertPoint(bMerge)
	phi := g.b.Phi()
	g.b.AddIncoming(phi, thenV, thenEnd)
	g.b.AddIncoming(phi, elseV, elseEnd)
	return phi, nil
}

// forExpr lowers
//
//	for x = start, end, step in body
//
// to a loop whose induction variable is a phi of the start value and the
// stepped value. The body runs before the end condition is first tested.
// The expression itself is always 0.0.
func (g *Generator) forExpr(e *syntax.ForExpr) (Value, error) {
	// The start value cannot see the loop variable.
	start, err := g.GenExpr(e.Start)
	if err != nil {
		return nil, err
	}

	preheader := g.b.InsertBlock()
	bLoop := g.b.NewBlock(g.fn, "loop")
	g.b.Br(bLoop)

	g.b.SetInsertPoint(bLoop)
	variable := g.b.Phi()
	g.b.AddIncoming(variable, start, preheader)

	g.scope = NewScope(g.scope, "for "+e.Var)
	defer func() { g.scope = g.scope.Parent() }()
	g.scope.Bind(e.Var, variable)

	if _, err := g.GenExpr(e.Body); err != nil {
		return nil, err
	}

	var step Value
	if e.Step != nil {
		if step, err = g.GenExpr(e.Step); err != nil {
			return nil, err
		}
	} else {
		step = g.b.ConstFloat(1)
	}
	next := g.b.FAdd(variable, step)

	end, err := g.GenExpr(e.End)
	if err != nil {
		return nil, err
	}
	endCond := g.b.FCmpONE(end, g.b.ConstFloat(0))

	loopEnd := g.b.InsertBlock()
	bAfter := g.b.NewBlock(g.fn, "afterloop")
	g.b.CondBr(endCond, bLoop, bAfter)
	g.b.SetInsertPoint(bAfter)

	g.b.AddIncoming(variable, next, loopEnd)

	return g.b.ConstFloat(0), nil
}
