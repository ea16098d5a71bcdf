package irgen

import (
	"strings"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Generator lowers AST nodes into one open Unit. Generation of one function
// body runs to completion before the next starts; a Generator is not safe
// for concurrent use.
type Generator struct {
	unit Unit
	b    Builder
	reg  *Registry

	fn    Function // function whose body is being generated
	scope *Scope   // innermost frame, nil outside a body

	logfn func(mess string, args ...interface{})
}

// New returns a Generator that emits into unit and resolves calls through
// reg as well as the unit itself.
func New(unit Unit, reg *Registry, opts ...Option) *Generator {
	g := &Generator{
		unit: unit,
		b:    unit.Builder(),
		reg:  reg,
	}
	g.apply(opts...)
	return g
}

func (g *Generator) logf(mess string, args ...interface{}) {
	if g.logfn != nil {
		g.logfn(mess, args...)
	}
}

// GenPrototype declares proto in the unit. An existing declaration with the
// same arity takes the new parameter names. One with a different arity is
// replaced, unless the function has a body or another function of the unit
// already calls it.
func (g *Generator) GenPrototype(proto *syntax.Prototype) (Function, error) {
	fn, ok := g.unit.Function(proto.Name)
	if ok && fn.NumParams() != len(proto.Params) {
		if fn.HasBody() || g.unit.Referenced(fn) {
			return nil, redeclared(proto, fn.NumParams())
		}
		g.logf("irgen: replace declaration of %s", proto.Name)
		g.unit.Erase(fn)
		ok = false
	}
	if !ok {
		if old, found := g.reg.Lookup(proto.Name); found && g.reg.Defined(proto.Name) && len(old.Params) != len(proto.Params) {
			return nil, redeclared(proto, len(old.Params))
		}
		fn = g.unit.Declare(proto.Name, len(proto.Params))
		g.logf("irgen: declare %s(%s)", proto.Name, strings.Join(proto.Params, " "))
	}
	if !fn.HasBody() {
		for i, name := range proto.Params {
			fn.SetParamName(i, name)
		}
	}
	return fn, nil
}

func redeclared(proto *syntax.Prototype, prev int) *Error {
	return errorf(ArityMismatch, proto.Pos(),
		"function %s redeclared with %d parameters, previously %d",
		proto.Name, len(proto.Params), prev)
}

// function resolves the callee of a call at pos against the open unit
// first, then the registry, re-declaring a registered signature into the
// unit on demand.
func (g *Generator) function(name string, pos syntax.Pos) (Function, error) {
	if fn, ok := g.unit.Function(name); ok {
		return fn, nil
	}
	proto, ok := g.reg.Lookup(name)
	if !ok {
		return nil, errorf(UnknownFunction, pos, "unknown function referenced: %s", name)
	}
	return g.GenPrototype(proto)
}

// GenFunc generates a complete definition. On failure nothing is left
// behind: the function is erased from the unit and the registry entry for
// its name is restored.
//
// Anonymous definitions are not registered.
func (g *Generator) GenFunc(fd *syntax.FuncDecl) (_ Function, err error) {
	proto := fd.Proto
	named := !fd.IsAnonymous()

	if named && g.reg.Defined(proto.Name) {
		return nil, errorf(FunctionRedefined, proto.Pos(), "function %s cannot be redefined", proto.Name)
	}

	if named {
		restore := g.reg.save(proto.Name)
		defer func() {
			if err != nil {
				restore()
			}
		}()
		// Registered before the body so the body can call itself.
		g.reg.Store(proto)
	}

	fn, err := g.GenPrototype(proto)
	if err != nil {
		return nil, err
	}
	if fn.HasBody() {
		return nil, errorf(FunctionRedefined, proto.Pos(), "function %s cannot be redefined", proto.Name)
	}

	g.logf("irgen: define %s", proto.Name)
	if g.logfn != nil {
		if calls := syntax.Calls(fd.Body); len(calls) > 0 {
			g.logf("irgen: %s calls %s", proto.Name, strings.Join(calls, " "))
		}
	}
	if err := g.body(fn, fd); err != nil {
		g.logf("irgen: erase %s: %v", proto.Name, err)
		g.unit.Erase(fn)
		return nil, err
	}

	if named {
		g.reg.markDefined(proto.Name)
	}
	return fn, nil
}

// body emits the entry block, the body expression, and the return, then
// hands the function to the backend to verify and optimize.
func (g *Generator) body(fn Function, fd *syntax.FuncDecl) error {
	g.fn = fn
	g.scope = NewScope(nil, "func "+fd.Proto.Name)
	defer func() {
		g.fn = nil
		g.scope = nil
	}()

	entry := g.b.NewBlock(fn, "entry")
	g.b.SetInsertPoint(entry)
	for i, name := range fd.Proto.Params {
		g.scope.Bind(name, fn.Param(i))
	}

	ret, err := g.GenExpr(fd.Body)
	if err != nil {
		return err
	}
	g.b.Ret(ret)

	if err := g.unit.Finish(fn); err != nil {
		return &Error{
			Kind: BackendFailure,
			Pos:  fd.Pos(),
			Msg:  "function " + fd.Proto.Name,
			Err:  err,
		}
	}
	return nil
}
