package backend

import (
	"io"

	"github.com/you-not-fish/kaleido/internal/codegen"
	"github.com/you-not-fish/kaleido/internal/irgen"
	"github.com/you-not-fish/kaleido/internal/session"
	"github.com/you-not-fish/kaleido/internal/ssa"
	"github.com/you-not-fish/kaleido/internal/ssa/passes"
)

// Unit is one ssa.Module open for generation.
type Unit struct {
	mod *ssa.Module
	b   *builder
	be  *Backend
}

var (
	_ irgen.Unit   = (*Unit)(nil)
	_ session.Unit = (*Unit)(nil)
)

func newUnit(name string, be *Backend) *Unit {
	return &Unit{mod: ssa.NewModule(name), b: &builder{}, be: be}
}

// Name returns the module name.
func (u *Unit) Name() string { return u.mod.Name }

// Module returns the module being built.
func (u *Unit) Module() *ssa.Module { return u.mod }

func (u *Unit) Function(name string) (irgen.Function, bool) {
	f := u.mod.Func(name)
	if f == nil {
		return nil, false
	}
	return function{f}, true
}

func (u *Unit) Declare(name string, nparams int) irgen.Function {
	return function{u.mod.Declare(name, nparams)}
}

// Erase discards fn's body. A function other functions of the unit still
// call is kept as a declaration so those calls stay bound; otherwise it is
// removed from the unit.
func (u *Unit) Erase(fn irgen.Function) {
	f := unwrap(fn)
	if u.Referenced(fn) {
		f.StripBody()
		return
	}
	u.mod.Remove(f)
}

func (u *Unit) Referenced(fn irgen.Function) bool {
	return u.mod.Referenced(unwrap(fn))
}

// Finish verifies fn and runs the pass pipeline over it.
func (u *Unit) Finish(fn irgen.Function) error {
	f := unwrap(fn)
	u.be.logf("backend: finish %s in %s", f.Name, u.mod.Name)
	return passes.Run(f, u.be.pipeline, u.be.cfg)
}

func (u *Unit) Builder() irgen.Builder { return u.b }

// Fprint renders fn as LLVM IR.
func (u *Unit) Fprint(w io.Writer, fn irgen.Function) error {
	return codegen.Fprint(w, unwrap(fn))
}

// function adapts an ssa.Func to irgen.Function.
type function struct{ f *ssa.Func }

func (fn function) Name() string                    { return fn.f.Name }
func (fn function) NumParams() int                  { return fn.f.NumParams() }
func (fn function) Param(i int) irgen.Value         { return fn.f.Arg(i) }
func (fn function) SetParamName(i int, name string) { fn.f.SetParamName(i, name) }
func (fn function) HasBody() bool                   { return !fn.f.IsDeclaration() }

func unwrap(fn irgen.Function) *ssa.Func {
	return fn.(function).f
}
