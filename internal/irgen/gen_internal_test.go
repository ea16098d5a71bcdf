package irgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

type stubFunction struct {
	name    string
	nparams int
	body    bool
}

func (f *stubFunction) Name() string             { return f.name }
func (f *stubFunction) NumParams() int           { return f.nparams }
func (f *stubFunction) Param(int) Value          { return nil }
func (f *stubFunction) SetParamName(int, string) {}
func (f *stubFunction) HasBody() bool            { return f.body }

// shiftingUnit hides each function from the first lookup and reports it on
// every later one, as if another generator had defined it in between.
type shiftingUnit struct {
	funcs  map[string]*stubFunction
	looked map[string]bool
}

func (u *shiftingUnit) Function(name string) (Function, bool) {
	f, ok := u.funcs[name]
	if !ok || !u.looked[name] {
		u.looked[name] = true
		return nil, false
	}
	return f, true
}

func (u *shiftingUnit) Declare(name string, nparams int) Function {
	f := &stubFunction{name: name, nparams: nparams}
	u.funcs[name] = f
	return f
}

func (u *shiftingUnit) Erase(fn Function)        { delete(u.funcs, fn.Name()) }
func (u *shiftingUnit) Referenced(Function) bool { return false }
func (u *shiftingUnit) Finish(Function) error    { return nil }
func (u *shiftingUnit) Builder() Builder         { return nil }

func TestCallKeepsResolutionErrorKind(t *testing.T) {
	u := &shiftingUnit{
		funcs:  map[string]*stubFunction{"g": {name: "g", nparams: 2, body: true}},
		looked: make(map[string]bool),
	}
	reg := NewRegistry()
	reg.Store(syntax.NewPrototype(syntax.Pos{}, "g", "x"))

	g := New(u, reg)
	g.fn = &stubFunction{name: "f"}
	g.scope = NewScope(nil, "func f")

	_, err := g.GenExpr(syntax.NewCall(syntax.Pos{}, "g", syntax.NewNumber(syntax.Pos{}, 1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArityMismatch)
	assert.NotErrorIs(t, err, ErrUnknownFunction)
}

func TestCallUnknownFunction(t *testing.T) {
	u := &shiftingUnit{funcs: map[string]*stubFunction{}, looked: make(map[string]bool)}
	g := New(u, NewRegistry())
	g.fn = &stubFunction{name: "f"}
	g.scope = NewScope(nil, "func f")

	_, err := g.GenExpr(syntax.NewCall(syntax.Pos{}, "nope"))
	assert.ErrorIs(t, err, ErrUnknownFunction)
}
