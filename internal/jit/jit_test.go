package jit

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// define adds a single-block definition to m whose result is body's value.
func define(m *ssa.Module, name string, params []string, body func(f *ssa.Func, b *ssa.Block) *ssa.Value) *ssa.Func {
	f := m.Declare(name, len(params))
	for i, p := range params {
		f.SetParamName(i, p)
	}
	b := f.NewBlock(ssa.BlockReturn, "entry")
	b.SetControl(body(f, b))
	return f
}

func call(f *ssa.Func, b *ssa.Block, callee string, args ...*ssa.Value) *ssa.Value {
	v := f.NewValue(b, ssa.OpStaticCall, args...)
	v.Aux = callee
	return v
}

// anon adds the anonymous entry calling callee with constant args.
func anon(m *ssa.Module, callee string, args ...float64) {
	define(m, rtabi.AnonFunc, nil, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		vs := make([]*ssa.Value, len(args))
		for i, a := range args {
			vs[i] = f.ConstFloat(b, a)
		}
		return call(f, b, callee, vs...)
	})
}

// run loads m, calls its anonymous entry, and removes it.
func run(t *testing.T, e *Engine, m *ssa.Module) (float64, error) {
	t.Helper()
	tr, err := e.Load(m)
	require.NoError(t, err)
	defer tr.Remove()
	entry, err := tr.Lookup(rtabi.AnonFunc)
	require.NoError(t, err)
	return entry.Call()
}

func TestLoadAndCall(t *testing.T) {
	e := New()
	m := ssa.NewModule("unit1")
	define(m, "add", []string{"x", "y"}, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		return f.NewValue(b, ssa.OpAddF64, f.Arg(0), f.Arg(1))
	})
	anon(m, "add", 1, 2)

	v, err := run(t, e, m)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 0, e.Loaded())
	assert.Equal(t, []string{"add"}, e.Symbols())
}

func TestNamedDefinitionsOutliveTheirUnit(t *testing.T) {
	e := New()

	m1 := ssa.NewModule("unit1")
	define(m1, "double", []string{"x"}, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		return f.NewValue(b, ssa.OpMulF64, f.Arg(0), f.ConstFloat(b, 2))
	})
	anon(m1, "double", 1)
	v, err := run(t, e, m1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	// A later unit only declares the function.
	m2 := ssa.NewModule("unit2")
	m2.Declare("double", 1)
	anon(m2, "double", 21)
	v, err = run(t, e, m2)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	assert.Equal(t, []string{"double"}, e.Symbols(), "anonymous entries are never persisted")
}

func TestHostFunctions(t *testing.T) {
	var out bytes.Buffer
	e := New(WithOutput(&out))

	tests := []struct {
		name string
		args []float64
		want float64
	}{
		{rtabi.FnSin, []float64{0}, 0},
		{rtabi.FnCos, []float64{0}, 1},
		{rtabi.FnSqrt, []float64{16}, 4},
		{rtabi.FnPow, []float64{2, 10}, 1024},
		{rtabi.FnFloor, []float64{-1.5}, -2},
		{rtabi.FnPutchard, []float64{72}, 0},
		{rtabi.FnPutchard, []float64{10}, 0},
		{rtabi.FnPrintd, []float64{1.5}, 0},
	}
	for _, tt := range tests {
		m := ssa.NewModule("host")
		sig, ok := rtabi.LookupHost(tt.name)
		require.True(t, ok, tt.name)
		m.Declare(tt.name, sig.NParams)
		anon(m, tt.name, tt.args...)
		v, err := run(t, e, m)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, v, "%s%v", tt.name, tt.args)
	}
	assert.Equal(t, "H\n1.500000\n", out.String())
}

func TestEveryHostSignatureHasAnImplementation(t *testing.T) {
	syms := hostSymbols()
	for _, sig := range rtabi.HostFunctions() {
		h, ok := syms[sig.Name]
		if assert.True(t, ok, sig.Name) {
			assert.Equal(t, sig.NParams, h.arity())
		}
	}
}

func TestLinkErrors(t *testing.T) {
	t.Run("unresolved", func(t *testing.T) {
		e := New()
		m := ssa.NewModule("unit1")
		m.Declare("nowhere", 0)
		anon(m, "nowhere")

		_, err := e.Load(m)
		var le *LinkError
		require.True(t, errors.As(err, &le), "got %v", err)
		assert.Equal(t, "nowhere", le.Symbol)
		assert.EqualError(t, err, "unit1: in __anon_expr: unresolved symbol nowhere")
		assert.Equal(t, 0, e.Loaded())
	})

	t.Run("arity", func(t *testing.T) {
		e := New()
		m := ssa.NewModule("unit1")
		m.Declare(rtabi.FnSin, 2)
		anon(m, rtabi.FnSin, 1, 2)

		_, err := e.Load(m)
		assert.EqualError(t, err, "unit1: in __anon_expr: 2 arguments passed to 1-parameter sin")
	})

	t.Run("nothing registered on failure", func(t *testing.T) {
		e := New()
		m := ssa.NewModule("unit1")
		define(m, "f", nil, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
			return call(f, b, "g")
		})
		m.Declare("g", 0)

		_, err := e.Load(m)
		require.Error(t, err)
		assert.Empty(t, e.Symbols())
	})

	t.Run("duplicate", func(t *testing.T) {
		e := New()
		one := func(f *ssa.Func, b *ssa.Block) *ssa.Value { return f.ConstFloat(b, 1) }
		m1 := ssa.NewModule("unit1")
		define(m1, "f", nil, one)
		_, err := e.Load(m1)
		require.NoError(t, err)

		m2 := ssa.NewModule("unit2")
		define(m2, "f", nil, one)
		_, err = e.Load(m2)
		assert.EqualError(t, err, "unit2: in f: duplicate symbol f")
	})

	t.Run("invalid module", func(t *testing.T) {
		e := New()
		m := ssa.NewModule("unit1")
		f := m.Declare("f", 0)
		f.NewBlock(ssa.BlockInvalid, "entry")

		_, err := e.Load(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "block has no terminator")
	})
}

func TestRecursionAndLoops(t *testing.T) {
	e := New()
	m := ssa.NewModule("unit1")

	// def fib(n) if n < 2 then n else fib(n-1) + fib(n-2)
	fib := m.Declare("fib", 1)
	fib.SetParamName(0, "n")
	entry := fib.NewBlock(ssa.BlockIf, "entry")
	then := fib.NewBlock(ssa.BlockPlain, "then")
	els := fib.NewBlock(ssa.BlockPlain, "else")
	merge := fib.NewBlock(ssa.BlockReturn, "ifcont")
	n := fib.Arg(0)
	entry.SetControl(fib.NewValue(entry, ssa.OpLtF64U, n, fib.ConstFloat(entry, 2)))
	entry.AddSucc(then)
	entry.AddSucc(els)
	then.AddSucc(merge)
	a := call(fib, els, "fib", fib.NewValue(els, ssa.OpSubF64, n, fib.ConstFloat(els, 1)))
	b := call(fib, els, "fib", fib.NewValue(els, ssa.OpSubF64, n, fib.ConstFloat(els, 2)))
	sum := fib.NewValue(els, ssa.OpAddF64, a, b)
	els.AddSucc(merge)
	phi := fib.NewValue(merge, ssa.OpPhi)
	phi.SetPhiArg(then, n)
	phi.SetPhiArg(els, sum)
	merge.SetControl(phi)

	// def count(n): i runs 0, 1, ... while i+1 < n; returns the last i.
	count := m.Declare("count", 1)
	count.SetParamName(0, "n")
	pre := count.NewBlock(ssa.BlockPlain, "entry")
	loop := count.NewBlock(ssa.BlockIf, "loop")
	after := count.NewBlock(ssa.BlockReturn, "afterloop")
	start := count.ConstFloat(pre, 0)
	pre.AddSucc(loop)
	i := count.NewValue(loop, ssa.OpPhi)
	i.SetPhiArg(pre, start)
	next := count.NewValue(loop, ssa.OpAddF64, i, count.ConstFloat(loop, 1))
	loop.SetControl(count.NewValue(loop, ssa.OpLtF64U, next, count.Arg(0)))
	loop.AddSucc(loop)
	loop.AddSucc(after)
	i.SetPhiArg(loop, next)
	after.SetControl(i)

	tr, err := e.Load(m)
	require.NoError(t, err)

	fibEntry, err := tr.Lookup("fib")
	require.NoError(t, err)
	v, err := fibEntry.Call(10)
	require.NoError(t, err)
	assert.Equal(t, 55.0, v)

	countEntry, err := tr.Lookup("count")
	require.NoError(t, err)
	v, err = countEntry.Call(5)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	_, err = countEntry.Call()
	assert.EqualError(t, err, "count: got 0 arguments, want 1")
}

func TestStackOverflow(t *testing.T) {
	e := New(WithMaxDepth(50))
	m := ssa.NewModule("unit1")
	define(m, "forever", []string{"x"}, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		return call(f, b, "forever", f.Arg(0))
	})
	anon(m, "forever", 1)

	_, err := run(t, e, m)
	var re *RuntimeError
	require.True(t, errors.As(err, &re), "got %v", err)
	assert.Equal(t, "stack overflow", re.Msg)
	assert.Equal(t, "forever", re.Func)

	// The engine stays usable.
	m2 := ssa.NewModule("unit2")
	m2.Declare(rtabi.FnFabs, 1)
	anon(m2, rtabi.FnFabs, -3)
	v, err := run(t, e, m2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestUnorderedLessThan(t *testing.T) {
	e := New()
	m := ssa.NewModule("unit1")
	define(m, "lt", []string{"x", "y"}, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		lt := f.NewValue(b, ssa.OpLtF64U, f.Arg(0), f.Arg(1))
		return f.NewValue(b, ssa.OpBoolToFloat, lt)
	})
	tr, err := e.Load(m)
	require.NoError(t, err)
	lt, err := tr.Lookup("lt")
	require.NoError(t, err)

	for _, tt := range []struct{ x, y, want float64 }{
		{1, 2, 1},
		{2, 1, 0},
		{2, 2, 0},
		{math.NaN(), 1, 1},
	} {
		v, err := lt.Call(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v, "%v < %v", tt.x, tt.y)
	}
}

func TestRemovedTracker(t *testing.T) {
	e := New()
	m := ssa.NewModule("unit1")
	define(m, rtabi.AnonFunc, nil, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		return f.ConstFloat(b, 7)
	})
	tr, err := e.Load(m)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Loaded())

	tr.Remove()
	tr.Remove()
	assert.Equal(t, 0, e.Loaded())

	_, err = tr.Lookup(rtabi.AnonFunc)
	assert.ErrorIs(t, err, ErrUnloaded)

	// The anonymous name can be loaded again.
	m2 := ssa.NewModule("unit2")
	define(m2, rtabi.AnonFunc, nil, func(f *ssa.Func, b *ssa.Block) *ssa.Value {
		return f.ConstFloat(b, 8)
	})
	v, err := run(t, e, m2)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)
}
