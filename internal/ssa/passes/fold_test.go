package passes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// optimize runs the default pipeline with verification.
func optimize(t *testing.T, f *ssa.Func) {
	t.Helper()
	require.NoError(t, Run(f, Default(), Config{Verify: true, VerifyDom: true}))
}

func TestFoldArithmetic(t *testing.T) {
	// (1 + 2) * 3 - 4
	f := ssa.NewFunc("f", 0)
	entry := f.NewBlock(ssa.BlockReturn, "entry")
	sum := f.NewValue(entry, ssa.OpAddF64, f.ConstFloat(entry, 1), f.ConstFloat(entry, 2))
	prod := f.NewValue(entry, ssa.OpMulF64, sum, f.ConstFloat(entry, 3))
	diff := f.NewValue(entry, ssa.OpSubF64, prod, f.ConstFloat(entry, 4))
	entry.SetControl(diff)

	optimize(t, f)

	require.Len(t, entry.Values, 1, ssa.Sprint(f))
	ret := entry.Controls[0]
	assert.Equal(t, ssa.OpConstFloat, ret.Op)
	assert.Equal(t, 5.0, ret.AuxFloat)
}

func TestFoldComparison(t *testing.T) {
	tests := []struct {
		op   ssa.Op
		x, y float64
		want float64
	}{
		{ssa.OpLtF64U, 1, 2, 1},
		{ssa.OpLtF64U, 2, 1, 0},
		{ssa.OpLtF64U, 2, 2, 0},
		{ssa.OpLtF64U, math.NaN(), 1, 1},
		{ssa.OpNeqF64, 1, 2, 1},
		{ssa.OpNeqF64, 2, 2, 0},
		{ssa.OpNeqF64, math.NaN(), 1, 0},
	}

	for _, tt := range tests {
		f := ssa.NewFunc("f", 0)
		entry := f.NewBlock(ssa.BlockReturn, "entry")
		cmp := f.NewValue(entry, tt.op, f.ConstFloat(entry, tt.x), f.ConstFloat(entry, tt.y))
		entry.SetControl(f.NewValue(entry, ssa.OpBoolToFloat, cmp))

		optimize(t, f)

		ret := entry.Controls[0]
		assert.Equal(t, ssa.OpConstFloat, ret.Op, "%s(%g, %g)", tt.op, tt.x, tt.y)
		assert.Equal(t, tt.want, ret.AuxFloat, "%s(%g, %g)", tt.op, tt.x, tt.y)
		assert.Len(t, entry.Values, 1, "comparison and operands removed")
	}
}

func TestFoldLeavesParamsAndCalls(t *testing.T) {
	// def f(x) g(1+1) + x
	m := ssa.NewModule("unit")
	m.Declare("g", 1)
	f := m.Declare("f", 1)
	entry := f.NewBlock(ssa.BlockReturn, "entry")
	two := f.NewValue(entry, ssa.OpAddF64, f.ConstFloat(entry, 1), f.ConstFloat(entry, 1))
	call := f.NewValue(entry, ssa.OpStaticCall, two)
	call.Aux = "g"
	sum := f.NewValue(entry, ssa.OpAddF64, call, f.Arg(0))
	entry.SetControl(sum)

	optimize(t, f)

	assert.Equal(t, ssa.OpConstFloat, two.Op)
	assert.Equal(t, 2.0, two.AuxFloat)
	assert.Equal(t, ssa.OpAddF64, sum.Op, "sum of a call is not constant")
	assert.Contains(t, entry.Values, call)
	assert.Contains(t, entry.Values, f.Arg(0))
	require.NoError(t, ssa.VerifyModule(m))
}

func TestDCEKeepsUnusedCalls(t *testing.T) {
	f := ssa.NewFunc("f", 1)
	entry := f.NewBlock(ssa.BlockReturn, "entry")
	call := f.NewValue(entry, ssa.OpStaticCall, f.Arg(0))
	call.Aux = "putchard"
	dead := f.NewValue(entry, ssa.OpMulF64, f.Arg(0), f.Arg(0))
	entry.SetControl(f.ConstFloat(entry, 0))

	DCE(f)

	assert.Contains(t, entry.Values, call)
	assert.NotContains(t, entry.Values, dead)
	assert.Equal(t, int32(1), f.Arg(0).Uses)
}

func TestFoldCollapsesTrivialPhi(t *testing.T) {
	// def f(x) if x then x else x
	f := ssa.NewFunc("f", 1)
	entry := f.NewBlock(ssa.BlockIf, "entry")
	then := f.NewBlock(ssa.BlockPlain, "then")
	els := f.NewBlock(ssa.BlockPlain, "else")
	merge := f.NewBlock(ssa.BlockReturn, "ifcont")

	x := f.Arg(0)
	entry.SetControl(f.NewValue(entry, ssa.OpNeqF64, x, f.ConstFloat(entry, 0)))
	entry.AddSucc(then)
	entry.AddSucc(els)
	then.AddSucc(merge)
	els.AddSucc(merge)
	phi := f.NewValue(merge, ssa.OpPhi)
	phi.SetPhiArg(then, x)
	phi.SetPhiArg(els, x)
	merge.SetControl(phi)

	optimize(t, f)

	assert.Same(t, x, merge.Controls[0])
	assert.Empty(t, merge.Values)
}

func TestFoldKeepsLoopPhi(t *testing.T) {
	// The induction variable of a loop has two distinct incoming values.
	f := ssa.NewFunc("f", 0)
	entry := f.NewBlock(ssa.BlockPlain, "entry")
	loop := f.NewBlock(ssa.BlockIf, "loop")
	after := f.NewBlock(ssa.BlockReturn, "afterloop")

	start := f.ConstFloat(entry, 1)
	entry.AddSucc(loop)
	phi := f.NewValue(loop, ssa.OpPhi)
	phi.SetPhiArg(entry, start)
	next := f.NewValue(loop, ssa.OpAddF64, phi, f.ConstFloat(loop, 1))
	loop.SetControl(f.NewValue(loop, ssa.OpLtF64U, phi, f.ConstFloat(loop, 10)))
	loop.AddSucc(loop)
	loop.AddSucc(after)
	phi.SetPhiArg(loop, next)
	after.SetControl(f.ConstFloat(after, 0))

	optimize(t, f)

	assert.Equal(t, ssa.OpPhi, loop.Values[0].Op)
	assert.Equal(t, ssa.OpAddF64, next.Op)
}
