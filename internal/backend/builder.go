package backend

import (
	"github.com/you-not-fish/kaleido/internal/irgen"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// builder emits ssa values at the end of the insertion block. Terminators
// set the block kind and wire the CFG edges.
type builder struct {
	cur *ssa.Block
}

func val(v irgen.Value) *ssa.Value { return v.(*ssa.Value) }
func blk(b irgen.Block) *ssa.Block { return b.(*ssa.Block) }

func (b *builder) NewBlock(fn irgen.Function, name string) irgen.Block {
	return unwrap(fn).NewBlock(ssa.BlockInvalid, name)
}

func (b *builder) SetInsertPoint(x irgen.Block) { b.cur = blk(x) }
func (b *builder) InsertBlock() irgen.Block     { return b.cur }

func (b *builder) value(op ssa.Op, args ...*ssa.Value) *ssa.Value {
	return b.cur.Func.NewValue(b.cur, op, args...)
}

func (b *builder) ConstFloat(v float64) irgen.Value {
	return b.cur.Func.ConstFloat(b.cur, v)
}

func (b *builder) FAdd(x, y irgen.Value) irgen.Value { return b.value(ssa.OpAddF64, val(x), val(y)) }
func (b *builder) FSub(x, y irgen.Value) irgen.Value { return b.value(ssa.OpSubF64, val(x), val(y)) }
func (b *builder) FMul(x, y irgen.Value) irgen.Value { return b.value(ssa.OpMulF64, val(x), val(y)) }

func (b *builder) FCmpULT(x, y irgen.Value) irgen.Value {
	return b.value(ssa.OpLtF64U, val(x), val(y))
}

func (b *builder) FCmpONE(x, y irgen.Value) irgen.Value {
	return b.value(ssa.OpNeqF64, val(x), val(y))
}

func (b *builder) UIToFP(x irgen.Value) irgen.Value {
	return b.value(ssa.OpBoolToFloat, val(x))
}

func (b *builder) Call(fn irgen.Function, args []irgen.Value) irgen.Value {
	vs := make([]*ssa.Value, len(args))
	for i, a := range args {
		vs[i] = val(a)
	}
	v := b.value(ssa.OpStaticCall, vs...)
	v.Aux = fn.Name()
	return v
}

func (b *builder) CondBr(cond irgen.Value, then, els irgen.Block) {
	b.cur.Kind = ssa.BlockIf
	b.cur.SetControl(val(cond))
	b.cur.AddSucc(blk(then))
	b.cur.AddSucc(blk(els))
}

func (b *builder) Br(dest irgen.Block) {
	b.cur.Kind = ssa.BlockPlain
	b.cur.AddSucc(blk(dest))
}

func (b *builder) Ret(v irgen.Value) {
	b.cur.Kind = ssa.BlockReturn
	b.cur.SetControl(val(v))
}

func (b *builder) Phi() irgen.Value {
	return b.value(ssa.OpPhi)
}

func (b *builder) AddIncoming(phi, v irgen.Value, from irgen.Block) {
	val(phi).SetPhiArg(blk(from), val(v))
}
