package jit

import (
	"fmt"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// machine is the state of one top-level call.
type machine struct {
	e     *Engine
	depth int
}

func (m *machine) halt(fn, msg string) {
	panic(haltError{&RuntimeError{Func: fn, Msg: msg}})
}

// call interprets f's blocks. Comparison results live in the register file
// as 0 or 1.
func (f *function) call(m *machine, args []float64) float64 {
	if m.depth >= m.e.maxDepth {
		m.halt(f.fn.Name, "stack overflow")
	}
	m.depth++
	defer func() { m.depth-- }()

	regs := make(map[*ssa.Value]float64, f.fn.NumValues())
	var prev *ssa.Block
	b := f.fn.Entry
	for {
		i := 0
		if prev != nil {
			k := b.PredIndex(prev)
			// Phis take their inputs simultaneously on entry to b.
			var in []float64
			for ; i < len(b.Values) && b.Values[i].Op == ssa.OpPhi; i++ {
				in = append(in, regs[b.Values[i].Args[k]])
			}
			for j, x := range in {
				regs[b.Values[j]] = x
			}
		}
		for _, v := range b.Values[i:] {
			regs[v] = m.eval(f, v, regs, args)
		}

		switch b.Kind {
		case ssa.BlockPlain:
			prev, b = b, b.Succs[0]
		case ssa.BlockIf:
			next := b.Succs[1]
			if regs[b.Controls[0]] != 0 {
				next = b.Succs[0]
			}
			prev, b = b, next
		case ssa.BlockReturn:
			return regs[b.Controls[0]]
		default:
			m.halt(f.fn.Name, "unterminated block "+b.Label())
		}
	}
}

func (m *machine) eval(f *function, v *ssa.Value, regs map[*ssa.Value]float64, args []float64) float64 {
	switch v.Op {
	case ssa.OpArg:
		return args[v.AuxInt]
	case ssa.OpConstFloat:
		return v.AuxFloat
	case ssa.OpBoolToFloat:
		return regs[v.Args[0]]
	case ssa.OpStaticCall:
		in := make([]float64, len(v.Args))
		for i, a := range v.Args {
			in[i] = regs[a]
		}
		return f.callees[v.Aux].call(m, in)
	}
	if v.Op.IsBinary() {
		return v.Op.Eval(regs[v.Args[0]], regs[v.Args[1]])
	}
	m.halt(f.fn.Name, fmt.Sprintf("cannot execute %s", v.LongString()))
	return 0
}
