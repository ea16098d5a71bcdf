package passes

import "github.com/you-not-fish/kaleido/internal/ssa"

// Fold evaluates arithmetic over constants at compile time and collapses
// phis whose incoming values are all the same.
//
// Comparisons have no constant form of their own, so a comparison of
// constants is folded together with the BoolToFloat that widens it.
// Folded values become constants in place; their operands may be left
// unused for DCE.
func Fold(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Dom().Order() {
			for _, v := range b.Values {
				if foldValue(f, v) {
					changed = true
				}
			}
		}
	}
}

func foldValue(f *ssa.Func, v *ssa.Value) bool {
	switch v.Op {
	case ssa.OpAddF64, ssa.OpSubF64, ssa.OpMulF64:
		x, y := v.Args[0], v.Args[1]
		if !x.IsConst() || !y.IsConst() {
			return false
		}
		toConst(v, v.Op.Eval(x.AuxFloat, y.AuxFloat))
		return true

	case ssa.OpBoolToFloat:
		cmp := v.Args[0]
		if !cmp.Op.IsBinary() {
			return false
		}
		x, y := cmp.Args[0], cmp.Args[1]
		if !x.IsConst() || !y.IsConst() {
			return false
		}
		toConst(v, cmp.Op.Eval(x.AuxFloat, y.AuxFloat))
		return true

	case ssa.OpPhi:
		same := uniqueArg(v)
		if same == nil || v.Uses == 0 {
			return false
		}
		f.ReplaceUses(v, same)
		return true
	}
	return false
}

// toConst turns v into a float constant.
func toConst(v *ssa.Value, c float64) {
	v.SetArgs(nil)
	v.Op = ssa.OpConstFloat
	v.AuxFloat = c
}

// uniqueArg returns the single value every incoming edge of phi carries,
// ignoring self references, or nil.
func uniqueArg(phi *ssa.Value) *ssa.Value {
	var same *ssa.Value
	for _, a := range phi.Args {
		if a == nil {
			return nil
		}
		if a == phi || a == same {
			continue
		}
		if same != nil {
			return nil
		}
		same = a
	}
	return same
}
