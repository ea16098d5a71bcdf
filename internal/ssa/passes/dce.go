package passes

import "github.com/you-not-fish/kaleido/internal/ssa"

// DCE removes pure values that nothing uses, repeating until removals stop
// freeing further values. Parameters are kept so the signature is intact.
func DCE(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			for i := len(b.Values) - 1; i >= 0; i-- {
				v := b.Values[i]
				if v.Uses != 0 || !v.IsPure() || v.Op == ssa.OpArg {
					continue
				}
				f.RemoveValue(v)
				changed = true
			}
		}
	}
}
