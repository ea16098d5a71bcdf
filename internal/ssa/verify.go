package ssa

import (
	"fmt"
	"slices"
	"strings"
)

// Verify checks the structural integrity of an SSA function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string
	verify(f, func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	})
	return combineErrors(errs)
}

func verify(f *Func, add func(format string, args ...interface{})) {
	if f.Entry == nil {
		add("func %s: entry block is nil", f.Name)
		return
	}

	if len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return
	}

	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Entry block has no predecessors
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	// Build a set of all blocks for membership checks.
	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}

	// Build a set of all values for reference checks.
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		// 2. Every block has a valid Kind
		if b.Kind == BlockInvalid {
			add("func %s, %s: block has no terminator", f.Name, b)
		}

		// 3. Block's Func pointer matches
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		// Check values
		sawNonPhi := false
		for _, v := range b.Values {
			valueSet[v] = true

			// 4. Every Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}

			// 5. Every value has a type, and it is the op's result type
			if v.Type == TypeInvalid {
				add("func %s, %s, %s (%s): value has no type", f.Name, b, v, v.Op)
			} else if want := v.Op.Info().Result; v.Type != want {
				add("func %s, %s, %s (%s): type %s, want %s", f.Name, b, v, v.Op, v.Type, want)
			}

			// 6. Args are non-nil, counted right and typed right
			if n := v.Op.Info().NArgs; n >= 0 && len(v.Args) != n {
				add("func %s, %s, %s (%s): has %d args, want %d", f.Name, b, v, v.Op, len(v.Args), n)
			}
			want := TypeFloat
			if v.Op == OpBoolToFloat {
				want = TypeBool
			}
			for i, arg := range v.Args {
				switch {
				case arg == nil && v.Op == OpPhi:
					add("func %s, %s, %s: phi has no incoming value from %s", f.Name, b, v, predName(b, i))
				case arg == nil:
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				case arg.Type != want:
					add("func %s, %s, %s (%s): arg[%d] %s has type %s, want %s",
						f.Name, b, v, v.Op, i, arg, arg.Type, want)
				}
			}

			// 7. Phi args count == Preds count, phis first, args in entry
			switch v.Op {
			case OpPhi:
				if len(v.Args) != len(b.Preds) {
					add("func %s, %s, %s: phi has %d args but block has %d preds",
						f.Name, b, v, len(v.Args), len(b.Preds))
				}
				if sawNonPhi {
					add("func %s, %s, %s: phi after non-phi value", f.Name, b, v)
				}
			case OpArg:
				if b != f.Entry {
					add("func %s, %s, %s: parameter outside entry block", f.Name, b, v)
				}
				if v.AuxInt < 0 || int(v.AuxInt) >= len(f.Params) {
					add("func %s, %s, %s: parameter index %d out of range", f.Name, b, v, v.AuxInt)
				}
			}
			if v.Op != OpPhi {
				sawNonPhi = true
			}
		}

		// 8. Terminator checks based on Kind
		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1",
					f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 {
				add("func %s, %s: if block has %d controls, want 1",
					f.Name, b, len(b.Controls))
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2",
					f.Name, b, len(b.Succs))
			}
			if len(b.Controls) == 1 && b.Controls[0] != nil && b.Controls[0].Type != TypeBool {
				add("func %s, %s: if control %s has type %s, want %s",
					f.Name, b, b.Controls[0], b.Controls[0].Type, TypeBool)
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
			if len(b.Controls) != 1 {
				add("func %s, %s: return block has %d controls, want 1",
					f.Name, b, len(b.Controls))
			} else if c := b.Controls[0]; c != nil && c.Type != TypeFloat {
				add("func %s, %s: return value %s has type %s, want %s",
					f.Name, b, c, c.Type, TypeFloat)
			}
		}

		// 9. Succs/Preds edge consistency
		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor",
					f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}

		// 10. Control values must reference existing values
		for i, c := range b.Controls {
			if c == nil {
				add("func %s, %s: control[%d] is nil", f.Name, b, i)
			}
		}
	}

	// 11. Verify all value args are in the function
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function",
					f.Name, b, i, c)
			}
		}
	}
}

// VerifyModule verifies every definition in m and checks that each call
// names a function of the module with matching arity.
func VerifyModule(m *Module) error {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	for _, f := range m.Funcs {
		if m.Func(f.Name) != f {
			add("module %s: func %s not indexed by name", m.Name, f.Name)
		}
		if f.IsDeclaration() {
			continue
		}
		verify(f, add)
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != OpStaticCall {
					continue
				}
				callee := m.Func(v.Aux)
				switch {
				case callee == nil:
					add("func %s, %s, %s: call to %s, not in module", f.Name, b, v, v.Aux)
				case callee.NumParams() != len(v.Args):
					add("func %s, %s, %s: call to %s with %d args, want %d",
						f.Name, b, v, v.Aux, len(v.Args), callee.NumParams())
				}
			}
		}
	}

	return combineErrors(errs)
}

// predName names the i'th predecessor of b for diagnostics.
func predName(b *Block, i int) string {
	if i < len(b.Preds) {
		return b.Preds[i].String()
	}
	return fmt.Sprintf("pred[%d]", i)
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom runs Verify, then checks that every reachable use is
// dominated by its definition. A phi operand only has to dominate the
// predecessor it flows in from; a value used in its own block must come
// earlier in it.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	t := f.Dom()
	for _, b := range t.Order() {
		if b != f.Entry && t.Idom(b) == nil {
			add("func %s, %s: reachable block has no dominator", f.Name, b)
		}
	}

	// available reports whether def can be used at index at of block b.
	available := func(def *Value, b *Block, at int) bool {
		if def.Block != b {
			return t.Dominates(def.Block, b)
		}
		return slices.Index(b.Values, def) < at
	}

	for _, b := range t.Order() {
		for at, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				if v.Op == OpPhi {
					if i < len(b.Preds) && !t.Dominates(arg.Block, b.Preds[i]) {
						add("func %s, %s, %s: phi arg[%d] %s defined in %s which does not dominate pred %s",
							f.Name, b, v, i, arg, arg.Block, b.Preds[i])
					}
					continue
				}
				if !available(arg, b, at) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate its use",
						f.Name, b, v, i, arg, arg.Block)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !available(c, b, len(b.Values)) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
