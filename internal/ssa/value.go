package ssa

import "fmt"

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	Type Type

	// Args are the input values to this operation.
	// A phi may hold nil args while its block's edges are still being built.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (parameter index).
	AuxInt int64

	// AuxFloat holds an auxiliary float (for OpConstFloat).
	AuxFloat float64

	// Aux holds a parameter or callee name.
	Aux string

	// Uses tracks the number of references to this value from Args and
	// block controls. Used by DCE to identify dead values.
	Uses int32
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	if arg != nil {
		arg.Uses++
	}
}

// SetArgs replaces the argument list, adjusting use counts.
func (v *Value) SetArgs(args []*Value) {
	for _, old := range v.Args {
		if old != nil {
			old.Uses--
		}
	}
	v.Args = args
	for _, arg := range args {
		if arg != nil {
			arg.Uses++
		}
	}
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	if old := v.Args[i]; old != nil {
		old.Uses--
	}
	v.Args[i] = new
	if new != nil {
		new.Uses++
	}
}

// SetPhiArg sets the incoming value of phi v for the edge from pred.
// Args are kept index-aligned with v.Block.Preds.
func (v *Value) SetPhiArg(from *Block, arg *Value) {
	if v.Op != OpPhi {
		panic("ssa.SetPhiArg: not a phi: " + v.LongString())
	}
	i := v.Block.PredIndex(from)
	if i < 0 {
		panic(fmt.Sprintf("ssa.SetPhiArg: %s is not a predecessor of %s", from, v.Block))
	}
	for len(v.Args) <= i {
		v.Args = append(v.Args, nil)
	}
	v.ReplaceArg(i, arg)
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// IsConst reports whether v is a float constant.
func (v *Value) IsConst() bool {
	return v.Op == OpConstFloat
}
