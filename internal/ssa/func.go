package ssa

import "fmt"

// Func represents an SSA function.
// A Func with no blocks is a declaration.
type Func struct {
	// Name is the function name.
	Name string

	// Params holds the parameter names; len(Params) is the arity.
	Params []string

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]), nil for a declaration.
	Entry *Block

	// Module is the unit containing this function, if any.
	Module *Module

	args []*Value // OpArg values, created with the entry block
	dom  *DomTree // nil until Dom is called, reset by CFG edits

	// nextValueID is the next available value ID.
	nextValueID ID

	// nextBlockID is the next available block ID.
	nextBlockID ID
}

// NewFunc creates a declaration with nparams unnamed parameters.
func NewFunc(name string, nparams int) *Func {
	return &Func{
		Name:   name,
		Params: make([]string, nparams),
	}
}

// NumParams returns the function's arity.
func (f *Func) NumParams() int { return len(f.Params) }

// IsDeclaration reports whether f has no body.
func (f *Func) IsDeclaration() bool { return len(f.Blocks) == 0 }

// StripBody discards f's blocks, turning it back into a declaration.
func (f *Func) StripBody() {
	f.Blocks = nil
	f.Entry = nil
	f.args = nil
	f.nextBlockID = 0
	f.nextValueID = 0
	f.dom = nil
}

// NewBlock creates a new basic block with the given kind and appends it to
// the function. The first block becomes the entry, and it starts with one
// OpArg value per parameter.
func (f *Func) NewBlock(kind BlockKind, name string) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Name: name,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	f.dom = nil

	if f.Entry == nil {
		f.Entry = b
		f.args = make([]*Value, len(f.Params))
		for i := range f.Params {
			a := f.NewValue(b, OpArg)
			a.AuxInt = int64(i)
			a.Aux = f.Params[i]
			f.args[i] = a
		}
	}
	return b
}

// Arg returns the OpArg value of parameter i. f must have an entry block.
func (f *Func) Arg(i int) *Value {
	if f.Entry == nil {
		panic(fmt.Sprintf("ssa.Func.Arg: %s is a declaration", f.Name))
	}
	return f.args[i]
}

// SetParamName renames parameter i, including its OpArg value.
func (f *Func) SetParamName(i int, name string) {
	f.Params[i] = name
	if f.args != nil {
		f.args[i].Aux = name
	}
}

// NewValue creates a new Value in the given block. Its type comes from the
// op table.
func (f *Func) NewValue(b *Block, op Op, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  op.Info().Result,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	if op == OpPhi {
		// Phis stay grouped at the head of the block.
		i := 0
		for i < len(b.Values) && b.Values[i].Op == OpPhi {
			i++
		}
		b.Values = append(b.Values, nil)
		copy(b.Values[i+1:], b.Values[i:])
		b.Values[i] = v
		return v
	}
	b.Values = append(b.Values, v)
	return v
}

// ConstFloat appends a float constant to b.
func (f *Func) ConstFloat(b *Block, c float64) *Value {
	v := f.NewValue(b, OpConstFloat)
	v.AuxFloat = c
	return v
}

// RemoveValue deletes v from its block. v must have no uses.
func (f *Func) RemoveValue(v *Value) {
	if v.Uses != 0 {
		panic(fmt.Sprintf("ssa.RemoveValue: %s still has %d uses", v, v.Uses))
	}
	b := v.Block
	for i, x := range b.Values {
		if x == v {
			b.Values = append(b.Values[:i], b.Values[i+1:]...)
			break
		}
	}
	v.SetArgs(nil)
	v.Block = nil
}

// ReplaceUses redirects every use of old, in args and block controls, to new.
func (f *Func) ReplaceUses(old, new *Value) {
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, a := range v.Args {
				if a == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				old.Uses--
				b.Controls[i] = new
				new.Uses++
			}
		}
	}
}

// Calls reports whether any call in f targets name.
func (f *Func) Calls(name string) bool {
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == OpStaticCall && v.Aux == name {
				return true
			}
		}
	}
	return false
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
