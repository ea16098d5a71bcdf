// Package irgen lowers the Kaleidoscope AST into a backend through a narrow
// capability interface. The generator owns the lexical scope of the function
// being built and resolves calls against the open unit and a persistent
// prototype registry.
package irgen

// Value is an instruction result produced by a Builder. It is opaque to the
// generator and only ever handed back to the Builder that produced it.
type Value interface{}

// Block is a basic block owned by a Function.
type Block interface{}

// Function is a declaration or definition inside a Unit. Every parameter
// and the result are double precision floats.
type Function interface {
	Name() string
	NumParams() int
	Param(i int) Value
	SetParamName(i int, name string)

	// HasBody reports whether the function has at least one block.
	HasBody() bool
}

// Builder emits instructions at an insertion point.
type Builder interface {
	// NewBlock appends an empty block to fn. The first block created for
	// fn is its entry.
	NewBlock(fn Function, name string) Block
	SetInsertPoint(b Block)
	InsertBlock() Block

	ConstFloat(v float64) Value
	FAdd(x, y Value) Value
	FSub(x, y Value) Value
	FMul(x, y Value) Value
	FCmpULT(x, y Value) Value // unordered or less than
	FCmpONE(x, y Value) Value // ordered and not equal
	UIToFP(x Value) Value     // i1 to 0.0 or 1.0
	Call(fn Function, args []Value) Value

	CondBr(cond Value, then, els Block)
	Br(dest Block)
	Ret(v Value)

	// Phi starts an empty phi at the head of the insertion block.
	Phi() Value
	AddIncoming(phi, v Value, from Block)
}

// Unit is an open compilation unit.
type Unit interface {
	// Function returns the function called name in this unit.
	Function(name string) (Function, bool)

	// Declare adds a body-less function with nparams parameters.
	Declare(name string, nparams int) Function

	// Erase removes fn and everything emitted into it.
	Erase(fn Function)

	// Referenced reports whether another function of the unit calls fn.
	Referenced(fn Function) bool

	// Finish runs verification and optimization over a completed body.
	Finish(fn Function) error

	Builder() Builder
}
