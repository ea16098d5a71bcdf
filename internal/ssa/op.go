// Package ssa implements the SSA (Static Single Assignment) form that
// generated code is kept in between code generation and execution.
//
// Every function takes and returns double precision floats. Comparisons
// produce an i1 that is widened back to a float before it escapes.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Parameters
	OpArg // function parameter; AuxInt = index, Aux = name

	// Constants
	OpConstFloat // float constant; AuxFloat = value

	// Float arithmetic
	OpAddF64 // float + float
	OpSubF64 // float - float
	OpMulF64 // float * float

	// Float comparison
	OpLtF64U // unordered or less than; NaN compares true
	OpNeqF64 // ordered and not equal; NaN compares false

	// Conversion
	OpBoolToFloat // i1 → 0.0 or 1.0

	// Calls
	OpStaticCall // direct call; Aux = callee name; Args = arguments

	// SSA-specific
	OpPhi // φ function; Args = one per predecessor

	opCount
)

// OpInfo describes properties of an Op.
type OpInfo struct {
	Name   string
	NArgs  int  // fixed argument count, -1 if variadic
	IsPure bool // no side effects; may be removed if unused
	Result Type
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpArg: {Name: "Arg", NArgs: 0, IsPure: true, Result: TypeFloat},

	OpConstFloat: {Name: "ConstFloat", NArgs: 0, IsPure: true, Result: TypeFloat},

	OpAddF64: {Name: "AddF64", NArgs: 2, IsPure: true, Result: TypeFloat},
	OpSubF64: {Name: "SubF64", NArgs: 2, IsPure: true, Result: TypeFloat},
	OpMulF64: {Name: "MulF64", NArgs: 2, IsPure: true, Result: TypeFloat},

	OpLtF64U: {Name: "LtF64U", NArgs: 2, IsPure: true, Result: TypeBool},
	OpNeqF64: {Name: "NeqF64", NArgs: 2, IsPure: true, Result: TypeBool},

	OpBoolToFloat: {Name: "BoolToFloat", NArgs: 1, IsPure: true, Result: TypeFloat},

	// Calls may reach host functions with output; never pure.
	OpStaticCall: {Name: "StaticCall", NArgs: -1, Result: TypeFloat},

	OpPhi: {Name: "Phi", NArgs: -1, IsPure: true, Result: TypeFloat},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsBinary reports whether o takes two float operands.
func (o Op) IsBinary() bool {
	switch o {
	case OpAddF64, OpSubF64, OpMulF64, OpLtF64U, OpNeqF64:
		return true
	}
	return false
}
