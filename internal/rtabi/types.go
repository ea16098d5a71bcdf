package rtabi

// LLVM type names for code generation. The language has a single value
// type, an IEEE-754 double.
const (
	LLVMTypeFloat  = "double"
	LLVMTypeBoolI1 = "i1" // comparison results before widening
)

// MaxCallDepth bounds nested calls in the execution engine.
const MaxCallDepth = 10000
