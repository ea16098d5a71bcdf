package codegen

import (
	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// llvmType maps an SSA value type to its LLVM IR type string.
func llvmType(t ssa.Type) string {
	switch t {
	case ssa.TypeFloat:
		return rtabi.LLVMTypeFloat
	case ssa.TypeBool:
		return rtabi.LLVMTypeBoolI1
	}
	return "void"
}
