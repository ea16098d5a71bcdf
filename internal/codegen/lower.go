package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// lowerFunc emits the LLVM IR for a single SSA function.
func (g *generator) lowerFunc(fn *ssa.Func) {
	if fn.IsDeclaration() {
		types := make([]string, fn.NumParams())
		for i := range types {
			types[i] = rtabi.LLVMTypeFloat
		}
		g.e.emit("declare %s @%s(%s)", rtabi.LLVMTypeFloat, fn.Name, strings.Join(types, ", "))
		return
	}

	params := make([]string, fn.NumParams())
	for i := range params {
		params[i] = fmt.Sprintf("%s %s", rtabi.LLVMTypeFloat, valueName(fn.Arg(i)))
	}

	g.e.emit("define %s @%s(%s) {", rtabi.LLVMTypeFloat, fn.Name, strings.Join(params, ", "))

	for i, b := range fn.Blocks {
		if i > 0 {
			g.e.emitLine()
		}
		g.lowerBlock(b)
	}

	g.e.emit("}")
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)

	for _, v := range b.Values {
		g.lowerValue(v)
	}

	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single SSA value.
func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Parameters are named in the define line; constants are inlined at
	// use sites.
	case ssa.OpArg, ssa.OpConstFloat:
		return

	case ssa.OpAddF64:
		g.emitBinOp("fadd", v)
	case ssa.OpSubF64:
		g.emitBinOp("fsub", v)
	case ssa.OpMulF64:
		g.emitBinOp("fmul", v)

	case ssa.OpLtF64U:
		g.emitFCmp("ult", v)
	case ssa.OpNeqF64:
		g.emitFCmp("one", v)

	case ssa.OpBoolToFloat:
		g.e.emitInst("%s = uitofp %s %s to %s", valueName(v),
			rtabi.LLVMTypeBoolI1, g.operand(v.Args[0]), rtabi.LLVMTypeFloat)

	case ssa.OpStaticCall:
		g.lowerStaticCall(v)

	case ssa.OpPhi:
		g.lowerPhi(v)

	default:
		g.e.emitInst("; unhandled op %s", v.Op)
	}
}

// lowerTerminator emits the branch or return that ends b.
func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		if len(b.Succs) > 0 {
			g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
		} else {
			g.e.emitInst("unreachable")
		}
	case ssa.BlockIf:
		cond := g.operand(b.Controls[0])
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			cond, blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		ret := b.Controls[0]
		g.e.emitInst("ret %s %s", llvmType(ret.Type), g.operand(ret))
	default:
		g.e.emitInst("; unterminated block")
		g.e.emitInst("unreachable")
	}
}

// operand returns the LLVM IR operand string for an SSA value.
// Constants are inlined, others use their name.
func (g *generator) operand(v *ssa.Value) string {
	if v == nil {
		return "undef"
	}
	if v.Op == ssa.OpConstFloat {
		return formatFloat(v.AuxFloat)
	}
	return valueName(v)
}

func (g *generator) emitBinOp(inst string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s %s, %s", valueName(v), inst, rtabi.LLVMTypeFloat,
		g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) emitFCmp(cond string, v *ssa.Value) {
	g.e.emitInst("%s = fcmp %s %s %s, %s", valueName(v), cond, rtabi.LLVMTypeFloat,
		g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// lowerPhi emits a phi node.
func (g *generator) lowerPhi(v *ssa.Value) {
	parts := make([]string, len(v.Args))
	for i, arg := range v.Args {
		pred := v.Block.Preds[i]
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), blockName(pred))
	}
	g.e.emitInst("%s = phi %s %s", valueName(v), llvmType(v.Type), strings.Join(parts, ", "))
}

// lowerStaticCall emits a direct call to the function named by v.Aux.
func (g *generator) lowerStaticCall(v *ssa.Value) {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = rtabi.LLVMTypeFloat + " " + g.operand(a)
	}
	g.e.emitInst("%s = call %s @%s(%s)", valueName(v), rtabi.LLVMTypeFloat, v.Aux, strings.Join(args, ", "))
}

// formatFloat formats a float64 as an LLVM IR floating-point literal.
// Values that print exactly in decimal use the decimal form; everything
// else uses LLVM's 64-bit hex form.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "0x7FF0000000000000"
	}
	if math.IsInf(f, -1) {
		return "0xFFF0000000000000"
	}
	if math.IsNaN(f) {
		return "0x7FF8000000000000"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%.6e", f)
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
