package ssa

import "fmt"

// Eval computes a pure arithmetic or comparison op over float operands.
// Comparisons return 1 for true and 0 for false.
func (o Op) Eval(x, y float64) float64 {
	switch o {
	case OpAddF64:
		return x + y
	case OpSubF64:
		return x - y
	case OpMulF64:
		return x * y
	case OpLtF64U:
		// Unordered: true when either side is NaN.
		return b2f(!(x >= y))
	case OpNeqF64:
		// Ordered: false when either side is NaN.
		return b2f(x < y || x > y)
	}
	panic(fmt.Sprintf("ssa.Op.Eval: %s is not a binary op", o))
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
