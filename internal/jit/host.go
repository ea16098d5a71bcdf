package jit

import (
	"fmt"
	"math"

	"github.com/you-not-fish/kaleido/internal/rtabi"
)

// hostFunc is a function implemented by the engine itself.
type hostFunc struct {
	sig rtabi.FuncSignature
	fn  func(e *Engine, args []float64) float64
}

func (h *hostFunc) name() string { return h.sig.Name }
func (h *hostFunc) arity() int   { return h.sig.NParams }

func (h *hostFunc) call(m *machine, args []float64) float64 {
	return h.fn(m.e, args)
}

func unary(f func(float64) float64) func(*Engine, []float64) float64 {
	return func(_ *Engine, args []float64) float64 { return f(args[0]) }
}

var hostImpls = map[string]func(*Engine, []float64) float64{
	rtabi.FnSin:   unary(math.Sin),
	rtabi.FnCos:   unary(math.Cos),
	rtabi.FnTan:   unary(math.Tan),
	rtabi.FnAtan:  unary(math.Atan),
	rtabi.FnExp:   unary(math.Exp),
	rtabi.FnLog:   unary(math.Log),
	rtabi.FnSqrt:  unary(math.Sqrt),
	rtabi.FnFabs:  unary(math.Abs),
	rtabi.FnFloor: unary(math.Floor),
	rtabi.FnCeil:  unary(math.Ceil),
	rtabi.FnPow: func(_ *Engine, args []float64) float64 {
		return math.Pow(args[0], args[1])
	},

	rtabi.FnPutchard: func(e *Engine, args []float64) float64 {
		e.write([]byte{byte(int(args[0]))})
		return 0
	},
	rtabi.FnPrintd: func(e *Engine, args []float64) float64 {
		e.write([]byte(fmt.Sprintf("%f\n", args[0])))
		return 0
	},
}

// hostSymbols builds the host symbol table from the ABI signatures.
func hostSymbols() map[string]*hostFunc {
	syms := make(map[string]*hostFunc)
	for _, sig := range rtabi.HostFunctions() {
		impl, ok := hostImpls[sig.Name]
		if !ok {
			panic(fmt.Sprintf("jit: no implementation for host function %s", sig.Name))
		}
		syms[sig.Name] = &hostFunc{sig: sig, fn: impl}
	}
	return syms
}
