// Package codegen renders SSA functions as LLVM IR text. The text is what
// the session shows when it acknowledges a definition, an extern, or a top
// level expression.
package codegen

import (
	"io"
	"strings"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// generator holds the state for rendering one or more functions.
type generator struct {
	e *emitter
}

// Fprint writes fn as an LLVM "define", or a "declare" if it has no body.
func Fprint(w io.Writer, fn *ssa.Func) error {
	g := &generator{e: &emitter{w: w}}
	g.lowerFunc(fn)
	return g.e.err
}

// Sprint returns Fprint's output as a string.
func Sprint(fn *ssa.Func) string {
	var sb strings.Builder
	_ = Fprint(&sb, fn) // strings.Builder does not fail
	return sb.String()
}

// FprintModule writes every function of m, declarations included, in
// module order.
func FprintModule(w io.Writer, m *ssa.Module) error {
	g := &generator{e: &emitter{w: w}}
	g.e.emitComment("ModuleID = '" + m.Name + "'")
	for _, fn := range m.Funcs {
		g.e.emitLine()
		g.lowerFunc(fn)
	}
	return g.e.err
}
