package ssa

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func name(x, y) double:
//	  b0: (entry)
//	    v0 = Arg <double> [0] {x}
//	    v2 = ConstFloat <double> [42]
//	    v3 = AddF64 <double> v0 v2
//	    Return v3
//
// A declaration prints as its header alone, ending in "; declaration".
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s(%s) %s", f.Name, strings.Join(paramNames(f), ", "), TypeFloat)
	if f.IsDeclaration() {
		fmt.Fprintf(w, "; declaration\n")
		return
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// paramNames returns f's parameter names, with placeholders for unnamed ones.
func paramNames(f *Func) []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p == "" {
			p = fmt.Sprintf("p%d", i)
		}
		names[i] = p
	}
	return names
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	switch {
	case b == f.Entry:
		label = " (entry)"
	case b.Name != "":
		label = " (" + b.Name + ")"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type)

	switch v.Op {
	case OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	}

	if v.Aux != "" {
		fmt.Fprintf(&sb, " {%s}", v.Aux)
	}

	for _, arg := range v.Args {
		if arg == nil {
			sb.WriteString(" nil")
			continue
		}
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && b.Controls[0] != nil && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "???"
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}
