package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sanity-io/litter"
)

// Fprint writes an indented tree representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// Sprint returns the output of Fprint as a string.
func Sprint(node Node) string {
	var b strings.Builder
	Fprint(&b, node)
	return b.String()
}

// Dump returns a Go-syntax dump of node, positions omitted.
func Dump(node Node) string {
	return dumpConfig.Sdump(node)
}

var dumpConfig = litter.Options{
	HidePrivateFields: true,
	HomePackage:       "syntax",
}

// ExprString renders e on one line with every binary operation
// parenthesized, e.g. "((1 - 2) - 3)".
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *NumberLit:
		b.WriteString(formatNumber(e.Value))
	case *VarRef:
		b.WriteString(e.Name)
	case *BinaryExpr:
		b.WriteByte('(')
		writeExpr(b, e.X)
		b.WriteString(" " + string(e.Op) + " ")
		writeExpr(b, e.Y)
		b.WriteByte(')')
	case *CallExpr:
		b.WriteString(e.Callee)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *IfExpr:
		b.WriteString("if ")
		writeExpr(b, e.Cond)
		b.WriteString(" then ")
		writeExpr(b, e.Then)
		b.WriteString(" else ")
		writeExpr(b, e.Else)
	case *ForExpr:
		b.WriteString("for " + e.Var + " = ")
		writeExpr(b, e.Start)
		b.WriteString(", ")
		writeExpr(b, e.End)
		if e.Step != nil {
			b.WriteString(", ")
			writeExpr(b, e.Step)
		}
		b.WriteString(" in ")
		writeExpr(b, e.Body)
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled subtree one level deeper.
func (p *printer) child(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *NumberLit:
		p.printf("Number %s %s\n", n.pos, formatNumber(n.Value))

	case *VarRef:
		p.printf("Var %s %s\n", n.pos, n.Name)

	case *BinaryExpr:
		p.printf("Binary %s %q\n", n.pos, n.Op)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *CallExpr:
		p.printf("Call %s %s\n", n.pos, n.Callee)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	case *IfExpr:
		p.printf("If %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *ForExpr:
		p.printf("For %s %s\n", n.pos, n.Var)
		p.indent++
		p.child("Start", n.Start)
		p.child("End", n.End)
		if n.Step != nil {
			p.child("Step", n.Step)
		}
		p.child("Body", n.Body)
		p.indent--

	case *Prototype:
		p.printf("Prototype %s %s(%s)\n", n.pos, n.Name, strings.Join(n.Params, " "))

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.print(n.Proto)
		p.child("Body", n.Body)
		p.indent--

	case *ExternDecl:
		p.printf("ExternDecl %s\n", n.pos)
		p.indent++
		p.print(n.Proto)
		p.indent--

	default:
		p.printf("<unknown node %T>\n", n)
	}
}
