package ssa

import (
	"fmt"
	"io"
	"strings"
)

// Module is a compilation unit: an ordered set of uniquely named functions,
// some defined and some only declared.
type Module struct {
	Name  string
	Funcs []*Func

	byName map[string]*Func
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name, byName: make(map[string]*Func)}
}

// Func returns the function called name, or nil.
func (m *Module) Func(name string) *Func {
	return m.byName[name]
}

// Declare adds a declaration of name with nparams parameters. It panics if
// name is already present.
func (m *Module) Declare(name string, nparams int) *Func {
	if _, dup := m.byName[name]; dup {
		panic(fmt.Sprintf("ssa.Module.Declare: %s already in module %s", name, m.Name))
	}
	f := NewFunc(name, nparams)
	f.Module = m
	m.Funcs = append(m.Funcs, f)
	m.byName[name] = f
	return f
}

// Remove deletes f from the module.
func (m *Module) Remove(f *Func) {
	if m.byName[f.Name] != f {
		return
	}
	delete(m.byName, f.Name)
	for i, x := range m.Funcs {
		if x == f {
			m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
			break
		}
	}
	f.Module = nil
}

// Referenced reports whether any other function in m calls f.
func (m *Module) Referenced(f *Func) bool {
	for _, g := range m.Funcs {
		if g != f && g.Calls(f.Name) {
			return true
		}
	}
	return false
}

// Definitions returns the functions of m that have bodies, in order.
func (m *Module) Definitions() []*Func {
	var defs []*Func
	for _, f := range m.Funcs {
		if !f.IsDeclaration() {
			defs = append(defs, f)
		}
	}
	return defs
}

// FprintModule writes every function of m to w.
func FprintModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s\n", m.Name)
	for _, f := range m.Funcs {
		Fprint(w, f)
	}
}

// SprintModule returns FprintModule's output as a string.
func SprintModule(m *Module) string {
	var sb strings.Builder
	FprintModule(&sb, m)
	return sb.String()
}
