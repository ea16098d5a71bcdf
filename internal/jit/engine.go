// Package jit executes SSA units in process.
//
// An Engine keeps a table of loaded units and a persistent symbol table of
// every named definition it has ever loaded. Removing a unit drops its
// anonymous entry but leaves its named definitions callable from units
// loaded later, the way a JIT keeps emitted code alive after the module
// that produced it has been released.
package jit

import (
	"fmt"
	"io"
	"sort"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// Engine links and runs units. It is not safe for concurrent use.
type Engine struct {
	symbols map[string]*function
	host    map[string]*hostFunc
	loaded  map[*Tracker]struct{}

	out      io.Writer
	maxDepth int
	logfn    func(mess string, args ...interface{})
}

// New returns an Engine with only the host symbols defined.
func New(opts ...Option) *Engine {
	e := &Engine{
		symbols:  make(map[string]*function),
		host:     hostSymbols(),
		loaded:   make(map[*Tracker]struct{}),
		out:      io.Discard,
		maxDepth: rtabi.MaxCallDepth,
	}
	e.apply(opts...)
	return e
}

func (e *Engine) logf(mess string, args ...interface{}) {
	if e.logfn != nil {
		e.logfn(mess, args...)
	}
}

func (e *Engine) write(p []byte) {
	if _, err := e.out.Write(p); err != nil {
		e.logf("jit: output: %v", err)
	}
}

// callable is anything a linked call can target.
type callable interface {
	name() string
	arity() int
	call(m *machine, args []float64) float64
}

// function is a loaded definition with its calls bound.
type function struct {
	fn      *ssa.Func
	callees map[string]callable
}

func (f *function) name() string { return f.fn.Name }
func (f *function) arity() int   { return f.fn.NumParams() }

// Load verifies m, binds every call in its definitions, and adds it to the
// loaded-unit table. Calls bind to a definition in m first, then to a named
// definition from an earlier load, then to a host function. Nothing is
// registered if any call fails to bind.
func (e *Engine) Load(m *ssa.Module) (*Tracker, error) {
	if err := ssa.VerifyModule(m); err != nil {
		return nil, fmt.Errorf("load %s: %w", m.Name, err)
	}

	defs := m.Definitions()
	local := make(map[string]*function, len(defs))
	for _, f := range defs {
		if _, dup := e.symbols[f.Name]; dup {
			return nil, &LinkError{Unit: m.Name, Func: f.Name, Symbol: f.Name, Msg: "duplicate symbol"}
		}
		local[f.Name] = &function{fn: f, callees: make(map[string]callable)}
	}

	for _, f := range defs {
		lf := local[f.Name]
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != ssa.OpStaticCall {
					continue
				}
				if _, done := lf.callees[v.Aux]; done {
					continue
				}
				target := e.resolve(local, v.Aux)
				if target == nil {
					return nil, &LinkError{Unit: m.Name, Func: f.Name, Symbol: v.Aux, Msg: "unresolved symbol"}
				}
				if target.arity() != len(v.Args) {
					return nil, &LinkError{
						Unit:   m.Name,
						Func:   f.Name,
						Symbol: v.Aux,
						Msg:    fmt.Sprintf("%d arguments passed to %d-parameter", len(v.Args), target.arity()),
					}
				}
				lf.callees[v.Aux] = target
			}
		}
	}

	for name, lf := range local {
		if name != rtabi.AnonFunc {
			e.symbols[name] = lf
		}
	}
	t := &Tracker{e: e, unit: m.Name, funcs: local}
	e.loaded[t] = struct{}{}
	e.logf("jit: loaded %s (%d definitions)", m.Name, len(local))
	return t, nil
}

func (e *Engine) resolve(local map[string]*function, name string) callable {
	if f, ok := local[name]; ok {
		return f
	}
	if f, ok := e.symbols[name]; ok {
		return f
	}
	if h, ok := e.host[name]; ok {
		return h
	}
	return nil
}

// Symbols returns the names of all persistent definitions, sorted.
func (e *Engine) Symbols() []string {
	names := make([]string, 0, len(e.symbols))
	for name := range e.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loaded returns the number of units currently loaded.
func (e *Engine) Loaded() int { return len(e.loaded) }

// Tracker is the handle for one loaded unit.
type Tracker struct {
	e       *Engine
	unit    string
	funcs   map[string]*function
	removed bool
}

// Unit returns the name of the loaded module.
func (t *Tracker) Unit() string { return t.unit }

// Lookup returns the entry point for a definition in the tracked unit.
func (t *Tracker) Lookup(symbol string) (Entry, error) {
	if t.removed {
		return Entry{}, fmt.Errorf("lookup %s in %s: %w", symbol, t.unit, ErrUnloaded)
	}
	f, ok := t.funcs[symbol]
	if !ok {
		return Entry{}, fmt.Errorf("symbol %s not found in %s", symbol, t.unit)
	}
	return Entry{e: t.e, f: f}, nil
}

// Remove unloads the unit. Named definitions stay in the persistent symbol
// table. Removing twice is a no-op.
func (t *Tracker) Remove() {
	if t.removed {
		return
	}
	t.removed = true
	delete(t.e.loaded, t)
	t.funcs = nil
	t.e.logf("jit: removed %s", t.unit)
}

// Entry is a callable definition.
type Entry struct {
	e *Engine
	f *function
}

// Name returns the symbol name.
func (en Entry) Name() string { return en.f.name() }

// Call runs the definition with args and returns its result.
func (en Entry) Call(args ...float64) (float64, error) {
	if en.f == nil {
		return 0, fmt.Errorf("call of zero Entry")
	}
	if len(args) != en.f.arity() {
		return 0, fmt.Errorf("%s: got %d arguments, want %d", en.f.name(), len(args), en.f.arity())
	}
	m := &machine{e: en.e}
	return recoverHalt(func() float64 {
		return en.f.call(m, args)
	})
}
