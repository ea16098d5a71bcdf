// Package backend implements the code generator's and the session's
// backend interfaces on top of the in-memory SSA form. Each unit is an
// ssa.Module; finished functions go through the pass pipeline; loading
// hands the module to a jit.Engine.
package backend

import (
	"fmt"
	"io"

	"github.com/you-not-fish/kaleido/internal/jit"
	"github.com/you-not-fish/kaleido/internal/session"
	"github.com/you-not-fish/kaleido/internal/ssa/passes"
)

// Backend opens units and runs them on one engine.
type Backend struct {
	engine *jit.Engine
	units  int

	pipeline []passes.Pass
	cfg      passes.Config
	jitOpts  []jit.Option
	logfn    func(mess string, args ...interface{})
}

var _ session.Backend = (*Backend)(nil)

// New returns a Backend with a fresh engine.
func New(opts ...Option) *Backend {
	b := &Backend{
		pipeline: passes.Default(),
		cfg:      passes.Config{Verify: true, VerifyDom: true},
	}
	b.apply(opts...)
	b.engine = jit.New(append(b.jitOpts, jit.WithLogf(b.logfn))...)
	return b
}

func (b *Backend) logf(mess string, args ...interface{}) {
	if b.logfn != nil {
		b.logfn(mess, args...)
	}
}

// Engine returns the execution engine.
func (b *Backend) Engine() *jit.Engine { return b.engine }

// NewUnit opens an empty unit named "unitN".
func (b *Backend) NewUnit() session.Unit {
	b.units++
	return newUnit(fmt.Sprintf("unit%d", b.units), b)
}

// Load links u into the engine.
func (b *Backend) Load(u session.Unit) (session.Tracker, error) {
	unit, ok := u.(*Unit)
	if !ok {
		return nil, fmt.Errorf("backend: cannot load foreign unit %T", u)
	}
	t, err := b.engine.Load(unit.mod)
	if err != nil {
		return nil, err
	}
	return tracker{t}, nil
}

type tracker struct{ *jit.Tracker }

func (t tracker) Lookup(symbol string) (session.Entry, error) {
	e, err := t.Tracker.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Option configures a Backend.
type Option interface{ apply(b *Backend) }

// WithOutput sets where putchard and printd write.
func WithOutput(w io.Writer) Option { return jitOption{jit.WithOutput(w)} }

// WithMaxDepth bounds nested calls at run time.
func WithMaxDepth(n int) Option { return jitOption{jit.WithMaxDepth(n)} }

// WithPassConfig replaces the pass pipeline configuration, e.g. to dump
// SSA before or after a pass.
func WithPassConfig(cfg passes.Config) Option { return passConfigOption(cfg) }

// WithLogf sets a trace logging function, e.g. log.Printf.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type jitOption struct{ jit.Option }
type passConfigOption passes.Config
type withLogfn func(mess string, args ...interface{})

func (o jitOption) apply(b *Backend)          { b.jitOpts = append(b.jitOpts, o.Option) }
func (cfg passConfigOption) apply(b *Backend) { b.cfg = passes.Config(cfg) }
func (logfn withLogfn) apply(b *Backend)      { b.logfn = logfn }

func (b *Backend) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(b)
		}
	}
}
