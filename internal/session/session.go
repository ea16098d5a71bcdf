// Package session runs the interactive read, parse, generate, execute loop.
//
// Definitions and externs accumulate in the open unit. A bare expression is
// generated into the same unit, the unit is handed to the execution engine,
// the anonymous entry runs, and a fresh unit is opened. Calls into earlier
// units go through the prototype registry, which outlives every unit.
package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/you-not-fish/kaleido/internal/irgen"
	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Session holds everything one interactive run owns. Sessions share no
// state, so independent sessions may run concurrently.
type Session struct {
	backend Backend
	parser  *syntax.Parser
	reg     *irgen.Registry
	unit    Unit
	gen     *irgen.Generator
	state   State
	defs    []string // named definitions generated into unit

	in       io.Reader
	out      io.Writer
	diag     io.Writer
	filename string
	prec     []precedenceOption
	logfn    func(mess string, args ...interface{})
}

// New returns a Session that generates into units opened by backend.
func New(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		reg:     irgen.NewRegistry(),
	}
	s.apply(opts...)
	s.parser = syntax.NewParser(s.filename, s.in)
	for _, p := range s.prec {
		s.parser.SetPrecedence(p.op, p.prec)
	}
	s.openUnit()
	return s
}

func (s *Session) logf(mess string, args ...interface{}) {
	if s.logfn != nil {
		s.logfn(mess, args...)
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Registry returns the session's prototype registry.
func (s *Session) Registry() *irgen.Registry { return s.reg }

func (s *Session) setState(st State) {
	s.logf("session: %v -> %v", s.state, st)
	s.state = st
}

// openUnit replaces the open unit, dropping whatever it held.
func (s *Session) openUnit() {
	s.unit = s.backend.NewUnit()
	s.defs = nil
	s.gen = irgen.New(s.unit, s.reg, irgen.WithLogf(s.logfn))
	s.logf("session: opened %s", s.unit.Name())
}

// Run processes top-level constructs until the input ends. It returns nil at
// end of input. A lexical or read error is fatal: it is reported and
// returned.
func (s *Session) Run() error {
	for {
		s.setState(Reading)
		decl, err := s.parser.ParseTopLevel()
		if err == io.EOF {
			s.setState(Idle)
			return nil
		}
		if err != nil {
			var serr *syntax.SyntaxError
			if !errors.As(err, &serr) {
				s.setState(Idle)
				s.diagnose(err)
				return err
			}
			s.setState(ParseFailed)
			s.diagnose(err)
			s.parser.Skip()
			s.setState(Idle)
			continue
		}

		s.setState(Parsed)
		if err := s.handle(decl); err != nil {
			s.setState(GenFailed)
			s.diagnose(err)
		} else {
			s.setState(Generated)
		}
		s.setState(Idle)
	}
}

func (s *Session) diagnose(err error) {
	fmt.Fprintf(s.diag, "Error: %v\n", err)
}

func (s *Session) handle(decl syntax.Decl) error {
	switch d := decl.(type) {
	case *syntax.ExternDecl:
		return s.handleExtern(d)
	case *syntax.FuncDecl:
		if d.IsAnonymous() {
			return s.handleTopLevelExpr(d)
		}
		return s.handleDefinition(d)
	}
	panic(fmt.Sprintf("session: unhandled %T", decl))
}

func (s *Session) handleDefinition(d *syntax.FuncDecl) error {
	fn, err := s.gen.GenFunc(d)
	if err != nil {
		return err
	}
	s.defs = append(s.defs, d.Proto.Name)
	return s.acknowledge("Read function definition:", fn)
}

func (s *Session) handleExtern(d *syntax.ExternDecl) error {
	fn, err := s.gen.GenPrototype(d.Proto)
	if err != nil {
		return err
	}
	s.reg.Store(d.Proto)
	return s.acknowledge("Read extern:", fn)
}

func (s *Session) handleTopLevelExpr(d *syntax.FuncDecl) error {
	fn, err := s.gen.GenFunc(d)
	if err != nil {
		return err
	}

	// From here the unit is spent whether or not it runs.
	unit := s.unit
	defer s.openUnit()
	loaded := false
	defer func() {
		if !loaded {
			s.withdraw()
		}
	}()

	if err := s.acknowledge("Read top-level expression:", fn); err != nil {
		return err
	}
	t, err := s.backend.Load(unit)
	if err != nil {
		return err
	}
	loaded = true
	defer t.Remove()

	entry, err := t.Lookup(rtabi.AnonFunc)
	if err != nil {
		return err
	}
	v, err := entry.Call()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Evaluated to %f\n", v)
	return nil
}

// withdraw lets the names defined in a unit that never loaded be defined
// again; none of their bodies can run.
func (s *Session) withdraw() {
	for _, name := range s.defs {
		s.logf("session: withdraw %s", name)
		s.reg.Undefine(name)
	}
}

func (s *Session) acknowledge(what string, fn irgen.Function) error {
	fmt.Fprintln(s.out, what)
	if err := s.unit.Fprint(s.out, fn); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.out)
	return err
}
