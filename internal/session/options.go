package session

import (
	"io"
	"strings"
)

// Option configures a Session.
type Option interface{ apply(s *Session) }

var defaults = []Option{
	withInput(strings.NewReader("")),
	withOutput(io.Discard),
	withDiagnostics(io.Discard),
}

func (s *Session) apply(opts ...Option) {
	for _, opt := range defaults {
		opt.apply(s)
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(s)
		}
	}
}

// WithInput sets the source text. It is read incrementally.
func WithInput(r io.Reader) Option { return withInput(r) }

// WithOutput sets where acknowledgements and results go.
func WithOutput(w io.Writer) Option { return withOutput(w) }

// WithDiagnostics sets where "Error: ..." lines go.
func WithDiagnostics(w io.Writer) Option { return withDiagnostics(w) }

// WithFilename names the input in positions. Unnamed input reports bare
// line:col positions.
func WithFilename(name string) Option { return withFilename(name) }

// WithLogf sets a trace logging function, e.g. log.Printf. It is passed on
// to the code generator.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithPrecedence installs or changes a binary operator precedence before
// the first input is parsed. The code generator still only implements
// + - * and <.
func WithPrecedence(op rune, prec int) Option { return precedenceOption{op, prec} }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type diagnosticsOption struct{ io.Writer }
type filenameOption string
type withLogfn func(mess string, args ...interface{})
type precedenceOption struct {
	op   rune
	prec int
}

func withInput(r io.Reader) inputOption             { return inputOption{r} }
func withOutput(w io.Writer) outputOption           { return outputOption{w} }
func withDiagnostics(w io.Writer) diagnosticsOption { return diagnosticsOption{w} }
func withFilename(name string) filenameOption       { return filenameOption(name) }

func (i inputOption) apply(s *Session)       { s.in = i.Reader }
func (o outputOption) apply(s *Session)      { s.out = o.Writer }
func (o diagnosticsOption) apply(s *Session) { s.diag = o.Writer }
func (name filenameOption) apply(s *Session) { s.filename = string(name) }
func (logfn withLogfn) apply(s *Session)     { s.logfn = logfn }
func (p precedenceOption) apply(s *Session) {
	s.prec = append(s.prec, p)
}
