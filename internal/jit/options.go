package jit

import "io"

// Option configures an Engine.
type Option interface{ apply(e *Engine) }

// WithOutput sets where putchard and printd write. The default discards.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithLogf sets a trace logging function, e.g. log.Printf.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithMaxDepth bounds nested calls; exceeding it is a "stack overflow"
// RuntimeError.
func WithMaxDepth(n int) Option { return maxDepthOption(n) }

type outputOption struct{ io.Writer }
type withLogfn func(mess string, args ...interface{})
type maxDepthOption int

func (o outputOption) apply(e *Engine)   { e.out = o.Writer }
func (logfn withLogfn) apply(e *Engine)  { e.logfn = logfn }
func (n maxDepthOption) apply(e *Engine) { e.maxDepth = int(n) }

func (e *Engine) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(e)
		}
	}
}
