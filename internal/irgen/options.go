package irgen

// Option configures a Generator.
type Option interface{ apply(g *Generator) }

// WithLogf sets a trace logging function, e.g. log.Printf.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(g *Generator) {
	g.logfn = logfn
}

func (g *Generator) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(g)
		}
	}
}
