package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// Pass describes a single SSA optimization pass.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	DumpFunc   string    // restrict dumps to this function name
	DumpTo     io.Writer // destination for dumps, os.Stderr if nil
	Verify     bool      // verify SSA before/after each pass
	VerifyDom  bool      // also check dominance when verifying
}

// Default returns the standard pipeline: constant folding, then dead code
// elimination of whatever folding left unused.
func Default() []Pass {
	return []Pass{
		{Name: "fold", Fn: Fold},
		{Name: "dce", Fn: DCE},
	}
}

// Run executes the given passes on f in order.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	w := cfg.DumpTo
	if w == nil {
		w = os.Stderr
	}

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}

		if cfg.Verify {
			if err := verify(f, cfg); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := verify(f, cfg); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}
	}
	return nil
}

func verify(f *ssa.Func, cfg Config) error {
	if !cfg.VerifyDom {
		return ssa.Verify(f)
	}
	return ssa.VerifyDom(f)
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
