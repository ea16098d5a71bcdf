package session_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/kaleido/internal/backend"
	"github.com/you-not-fish/kaleido/internal/session"
	"github.com/you-not-fish/kaleido/internal/syntax"
)

type result struct {
	out, diag string
	err       error
}

func run(src string, opts ...session.Option) result {
	var out, diag bytes.Buffer
	be := backend.New(backend.WithOutput(&out))
	opts = append([]session.Option{
		session.WithInput(strings.NewReader(src)),
		session.WithOutput(&out),
		session.WithDiagnostics(&diag),
	}, opts...)
	err := session.New(be, opts...).Run()
	return result{out: out.String(), diag: diag.String(), err: err}
}

// lines returns the lines of s that start with prefix.
func lines(s, prefix string) []string {
	var found []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, prefix) {
			found = append(found, line)
		}
	}
	return found
}

func evaluated(r result) []string { return lines(r.out, "Evaluated to ") }
func diagnostics(r result) []string { return lines(r.diag, "Error: ") }

func TestTranscript(t *testing.T) {
	r := run("extern sin(x)\ndef f(x) x + 1\nf(2)\n")
	require.NoError(t, r.err)
	assert.Empty(t, r.diag)
	assert.Equal(t, `Read extern:
declare double @sin(double)

Read function definition:
define double @f(double %x) {
entry:
  %v2 = fadd double %x, 1.000000e+00
  ret double %v2
}

Read top-level expression:
define double @__anon_expr() {
entry:
  %v1 = call double @f(double 2.000000e+00)
  ret double %v1
}

Evaluated to 3.000000
`, r.out)
}

func TestProperties(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string // evaluated values, in order
		errs []string // diagnostics, in order
	}{
		{
			name: "left associativity",
			src:  "1-2-3",
			want: []string{"-4.000000"},
		},
		{
			name: "precedence",
			src:  "1+2*3",
			want: []string{"7.000000"},
		},
		{
			name: "redefinition",
			src:  "def f(x) x\ndef f(x) x\nf(3)",
			want: []string{"3.000000"},
			errs: []string{"2:5: function f cannot be redefined"},
		},
		{
			name: "extern then definition",
			src:  "extern f(x)\ndef f(x) x * 2\nf(4)",
			want: []string{"8.000000"},
		},
		{
			name: "loop variable shadowing",
			src:  "def g(i) (for i = 1, i < 3 in i) + i\ng(10)\ndef h(i) i\nh(5)",
			want: []string{"10.000000", "5.000000"},
		},
		{
			name: "conditional",
			src:  "if 1 then 5 else 6\nif 0 then 5 else 6",
			want: []string{"5.000000", "6.000000"},
		},
		{
			name: "unknown function recovers",
			src:  "foo(1)\n2",
			want: []string{"2.000000"},
			errs: []string{"1:1: unknown function referenced: foo"},
		},
		{
			name: "arity mismatch",
			src:  "def two(a b) a + b\ntwo(1)\ntwo(1, 2, 3)\ntwo(1, 2)",
			want: []string{"3.000000"},
			errs: []string{
				"2:1: incorrect number of arguments passed to two: got 1, want 2",
				"3:1: incorrect number of arguments passed to two: got 3, want 2",
			},
		},
		{
			name: "extern replaces an unused declaration",
			src:  "extern e(a b)\nextern e(a)\ndef e(x) x + 1\ne(1)",
			want: []string{"2.000000"},
		},
		{
			name: "extern replaces a declaration across units",
			src:  "extern e(a b)\n1\nextern e(a)\ndef e(x) x + 1\ne(1)",
			want: []string{"1.000000", "2.000000"},
		},
		{
			name: "called declaration keeps its arity",
			src:  "extern e(a)\ndef g(x) e(x)\nextern e(a b)\ndef e(x) x\ng(3)",
			want: []string{"3.000000"},
			errs: []string{"3:8: function e redeclared with 2 parameters, previously 1"},
		},
		{
			name: "definition withdrawn after a failed load",
			src:  "extern q(x)\ndef a(x) q(x)\na(1)\ndef a(x) x\na(2)",
			want: []string{"2.000000"},
			errs: []string{"unit1: in a: unresolved symbol q"},
		},
		{
			name: "calls into earlier units",
			src:  "def sq(x) x * x\nsq(3)\nsq(4)\ndef quad(x) sq(sq(x))\nquad(2)",
			want: []string{"9.000000", "16.000000", "16.000000"},
		},
		{
			name: "semicolons separate constructs",
			src:  "def one() 1; one(); one() + one();",
			want: []string{"1.000000", "2.000000"},
		},
		{
			name: "comments",
			src:  "# nothing here\n4 # trailing\n",
			want: []string{"4.000000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(tt.src)
			require.NoError(t, r.err)

			var want []string
			for _, v := range tt.want {
				want = append(want, "Evaluated to "+v)
			}
			assert.Equal(t, want, evaluated(r))

			var errs []string
			for _, e := range tt.errs {
				errs = append(errs, "Error: "+e)
			}
			assert.Equal(t, errs, diagnostics(r))
		})
	}
}

func TestParseErrorSkipsOneToken(t *testing.T) {
	r := run("(1 + ;\n2\n")
	require.NoError(t, r.err)
	assert.Equal(t, []string{"Error: 1:6: unknown token when expecting an expression"}, diagnostics(r))
	assert.Equal(t, []string{"Evaluated to 2.000000"}, evaluated(r))
	assert.NotContains(t, r.out, "Read function definition:")
}

func TestLexErrorIsFatal(t *testing.T) {
	r := run("2\n1 + 1.2.3\n4\n")
	var lerr *syntax.LexError
	require.True(t, errors.As(r.err, &lerr), "got %v", r.err)
	assert.Equal(t, "1.2.3", lerr.Lit)
	assert.Equal(t, []string{`Error: 2:5: invalid number "1.2.3"`}, diagnostics(r))
	assert.Equal(t, []string{"Evaluated to 2.000000"}, evaluated(r), "nothing after the bad literal runs")
}

func TestEngineFailureResetsUnit(t *testing.T) {
	r := run("extern nothing()\ndef f() 7\nnothing()\nf()\ndef f() 8\nf()\n1\n")
	require.NoError(t, r.err)
	// f was in the discarded unit: it cannot be linked until it is
	// defined again.
	assert.Equal(t, []string{
		"Error: unit1: in __anon_expr: unresolved symbol nothing",
		"Error: unit2: in __anon_expr: unresolved symbol f",
	}, diagnostics(r))
	assert.Equal(t, []string{"Evaluated to 8.000000", "Evaluated to 1.000000"}, evaluated(r))
}

func TestRuntimeError(t *testing.T) {
	r := run("def loop(x) loop(x)\nloop(1)\n2\n")
	require.NoError(t, r.err)
	assert.Equal(t, []string{"Error: loop: stack overflow"}, diagnostics(r))
	assert.Equal(t, []string{"Evaluated to 2.000000"}, evaluated(r))
}

func TestHostOutput(t *testing.T) {
	r := run("extern putchard(c)\nextern printd(x)\nputchard(72) + printd(2.5)\n")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "}\n\nH2.500000\nEvaluated to 0.000000\n")
}

func TestPrecedenceOption(t *testing.T) {
	r := run("1 + 2 < 4")
	assert.Equal(t, []string{"Evaluated to 1.000000"}, evaluated(r))

	r = run("1 + 2 < 4", session.WithPrecedence('<', 50))
	assert.Equal(t, []string{"Evaluated to 2.000000"}, evaluated(r))
}

func TestFilenameInDiagnostics(t *testing.T) {
	r := run("x", session.WithFilename("input.k"))
	assert.Equal(t, []string{"Error: input.k:1:1: unknown variable name x"}, diagnostics(r))
}

func TestStateTrace(t *testing.T) {
	var trace []string
	logf := func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	}
	var out bytes.Buffer
	s := session.New(backend.New(),
		session.WithInput(strings.NewReader("1\n)\n")),
		session.WithOutput(&out),
		session.WithLogf(logf),
	)
	assert.Equal(t, session.Idle, s.State())
	require.NoError(t, s.Run())
	assert.Equal(t, session.Idle, s.State())

	var transitions []string
	for _, line := range trace {
		if strings.HasPrefix(line, "session: ") && strings.Contains(line, " -> ") {
			transitions = append(transitions, strings.TrimPrefix(line, "session: "))
		}
	}
	assert.Equal(t, []string{
		"idle -> reading",
		"reading -> parsed",
		"parsed -> generated",
		"generated -> idle",
		"idle -> reading",
		"reading -> parse-failed",
		"parse-failed -> idle",
		"idle -> reading",
		"reading -> idle",
	}, transitions)
	assert.Contains(t, trace, "session: opened unit1")
	assert.Contains(t, trace, "session: opened unit2")
	assert.Contains(t, trace, "irgen: define __anon_expr")
}

func TestRegistryPersists(t *testing.T) {
	s := session.New(backend.New(),
		session.WithInput(strings.NewReader("extern sin(x)\ndef f(a b) a\n1\n")))
	require.NoError(t, s.Run())
	assert.Equal(t, []string{"f", "sin"}, s.Registry().Names())
	assert.True(t, s.Registry().Defined("f"))
}

func TestConcurrentSessions(t *testing.T) {
	const fib = "def fib(n) if n < 3 then 1 else fib(n - 1) + fib(n - 2)\n"
	want := []float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}

	results := make([]result, len(want))
	var g errgroup.Group
	for i := range want {
		g.Go(func() error {
			results[i] = run(fmt.Sprintf("%sfib(%d)\n", fib, i+1))
			return results[i].err
		})
	}
	require.NoError(t, g.Wait())

	for i, r := range results {
		assert.Equal(t, []string{fmt.Sprintf("Evaluated to %f", want[i])}, evaluated(r), "fib(%d)", i+1)
		assert.Empty(t, r.diag)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "gen-failed", session.GenFailed.String())
	assert.Equal(t, "unknown", session.State(42).String())
}
