package e2e

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/kaleido/internal/backend"
	"github.com/you-not-fish/kaleido/internal/session"
)

// TestE2E runs every .k file in testdata/ through a fresh session.
// Each test:
//  1. Runs the full pipeline in-process: parse → irgen → passes → jit
//  2. Collects the evaluation results, the diagnostics and the program output
//  3. Compares them against the .golden file
//
// The IR listings are covered by the package tests and left out here.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.k")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .k test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".k")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

func runE2ETest(t *testing.T, kFile string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(kFile, ".k") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	got := transcript(t, kFile)
	want := string(expected)
	if got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// transcript runs kFile and renders the observable results in the golden
// file layout.
func transcript(t *testing.T, kFile string) string {
	t.Helper()

	f, err := os.Open(kFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var listing, diag, program bytes.Buffer
	be := backend.New(backend.WithOutput(&program))
	s := session.New(be,
		session.WithInput(f),
		session.WithOutput(&listing),
		session.WithDiagnostics(&diag),
	)
	runErr := s.Run()

	var b strings.Builder
	b.WriteString("-- results --\n")
	for _, line := range strings.SplitAfter(listing.String(), "\n") {
		if strings.HasPrefix(line, "Evaluated to ") {
			b.WriteString(line)
		}
	}
	b.WriteString("-- errors --\n")
	b.WriteString(diag.String())
	b.WriteString("-- output --\n")
	b.WriteString(program.String())
	if runErr != nil {
		b.WriteString("-- fatal --\n")
	}
	return b.String()
}
