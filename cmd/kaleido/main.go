// Command kaleido is the interactive Kaleidoscope compiler. It reads
// definitions, externs and expressions from standard input and evaluates
// each expression as soon as it has been read.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/kaleido/internal/backend"
	"github.com/you-not-fish/kaleido/internal/session"
)

// Version is printed in the startup banner.
const Version = "0.1"

const prompt = "ready> "

func main() {
	if isTerminal(os.Stdin) && liner.TerminalSupported() {
		os.Exit(runInteractive())
	}
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

// run compiles and evaluates everything read from in. It returns the
// process exit code: 0 at end of input, 1 after a fatal input error.
func run(in io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "Kaleidoscope compiler version: %s\n", Version)

	be := backend.New(backend.WithOutput(stdout))
	s := session.New(be,
		session.WithInput(in),
		session.WithOutput(stdout),
		session.WithDiagnostics(stderr),
	)
	if err := s.Run(); err != nil {
		// The session has already reported it.
		return 1
	}
	return 0
}

func runInteractive() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	return run(&promptReader{ln: ln, prompt: prompt}, os.Stdout, os.Stderr)
}

// promptReader reads input one edited line at a time. A prompt is shown
// only when the scanner needs more input.
type promptReader struct {
	ln     *liner.State
	prompt string
	buf    []byte
}

func (r *promptReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		line, err := r.ln.Prompt(r.prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(line) != "" {
			r.ln.AppendHistory(line)
		}
		r.buf = append(r.buf, line...)
		r.buf = append(r.buf, '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
