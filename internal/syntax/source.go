package syntax

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Pos represents a position in the input stream.
// The zero value is an invalid position.
type Pos struct {
	filename string
	line     uint32 // 1-based
	col      uint32 // 1-based, in runes
}

// NewPos creates a new Pos with the given filename, line, and column.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String returns "filename:line:col", or "line:col" if filename is empty.
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid.
func (p Pos) IsValid() bool { return p.line > 0 }

// Line returns the 1-based line number.
func (p Pos) Line() uint32 { return p.line }

// Col returns the 1-based column number.
func (p Pos) Col() uint32 { return p.col }

// Filename returns the input name.
func (p Pos) Filename() string { return p.filename }

// source is a forward-only character reader with position tracking.
//
// Unlike a file compiler, an interactive front-end cannot read its whole
// input up front: every rune is pulled from the reader only when the scanner
// needs it, so a prompt is never shown before the previous construct has run.
type source struct {
	r        *bufio.Reader
	filename string
	line     uint32
	col      uint32

	ch rune // current character, -1 at EOF

	// readErr is the first non-EOF error returned by the underlying reader.
	readErr error
}

// newSource creates a source and primes it with the first character.
func newSource(filename string, r io.Reader) *source {
	s := &source{
		r:        bufio.NewReader(r),
		filename: filename,
		line:     1,
		col:      0,
		ch:       -1,
	}
	s.nextch()
	return s
}

// nextch advances to the next character.
//
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.readErr != nil {
		s.ch = -1
		return
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.readErr = err
		}
		s.ch = -1
		return
	}
	if r == utf8.RuneError {
		// Invalid encodings surface as a single-character token.
		s.ch = utf8.RuneError
		return
	}
	s.ch = r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// isLetter reports whether r is an ASCII letter.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isDigit reports whether r is a decimal digit.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
