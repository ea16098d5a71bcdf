package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LexError is a malformed numeric literal. It is fatal: once reported, the
// scanner yields only EOF.
type LexError struct {
	Pos Pos
	Lit string
	Err error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: invalid number %q", e.Pos, e.Lit)
}

func (e *LexError) Unwrap() error { return e.Err }

// Scanner turns a character stream into tokens, one at a time.
// It keeps only the current token and its payload.
type Scanner struct {
	source

	tok    Token
	name   string  // _Name
	num    float64 // _Number
	char   rune    // _Char
	tokPos Pos

	err error // first fatal error

	litBuf strings.Builder
}

// NewScanner creates a Scanner reading from r. No token is read until the
// first call to Next.
func NewScanner(filename string, r io.Reader) *Scanner {
	return &Scanner{source: *newSource(filename, r)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	if s.err != nil {
		s.tok = _EOF
		return
	}

redo:
	for isSpace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		if s.readErr != nil && s.err == nil {
			s.err = s.readErr
		}

	case s.ch == '#':
		s.skipLineComment()
		goto redo

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	default:
		s.tok = _Char
		s.char = s.ch
		s.nextch()
	}
}

// Token returns the current token kind.
func (s *Scanner) Token() Token { return s.tok }

// Name returns the identifier text of a _Name token.
func (s *Scanner) Name() string { return s.name }

// Num returns the value of a _Number token.
func (s *Scanner) Num() float64 { return s.num }

// Char returns the character of a _Char token.
func (s *Scanner) Char() rune { return s.char }

// Pos returns the start position of the current token.
func (s *Scanner) Pos() Pos { return s.tokPos }

// Err returns the fatal error that stopped the scanner, if any.
// A *LexError reports a malformed number; anything else came from the reader.
func (s *Scanner) Err() error { return s.err }

// scanIdent scans [A-Za-z][A-Za-z0-9]* and classifies keywords.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.name = s.litBuf.String()
	s.tok = LookupKeyword(s.name)
}

// scanNumber scans [0-9.]+. There is no exponent and no sign; a run with
// more than one decimal point does not parse and is fatal.
func (s *Scanner) scanNumber() {
	pos := s.tokPos
	s.litBuf.Reset()
	for isDigit(s.ch) || s.ch == '.' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	lit := s.litBuf.String()

	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		s.err = &LexError{Pos: pos, Lit: lit, Err: err}
		s.tok = _EOF
		return
	}
	s.num = v
	s.tok = _Number
}

// skipLineComment skips from '#' to the end of the line.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch != '\r' && s.ch >= 0 {
		s.nextch()
	}
}

// describe renders the current token for diagnostics and dumps.
func (s *Scanner) describe() string {
	switch s.tok {
	case _Name:
		return "identifier " + s.name
	case _Number:
		return "number " + strconv.FormatFloat(s.num, 'g', -1, 64)
	case _Char:
		return strconv.QuoteRune(s.char)
	}
	return s.tok.String()
}
