// Package syntax implements the tokenizer, parser, and abstract syntax tree
// for the Kaleidoscope language.
package syntax

import "fmt"

// Token represents the kind of a lexical token.
type Token uint

const (
	_EOF Token = iota // end of input

	// Commands
	_Def
	_Extern

	// Primary
	_Name   // identifier; Scanner.Name holds the text
	_Number // numeric literal; Scanner.Num holds the value

	// Control flow
	_If
	_Then
	_Else
	_For
	_In

	// _Char is any other single character; Scanner.Char holds it.
	_Char

	tokenCount
)

var tokenNames = [...]string{
	_EOF:    "EOF",
	_Def:    "def",
	_Extern: "extern",
	_Name:   "NAME",
	_Number: "NUMBER",
	_If:     "if",
	_Then:   "then",
	_Else:   "else",
	_For:    "for",
	_In:     "in",
	_Char:   "CHAR",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	switch t {
	case _Def, _Extern, _If, _Then, _Else, _For, _In:
		return true
	}
	return false
}

// keywords maps keyword spellings to their token.
var keywords = map[string]Token{
	"def":    _Def,
	"extern": _Extern,
	"if":     _If,
	"then":   _Then,
	"else":   _Else,
	"for":    _For,
	"in":     _In,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
