package syntax

import (
	"io"
	"slices"

	"github.com/you-not-fish/kaleido/internal/rtabi"
)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// DefaultPrecedence is the initial binary operator table.
// Higher binds tighter.
var DefaultPrecedence = map[rune]int{
	'<': 10,
	'+': 20,
	'-': 30,
	'*': 40,
}

// Parser reads top-level constructs from a token stream, one at a time.
// A Parser is not safe for concurrent use.
type Parser struct {
	scanner *Scanner
	primed  bool

	// Current token info (cached from scanner)
	tok  Token
	name string
	num  float64
	char rune
	pos  Pos

	prec map[rune]int
}

// NewParser creates a new Parser reading from src. Input is not consumed
// until the first call to ParseTopLevel.
func NewParser(filename string, src io.Reader) *Parser {
	prec := make(map[rune]int, len(DefaultPrecedence))
	for op, v := range DefaultPrecedence {
		prec[op] = v
	}
	return &Parser{
		scanner: NewScanner(filename, src),
		prec:    prec,
	}
}

// SetPrecedence installs or changes the precedence of a binary operator.
// A precedence <= 0 removes op from the table.
func (p *Parser) SetPrecedence(op rune, prec int) {
	if prec <= 0 {
		delete(p.prec, op)
		return
	}
	p.prec[op] = prec
}

// Precedence returns the precedence of op, or -1 if op is not a binary
// operator.
func (p *Parser) Precedence(op rune) int {
	if v, ok := p.prec[op]; ok {
		return v
	}
	return -1
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.name = p.scanner.Name()
	p.num = p.scanner.Num()
	p.char = p.scanner.Char()
	p.pos = p.scanner.Pos()
}

func (p *Parser) prime() {
	if !p.primed {
		p.primed = true
		p.next()
	}
}

// is reports whether the current token is the character c.
func (p *Parser) is(c rune) bool {
	return p.tok == _Char && p.char == c
}

// tokPrecedence returns the precedence of the current token as a binary
// operator. Anything that is not an operator in the table is -1.
func (p *Parser) tokPrecedence() int {
	if p.tok != _Char {
		return -1
	}
	return p.Precedence(p.char)
}

// Skip discards the current token. Callers use it to resynchronize after
// ParseTopLevel fails.
func (p *Parser) Skip() {
	p.prime()
	if p.tok != _EOF {
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Error handling

// errorf returns the error for a failure at the current token. A scanner
// failure hides every syntax error it caused: the token stream ended early.
func (p *Parser) errorf(msg string) error {
	if err := p.scanner.Err(); err != nil {
		return err
	}
	return &SyntaxError{Pos: p.pos, Msg: msg}
}

// ----------------------------------------------------------------------------
// Parsing entry point

// ParseTopLevel parses the next top-level construct: a definition, an
// extern, or a bare expression wrapped in an anonymous definition.
//
// It returns io.EOF at the end of input and the scanner's error if the
// token stream broke, even when the break came after a complete construct.
// On any other failure the returned error is a *SyntaxError, the Decl is
// nil, and the offending token is still current.
func (p *Parser) ParseTopLevel() (Decl, error) {
	p.prime()
	for p.is(';') {
		p.next()
	}

	switch p.tok {
	case _EOF:
		if err := p.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	case _Def:
		d, err := p.definition()
		if err != nil {
			return nil, err
		}
		return p.done(d)
	case _Extern:
		d, err := p.extern()
		if err != nil {
			return nil, err
		}
		return p.done(d)
	default:
		d, err := p.topLevelExpr()
		if err != nil {
			return nil, err
		}
		return p.done(d)
	}
}

// done returns d unless the scanner failed while reading the token after
// it. The construct is complete, but the failure is fatal and comes first.
func (p *Parser) done(d Decl) (Decl, error) {
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// definition parses: def prototype expr
func (p *Parser) definition() (*FuncDecl, error) {
	p.next() // eat def
	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return NewFuncDecl(proto, body), nil
}

// extern parses: extern prototype
func (p *Parser) extern() (*ExternDecl, error) {
	pos := p.pos
	p.next() // eat extern
	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}
	return NewExternDecl(pos, proto), nil
}

// topLevelExpr wraps a bare expression into the anonymous definition.
func (p *Parser) topLevelExpr() (*FuncDecl, error) {
	pos := p.pos
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return NewFuncDecl(NewPrototype(pos, rtabi.AnonFunc), body), nil
}

// prototype parses: ident '(' ident* ')'
func (p *Parser) prototype() (*Prototype, error) {
	if p.tok != _Name {
		return nil, p.errorf("expected function name in prototype")
	}
	pos, name := p.pos, p.name
	p.next()

	if !p.is('(') {
		return nil, p.errorf("expected '(' in prototype")
	}
	var params []string
	for p.next(); p.tok == _Name; p.next() {
		if slices.Contains(params, p.name) {
			return nil, p.errorf("duplicate parameter name " + p.name)
		}
		params = append(params, p.name)
	}
	if !p.is(')') {
		return nil, p.errorf("expected ')' in prototype")
	}
	p.next() // eat ')'

	return NewPrototype(pos, name, params...), nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses: primary (binop primary)*
func (p *Parser) expr() (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.binOpRHS(0, lhs)
}

// binOpRHS folds operators of precedence >= exprPrec into lhs.
// Equal precedence associates to the left; a tighter operator after the
// right operand is absorbed into it first.
func (p *Parser) binOpRHS(exprPrec int, lhs Expr) (Expr, error) {
	for {
		tokPrec := p.tokPrecedence()
		if tokPrec < exprPrec {
			return lhs, nil
		}

		op := p.char
		p.next() // eat operator

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}

		if tokPrec < p.tokPrecedence() {
			rhs, err = p.binOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = NewBinary(op, lhs, rhs)
	}
}

// primary parses a number, an identifier or call, a parenthesized
// expression, an if, or a for.
func (p *Parser) primary() (Expr, error) {
	switch {
	case p.tok == _Name:
		return p.identExpr()
	case p.tok == _Number:
		n := NewNumber(p.pos, p.num)
		p.next()
		return n, nil
	case p.is('('):
		return p.parenExpr()
	case p.tok == _If:
		return p.ifExpr()
	case p.tok == _For:
		return p.forExpr()
	}
	return nil, p.errorf("unknown token when expecting an expression")
}

// parenExpr parses '(' expr ')'. The parentheses leave no node behind.
func (p *Parser) parenExpr() (Expr, error) {
	p.next() // eat '('
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.is(')') {
		return nil, p.errorf("expected ')'")
	}
	p.next()
	return x, nil
}

// identExpr parses: ident | ident '(' (expr (',' expr)*)? ')'
func (p *Parser) identExpr() (Expr, error) {
	pos, name := p.pos, p.name
	p.next() // eat identifier

	if !p.is('(') {
		return NewVar(pos, name), nil
	}

	p.next() // eat '('
	var args []Expr
	if !p.is(')') {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.is(')') {
				break
			}
			if !p.is(',') {
				return nil, p.errorf("expected ')' or ',' in argument list")
			}
			p.next()
		}
	}
	p.next() // eat ')'

	return NewCall(pos, name, args...), nil
}

// ifExpr parses: if expr then expr else expr
func (p *Parser) ifExpr() (Expr, error) {
	pos := p.pos
	p.next() // eat if

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.tok != _Then {
		return nil, p.errorf("expected then")
	}
	p.next()
	then, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.tok != _Else {
		return nil, p.errorf("expected else")
	}
	p.next()
	els, err := p.expr()
	if err != nil {
		return nil, err
	}

	return NewIf(pos, cond, then, els), nil
}

// forExpr parses: for ident '=' expr ',' expr (',' expr)? in expr
func (p *Parser) forExpr() (Expr, error) {
	pos := p.pos
	p.next() // eat for

	if p.tok != _Name {
		return nil, p.errorf("expected identifier after for")
	}
	name := p.name
	p.next()

	if !p.is('=') {
		return nil, p.errorf("expected '=' after for")
	}
	p.next()

	start, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.is(',') {
		return nil, p.errorf("expected ',' after for start value")
	}
	p.next()

	end, err := p.expr()
	if err != nil {
		return nil, err
	}

	var step Expr
	if p.is(',') {
		p.next()
		if step, err = p.expr(); err != nil {
			return nil, err
		}
	}

	if p.tok != _In {
		return nil, p.errorf("expected in after for")
	}
	p.next()

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	return NewFor(pos, name, start, end, step, body), nil
}
