package irgen

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// ErrorKind classifies a code generation failure.
type ErrorKind int

const (
	_ ErrorKind = iota
	UnknownVariable
	UnknownFunction
	ArityMismatch
	InvalidOperator
	FunctionRedefined
	BackendFailure // the backend rejected a completed body
)

var errorKindNames = [...]string{
	UnknownVariable:   "unknown variable",
	UnknownFunction:   "unknown function",
	ArityMismatch:     "arity mismatch",
	InvalidOperator:   "invalid operator",
	FunctionRedefined: "function redefined",
	BackendFailure:    "backend failure",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrUnknownVariable   = errors.New(UnknownVariable.String())
	ErrUnknownFunction   = errors.New(UnknownFunction.String())
	ErrArityMismatch     = errors.New(ArityMismatch.String())
	ErrInvalidOperator   = errors.New(InvalidOperator.String())
	ErrFunctionRedefined = errors.New(FunctionRedefined.String())
	ErrBackendFailure    = errors.New(BackendFailure.String())
)

var kindSentinels = map[ErrorKind]error{
	UnknownVariable:   ErrUnknownVariable,
	UnknownFunction:   ErrUnknownFunction,
	ArityMismatch:     ErrArityMismatch,
	InvalidOperator:   ErrInvalidOperator,
	FunctionRedefined: ErrFunctionRedefined,
	BackendFailure:    ErrBackendFailure,
}

// Error is a code generation failure. The construct being generated is
// abandoned and any partially built function has been removed.
type Error struct {
	Kind ErrorKind
	Pos  syntax.Pos
	Msg  string
	Err  error // underlying backend error, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(kind ErrorKind, pos syntax.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
