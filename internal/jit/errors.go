package jit

import (
	"errors"
	"fmt"
)

// ErrUnloaded is returned by a Tracker whose unit has been removed.
var ErrUnloaded = errors.New("unit has been unloaded")

// LinkError reports a call that could not be bound when a unit was loaded.
type LinkError struct {
	Unit   string // module name
	Func   string // calling function
	Symbol string // callee
	Msg    string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: in %s: %s %s", e.Unit, e.Func, e.Msg, e.Symbol)
}

// RuntimeError reports a failure while running loaded code.
type RuntimeError struct {
	Func string // innermost function at the time of failure
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Msg)
}

// haltError carries an interpreter failure up the Go stack to Entry.Call.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

// recoverHalt runs f, turning a halt panic into an error return. Any other
// panic is re-raised.
func recoverHalt(f func() float64) (v float64, err error) {
	defer func() {
		if e := recover(); e != nil {
			he, ok := e.(haltError)
			if !ok {
				panic(e)
			}
			err = he.error
		}
	}()
	return f(), nil
}
