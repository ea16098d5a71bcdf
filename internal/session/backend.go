package session

import (
	"io"

	"github.com/you-not-fish/kaleido/internal/irgen"
)

// Backend opens compilation units and runs them.
type Backend interface {
	// NewUnit opens an empty unit.
	NewUnit() Unit

	// Load hands a unit to the execution engine. Named definitions in u
	// stay callable from units loaded later, even after the returned
	// Tracker is removed.
	Load(u Unit) (Tracker, error)
}

// Unit is an open compilation unit that can also render its functions.
type Unit interface {
	irgen.Unit
	Name() string

	// Fprint writes the generated code of fn.
	Fprint(w io.Writer, fn irgen.Function) error
}

// Tracker is the handle of one loaded unit.
type Tracker interface {
	Lookup(symbol string) (Entry, error)
	Remove()
}

// Entry is a loaded function.
type Entry interface {
	Call(args ...float64) (float64, error)
}
