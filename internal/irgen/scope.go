package irgen

import (
	"fmt"
	"sort"
	"strings"
)

// Scope is one frame of the lexical variable environment. Function entry
// starts a fresh root frame; a for loop pushes a child frame that binds the
// induction variable and shadows any outer binding of the same name.
// Popping the child restores the outer binding without bookkeeping.
type Scope struct {
	parent  *Scope
	elems   map[string]Value
	comment string // debugging comment (e.g., "func fib", "for i")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string]Value),
		comment: comment,
	}
}

// Parent returns the enclosing scope, or nil for a root frame.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Bind sets name in this frame, replacing any binding the frame already had.
func (s *Scope) Bind(name string, v Value) {
	s.elems[name] = v
}

// Lookup returns the value bound to name in this frame only.
func (s *Scope) Lookup(name string) (Value, bool) {
	v, ok := s.elems[name]
	return v, ok
}

// LookupParent searches from s outward and returns the innermost binding
// of name.
func (s *Scope) LookupParent(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.elems[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Names returns the names bound in this frame, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of frames from s to its root, inclusive.
func (s *Scope) Depth() int {
	n := 0
	for scope := s; scope != nil; scope = scope.parent {
		n++
	}
	return n
}

// String returns the chain of frames, innermost first.
func (s *Scope) String() string {
	var buf strings.Builder
	for scope := s; scope != nil; scope = scope.parent {
		fmt.Fprintf(&buf, "scope %s {%s}\n", scope.comment, strings.Join(scope.Names(), " "))
	}
	return buf.String()
}
