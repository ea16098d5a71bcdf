package irgen

import (
	"sort"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Registry maps function names to the most recent prototype seen for them.
// It outlives compilation units: a unit opened later re-declares any
// signature it calls from here, so earlier bodies can be discarded from the
// open unit without losing the ability to call them.
//
// A Registry is owned by one session and is not safe for concurrent use.
type Registry struct {
	entries map[string]*regEntry
}

type regEntry struct {
	proto *syntax.Prototype

	// defined is sticky: once a body for the name has been generated
	// successfully, later prototypes replace the signature but the name
	// can never be defined again, unless Undefine withdraws it.
	defined bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*regEntry)}
}

// Lookup returns the current prototype for name.
func (r *Registry) Lookup(name string) (*syntax.Prototype, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.proto, true
}

// Store records proto as the current signature for its name, replacing any
// earlier one.
func (r *Registry) Store(proto *syntax.Prototype) {
	if e, ok := r.entries[proto.Name]; ok {
		e.proto = proto
		return
	}
	r.entries[proto.Name] = &regEntry{proto: proto}
}

// Defined reports whether a body for name was generated successfully.
func (r *Registry) Defined(name string) bool {
	e, ok := r.entries[name]
	return ok && e.defined
}

// Undefine clears the defined bit of name and keeps its prototype, so the
// name can be defined again. It is for bodies that never reached the
// engine because their unit failed to load.
func (r *Registry) Undefine(name string) {
	if e, ok := r.entries[name]; ok {
		e.defined = false
	}
}

func (r *Registry) markDefined(name string) {
	if e, ok := r.entries[name]; ok {
		e.defined = true
	}
}

// save snapshots the entry for name and returns a func that puts it back,
// removing the name entirely if it had no entry.
func (r *Registry) save(name string) (restore func()) {
	old, ok := r.entries[name]
	if !ok {
		return func() { delete(r.entries, name) }
	}
	saved := *old
	return func() { r.entries[name] = &saved }
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.entries) }
