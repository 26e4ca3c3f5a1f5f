// Package ident implements a deduplicating interner for source identifiers.
// It is the Go counterpart of the handle/HandleMap types used throughout the
// reference implementation's evaluator and parser: strings in source are
// interned into opaque Handle values, and the AST and code generator refer
// to identifiers only by Handle, never by string.
package ident

// Handle is an opaque reference to an interned identifier name. The zero
// value is a valid handle (Interner.Intern returns handles starting at 0,
// so the first name interned gets it); callers that need a sentinel should
// use a separate bool or pointer rather than relying on the zero Handle.
type Handle int32

// Interner deduplicates identifier strings into Handle values for the
// lifetime of a single compilation. It is not safe for concurrent use.
type Interner struct {
	names  []string
	byName map[string]Handle
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{byName: make(map[string]Handle)}
}

// Intern returns the Handle for name, interning it if this is the first
// occurrence.
func (in *Interner) Intern(name string) Handle {
	if h, ok := in.byName[name]; ok {
		return h
	}
	h := Handle(len(in.names))
	in.names = append(in.names, name)
	in.byName[name] = h
	return h
}

// Name returns the original string for h. It panics if h was not produced by
// this Interner.
func (in *Interner) Name(h Handle) string {
	return in.names[h]
}

// Len returns the number of distinct identifiers interned so far.
func (in *Interner) Len() int { return len(in.names) }
