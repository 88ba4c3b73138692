package compiler

import "sort"

// Scope is the flat registry of function names considered declared at the
// current point of a generation pass. It is not lexical: a name becomes
// visible everywhere once its function has been rendered, and stays
// visible for the rest of the pass. The zero value is an empty scope.
//
// A Scope is not safe for concurrent use. Independent passes need
// independent scopes; a Session shares one scope across passes on purpose.
type Scope struct {
	names map[string]struct{}
}

// NewScope creates a scope pre-seeded with the given global names.
func NewScope(globals ...string) *Scope {
	s := &Scope{names: make(map[string]struct{}, len(globals))}
	for _, g := range globals {
		s.Declare(g)
	}
	return s
}

// Declare adds a name to the scope.
func (s *Scope) Declare(name string) {
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	s.names[name] = struct{}{}
}

// Has reports whether name has been declared.
func (s *Scope) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of declared names.
func (s *Scope) Len() int {
	return len(s.names)
}

// Names returns the declared names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the scope.
func (s *Scope) Clone() *Scope {
	c := &Scope{names: make(map[string]struct{}, len(s.names))}
	for name := range s.names {
		c.names[name] = struct{}{}
	}
	return c
}
