// Package typetrack maps identifiers to their registered types and
// tracks, per scope, which identifiers currently hold a usable
// (non-moved) value.
package typetrack

import (
	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

// Pool maps every variable, parameter, field and constant identifier to
// the type it was declared with. Entries are never removed: a moved
// variable keeps its registered type, it is only excluded from
// liveness (see LivePool).
type Pool struct {
	types map[names.Identifier]ast.Type
}

// NewPool returns an empty type pool.
func NewPool() *Pool {
	return &Pool{types: make(map[names.Identifier]ast.Type)}
}

// Register records id's type. Re-registering the same identifier with a
// different type is a caller bug; the later registration simply wins,
// since identifiers are never reused across the pool's lifetime.
func (p *Pool) Register(id names.Identifier, t ast.Type) {
	p.types[id] = t
}

// GetType returns id's registered type and true, or the zero Type and
// false if id was never registered.
func (p *Pool) GetType(id names.Identifier) (ast.Type, bool) {
	t, ok := p.types[id]
	return t, ok
}

// FilterIdentifierWithType keeps only the ids from candidates whose
// registered type is convertible to target under Type.ConvertibleTo
// (identical types, or `&mut T` for `&T`). A concrete struct type does
// not match its uninstantiated struct type. Unregistered ids are
// dropped.
func (p *Pool) FilterIdentifierWithType(target ast.Type, candidates []names.Identifier) []names.Identifier {
	out := make([]names.Identifier, 0, len(candidates))
	for _, id := range candidates {
		t, ok := p.types[id]
		if !ok {
			continue
		}
		if t.ConvertibleTo(target) {
			out = append(out, id)
		}
	}
	return out
}
