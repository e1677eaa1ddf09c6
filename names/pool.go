package names

import (
	"fmt"
	"sort"
)

// Pool allocates unique identifiers per kind and tracks each
// identifier's declaring scope. Every identifier has exactly one
// declaring scope; scopes form a forest rooted at RootScope.
type Pool struct {
	counts  map[Kind]int
	order   map[Kind][]Identifier
	declare map[Identifier]Scope
}

// NewPool returns an empty identifier pool.
func NewPool() *Pool {
	return &Pool{
		counts:  make(map[Kind]int),
		order:   make(map[Kind][]Identifier),
		declare: make(map[Identifier]Scope),
	}
}

// Next allocates a fresh identifier of kind, records parent as its
// declaring scope, and returns the identifier together with the scope
// its own children (fields, parameters, nested blocks, ...) will be
// declared in.
func (p *Pool) Next(kind Kind, parent Scope) (Identifier, Scope) {
	idx := p.counts[kind]
	p.counts[kind] = idx + 1
	id := Identifier{Kind: kind, Name: fmt.Sprintf("%s%d", kind, idx)}
	p.order[kind] = append(p.order[kind], id)
	p.declare[id] = parent
	return id, p.ScopeForChildren(id)
}

// ParentScopeOf returns the scope id was declared in.
func (p *Pool) ParentScopeOf(id Identifier) (Scope, bool) {
	s, ok := p.declare[id]
	return s, ok
}

// ScopeForChildren returns the scope that id's own children live in:
// its declaring scope extended by its own name.
func (p *Pool) ScopeForChildren(id Identifier) Scope {
	parent, ok := p.declare[id]
	if !ok {
		return RootScope.Child(id.Name)
	}
	return parent.Child(id.Name)
}

// FlattenAccess produces the fully-qualified dotted identifier used at
// cross-module call sites (e.g. script `//# run` targets): the scope for
// id's children, as a textual Identifier. Returns false if id was never
// declared (has no scope to flatten).
func (p *Pool) FlattenAccess(id Identifier) (Identifier, bool) {
	if _, ok := p.declare[id]; !ok {
		return Identifier{}, false
	}
	scope := p.ScopeForChildren(id)
	if scope.IsRoot() {
		return Identifier{}, false
	}
	return Identifier{Kind: id.Kind, Name: scope.String()}, true
}

// FilterInScope restricts ids to those declared within scope or any of
// scope's ancestors (i.e. visible from scope).
func (p *Pool) FilterInScope(ids []Identifier, scope Scope) []Identifier {
	out := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		declScope, ok := p.declare[id]
		if !ok {
			declScope = RootScope
		}
		if declScope.Contains(scope) {
			out = append(out, id)
		}
	}
	return out
}

// OfKind returns every identifier allocated with the given kind, in
// allocation order.
func (p *Pool) OfKind(kind Kind) []Identifier {
	out := make([]Identifier, len(p.order[kind]))
	copy(out, p.order[kind])
	return out
}

// All returns every identifier ever allocated, sorted deterministically
// by (kind, name) for callers that need a stable full listing.
func (p *Pool) All() []Identifier {
	out := make([]Identifier, 0, len(p.declare))
	for id := range p.declare {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
