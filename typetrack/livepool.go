package typetrack

import "smithgen.dev/smithgen/names"

// LivePool tracks, per scope, which identifiers hold a usable value.
// Kept and exercised per design: the current generator only produces
// Copy+Drop values, so nothing is ever actually moved out, but the
// bookkeeping stays live so a future linear-type path has somewhere to
// plug in.
type LivePool struct {
	alive map[names.Scope]map[names.Identifier]struct{}
}

// NewLivePool returns an empty live-variable pool.
func NewLivePool() *LivePool {
	return &LivePool{alive: make(map[names.Scope]map[names.Identifier]struct{})}
}

// MarkAlive records id as live in scope.
func (p *LivePool) MarkAlive(scope names.Scope, id names.Identifier) {
	set, ok := p.alive[scope]
	if !ok {
		set = make(map[names.Identifier]struct{})
		p.alive[scope] = set
	}
	set[id] = struct{}{}
}

// MarkMoved removes id from scope and every ancestor of scope, marking
// it dead for the remainder of generation.
func (p *LivePool) MarkMoved(scope names.Scope, id names.Identifier) {
	cur := scope
	for {
		if set, ok := p.alive[cur]; ok {
			delete(set, id)
		}
		parent, ok := cur.Parent()
		if !ok {
			return
		}
		cur = parent
	}
}

// IsLive reports whether id is alive in scope or any ancestor of scope.
func (p *LivePool) IsLive(scope names.Scope, id names.Identifier) bool {
	cur := scope
	for {
		if set, ok := p.alive[cur]; ok {
			if _, live := set[id]; live {
				return true
			}
		}
		parent, ok := cur.Parent()
		if !ok {
			return false
		}
		cur = parent
	}
}

// FilterLiveVars shrinks candidates to those live in scope or an
// ancestor of scope.
func (p *LivePool) FilterLiveVars(scope names.Scope, candidates []names.Identifier) []names.Identifier {
	out := make([]names.Identifier, 0, len(candidates))
	for _, id := range candidates {
		if p.IsLive(scope, id) {
			out = append(out, id)
		}
	}
	return out
}
