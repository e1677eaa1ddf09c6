package typetrack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smithgen.dev/smithgen/names"
)

func TestLivePool_MarkMovedRemovesFromScopeAndAncestors(t *testing.T) {
	t.Parallel()

	p := NewLivePool()
	outer := names.RootScope.Child("function0")
	inner := outer.Child("_block0")
	x := names.Identifier{Kind: names.Var, Name: "var0"}

	p.MarkAlive(outer, x)
	require.True(t, p.IsLive(inner, x), "a var live in an ancestor scope is live in descendants")

	p.MarkMoved(inner, x)

	require.False(t, p.IsLive(inner, x))
	require.False(t, p.IsLive(outer, x))
}

func TestLivePool_FilterLiveVars(t *testing.T) {
	t.Parallel()

	p := NewLivePool()
	scope := names.RootScope.Child("function0")
	alive := names.Identifier{Kind: names.Var, Name: "var0"}
	dead := names.Identifier{Kind: names.Var, Name: "var1"}

	p.MarkAlive(scope, alive)

	got := p.FilterLiveVars(scope, []names.Identifier{alive, dead})

	require.Equal(t, []names.Identifier{alive}, got)
}

func TestLivePool_IsLiveFalseForUnknownScope(t *testing.T) {
	t.Parallel()

	p := NewLivePool()
	x := names.Identifier{Kind: names.Var, Name: "var0"}

	require.False(t, p.IsLive(names.RootScope, x))
}
