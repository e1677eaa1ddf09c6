package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbilitySet_Validate_KeyRequiresStore(t *testing.T) {
	t.Parallel()

	require.True(t, AbilitySet(Key|Store).Validate())
	require.False(t, AbilitySet(Key).Validate())
	require.True(t, AbilitySet(Copy|Drop).Validate())
}

func TestAbilitySet_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "copy, drop", AbilitySet(Copy|Drop).String())
	require.Equal(t, "", AbilitySet(0).String())
	require.Equal(t, "copy, drop, store, key", AllAbilities.String())
}

func TestAbilitySet_UnionIntersectWithout(t *testing.T) {
	t.Parallel()

	a := AbilitySet(Copy | Drop)
	b := AbilitySet(Drop | Store)

	require.Equal(t, AbilitySet(Copy|Drop|Store), a.Union(b))
	require.Equal(t, AbilitySet(Drop), a.Intersect(b))
	require.Equal(t, AbilitySet(Copy), a.Without(Drop))
}
