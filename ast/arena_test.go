package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smithgen.dev/smithgen/names"
)

func TestArena_Abilities_Primitives(t *testing.T) {
	t.Parallel()

	a := NewArena()
	require.Equal(t, AbilitySet(Copy|Drop|Store), a.Abilities(Prim(TU64)))
	require.Equal(t, AbilitySet(Drop), a.Abilities(Prim(TSigner)))
	require.Equal(t, AbilitySet(Copy|Drop), a.Abilities(Ref(Prim(TU64))))
	require.Equal(t, AbilitySet(Copy|Drop), a.Abilities(MutRef(Prim(TU64))))
}

func TestArena_Abilities_VectorIntersectsElement(t *testing.T) {
	t.Parallel()

	a := NewArena()

	// vector<u64>: u64 carries Copy|Drop|Store, so the vector does too.
	require.Equal(t, AbilitySet(Copy|Drop|Store), a.Abilities(Vector(Prim(TU64))))

	// vector<signer>: signer carries only Drop, so the vector loses
	// Copy and Store.
	require.Equal(t, AbilitySet(Drop), a.Abilities(Vector(Prim(TSigner))))
}

func TestArena_Abilities_StructIntersectsNonPhantomTypeArgs(t *testing.T) {
	t.Parallel()

	a := NewArena()
	structName := names.Identifier{Kind: names.Struct, Name: "Struct0"}
	id := a.AddStruct(StructDef{
		Name:      structName,
		Abilities: Copy | Drop | Store,
		TypeParams: []TypeParam{
			{Name: names.Identifier{Kind: names.TypeParameter, Name: "T0"}, Phantom: false},
		},
	})

	// Instantiated with signer (Drop only): the struct's Copy and Store
	// are not supported by the filled-in content.
	require.Equal(t, AbilitySet(Drop), a.Abilities(StructType(id, Prim(TSigner))))

	// Instantiated with u64 (Copy|Drop|Store): nothing is lost.
	require.Equal(t, AbilitySet(Copy|Drop|Store), a.Abilities(StructType(id, Prim(TU64))))
}

func TestArena_Abilities_PhantomTypeArgExempt(t *testing.T) {
	t.Parallel()

	a := NewArena()
	structName := names.Identifier{Kind: names.Struct, Name: "Struct0"}
	id := a.AddStruct(StructDef{
		Name:      structName,
		Abilities: Copy | Drop | Store,
		TypeParams: []TypeParam{
			{Name: names.Identifier{Kind: names.TypeParameter, Name: "T0"}, Phantom: true},
		},
	})

	// Phantom type argument's abilities never constrain the struct's own.
	require.Equal(t, AbilitySet(Copy|Drop|Store), a.Abilities(StructType(id, Prim(TSigner))))
}

func TestArena_StructReachableFrom_SelfIsReachable(t *testing.T) {
	t.Parallel()

	a := NewArena()
	id := a.AddStruct(StructDef{Name: names.Identifier{Kind: names.Struct, Name: "Struct0"}})

	require.True(t, a.StructReachableFrom(id, id))
}

func TestArena_StructReachableFrom_DetectsNestedField(t *testing.T) {
	t.Parallel()

	a := NewArena()
	inner := a.AddStruct(StructDef{Name: names.Identifier{Kind: names.Struct, Name: "Struct0"}})
	outer := a.AddStruct(StructDef{
		Name: names.Identifier{Kind: names.Struct, Name: "Struct1"},
		Fields: []Field{
			{Name: names.Identifier{Kind: names.Var, Name: "var0"}, Type: StructType(inner)},
		},
	})

	require.True(t, a.StructReachableFrom(outer, inner))
	require.False(t, a.StructReachableFrom(inner, outer))
}

func TestArena_GetSetRoundTrip(t *testing.T) {
	t.Parallel()

	a := NewArena()
	name := names.Identifier{Kind: names.Struct, Name: "Struct0"}
	id := a.AddStruct(StructDef{Name: name})
	require.Empty(t, a.Struct(id).Fields)

	withField := a.Struct(id)
	withField.Fields = []Field{{Name: names.Identifier{Kind: names.Var, Name: "var0"}, Type: Prim(TBool)}}
	a.SetStruct(id, withField)

	require.Len(t, a.Struct(id).Fields, 1)
}
