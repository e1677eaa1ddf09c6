package typetrack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

func TestPool_FilterIdentifierWithType_ReferenceLoosening(t *testing.T) {
	t.Parallel()

	p := NewPool()
	x := names.Identifier{Kind: names.Var, Name: "var0"}
	y := names.Identifier{Kind: names.Var, Name: "var1"}
	p.Register(x, ast.MutRef(ast.Prim(ast.TU64)))
	p.Register(y, ast.Ref(ast.Prim(ast.TU64)))

	got := p.FilterIdentifierWithType(ast.Ref(ast.Prim(ast.TU64)), []names.Identifier{x, y})

	require.ElementsMatch(t, []names.Identifier{x, y}, got, "&mut T satisfies a request for &T")
}

func TestPool_FilterIdentifierWithType_DropsUnregistered(t *testing.T) {
	t.Parallel()

	p := NewPool()
	x := names.Identifier{Kind: names.Var, Name: "var0"}
	unregistered := names.Identifier{Kind: names.Var, Name: "var99"}

	p.Register(x, ast.Prim(ast.TU8))

	got := p.FilterIdentifierWithType(ast.Prim(ast.TU8), []names.Identifier{x, unregistered})

	require.Equal(t, []names.Identifier{x}, got)
}

func TestPool_FilterIdentifierWithType_RejectsMutRefTarget(t *testing.T) {
	t.Parallel()

	p := NewPool()
	x := names.Identifier{Kind: names.Var, Name: "var0"}
	p.Register(x, ast.Ref(ast.Prim(ast.TU64)))

	got := p.FilterIdentifierWithType(ast.MutRef(ast.Prim(ast.TU64)), []names.Identifier{x})

	require.Empty(t, got, "&T must not satisfy a request for &mut T")
}
