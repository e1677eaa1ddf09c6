package emit_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/emit"
	"smithgen.dev/smithgen/names"
)

// buildTrivialModule constructs the fixed scenario: module SimpleModule
// containing one public function fun1(param1: u64, param2: u8): u32
// whose body is block _block0 with statements 42u32; @0xBEEF; and
// return 111u32.
func buildTrivialModule() (*ast.Arena, ast.ModuleID, ast.FuncID) {
	a := ast.NewArena()

	block := a.AddBlock(ast.Block{
		Name: names.Identifier{Kind: names.Block, Name: "_block0"},
		Stmts: []ast.Stmt{
			ast.ExprStmt(ast.NumberLiteral(big.NewInt(42), ast.TU32)),
			ast.ExprStmt(ast.AddressLiteral("0xBEEF")),
		},
	})
	b := a.Block(block)
	tail := ast.NumberLiteral(big.NewInt(111), ast.TU32)
	b.Tail = &tail
	a.SetBlock(block, b)

	u32 := ast.Prim(ast.TU32)
	fn := a.AddFunction(ast.Function{
		Name:   names.Identifier{Kind: names.Function, Name: "fun1"},
		Public: true,
		Params: []ast.Field{
			{Name: names.Identifier{Kind: names.Var, Name: "param1"}, Type: ast.Prim(ast.TU64)},
			{Name: names.Identifier{Kind: names.Var, Name: "param2"}, Type: ast.Prim(ast.TU8)},
		},
		ReturnType: &u32,
		Body:       &block,
	})

	module := a.AddModule(ast.Module{
		Name:      names.Identifier{Kind: names.Module, Name: "SimpleModule"},
		Functions: []ast.FuncID{fn},
	})

	return a, module, fn
}

const expectedTrivialModule = `//# publish
module 0xCAFE::SimpleModule {
    public fun fun1(param1: u64, param2: u8): u32 { /* _block0 */
        42u32;
        @0xBEEF;
        111u32
    }
}`

func TestModuleLines_TrivialModule_ExactEmission(t *testing.T) {
	t.Parallel()

	a, module, _ := buildTrivialModule()
	got := emit.ModuleLines(a, module)
	require.Equal(t, expectedTrivialModule, join(got))
}

func TestCompileUnit_WithRunDirective(t *testing.T) {
	t.Parallel()

	a, module, fn := buildTrivialModule()
	call := ast.CallExpr(
		names.Identifier{Kind: names.Function, Name: "0xCAFE::SimpleModule::fun1"},
		nil,
		[]ast.Expr{
			ast.NumberLiteral(big.NewInt(555), ast.TU64),
			ast.NumberLiteral(big.NewInt(255), ast.TU8),
		},
	)
	unit := &ast.CompileUnit{
		Modules: []ast.ModuleID{module},
		Script:  &ast.Script{Calls: []ast.Expr{call}},
	}
	unit.AddRun(names.Identifier{Kind: names.Function, Name: "0xCAFE::SimpleModule::fun1"})
	_ = fn

	got := emit.CompileUnit(a, unit)
	require.Contains(t, got, "//# run 0xCAFE::SimpleModule::fun1")
	require.Contains(t, got, "0xCAFE::SimpleModule::fun1(555u64, 255u8);")
}

func TestExprLines_NumberLiteral_CarriesWidthSuffix(t *testing.T) {
	t.Parallel()

	a := ast.NewArena()
	got := emit.ExprLines(a, ast.NumberLiteral(big.NewInt(42), ast.TU32))
	require.Equal(t, []string{"42u32"}, got)
}

func TestExprLines_AddressLiteral(t *testing.T) {
	t.Parallel()

	a := ast.NewArena()
	got := emit.ExprLines(a, ast.AddressLiteral("0xBEEF"))
	require.Equal(t, []string{"@0xBEEF"}, got)
}

func TestExprLines_IfExpression_MultiLine(t *testing.T) {
	t.Parallel()

	a := ast.NewArena()
	thenID := a.AddBlock(ast.Block{Tail: exprPtr(ast.NumberLiteral(big.NewInt(1), ast.TU8))})
	elseID := a.AddBlock(ast.Block{Tail: exprPtr(ast.NumberLiteral(big.NewInt(2), ast.TU8))})
	cond := ast.BoolLiteral(true)
	u8 := ast.Prim(ast.TU8)
	ifExpr := ast.IfExpr(cond, thenID, elseID, u8)

	got := emit.ExprLines(a, ifExpr)
	require.Equal(t, []string{
		"if (true) {",
		"    1u8",
		"} else {",
		"    2u8",
		"}",
	}, got)
}

func TestStructLines_WithAbilitiesAndFields(t *testing.T) {
	t.Parallel()

	a := ast.NewArena()
	id := a.AddStruct(ast.StructDef{
		Name:      names.Identifier{Kind: names.Struct, Name: "Struct0"},
		Abilities: ast.Copy | ast.Drop,
		Fields: []ast.Field{
			{Name: names.Identifier{Kind: names.Var, Name: "var0"}, Type: ast.Prim(ast.TU64)},
		},
	})

	got := join(emit.StructLines(a, id))
	require.Equal(t, "struct Struct0 has copy, drop {\n    var0: u64,\n}", got)
}

func TestVectorLiteral_Forms(t *testing.T) {
	t.Parallel()

	a := ast.NewArena()

	u8 := ast.Prim(ast.TU8)
	require.Equal(t, []string{"vector[]"}, emit.ExprLines(a, ast.VectorLiteralEmpty(u8)))
	require.Equal(t, []string{"b\"hi\""}, emit.ExprLines(a, ast.VectorLiteralByteString([]byte("hi"))))
	require.Equal(t, []string{"x\"ff00\""}, emit.ExprLines(a, ast.VectorLiteralHexString([]byte{0xff, 0x00})))
}

func exprPtr(e ast.Expr) *ast.Expr { return &e }

func join(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
