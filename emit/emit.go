// Package emit is the pure syntax-directed printer: it walks an
// *ast.Arena and an ast.CompileUnit and produces the target language's
// textual surface syntax. The emitter never inspects a generation
// environment; it requires only the AST, so the same compile unit
// always emits byte-identical source regardless of how it was built.
package emit

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"smithgen.dev/smithgen/ast"
)

const indentWidth = 4

func indentLines(lines []string, levels int) []string {
	prefix := strings.Repeat(" ", indentWidth*levels)
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = l
			continue
		}
		out[i] = prefix + l
	}
	return out
}

// CompileUnit renders unit's full textual form: one "//# publish"
// section per module, an optional script block, and a trailing
// "//# run" directive per entry in unit.Runs.
func CompileUnit(a *ast.Arena, unit *ast.CompileUnit) string {
	return strings.Join(CompileUnitLines(a, unit), "\n")
}

// CompileUnitLines is CompileUnit's line-oriented form; joining it with
// "\n" reproduces CompileUnit's output exactly, per the
// emit_code_lines/emit_code contract every node in this package honors.
func CompileUnitLines(a *ast.Arena, unit *ast.CompileUnit) []string {
	var lines []string
	for _, mid := range unit.Modules {
		lines = append(lines, ModuleLines(a, mid)...)
	}
	if unit.Script != nil {
		lines = append(lines, ScriptLines(a, *unit.Script)...)
	}
	for _, run := range unit.Runs {
		lines = append(lines, fmt.Sprintf("//# run %s", run.Name))
	}
	return lines
}

// ModuleLines renders one module, preceded by its "//# publish" marker.
func ModuleLines(a *ast.Arena, id ast.ModuleID) []string {
	m := a.Module(id)
	lines := []string{"//# publish", fmt.Sprintf("module 0xCAFE::%s {", m.Name.Name)}
	for _, sid := range m.Structs {
		lines = append(lines, indentLines(StructLines(a, sid), 1)...)
	}
	for _, fid := range m.Functions {
		lines = append(lines, indentLines(FunctionLines(a, fid), 1)...)
	}
	lines = append(lines, "}")
	return lines
}

// StructLines renders one struct declaration.
func StructLines(a *ast.Arena, id ast.StructID) []string {
	s := a.Struct(id)
	header := "struct " + s.Name.Name + typeParamsClause(s.TypeParams)
	if s.Abilities != 0 {
		header += " has " + s.Abilities.String()
	}
	header += " {"
	lines := []string{header}
	for _, f := range s.Fields {
		lines = append(lines, indentLines([]string{fmt.Sprintf("%s: %s,", f.Name.Name, Type(a, f.Type))}, 1)...)
	}
	lines = append(lines, "}")
	return lines
}

// FunctionLines renders one function declaration, including its body
// if filled. The opening brace carries the body block's name as a
// trailing comment (`{ /* _block0 */`), matching the exact emission the
// fixed trivial-module scenario requires.
func FunctionLines(a *ast.Arena, id ast.FuncID) []string {
	f := a.Function(id)

	var header strings.Builder
	if f.Public {
		header.WriteString("public ")
	}
	if f.Inline {
		header.WriteString("inline ")
	}
	header.WriteString("fun ")
	header.WriteString(f.Name.Name)
	header.WriteString(typeParamsClause(f.TypeParams))
	header.WriteString("(")
	header.WriteString(paramList(a, f.Params))
	header.WriteString(")")
	if f.ReturnType != nil {
		header.WriteString(": ")
		header.WriteString(Type(a, *f.ReturnType))
	}
	if acquires := f.AcquiresSorted(); len(acquires) > 0 {
		header.WriteString(" acquires ")
		names := make([]string, len(acquires))
		for i, sid := range acquires {
			names[i] = a.Struct(sid).Name.Name
		}
		header.WriteString(strings.Join(names, ", "))
	}
	header.WriteString(" {")

	var block ast.Block
	hasBody := f.Body != nil
	if hasBody {
		block = a.Block(*f.Body)
		if block.Name.Name != "" {
			header.WriteString(" /* " + block.Name.Name + " */")
		}
	}

	lines := []string{header.String()}
	if hasBody {
		lines = append(lines, indentLines(BlockBodyLines(a, block), 1)...)
	}
	lines = append(lines, "}")
	return lines
}

func paramList(a *ast.Arena, params []ast.Field) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name.Name, Type(a, p.Type))
	}
	return strings.Join(parts, ", ")
}

// BlockBodyLines renders a block's statements followed by its optional
// tail expression, with no trailing semicolon on the tail.
func BlockBodyLines(a *ast.Arena, block ast.Block) []string {
	var lines []string
	for _, stmt := range block.Stmts {
		lines = append(lines, StmtLines(a, stmt)...)
	}
	if block.Tail != nil {
		lines = append(lines, ExprLines(a, *block.Tail)...)
	}
	return lines
}

// StmtLines renders one statement. A declaration's initializer and a
// bare expression statement both flow through ExprLines so multi-line
// expressions (if-expressions) are indented consistently.
func StmtLines(a *ast.Arena, stmt ast.Stmt) []string {
	switch stmt.Kind {
	case ast.StmtExpr:
		lines := ExprLines(a, stmt.Expr)
		lines[len(lines)-1] += ";"
		return lines
	case ast.StmtDecl:
		prefix := fmt.Sprintf("let %s: %s", stmt.DeclName.Name, Type(a, stmt.DeclType))
		if stmt.DeclValue == nil {
			return []string{prefix + ";"}
		}
		lines := ExprLines(a, *stmt.DeclValue)
		lines[0] = prefix + " = " + lines[0]
		lines[len(lines)-1] += ";"
		return lines
	default:
		return nil
	}
}

// ScriptLines renders the script block: one call per statement,
// semicolon-terminated, with no tail expression (scripts return
// nothing).
func ScriptLines(a *ast.Arena, script ast.Script) []string {
	lines := []string{"script {", "    fun main() {"}
	for _, call := range script.Calls {
		callLines := ExprLines(a, call)
		callLines[len(callLines)-1] += ";"
		lines = append(lines, indentLines(callLines, 2)...)
	}
	lines = append(lines, "    }", "}")
	return lines
}

func typeParamsClause(tps []ast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		part := tp.Name.Name
		if tp.Phantom {
			part = "phantom " + part
		}
		if tp.Constraints != 0 {
			part += ": " + abilityPlusList(tp.Constraints)
		}
		parts[i] = part
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func abilityPlusList(s ast.AbilitySet) string {
	return strings.ReplaceAll(s.String(), ", ", " + ")
}

// Type renders a single type in the target language's surface syntax,
// resolving struct names through a.
func Type(a *ast.Arena, t ast.Type) string {
	switch t.Tag {
	case ast.TU8, ast.TU16, ast.TU32, ast.TU64, ast.TU128, ast.TU256:
		return numericSuffix(t.Tag)
	case ast.TBool:
		return "bool"
	case ast.TAddress:
		return "address"
	case ast.TSigner:
		return "signer"
	case ast.TRef:
		return "&" + Type(a, *t.Elem)
	case ast.TMutRef:
		return "&mut " + Type(a, *t.Elem)
	case ast.TVector:
		return "vector<" + Type(a, *t.Elem) + ">"
	case ast.TStruct, ast.TStructConcrete:
		name := a.Struct(t.Struct).Name.Name
		return name + typeArgsAngle(a, t.TypeArgs)
	case ast.TTypeParamRef:
		return t.Param.Name
	default:
		return "<?>"
	}
}

func typeArgsAngle(a *ast.Arena, args []ast.Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, t := range args {
		parts[i] = Type(a, t)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func numericSuffix(tag ast.TypeTag) string {
	switch tag {
	case ast.TU8:
		return "u8"
	case ast.TU16:
		return "u16"
	case ast.TU32:
		return "u32"
	case ast.TU64:
		return "u64"
	case ast.TU128:
		return "u128"
	case ast.TU256:
		return "u256"
	default:
		return ""
	}
}

// ExprLines renders a single expression. Only if-expressions span
// multiple lines; every other form is exactly one line (an if nested
// inside another form is joined onto that line), so callers
// combining an expression with a prefix/suffix (a `let` binding, a
// trailing semicolon) only need to special-case the first/last line.
func ExprLines(a *ast.Arena, e ast.Expr) []string {
	switch e.Kind {
	case ast.ExprNumberLiteral:
		return []string{e.NumberValue.String() + numericSuffix(e.NumberType)}
	case ast.ExprAddressLiteral:
		return []string{"@" + e.Address}
	case ast.ExprBoolLiteral:
		return []string{strconv.FormatBool(e.BoolValue)}
	case ast.ExprVectorLiteral:
		return []string{vectorLiteral(a, e)}
	case ast.ExprVariable:
		if e.IsMove {
			return []string{"move " + e.Var.Name}
		}
		return []string{e.Var.Name}
	case ast.ExprRef:
		inner := single(ExprLines(a, *e.Inner))
		if e.RefMut {
			return []string{"&mut " + inner}
		}
		return []string{"&" + inner}
	case ast.ExprDeref:
		return []string{"*" + single(ExprLines(a, *e.Inner))}
	case ast.ExprAssign:
		lhs := single(ExprLines(a, *e.Lhs))
		if e.DerefLhs {
			lhs = "*" + lhs
		}
		rhs := single(ExprLines(a, *e.Rhs))
		return []string{lhs + " = " + rhs}
	case ast.ExprBinary:
		lhs := single(ExprLines(a, *e.Operands[0]))
		rhs := single(ExprLines(a, *e.Operands[1]))
		return []string{fmt.Sprintf("(%s %s %s)", lhs, binOpSymbol(e.Op), rhs)}
	case ast.ExprIf:
		return ifLines(a, e)
	case ast.ExprCall:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = single(ExprLines(a, arg))
		}
		return []string{fmt.Sprintf("%s%s(%s)", e.Callee.Name, typeArgsAngle(a, e.TypeArgs), strings.Join(args, ", "))}
	case ast.ExprPack:
		fields := make([]string, len(e.FieldValues))
		for i, fv := range e.FieldValues {
			fields[i] = fmt.Sprintf("%s: %s", fv.Name.Name, single(ExprLines(a, fv.Value)))
		}
		return []string{fmt.Sprintf("%s%s { %s }", e.Struct.Name, typeArgsAngle(a, e.PackTypeArgs), strings.Join(fields, ", "))}
	case ast.ExprResourceOp:
		return []string{resourceOp(a, e)}
	case ast.ExprVectorOp:
		return []string{vectorOp(a, e)}
	default:
		return []string{""}
	}
}

func single(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strings.TrimSpace(l)
	}
	return strings.Join(parts, " ")
}

func ifLines(a *ast.Arena, e ast.Expr) []string {
	cond := single(ExprLines(a, *e.Cond))
	lines := []string{fmt.Sprintf("if (%s) {", cond)}
	lines = append(lines, indentLines(BlockBodyLines(a, a.Block(e.ThenBlock)), 1)...)
	lines = append(lines, "} else {")
	lines = append(lines, indentLines(BlockBodyLines(a, a.Block(e.ElseBlock)), 1)...)
	lines = append(lines, "}")
	return lines
}

func binOpSymbol(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpMod:
		return "%"
	case ast.OpDiv:
		return "/"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitOr:
		return "|"
	case ast.OpBitXor:
		return "^"
	case ast.OpShl:
		return "<<"
	case ast.OpShr:
		return ">>"
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpEq:
		return "=="
	case ast.OpNeq:
		return "!="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return "?"
	}
}

func resourceOp(a *ast.Arena, e ast.Expr) string {
	structName := a.Struct(e.ResStructID).Name.Name
	typeArgs := typeArgsAngle(a, e.ResTypeArgs)
	addr := single(ExprLines(a, *e.ResAddr))
	switch e.ResOp {
	case ast.ResourceMoveTo:
		value := single(ExprLines(a, *e.ResValue))
		return fmt.Sprintf("move_to<%s%s>(%s, %s)", structName, typeArgs, addr, value)
	case ast.ResourceMoveFrom:
		return fmt.Sprintf("move_from<%s%s>(%s)", structName, typeArgs, addr)
	case ast.ResourceBorrowGlobal:
		return fmt.Sprintf("borrow_global<%s%s>(%s)", structName, typeArgs, addr)
	case ast.ResourceBorrowGlobalMut:
		return fmt.Sprintf("borrow_global_mut<%s%s>(%s)", structName, typeArgs, addr)
	case ast.ResourceExists:
		return fmt.Sprintf("exists<%s%s>(%s)", structName, typeArgs, addr)
	default:
		return "<?resource-op?>"
	}
}

func vectorOp(a *ast.Arena, e ast.Expr) string {
	switch e.VecOp {
	case ast.VectorOpEmpty:
		return fmt.Sprintf("vector::empty<%s>()", Type(a, *e.VecElem))
	case ast.VectorOpIsEmpty:
		return fmt.Sprintf("vector::is_empty(%s)", single(ExprLines(a, *e.VecTarget)))
	case ast.VectorOpRotate:
		return fmt.Sprintf("vector::rotate(%s)", single(ExprLines(a, *e.VecTarget)))
	default:
		return "<?vector-op?>"
	}
}

func vectorLiteral(a *ast.Arena, e ast.Expr) string {
	switch e.VectorForm {
	case ast.VectorEmpty:
		return "vector[]"
	case ast.VectorEnumerated:
		elems := make([]string, len(e.VectorElems))
		for i, el := range e.VectorElems {
			elems[i] = single(ExprLines(a, el))
		}
		return fmt.Sprintf("vector[%s]", strings.Join(elems, ", "))
	case ast.VectorByteString:
		return fmt.Sprintf("b\"%s\"", string(e.VectorBytes))
	case ast.VectorHexString:
		return fmt.Sprintf("x\"%s\"", hex.EncodeToString(e.VectorBytes))
	default:
		return "vector[]"
	}
}
