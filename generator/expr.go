package generator

import (
	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

// generateExpressionOfType is the candidate-enumeration engine behind
// every typed expression site (let-initializers, call arguments, if
// branches, resource-op operands). It builds the set of syntactic forms
// that can legally produce a value of target in the current depth
// budget, then chooses uniformly among them. A direct constructor is
// always a candidate, guaranteeing the set is never empty.
func (g *Generator) generateExpressionOfType(scope names.Scope, target ast.Type, allowVar, allowCall bool) (ast.Expr, error) {
	if err := g.Env.CheckTimeout(); err != nil {
		return ast.Expr{}, err
	}

	type candidate func() (ast.Expr, error)
	candidates := []candidate{
		func() (ast.Expr, error) { return g.generateDirectConstructor(scope, target) },
	}

	if allowVar {
		if ids := g.filteredIdentifiersOfType(target, scope); len(ids) > 0 {
			candidates = append(candidates, func() (ast.Expr, error) {
				id, err := chooseFrom(g, ids)
				if err != nil {
					return ast.Expr{}, err
				}
				return ast.VariableAccess(id, false), nil
			})
		}
	}

	depthAvailable := !g.Env.ReachedExprDepthLimit()

	if allowCall && depthAvailable {
		if fns := g.callableFunctionsReturning(target, scope); len(fns) > 0 {
			candidates = append(candidates, func() (ast.Expr, error) {
				fid, err := chooseFrom(g, fns)
				if err != nil {
					return ast.Expr{}, err
				}
				return g.generateCallToFunction(scope, fid, allowVar)
			})
		}
	}

	if depthAvailable && target.Tag.IsNumeric() {
		candidates = append(candidates, func() (ast.Expr, error) {
			return g.generateNumericBinary(scope, target, allowVar, allowCall)
		})
	}

	if depthAvailable && target.Tag == ast.TBool {
		candidates = append(candidates, func() (ast.Expr, error) {
			return g.generateBoolBinary(scope, allowVar, allowCall)
		})
	}

	if depthAvailable {
		candidates = append(candidates, func() (ast.Expr, error) {
			return g.generateIfOfType(scope, target, allowVar, allowCall)
		})
	}

	if target.Tag == ast.TRef || target.Tag == ast.TMutRef {
		candidates = append(candidates, func() (ast.Expr, error) {
			inner, err := g.generateExpressionOfType(scope, *target.Elem, allowVar, allowCall)
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.RefExpr(inner, target.Tag == ast.TMutRef), nil
		})
	}

	pick, err := chooseFrom(g, candidates)
	if err != nil {
		return ast.Expr{}, err
	}
	return pick()
}

// generateNumericBinary produces `lhs OP rhs` where both operands have
// exactly target's width, spending one to three units of expression
// depth (as drawn by Env.IncreaseExprDepth).
func (g *Generator) generateNumericBinary(scope names.Scope, target ast.Type, allowVar, allowCall bool) (ast.Expr, error) {
	if _, err := g.Env.IncreaseExprDepth(); err != nil {
		return ast.Expr{}, err
	}
	defer g.Env.DecreaseExprDepth()

	ops := []ast.BinOp{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpMod, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor}
	op, err := chooseFrom(g, ops)
	if err != nil {
		return ast.Expr{}, err
	}
	lhs, err := g.generateExpressionOfType(scope, target, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	rhs, err := g.generateExpressionOfType(scope, target, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.BinaryExpr(op, lhs, rhs), nil
}

// generateBoolBinary produces either a logical connective over two Bool
// operands, or a comparison/equality test over two same-typed numeric
// operands.
func (g *Generator) generateBoolBinary(scope names.Scope, allowVar, allowCall bool) (ast.Expr, error) {
	if _, err := g.Env.IncreaseExprDepth(); err != nil {
		return ast.Expr{}, err
	}
	defer g.Env.DecreaseExprDepth()

	useNumeric, err := g.boolChoice()
	if err != nil {
		return ast.Expr{}, err
	}
	if useNumeric {
		operandType, err := g.generateBasicType()
		if err != nil {
			return ast.Expr{}, err
		}
		if !operandType.Tag.IsNumeric() {
			operandType = ast.Prim(ast.TU64)
		}
		ops := []ast.BinOp{ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNeq}
		op, err := chooseFrom(g, ops)
		if err != nil {
			return ast.Expr{}, err
		}
		lhs, err := g.generateExpressionOfType(scope, operandType, allowVar, allowCall)
		if err != nil {
			return ast.Expr{}, err
		}
		rhs, err := g.generateExpressionOfType(scope, operandType, allowVar, allowCall)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.BinaryExpr(op, lhs, rhs), nil
	}

	ops := []ast.BinOp{ast.OpAnd, ast.OpOr}
	op, err := chooseFrom(g, ops)
	if err != nil {
		return ast.Expr{}, err
	}
	boolT := ast.Prim(ast.TBool)
	lhs, err := g.generateExpressionOfType(scope, boolT, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	rhs, err := g.generateExpressionOfType(scope, boolT, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.BinaryExpr(op, lhs, rhs), nil
}

// generateIfOfType produces an if/else expression whose value type is
// target: both branches are single-tail blocks generating target, and
// the condition is generated at a shrunk depth budget so branching
// doesn't let a single expression blow through the depth cap twice.
func (g *Generator) generateIfOfType(scope names.Scope, target ast.Type, allowVar, allowCall bool) (ast.Expr, error) {
	if _, err := g.Env.IncreaseExprDepth(); err != nil {
		return ast.Expr{}, err
	}
	defer g.Env.DecreaseExprDepth()

	g.Env.SetMaxExprDepth(1)
	cond, err := g.generateExpressionOfType(scope, ast.Prim(ast.TBool), allowVar, allowCall)
	g.Env.ResetMaxExprDepth()
	if err != nil {
		return ast.Expr{}, err
	}

	branchName, branchScope := g.Env.Pool.Next(names.Block, scope)
	thenExpr, err := g.generateExpressionOfType(branchScope, target, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	thenID := g.Arena.AddBlock(ast.Block{Name: branchName, Tail: &thenExpr})

	elseName, elseScope := g.Env.Pool.Next(names.Block, scope)
	elseExpr, err := g.generateExpressionOfType(elseScope, target, allowVar, allowCall)
	if err != nil {
		return ast.Expr{}, err
	}
	elseID := g.Arena.AddBlock(ast.Block{Name: elseName, Tail: &elseExpr})

	return ast.IfExpr(cond, thenID, elseID, target), nil
}

// generateDirectConstructor builds a value of target without consulting
// variables, calls, or operators: a literal for primitives, a pack
// expression for structs, a vector literal for vectors, and a borrow of
// a recursively-constructed inner value for reference types.
func (g *Generator) generateDirectConstructor(scope names.Scope, target ast.Type) (ast.Expr, error) {
	switch target.Tag {
	case ast.TU8, ast.TU16, ast.TU32, ast.TU64, ast.TU128, ast.TU256:
		v, tag, err := g.generateNumberLiteral(&target.Tag)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NumberLiteral(v, tag), nil
	case ast.TBool:
		v, err := g.boolChoice()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.BoolLiteral(v), nil
	case ast.TAddress:
		addr, err := g.generateAddressLiteral()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.AddressLiteral(addr), nil
	case ast.TVector:
		return g.generateVectorLiteral(scope, *target.Elem)
	case ast.TStruct, ast.TStructConcrete:
		return g.generateStructInitialization(scope, target)
	case ast.TRef, ast.TMutRef:
		inner, err := g.generateDirectConstructor(scope, *target.Elem)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.RefExpr(inner, target.Tag == ast.TMutRef), nil
	default:
		return ast.Expr{}, violation("generateDirectConstructor: no constructor for type tag %v", target.Tag)
	}
}

// generateStructInitialization builds a pack expression for target,
// generating one field value per declared field of the referenced
// struct.
func (g *Generator) generateStructInitialization(scope names.Scope, target ast.Type) (ast.Expr, error) {
	def := g.Arena.Struct(target.Struct)
	fields := make([]ast.FieldValue, 0, len(def.Fields))
	for _, f := range def.Fields {
		value, err := g.generateExpressionOfType(scope, f.Type, true, true)
		if err != nil {
			return ast.Expr{}, err
		}
		fields = append(fields, ast.FieldValue{Name: f.Name, Value: value})
	}
	return ast.PackExpr(def.Name, target.Struct, target.TypeArgs, fields), nil
}

// generateVectorLiteral picks uniformly among the vector-literal forms
// available for elem: an empty literal and an enumerated literal are
// always available; byte-string and hex-string forms are only offered
// when elem is u8.
func (g *Generator) generateVectorLiteral(scope names.Scope, elem ast.Type) (ast.Expr, error) {
	n := 2
	if elem.Tag == ast.TU8 {
		n = 4
	}
	choice, err := g.intRange(0, n-1)
	if err != nil {
		return ast.Expr{}, err
	}
	switch choice {
	case 0:
		return ast.VectorLiteralEmpty(elem), nil
	case 1:
		count, err := g.intRange(0, 4)
		if err != nil {
			return ast.Expr{}, err
		}
		elems := make([]ast.Expr, 0, count)
		for i := 0; i < count; i++ {
			e, err := g.generateExpressionOfType(scope, elem, true, true)
			if err != nil {
				return ast.Expr{}, err
			}
			elems = append(elems, e)
		}
		return ast.VectorLiteralEnumerated(elem, elems), nil
	case 2:
		bs, err := g.generateAsciiBytes()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.VectorLiteralByteString(bs), nil
	default:
		bs, err := g.generateRawBytes()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.VectorLiteralHexString(bs), nil
	}
}

// generateAsciiBytes draws a byte-string literal's contents, mapping
// raw entropy into the printable ASCII range so the emitted `b"..."`
// form never needs escaping.
func (g *Generator) generateAsciiBytes() ([]byte, error) {
	n, err := g.intRange(0, g.Env.Config.Generation.MaxHexByteStrSize)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	for i := range out {
		b, err := g.Env.Cursor.Uint8()
		if err != nil {
			return nil, wrapEntropy(err)
		}
		c := 0x20 + b%(0x7e-0x20+1)
		if c == '"' || c == '\\' {
			c = ' '
		}
		out[i] = c
	}
	return out, nil
}

func (g *Generator) generateRawBytes() ([]byte, error) {
	n, err := g.intRange(0, g.Env.Config.Generation.MaxHexByteStrSize)
	if err != nil {
		return nil, err
	}
	bs, err := g.Env.Cursor.Bytes(n)
	if err != nil {
		return nil, wrapEntropy(err)
	}
	return bs, nil
}

// generateExpression produces an "any type" expression used for bare
// expression-statements: a number literal, a variable access, or a
// function call, bounded to a handful of attempts and guaranteed to
// fall back to a number literal.
func (g *Generator) generateExpression(scope names.Scope) (ast.Expr, error) {
	for attempt := 0; attempt < 4; attempt++ {
		kind, err := g.intRange(0, 2)
		if err != nil {
			return ast.Expr{}, err
		}
		switch kind {
		case 0:
			v, tag, err := g.generateNumberLiteral(nil)
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.NumberLiteral(v, tag), nil
		case 1:
			ids := g.Env.LiveVars.FilterLiveVars(scope, g.Env.Pool.OfKind(names.Var))
			if len(ids) == 0 {
				continue
			}
			id, err := chooseFrom(g, ids)
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.VariableAccess(id, false), nil
		default:
			if len(g.allFunctions) == 0 {
				continue
			}
			expr, err := g.generateFunctionCall(scope)
			if err != nil {
				return ast.Expr{}, err
			}
			if expr == nil {
				continue
			}
			return *expr, nil
		}
	}
	v, tag, err := g.generateNumberLiteral(nil)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.NumberLiteral(v, tag), nil
}

// generateFunctionCall picks a uniformly random callable function and
// builds a call to it, or returns nil if none is callable from scope.
func (g *Generator) generateFunctionCall(scope names.Scope) (*ast.Expr, error) {
	fns := g.callableFunctions(scope)
	if len(fns) == 0 {
		return nil, nil
	}
	fid, err := chooseFrom(g, fns)
	if err != nil {
		return nil, err
	}
	expr, err := g.generateCallToFunction(scope, fid, true)
	if err != nil {
		return nil, err
	}
	return &expr, nil
}

// generateCallToFunction builds a call expression to fid: its callee is
// the function's fully-qualified name, and each argument is generated
// against the corresponding parameter type with allowCall forced false,
// matching the reference generator's own choice not to nest calls
// inside call arguments.
func (g *Generator) generateCallToFunction(scope names.Scope, fid ast.FuncID, allowVar bool) (ast.Expr, error) {
	f := g.Arena.Function(fid)
	callee, ok := g.Env.Pool.FlattenAccess(f.Name)
	if !ok {
		return ast.Expr{}, violation("generateCallToFunction: %v has no declaring scope", f.Name)
	}
	args := make([]ast.Expr, 0, len(f.Params))
	for _, p := range f.Params {
		arg, err := g.generateExpressionOfType(scope, p.Type, allowVar, false)
		if err != nil {
			return ast.Expr{}, err
		}
		args = append(args, arg)
	}
	return ast.CallExpr(callee, nil, args), nil
}

// callableFunctions lists every function visible from scope: its
// declaring (module) scope must be an ancestor of or equal to scope.
// Self-recursive calls are excluded unless the config allows them.
func (g *Generator) callableFunctions(scope names.Scope) []ast.FuncID {
	out := make([]ast.FuncID, 0, len(g.allFunctions))
	for _, fid := range g.allFunctions {
		if g.haveCurrentFunc && fid == g.currentFunc && !g.Env.Config.Generation.AllowRecursiveCalls {
			continue
		}
		f := g.Arena.Function(fid)
		declScope, ok := g.Env.Pool.ParentScopeOf(f.Name)
		if !ok {
			continue
		}
		if declScope.Contains(scope) {
			out = append(out, fid)
		}
	}
	return out
}

// callableFunctionsReturning narrows callableFunctions to those whose
// return type equals target exactly.
func (g *Generator) callableFunctionsReturning(target ast.Type, scope names.Scope) []ast.FuncID {
	all := g.callableFunctions(scope)
	out := make([]ast.FuncID, 0, len(all))
	for _, fid := range all {
		f := g.Arena.Function(fid)
		if f.ReturnType != nil && f.ReturnType.Equal(target) {
			out = append(out, fid)
		}
	}
	return out
}

// filteredIdentifiersOfType narrows every declared variable down to
// those visible from scope, still live, and convertible to target, in
// that filtering order (cheapest checks first).
func (g *Generator) filteredIdentifiersOfType(target ast.Type, scope names.Scope) []names.Identifier {
	ids := g.Env.Pool.OfKind(names.Var)
	ids = g.Env.Pool.FilterInScope(ids, scope)
	ids = g.Env.LiveVars.FilterLiveVars(scope, ids)
	ids = g.Env.Types.FilterIdentifierWithType(target, ids)
	return ids
}
