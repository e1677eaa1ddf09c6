package generator

import (
	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

// generateFunctionSkeleton allocates a function name and its full
// signature (visibility, inline?, parameters, return type). The body
// is left empty until fillFunction runs in pass 2.
func (g *Generator) generateFunctionSkeleton(parentScope names.Scope) (ast.FuncID, error) {
	name, scope := g.Env.Pool.Next(names.Function, parentScope)

	params, err := g.generateParams(scope)
	if err != nil {
		return 0, err
	}

	hasReturn, err := g.boolChoice()
	if err != nil {
		return 0, err
	}
	var returnType *ast.Type
	if hasReturn {
		t, err := g.generateBasicType()
		if err != nil {
			return 0, err
		}
		returnType = &t
	}

	inline, err := g.ratio(1, 4)
	if err != nil {
		return 0, err
	}
	inline = inline && g.Env.RecordInlineFunc()

	return g.Arena.AddFunction(ast.Function{
		Name:       name,
		Public:     true,
		Inline:     inline,
		Params:     params,
		ReturnType: returnType,
		State:      ast.StateSignatureRegistered,
	}), nil
}

func (g *Generator) generateParams(scope names.Scope) ([]ast.Field, error) {
	n, err := g.intRange(0, g.Env.Config.Generation.MaxNumParamsInFunc)
	if err != nil {
		return nil, err
	}
	params := make([]ast.Field, 0, n)
	for i := 0; i < n; i++ {
		typ, err := g.generateBasicType()
		if err != nil {
			return nil, err
		}
		name := g.declareVar(scope, typ)
		params = append(params, ast.Field{Name: name, Type: typ})
	}
	return params, nil
}

// fillFunction generates the function's body block and finalizes its
// acquires set, completing the per-function state machine:
// signature-registered -> body-filled -> acquires-finalized.
func (g *Generator) fillFunction(id ast.FuncID) error {
	f := g.Arena.Function(id)
	scope := g.Env.Pool.ScopeForChildren(f.Name)

	prevFunc, hadPrev := g.currentFunc, g.haveCurrentFunc
	g.currentFunc, g.haveCurrentFunc = id, true
	defer func() { g.currentFunc, g.haveCurrentFunc = prevFunc, hadPrev }()

	block, err := g.generateFunctionBlock(&f, scope, true)
	if err != nil {
		return err
	}
	f.Body = &block
	f.State = ast.StateBodyFilled
	f.State = ast.StateAcquiresFinalized
	g.Arena.SetFunction(id, f)
	return nil
}

// generateFunctionBlock produces a block of statements, optionally
// interleaved resource/vector operations (top level only), and a tail
// expression matching f.ReturnType when present.
func (g *Generator) generateFunctionBlock(f *ast.Function, scope names.Scope, topLevel bool) (ast.BlockID, error) {
	blockName, blockScope := g.Env.Pool.Next(names.Block, scope)

	maxStmts := g.Env.Config.Generation.MaxNumStmtsInBlock
	if topLevel {
		maxStmts = g.Env.Config.Generation.MaxNumStmtsInFunc
	}
	n, err := g.intRange(0, maxStmts)
	if err != nil {
		return 0, err
	}

	stmts := make([]ast.Stmt, 0, n)
	for i := 0; i < n; i++ {
		stmt, err := g.generateStatement(blockScope)
		if err != nil {
			return 0, err
		}
		stmts = append(stmts, stmt)
	}

	if topLevel {
		numOps, err := g.intRange(0, g.Env.Config.Generation.MaxNumAdditionalOperationsInFunc)
		if err != nil {
			return 0, err
		}
		for i := 0; i < numOps; i++ {
			stmt, err := g.generateInterleavedOpStatement(f, blockScope)
			if err != nil {
				return 0, err
			}
			stmts = append(stmts, stmt)
		}
	}

	var tail *ast.Expr
	if f.ReturnType != nil {
		expr, err := g.generateExpressionOfType(blockScope, *f.ReturnType, true, true)
		if err != nil {
			return 0, err
		}
		tail = &expr
	}

	return g.Arena.AddBlock(ast.Block{Name: blockName, Stmts: stmts, Tail: tail}), nil
}

// generateStatement produces either a declaration or a bare expression
// statement, chosen with equal weight.
func (g *Generator) generateStatement(scope names.Scope) (ast.Stmt, error) {
	kind, err := g.intRange(0, 1)
	if err != nil {
		return ast.Stmt{}, err
	}
	if kind == 0 {
		return g.generateDeclaration(scope)
	}
	expr, err := g.generateExpression(scope)
	if err != nil {
		return ast.Stmt{}, err
	}
	return ast.ExprStmt(expr), nil
}

func (g *Generator) generateDeclaration(scope names.Scope) (ast.Stmt, error) {
	typ, err := g.generateBasicType()
	if err != nil {
		return ast.Stmt{}, err
	}
	value, err := g.generateExpressionOfType(scope, typ, true, true)
	if err != nil {
		return ast.Stmt{}, err
	}
	name := g.declareVar(scope, typ)
	return ast.Declaration(name, typ, value), nil
}

// generateInterleavedOpStatement produces one of the interleaved
// resource/vector operations spec.md's function-body-filling step
// calls for. A resource op is chosen with even odds whenever a
// storage-bearing struct is in scope; otherwise it falls back to a
// vector op.
func (g *Generator) generateInterleavedOpStatement(f *ast.Function, scope names.Scope) (ast.Stmt, error) {
	storageStructs := g.storageBearingStructsInScope()
	wantResource := false
	if len(storageStructs) > 0 {
		v, err := g.boolChoice()
		if err != nil {
			return ast.Stmt{}, err
		}
		wantResource = v
	}
	if wantResource {
		return g.generateResourceOpStatement(f, scope, storageStructs)
	}
	return g.generateVectorOpStatement(scope)
}

// storageBearingStructsInScope lists every Key-ability struct generated
// so far. Every module shares the single 0xCAFE address namespace, so
// global-storage operations may target any struct already declared,
// regardless of which module scope is currently being filled.
func (g *Generator) storageBearingStructsInScope() []ast.StructID {
	var out []ast.StructID
	for _, sid := range g.allStructs {
		if g.Arena.Struct(sid).Abilities.Has(ast.Key) {
			out = append(out, sid)
		}
	}
	return out
}

var resourceOps = []ast.ResourceOpKind{
	ast.ResourceMoveTo,
	ast.ResourceMoveFrom,
	ast.ResourceBorrowGlobal,
	ast.ResourceBorrowGlobalMut,
	ast.ResourceExists,
}

func (g *Generator) generateResourceOpStatement(f *ast.Function, scope names.Scope, candidates []ast.StructID) (ast.Stmt, error) {
	sid, err := chooseFrom(g, candidates)
	if err != nil {
		return ast.Stmt{}, err
	}
	def := g.Arena.Struct(sid)

	op, err := chooseFrom(g, resourceOps)
	if err != nil {
		return ast.Stmt{}, err
	}

	addr, err := g.generateExpressionOfType(scope, ast.Prim(ast.TAddress), true, true)
	if err != nil {
		return ast.Stmt{}, err
	}

	if op == ast.ResourceMoveTo {
		value, err := g.generateExpressionOfType(scope, ast.StructType(sid), true, true)
		if err != nil {
			return ast.Stmt{}, err
		}
		return ast.ExprStmt(ast.MoveToExpr(def.Name, sid, nil, addr, value)), nil
	}

	if op.RequiresAcquires() {
		f.AddAcquires(sid)
	}
	expr := ast.ResourceOpExpr(op, def.Name, sid, nil, addr)

	var resultType ast.Type
	switch op {
	case ast.ResourceMoveFrom, ast.ResourceBorrowGlobal:
		resultType = ast.StructType(sid)
	case ast.ResourceBorrowGlobalMut:
		resultType = ast.MutRef(ast.StructType(sid))
	case ast.ResourceExists:
		resultType = ast.Prim(ast.TBool)
	}
	name := g.declareVar(scope, resultType)
	return ast.Stmt{
		Kind:      ast.StmtDecl,
		DeclName:  name,
		DeclType:  resultType,
		DeclValue: &expr,
	}, nil
}

func (g *Generator) generateVectorOpStatement(scope names.Scope) (ast.Stmt, error) {
	elem, err := g.generateBasicType()
	if err != nil {
		return ast.Stmt{}, err
	}

	kind, err := g.intRange(0, 2)
	if err != nil {
		return ast.Stmt{}, err
	}

	switch kind {
	case 0: // vector::empty<Elem>()
		expr := ast.VectorEmptyExpr(elem)
		typ := ast.Vector(elem)
		name := g.declareVar(scope, typ)
		return ast.Declaration(name, typ, expr), nil
	case 1: // vector::is_empty(v)
		target, err := g.generateExpressionOfType(scope, ast.Vector(elem), true, true)
		if err != nil {
			return ast.Stmt{}, err
		}
		expr := ast.VectorOpExpr(ast.VectorOpIsEmpty, target)
		typ := ast.Prim(ast.TBool)
		name := g.declareVar(scope, typ)
		return ast.Declaration(name, typ, expr), nil
	default: // vector::rotate(&mut v)
		target, err := g.generateExpressionOfType(scope, ast.MutRef(ast.Vector(elem)), true, true)
		if err != nil {
			return ast.Stmt{}, err
		}
		return ast.ExprStmt(ast.VectorOpExpr(ast.VectorOpRotate, target)), nil
	}
}
