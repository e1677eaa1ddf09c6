package ast

// WalkExpr calls visit on e and then recursively on every sub-expression
// e contains, in left-to-right evaluation order. It is the traversal
// every expression-collection query builds on.
func WalkExpr(e Expr, visit func(Expr)) {
	visit(e)
	switch e.Kind {
	case ExprVectorLiteral:
		for _, elem := range e.VectorElems {
			WalkExpr(elem, visit)
		}
	case ExprRef, ExprDeref:
		if e.Inner != nil {
			WalkExpr(*e.Inner, visit)
		}
	case ExprAssign:
		if e.Lhs != nil {
			WalkExpr(*e.Lhs, visit)
		}
		if e.Rhs != nil {
			WalkExpr(*e.Rhs, visit)
		}
	case ExprBinary:
		for _, operand := range e.Operands {
			if operand != nil {
				WalkExpr(*operand, visit)
			}
		}
	case ExprIf:
		if e.Cond != nil {
			WalkExpr(*e.Cond, visit)
		}
		// ThenBlock/ElseBlock are arena references walked separately via
		// WalkBlock, since Expr alone cannot resolve a BlockID.
	case ExprCall:
		for _, arg := range e.Args {
			WalkExpr(arg, visit)
		}
	case ExprPack:
		for _, fv := range e.FieldValues {
			WalkExpr(fv.Value, visit)
		}
	case ExprResourceOp:
		if e.ResAddr != nil {
			WalkExpr(*e.ResAddr, visit)
		}
		if e.ResValue != nil {
			WalkExpr(*e.ResValue, visit)
		}
	case ExprVectorOp:
		if e.VecTarget != nil {
			WalkExpr(*e.VecTarget, visit)
		}
	}
}

// WalkBlock walks every expression reachable from a block: each
// statement's declaration value or bare expression, the tail
// expression, and (through ExprIf's ThenBlock/ElseBlock) nested blocks
// resolved via arena.
func WalkBlock(arena *Arena, block Block, visit func(Expr)) {
	for _, stmt := range block.Stmts {
		switch stmt.Kind {
		case StmtDecl:
			if stmt.DeclValue != nil {
				walkExprAndNestedBlocks(arena, *stmt.DeclValue, visit)
			}
		case StmtExpr:
			walkExprAndNestedBlocks(arena, stmt.Expr, visit)
		}
	}
	if block.Tail != nil {
		walkExprAndNestedBlocks(arena, *block.Tail, visit)
	}
}

func walkExprAndNestedBlocks(arena *Arena, e Expr, visit func(Expr)) {
	WalkExpr(e, func(sub Expr) {
		visit(sub)
		if sub.Kind == ExprIf {
			WalkBlock(arena, arena.Block(sub.ThenBlock), visit)
			WalkBlock(arena, arena.Block(sub.ElseBlock), visit)
		}
	})
}

// CollectExpressions returns every expression reachable from block
// (recursively, including nested if-blocks) whose Kind matches
// predicate, in traversal order.
func CollectExpressions(arena *Arena, block Block, predicate func(ExprKind) bool) []Expr {
	var out []Expr
	WalkBlock(arena, block, func(e Expr) {
		if predicate(e.Kind) {
			out = append(out, e)
		}
	})
	return out
}
