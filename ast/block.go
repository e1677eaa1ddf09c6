package ast

import "smithgen.dev/smithgen/names"

// Block is a lexically-scoped sequence of statements with an optional
// trailing expression that determines the block's value.
type Block struct {
	Name  names.Identifier
	Stmts []Stmt
	Tail  *Expr
}
