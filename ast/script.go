package ast

// Script is a single top-level `script { }` block: a sequence of calls
// into published module functions, generated with allow_var=false so
// no argument refers to a bound local.
type Script struct {
	Calls []Expr
}
