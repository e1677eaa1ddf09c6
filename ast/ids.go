package ast

// ModuleID, StructID, FuncID and BlockID index into an Arena's slabs.
// Per spec.md's arena+index design note, the AST refers to its
// container entities by these integer handles instead of interior
// mutable pointers, so passes mutate the arena directly and emission
// walks it read-only.
type (
	ModuleID int
	StructID int
	FuncID   int
	BlockID  int
)

// InvalidID is returned by lookups that found nothing; valid IDs are
// always >= 0 since they are slab indices.
const InvalidID = -1
