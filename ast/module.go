package ast

import "smithgen.dev/smithgen/names"

// Module is a named container of struct and function declarations,
// published under a fixed test address.
type Module struct {
	Name      names.Identifier
	Structs   []StructID
	Functions []FuncID
}

// StructByName looks up a struct declared directly in this module by
// identifier, given the arena it was allocated in.
func (m Module) StructByName(a *Arena, name names.Identifier) (StructID, bool) {
	for _, id := range m.Structs {
		if a.Struct(id).Name == name {
			return id, true
		}
	}
	return InvalidID, false
}

// FunctionByName looks up a function declared directly in this module by
// identifier, given the arena it was allocated in.
func (m Module) FunctionByName(a *Arena, name names.Identifier) (FuncID, bool) {
	for _, id := range m.Functions {
		if a.Function(id).Name == name {
			return id, true
		}
	}
	return InvalidID, false
}
