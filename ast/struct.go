package ast

import "smithgen.dev/smithgen/names"

// TypeParam is an ordered (name, ability constraints, phantom?) entry in
// a struct's or function's type-parameter list.
type TypeParam struct {
	Name        names.Identifier
	Constraints AbilitySet
	Phantom     bool
}

// Field is a (name, type) struct member or function parameter.
type Field struct {
	Name names.Identifier
	Type Type
}

// StructDef is a struct declaration. Fields are filled in pass 2; pass 1
// only establishes Name, Abilities and TypeParams (the struct's
// skeleton, per spec.md §4.5).
type StructDef struct {
	Name       names.Identifier
	Abilities  AbilitySet
	TypeParams []TypeParam
	Fields     []Field
}

// FieldNamed returns the field named name and true, or the zero Field
// and false.
func (s *StructDef) FieldNamed(name names.Identifier) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
