package ast

// TypeTag discriminates the Type sum described in spec.md §3.
type TypeTag int

const (
	TU8 TypeTag = iota
	TU16
	TU32
	TU64
	TU128
	TU256
	TBool
	TAddress
	TSigner
	TRef
	TMutRef
	TVector
	TStruct         // struct by identifier, optionally with type arguments
	TStructConcrete // a TStruct fully instantiated (no free type parameters)
	TTypeParamRef   // reference to an enclosing type parameter
)

// NumericTags lists every primitive integer tag, in ascending width
// order; used wherever "pick a numeric width uniformly" applies.
var NumericTags = []TypeTag{TU8, TU16, TU32, TU64, TU128, TU256}

// IsNumeric reports whether t is one of the six integer widths.
func (t TypeTag) IsNumeric() bool {
	switch t {
	case TU8, TU16, TU32, TU64, TU128, TU256:
		return true
	default:
		return false
	}
}

// Type is a value-type description of a target-language type. Elem is
// used by TRef/TMutRef/TVector; Struct+TypeArgs by TStruct/
// TStructConcrete; Param by TTypeParamRef.
type Type struct {
	Tag      TypeTag
	Elem     *Type
	Struct   StructID
	TypeArgs []Type
	Param    TypeParamRef
}

// TypeParamRef names which enclosing type parameter a TTypeParamRef
// type refers to, by position and declared name (the name is carried
// for direct emission without a further lookup).
type TypeParamRef struct {
	Index int
	Name  string
}

// Prim builds a primitive (non-composite) type for any tag that isn't
// TRef/TMutRef/TVector/TStruct/TStructConcrete/TTypeParamRef.
func Prim(tag TypeTag) Type { return Type{Tag: tag} }

// Ref builds `&elem`.
func Ref(elem Type) Type { return Type{Tag: TRef, Elem: &elem} }

// MutRef builds `&mut elem`.
func MutRef(elem Type) Type { return Type{Tag: TMutRef, Elem: &elem} }

// Vector builds `vector<elem>`.
func Vector(elem Type) Type { return Type{Tag: TVector, Elem: &elem} }

// StructType builds a (possibly generic, possibly partially
// instantiated) reference to struct id.
func StructType(id StructID, typeArgs ...Type) Type {
	return Type{Tag: TStruct, Struct: id, TypeArgs: typeArgs}
}

// StructConcrete builds a fully-instantiated struct type.
func StructConcrete(id StructID, typeArgs ...Type) Type {
	return Type{Tag: TStructConcrete, Struct: id, TypeArgs: typeArgs}
}

// TypeParamType builds a reference to the enclosing type parameter at
// index idx, named name.
func TypeParamType(idx int, name string) Type {
	return Type{Tag: TTypeParamRef, Param: TypeParamRef{Index: idx, Name: name}}
}

// Equal reports structural equality between t and other: same tag, same
// struct identity, same element/type-argument shape. Equal is the
// notion of "exactly target_type" used by generate_expression_of_type.
func (t Type) Equal(other Type) bool {
	if t.Tag != other.Tag {
		return false
	}
	switch t.Tag {
	case TRef, TMutRef, TVector:
		return t.Elem.Equal(*other.Elem)
	case TStruct, TStructConcrete:
		if t.Struct != other.Struct || len(t.TypeArgs) != len(other.TypeArgs) {
			return false
		}
		for i := range t.TypeArgs {
			if !t.TypeArgs[i].Equal(other.TypeArgs[i]) {
				return false
			}
		}
		return true
	case TTypeParamRef:
		return t.Param.Index == other.Param.Index
	default:
		return true
	}
}

// ConvertibleTo reports whether a value of type t may stand in for a
// value requested of type target: identical types always qualify, and a
// `&mut T` satisfies a request for `&T` (but not the reverse).
func (t Type) ConvertibleTo(target Type) bool {
	if t.Equal(target) {
		return true
	}
	if target.Tag == TRef && t.Tag == TMutRef {
		return t.Elem.Equal(*target.Elem)
	}
	return false
}
