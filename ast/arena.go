package ast

// Arena owns every Module, StructDef, Function and Block allocated
// during generation. The rest of the AST refers to arena entries by ID
// rather than by pointer, so passes mutate by replacing an entry
// wholesale (Arena.SetStruct, Arena.SetFunction, ...) instead of holding
// long-lived pointers into a slice that may still grow.
type Arena struct {
	modules   []Module
	structs   []StructDef
	functions []Function
	blocks    []Block
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) AddModule(m Module) ModuleID {
	a.modules = append(a.modules, m)
	return ModuleID(len(a.modules) - 1)
}

func (a *Arena) AddStruct(s StructDef) StructID {
	a.structs = append(a.structs, s)
	return StructID(len(a.structs) - 1)
}

func (a *Arena) AddFunction(f Function) FuncID {
	a.functions = append(a.functions, f)
	return FuncID(len(a.functions) - 1)
}

func (a *Arena) AddBlock(b Block) BlockID {
	a.blocks = append(a.blocks, b)
	return BlockID(len(a.blocks) - 1)
}

func (a *Arena) Module(id ModuleID) Module     { return a.modules[id] }
func (a *Arena) Struct(id StructID) StructDef  { return a.structs[id] }
func (a *Arena) Function(id FuncID) Function   { return a.functions[id] }
func (a *Arena) Block(id BlockID) Block        { return a.blocks[id] }

func (a *Arena) SetModule(id ModuleID, m Module)     { a.modules[id] = m }
func (a *Arena) SetStruct(id StructID, s StructDef)  { a.structs[id] = s }
func (a *Arena) SetFunction(id FuncID, f Function)   { a.functions[id] = f }
func (a *Arena) SetBlock(id BlockID, b Block)        { a.blocks[id] = b }

// Modules returns every allocated module ID in allocation order.
func (a *Arena) Modules() []ModuleID {
	ids := make([]ModuleID, len(a.modules))
	for i := range a.modules {
		ids[i] = ModuleID(i)
	}
	return ids
}

// NumStructs and NumFunctions report arena size, used by callers that
// need to enumerate by ID without holding a slice copy.
func (a *Arena) NumStructs() int   { return len(a.structs) }
func (a *Arena) NumFunctions() int { return len(a.functions) }

// Abilities computes the ability set of t, resolving struct/type-argument
// abilities against this arena's struct definitions. References always
// carry exactly {Copy, Drop}; vectors and structs intersect their own
// constitutive abilities with the abilities non-phantom type arguments
// actually carry, since a generic container only gets an ability if its
// filled-in contents support it too.
func (a *Arena) Abilities(t Type) AbilitySet {
	switch t.Tag {
	case TBool, TAddress, TU8, TU16, TU32, TU64, TU128, TU256:
		return Copy | Drop | Store
	case TSigner:
		return Drop
	case TRef, TMutRef:
		return Copy | Drop
	case TVector:
		elemAbilities := a.Abilities(*t.Elem)
		return (Copy | Drop | Store) & (elemAbilities | Key)
	case TStruct, TStructConcrete:
		def := a.structs[t.Struct]
		abilities := def.Abilities
		for i, arg := range t.TypeArgs {
			if i < len(def.TypeParams) && def.TypeParams[i].Phantom {
				continue
			}
			argAbilities := a.Abilities(arg)
			abilities &= (argAbilities | Key)
		}
		return abilities
	case TTypeParamRef:
		return AllAbilities // resolved structurally; callers constrain via the owning TypeParam.Constraints instead
	default:
		return 0
	}
}

// StructReachableFrom reports whether, starting at the fields of
// source, the struct target is reachable by following struct-typed
// field chains. source == target is always reachable (the degenerate,
// zero-length chain), matching the acyclicity check used while
// selecting a struct-typed field candidate.
func (a *Arena) StructReachableFrom(source, target StructID) bool {
	return a.reachable(source, target, make(map[StructID]bool))
}

func (a *Arena) reachable(source, target StructID, seen map[StructID]bool) bool {
	if source == target {
		return true
	}
	if seen[source] {
		return false
	}
	seen[source] = true
	def := a.structs[source]
	for _, f := range def.Fields {
		var nested StructID
		switch f.Type.Tag {
		case TStruct, TStructConcrete:
			nested = f.Type.Struct
		default:
			continue
		}
		if a.reachable(nested, target, seen) {
			return true
		}
	}
	return false
}
