package generator

import (
	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

// generateModuleSkeleton allocates a module name under the hard-coded
// address scope, then its struct and function skeletons (pass 1, steps
// 1-3 of spec.md's generation engine).
func (g *Generator) generateModuleSkeleton() (ast.ModuleID, error) {
	name, scope := g.Env.Pool.Next(names.Module, names.AddressScope)

	numStructs, err := g.intRange(1, g.Env.Config.Generation.MaxNumStructsInModule)
	if err != nil {
		return 0, err
	}
	structs := make([]ast.StructID, 0, numStructs)
	for i := 0; i < numStructs; i++ {
		id, err := g.generateStructSkeleton(scope)
		if err != nil {
			return 0, err
		}
		structs = append(structs, id)
		g.allStructs = append(g.allStructs, id)
	}

	numFuncs, err := g.intRange(1, g.Env.Config.Generation.MaxNumFunctionsInModule)
	if err != nil {
		return 0, err
	}
	functions := make([]ast.FuncID, 0, numFuncs)
	for i := 0; i < numFuncs; i++ {
		id, err := g.generateFunctionSkeleton(scope)
		if err != nil {
			return 0, err
		}
		functions = append(functions, id)
		g.allFunctions = append(g.allFunctions, id)
	}

	return g.Arena.AddModule(ast.Module{Name: name, Structs: structs, Functions: functions}), nil
}

// fillModule fills every struct's fields, then every function's body,
// in the module's declaration order (pass 2).
func (g *Generator) fillModule(id ast.ModuleID) error {
	m := g.Arena.Module(id)
	scope := g.Env.Pool.ScopeForChildren(m.Name)

	for _, sid := range m.Structs {
		if err := g.fillStruct(sid, m.Structs, scope); err != nil {
			return err
		}
	}
	for _, fid := range m.Functions {
		if err := g.fillFunction(fid); err != nil {
			return err
		}
	}
	return nil
}

// generateStructSkeleton allocates a struct name and a random ability
// subset, and registers the struct's nominal (uninstantiated) type.
func (g *Generator) generateStructSkeleton(parentScope names.Scope) (ast.StructID, error) {
	name, _ := g.Env.Pool.Next(names.Struct, parentScope)
	abilities, err := g.generateAbilitySet()
	if err != nil {
		return 0, err
	}
	id := g.Arena.AddStruct(ast.StructDef{Name: name, Abilities: abilities})
	g.Env.Types.Register(name, ast.StructType(id))
	return id, nil
}

// generateAbilitySet picks a random subset of {Copy, Drop, Store, Key}
// by repeatedly drawing without replacement from the remaining
// choices, then folds in Store whenever Key was picked: the target
// language requires Key to imply Store, and unlike the draw-without-
// -replacement shape itself (kept from the reference generator), that
// implication is not something a caller should have to fix up after
// the fact.
func (g *Generator) generateAbilitySet() (ast.AbilitySet, error) {
	choices := []ast.Ability{ast.Copy, ast.Drop, ast.Store, ast.Key}
	n, err := g.intRange(0, 3)
	if err != nil {
		return 0, err
	}

	var set ast.AbilitySet
	for i := 0; i < n && len(choices) > 0; i++ {
		idx, err := g.intRange(0, len(choices)-1)
		if err != nil {
			return 0, err
		}
		set = set.Union(choices[idx])
		choices = append(choices[:idx], choices[idx+1:]...)
	}
	if set.Has(ast.Key) {
		set = set.Union(ast.Store)
	}
	return set, nil
}

// fillStruct fills st's field list: each field's type is chosen by
// biased basic/struct choice, and struct-typed fields are filtered to
// candidates that carry every ability st declares, carry Store if st
// requires Key, and do not reach back to st (acyclicity).
func (g *Generator) fillStruct(id ast.StructID, siblings []ast.StructID, parentScope names.Scope) error {
	s := g.Arena.Struct(id)
	scope := g.Env.Pool.ScopeForChildren(s.Name)

	n, err := g.intRange(0, g.Env.Config.Generation.MaxNumFieldsInStruct)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		typ, err := g.pickStructFieldType(id, siblings)
		if err != nil {
			return err
		}
		name := g.declareVar(scope, typ)
		s.Fields = append(s.Fields, ast.Field{Name: name, Type: typ})
	}
	g.Arena.SetStruct(id, s)
	return nil
}

// pickStructFieldType draws a basic type two parts in three, or a
// struct type the remaining part, falling back to a basic type if no
// struct candidate is usable or the global struct-typed-field cap has
// been reached.
func (g *Generator) pickStructFieldType(id ast.StructID, siblings []ast.StructID) (ast.Type, error) {
	for attempt := 0; attempt < 8; attempt++ {
		choice, err := g.intRange(0, 2)
		if err != nil {
			return ast.Type{}, err
		}
		if choice != 2 {
			return g.generateBasicType()
		}

		candidates := g.usableStructFields(id, siblings)
		if len(candidates) == 0 {
			continue
		}
		if !g.Env.RecordStructTypedField() {
			continue
		}
		chosen, err := chooseFrom(g, candidates)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.StructType(chosen), nil
	}
	return g.generateBasicType()
}

func (g *Generator) usableStructFields(id ast.StructID, siblings []ast.StructID) []ast.StructID {
	enclosing := g.Arena.Struct(id)
	desired := enclosing.Abilities

	out := make([]ast.StructID, 0, len(siblings))
	for _, cand := range siblings {
		if cand == id {
			continue
		}
		def := g.Arena.Struct(cand)
		if def.Abilities&desired != desired {
			continue
		}
		if desired.Has(ast.Key) && !def.Abilities.Has(ast.Store) {
			continue
		}
		if g.Arena.StructReachableFrom(cand, id) {
			continue
		}
		out = append(out, cand)
	}
	return out
}
