package generator_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/emit"
	"smithgen.dev/smithgen/generator"
)

// TestGeneratedUnitsSatisfyCoreInvariants checks, for arbitrary entropy
// buffers, the invariants spec.md's Testable Properties section names:
// every struct's ability set is valid (Key implies Store), no struct
// field chain cycles back to its own enclosing struct, and regenerating
// from the same (config, buffer) pair reproduces byte-identical output.
func TestGeneratedUnitsSatisfyCoreInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("every generated struct has a valid ability set", prop.ForAll(
		func(seed, size int) bool {
			cfg := smallConfig()
			buf := deterministicBuffer(size, byte(seed))
			g := generator.New(cfg, buf)
			if _, err := g.Generate(); err != nil {
				return true // short/unlucky buffers are allowed to fail generation
			}
			for i := 0; i < g.Arena.NumStructs(); i++ {
				if !g.Arena.Struct(ast.StructID(i)).Abilities.Validate() {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 255),
		gen.IntRange(256, 8192),
	))

	properties.Property("no struct field chain reaches its own enclosing struct", prop.ForAll(
		func(seed, size int) bool {
			cfg := smallConfig()
			buf := deterministicBuffer(size, byte(seed))
			g := generator.New(cfg, buf)
			if _, err := g.Generate(); err != nil {
				return true
			}
			for i := 0; i < g.Arena.NumStructs(); i++ {
				sid := ast.StructID(i)
				for _, f := range g.Arena.Struct(sid).Fields {
					if f.Type.Tag != ast.TStruct && f.Type.Tag != ast.TStructConcrete {
						continue
					}
					if g.Arena.StructReachableFrom(f.Type.Struct, sid) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 255),
		gen.IntRange(256, 16384),
	))

	properties.Property("regeneration from the same buffer is deterministic", prop.ForAll(
		func(seed, size int) bool {
			cfg := smallConfig()
			buf := deterministicBuffer(size, byte(seed))

			g1 := generator.New(cfg, append([]byte(nil), buf...))
			unit1, err1 := g1.Generate()

			g2 := generator.New(cfg, append([]byte(nil), buf...))
			unit2, err2 := g2.Generate()

			if (err1 == nil) != (err2 == nil) {
				return false
			}
			if err1 != nil {
				return err1.Error() == err2.Error()
			}
			return emit.CompileUnit(g1.Arena, unit1) == emit.CompileUnit(g2.Arena, unit2)
		},
		gen.IntRange(0, 255),
		gen.IntRange(256, 8192),
	))

	properties.TestingRun(t)
}
