package generator

import (
	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/names"
)

// generateScript builds the top-level script (a sequence of calls into
// published functions, every argument built without variables since
// allowVar is forced false) and the //# run directive list derived from it: each
// distinct callee, in first-occurrence order, repeated
// NumRunsPerFunc times.
func (g *Generator) generateScript() (*ast.Script, []names.Identifier, error) {
	if len(g.allFunctions) == 0 {
		return &ast.Script{}, nil, nil
	}

	n, err := g.intRange(1, g.Env.Config.Generation.MaxNumCallsInScript)
	if err != nil {
		return nil, nil, err
	}

	calls := make([]ast.Expr, 0, n)
	seen := make(map[names.Identifier]bool)
	var order []names.Identifier

	for i := 0; i < n; i++ {
		fid, err := chooseFrom(g, g.allFunctions)
		if err != nil {
			return nil, nil, err
		}
		call, err := g.generateCallToFunction(names.RootScope, fid, false)
		if err != nil {
			return nil, nil, err
		}
		calls = append(calls, call)

		f := g.Arena.Function(fid)
		callee, ok := g.Env.Pool.FlattenAccess(f.Name)
		if !ok {
			return nil, nil, violation("generateScript: %v has no declaring scope", f.Name)
		}
		if !seen[callee] {
			seen[callee] = true
			order = append(order, callee)
		}
	}

	var runs []names.Identifier
	for _, callee := range order {
		for i := 0; i < g.Env.Config.Generation.NumRunsPerFunc; i++ {
			runs = append(runs, callee)
		}
	}

	return &ast.Script{Calls: calls}, runs, nil
}
