package ast

import "smithgen.dev/smithgen/names"

// CompileUnit is the top-level synthesis output: the modules to publish,
// an optional script, and the ordered list of `//# run` directives the
// emitter prints after publishing.
type CompileUnit struct {
	Modules []ModuleID
	Script  *Script
	Runs    []names.Identifier
}

// AddRun appends a run directive naming a published function.
func (c *CompileUnit) AddRun(fn names.Identifier) {
	c.Runs = append(c.Runs, fn)
}
