// Package genenv holds the generation engine's single mutable record:
// configuration, the identifier/type/live-variable pools, depth
// bookkeeping, the wall-clock budget, and the per-run counters the
// engine consults while synthesizing a compile unit.
package genenv

import (
	"time"

	"smithgen.dev/smithgen/config"
	"smithgen.dev/smithgen/names"
	"smithgen.dev/smithgen/selection"
	"smithgen.dev/smithgen/typetrack"
)

// Env is passed by pointer through every generation call; it is
// exclusively owned by one generator invocation and discarded with it.
type Env struct {
	Config *config.Config
	Cursor *selection.Cursor

	Pool     *names.Pool
	Types    *typetrack.Pool
	LiveVars *typetrack.LivePool

	exprDepth      int
	exprDepthStack []int
	typeDepth      int
	typeDepthStack []int

	maxExprDepthOverride []int

	start   time.Time
	timeout time.Duration

	inlineFuncsEmitted      int
	structTypedFieldsEmitted int
}

// New builds an environment for a single generation attempt over buf,
// bound by cfg.
func New(cfg *config.Config, buf []byte) *Env {
	return &Env{
		Config:   cfg,
		Cursor:   selection.NewCursor(buf),
		Pool:     names.NewPool(),
		Types:    typetrack.NewPool(),
		LiveVars: typetrack.NewLivePool(),
		start:    startTime(),
		timeout:  time.Duration(cfg.Generation.GenerationTimeoutSec) * time.Second,
	}
}

// startTime exists so tests can observe Env.start without depending on
// wall-clock time directly; production callers always get time.Now.
var startTime = time.Now

// IncreaseExprDepth consumes {1,2,3} from entropy and pushes the
// increment, letting the generator spend depth budget unevenly for
// variety. Returns the amount pushed.
func (e *Env) IncreaseExprDepth() (int, error) {
	step, err := selection.Choose(e.Cursor, []int{1, 2, 3})
	if err != nil {
		return 0, err
	}
	e.exprDepthStack = append(e.exprDepthStack, step)
	e.exprDepth += step
	return step, nil
}

// DecreaseExprDepth pops the last push made by IncreaseExprDepth. It is
// a programming error to call this with no matching increase pending.
func (e *Env) DecreaseExprDepth() {
	n := len(e.exprDepthStack)
	step := e.exprDepthStack[n-1]
	e.exprDepthStack = e.exprDepthStack[:n-1]
	e.exprDepth -= step
}

// ExprDepth returns the current expression depth; tests assert this is
// 0 once generation completes, confirming every push was matched by a
// pop.
func (e *Env) ExprDepth() int { return e.exprDepth }

// EffectiveMaxExprDepth returns the active max-expr-depth bound: the top
// of the override stack if set, else Config.Generation.MaxExprDepth.
func (e *Env) EffectiveMaxExprDepth() int {
	if n := len(e.maxExprDepthOverride); n > 0 {
		return e.maxExprDepthOverride[n-1]
	}
	return e.Config.Generation.MaxExprDepth
}

// SetMaxExprDepth pushes a temporary override, e.g. to shrink the
// expressions allowed inside an if-condition.
func (e *Env) SetMaxExprDepth(n int) {
	e.maxExprDepthOverride = append(e.maxExprDepthOverride, n)
}

// ResetMaxExprDepth pops the most recent override.
func (e *Env) ResetMaxExprDepth() {
	n := len(e.maxExprDepthOverride)
	e.maxExprDepthOverride = e.maxExprDepthOverride[:n-1]
}

// ReachedExprDepthLimit reports whether the current expression depth
// has reached or exceeded the effective max.
func (e *Env) ReachedExprDepthLimit() bool {
	return e.exprDepth >= e.EffectiveMaxExprDepth()
}

// IncreaseTypeDepth / DecreaseTypeDepth mirror the expression-depth
// stack for nested type instantiation (e.g. vector<vector<...>>).
func (e *Env) IncreaseTypeDepth() {
	e.typeDepthStack = append(e.typeDepthStack, 1)
	e.typeDepth++
}

func (e *Env) DecreaseTypeDepth() {
	n := len(e.typeDepthStack)
	e.typeDepthStack = e.typeDepthStack[:n-1]
	e.typeDepth--
}

func (e *Env) TypeDepth() int { return e.typeDepth }

// ReachedTypeDepthLimit reports whether the current type depth has hit
// Config.Generation.MaxTypeDepth.
func (e *Env) ReachedTypeDepthLimit() bool {
	return e.typeDepth >= e.Config.Generation.MaxTypeDepth
}

// CheckTimeout is consulted at every recursive entry point in the
// engine; once the wall-clock budget has elapsed it returns
// ErrBudgetExceeded.
func (e *Env) CheckTimeout() error {
	if e.timeout <= 0 {
		return nil
	}
	if time.Since(e.start) >= e.timeout {
		return ErrBudgetExceeded
	}
	return nil
}

// RecordInlineFunc increments the inline-function counter and reports
// whether the function may still be declared inline (stays within
// Config.Generation.MaxNumInlineFuncs).
func (e *Env) RecordInlineFunc() bool {
	if e.inlineFuncsEmitted >= e.Config.Generation.MaxNumInlineFuncs {
		return false
	}
	e.inlineFuncsEmitted++
	return true
}

// InlineFuncsEmitted reports the running inline-function count.
func (e *Env) InlineFuncsEmitted() int { return e.inlineFuncsEmitted }

// RecordStructTypedField increments the global struct-typed-field
// counter and reports whether another one may still be emitted (stays
// within Config.Generation.MaxNumFieldsOfStructType).
func (e *Env) RecordStructTypedField() bool {
	if e.structTypedFieldsEmitted >= e.Config.Generation.MaxNumFieldsOfStructType {
		return false
	}
	e.structTypedFieldsEmitted++
	return true
}

// StructTypedFieldsEmitted reports the running struct-typed-field count.
func (e *Env) StructTypedFieldsEmitted() int { return e.structTypedFieldsEmitted }
