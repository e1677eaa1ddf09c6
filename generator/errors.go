package generator

import (
	"errors"
	"fmt"

	"smithgen.dev/smithgen/genenv"
	"smithgen.dev/smithgen/selection"
)

// ErrEntropyExhausted is returned once the entropy buffer cannot
// satisfy a further selection. Non-fatal: the caller discards the
// in-progress attempt.
var ErrEntropyExhausted = errors.New("generator: entropy exhausted")

// ErrBudgetExceeded is genenv.ErrBudgetExceeded re-exported under this
// package so callers need only import generator to handle every
// non-fatal failure kind.
var ErrBudgetExceeded = genenv.ErrBudgetExceeded

// InvariantViolation marks an unreachable branch that was nonetheless
// reached: no viable expression candidate, an unbound identifier, a
// type pool miss. Fatal; callers should surface it with context rather
// than discard and retry.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "generator: invariant violation: " + e.Msg
}

func violation(format string, args ...any) error {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

// wrapEntropy maps selection.ErrOutOfData onto ErrEntropyExhausted so
// callers above this package only ever see the three error kinds
// spec.md's error-handling section names.
func wrapEntropy(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, selection.ErrOutOfData) {
		return ErrEntropyExhausted
	}
	return err
}
