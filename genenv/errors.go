package genenv

import "errors"

// ErrBudgetExceeded is returned by CheckTimeout once the generation
// attempt's wall-clock budget has elapsed. Non-fatal: callers discard
// the in-progress attempt.
var ErrBudgetExceeded = errors.New("genenv: generation timeout exceeded")
