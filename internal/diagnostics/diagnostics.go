// Package diagnostics holds the error taxonomy shared by the compiler,
// the evaluator and the console.
//
// Recoverable problems are ordinary error values and travel up through every
// compilation call. Internal invariant violations are raised with Fatalf,
// which panics with a *FatalError; the CLI recovers it at the top level.
package diagnostics

import (
	"errors"
	"fmt"
)

// FatalError reports a broken internal invariant. It is never returned as an
// error value, only carried by a panic.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Message
}

// Fatalf aborts the current compilation run.
func Fatalf(format string, args ...interface{}) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}

// RecoverFatal converts a *FatalError panic into an error stored in errp.
// Any other panic is re-raised untouched.
func RecoverFatal(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if fe, ok := r.(*FatalError); ok {
		*errp = fe
		return
	}
	panic(r)
}

// IsFatal reports whether err is (or wraps) a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// TypeError is a mismatch between the type that was found and the type that
// an operation wanted. It is used both at compile time (static types) and at
// run time (value types).
type TypeError struct {
	Got    string
	Wanted string
	Pos    string // optional source position
}

func (e *TypeError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: type error: got %s, wanted %s", e.Pos, e.Got, e.Wanted)
	}
	return fmt.Sprintf("type error: got %s, wanted %s", e.Got, e.Wanted)
}

func NewTypeError(got, wanted string) *TypeError {
	return &TypeError{Got: got, Wanted: wanted}
}
