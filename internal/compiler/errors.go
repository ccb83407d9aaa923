package compiler

import (
	"fmt"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/utils"
)

// NotFoundError indicates a name with no resolution candidate.
type NotFoundError struct {
	Name   string
	Pos    ast.Span
	Detail string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: symbol not found: %s", e.Pos, e.Name)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// AmbiguousError is returned when overload narrowing leaves more than one
// candidate.
type AmbiguousError struct {
	Name       string
	Pos        ast.Span
	Candidates []symbols.SymbolID
}

func (e *AmbiguousError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = c.String()
	}
	return fmt.Sprintf("%s: ambiguous reference to %s, candidates: %s", e.Pos, e.Name, strings.Join(ids, ", "))
}

// TooManyError is returned when the target module declares main more than once.
type TooManyError struct {
	Symbol string
	Module symbols.IdPath
}

func (e *TooManyError) Error() string {
	return fmt.Sprintf("found more than one %s in module %s", e.Symbol, e.Module)
}

// ParseIntError carries the span of an integer literal that failed to parse.
type ParseIntError struct {
	Pos ast.Span
	Err *utils.IntLiteralError
}

func (e *ParseIntError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *ParseIntError) Unwrap() error { return e.Err }

// WrongBuiltinError is returned for a built-in prefix with an unknown
// operation name.
type WrongBuiltinError struct {
	Found string
	Pos   ast.Span
}

func (e *WrongBuiltinError) Error() string {
	return fmt.Sprintf("%s: unknown builtin function %s", e.Pos, e.Found)
}

// CallingVariableError is returned when a global variable is called with
// arguments.
type CallingVariableError struct {
	Identifier string
	File       string
}

func (e *CallingVariableError) Error() string {
	return fmt.Sprintf("%s: calling variable %s", e.File, e.Identifier)
}

// ArityError reports an argument count that does not match the parameters.
type ArityError struct {
	Name string
	Want int
	Got  int
	Pos  ast.Span
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s expects %d argument(s), got %d", e.Pos, e.Name, e.Want, e.Got)
}

// RecursionTypeError is returned when a function is referenced while it is
// still being compiled and has no declared return type to stand in for the
// unfinished body.
type RecursionTypeError struct {
	Name string
	Pos  ast.Span
}

func (e *RecursionTypeError) Error() string {
	return fmt.Sprintf("%s: recursive function %s needs a declared return type", e.Pos, e.Name)
}

// DependencyError marks a function that calls store entry Callee after
// that entry failed to compile.
type DependencyError struct {
	Name   string
	Callee mir.FunctionID
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s calls function #%d which failed to compile: %v", e.Name, e.Callee, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
