// Package evaluator executes compiled mir functions.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/solar-lang/solar-compiler/internal/config"
	"github.com/solar-lang/solar-compiler/internal/console"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// FunctionSource hands out completed functions by store index.
// *compiler.FunctionStore satisfies it.
type FunctionSource interface {
	Lookup(id mir.FunctionID) (*mir.Function, bool)
}

// Evaluator runs compiled functions. One Evaluator must not be used from
// several goroutines at once; create one per goroutine, they may share the
// FunctionSource and the Console.
type Evaluator struct {
	Functions FunctionSource
	Console   console.Console
	// MaxDepth bounds nested calls; exceeding it is a *StackOverflowError.
	MaxDepth int
	// Logger receives one line per function call.
	Logger *log.Logger

	depth int
}

func New(functions FunctionSource, con console.Console) *Evaluator {
	return &Evaluator{
		Functions: functions,
		Console:   con,
		MaxDepth:  config.DefaultMaxCallDepth,
		Logger:    log.New(io.Discard, "", 0),
	}
}

// Call runs function id with args bound to slots 0..len(args)-1.
func (e *Evaluator) Call(ctx context.Context, id mir.FunctionID, args []value.Value) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn, ok := e.Functions.Lookup(id)
	if !ok {
		diagnostics.Fatalf("call of function #%d which is not compiled", id)
	}
	if len(args) != len(fn.Args) {
		diagnostics.Fatalf("function %s (#%d) called with %d arguments, compiled for %d", fn.Name, id, len(args), len(fn.Args))
	}
	if e.MaxDepth > 0 && e.depth >= e.MaxDepth {
		e.Logger.Printf("stack overflow calling %s (#%d) at depth %d", fn.Name, id, e.depth)
		return nil, &StackOverflowError{Depth: e.depth, Function: fn.Name}
	}
	e.Logger.Printf("call %s (#%d) depth %d", fn.Name, id, e.depth)

	e.depth++
	defer func() { e.depth-- }()

	size := fn.Frame
	if size < len(args) {
		size = len(args)
	}
	env := NewEnvironment(size)
	for i, a := range args {
		env.Set(i, a)
	}

	res, err := e.Eval(ctx, fn.Body, env)
	if err != nil {
		return nil, withFrame(err, fn.Name)
	}
	return res, nil
}

// Eval evaluates one expression tree in env.
func (e *Evaluator) Eval(ctx context.Context, expr mir.StaticExpr, env *Environment) (value.Value, error) {
	switch in := expr.Instr.(type) {
	case *mir.Const:
		return in.Value, nil

	case *mir.GetLocalVar:
		return env.Get(in.Slot), nil

	case *mir.NewLocalVar:
		v, err := e.Eval(ctx, in.Value, env)
		if err != nil {
			return nil, err
		}
		old := env.Set(in.Slot, v)
		res, err := e.Eval(ctx, in.Body, env)
		env.Restore(in.Slot, old)
		return res, err

	case *mir.IfExpr:
		cond, err := e.Eval(ctx, in.Condition, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(value.Bool)
		if !ok {
			return nil, diagnostics.NewTypeError(cond.TypeName(), "Bool")
		}
		if b.Value {
			return e.Eval(ctx, in.Then, env)
		}
		return e.Eval(ctx, in.Else, env)

	case *mir.FunctionCall:
		args, err := e.evalArgs(ctx, in.Args, env)
		if err != nil {
			return nil, err
		}
		return e.Call(ctx, in.Function, args)

	case *mir.Custom:
		args, err := e.evalArgs(ctx, in.Args, env)
		if err != nil {
			return nil, err
		}
		return ApplyBuiltin(e.Console, in.Code, args)
	}

	diagnostics.Fatalf("cannot evaluate instruction %T", expr.Instr)
	return nil, nil
}

func (e *Evaluator) evalArgs(ctx context.Context, exprs []mir.StaticExpr, env *Environment) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.Eval(ctx, a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// StackOverflowError is returned when calls nest deeper than MaxDepth.
type StackOverflowError struct {
	Depth    int
	Function string
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: %d nested calls when calling %s", e.Depth, e.Function)
}

// RuntimeError is an evaluation error together with the functions it
// unwound through, innermost first.
type RuntimeError struct {
	Err        error
	StackTrace []string
}

func (e *RuntimeError) Error() string {
	msg := "runtime error: " + e.Err.Error()
	if len(e.StackTrace) > 0 {
		msg += "\nStack trace:"
		for _, name := range e.StackTrace {
			msg += "\n  in " + name
		}
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func withFrame(err error, name string) error {
	if re, ok := err.(*RuntimeError); ok {
		re.StackTrace = append(re.StackTrace, name)
		return re
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return &RuntimeError{Err: err, StackTrace: []string{name}}
}
