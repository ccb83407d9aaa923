package compiler

import (
	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/config"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// compileBuiltin emits a Custom instruction when call names a built-in.
// ok is false when the name carries no built-in prefix, in which case the
// call goes through normal name resolution. Built-ins are matched before any
// user symbol, so a user function cannot shadow them.
func (c *Context) compileBuiltin(call *ast.CallExpression, args []mir.StaticExpr) (res mir.StaticExpr, ok bool, err error) {
	if len(call.Function.Segments) != 1 {
		return mir.StaticExpr{}, false, nil
	}
	name := call.Function.Segments[0]
	op, ok := config.TrimBuiltinPrefix(name)
	if !ok {
		return mir.StaticExpr{}, false, nil
	}
	code, known := mir.LookupBuiltin(op)
	if !known {
		return mir.StaticExpr{}, true, &WrongBuiltinError{Found: name, Pos: call.Pos()}
	}
	ty, err := c.builtinType(name, code, args, call.Pos())
	if err != nil {
		return mir.StaticExpr{}, true, err
	}
	return mir.StaticExpr{Instr: &mir.Custom{Code: code, Args: args}, Type: ty}, true, nil
}

// builtinType checks the argument types of a built-in and returns its result
// type.
func (c *Context) builtinType(name string, code mir.CustomCode, args []mir.StaticExpr, pos ast.Span) (typesystem.TypeID, error) {
	expect := func(i int, want typesystem.TypeID) error {
		if args[i].Type != want {
			return &diagnostics.TypeError{Got: c.Types.Name(args[i].Type), Wanted: c.Types.Name(want), Pos: pos.String()}
		}
		return nil
	}
	arity := func(n int) error {
		if len(args) != n {
			return &ArityError{Name: name, Want: n, Got: len(args), Pos: pos}
		}
		return nil
	}

	switch code {
	case mir.StrConcat:
		for i := range args {
			if err := expect(i, typesystem.String); err != nil {
				return 0, err
			}
		}
		return typesystem.String, nil

	case mir.Identity:
		if len(args) != 1 {
			diagnostics.Fatalf("%s: %s takes exactly one argument, got %d", pos, name, len(args))
		}
		return args[0].Type, nil

	case mir.Print:
		return typesystem.Void, nil

	case mir.Readline:
		if len(args) > 1 {
			diagnostics.Fatalf("%s: %s takes at most one argument, got %d", pos, name, len(args))
		}
		if len(args) == 1 {
			if err := expect(0, typesystem.String); err != nil {
				return 0, err
			}
		}
		return typesystem.String, nil

	case mir.Add, mir.Sub, mir.Lt:
		if err := arity(2); err != nil {
			return 0, err
		}
		if !typesystem.IsInteger(args[0].Type) {
			return 0, &diagnostics.TypeError{Got: c.Types.Name(args[0].Type), Wanted: "integer", Pos: pos.String()}
		}
		if err := expect(1, args[0].Type); err != nil {
			return 0, err
		}
		if code == mir.Lt {
			return typesystem.Bool, nil
		}
		return args[0].Type, nil

	case mir.Eq:
		if err := arity(2); err != nil {
			return 0, err
		}
		t := args[0].Type
		if t != typesystem.Bool && t != typesystem.String && !typesystem.IsInteger(t) {
			return 0, &diagnostics.TypeError{Got: c.Types.Name(t), Wanted: "comparable type", Pos: pos.String()}
		}
		if err := expect(1, t); err != nil {
			return 0, err
		}
		return typesystem.Bool, nil

	case mir.Not:
		if err := arity(1); err != nil {
			return 0, err
		}
		if err := expect(0, typesystem.Bool); err != nil {
			return 0, err
		}
		return typesystem.Bool, nil
	}

	diagnostics.Fatalf("%s: builtin %s has no type rule", pos, name)
	return 0, nil
}
