package evaluator

import (
	"strings"

	"github.com/solar-lang/solar-compiler/internal/console"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// ApplyBuiltin performs a built-in operation on already evaluated arguments.
// Argument values are checked again here since the tree-walking backend
// calls it without static types.
func ApplyBuiltin(con console.Console, code mir.CustomCode, args []value.Value) (value.Value, error) {
	switch code {
	case mir.StrConcat:
		var sb strings.Builder
		for _, a := range args {
			s, ok := a.(*value.String)
			if !ok {
				return nil, diagnostics.NewTypeError(a.TypeName(), "String")
			}
			sb.WriteString(s.Value)
		}
		return value.NewString(sb.String()), nil

	case mir.Identity:
		if len(args) != 1 {
			diagnostics.Fatalf("identity takes exactly one argument, got %d", len(args))
		}
		return args[0], nil

	case mir.Print:
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		if err := con.Print(parts...); err != nil {
			return nil, err
		}
		return value.Void{}, nil

	case mir.Readline:
		if len(args) > 1 {
			diagnostics.Fatalf("readline takes at most one argument, got %d", len(args))
		}
		prompt, withPrompt := "", false
		if len(args) == 1 {
			s, ok := args[0].(*value.String)
			if !ok {
				return nil, diagnostics.NewTypeError(args[0].TypeName(), "String")
			}
			prompt, withPrompt = s.Value, true
		}
		line, err := con.ReadLine(prompt, withPrompt)
		if err != nil {
			return nil, err
		}
		return value.NewString(line), nil

	case mir.Add, mir.Sub, mir.Lt:
		a, b, err := intPair(args)
		if err != nil {
			return nil, err
		}
		switch code {
		case mir.Add:
			return a.Add(b), nil
		case mir.Sub:
			return a.Sub(b), nil
		}
		return value.Bool{Value: a.Less(b)}, nil

	case mir.Eq:
		if len(args) != 2 {
			diagnostics.Fatalf("eq takes two arguments, got %d", len(args))
		}
		if args[0].Type() != args[1].Type() {
			return nil, diagnostics.NewTypeError(args[1].TypeName(), args[0].TypeName())
		}
		return value.Bool{Value: value.Equal(args[0], args[1])}, nil

	case mir.Not:
		if len(args) != 1 {
			diagnostics.Fatalf("not takes one argument, got %d", len(args))
		}
		b, ok := args[0].(value.Bool)
		if !ok {
			return nil, diagnostics.NewTypeError(args[0].TypeName(), "Bool")
		}
		return value.Bool{Value: !b.Value}, nil
	}

	diagnostics.Fatalf("unknown builtin code %d", code)
	return nil, nil
}

func intPair(args []value.Value) (value.Int, value.Int, error) {
	if len(args) != 2 {
		diagnostics.Fatalf("integer builtin takes two arguments, got %d", len(args))
	}
	a, ok := args[0].(value.Int)
	if !ok {
		return value.Int{}, value.Int{}, diagnostics.NewTypeError(args[0].TypeName(), "integer")
	}
	b, ok := args[1].(value.Int)
	if !ok || b.Kind != a.Kind {
		return value.Int{}, value.Int{}, diagnostics.NewTypeError(args[1].TypeName(), a.TypeName())
	}
	return a, b, nil
}
