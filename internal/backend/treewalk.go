package backend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/compiler"
	"github.com/solar-lang/solar-compiler/internal/config"
	"github.com/solar-lang/solar-compiler/internal/console"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/evaluator"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/pipeline"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
	"github.com/solar-lang/solar-compiler/internal/utils"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// TreeWalkBackend interprets the AST of main directly, without lowering it.
// Name resolution is shared with the compiler; types are those of the
// runtime values.
type TreeWalkBackend struct {
	MaxDepth int
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{MaxDepth: config.DefaultMaxCallDepth}
}

func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (value.Value, error) {
	if ctx.Compiler == nil {
		return nil, fmt.Errorf("no compiler context to resolve names with")
	}
	w := &walker{
		ctx:      ctx.Context,
		cc:       ctx.Compiler,
		con:      ctx.Console,
		maxDepth: b.MaxDepth,
	}
	return w.call(ctx.Entry, nil)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

type walker struct {
	ctx      context.Context
	cc       *compiler.Context
	con      console.Console
	maxDepth int
	depth    int
}

// frame is the lexical state of one activation: names in scope and the
// values in their slots.
type frame struct {
	lookup compiler.Lookup
	scope  *symbols.Scope
	env    *evaluator.Environment
}

func (w *walker) call(id symbols.SymbolID, args []value.Value) (value.Value, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	mod, file, item := w.cc.Modules.Symbol(id)

	var (
		name   string
		pos    ast.Span
		params []ast.Param
		body   ast.Expression
	)
	switch it := item.(type) {
	case *ast.Function:
		name, pos, params, body = it.Name, it.Pos(), it.Params, it.Body
	case *ast.GlobalVar:
		if len(args) != 0 {
			return nil, &compiler.CallingVariableError{Identifier: it.Name, File: file.Filename}
		}
		name, pos, body = it.Name, it.Pos(), it.Value
	default:
		diagnostics.Fatalf("%s: %s is not callable", item.Pos(), item.ItemName())
	}
	if len(params) != len(args) {
		return nil, &compiler.ArityError{Name: name, Want: len(params), Got: len(args), Pos: pos}
	}
	if w.maxDepth > 0 && w.depth >= w.maxDepth {
		return nil, &evaluator.StackOverflowError{Depth: w.depth, Function: name}
	}
	w.depth++
	defer func() { w.depth-- }()

	f := &frame{
		lookup: compiler.Lookup{Module: mod, Imports: file.Imports},
		scope:  symbols.NewScope(),
		env:    evaluator.NewEnvironment(len(args)),
	}
	for i, p := range params {
		slot := f.scope.Push(utils.NormalizeName(p.Name), args[i].Type())
		f.env.Set(slot, args[i])
	}
	return w.eval(body, f)
}

func (w *walker) eval(expr ast.Expression, f *frame) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return value.NewString(e.Value), nil

	case *ast.BooleanLiteral:
		return value.Bool{Value: e.Value}, nil

	case *ast.IntegerLiteral:
		v, err := utils.ParseIntLiteral(e.Text)
		if err != nil {
			if litErr, ok := err.(*utils.IntLiteralError); ok {
				return nil, &compiler.ParseIntError{Pos: e.Pos(), Err: litErr}
			}
			return nil, err
		}
		return v, nil

	case *ast.FloatLiteral:
		fl, err := strconv.ParseFloat(e.Text, 64)
		if err != nil {
			diagnostics.Fatalf("%s: malformed float literal %q", e.Pos(), e.Text)
		}
		return value.Float{Value: fl}, nil

	case *ast.Identifier:
		path := utils.NormalizePath(e.Path.Segments)
		if len(path) != 1 {
			diagnostics.Fatalf("%s: field access %s is not supported", e.Pos(), path)
		}
		return w.reference(path, nil, e.Pos(), f)

	case *ast.TupleLiteral:
		if len(e.Elements) != 1 {
			diagnostics.Fatalf("%s: tuples of %d elements are not supported", e.Pos(), len(e.Elements))
		}
		return w.eval(e.Elements[0], f)

	case *ast.LetExpression:
		return w.evalLet(e, f)

	case *ast.IfExpression:
		cond, err := w.eval(e.Condition, f)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(value.Bool)
		if !ok {
			return nil, &diagnostics.TypeError{Got: cond.TypeName(), Wanted: "Bool", Pos: e.Condition.Pos().String()}
		}
		if b.Value {
			return w.eval(e.Consequence, f)
		}
		return w.eval(e.Alternative, f)

	case *ast.CallExpression:
		args := make([]value.Value, len(e.Arguments))
		for i, a := range e.Arguments {
			v, err := w.eval(a, f)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if len(e.Function.Segments) == 1 {
			name := e.Function.Segments[0]
			if op, ok := config.TrimBuiltinPrefix(name); ok {
				code, known := mir.LookupBuiltin(op)
				if !known {
					return nil, &compiler.WrongBuiltinError{Found: name, Pos: e.Pos()}
				}
				return evaluator.ApplyBuiltin(w.con, code, args)
			}
		}
		return w.reference(utils.NormalizePath(e.Function.Segments), args, e.Pos(), f)
	}

	diagnostics.Fatalf("%s: cannot interpret %T", expr.Pos(), expr)
	return nil, nil
}

func (w *walker) evalLet(e *ast.LetExpression, f *frame) (value.Value, error) {
	type saved struct {
		slot int
		old  value.Value
	}
	bound := make([]saved, 0, len(e.Bindings))
	defer func() {
		for i := len(bound) - 1; i >= 0; i-- {
			f.env.Restore(bound[i].slot, bound[i].old)
			f.scope.Pop()
		}
	}()

	for _, b := range e.Bindings {
		v, err := w.eval(b.Value, f)
		if err != nil {
			return nil, err
		}
		slot := f.scope.Push(utils.NormalizeName(b.Name), v.Type())
		bound = append(bound, saved{slot: slot, old: f.env.Set(slot, v)})
	}
	return w.eval(e.Body, f)
}

func (w *walker) reference(path symbols.IdPath, args []value.Value, pos ast.Span, f *frame) (value.Value, error) {
	types := make([]typesystem.TypeID, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	cand, err := w.cc.SelectCandidate(path, w.cc.ResolveSymbol(path, f.lookup, f.scope), types, pos)
	if err != nil {
		return nil, err
	}
	if cand.Kind == compiler.LocalCandidate {
		if len(args) > 0 {
			return nil, &diagnostics.TypeError{Got: w.cc.Types.Name(cand.Binding.Type), Wanted: "function", Pos: pos.String()}
		}
		return f.env.Get(cand.Binding.Slot), nil
	}
	return w.call(cand.Symbol, args)
}
