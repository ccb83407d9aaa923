package compiler

import (
	"fmt"
	"strconv"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
	"github.com/solar-lang/solar-compiler/internal/utils"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// callable is the part of a declaration that lowers into a function body.
// Global variables are callables without parameters.
type callable struct {
	Name    string
	Pos     ast.Span
	Params  []ast.Param
	Returns *ast.TypeRef
	Body    ast.Expression
}

// CompileSymbol returns the store index of id specialized for args, lowering
// it (and everything it calls) if it is not cached yet. The second result is
// the function's return type.
func (c *Context) CompileSymbol(id symbols.SymbolID, args []typesystem.TypeID) (mir.FunctionID, typesystem.TypeID, error) {
	return c.compileSymbol(id, args, &chain{})
}

func (c *Context) compileSymbol(id symbols.SymbolID, args []typesystem.TypeID, ch *chain) (mir.FunctionID, typesystem.TypeID, error) {
	mod, file, item := c.Modules.Symbol(id)
	lookup := Lookup{Module: mod, Imports: file.Imports, chain: ch}
	ssid := symbols.SSID{Symbol: id, Args: args}

	switch it := item.(type) {
	case *ast.Function:
		fn := callable{Name: it.Name, Pos: it.Pos(), Params: it.Params, Returns: it.Returns, Body: it.Body}
		return c.compile(fn, lookup, ssid)
	case *ast.GlobalVar:
		if len(args) != 0 {
			return 0, 0, &CallingVariableError{Identifier: it.Name, File: file.Filename}
		}
		fn := callable{Name: it.Name, Pos: it.Pos(), Returns: it.Type, Body: it.Value}
		return c.compile(fn, lookup, ssid)
	case *ast.TypeDecl:
		diagnostics.Fatalf("%s: constructors for type %s are not implemented", it.Pos(), it.Name)
	case *ast.BuildinTypeDecl:
		diagnostics.Fatalf("%s: buildin type %s has no fields", it.Pos(), it.Name)
	case *ast.Test:
		diagnostics.Fatalf("%s: test %s is not callable", it.Pos(), it.Name)
	default:
		diagnostics.Fatalf("symbol %s: unknown item %T", id, item)
	}
	return 0, 0, nil
}

// compile consults the store before lowering fn. A Reserved entry is either
// a recursive reference (same chain, or a chain that waits on us) and is
// answered with the index and the declared return type, or it belongs to an
// independent compilation and is waited for.
func (c *Context) compile(fn callable, lookup Lookup, ssid symbols.SSID) (mir.FunctionID, typesystem.TypeID, error) {
	for {
		id, entry, ok := c.Functions.GetByKey(ssid)
		if ok {
			switch entry.State {
			case Complete:
				c.cacheHits.Add(1)
				return id, entry.Function.Return, nil
			case Failed:
				return 0, 0, entry.Err
			case Reserved:
				if entry.owner == lookup.chain || !c.Functions.waitFor(lookup.chain, entry.owner) {
					c.forwardRefs.Add(1)
					ret, err := c.declaredReturn(fn)
					return id, ret, err
				}
				<-entry.done
				c.Functions.doneWaiting(lookup.chain)
				continue
			}
		}

		id, fresh := c.Functions.Reserve(ssid, lookup.chain)
		if !fresh {
			continue
		}
		return c.lower(id, fn, lookup, ssid)
	}
}

func (c *Context) declaredReturn(fn callable) (typesystem.TypeID, error) {
	if fn.Returns == nil {
		return 0, &RecursionTypeError{Name: fn.Name, Pos: fn.Pos}
	}
	return c.resolveType(fn.Returns)
}

func (c *Context) resolveType(ref *ast.TypeRef) (typesystem.TypeID, error) {
	id, ok := c.Types.Lookup(ref.Name)
	if !ok {
		return 0, &NotFoundError{Name: ref.Name, Pos: ref.Pos(), Detail: "unknown type"}
	}
	return id, nil
}

// lower compiles the body of fn into the reserved slot id. The slot ends up
// Complete on success and Failed otherwise, including when a fatal panic
// passes through.
func (c *Context) lower(id mir.FunctionID, fn callable, lookup Lookup, ssid symbols.SSID) (fid mir.FunctionID, ret typesystem.TypeID, err error) {
	completed := false
	defer func() {
		if completed {
			return
		}
		if r := recover(); r != nil {
			c.Functions.Fail(id, fmt.Errorf("compilation of %s aborted", fn.Name))
			panic(r)
		}
		c.Functions.Fail(id, err)
	}()

	lookup.self = id
	c.lowerings.Add(1)
	c.logger.Printf("lowering %s as #%d (%s)", fn.Name, id, c.typeList(ssid.Args))

	if len(fn.Params) != len(ssid.Args) {
		return 0, 0, &ArityError{Name: fn.Name, Want: len(fn.Params), Got: len(ssid.Args), Pos: fn.Pos}
	}

	scope := symbols.NewScope()
	for i, p := range fn.Params {
		if p.Type != nil {
			want, err := c.resolveType(p.Type)
			if err != nil {
				return 0, 0, err
			}
			if want != ssid.Args[i] {
				return 0, 0, &diagnostics.TypeError{Got: c.Types.Name(ssid.Args[i]), Wanted: c.Types.Name(want), Pos: p.Pos().String()}
			}
		}
		scope.Push(utils.NormalizeName(p.Name), ssid.Args[i])
	}

	body, err := c.compileFullExpression(fn.Body, lookup, scope)
	if err != nil {
		return 0, 0, err
	}
	if fn.Returns != nil {
		want, err := c.resolveType(fn.Returns)
		if err != nil {
			return 0, 0, err
		}
		if body.Type != want {
			return 0, 0, &diagnostics.TypeError{Got: c.Types.Name(body.Type), Wanted: c.Types.Name(want), Pos: fn.Returns.Pos().String()}
		}
	}
	for range fn.Params {
		scope.Pop()
	}

	completed = true
	if err := c.Functions.Complete(id, &mir.Function{
		Name:   fn.Name,
		Args:   append(ssid.Args[:0:0], ssid.Args...),
		Body:   body,
		Return: body.Type,
		Frame:  scope.HighWater(),
	}); err != nil {
		return 0, 0, err
	}
	return id, body.Type, nil
}

// compileFullExpression handles the constructs that may only appear as a
// whole expression: let and if. Everything else is a minor expression.
func (c *Context) compileFullExpression(expr ast.Expression, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	switch e := expr.(type) {
	case *ast.LetExpression:
		return c.compileLet(e, lookup, scope)

	case *ast.IfExpression:
		cond, err := c.compileFullExpression(e.Condition, lookup, scope)
		if err != nil {
			return mir.StaticExpr{}, err
		}
		if cond.Type != typesystem.Bool {
			return mir.StaticExpr{}, &diagnostics.TypeError{Got: c.Types.Name(cond.Type), Wanted: "Bool", Pos: e.Condition.Pos().String()}
		}
		then, err := c.compileFullExpression(e.Consequence, lookup, scope)
		if err != nil {
			return mir.StaticExpr{}, err
		}
		els, err := c.compileFullExpression(e.Alternative, lookup, scope)
		if err != nil {
			return mir.StaticExpr{}, err
		}
		if then.Type != els.Type {
			return mir.StaticExpr{}, &diagnostics.TypeError{Got: c.Types.Name(els.Type), Wanted: c.Types.Name(then.Type), Pos: e.Alternative.Pos().String()}
		}
		return mir.StaticExpr{Instr: &mir.IfExpr{Condition: cond, Then: then, Else: els}, Type: then.Type}, nil

	default:
		return c.compileMinorExpr(expr, lookup, scope)
	}
}

// compileLet lowers `let a = x, b = y in body` to
// NewLocalVar(a, x, NewLocalVar(b, y, body)): the first binding is the
// outermost node and the body sits at the innermost level.
func (c *Context) compileLet(e *ast.LetExpression, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	type binding struct {
		slot  int
		value mir.StaticExpr
	}
	bound := make([]binding, 0, len(e.Bindings))
	unwind := func() {
		for range bound {
			scope.Pop()
		}
	}

	for _, b := range e.Bindings {
		v, err := c.compileFullExpression(b.Value, lookup, scope)
		if err != nil {
			unwind()
			return mir.StaticExpr{}, err
		}
		slot := scope.Push(utils.NormalizeName(b.Name), v.Type)
		bound = append(bound, binding{slot: slot, value: v})
	}

	body, err := c.compileFullExpression(e.Body, lookup, scope)
	unwind()
	if err != nil {
		return mir.StaticExpr{}, err
	}

	tree := body
	for i := len(bound) - 1; i >= 0; i-- {
		tree = mir.StaticExpr{
			Instr: &mir.NewLocalVar{Slot: bound[i].slot, Value: bound[i].value, Body: tree},
			Type:  body.Type,
		}
	}
	return tree, nil
}

func (c *Context) compileMinorExpr(expr ast.Expression, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	if call, ok := expr.(*ast.CallExpression); ok {
		return c.compileCall(call, lookup, scope)
	}
	return c.compileValue(expr, lookup, scope)
}

func (c *Context) compileCall(call *ast.CallExpression, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	args := make([]mir.StaticExpr, 0, len(call.Arguments))
	for _, a := range call.Arguments {
		v, err := c.compileFullExpression(a, lookup, scope)
		if err != nil {
			return mir.StaticExpr{}, err
		}
		args = append(args, v)
	}

	if res, ok, err := c.compileBuiltin(call, args); ok {
		return res, err
	}

	argTypes := make([]typesystem.TypeID, len(args))
	for i, a := range args {
		argTypes[i] = a.Type
	}
	return c.compileReference(utils.NormalizePath(call.Function.Segments), args, argTypes, call.Pos(), lookup, scope)
}

// compileReference turns a resolved name into either a local read or a call.
func (c *Context) compileReference(path symbols.IdPath, args []mir.StaticExpr, argTypes []typesystem.TypeID, pos ast.Span, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	cand, err := c.SelectCandidate(path, c.ResolveSymbol(path, lookup, scope), argTypes, pos)
	if err != nil {
		return mir.StaticExpr{}, err
	}

	if cand.Kind == LocalCandidate {
		if len(args) > 0 {
			return mir.StaticExpr{}, &diagnostics.TypeError{
				Got:    c.Types.Name(cand.Binding.Type),
				Wanted: fmt.Sprintf("fun(%s)", c.typeList(argTypes)),
				Pos:    pos.String(),
			}
		}
		return mir.StaticExpr{Instr: &mir.GetLocalVar{Slot: cand.Binding.Slot}, Type: cand.Binding.Type}, nil
	}

	fid, ret, err := c.compileSymbol(cand.Symbol, argTypes, lookup.chain)
	if err != nil {
		return mir.StaticExpr{}, err
	}
	c.Functions.AddCall(lookup.self, fid)
	return mir.StaticExpr{Instr: &mir.FunctionCall{Function: fid, Args: args}, Type: ret}, nil
}

func (c *Context) compileValue(expr ast.Expression, lookup Lookup, scope *symbols.Scope) (mir.StaticExpr, error) {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return mir.StaticExpr{Instr: &mir.Const{Value: value.NewString(e.Value)}, Type: typesystem.String}, nil

	case *ast.BooleanLiteral:
		return mir.StaticExpr{Instr: &mir.Const{Value: value.Bool{Value: e.Value}}, Type: typesystem.Bool}, nil

	case *ast.IntegerLiteral:
		v, err := utils.ParseIntLiteral(e.Text)
		if err != nil {
			litErr, ok := err.(*utils.IntLiteralError)
			if !ok {
				litErr = &utils.IntLiteralError{Text: e.Text, Reason: err.Error()}
			}
			return mir.StaticExpr{}, &ParseIntError{Pos: e.Pos(), Err: litErr}
		}
		return mir.StaticExpr{Instr: &mir.Const{Value: v}, Type: v.Type()}, nil

	case *ast.FloatLiteral:
		f, err := strconv.ParseFloat(e.Text, 64)
		if err != nil {
			diagnostics.Fatalf("%s: malformed float literal %q", e.Pos(), e.Text)
		}
		return mir.StaticExpr{Instr: &mir.Const{Value: value.Float{Value: f}}, Type: typesystem.Float64}, nil

	case *ast.Identifier:
		path := utils.NormalizePath(e.Path.Segments)
		if len(path) != 1 {
			diagnostics.Fatalf("%s: field access %s is not supported", e.Pos(), path)
		}
		return c.compileReference(path, nil, nil, e.Pos(), lookup, scope)

	case *ast.TupleLiteral:
		if len(e.Elements) != 1 {
			diagnostics.Fatalf("%s: tuples of %d elements are not supported", e.Pos(), len(e.Elements))
		}
		return c.compileFullExpression(e.Elements[0], lookup, scope)

	case *ast.LetExpression, *ast.IfExpression:
		return c.compileFullExpression(expr, lookup, scope)
	}

	diagnostics.Fatalf("%s: cannot compile %T", expr.Pos(), expr)
	return mir.StaticExpr{}, nil
}
