package ast

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed AST document.
type DecodeError struct {
	Pos Span
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Decode reads a YAML AST document as written by the external parser.
//
//	imports:
//	  - use: std.string.concat
//	    lib: true
//	items:
//	  - fun: main
//	    returns: Void
//	    body: {call: buildin_print, args: ["hello"]}
//
// Plain scalars are literals (strings, booleans, integers, floats);
// mappings select the expression form by key: str, int, float, ident,
// call/args, let/in, if/then/else, tuple.
func Decode(name string, data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d := &decoder{file: name}
	file := &File{Name: name}
	if root.Kind == 0 || len(root.Content) == 0 {
		return file, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, d.errorf(doc, "document must be a mapping")
	}
	fields, err := d.fields(doc, "imports", "items")
	if err != nil {
		return nil, err
	}
	if n := fields["imports"]; n != nil {
		if n.Kind != yaml.SequenceNode {
			return nil, d.errorf(n, "imports must be a list")
		}
		for _, in := range n.Content {
			imp, err := d.importDecl(in)
			if err != nil {
				return nil, err
			}
			file.Imports = append(file.Imports, imp)
		}
	}
	if n := fields["items"]; n != nil {
		if n.Kind != yaml.SequenceNode {
			return nil, d.errorf(n, "items must be a list")
		}
		for _, in := range n.Content {
			item, err := d.item(in)
			if err != nil {
				return nil, err
			}
			file.Items = append(file.Items, item)
		}
	}
	return file, nil
}

type decoder struct {
	file string
}

func (d *decoder) span(n *yaml.Node) Span {
	if n == nil {
		return Span{File: d.file}
	}
	return Span{File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &DecodeError{Pos: d.span(n), Msg: fmt.Sprintf(format, args...)}
}

// fields indexes a mapping node, rejecting keys outside allowed.
func (d *decoder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		ok := false
		for _, a := range allowed {
			if a == key {
				ok = true
				break
			}
		}
		if !ok {
			return nil, d.errorf(n.Content[i], "unexpected key %q", key)
		}
		if _, dup := out[key]; dup {
			return nil, d.errorf(n.Content[i], "duplicate key %q", key)
		}
		out[key] = n.Content[i+1]
	}
	return out, nil
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, error) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) dotted(n *yaml.Node, what string) ([]string, error) {
	s, err := d.scalar(n, what)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, d.errorf(n, "%s must not be empty", what)
	}
	return strings.Split(s, "."), nil
}

func (d *decoder) stringList(n *yaml.Node, what string) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a list", what)
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		s, err := d.scalar(c, what)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) flag(n *yaml.Node) (bool, error) {
	if n == nil {
		return false, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, d.errorf(n, "expected true or false")
	}
	return b, nil
}

func (d *decoder) importDecl(n *yaml.Node) (*Import, error) {
	f, err := d.fields(n, "use", "lib", "all", "items")
	if err != nil {
		return nil, err
	}
	if f["use"] == nil {
		return nil, d.errorf(n, "import without use path")
	}
	imp := &Import{Span: d.span(n), Selection: SelectThis}
	if imp.Path, err = d.dotted(f["use"], "use"); err != nil {
		return nil, err
	}
	if imp.IsLib, err = d.flag(f["lib"]); err != nil {
		return nil, err
	}
	all, err := d.flag(f["all"])
	if err != nil {
		return nil, err
	}
	if all && f["items"] != nil {
		return nil, d.errorf(n, "import selects both all and items")
	}
	switch {
	case all:
		imp.Selection = SelectAll
	case f["items"] != nil:
		imp.Selection = SelectItems
		if imp.Items, err = d.stringList(f["items"], "items"); err != nil {
			return nil, err
		}
	}
	return imp, nil
}

func (d *decoder) typeRef(n *yaml.Node) (*TypeRef, error) {
	if n == nil {
		return nil, nil
	}
	name, err := d.scalar(n, "type")
	if err != nil {
		return nil, err
	}
	return &TypeRef{Span: d.span(n), Name: name}, nil
}

func (d *decoder) item(n *yaml.Node) (Item, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return nil, d.errorf(n, "item must be a mapping")
	}
	switch n.Content[0].Value {
	case "fun":
		return d.function(n)
	case "let":
		f, err := d.fields(n, "let", "type", "value")
		if err != nil {
			return nil, err
		}
		g := &GlobalVar{Span: d.span(n)}
		if g.Name, err = d.scalar(f["let"], "let"); err != nil {
			return nil, err
		}
		if g.Type, err = d.typeRef(f["type"]); err != nil {
			return nil, err
		}
		if f["value"] == nil {
			return nil, d.errorf(n, "global let %s has no value", g.Name)
		}
		if g.Value, err = d.expr(f["value"]); err != nil {
			return nil, err
		}
		return g, nil
	case "type":
		f, err := d.fields(n, "type")
		if err != nil {
			return nil, err
		}
		name, err := d.scalar(f["type"], "type")
		if err != nil {
			return nil, err
		}
		return &TypeDecl{Span: d.span(n), Name: name}, nil
	case "buildin_type":
		f, err := d.fields(n, "buildin_type")
		if err != nil {
			return nil, err
		}
		name, err := d.scalar(f["buildin_type"], "buildin_type")
		if err != nil {
			return nil, err
		}
		return &BuildinTypeDecl{Span: d.span(n), Name: name}, nil
	case "test":
		f, err := d.fields(n, "test", "body")
		if err != nil {
			return nil, err
		}
		t := &Test{Span: d.span(n)}
		if t.Name, err = d.scalar(f["test"], "test"); err != nil {
			return nil, err
		}
		if f["body"] != nil {
			if t.Body, err = d.expr(f["body"]); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	return nil, d.errorf(n, "unknown item kind %q", n.Content[0].Value)
}

func (d *decoder) function(n *yaml.Node) (*Function, error) {
	f, err := d.fields(n, "fun", "params", "returns", "body")
	if err != nil {
		return nil, err
	}
	fn := &Function{Span: d.span(n)}
	if fn.Name, err = d.scalar(f["fun"], "fun"); err != nil {
		return nil, err
	}
	if p := f["params"]; p != nil {
		if p.Kind != yaml.SequenceNode {
			return nil, d.errorf(p, "params must be a list")
		}
		for _, pn := range p.Content {
			param, err := d.param(pn)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
		}
	}
	if fn.Returns, err = d.typeRef(f["returns"]); err != nil {
		return nil, err
	}
	if f["body"] == nil {
		return nil, d.errorf(n, "function %s has no body", fn.Name)
	}
	if fn.Body, err = d.expr(f["body"]); err != nil {
		return nil, err
	}
	return fn, nil
}

// param accepts either a bare name or {name: n, type: T}.
func (d *decoder) param(n *yaml.Node) (Param, error) {
	if n.Kind == yaml.ScalarNode {
		return Param{Span: d.span(n), Name: n.Value}, nil
	}
	f, err := d.fields(n, "name", "type")
	if err != nil {
		return Param{}, err
	}
	p := Param{Span: d.span(n)}
	if p.Name, err = d.scalar(f["name"], "param name"); err != nil {
		return Param{}, err
	}
	if p.Type, err = d.typeRef(f["type"]); err != nil {
		return Param{}, err
	}
	return p, nil
}

func (d *decoder) exprList(n *yaml.Node, what string) ([]Expression, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a list", what)
	}
	out := make([]Expression, 0, len(n.Content))
	for _, c := range n.Content {
		e, err := d.expr(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expr(n *yaml.Node) (Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.literal(n)
	case yaml.MappingNode:
	default:
		return nil, d.errorf(n, "expected an expression")
	}
	if len(n.Content) == 0 {
		return nil, d.errorf(n, "empty expression")
	}
	sp := d.span(n)
	switch n.Content[0].Value {
	case "str":
		f, err := d.fields(n, "str")
		if err != nil {
			return nil, err
		}
		s, err := d.scalar(f["str"], "str")
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Span: sp, Value: s}, nil
	case "int":
		f, err := d.fields(n, "int")
		if err != nil {
			return nil, err
		}
		s, err := d.scalar(f["int"], "int")
		if err != nil {
			return nil, err
		}
		return &IntegerLiteral{Span: sp, Text: s}, nil
	case "float":
		f, err := d.fields(n, "float")
		if err != nil {
			return nil, err
		}
		s, err := d.scalar(f["float"], "float")
		if err != nil {
			return nil, err
		}
		return &FloatLiteral{Span: sp, Text: s}, nil
	case "ident":
		f, err := d.fields(n, "ident")
		if err != nil {
			return nil, err
		}
		segs, err := d.dotted(f["ident"], "ident")
		if err != nil {
			return nil, err
		}
		return &Identifier{Span: sp, Path: &Path{Span: d.span(f["ident"]), Segments: segs}}, nil
	case "call":
		f, err := d.fields(n, "call", "args")
		if err != nil {
			return nil, err
		}
		segs, err := d.dotted(f["call"], "call")
		if err != nil {
			return nil, err
		}
		call := &CallExpression{Span: sp, Function: &Path{Span: d.span(f["call"]), Segments: segs}}
		if a := f["args"]; a != nil {
			if call.Arguments, err = d.exprList(a, "args"); err != nil {
				return nil, err
			}
		}
		return call, nil
	case "let":
		return d.let(n)
	case "if":
		f, err := d.fields(n, "if", "then", "else")
		if err != nil {
			return nil, err
		}
		if f["then"] == nil || f["else"] == nil {
			return nil, d.errorf(n, "if needs both then and else")
		}
		e := &IfExpression{Span: sp}
		if e.Condition, err = d.expr(f["if"]); err != nil {
			return nil, err
		}
		if e.Consequence, err = d.expr(f["then"]); err != nil {
			return nil, err
		}
		if e.Alternative, err = d.expr(f["else"]); err != nil {
			return nil, err
		}
		return e, nil
	case "tuple":
		f, err := d.fields(n, "tuple")
		if err != nil {
			return nil, err
		}
		elems, err := d.exprList(f["tuple"], "tuple")
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return nil, d.errorf(n, "empty tuple")
		}
		return &TupleLiteral{Span: sp, Elements: elems}, nil
	}
	return nil, d.errorf(n, "unknown expression form %q", n.Content[0].Value)
}

// let decodes {let: [{x: e1}, {y: e2}], in: body}.
func (d *decoder) let(n *yaml.Node) (Expression, error) {
	f, err := d.fields(n, "let", "in")
	if err != nil {
		return nil, err
	}
	if f["in"] == nil {
		return nil, d.errorf(n, "let without in")
	}
	defs := f["let"]
	if defs.Kind != yaml.SequenceNode || len(defs.Content) == 0 {
		return nil, d.errorf(defs, "let needs at least one binding")
	}
	e := &LetExpression{Span: d.span(n)}
	for _, b := range defs.Content {
		if b.Kind != yaml.MappingNode || len(b.Content) != 2 {
			return nil, d.errorf(b, "let binding must be a single name: value pair")
		}
		val, err := d.expr(b.Content[1])
		if err != nil {
			return nil, err
		}
		e.Bindings = append(e.Bindings, LetBinding{Span: d.span(b.Content[0]), Name: b.Content[0].Value, Value: val})
	}
	if e.Body, err = d.expr(f["in"]); err != nil {
		return nil, err
	}
	return e, nil
}

func (d *decoder) literal(n *yaml.Node) (Expression, error) {
	sp := d.span(n)
	switch n.ShortTag() {
	case "!!str":
		return &StringLiteral{Span: sp, Value: n.Value}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorf(n, "bad boolean %q", n.Value)
		}
		return &BooleanLiteral{Span: sp, Value: b}, nil
	case "!!int":
		return &IntegerLiteral{Span: sp, Text: n.Value}, nil
	case "!!float":
		return &FloatLiteral{Span: sp, Text: n.Value}, nil
	}
	return nil, d.errorf(n, "unsupported literal %q", n.Value)
}
