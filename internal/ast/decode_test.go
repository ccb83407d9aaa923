package ast

import "testing"

const sample = `
imports:
  - use: std.string.concat
    lib: true
  - use: util
    all: true
  - use: math
    items: [add, sub]
items:
  - fun: main
    returns: Void
    body: {call: buildin_print, args: ["hello", 1, true]}
  - fun: twice
    params: [x, {name: y, type: Int}]
    body:
      let:
        - a: {ident: x}
        - b: {call: buildin_add, args: [{ident: a}, {int: 2i64}]}
      in:
        if: {call: buildin_lt, args: [{ident: a}, {ident: b}]}
        then: {ident: a}
        else: {tuple: [{ident: b}]}
  - let: greeting
    type: String
    value: {str: "hi"}
  - type: Point
  - buildin_type: Int64
  - test: it works
    body: 1.5
`

func TestDecode(t *testing.T) {
	f, err := Decode("main.sol.yaml", []byte(sample))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(f.Imports) != 3 {
		t.Fatalf("imports got=%d, want=3", len(f.Imports))
	}
	if imp := f.Imports[0]; !imp.IsLib || imp.Selection != SelectThis || len(imp.Path) != 3 {
		t.Errorf("import 0 got=%+v", imp)
	}
	if f.Imports[1].Selection != SelectAll {
		t.Errorf("import 1 selection got=%s, want=all", f.Imports[1].Selection)
	}
	if imp := f.Imports[2]; imp.Selection != SelectItems || len(imp.Items) != 2 || imp.Items[1] != "sub" {
		t.Errorf("import 2 got=%+v", imp)
	}

	if len(f.Items) != 6 {
		t.Fatalf("items got=%d, want=6", len(f.Items))
	}

	main, ok := f.Items[0].(*Function)
	if !ok || main.Name != "main" || main.Returns == nil || main.Returns.Name != "Void" {
		t.Fatalf("item 0 got=%#v", f.Items[0])
	}
	call, ok := main.Body.(*CallExpression)
	if !ok || call.Function.String() != "buildin_print" || len(call.Arguments) != 3 {
		t.Fatalf("main body got=%#v", main.Body)
	}
	if _, ok := call.Arguments[0].(*StringLiteral); !ok {
		t.Errorf("arg 0 got=%T, want *StringLiteral", call.Arguments[0])
	}
	if lit, ok := call.Arguments[1].(*IntegerLiteral); !ok || lit.Text != "1" {
		t.Errorf("arg 1 got=%#v", call.Arguments[1])
	}
	if lit, ok := call.Arguments[2].(*BooleanLiteral); !ok || !lit.Value {
		t.Errorf("arg 2 got=%#v", call.Arguments[2])
	}

	twice := f.Items[1].(*Function)
	if len(twice.Params) != 2 || twice.Params[0].Type != nil || twice.Params[1].Type.Name != "Int" {
		t.Errorf("params got=%+v", twice.Params)
	}
	let, ok := twice.Body.(*LetExpression)
	if !ok || len(let.Bindings) != 2 || let.Bindings[0].Name != "a" || let.Bindings[1].Name != "b" {
		t.Fatalf("let got=%#v", twice.Body)
	}
	if _, ok := let.Body.(*IfExpression); !ok {
		t.Errorf("let body got=%T, want *IfExpression", let.Body)
	}

	if g, ok := f.Items[2].(*GlobalVar); !ok || g.Name != "greeting" || g.Type.Name != "String" {
		t.Errorf("item 2 got=%#v", f.Items[2])
	}
	if _, ok := f.Items[3].(*TypeDecl); !ok {
		t.Errorf("item 3 got=%T", f.Items[3])
	}
	if _, ok := f.Items[4].(*BuildinTypeDecl); !ok {
		t.Errorf("item 4 got=%T", f.Items[4])
	}
	if tst, ok := f.Items[5].(*Test); !ok || tst.Name != "it works" {
		t.Errorf("item 5 got=%#v", f.Items[5])
	} else if _, ok := tst.Body.(*FloatLiteral); !ok {
		t.Errorf("test body got=%T, want *FloatLiteral", tst.Body)
	}

	if main.Pos().Line == 0 || main.Pos().File != "main.sol.yaml" {
		t.Errorf("span got=%v", main.Pos())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a mapping", "- 1\n"},
		{"unknown top key", "things: []\n"},
		{"unknown item", "items:\n  - struct: P\n"},
		{"function without body", "items:\n  - fun: f\n"},
		{"if without else", "items:\n  - fun: f\n    body: {if: true, then: 1}\n"},
		{"import all and items", "imports:\n  - use: a\n    all: true\n    items: [x]\n"},
		{"empty tuple", "items:\n  - fun: f\n    body: {tuple: []}\n"},
		{"unknown expression", "items:\n  - fun: f\n    body: {lambda: x}\n"},
		{"let without in", "items:\n  - fun: f\n    body: {let: [{x: 1}]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode("bad.sol.yaml", []byte(tt.doc)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	f, err := Decode("empty.sol.yaml", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Items) != 0 || len(f.Imports) != 0 {
		t.Errorf("got=%+v, want an empty file", f)
	}
}
