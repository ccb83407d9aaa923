package prettyprinter

import (
	"testing"

	"github.com/solar-lang/solar-compiler/internal/ast"
)

func decode(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := ast.Decode("main.sol.yaml", []byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestPrintFile(t *testing.T) {
	f := decode(t, `
imports:
  - use: std.io.println
    lib: true
  - use: util
    all: true
  - use: std.text
    lib: true
    items: [whisper, shout]
items:
  - fun: main
    body: {call: println, args: ["hi"]}
  - fun: count
    params: [{name: n, type: Int}]
    returns: Int
    body:
      if: {call: lt, args: [{ident: n}, 1]}
      then: 0
      else: {call: count, args: [{call: sub, args: [{ident: n}, 1]}]}
  - fun: pair
    params: [a, b]
    body:
      let:
        - x: {ident: a}
        - y: {ident: b}
      in: {call: buildin_str_concat, args: [{ident: x}, {ident: y}]}
  - let: greeting
    type: String
    value: "hi"
`)
	want := `use lib std.io.println
use util..
use lib std.text.(whisper, shout)

fun main() = println("hi")

fun count(n: Int) -> Int = if lt(n, 1) then 0 else count(sub(n, 1))

fun pair(a, b) = let x = a, y = b in buildin_str_concat(x, y)

let greeting: String = "hi"
`
	if got := Print(f); got != want {
		t.Errorf("got=\n%s\nwant=\n%s", got, want)
	}
}

func TestLongBodyMovesToNextLine(t *testing.T) {
	f := decode(t, "items:\n  - let: greeting\n    value: \"hello\"\n")
	p := NewCodePrinterWithWidth(16)
	p.PrintFile(f)
	want := "let greeting =\n    \"hello\"\n"
	if p.String() != want {
		t.Errorf("got=%q, want=%q", p.String(), want)
	}
}
