// Package ast is the read-only syntax tree handed over by the parser.
// The compiler never mutates it; items are addressed by
// (module, file index, item index).
package ast

import "fmt"

// Span is a source position.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) Pos() Span { return s }

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
}

// File is one parsed source file.
type File struct {
	Name    string
	Imports []*Import
	Items   []Item
}

// Selection says which symbols an import brings into scope.
type Selection int

const (
	// SelectThis imports the trailing path segment itself: use std.string.concat
	SelectThis Selection = iota
	// SelectAll imports every declaration of the module: use std.string..
	SelectAll
	// SelectItems imports an explicit list: use std.string.(concat, length)
	SelectItems
)

func (s Selection) String() string {
	switch s {
	case SelectThis:
		return "this"
	case SelectAll:
		return "all"
	case SelectItems:
		return "items"
	}
	return "unknown"
}

// Import is a `use` declaration.
type Import struct {
	Span
	IsLib     bool // from a library rather than from this project
	Path      []string
	Selection Selection
	Items     []string
}

// Item is a top-level declaration. The set of implementations is closed:
// *Function, *GlobalVar, *TypeDecl, *BuildinTypeDecl, *Test.
type Item interface {
	Node
	ItemName() string
	itemNode()
}

// TypeRef names a type in a signature.
type TypeRef struct {
	Span
	Name string
}

// Param is a formal function parameter.
type Param struct {
	Span
	Name string
	Type *TypeRef // optional
}

// Function is `fun name(params) -> Returns = Body`.
type Function struct {
	Span
	Name    string
	Params  []Param
	Returns *TypeRef // optional
	Body    Expression
}

func (f *Function) ItemName() string { return f.Name }
func (f *Function) itemNode()        {}

// GlobalVar is a module-level `let name = Value`.
type GlobalVar struct {
	Span
	Name  string
	Type  *TypeRef // optional
	Value Expression
}

func (g *GlobalVar) ItemName() string { return g.Name }
func (g *GlobalVar) itemNode()        {}

// TypeDecl declares a user type.
type TypeDecl struct {
	Span
	Name string
}

func (t *TypeDecl) ItemName() string { return t.Name }
func (t *TypeDecl) itemNode()        {}

// BuildinTypeDecl declares a type implemented by the compiler itself.
type BuildinTypeDecl struct {
	Span
	Name string
}

func (t *BuildinTypeDecl) ItemName() string { return t.Name }
func (t *BuildinTypeDecl) itemNode()        {}

// Test is a named test block. Tests are never symbols.
type Test struct {
	Span
	Name string
	Body Expression
}

func (t *Test) ItemName() string { return t.Name }
func (t *Test) itemNode()        {}
