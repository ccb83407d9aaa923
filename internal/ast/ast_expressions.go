package ast

import "strings"

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// LetBinding is one `name = value` inside a let expression.
type LetBinding struct {
	Span
	Name  string
	Value Expression
}

// LetExpression is `let a = x, b = y in body`. Each binding sees only the
// bindings declared before it.
type LetExpression struct {
	Span
	Bindings []LetBinding
	Body     Expression
}

func (e *LetExpression) expressionNode() {}

// IfExpression is `if cond then a else b`.
type IfExpression struct {
	Span
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (e *IfExpression) expressionNode() {}

// Path is a dotted name such as std.string.concat.
type Path struct {
	Span
	Segments []string
}

func (p *Path) String() string { return strings.Join(p.Segments, ".") }

// CallExpression is `name(args...)`.
type CallExpression struct {
	Span
	Function  *Path
	Arguments []Expression
}

func (e *CallExpression) expressionNode() {}

// Identifier is a bare (possibly dotted) name used as a value.
type Identifier struct {
	Span
	Path *Path
}

func (e *Identifier) expressionNode() {}

type StringLiteral struct {
	Span
	Value string
}

func (e *StringLiteral) expressionNode() {}

type BooleanLiteral struct {
	Span
	Value bool
}

func (e *BooleanLiteral) expressionNode() {}

// IntegerLiteral keeps its source text; the suffix (e.g. 7u8) selects the
// integer kind when the literal is compiled.
type IntegerLiteral struct {
	Span
	Text string
}

func (e *IntegerLiteral) expressionNode() {}

type FloatLiteral struct {
	Span
	Text string
}

func (e *FloatLiteral) expressionNode() {}

// TupleLiteral is a parenthesised list; a single element is plain grouping.
type TupleLiteral struct {
	Span
	Elements []Expression
}

func (e *TupleLiteral) expressionNode() {}
