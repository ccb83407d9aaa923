// Package mir is the typed intermediate instruction tree produced by the
// compiler and consumed by the evaluator.
//
// Every compiled function body is a tree: nodes own their children, nothing
// is shared and there are no cycles. Each node is wrapped in a StaticExpr
// carrying the statically determined result type.
package mir

import (
	"github.com/solar-lang/solar-compiler/internal/typesystem"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// FunctionID is an index into the function store.
type FunctionID uint32

// StaticExpr is an instruction with its static type.
type StaticExpr struct {
	Instr Instruction
	Type  typesystem.TypeID
}

// Instruction is one of *Const, *GetLocalVar, *NewLocalVar, *IfExpr,
// *FunctionCall, *Custom.
type Instruction interface {
	instructionNode()
}

// Const yields a literal value.
type Const struct {
	Value value.Value
}

// GetLocalVar reads a parameter or let binding.
type GetLocalVar struct {
	Slot int
}

// NewLocalVar binds Value to Slot while Body is evaluated.
type NewLocalVar struct {
	Slot  int
	Value StaticExpr
	Body  StaticExpr
}

// IfExpr evaluates exactly one of its branches.
type IfExpr struct {
	Condition StaticExpr
	Then      StaticExpr
	Else      StaticExpr
}

// FunctionCall invokes a compiled function by store index. The callee may
// still be under compilation when the call is built.
type FunctionCall struct {
	Function FunctionID
	Args     []StaticExpr
}

// Custom applies a built-in operation.
type Custom struct {
	Code CustomCode
	Args []StaticExpr
}

func (*Const) instructionNode()        {}
func (*GetLocalVar) instructionNode()  {}
func (*NewLocalVar) instructionNode()  {}
func (*IfExpr) instructionNode()       {}
func (*FunctionCall) instructionNode() {}
func (*Custom) instructionNode()       {}

// Function is a completed store entry.
type Function struct {
	// Name is the declaration name, for dumps and stack traces.
	Name string
	// Args are the concrete argument types; argument i lives in slot i.
	Args   []typesystem.TypeID
	Body   StaticExpr
	Return typesystem.TypeID
	// Frame is the number of local slots the body needs.
	Frame int
}
