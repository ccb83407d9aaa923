// Package value is the dynamic runtime value domain. Values appear as
// literal payloads in the instruction tree and as the evaluator's results.
package value

import (
	"strconv"

	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// Value is one of Void, Bool, Int, Float or *String.
type Value interface {
	// TypeName is the name used in diagnostics, e.g. "Bool" or "Int32".
	TypeName() string
	// Type is the static type id of the value.
	Type() typesystem.TypeID
	// String is the textual form written by print.
	String() string
	isValue()
}

// Void
type Void struct{}

func (Void) TypeName() string        { return "Void" }
func (Void) Type() typesystem.TypeID { return typesystem.Void }
func (Void) String() string          { return "" }
func (Void) isValue()                {}

// Bool
type Bool struct {
	Value bool
}

func (b Bool) TypeName() string        { return "Bool" }
func (b Bool) Type() typesystem.TypeID { return typesystem.Bool }
func (b Bool) String() string          { return strconv.FormatBool(b.Value) }
func (Bool) isValue()                  {}

// Float
type Float struct {
	Value float64
}

func (f Float) TypeName() string        { return "Float64" }
func (f Float) Type() typesystem.TypeID { return typesystem.Float64 }
func (f Float) String() string          { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (Float) isValue()                  {}

// String is shared and immutable: evaluations of the same literal hand out
// the same pointer instead of copying the text.
type String struct {
	Value string
}

func NewString(s string) *String {
	return &String{Value: s}
}

func (s *String) TypeName() string        { return "String" }
func (s *String) Type() typesystem.TypeID { return typesystem.String }
func (s *String) String() string          { return s.Value }
func (*String) isValue()                  {}

// Equal compares two values of the same variant. Values of different
// variants are never equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Void:
		_, ok := b.(Void)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Int:
		y, ok := b.(Int)
		return ok && x.Kind == y.Kind && x.Bits == y.Bits
	case Float:
		y, ok := b.(Float)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	}
	return false
}
