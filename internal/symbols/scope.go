package symbols

import (
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// Binding is one lexical name: a parameter or a let binding.
type Binding struct {
	Name string
	Slot int
	Type typesystem.TypeID
}

// Scope is the stack of bindings active while one function body is
// compiled. It is owned by that compilation and never shared.
type Scope struct {
	bindings  []Binding
	highWater int
}

func NewScope() *Scope {
	return &Scope{bindings: make([]Binding, 0, 16)}
}

// Push binds name to the next sequential slot and returns the slot.
// Slots of popped bindings are reused; lifetimes nest, so they never overlap.
func (s *Scope) Push(name string, ty typesystem.TypeID) int {
	slot := len(s.bindings)
	s.bindings = append(s.bindings, Binding{Name: name, Slot: slot, Type: ty})
	if len(s.bindings) > s.highWater {
		s.highWater = len(s.bindings)
	}
	return slot
}

// Pop removes the most recent binding.
func (s *Scope) Pop() {
	if len(s.bindings) == 0 {
		diagnostics.Fatalf("pop on empty scope")
	}
	s.bindings = s.bindings[:len(s.bindings)-1]
}

// Get returns the most recently pushed binding called name.
func (s *Scope) Get(name string) (Binding, bool) {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].Name == name {
			return s.bindings[i], true
		}
	}
	return Binding{}, false
}

func (s *Scope) Len() int {
	return len(s.bindings)
}

// HighWater is the deepest the scope has ever been; it sizes runtime frames.
func (s *Scope) HighWater() int {
	return s.highWater
}
