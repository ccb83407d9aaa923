package evaluator

import (
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// Environment is the slot array of one function activation. Slot numbers
// come from the compiler; a nil entry is an unbound slot.
type Environment struct {
	slots []value.Value
}

func NewEnvironment(size int) *Environment {
	return &Environment{slots: make([]value.Value, size)}
}

func (e *Environment) Get(slot int) value.Value {
	if slot < 0 || slot >= len(e.slots) || e.slots[slot] == nil {
		diagnostics.Fatalf("read of unbound local slot $%d", slot)
	}
	return e.slots[slot]
}

// Set binds slot and returns whatever it held before.
func (e *Environment) Set(slot int, v value.Value) value.Value {
	if slot < 0 {
		diagnostics.Fatalf("invalid local slot $%d", slot)
	}
	if slot >= len(e.slots) {
		grown := make([]value.Value, slot+1)
		copy(grown, e.slots)
		e.slots = grown
	}
	old := e.slots[slot]
	e.slots[slot] = v
	return old
}

// Restore puts back a value returned by Set.
func (e *Environment) Restore(slot int, old value.Value) {
	e.slots[slot] = old
}
