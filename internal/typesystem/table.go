package typesystem

import "sync"

// TypeID names a concrete type. It is only used to key the compiled-function
// cache and to report type errors; the type rules live elsewhere.
type TypeID uint32

// Built-in types, registered in every Table in this order.
const (
	Void TypeID = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float64
	String

	firstUserType
)

var builtinNames = [...]string{
	Void:    "Void",
	Bool:    "Bool",
	Int8:    "Int8",
	Int16:   "Int16",
	Int32:   "Int32",
	Int64:   "Int64",
	Uint8:   "Uint8",
	Uint16:  "Uint16",
	Uint32:  "Uint32",
	Uint64:  "Uint64",
	Float64: "Float64",
	String:  "String",
}

// IsInteger reports whether id is one of the sized integer types.
func IsInteger(id TypeID) bool {
	return id >= Int8 && id <= Uint64
}

// IsBuiltin reports whether id was registered by NewTable.
func IsBuiltin(id TypeID) bool {
	return id < firstUserType
}

// BuiltinName returns the name of a built-in type, or "" for user types.
func BuiltinName(id TypeID) string {
	if IsBuiltin(id) {
		return builtinNames[id]
	}
	return ""
}

// Type is one entry of the table.
type Type struct {
	ID      TypeID
	Name    string
	Builtin bool
}

// Table is the shared static type table. Reads may run concurrently;
// registration briefly excludes everyone else.
type Table struct {
	mu     sync.RWMutex
	types  []Type
	byName map[string]TypeID
}

func NewTable() *Table {
	t := &Table{byName: make(map[string]TypeID)}
	for id, name := range builtinNames {
		t.types = append(t.types, Type{ID: TypeID(id), Name: name, Builtin: true})
		t.byName[name] = TypeID(id)
	}
	// Common aliases used by source programs.
	t.byName["Int"] = Int64
	t.byName["Float"] = Float64
	return t
}

// Lookup finds a type by name.
func (t *Table) Lookup(name string) (TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the printable name of id.
func (t *Table) Name(id TypeID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) < len(t.types) {
		return t.types[id].Name
	}
	return "<unknown type>"
}

// Register adds a user type. Registering an existing name returns its id.
func (t *Table) Register(name string) TypeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := TypeID(len(t.types))
	t.types = append(t.types, Type{ID: id, Name: name})
	t.byName[name] = id
	return id
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.types)
}
