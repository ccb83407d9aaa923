package symbols

import (
	"fmt"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// IdPath is an absolute module path, e.g. [std string].
type IdPath []string

// Key is the registry key of the path.
func (p IdPath) Key() string {
	return strings.Join(p, "/")
}

func (p IdPath) String() string {
	return strings.Join(p, ".")
}

// Join returns a fresh path with segs appended; p is never aliased.
func (p IdPath) Join(segs ...string) IdPath {
	out := make(IdPath, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// SymbolID addresses one declaration: module, file index inside the module,
// item index inside the file.
type SymbolID struct {
	Module string // IdPath.Key() of the module
	File   int
	Item   int
}

func (s SymbolID) String() string {
	return fmt.Sprintf("%s#%d:%d", s.Module, s.File, s.Item)
}

// SSID is a definition site paired with concrete argument types; it is the
// compiled-function cache key. A function compiled for (Int32, Int32) is a
// different entry from the same function compiled for (Int64, Int64).
type SSID struct {
	Symbol SymbolID
	Args   []typesystem.TypeID
}

// SSIDKey is the comparable form of an SSID.
type SSIDKey struct {
	Symbol SymbolID
	Args   string
}

func argsKey(args []typesystem.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", a)
	}
	return b.String()
}

func (s SSID) Key() SSIDKey {
	return SSIDKey{Symbol: s.Symbol, Args: argsKey(s.Args)}
}

// Equal reports whether both components match.
func (s SSID) Equal(o SSID) bool {
	return s.Key() == o.Key()
}
