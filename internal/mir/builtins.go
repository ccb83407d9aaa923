package mir

import "github.com/solar-lang/solar-compiler/internal/config"

// CustomCode identifies a built-in operation.
type CustomCode int

const (
	StrConcat CustomCode = iota
	Identity
	Print
	Readline
	Add
	Sub
	Eq
	Lt
	Not
)

var builtinNames = map[string]CustomCode{
	config.StrConcatBuiltin: StrConcat,
	config.IdentityBuiltin:  Identity,
	config.PrintBuiltin:     Print,
	config.ReadlineBuiltin:  Readline,
	config.AddBuiltin:       Add,
	config.SubBuiltin:       Sub,
	config.EqBuiltin:        Eq,
	config.LtBuiltin:        Lt,
	config.NotBuiltin:       Not,
}

func (c CustomCode) String() string {
	for name, code := range builtinNames {
		if code == c {
			return name
		}
	}
	return "unknown"
}

// LookupBuiltin maps an operation name (prefix already removed) to its code.
func LookupBuiltin(name string) (CustomCode, bool) {
	c, ok := builtinNames[name]
	return c, ok
}
