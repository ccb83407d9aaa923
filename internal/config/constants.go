package config

import "strings"

// SourceFileExt is the extension of AST documents produced by the parser.
const SourceFileExt = ".sol.yaml"

// ManifestName is the project manifest found at the root of every project.
const ManifestName = "solar.yaml"

// SourceDir holds the project's modules; each subdirectory is a module.
const SourceDir = "src"

// MainFuncName is the entry point of the target project.
const MainFuncName = "main"

// DefaultMaxCallDepth bounds evaluator recursion.
const DefaultMaxCallDepth = 10000

// BuiltinPrefixes mark primitive operations. The match is case-sensitive and
// both prefixes have the same length.
var BuiltinPrefixes = []string{"buildin_", "Buildin_"}

// Built-in operation names (without prefix)
const (
	StrConcatBuiltin = "str_concat"
	IdentityBuiltin  = "identity"
	PrintBuiltin     = "print"
	ReadlineBuiltin  = "readline"
	AddBuiltin       = "add"
	SubBuiltin       = "sub"
	EqBuiltin        = "eq"
	LtBuiltin        = "lt"
	NotBuiltin       = "not"
)

// TrimBuiltinPrefix returns the operation name and true when name carries a
// built-in prefix.
func TrimBuiltinPrefix(name string) (string, bool) {
	for _, p := range BuiltinPrefixes {
		if strings.HasPrefix(name, p) {
			return name[len(p):], true
		}
	}
	return "", false
}

// HasSourceExt checks if path names an AST document.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

// TrimSourceExt removes the AST document extension.
func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}
