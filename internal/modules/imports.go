package modules

import (
	"fmt"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

// SymbolResolver is the per-file import table: imported name -> candidate
// absolute module paths.
type SymbolResolver map[string][]symbols.IdPath

// Add records path as one origin of symbol, ignoring exact duplicates.
func (r SymbolResolver) Add(symbol string, path symbols.IdPath) {
	for _, p := range r[symbol] {
		if p.Key() == path.Key() {
			return
		}
	}
	r[symbol] = append(r[symbol], path)
}

// LibNotInDepsError is returned for `use lib` imports of a library the
// project does not depend on.
type LibNotInDepsError struct {
	Lib string
	Pos ast.Span
}

func (e *LibNotInDepsError) Error() string {
	return fmt.Sprintf("%s: imported library '%s' not found in dependencies", e.Pos, e.Lib)
}

// ResolveImports turns the imports of file into absolute paths.
// Library imports resolve their first segment through depmap; project
// imports are relative to basepath. reg is only consulted for `all`
// selections, which need the target module's declarations.
func ResolveImports(file *ast.File, depmap map[string]symbols.IdPath, basepath symbols.IdPath, reg *Registry) (SymbolResolver, error) {
	imports := make(SymbolResolver)

	for _, imp := range file.Imports {
		if len(imp.Path) == 0 {
			return nil, fmt.Errorf("%s: empty import path", imp.Pos())
		}
		var path symbols.IdPath
		if imp.IsLib {
			lib := imp.Path[0]
			libPath, ok := depmap[lib]
			if !ok {
				return nil, &LibNotInDepsError{Lib: lib, Pos: imp.Pos()}
			}
			path = libPath.Join(imp.Path[1:]...)
		} else {
			path = basepath.Join(imp.Path...)
		}

		switch imp.Selection {
		case ast.SelectThis:
			// the last segment is the imported symbol itself
			if len(path) < 2 {
				return nil, fmt.Errorf("%s: import of %s names no symbol", imp.Pos(), path)
			}
			symbol := path[len(path)-1]
			imports.Add(symbol, path[:len(path)-1:len(path)-1])
		case ast.SelectItems:
			for _, item := range imp.Items {
				imports.Add(item, path)
			}
		case ast.SelectAll:
			if reg == nil {
				return nil, fmt.Errorf("%s: cannot resolve `all` import of %s without a registry", imp.Pos(), path)
			}
			mod, err := reg.Get(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", imp.Pos(), err)
			}
			for _, name := range mod.Names() {
				imports.Add(name, path)
			}
		}
	}

	return imports, nil
}
