package modules

import (
	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/utils"
)

// Module is one namespace: a flat, unordered list of files that belong to
// the same (project, path) pair.
type Module struct {
	Path      symbols.IdPath
	ProjectID int
	Files     []*FileInfo
}

// FileInfo is a loaded file together with its import table.
type FileInfo struct {
	Filename string
	// Imports maps a symbol (e.g. `length`) to every module path it may come
	// from. `use std.string.length` and `use std.array.length` are both
	// valid; the ambiguity is kept here and resolved at the use site.
	Imports SymbolResolver
	AST     *ast.File
}

func NewModule(path symbols.IdPath, projectID int) *Module {
	return &Module{Path: path, ProjectID: projectID}
}

func (m *Module) Key() string {
	return m.Path.Key()
}

// AddFile appends a file and returns its index.
func (m *Module) AddFile(f *FileInfo) int {
	m.Files = append(m.Files, f)
	return len(m.Files) - 1
}

// Find lists every declaration called name in any file of the module.
// Tests are not symbols and never match.
func (m *Module) Find(name string) []symbols.SymbolID {
	var out []symbols.SymbolID
	name = utils.NormalizeName(name)
	for fi, f := range m.Files {
		for ii, item := range f.AST.Items {
			if _, isTest := item.(*ast.Test); isTest {
				continue
			}
			if utils.NormalizeName(item.ItemName()) == name {
				out = append(out, symbols.SymbolID{Module: m.Key(), File: fi, Item: ii})
			}
		}
	}
	return out
}

// Names lists the distinct declaration names of the module in file order.
func (m *Module) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range m.Files {
		for _, item := range f.AST.Items {
			if _, isTest := item.(*ast.Test); isTest {
				continue
			}
			n := item.ItemName()
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
