package modules

import (
	"fmt"
	"sort"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

// ModuleNotFoundError is returned when a path names no loaded module.
type ModuleNotFoundError struct {
	Path symbols.IdPath
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module not found: %s", e.Path)
}

// Registry is the global collection of modules of every loaded project.
// It is built once at startup and read-only afterwards, so lookups need no
// locking.
type Registry struct {
	modules map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// AddFile places file into the module at path, creating the module on first
// use, and returns the file's FileInfo. Imports are filled in by Link.
func (r *Registry) AddFile(path symbols.IdPath, projectID int, file *ast.File) *FileInfo {
	m, ok := r.modules[path.Key()]
	if !ok {
		m = NewModule(path, projectID)
		r.modules[path.Key()] = m
	}
	fi := &FileInfo{Filename: file.Name, AST: file, Imports: make(SymbolResolver)}
	m.AddFile(fi)
	return fi
}

// Get resolves a module by absolute path.
func (r *Registry) Get(path symbols.IdPath) (*Module, error) {
	if m, ok := r.modules[path.Key()]; ok {
		return m, nil
	}
	return nil, &ModuleNotFoundError{Path: path}
}

// ByKey resolves a module by its registry key.
func (r *Registry) ByKey(key string) (*Module, bool) {
	m, ok := r.modules[key]
	return m, ok
}

// Symbol returns the declaration behind id. An id that does not point at a
// declaration is an internal error: ids are only created by Module.Find.
func (r *Registry) Symbol(id symbols.SymbolID) (*Module, *FileInfo, ast.Item) {
	m, ok := r.modules[id.Module]
	if !ok {
		diagnostics.Fatalf("symbol %s: module id not valid", id)
	}
	if id.File < 0 || id.File >= len(m.Files) {
		diagnostics.Fatalf("symbol %s: file id not valid", id)
	}
	f := m.Files[id.File]
	if id.Item < 0 || id.Item >= len(f.AST.Items) {
		diagnostics.Fatalf("symbol %s: item id not valid", id)
	}
	return m, f, f.AST.Items[id.Item]
}

// Modules returns all modules ordered by path.
func (r *Registry) Modules() []*Module {
	out := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Link resolves the import tables of every file against the dependency map
// of the file's project.
func (r *Registry) Link(info *ProjectInfo) error {
	for _, m := range r.Modules() {
		p := info.Project(m.ProjectID)
		if p == nil {
			return fmt.Errorf("module %s belongs to unknown project %d", m.Path, m.ProjectID)
		}
		for _, f := range m.Files {
			imports, err := ResolveImports(f.AST, p.Deps, p.Base, r)
			if err != nil {
				return err
			}
			f.Imports = imports
		}
	}
	return nil
}
