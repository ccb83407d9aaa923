package modules

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/config"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

// Loader reads a project and all of its dependencies from disk.
// Each project directory carries a solar.yaml manifest and an src/ tree of
// AST documents; every directory below src/ is one module.
type Loader struct {
	Logger *log.Logger

	info       *ProjectInfo
	registry   *Registry
	byDir      map[string]*Project // Cache of loaded projects by absolute dir
	byName     map[string]*Project
	processing map[string]bool // Cycle detection during loading
}

func NewLoader() *Loader {
	return &Loader{
		Logger:     log.New(io.Discard, "", 0),
		info:       &ProjectInfo{},
		registry:   NewRegistry(),
		byDir:      make(map[string]*Project),
		byName:     make(map[string]*Project),
		processing: make(map[string]bool),
	}
}

// Load reads the target project in dir, its dependencies, and links every
// file's imports.
func (l *Loader) Load(dir string) (*ProjectInfo, *Registry, error) {
	if len(l.info.Projects) != 0 {
		return nil, nil, fmt.Errorf("loader already used")
	}
	if _, err := l.loadProject(dir); err != nil {
		return nil, nil, err
	}
	if err := l.registry.Link(l.info); err != nil {
		return nil, nil, err
	}
	return l.info, l.registry, nil
}

func (l *Loader) loadProject(dir string) (*Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	// Check cycle
	if l.processing[absDir] {
		return nil, fmt.Errorf("circular dependency detected loading project: %s", absDir)
	}
	if p, ok := l.byDir[absDir]; ok {
		return p, nil
	}
	l.processing[absDir] = true
	defer delete(l.processing, absDir)

	m, err := config.LoadManifest(absDir)
	if err != nil {
		return nil, err
	}
	if other, dup := l.byName[m.Name]; dup {
		return nil, fmt.Errorf("project name %q used by both %s and %s", m.Name, other.Dir, absDir)
	}

	p := l.info.Add(&Project{
		Name: m.Name,
		Dir:  absDir,
		Base: symbols.IdPath{m.Name},
	})
	l.byDir[absDir] = p
	l.byName[m.Name] = p
	l.Logger.Printf("loading project %s from %s", m.Name, absDir)

	// dependencies in a stable order so project ids are reproducible
	libs := make([]string, 0, len(m.Dependencies))
	for lib := range m.Dependencies {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	for _, lib := range libs {
		depDir := m.Dependencies[lib]
		if !filepath.IsAbs(depDir) {
			depDir = filepath.Join(absDir, depDir)
		}
		dep, err := l.loadProject(depDir)
		if err != nil {
			return nil, fmt.Errorf("dependency %s of %s: %w", lib, m.Name, err)
		}
		p.Deps[lib] = dep.Base
	}

	if err := l.loadSources(p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadSources walks src/ and adds every AST document to the module named
// after its directory.
func (l *Loader) loadSources(p *Project) error {
	root := filepath.Join(p.Dir, config.SourceDir)
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("project %s: %w", p.Name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project %s: %s is not a directory", p.Name, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && config.HasSourceExt(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, path := range files {
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		modPath := p.Base
		if rel != "." {
			modPath = p.Base.Join(strings.Split(filepath.ToSlash(rel), "/")...)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		file, err := ast.Decode(path, data)
		if err != nil {
			return err
		}
		l.registry.AddFile(modPath, p.ID, file)
		l.Logger.Printf("loaded %s into module %s", path, modPath)
	}
	return nil
}
