// Package compiler lowers declarations into typed mir functions.
//
// Compilation is demand driven: CompileSymbol lowers one declaration for one
// tuple of argument types and, recursively, every function the body calls.
// Results are memoized in a FunctionStore keyed by SSID, so each
// (symbol, argument types) pair is lowered at most once per Context.
package compiler

import (
	"io"
	"log"
	"sync/atomic"

	"github.com/solar-lang/solar-compiler/internal/config"
	"github.com/solar-lang/solar-compiler/internal/modules"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// Context is the whole-program compiler state. It is safe for concurrent
// CompileSymbol calls.
type Context struct {
	Projects  *modules.ProjectInfo
	Modules   *modules.Registry
	Types     *typesystem.Table
	Functions *FunctionStore

	logger *log.Logger

	lowerings   atomic.Int64
	cacheHits   atomic.Int64
	forwardRefs atomic.Int64
}

func NewContext(projects *modules.ProjectInfo, registry *modules.Registry) *Context {
	return &Context{
		Projects:  projects,
		Modules:   registry,
		Types:     typesystem.NewTable(),
		Functions: NewFunctionStore(),
		logger:    log.New(io.Discard, "", 0),
	}
}

func (c *Context) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	c.logger = l
}

// Stats counts compiler work since the Context was created.
type Stats struct {
	// Lowerings is the number of function bodies actually lowered.
	Lowerings int64
	// CacheHits counts requests answered by a complete store entry.
	CacheHits int64
	// ForwardRefs counts requests answered by a still reserved entry.
	ForwardRefs int64
}

func (c *Context) Stats() Stats {
	return Stats{
		Lowerings:   c.lowerings.Load(),
		CacheHits:   c.cacheHits.Load(),
		ForwardRefs: c.forwardRefs.Load(),
	}
}

// FindTargetMain locates the unique main declaration in the root module of
// the target project.
func (c *Context) FindTargetMain() (symbols.SymbolID, error) {
	target := c.Projects.Target()
	if target == nil {
		return symbols.SymbolID{}, &modules.ModuleNotFoundError{}
	}
	mod, err := c.Modules.Get(target.Base)
	if err != nil {
		return symbols.SymbolID{}, err
	}
	found := mod.Find(config.MainFuncName)
	switch len(found) {
	case 0:
		return symbols.SymbolID{}, &NotFoundError{Name: config.MainFuncName, Detail: "in module " + target.Base.String()}
	case 1:
		return found[0], nil
	default:
		return symbols.SymbolID{}, &TooManyError{Symbol: config.MainFuncName, Module: target.Base}
	}
}

// LookupFor returns the resolution context of the file that declares id.
func (c *Context) LookupFor(id symbols.SymbolID) Lookup {
	mod, file, _ := c.Modules.Symbol(id)
	return Lookup{Module: mod, Imports: file.Imports}
}
