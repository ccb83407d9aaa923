package pipeline

import (
	"github.com/solar-lang/solar-compiler/internal/compiler"
	"github.com/solar-lang/solar-compiler/internal/modules"
)

// LoadProcessor reads the target project and its dependencies.
type LoadProcessor struct{}

func (LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	loader := modules.NewLoader()
	loader.Logger = ctx.Logger
	projects, registry, err := loader.Load(ctx.Dir)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Projects = projects
	ctx.Registry = registry
	ctx.Logger.Printf("loaded %d project(s), %d module(s)", len(projects.Projects), len(registry.Modules()))
	return ctx
}

// PrepareProcessor creates the compiler context and locates main.
type PrepareProcessor struct{}

func (PrepareProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	cc := compiler.NewContext(ctx.Projects, ctx.Registry)
	cc.SetLogger(ctx.Logger)
	ctx.Compiler = cc

	entry, err := cc.FindTargetMain()
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Entry = entry
	return ctx
}

// CompileProcessor compiles main, and transitively everything it calls,
// with no arguments.
type CompileProcessor struct{}

func (CompileProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	id, _, err := ctx.Compiler.CompileSymbol(ctx.Entry, nil)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.EntryFunction = id
	ctx.Compiled = true
	stats := ctx.Compiler.Stats()
	ctx.Logger.Printf("compiled %d function(s), %d cache hit(s), %d forward reference(s)",
		stats.Lowerings, stats.CacheHits, stats.ForwardRefs)
	return ctx
}
