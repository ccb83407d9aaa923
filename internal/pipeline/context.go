package pipeline

import (
	"context"
	"io"
	"log"

	"github.com/solar-lang/solar-compiler/internal/compiler"
	"github.com/solar-lang/solar-compiler/internal/console"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/modules"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries state between stages. Stages skip their work once
// Errors is non-empty.
type PipelineContext struct {
	Context context.Context
	// Dir is the target project directory.
	Dir string

	Projects *modules.ProjectInfo
	Registry *modules.Registry
	Compiler *compiler.Context

	// Entry is the target's main declaration, EntryFunction its compiled
	// form (valid once Compiled is set).
	Entry         symbols.SymbolID
	EntryFunction mir.FunctionID
	Compiled      bool

	Console console.Console
	Logger  *log.Logger

	Result value.Value
	Errors []error
}

func NewPipelineContext(ctx context.Context, dir string, con console.Console) *PipelineContext {
	return &PipelineContext{
		Context: ctx,
		Dir:     dir,
		Console: con,
		Logger:  log.New(io.Discard, "", 0),
	}
}

// Failed reports whether a previous stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}
