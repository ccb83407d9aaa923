package backend

import (
	"fmt"

	"github.com/solar-lang/solar-compiler/internal/evaluator"
	"github.com/solar-lang/solar-compiler/internal/pipeline"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// MIRBackend evaluates the compiled form of main.
type MIRBackend struct {
	MaxDepth int
}

func NewMIR() *MIRBackend {
	return &MIRBackend{}
}

func (b *MIRBackend) Run(ctx *pipeline.PipelineContext) (value.Value, error) {
	if !ctx.Compiled {
		return nil, fmt.Errorf("%s has not been compiled", ctx.Entry)
	}
	ev := evaluator.New(ctx.Compiler.Functions, ctx.Console)
	ev.Logger = ctx.Logger
	if b.MaxDepth > 0 {
		ev.MaxDepth = b.MaxDepth
	}
	return ev.Call(ctx.Context, ctx.EntryFunction, nil)
}

func (b *MIRBackend) Name() string {
	return "mir"
}
