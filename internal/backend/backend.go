// Package backend provides an interface for different execution backends.
// This allows switching between the mir evaluator and direct AST
// interpretation.
package backend

import (
	"github.com/solar-lang/solar-compiler/internal/pipeline"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes main from pipeline context and returns its result
	Run(ctx *pipeline.PipelineContext) (value.Value, error)

	// Name returns the backend name for display
	Name() string
}
