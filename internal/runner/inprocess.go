package runner

import (
	"context"

	"battlegrid/internal/wire"
)

// Module is the shape an in-process team program implements: given a
// turn's input, decide actions. Unlike a child process it runs in the
// host's own goroutine, so resource release on timeout means returning
// (or having Decide respect ctx), not killing anything (spec §9
// "InProcessModuleRunner" concrete variant).
type Module interface {
	Decide(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError)

func (f ModuleFunc) Decide(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	return f(ctx, input)
}

// InProcessModuleRunner hosts a Module directly, with no subprocess and
// no line framing — used for sandboxed language runtimes embedded in the
// host process and for tests that don't want to fork a process.
type InProcessModuleRunner struct {
	module Module
}

// NewInProcessModuleRunner wraps a Module as a Runner.
func NewInProcessModuleRunner(m Module) *InProcessModuleRunner {
	return &InProcessModuleRunner{module: m}
}

func (r *InProcessModuleRunner) Run(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	if err := ctx.Err(); err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindTimeout}
	}
	return r.module.Decide(ctx, input)
}
