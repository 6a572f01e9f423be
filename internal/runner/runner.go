// Package runner implements the uniform asynchronous interface to
// untrusted team code: the Runner capability, its line-framed JSON
// transport, a timeout decorator, and child-process/in-process backends
// (spec.md §4.G–§4.I, §9 "Polymorphism over runners").
package runner

import (
	"context"

	"battlegrid/internal/wire"
)

// Runner is the capability set every backend implements: run one turn
// and produce either a ProgramOutput or a fatal ProgramError. A call to
// Run must not retain input after it returns (spec §4.G) — implementers
// that hand off to a background I/O pump must copy anything they need
// before returning.
type Runner interface {
	Run(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError)
}

// RunnerFunc adapts a plain function to the Runner interface, the same
// convenience pattern http.HandlerFunc uses.
type RunnerFunc func(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError)

func (f RunnerFunc) Run(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	return f(ctx, input)
}

// Closer is implemented by runners that own a resource lifetime distinct
// from any one turn's context — a child process and its pipes, chiefly.
// Dropping a runner must terminate any child process and close its pipes
// (spec §5 "Shared resources"/"Cancellation"); the Match Driver type-
// asserts for this interface and calls Close on every runner it owns when
// a match ends or aborts, regardless of which team's turn failed.
type Closer interface {
	Close()
}
