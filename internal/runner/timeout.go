package runner

import (
	"context"
	"time"

	"battlegrid/internal/wire"
)

// TimeoutWrapper decorates a Runner with a per-turn deadline (spec §4.I).
// It composes without knowing anything about the wrapped backend, the
// "decorator... without knowing backend specifics" design note in §9.
type TimeoutWrapper struct {
	inner   Runner
	timeout time.Duration
}

// WithTimeout wraps inner with a bounded per-turn duration. A zero
// duration disables the wrapper's own deadline, deferring entirely to
// ctx (useful for tests and the in-process backend).
func WithTimeout(inner Runner, timeout time.Duration) *TimeoutWrapper {
	return &TimeoutWrapper{inner: inner, timeout: timeout}
}

// Run races inner.Run against the wrapper's timer. If the timer fires
// first, the inner call's context is cancelled — releasing whatever
// resources it scoped to that context — and Run returns Timeout(duration)
// without waiting further for the inner goroutine (spec §4.I, §5
// "Cancellation").
func (t *TimeoutWrapper) Run(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	if t.timeout <= 0 {
		return t.inner.Run(ctx, input)
	}

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		out *wire.ProgramOutput
		err *wire.ProgramError
	}
	done := make(chan result, 1)

	go func() {
		out, err := t.inner.Run(runCtx, input)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-runCtx.Done():
		return nil, &wire.ProgramError{Kind: wire.KindTimeout, Timeout: t.timeout}
	}
}

// Close delegates to the wrapped runner's own Close, if it has one — the
// wrapper itself owns no resources beyond the inner runner (spec §5).
func (t *TimeoutWrapper) Close() {
	if c, ok := t.inner.(Closer); ok {
		c.Close()
	}
}
