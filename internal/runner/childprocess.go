package runner

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"

	"battlegrid/internal/wire"
)

var _ Closer = (*ChildProcessLineRunner)(nil)

// ChildProcessLineRunner hosts a team program as a child process and
// speaks the line-framed protocol over its stdin/stdout (spec §4.H, §9
// "ChildProcessLineRunner" concrete variant). Stdio is owned solely by
// this runner (spec §5 "Shared resources").
type ChildProcessLineRunner struct {
	cmd   *exec.Cmd
	inner Runner

	closeOnce sync.Once
}

// StartChildProcessRunner launches name(args...), wires its stdio through
// a LineFramedRunner, and performs the init phase before returning. A
// background goroutine kills the process and closes its pipes once ctx
// is cancelled; a turn's own context is watched by Run (spec §5
// "Cancellation").
func StartChildProcessRunner(ctx context.Context, name string, args ...string) (Runner, *wire.ProgramError) {
	cmd := exec.Command(name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindIO, IO: fmt.Sprintf("spawning runner: %s", err)}
	}
	log.Printf("🚀 runner started: %s %v (pid %d)", name, args, cmd.Process.Pid)

	cpr := &ChildProcessLineRunner{cmd: cmd}

	go func() {
		<-ctx.Done()
		cpr.Close()
	}()

	inner, initErr := NewLineFramedRunner(stdout, stdin, 0)
	if initErr != nil {
		cpr.Close()
		return nil, initErr
	}
	cpr.inner = inner
	return cpr, nil
}

// Run delegates to the underlying line-framed transport. If ctx is
// cancelled while the call is in flight (as the Timeout Wrapper does when
// its timer fires), the process is closed, which unblocks the pending
// read and releases its pipes.
func (c *ChildProcessLineRunner) Run(ctx context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()
	return c.inner.Run(ctx, input)
}

// Close terminates the child process and releases its pipes. Safe to
// call more than once; only the first call has an effect.
func (c *ChildProcessLineRunner) Close() {
	c.closeOnce.Do(func() {
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
		_ = c.cmd.Wait()
		log.Printf("🔌 runner exited: pid %d", c.cmd.Process.Pid)
	})
}
