package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/time/rate"

	"battlegrid/internal/wire"
)

const (
	initPrefix   = "__rr_init:"
	outputPrefix = "__rr_output:"

	// maxLineBytes bounds a single line from the child, matching the
	// teacher's EventLog batching limits — a runaway child writing an
	// unterminated multi-megabyte line must not pin host memory.
	maxLineBytes = 1 << 20
)

// LineFramedRunner wraps a byte-oriented duplex channel — typically a
// child process's stdin/stdout — with the newline-delimited, prefix-
// tagged protocol normative in spec §4.H/§6.
type LineFramedRunner struct {
	w       *bufio.Writer
	scanner *bufio.Scanner

	// logLimiter rate-limits the log lines read before an `__rr_output:`
	// line: a token bucket holding up to logLinesPerTurn tokens and
	// refilling at logLinesPerTurn per second, shared across Run calls,
	// so one call may accept more lines if it runs longer than a second,
	// or fewer if an earlier call drained the bucket. Same token-bucket
	// technique the teacher's EventLog/IPRateLimiter use to cap
	// per-source volume (SPEC_FULL §3: golang.org/x/time/rate wired into
	// the runner).
	logLimiter *rate.Limiter
}

// NewLineFramedRunner performs the init phase (spec §4.H) and returns
// either a ready Runner or the fatal ProgramError the init line carried.
// logLinesPerTurn sets the log-line token bucket's size and per-second
// refill rate (see logLimiter); pass 0 for the package default of 256.
func NewLineFramedRunner(r io.Reader, w io.Writer, logLinesPerTurn int) (Runner, *wire.ProgramError) {
	if logLinesPerTurn <= 0 {
		logLinesPerTurn = 256
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	lr := &LineFramedRunner{
		w:          bufio.NewWriter(w),
		scanner:    scanner,
		logLimiter: rate.NewLimiter(rate.Limit(logLinesPerTurn), logLinesPerTurn),
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
		}
		return nil, &wire.ProgramError{Kind: wire.KindNoData}
	}

	line := scanner.Text()
	payload, ok := strings.CutPrefix(line, initPrefix)
	if !ok {
		return nil, &wire.ProgramError{Kind: wire.KindNoInitError}
	}

	var env struct {
		Ok  *struct{}          `json:"Ok"`
		Err *wire.ProgramError `json:"Err"`
	}
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindDataError, Data: err.Error()}
	}
	if env.Err != nil {
		return nil, env.Err
	}

	return lr, nil
}

// Run writes the per-turn input and reads lines until the `__rr_output:`
// line, treating everything before it as log output (spec §4.H).
func (lr *LineFramedRunner) Run(_ context.Context, input *wire.ProgramInput) (*wire.ProgramOutput, *wire.ProgramError) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindInternalError}
	}
	if _, err := lr.w.Write(append(body, '\n')); err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
	}
	if err := lr.w.Flush(); err != nil {
		return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
	}

	var logs []string
	for {
		if !lr.scanner.Scan() {
			if err := lr.scanner.Err(); err != nil {
				return nil, &wire.ProgramError{Kind: wire.KindIO, IO: err.Error()}
			}
			return nil, &wire.ProgramError{Kind: wire.KindNoData}
		}

		line := lr.scanner.Text()
		if payload, ok := strings.CutPrefix(line, outputPrefix); ok {
			var env struct {
				Ok  *wire.ProgramOutput `json:"Ok"`
				Err *wire.ProgramError  `json:"Err"`
			}
			if err := json.Unmarshal([]byte(payload), &env); err != nil {
				return nil, &wire.ProgramError{Kind: wire.KindDataError, Data: err.Error()}
			}
			if env.Err != nil {
				return nil, env.Err
			}
			if env.Ok == nil {
				return nil, &wire.ProgramError{Kind: wire.KindDataError, Data: "missing Ok payload on output line"}
			}
			env.Ok.Logs = append(logs, env.Ok.Logs...)
			return env.Ok, nil
		}

		if !lr.logLimiter.Allow() {
			return nil, &wire.ProgramError{Kind: wire.KindDataError, Data: "log line rate exceeded before output line"}
		}
		logs = append(logs, line)
	}
}
