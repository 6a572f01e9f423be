package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// LineCol is a source position: a 1-indexed line and an optional column.
// On the wire it is a 1- or 2-element JSON array, matching the original
// Rust runner's loc format.
type LineCol struct {
	Line   int
	Col    int
	HasCol bool
}

func (lc LineCol) MarshalJSON() ([]byte, error) {
	if lc.HasCol {
		return json.Marshal([2]int{lc.Line, lc.Col})
	}
	return json.Marshal([1]int{lc.Line})
}

func (lc *LineCol) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	switch len(nums) {
	case 1:
		lc.Line, lc.HasCol = nums[0], false
	case 2:
		lc.Line, lc.Col, lc.HasCol = nums[0], nums[1], true
	default:
		return fmt.Errorf("wire: loc array must have 1 or 2 elements, got %d", len(nums))
	}
	return nil
}

// Loc marks a span of source a program error is attributed to.
type Loc struct {
	Start LineCol  `json:"start"`
	End   *LineCol `json:"end,omitempty"`
}

// Error is a team-program-raised error: a human summary, optional longer
// detail, and an optional source location. Returned both as the inner
// value of an ActionResult's Err and nested in some ProgramError variants.
type Error struct {
	Summary string  `json:"summary"`
	Details *string `json:"details,omitempty"`
	Loc     *Loc    `json:"loc,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Details != nil && *e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Summary, *e.Details)
	}
	return e.Summary
}

// ProgramErrorKind enumerates the closed set of ways a runner invocation
// can fail at the program level (spec §7). Kept distinct rather than
// collapsed into one "runner failed" bucket, per the original source.
type ProgramErrorKind string

const (
	// KindInternalError is a bug in the harness itself, not the team program.
	KindInternalError ProgramErrorKind = "InternalError"
	// KindNoData means the child process exited before producing output.
	KindNoData ProgramErrorKind = "NoData"
	// KindNoInitError means the program never completed its init phase.
	KindNoInitError ProgramErrorKind = "NoInitError"
	// KindInitError wraps an Error raised during the init phase.
	KindInitError ProgramErrorKind = "InitError"
	// KindDataError means output was received but failed to parse/validate.
	KindDataError ProgramErrorKind = "DataError"
	// KindIO means a read or write against the runner's transport failed.
	KindIO ProgramErrorKind = "IO"
	// KindTimeout means the runner did not respond within its turn budget.
	KindTimeout ProgramErrorKind = "Timeout"
)

// ProgramError is the tagged union of runner-level failures. Unit variants
// (InternalError, NoData, NoInitError) serialize as a bare JSON string;
// variants carrying data serialize as a single-key object, mirroring the
// externally-tagged enum shape the original Rust runner emits.
type ProgramError struct {
	Kind ProgramErrorKind

	Init    *Error        // set when Kind == KindInitError
	Data    string        // set when Kind == KindDataError
	IO      string        // set when Kind == KindIO
	Timeout time.Duration // set when Kind == KindTimeout
}

func (e *ProgramError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindInitError:
		return fmt.Sprintf("init error: %s", e.Init.Error())
	case KindDataError:
		return fmt.Sprintf("data error: %s", e.Data)
	case KindIO:
		return fmt.Sprintf("io error: %s", e.IO)
	case KindTimeout:
		return fmt.Sprintf("timed out after %s", e.Timeout)
	default:
		return string(e.Kind)
	}
}

func (e ProgramError) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindInternalError, KindNoData, KindNoInitError:
		return json.Marshal(string(e.Kind))
	case KindInitError:
		return json.Marshal(map[string]*Error{"InitError": e.Init})
	case KindDataError:
		return json.Marshal(map[string]string{"DataError": e.Data})
	case KindIO:
		return json.Marshal(map[string]string{"IO": e.IO})
	case KindTimeout:
		return json.Marshal(map[string]float64{"Timeout": e.Timeout.Seconds()})
	default:
		return nil, fmt.Errorf("wire: invalid program error kind %q", e.Kind)
	}
}

func (e *ProgramError) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		switch ProgramErrorKind(asString) {
		case KindInternalError, KindNoData, KindNoInitError:
			e.Kind = ProgramErrorKind(asString)
			return nil
		default:
			return fmt.Errorf("wire: unknown program error variant %q", asString)
		}
	}

	var asObj map[string]json.RawMessage
	if err := json.Unmarshal(data, &asObj); err != nil {
		return fmt.Errorf("wire: decoding program error: %w", err)
	}
	if len(asObj) != 1 {
		return fmt.Errorf("wire: program error object must have exactly one key, got %d", len(asObj))
	}
	for key, raw := range asObj {
		switch ProgramErrorKind(key) {
		case KindInitError:
			var inner Error
			if err := json.Unmarshal(raw, &inner); err != nil {
				return err
			}
			e.Kind, e.Init = KindInitError, &inner
		case KindDataError:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			e.Kind, e.Data = KindDataError, s
		case KindIO:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			e.Kind, e.IO = KindIO, s
		case KindTimeout:
			var secs float64
			if err := json.Unmarshal(raw, &secs); err != nil {
				return err
			}
			e.Kind, e.Timeout = KindTimeout, time.Duration(secs*float64(time.Second))
		default:
			return fmt.Errorf("wire: unknown program error variant %q", key)
		}
	}
	return nil
}
