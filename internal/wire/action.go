package wire

import (
	"encoding/json"
	"fmt"
)

// ActionType is the verb a unit performs on a turn.
type ActionType int

const (
	Move ActionType = iota
	Attack
	Heal
)

var actionTypeNames = map[ActionType]string{
	Move:   "Move",
	Attack: "Attack",
	Heal:   "Heal",
}

func (a ActionType) String() string {
	if name, ok := actionTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

func (a ActionType) MarshalText() ([]byte, error) {
	name, ok := actionTypeNames[a]
	if !ok {
		return nil, fmt.Errorf("wire: invalid action type %d", int(a))
	}
	return []byte(name), nil
}

func (a *ActionType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Move":
		*a = Move
	case "Attack":
		*a = Attack
	case "Heal":
		*a = Heal
	default:
		return fmt.Errorf("wire: unknown action type %q", b)
	}
	return nil
}

// Action is a unit's requested action for a turn: a verb plus a direction
// (spec §3 — movement, attack, and heal are all direction-relative).
type Action struct {
	Type      ActionType `json:"type"`
	Direction Direction  `json:"direction"`
}

// ActionResult is the per-unit entry in ProgramOutput.robot_actions: the
// Rust-style Result<Option<Action>, Error> collapsed onto the wire as
// {"Ok": Action|null} | {"Err": Error}.
type ActionResult struct {
	Action *Action // present only when Err is nil and the unit chose to act
	Err    *Error
}

func (r ActionResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Err *Error `json:"Err"`
		}{r.Err})
	}
	return json.Marshal(struct {
		Ok *Action `json:"Ok"`
	}{r.Action})
}

func (r *ActionResult) UnmarshalJSON(data []byte) error {
	var env struct {
		Ok  json.RawMessage `json:"Ok"`
		Err *Error          `json:"Err"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Err != nil {
		r.Err = env.Err
		r.Action = nil
		return nil
	}
	if env.Ok == nil || string(env.Ok) == "null" {
		r.Action = nil
		return nil
	}
	var a Action
	if err := json.Unmarshal(env.Ok, &a); err != nil {
		return fmt.Errorf("wire: decoding Ok action: %w", err)
	}
	r.Action = &a
	return nil
}

// ActionErrorKind distinguishes a validator-rejected action from one that
// surfaced a runtime error from the team program itself.
type ActionErrorKind int

const (
	// ActionErrNone means the action validated and resolved normally (or
	// the unit issued no action this turn); not a wire value on its own.
	ActionErrNone ActionErrorKind = iota
	ActionErrInvalid
	ActionErrRuntime
)

// ValidatedAction is the Action Validator's (component D) per-unit output:
// either a clean, resolvable action, or a reason it was rejected.
type ValidatedAction struct {
	Action *Action // non-nil only when Kind == ActionErrNone and the unit acted

	Kind   ActionErrorKind
	Reason string // set when Kind == ActionErrInvalid
	Cause  *Error // set when Kind == ActionErrRuntime (passthrough from the runner)
}

// Ok reports whether the action is resolvable (clean action or a no-op).
func (v ValidatedAction) Ok() bool { return v.Kind == ActionErrNone }
