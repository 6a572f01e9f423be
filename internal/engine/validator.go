package engine

import "battlegrid/internal/wire"

// ValidateActions checks one team's raw ProgramOutput.RobotActions against
// the world and returns the per-id ValidatedAction set (spec §4.D). The
// team parameter is the acting team, used for the "points to a unit on
// another team" check.
func ValidateActions(w *World, team wire.Team, raw map[wire.Id]wire.ActionResult) map[wire.Id]wire.ValidatedAction {
	out := make(map[wire.Id]wire.ValidatedAction, len(raw))
	for id, result := range raw {
		out[id] = validateOne(w, team, id, result)
	}
	return out
}

func validateOne(w *World, team wire.Team, id wire.Id, result wire.ActionResult) wire.ValidatedAction {
	if result.Err != nil {
		return wire.ValidatedAction{Kind: wire.ActionErrRuntime, Cause: result.Err}
	}
	if result.Action == nil {
		return wire.ValidatedAction{Kind: wire.ActionErrNone}
	}

	obj, exists := w.Objs[id]
	switch {
	case !exists:
		return invalid("nonexistent object")
	case obj.Kind == wire.KindTerrain:
		return invalid("points to terrain")
	case obj.Team != team:
		return invalid("on other team")
	default:
		return wire.ValidatedAction{Kind: wire.ActionErrNone, Action: result.Action}
	}
}

func invalid(reason string) wire.ValidatedAction {
	return wire.ValidatedAction{Kind: wire.ActionErrInvalid, Reason: reason}
}
