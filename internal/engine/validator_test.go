package engine

import (
	"testing"

	"battlegrid/internal/wire"
)

func TestValidateActionsCases(t *testing.T) {
	w := New(wire.Rect, 19, wire.Normal, wire.Settings{}, "seed", []wire.Team{wire.Blue, wire.Red})
	w.addObj(&wire.Obj{ID: 100, Coords: wire.Coord{X: 5, Y: 5}, Kind: wire.KindUnit, Team: wire.Blue, Health: 5})
	w.addObj(&wire.Obj{ID: 101, Coords: wire.Coord{X: 6, Y: 5}, Kind: wire.KindUnit, Team: wire.Red, Health: 5})
	var terrainID wire.Id
	for id, o := range w.Objs {
		if o.Kind == wire.KindTerrain {
			terrainID = id
			break
		}
	}

	raw := map[wire.Id]wire.ActionResult{
		100: {Action: &wire.Action{Type: wire.Move, Direction: wire.North}},
		101: {Err: &wire.Error{Summary: "panic"}},
		999: {Action: &wire.Action{Type: wire.Move, Direction: wire.North}},
		terrainID: {Action: &wire.Action{Type: wire.Move, Direction: wire.North}},
	}
	// unit 101 belongs to Red; validate as Blue to exercise the "other team" case.
	raw2 := map[wire.Id]wire.ActionResult{
		101: {Action: &wire.Action{Type: wire.Move, Direction: wire.North}},
	}

	got := ValidateActions(w, wire.Blue, raw)

	if !got[100].Ok() || got[100].Action == nil {
		t.Fatalf("unit 100 should validate cleanly, got %+v", got[100])
	}
	if got[101].Kind != wire.ActionErrRuntime || got[101].Cause == nil {
		t.Fatalf("unit 101 should surface the runtime error, got %+v", got[101])
	}
	if got[999].Kind != wire.ActionErrInvalid {
		t.Fatalf("nonexistent unit 999 should be invalid, got %+v", got[999])
	}
	if got[terrainID].Kind != wire.ActionErrInvalid {
		t.Fatalf("terrain target should be invalid, got %+v", got[terrainID])
	}

	gotOtherTeam := ValidateActions(w, wire.Blue, raw2)
	if gotOtherTeam[101].Kind != wire.ActionErrInvalid {
		t.Fatalf("acting as Blue on a Red unit should be invalid, got %+v", gotOtherTeam[101])
	}
}

func TestValidateActionsNilActionIsNoOp(t *testing.T) {
	w := New(wire.Rect, 19, wire.Normal, wire.Settings{}, "seed", []wire.Team{wire.Blue, wire.Red})
	w.addObj(&wire.Obj{ID: 1, Coords: wire.Coord{X: 5, Y: 5}, Kind: wire.KindUnit, Team: wire.Blue, Health: 5})

	got := ValidateActions(w, wire.Blue, map[wire.Id]wire.ActionResult{1: {}})
	if got[1].Kind != wire.ActionErrNone || got[1].Action != nil {
		t.Fatalf("nil action should validate as a clean no-op, got %+v", got[1])
	}
}
