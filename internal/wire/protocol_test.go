package wire

import (
	"encoding/json"
	"testing"
)

func TestGameModeUnmarshalTextDefaultsToNormal(t *testing.T) {
	var m GameMode
	if err := m.UnmarshalText([]byte("SomethingElse")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if m != Normal {
		t.Fatalf("unknown game mode text should default to Normal, got %v", m)
	}
}

func TestGameModeTextRoundTrip(t *testing.T) {
	for _, mode := range []GameMode{Normal, NormalHeal} {
		b, err := mode.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", mode, err)
		}
		var got GameMode
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != mode {
			t.Fatalf("round trip %v -> %q -> %v", mode, b, got)
		}
	}
}

func TestProgramInputRoundTrip(t *testing.T) {
	id := Id(1)
	input := ProgramInput{
		State: StateView{
			Turn:  3,
			Objs:  map[Id]*Obj{1: {ID: 1, Coords: Coord{X: 0, Y: 0}, Kind: KindUnit, Team: Blue, Health: 5}},
			Grid:  [][]*Id{{&id, nil}, {nil, nil}},
			Teams: map[Team][]Id{Blue: {1}},
		},
		GridSize: 2,
		Team:     Blue,
	}
	b, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ProgramInput
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", b, err)
	}
	if got.State.Turn != 3 || got.GridSize != 2 || got.Team != Blue {
		t.Fatalf("round trip scalars mismatch: %+v", got)
	}
	if len(got.State.Objs) != 1 {
		t.Fatalf("round trip objs mismatch: %+v", got.State.Objs)
	}
}

func TestProgramOutputRoundTrip(t *testing.T) {
	out := ProgramOutput{
		RobotActions: map[Id]ActionResult{
			1: {Action: &Action{Type: Move, Direction: East}},
			2: {Err: &Error{Summary: "crashed"}},
		},
		Logs:             []string{"hello"},
		DebugTables:      map[Id]map[string]string{1: {"hp": "5"}},
		DebugInspections: []Id{1, 2},
	}
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ProgramOutput
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", b, err)
	}
	if len(got.RobotActions) != 2 || len(got.Logs) != 1 || len(got.DebugTables) != 1 || len(got.DebugInspections) != 2 {
		t.Fatalf("round trip shape mismatch: %+v", got)
	}
	if got.RobotActions[1].Action == nil || got.RobotActions[1].Action.Type != Move {
		t.Fatalf("round trip lost action for unit 1: %+v", got.RobotActions[1])
	}
	if got.RobotActions[2].Err == nil || got.RobotActions[2].Err.Summary != "crashed" {
		t.Fatalf("round trip lost error for unit 2: %+v", got.RobotActions[2])
	}
}
