package engine

import (
	"testing"

	"battlegrid/internal/wire"
)

func newTestWorld(seed string, spawnEvery, initial, recurrent int) *World {
	settings := wire.Settings{
		SpawnSettings: wire.SpawnSettings{
			InitialUnitNum:   initial,
			RecurrentUnitNum: recurrent,
			SpawnEvery:       spawnEvery,
		},
	}
	return New(wire.Circle, 19, wire.Normal, settings, seed, []wire.Team{wire.Blue, wire.Red})
}

func TestRunTurnSpawnInitialOnTurnOne(t *testing.T) {
	w := newTestWorld("seed", 0, 2, 0)
	RunTurnSpawn(w, 1)

	counts := w.SurvivorCounts()
	if counts[wire.Blue] != 2 || counts[wire.Red] != 2 {
		t.Fatalf("after initial spawn of 2 pairs: counts = %v, want 2 each", counts)
	}
}

func TestSpawnUnitsPlacesMirroredPairs(t *testing.T) {
	w := newTestWorld("seed", 0, 0, 0)
	SpawnUnits(w, 1)

	var bluePos, redPos wire.Coord
	for _, o := range w.Objs {
		if o.Kind != wire.KindUnit {
			continue
		}
		if o.Team == wire.Blue {
			bluePos = o.Coords
		} else {
			redPos = o.Coords
		}
	}
	if bluePos.Mirror(w.GridSize) != redPos {
		t.Fatalf("blue %v and red %v are not mirror images", bluePos, redPos)
	}
}

func TestRunTurnSpawnRecurrence(t *testing.T) {
	w := newTestWorld("seed", 5, 0, 1)

	RunTurnSpawn(w, 1) // no initial units configured
	if len(w.Objs) == 0 {
		t.Fatal("expected walls to exist even with no initial spawn")
	}
	before := w.SurvivorCounts()
	if before[wire.Blue] != 0 {
		t.Fatalf("expected no units before recurrence fires, got %v", before)
	}

	RunTurnSpawn(w, 6) // (6-1) % 5 == 0
	after := w.SurvivorCounts()
	if after[wire.Blue] != 1 || after[wire.Red] != 1 {
		t.Fatalf("expected a recurrent spawn at turn 6, got %v", after)
	}

	RunTurnSpawn(w, 7) // (7-1) % 5 != 0, no-op
	stillAfter := w.SurvivorCounts()
	if stillAfter[wire.Blue] != 1 {
		t.Fatalf("turn 7 should not trigger recurrence, got %v", stillAfter)
	}
}

func TestClearSpawnRemovesUnitsOnSpawnPoints(t *testing.T) {
	w := newTestWorld("seed", 0, 0, 0)
	if len(w.SpawnPoints) == 0 {
		t.Fatal("test world has no spawn points to exercise")
	}
	p := w.SpawnPoints[0]
	w.addObj(&wire.Obj{Coords: p, Kind: wire.KindUnit, Team: wire.Blue, Health: 5})

	ClearSpawn(w)

	if _, ok := w.At(p); ok {
		t.Fatalf("expected ClearSpawn to remove the unit at spawn point %v", p)
	}
}

func TestRemoveSortedKeepsListSorted(t *testing.T) {
	list := []wire.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	got := removeSorted(list, wire.Coord{X: 1, Y: 0})
	want := []wire.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}}
	if len(got) != len(want) {
		t.Fatalf("removeSorted = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("removeSorted = %v, want %v", got, want)
		}
	}
}

func TestRemoveSortedNoOpWhenAbsent(t *testing.T) {
	list := []wire.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}}
	got := removeSorted(list, wire.Coord{X: 1, Y: 0})
	if len(got) != 2 {
		t.Fatalf("removeSorted should no-op for an absent target, got %v", got)
	}
}
