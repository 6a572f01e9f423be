package engine

import (
	"sort"

	"battlegrid/internal/wire"
)

// RunTurnSpawn applies the Spawn Controller's per-turn decision (spec
// §4.J.3.a): the initial spawn fires on turn 1, recurrent spawns fire on
// turn t>1 when (t-1) mod spawn_every == 0.
func RunTurnSpawn(w *World, turn int) {
	s := w.Settings.SpawnSettings
	switch {
	case turn == 1:
		if s.InitialUnitNum > 0 {
			SpawnUnits(w, s.InitialUnitNum)
		}
	case s.SpawnEvery > 0 && (turn-1)%s.SpawnEvery == 0:
		ClearSpawn(w)
		SpawnUnits(w, s.RecurrentUnitNum)
	}
}

// SpawnUnits draws unitNum mirrored pairs of Soldier units from the
// currently available spawn points (spec §4.C). Each draw places one
// Blue unit at p and one Red unit at mirror(p).
func SpawnUnits(w *World, unitNum int) {
	available := buildAvailable(w)

	for k := 0; k < unitNum; k++ {
		if len(available) == 0 {
			break
		}
		idx := w.Intn(len(available))
		p := available[idx]
		m := p.Mirror(w.GridSize)

		available = removeSorted(available, p)
		available = removeSorted(available, m)

		w.addObj(&wire.Obj{Coords: p, Kind: wire.KindUnit, Team: wire.Blue, Health: wire.UnitHealth})
		w.addObj(&wire.Obj{Coords: m, Kind: wire.KindUnit, Team: wire.Red, Health: wire.UnitHealth})
	}
}

// ClearSpawn removes any unit (either team) occupying a spawn point,
// making room for recurrent spawning (spec §4.C).
func ClearSpawn(w *World) {
	for _, p := range w.SpawnPoints {
		if obj, ok := w.At(p); ok && obj.Kind == wire.KindUnit {
			w.removeAt(p)
		}
	}
}

// buildAvailable returns the subset of SpawnPoints whose cell and whose
// mirrored cell are both currently empty, preserving sort order.
func buildAvailable(w *World) []wire.Coord {
	available := make([]wire.Coord, 0, len(w.SpawnPoints))
	for _, p := range w.SpawnPoints {
		m := p.Mirror(w.GridSize)
		if _, occ := w.At(p); occ {
			continue
		}
		if _, occ := w.At(m); occ {
			continue
		}
		available = append(available, p)
	}
	return available
}

// removeSorted removes target from a sorted slice via binary search,
// keeping the remaining list sorted so later PRNG draws against it stay
// reproducible (spec §4.C: "Removal from available uses binary search").
func removeSorted(list []wire.Coord, target wire.Coord) []wire.Coord {
	idx := sort.Search(len(list), func(i int) bool { return !list[i].Less(target) })
	if idx < len(list) && list[idx] == target {
		return append(list[:idx], list[idx+1:]...)
	}
	return list
}
