// Package engine implements the deterministic match core: the world
// model, map generation, spawning, action validation, conflict
// resolution, and winner adjudication (spec.md §4.A–§4.F).
package engine

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"battlegrid/internal/wire"
)

// World owns the grid, the object table, the spawn points, and the
// match's PRNG. It is mutated only by the Spawn Controller and the
// Conflict Resolver, and consumed by the Winner Adjudicator (spec §3).
type World struct {
	Objs        wire.ObjMap
	Grid        wire.Grid
	SpawnPoints []wire.Coord
	GridSize    int
	GameMode    wire.GameMode
	Settings    wire.Settings
	Teams       []wire.Team

	rng     *rand.Rand
	nextID  uint64
}

// New constructs a World for one match: lays out terrain and spawn
// points via the Map Builder, applies any grid_init overrides, and seeds
// the PRNG deterministically from seed (or non-deterministically when
// seed is empty). The id counter always starts at 1 and lives on the
// World itself, so a fresh match never reuses ids from a prior one
// (spec §4.A, §9 "process-wide id counter").
func New(mapType wire.MapType, gridSize int, mode wire.GameMode, settings wire.Settings, seed string, teams []wire.Team) *World {
	w := &World{
		Objs:     make(wire.ObjMap),
		Grid:     make(wire.Grid),
		GridSize: gridSize,
		GameMode: mode,
		Settings: settings,
		Teams:    teams,
		rng:      newPRNG(seed),
	}

	walls, spawnPoints := BuildMap(mapType, gridSize)
	for _, c := range walls {
		w.addObj(&wire.Obj{Coords: c, Kind: wire.KindTerrain})
	}
	w.SpawnPoints = spawnPoints

	for _, entry := range settings.GridInit {
		w.removeAt(entry.Coords)
		w.addObj(&wire.Obj{
			Coords: entry.Coords,
			Kind:   entry.Details.Kind,
			Team:   entry.Details.Team,
			Health: entry.Details.Health,
		})
	}

	return w
}

// newPRNG derives a deterministic generator from seed, or falls back to
// a non-deterministic one when seed is empty (spec §4.A, §9 "Deterministic
// RNG"). The 64-bit FNV hash of seed is replicated across a 32-byte
// ChaCha8 seed, exactly the "repeated four times" scheme §9 describes.
func newPRNG(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()

	var buf [32]byte
	for i := 0; i < 4; i++ {
		v := sum
		for j := 0; j < 8; j++ {
			buf[i*8+j] = byte(v)
			v >>= 8
		}
	}
	return rand.New(rand.NewChaCha8(buf))
}

// NewID returns the next process-unique-within-this-match id.
func (w *World) NewID() wire.Id {
	w.nextID++
	return wire.Id(w.nextID)
}

// Intn draws a uniform integer in [0, n) from the match PRNG. All PRNG
// consumption funnels through this method so draw order stays a single
// linear sequence (spec §5 ordering guarantee (c)).
func (w *World) Intn(n int) int {
	return w.rng.IntN(n)
}

func (w *World) addObj(o *wire.Obj) {
	if o.ID == 0 {
		o.ID = w.NewID()
	}
	w.Objs[o.ID] = o
	w.Grid[o.Coords] = o.ID
}

func (w *World) removeAt(c wire.Coord) {
	if id, ok := w.Grid[c]; ok {
		delete(w.Objs, id)
		delete(w.Grid, c)
	}
}

// At returns the object occupying coord c, if any.
func (w *World) At(c wire.Coord) (*wire.Obj, bool) {
	id, ok := w.Grid[c]
	if !ok {
		return nil, false
	}
	return w.Objs[id], true
}

// Snapshot returns a deep-enough copy of the object table suitable for a
// turn callback: a new map of newly allocated Obj values, safe to hand to
// a caller even as the World continues mutating (spec §4.J.f).
func (w *World) Snapshot() wire.ObjMap {
	out := make(wire.ObjMap, len(w.Objs))
	for id, o := range w.Objs {
		cp := *o
		out[id] = &cp
	}
	return out
}

// TeamRoster groups living unit ids by team, sorted for determinism.
func (w *World) TeamRoster() map[wire.Team][]wire.Id {
	roster := make(map[wire.Team][]wire.Id)
	for id, o := range w.Objs {
		if o.Kind != wire.KindUnit {
			continue
		}
		roster[o.Team] = append(roster[o.Team], id)
	}
	for team := range roster {
		sort.Slice(roster[team], func(i, j int) bool { return roster[team][i] < roster[team][j] })
	}
	return roster
}

// SurvivorCounts tallies living units per team.
func (w *World) SurvivorCounts() map[wire.Team]int {
	counts := make(map[wire.Team]int)
	for _, o := range w.Objs {
		if o.Kind == wire.KindUnit {
			counts[o.Team]++
		}
	}
	return counts
}
