package engine

import "battlegrid/internal/wire"

// moveClaim is one unit's bid to occupy a target cell.
type moveClaim struct {
	ID   wire.Id
	From wire.Coord
	Dir  wire.Direction
}

// Resolve applies one turn's merged, validated actions to the world:
// movement, then attack, then heal, in that strict order (spec §4.E).
// Invalid, errored, and no-op entries are ignored here — they were
// already filtered to their resting state by the Action Validator.
func Resolve(w *World, actions map[wire.Id]wire.ValidatedAction) {
	var moves, attacks, heals []moveClaim

	for id, va := range actions {
		if !va.Ok() || va.Action == nil {
			continue
		}
		obj, ok := w.Objs[id]
		if !ok || obj.Kind != wire.KindUnit {
			continue
		}
		claim := moveClaim{ID: id, From: obj.Coords, Dir: va.Action.Direction}
		switch va.Action.Type {
		case wire.Move:
			moves = append(moves, claim)
		case wire.Attack:
			attacks = append(attacks, claim)
		case wire.Heal:
			heals = append(heals, claim)
		}
	}

	resolveMovement(w, moves)
	resolveAttacks(w, attacks)
	if w.GameMode == wire.NormalHeal {
		resolveHeals(w, heals)
	}
}

// resolveMovement elects one mover per contested target cell by minimum
// direction priority, drops head-on swaps, then commits the surviving
// moves with a fixed-point loop that repeatedly defers moves blocked by
// a stationary occupant until the remaining set is all free (spec §4.E).
func resolveMovement(w *World, moves []moveClaim) {
	if len(moves) == 0 {
		return
	}

	byTarget := make(map[wire.Coord][]moveClaim)
	for _, c := range moves {
		target := c.From.Add(c.Dir)
		byTarget[target] = append(byTarget[target], c)
	}

	elected := make(map[wire.Coord]moveClaim, len(byTarget))
	for target, claimants := range byTarget {
		best := claimants[0]
		for _, c := range claimants[1:] {
			if c.Dir < best.Dir {
				best = c
			}
		}
		elected[target] = best
	}

	// Reject head-on swaps: the elected mover at c came from `from`; if
	// `from` is itself an elected target with the opposite direction,
	// both claims are a swap and both are dropped.
	survivors := make(map[wire.Coord]moveClaim, len(elected))
	for target, claim := range elected {
		if other, ok := elected[claim.From]; ok && other.Dir == claim.Dir.Opposite() {
			continue
		}
		survivors[target] = claim
	}

	for _, claim := range survivors {
		delete(w.Grid, claim.From)
	}

	remaining := make(map[wire.Coord]wire.Id, len(survivors))
	for target, claim := range survivors {
		remaining[target] = claim.ID
	}

	for len(remaining) > 0 {
		var blocked []wire.Coord
		for target := range remaining {
			if _, occ := w.Grid[target]; occ {
				blocked = append(blocked, target)
			}
		}
		if len(blocked) == 0 {
			break
		}
		for _, target := range blocked {
			id := remaining[target]
			origin := survivors[target].From
			w.Grid[origin] = id
			delete(remaining, target)
		}
	}

	for target, id := range remaining {
		obj := w.Objs[id]
		obj.Coords = target
		w.Grid[target] = id
	}
}

// resolveAttacks applies accumulated attack counts per target cell,
// saturating health at 0 and removing units that die (spec §4.E).
func resolveAttacks(w *World, attacks []moveClaim) {
	counts := make(map[wire.Coord]uint32)
	for _, c := range attacks {
		counts[c.From.Add(c.Dir)]++
	}
	for target, n := range counts {
		obj, ok := w.At(target)
		if !ok || obj.Kind != wire.KindUnit {
			continue
		}
		dmg := n * wire.AttackPower
		if dmg >= obj.Health {
			obj.Health = 0
		} else {
			obj.Health -= dmg
		}
		if obj.Health == 0 {
			w.removeAt(target)
		}
	}
}

// resolveHeals applies accumulated heal counts per target cell, capped
// at UnitHealth. Only invoked in NormalHeal mode (spec §4.E).
func resolveHeals(w *World, heals []moveClaim) {
	counts := make(map[wire.Coord]uint32)
	for _, c := range heals {
		counts[c.From.Add(c.Dir)]++
	}
	for target, n := range counts {
		obj, ok := w.At(target)
		if !ok || obj.Kind != wire.KindUnit {
			continue
		}
		healed := obj.Health + n*wire.HealPower
		if healed > wire.UnitHealth {
			healed = wire.UnitHealth
		}
		obj.Health = healed
	}
}
