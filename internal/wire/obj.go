package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Id identifies a single object (unit or terrain tile) for the lifetime of
// a match. Ids are never reused within a match (invariant U1). On the wire
// they serialize as decimal strings, which Go's encoding/json already does
// for integer-keyed maps and for a named integer type with MarshalText.
type Id uint64

func (id Id) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalText lets Id serialize as a bare JSON string and be used directly
// as a map key (e.g. ProgramOutput.RobotActions keyed by unit id).
func (id Id) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Id) UnmarshalText(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("wire: invalid id %q: %w", b, err)
	}
	*id = Id(v)
	return nil
}

// ObjKind discriminates the two shapes an Obj can take (invariant G1: a
// cell holds at most one object, terrain or unit).
type ObjKind int

const (
	KindTerrain ObjKind = iota
	KindUnit
)

// Obj is the sum type {Terrain} | {Unit{Team, Health}}, flattened on the
// wire with an "obj_type" discriminator (spec §3/§6).
type Obj struct {
	ID     Id
	Coords Coord
	Kind   ObjKind
	Team   Team   // valid only when Kind == KindUnit
	Health uint32 // valid only when Kind == KindUnit
}

// IsUnit reports whether this object is a unit (as opposed to terrain).
func (o *Obj) IsUnit() bool { return o.Kind == KindUnit }

// Alive reports whether a unit object still has positive health. Terrain
// is always considered non-removable, so Alive is meaningless for it.
func (o *Obj) Alive() bool { return o.Kind == KindUnit && o.Health > 0 }

type objWire struct {
	ID      Id     `json:"id"`
	Coords  Coord  `json:"coords"`
	ObjType string `json:"obj_type"`
	Team    *Team  `json:"team,omitempty"`
	Health  *uint32 `json:"health,omitempty"`
}

// MarshalJSON flattens the sum type with an obj_type discriminator, the
// wire shape spec.md §3 calls out explicitly.
func (o Obj) MarshalJSON() ([]byte, error) {
	w := objWire{ID: o.ID, Coords: o.Coords}
	switch o.Kind {
	case KindTerrain:
		w.ObjType = "Terrain"
	case KindUnit:
		w.ObjType = "Unit"
		team := o.Team
		health := o.Health
		w.Team = &team
		w.Health = &health
	default:
		return nil, fmt.Errorf("wire: invalid obj kind %d", int(o.Kind))
	}
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs the sum type from its obj_type discriminator.
func (o *Obj) UnmarshalJSON(data []byte) error {
	var w objWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.ID = w.ID
	o.Coords = w.Coords
	switch w.ObjType {
	case "Terrain":
		o.Kind = KindTerrain
	case "Unit":
		o.Kind = KindUnit
		if w.Team != nil {
			o.Team = *w.Team
		}
		if w.Health != nil {
			o.Health = *w.Health
		}
	default:
		return fmt.Errorf("wire: unknown obj_type %q", w.ObjType)
	}
	return nil
}

// ObjMap is the authoritative id -> object table for a world (spec §3).
type ObjMap map[Id]*Obj

// Grid is the coordinate -> id index mirroring ObjMap (invariant G1: each
// coordinate maps to at most one id, and that id must exist in the owning
// ObjMap with matching Coords).
type Grid map[Coord]Id

// DenseRows renders the grid as an N×N row-major array of nullable ids,
// row[y][x], the shape spec.md §3 specifies for wire serialization.
func (g Grid) DenseRows(n int) [][]*Id {
	rows := make([][]*Id, n)
	for y := 0; y < n; y++ {
		row := make([]*Id, n)
		for x := 0; x < n; x++ {
			if id, ok := g[Coord{X: x, Y: y}]; ok {
				v := id
				row[x] = &v
			}
		}
		rows[y] = row
	}
	return rows
}

// GridFromDenseRows reconstructs a sparse Grid from the dense wire shape.
func GridFromDenseRows(rows [][]*Id) Grid {
	g := make(Grid)
	for y, row := range rows {
		for x, id := range row {
			if id != nil {
				g[Coord{X: x, Y: y}] = *id
			}
		}
	}
	return g
}
