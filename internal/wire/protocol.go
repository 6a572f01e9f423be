package wire

// Tunable constants fixed by spec.md §3/§9 for the Soldier unit kind.
const (
	UnitHealth  uint32 = 5
	AttackPower uint32 = 1
	HealPower   uint32 = 1

	DefaultGridSize = 19
)

// GameMode gates whether Heal actions have any effect (spec §4.E).
type GameMode int

const (
	Normal GameMode = iota
	NormalHeal
)

func (m GameMode) String() string {
	if m == NormalHeal {
		return "NormalHeal"
	}
	return "Normal"
}

func (m GameMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *GameMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Normal":
		*m = Normal
	case "NormalHeal":
		*m = NormalHeal
	default:
		*m = Normal
	}
	return nil
}

// MapType selects the Map Builder's wall/spawn layout algorithm (spec §4.B).
type MapType int

const (
	Rect MapType = iota
	Circle
)

// ObjDetails is the Terrain|Unit payload supplied by Settings.GridInit,
// decoupled from Id/Coords because grid_init entries carry coordinates
// separately from the object details being placed there.
type ObjDetails struct {
	Kind   ObjKind
	Team   Team
	Health uint32
}

// SpawnSettings parametrizes the Spawn Controller (spec §4.C).
type SpawnSettings struct {
	InitialUnitNum   int
	RecurrentUnitNum int
	SpawnEvery       int // turn stride; 0 disables recurrence
}

// GridInitEntry places one object on the grid before play begins,
// overriding any generated spawn point at that cell (spec §4.B).
type GridInitEntry struct {
	Coords  Coord
	Details ObjDetails
}

// Settings configures one match beyond the fixed grid size and mode.
type Settings struct {
	GridInit      []GridInitEntry
	SpawnSettings SpawnSettings
}

// StateView is the per-team world snapshot nested in ProgramInput, the
// shape spec.md §6 specifies: turn, objs, a dense 2D grid, and per-team
// id rosters.
type StateView struct {
	Turn  uint32             `json:"turn"`
	Objs  map[Id]*Obj        `json:"objs"`
	Grid  [][]*Id            `json:"grid"`
	Teams map[Team][]Id      `json:"teams"`
}

// ProgramInput is written to a runner's stdin once per turn (spec §6).
type ProgramInput struct {
	State    StateView `json:"state"`
	GridSize int       `json:"grid_size"`
	Team     Team      `json:"team"`
}

// ProgramOutput is parsed from a runner's `__rr_output:` line (spec §4.G).
type ProgramOutput struct {
	RobotActions     map[Id]ActionResult      `json:"robot_actions"`
	Logs             []string                 `json:"logs"`
	DebugTables      map[Id]map[string]string `json:"debug_tables"`
	DebugInspections []Id                     `json:"debug_inspections"`
}

// CallbackInput is one entry of MatchOutput.Turns: the pre-mutation world
// snapshot for that turn plus the merged, validated per-unit outcomes
// (spec §4.J.f, supplemented per SPEC_FULL §6 to carry a full snapshot
// rather than a diff so identical-seed runs are byte-comparable).
type CallbackInput struct {
	Turn             uint32
	Objs             ObjMap
	Actions          map[Id]ValidatedAction
	Logs             map[Team][]string
	DebugTables      map[Id]map[string]string
	DebugInspections map[Team][]Id
}

// MatchOutput is the Match Driver's terminal result (spec §3).
type MatchOutput struct {
	Winner *Team
	Errors map[Team]*ProgramError
	Turns  []CallbackInput
}
