package wire

import "fmt"

// Team identifies one of the two sides. Blue < Red is the canonical total
// order used wherever teams must be merged deterministically (spec §4.J.c:
// Blue's actions/logs/inspections precede Red's in every turn record).
type Team int

const (
	Blue Team = iota
	Red
)

func (t Team) String() string {
	switch t {
	case Blue:
		return "Blue"
	case Red:
		return "Red"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Blue {
		return Red
	}
	return Blue
}

// MarshalText implements encoding.TextMarshaler, letting Team be used as a
// JSON object key (map[Team]... serializes via TextMarshaler).
func (t Team) MarshalText() ([]byte, error) {
	switch t {
	case Blue, Red:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("wire: invalid team %d", int(t))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Team) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Blue":
		*t = Blue
	case "Red":
		*t = Red
	default:
		return fmt.Errorf("wire: unknown team %q", b)
	}
	return nil
}

// Teams is the canonical merge order: Blue before Red.
var Teams = [2]Team{Blue, Red}
