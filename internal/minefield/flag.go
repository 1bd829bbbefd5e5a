package minefield

import "fmt"

// Flag is a player annotation on a covered cell.
type Flag int

const (
	None Flag = iota
	Flagged
	Maybe
)

// Next returns the successor in the cycle None -> Flagged -> Maybe -> None.
func (f Flag) Next() Flag {
	switch f {
	case None:
		return Flagged
	case Flagged:
		return Maybe
	default:
		return None
	}
}

func (f Flag) String() string {
	switch f {
	case None:
		return "None"
	case Flagged:
		return "Flag"
	case Maybe:
		return "Maybe"
	default:
		return fmt.Sprintf("Flag(%d)", int(f))
	}
}

// ParseFlag parses the lower case text form of a flag.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "none":
		return None, nil
	case "flag":
		return Flagged, nil
	case "maybe":
		return Maybe, nil
	default:
		return None, fmt.Errorf("invalid flag: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Flag) MarshalText() ([]byte, error) {
	switch f {
	case None:
		return []byte("none"), nil
	case Flagged:
		return []byte("flag"), nil
	case Maybe:
		return []byte("maybe"), nil
	default:
		return nil, fmt.Errorf("invalid flag: %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flag) UnmarshalText(text []byte) error {
	flag, err := ParseFlag(string(text))
	if err != nil {
		return err
	}
	*f = flag
	return nil
}
