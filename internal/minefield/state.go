package minefield

// State is the lifecycle phase of a minefield.
type State int

const (
	NotStarted State = iota
	Playing
	Exploded
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Playing:
		return "playing"
	case Exploded:
		return "exploded"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further board mutation is possible.
func (s State) IsTerminal() bool {
	return s == Exploded || s == Completed
}
