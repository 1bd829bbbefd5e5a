package minefield

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var (
	ErrInvalidDimensions = errors.New("invalid minefield dimensions")
	ErrTooManyMines      = errors.New("too many mines")
)

// Minefield is the game engine. It owns the grid and all game rules.
// It is not safe for concurrent use.
type Minefield struct {
	width         int
	height        int
	numberOfMines int

	// AutoFlag lets MultiRelease flag neighbours instead of doing nothing
	// when the flags around a number don't add up.
	AutoFlag bool

	// locations is indexed by y*width+x.
	locations []Location

	numberOfCleared int
	numberOfFlagged int

	isPlacedMines bool
	isExploded    bool
	isCompleted   bool
	explodedAt    Position

	rng *rand.Rand
}

// Option configures a Minefield created by New.
type Option func(*Minefield)

// WithRand sets the random source used for mine placement.
func WithRand(rng *rand.Rand) Option {
	return func(m *Minefield) {
		m.rng = rng
	}
}

// WithSeed makes mine placement reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithAutoFlag sets the AutoFlag field.
func WithAutoFlag(autoFlag bool) Option {
	return func(m *Minefield) {
		m.AutoFlag = autoFlag
	}
}

// Largest supported board dimensions.
const (
	MaxWidth  = 1000
	MaxHeight = 1000
)

// SafeZoneCapacity returns the largest number of cells a first click can keep free of mines.
func SafeZoneCapacity(width, height int) int {
	return min(3, width) * min(3, height)
}

// New creates a minefield without mines. Mines are placed on the first ClearMine call.
func New(width, height, numberOfMines int, opts ...Option) (*Minefield, error) {
	if width <= 0 || height <= 0 || width > MaxWidth || height > MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d, each side must be between 1 and %d",
			ErrInvalidDimensions, width, height, max(MaxWidth, MaxHeight))
	}

	if numberOfMines < 0 || numberOfMines > width*height-SafeZoneCapacity(width, height) {
		return nil, fmt.Errorf("%w: %d mines do not fit on a %dx%d minefield",
			ErrTooManyMines, numberOfMines, width, height)
	}

	m := newMinefield(width, height, numberOfMines)
	for _, opt := range opts {
		opt(m)
	}

	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return m, nil
}

// MustNew is like New but panics on invalid parameters.
func MustNew(width, height, numberOfMines int, opts ...Option) *Minefield {
	m, err := New(width, height, numberOfMines, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func newMinefield(width, height, numberOfMines int) *Minefield {
	return &Minefield{
		width:         width,
		height:        height,
		numberOfMines: numberOfMines,
		locations:     make([]Location, width*height),
	}
}

// Restarted returns a new unstarted minefield with the same parameters and random source.
func (m *Minefield) Restarted() *Minefield {
	restarted := newMinefield(m.width, m.height, m.numberOfMines)
	restarted.AutoFlag = m.AutoFlag
	restarted.rng = m.rng
	return restarted
}

func (m *Minefield) Width() int {
	return m.width
}

func (m *Minefield) Height() int {
	return m.height
}

// Count returns the number of cells.
func (m *Minefield) Count() int {
	return m.width * m.height
}

func (m *Minefield) NumberOfMines() int {
	return m.numberOfMines
}

func (m *Minefield) NumberOfCleared() int {
	return m.numberOfCleared
}

func (m *Minefield) NumberOfFlagged() int {
	return m.numberOfFlagged
}

// RemainingMines returns the mine count minus the flag count. It goes negative when over-flagged.
func (m *Minefield) RemainingMines() int {
	return m.numberOfMines - m.numberOfFlagged
}

func (m *Minefield) IsPlacedMines() bool {
	return m.isPlacedMines
}

func (m *Minefield) IsExploded() bool {
	return m.isExploded
}

func (m *Minefield) IsCompleted() bool {
	return m.isCompleted
}

// ExplodedAt returns the mine that ended the game, if any.
func (m *Minefield) ExplodedAt() (Position, bool) {
	return m.explodedAt, m.isExploded
}

// State returns the lifecycle phase.
func (m *Minefield) State() State {
	switch {
	case m.isExploded:
		return Exploded
	case m.isCompleted:
		return Completed
	case m.isPlacedMines:
		return Playing
	default:
		return NotStarted
	}
}

// Contains checks if a position lies on the grid.
func (m *Minefield) Contains(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// index converts a position to its offset in locations. It panics if p is out of range.
func (m *Minefield) index(p Position) int {
	if !m.Contains(p) {
		panic(fmt.Sprintf("position %s out of range for %dx%d minefield", p, m.width, m.height))
	}
	return p.Y*m.width + p.X
}

// PositionOf converts an index back to a position.
func (m *Minefield) PositionOf(index int) Position {
	if index < 0 || index >= m.Count() {
		panic(fmt.Sprintf("index %d out of range for %dx%d minefield", index, m.width, m.height))
	}
	return Position{X: index % m.width, Y: index / m.width}
}

// Location returns the cell at p. It panics if p is out of range.
func (m *Minefield) Location(p Position) Location {
	return m.locations[m.index(p)]
}

// LocationAt is like Location but takes coordinates.
func (m *Minefield) LocationAt(x, y int) Location {
	return m.Location(Position{X: x, Y: y})
}

func (m *Minefield) HasMineAt(x, y int) bool {
	return m.LocationAt(x, y).HasMine
}

// Neighbours returns the in-range positions around p in row-major order.
func (m *Minefield) Neighbours(p Position) []Position {
	neighbours := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}

			neighbour := Position{X: p.X + dx, Y: p.Y + dy}
			if m.Contains(neighbour) {
				neighbours = append(neighbours, neighbour)
			}
		}
	}
	return neighbours
}

// ChangeFlag sets the flag of a covered cell. Cleared cells and finished games are left alone.
func (m *Minefield) ChangeFlag(flag Flag, p Position) {
	location := &m.locations[m.index(p)]
	if m.State().IsTerminal() || location.IsCleared || location.Flag == flag {
		return
	}

	if flag == Flagged {
		m.numberOfFlagged++
	} else if location.Flag == Flagged {
		m.numberOfFlagged--
	}

	location.Flag = flag
}

// ClearMine reveals the cell at p. The first call places the mines around p.
func (m *Minefield) ClearMine(p Position) {
	if m.isExploded || m.isCompleted {
		return
	}

	if !m.isPlacedMines {
		slog.Debug("New game started", "position", p)
		m.placeMines(p)
	}

	location := m.Location(p)
	if location.IsCleared || location.Flag == Flagged {
		return
	}

	if location.HasMine {
		slog.Debug("Exploded", "position", p)
		m.isExploded = true
		m.explodedAt = p
		return
	}

	m.clearRegion(p)

	if m.numberOfCleared == m.Count()-m.numberOfMines {
		slog.Debug("Game completed", "cleared", m.numberOfCleared)
		for i := range m.locations {
			location := &m.locations[i]
			if location.HasMine && location.Flag != Flagged {
				location.Flag = Flagged
				m.numberOfFlagged++
			}
		}
		m.isCompleted = true
	}
}

// clearRegion clears p and, through blank cells, the connected region around it.
func (m *Minefield) clearRegion(p Position) {
	stack := []Position{p}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		location := &m.locations[m.index(current)]
		if location.IsCleared || location.Flag == Flagged {
			continue
		}

		location.IsCleared = true
		location.Flag = None
		m.numberOfCleared++

		if location.NumberOfMinesAround == 0 {
			stack = append(stack, m.Neighbours(current)...)
		}
	}
}

// MultiRelease is the chord action on a cleared numbered cell. When the flags around it
// match its number, all other neighbours are cleared. With AutoFlag enabled the
// neighbours are flagged instead when the unflagged neighbour count equals the total
// number of mines. It returns whether any cell changed.
func (m *Minefield) MultiRelease(p Position) bool {
	location := m.Location(p)
	if m.State().IsTerminal() || !location.IsCleared || location.NumberOfMinesAround == 0 {
		return false
	}

	neighbours := m.Neighbours(p)

	flags := 0
	unknowns := 0
	for _, neighbour := range neighbours {
		if m.Location(neighbour).Flag == Flagged {
			flags++
		} else {
			unknowns++
		}
	}

	switch {
	case flags == location.NumberOfMinesAround:
		cleared := m.numberOfCleared
		for _, neighbour := range neighbours {
			if m.Location(neighbour).Flag != Flagged {
				m.ClearMine(neighbour)
			}
		}
		return m.numberOfCleared != cleared || m.isExploded

	case m.AutoFlag && unknowns == m.numberOfMines:
		flagged := m.numberOfFlagged
		for _, neighbour := range neighbours {
			m.ChangeFlag(Flagged, neighbour)
		}
		return m.numberOfFlagged != flagged

	default:
		return false
	}
}
