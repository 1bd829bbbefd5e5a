package minefield

import "fmt"

// Position is a cell coordinate on the minefield.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the position formatted as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Location holds the state of a single cell.
type Location struct {
	HasMine   bool
	IsCleared bool
	Flag      Flag

	// NumberOfMinesAround is computed once when mines are placed.
	NumberOfMinesAround int
}
