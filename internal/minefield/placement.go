package minefield

import (
	"log/slog"
	"slices"
	"time"
)

// placeMines lays out the mines uniformly at random over all cells except
// avoiding and its neighbours.
func (m *Minefield) placeMines(avoiding Position) {
	start := time.Now()

	safeZone := append(m.Neighbours(avoiding), avoiding)

	safeIndices := make([]int, len(safeZone))
	for i, p := range safeZone {
		safeIndices[i] = m.index(p)
	}
	slices.Sort(safeIndices)

	mines := make([]bool, m.Count()-len(safeIndices))
	for i := range m.numberOfMines {
		mines[i] = true
	}

	m.rng.Shuffle(len(mines), func(i, j int) {
		mines[i], mines[j] = mines[j], mines[i]
	})

	// Inserting in ascending order keeps each index aligned with the grid.
	for _, index := range safeIndices {
		mines = slices.Insert(mines, index, false)
	}

	m.layMines(mines)

	slog.Debug("Mines placed", "mines", m.numberOfMines, "elapsed", time.Since(start))
}

// layMines assigns HasMine from a grid-aligned slice and computes the neighbour counts.
func (m *Minefield) layMines(mines []bool) {
	for index, hasMine := range mines {
		m.locations[index].HasMine = hasMine
		if !hasMine {
			continue
		}

		for _, neighbour := range m.Neighbours(m.PositionOf(index)) {
			m.locations[m.index(neighbour)].NumberOfMinesAround++
		}
	}

	m.isPlacedMines = true
}
