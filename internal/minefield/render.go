package minefield

import (
	"fmt"
	"io"
	"strings"
)

// Symbol returns the one character representation of the cell at p.
// Mines are only shown when revealMines is set or the game exploded.
func (m *Minefield) Symbol(p Position, revealMines bool) byte {
	location := m.Location(p)

	switch {
	case location.IsCleared && location.NumberOfMinesAround == 0:
		return '.'
	case location.IsCleared:
		return byte('0' + location.NumberOfMinesAround)
	case m.isExploded && m.explodedAt == p:
		return 'X'
	case location.HasMine && (revealMines || m.isExploded) && location.Flag != Flagged:
		return '*'
	case location.Flag == Flagged:
		return 'F'
	case location.Flag == Maybe:
		return '?'
	default:
		return '-'
	}
}

// Rows returns one string of symbols per row.
func (m *Minefield) Rows(revealMines bool) []string {
	rows := make([]string, m.height)
	row := make([]byte, m.width)

	for y := range m.height {
		for x := range m.width {
			row[x] = m.Symbol(Position{X: x, Y: y}, revealMines)
		}
		rows[y] = string(row)
	}

	return rows
}

// ASCIIArtLines returns the board with column and row numbers for terminal display.
func (m *Minefield) ASCIIArtLines() []string {
	lines := make([]string, 0, m.height+3)

	var header strings.Builder
	header.WriteString("    ")
	for x := range m.width {
		fmt.Fprintf(&header, "%-2d", x%100)
	}
	lines = append(lines, strings.TrimRight(header.String(), " "))

	lines = append(lines, "   +"+strings.Repeat("-", 2*m.width)+"+")

	for y, row := range m.Rows(false) {
		var line strings.Builder
		fmt.Fprintf(&line, "%2d |", y%100)
		for _, symbol := range []byte(row) {
			line.WriteByte(symbol)
			line.WriteByte(' ')
		}
		line.WriteByte('|')
		lines = append(lines, line.String())
	}

	lines = append(lines, "   +"+strings.Repeat("-", 2*m.width)+"+")

	return lines
}

// Print writes the board followed by a status line.
func (m *Minefield) Print(w io.Writer) {
	for _, line := range m.ASCIIArtLines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "mines left: %d  state: %s\n", m.RemainingMines(), m.State())
}
