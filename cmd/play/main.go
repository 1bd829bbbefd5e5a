package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lk16/sweepmines/internal/config"
	"github.com/lk16/sweepmines/internal/minefield"
)

const usage = `commands:
  r x y   reveal a cell
  c x y   chord on a cleared number
  t x y   reveal, or chord when the cell is a cleared number
  f x y   cycle the flag of a cell
  n       new game
  q       quit`

func main() {
	config.SetLogLevel()

	difficultyName := flag.String("difficulty", "beginner", "beginner, intermediate, expert or custom")
	width := flag.Int("width", 9, "width of a custom minefield")
	height := flag.Int("height", 9, "height of a custom minefield")
	mines := flag.Int("mines", 10, "number of mines of a custom minefield")
	seed := flag.Uint64("seed", 0, "seed for mine placement, 0 picks a random one")
	autoFlag := flag.Bool("autoflag", false, "let chords flag neighbours")
	flag.Parse()

	difficulty, err := minefield.DifficultyByName(*difficultyName)
	if *difficultyName == minefield.CustomDifficultyName {
		difficulty, err = minefield.CustomDifficulty(*width, *height, *mines), nil
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	opts := []minefield.Option{minefield.WithAutoFlag(*autoFlag)}
	if *seed != 0 {
		opts = append(opts, minefield.WithSeed(*seed))
	}

	m, err := difficulty.New(opts...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	play(m, os.Stdin, os.Stdout)
}

func play(m *minefield.Minefield, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	m.Print(out)
	fmt.Fprintln(out, usage)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return
		case "n":
			m = m.Restarted()
		case "r", "c", "t", "f":
			p, err := parsePosition(m, fields[1:])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			apply(m, fields[0], p)
		default:
			fmt.Fprintln(out, usage)
			continue
		}

		m.Print(out)
	}
}

func parsePosition(m *minefield.Minefield, args []string) (minefield.Position, error) {
	if len(args) != 2 {
		return minefield.Position{}, fmt.Errorf("expected x and y, got %d arguments", len(args))
	}

	x, err := strconv.Atoi(args[0])
	if err != nil {
		return minefield.Position{}, fmt.Errorf("invalid x: %w", err)
	}

	y, err := strconv.Atoi(args[1])
	if err != nil {
		return minefield.Position{}, fmt.Errorf("invalid y: %w", err)
	}

	p := minefield.Position{X: x, Y: y}
	if !m.Contains(p) {
		return minefield.Position{}, fmt.Errorf("position %s is not on the %dx%d minefield", p, m.Width(), m.Height())
	}

	return p, nil
}

func apply(m *minefield.Minefield, command string, p minefield.Position) {
	switch command {
	case "r":
		m.ClearMine(p)
	case "c":
		m.MultiRelease(p)
	case "t":
		if location := m.Location(p); location.IsCleared && location.NumberOfMinesAround > 0 {
			m.MultiRelease(p)
		} else {
			m.ClearMine(p)
		}
	case "f":
		m.ChangeFlag(m.Location(p).Flag.Next(), p)
	}
}

