package minefield

import (
	"fmt"
	"strings"
)

// Difficulty describes the dimensions and mine count of a game.
type Difficulty struct {
	Name          string `json:"name"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	NumberOfMines int    `json:"number_of_mines"`
}

const CustomDifficultyName = "custom"

var (
	Beginner     = Difficulty{Name: "beginner", Width: 9, Height: 9, NumberOfMines: 10}
	Intermediate = Difficulty{Name: "intermediate", Width: 16, Height: 16, NumberOfMines: 40}
	Expert       = Difficulty{Name: "expert", Width: 30, Height: 16, NumberOfMines: 99}
)

// Difficulties returns the preset difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Expert}
}

// DifficultyByName looks up a preset by its case-insensitive name.
func DifficultyByName(name string) (Difficulty, error) {
	for _, difficulty := range Difficulties() {
		if strings.EqualFold(difficulty.Name, name) {
			return difficulty, nil
		}
	}
	return Difficulty{}, fmt.Errorf("unknown difficulty: %q", name)
}

// CustomDifficulty builds a non-preset difficulty. It is validated by New.
func CustomDifficulty(width, height, numberOfMines int) Difficulty {
	return Difficulty{
		Name:          CustomDifficultyName,
		Width:         width,
		Height:        height,
		NumberOfMines: numberOfMines,
	}
}

// New creates a minefield with the dimensions of the difficulty.
func (d Difficulty) New(opts ...Option) (*Minefield, error) {
	return New(d.Width, d.Height, d.NumberOfMines, opts...)
}
