package models

import (
	"errors"
	"time"

	"github.com/lk16/sweepmines/internal/minefield"
)

// NewGameRequest is the payload for creating a game. Either Difficulty names a preset,
// or Width, Height and NumberOfMines describe a custom board.
type NewGameRequest struct {
	Difficulty    string  `json:"difficulty"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	NumberOfMines int     `json:"number_of_mines"`
	AutoFlag      *bool   `json:"auto_flag,omitempty"`
	Seed          *uint64 `json:"seed,omitempty"`
}

// Validate checks the request is not empty.
func (r *NewGameRequest) Validate() error {
	if r.Difficulty == "" && r.Width == 0 && r.Height == 0 {
		return errors.New("either difficulty or board dimensions are required")
	}
	return nil
}

// IsCustom reports whether the request describes its own dimensions.
func (r *NewGameRequest) IsCustom() bool {
	return r.Difficulty == "" || r.Difficulty == minefield.CustomDifficultyName
}

// MoveRequest is the payload for a single player action.
type MoveRequest struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`

	// Flag is only used by the flag action. Empty means cycle to the next flag.
	Flag string `json:"flag,omitempty"`
}

// GameView is the player facing state of a game. Mines are hidden until the game ends.
type GameView struct {
	ID              string               `json:"id"`
	Difficulty      minefield.Difficulty `json:"difficulty"`
	Status          string               `json:"status"`
	AutoFlag        bool                 `json:"auto_flag"`
	RemainingMines  int                  `json:"remaining_mines"`
	NumberOfCleared int                  `json:"number_of_cleared"`
	NumberOfFlagged int                  `json:"number_of_flagged"`
	Rows            []string             `json:"rows"`
	ExplodedAt      *minefield.Position  `json:"exploded_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	StartedAt       *time.Time           `json:"started_at,omitempty"`
	FinishedAt      *time.Time           `json:"finished_at,omitempty"`
	ElapsedSeconds  float64              `json:"elapsed_seconds"`

	// Changed tells whether the last move changed the board.
	Changed bool `json:"changed"`
}

// SessionInfo describes a live game session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Mines      int       `json:"mines"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// SessionsResponse lists the live sessions.
type SessionsResponse struct {
	ActiveSessions int           `json:"active_sessions"`
	Sessions       []SessionInfo `json:"sessions"`
}

// GameResult is the outcome of a finished game.
type GameResult struct {
	ID              string    `json:"id"                db:"id"`
	Difficulty      string    `json:"difficulty"        db:"difficulty"`
	Width           int       `json:"width"             db:"width"`
	Height          int       `json:"height"            db:"height"`
	NumberOfMines   int       `json:"number_of_mines"   db:"number_of_mines"`
	Won             bool      `json:"won"               db:"won"`
	NumberOfCleared int       `json:"number_of_cleared" db:"number_of_cleared"`
	DurationMs      int64     `json:"duration_ms"       db:"duration_ms"`
	FinishedAt      time.Time `json:"finished_at"       db:"finished_at"`
}

// LeaderboardResponse holds the fastest wins for a difficulty.
type LeaderboardResponse struct {
	Difficulty string       `json:"difficulty"`
	Results    []GameResult `json:"results"`
}

// OutcomeStats counts games per outcome.
type OutcomeStats struct {
	Started int64 `json:"started"`
	Won     int64 `json:"won"`
	Lost    int64 `json:"lost"`
}

// StatsResponse holds the outcome counters per difficulty.
type StatsResponse struct {
	Difficulties map[string]OutcomeStats `json:"difficulties"`
}

type VersionResponse struct {
	Commit string `json:"commit"`
}
