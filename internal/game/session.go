package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/sweepmines/internal/minefield"
	"github.com/lk16/sweepmines/internal/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidGame  = errors.New("invalid game")
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfBounds  = errors.New("position out of bounds")
)

// Status is the game status as shown to players.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

func statusOf(state minefield.State) Status {
	switch state {
	case minefield.Playing:
		return StatusPlaying
	case minefield.Completed:
		return StatusWon
	case minefield.Exploded:
		return StatusLost
	default:
		return StatusIdle
	}
}

// Action is a kind of player move.
type Action string

const (
	ActionReveal  Action = "reveal"
	ActionChord   Action = "chord"
	ActionTap     Action = "tap"
	ActionFlag    Action = "flag"
	ActionRestart Action = "restart"
)

// Move is a parsed player action.
type Move struct {
	Action   Action
	Position minefield.Position

	// Flag is the flag to set. When nil the flag action cycles to the next flag.
	Flag *minefield.Flag
}

// ParseMove converts a move payload.
func ParseMove(req models.MoveRequest) (Move, error) {
	move := Move{
		Action:   Action(req.Action),
		Position: minefield.Position{X: req.X, Y: req.Y},
	}

	switch move.Action {
	case ActionReveal, ActionChord, ActionTap, ActionRestart:
	case ActionFlag:
		if req.Flag != "" {
			flag, err := minefield.ParseFlag(req.Flag)
			if err != nil {
				return Move{}, fmt.Errorf("%w: %w", ErrInvalidMove, err)
			}
			move.Flag = &flag
		}
	default:
		return Move{}, fmt.Errorf("%w: unknown action %q", ErrInvalidMove, req.Action)
	}

	return move, nil
}

// Session is one game in progress. The minefield is only touched with mu held.
type Session struct {
	id         uuid.UUID
	difficulty minefield.Difficulty

	mu         sync.Mutex
	field      *minefield.Minefield
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
	lastActive time.Time
}

func newSession(difficulty minefield.Difficulty, field *minefield.Minefield, now time.Time) *Session {
	return &Session{
		id:         uuid.New(),
		difficulty: difficulty,
		field:      field,
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session ID.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// fingerprint captures enough of the minefield to tell whether a move changed it.
type fingerprint struct {
	cleared int
	flagged int
	state   minefield.State
}

func (s *Session) fingerprint() fingerprint {
	return fingerprint{
		cleared: s.field.NumberOfCleared(),
		flagged: s.field.NumberOfFlagged(),
		state:   s.field.State(),
	}
}

// apply performs a move. It assumes mu is locked.
func (s *Session) apply(move Move, now time.Time) (changed bool, finished bool, err error) {
	if move.Action != ActionRestart && !s.field.Contains(move.Position) {
		return false, false, fmt.Errorf("%w: %s", ErrOutOfBounds, move.Position)
	}

	before := s.fingerprint()
	p := move.Position

	switch move.Action {
	case ActionReveal:
		s.field.ClearMine(p)
		changed = s.fingerprint() != before

	case ActionChord:
		changed = s.field.MultiRelease(p)

	case ActionTap:
		location := s.field.Location(p)
		if location.IsCleared {
			if location.NumberOfMinesAround > 0 {
				changed = s.field.MultiRelease(p)
			}
		} else {
			s.field.ClearMine(p)
			changed = s.fingerprint() != before
		}

	case ActionFlag:
		previous := s.field.Location(p).Flag
		flag := previous.Next()
		if move.Flag != nil {
			flag = *move.Flag
		}
		s.field.ChangeFlag(flag, p)
		changed = s.field.Location(p).Flag != previous

	case ActionRestart:
		s.field = s.field.Restarted()
		s.startedAt = time.Time{}
		s.finishedAt = time.Time{}
		s.lastActive = now
		return true, false, nil

	default:
		return false, false, fmt.Errorf("%w: unknown action %q", ErrInvalidMove, move.Action)
	}

	if before.state == minefield.NotStarted && s.field.IsPlacedMines() {
		s.startedAt = now
	}

	if !before.state.IsTerminal() && s.field.State().IsTerminal() {
		s.finishedAt = now
		finished = true
	}

	s.lastActive = now

	return changed, finished, nil
}

// elapsed returns the playing time. It assumes mu is locked.
func (s *Session) elapsed(now time.Time) time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case !s.finishedAt.IsZero():
		return s.finishedAt.Sub(s.startedAt)
	default:
		return now.Sub(s.startedAt)
	}
}

// view builds the player facing state. It assumes mu is locked.
func (s *Session) view(now time.Time, changed bool) models.GameView {
	state := s.field.State()

	view := models.GameView{
		ID:              s.id.String(),
		Difficulty:      s.difficulty,
		Status:          string(statusOf(state)),
		AutoFlag:        s.field.AutoFlag,
		RemainingMines:  s.field.RemainingMines(),
		NumberOfCleared: s.field.NumberOfCleared(),
		NumberOfFlagged: s.field.NumberOfFlagged(),
		Rows:            s.field.Rows(state.IsTerminal()),
		CreatedAt:       s.createdAt,
		ElapsedSeconds:  s.elapsed(now).Seconds(),
		Changed:         changed,
	}

	if explodedAt, ok := s.field.ExplodedAt(); ok {
		view.ExplodedAt = &explodedAt
	}

	if !s.startedAt.IsZero() {
		startedAt := s.startedAt
		view.StartedAt = &startedAt
	}

	if !s.finishedAt.IsZero() {
		finishedAt := s.finishedAt
		view.FinishedAt = &finishedAt
	}

	return view
}

// info describes the session for the live session registry. It assumes mu is locked.
func (s *Session) info() models.SessionInfo {
	return models.SessionInfo{
		ID:         s.id.String(),
		Difficulty: s.difficulty.Name,
		Width:      s.difficulty.Width,
		Height:     s.difficulty.Height,
		Mines:      s.difficulty.NumberOfMines,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
}

// result describes a finished game. It assumes mu is locked.
func (s *Session) result() models.GameResult {
	return models.GameResult{
		ID:              s.id.String(),
		Difficulty:      s.difficulty.Name,
		Width:           s.difficulty.Width,
		Height:          s.difficulty.Height,
		NumberOfMines:   s.difficulty.NumberOfMines,
		Won:             s.field.IsCompleted(),
		NumberOfCleared: s.field.NumberOfCleared(),
		DurationMs:      s.elapsed(s.finishedAt).Milliseconds(),
		FinishedAt:      s.finishedAt,
	}
}
