package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/sweepmines/internal/minefield"
	"github.com/lk16/sweepmines/internal/models"
)

// Recorder is notified about session lifecycle events.
type Recorder interface {
	SessionStarted(ctx context.Context, info models.SessionInfo) error
	SessionActive(ctx context.Context, info models.SessionInfo) error
	SessionFinished(ctx context.Context, result models.GameResult) error
	SessionClosed(ctx context.Context, id string) error
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(context.Context, models.SessionInfo) error  { return nil }
func (nopRecorder) SessionActive(context.Context, models.SessionInfo) error   { return nil }
func (nopRecorder) SessionFinished(context.Context, models.GameResult) error { return nil }
func (nopRecorder) SessionClosed(context.Context, string) error              { return nil }

// Manager keeps the live game sessions in memory.
type Manager struct {
	recorder Recorder

	// ttl is how long a session may stay idle before Sweep removes it.
	ttl time.Duration

	// autoFlag is used for new games that don't set it themselves.
	autoFlag bool

	now func() time.Time

	// sessionsMutex protects sessions
	sessionsMutex sync.RWMutex
	sessions      map[uuid.UUID]*Session
}

// NewManager creates a Manager. A nil recorder disables recording.
func NewManager(recorder Recorder, ttl time.Duration, autoFlag bool) *Manager {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Manager{
		recorder: recorder,
		ttl:      ttl,
		autoFlag: autoFlag,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Difficulty resolves the difficulty of a new game request.
func Difficulty(req models.NewGameRequest) (minefield.Difficulty, error) {
	if req.IsCustom() {
		return minefield.CustomDifficulty(req.Width, req.Height, req.NumberOfMines), nil
	}

	difficulty, err := minefield.DifficultyByName(req.Difficulty)
	if err != nil {
		return minefield.Difficulty{}, fmt.Errorf("%w: %w", ErrInvalidGame, err)
	}

	return difficulty, nil
}

// Create starts a new session.
func (m *Manager) Create(ctx context.Context, req models.NewGameRequest) (models.GameView, error) {
	difficulty, err := Difficulty(req)
	if err != nil {
		return models.GameView{}, err
	}

	autoFlag := m.autoFlag
	if req.AutoFlag != nil {
		autoFlag = *req.AutoFlag
	}

	opts := []minefield.Option{minefield.WithAutoFlag(autoFlag)}
	if req.Seed != nil {
		opts = append(opts, minefield.WithSeed(*req.Seed))
	}

	field, err := difficulty.New(opts...)
	if err != nil {
		return models.GameView{}, fmt.Errorf("%w: %w", ErrInvalidGame, err)
	}

	now := m.now()
	session := newSession(difficulty, field, now)

	m.sessionsMutex.Lock()
	m.sessions[session.id] = session
	m.sessionsMutex.Unlock()

	session.mu.Lock()
	view := session.view(now, false)
	info := session.info()
	session.mu.Unlock()

	slog.Debug("Game created", "id", view.ID, "difficulty", difficulty.Name)

	if err := m.recorder.SessionStarted(ctx, info); err != nil {
		slog.Error("Failed to record session start", "id", view.ID, "error", err)
	}

	return view, nil
}

func (m *Manager) lookup(id string) (*Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	m.sessionsMutex.RLock()
	defer m.sessionsMutex.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	return session, nil
}

// View returns the current state of a session.
func (m *Manager) View(id string) (models.GameView, error) {
	session, err := m.lookup(id)
	if err != nil {
		return models.GameView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return session.view(m.now(), false), nil
}

// Apply performs a move on a session and returns the resulting state.
func (m *Manager) Apply(ctx context.Context, id string, move Move) (models.GameView, error) {
	session, err := m.lookup(id)
	if err != nil {
		return models.GameView{}, err
	}

	now := m.now()

	session.mu.Lock()
	changed, finished, err := session.apply(move, now)
	if err != nil {
		session.mu.Unlock()
		return models.GameView{}, err
	}
	view := session.view(now, changed)
	info := session.info()
	var result models.GameResult
	if finished {
		result = session.result()
	}
	session.mu.Unlock()

	if finished {
		slog.Debug("Game finished", "id", id, "status", view.Status)
		if err := m.recorder.SessionFinished(ctx, result); err != nil {
			slog.Error("Failed to record game result", "id", id, "error", err)
		}
	}

	if move.Action == ActionRestart {
		if err := m.recorder.SessionStarted(ctx, info); err != nil {
			slog.Error("Failed to record session start", "id", id, "error", err)
		}
	} else if err := m.recorder.SessionActive(ctx, info); err != nil {
		slog.Error("Failed to record session activity", "id", id, "error", err)
	}

	return view, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	session, err := m.lookup(id)
	if err != nil {
		return err
	}

	m.sessionsMutex.Lock()
	delete(m.sessions, session.id)
	m.sessionsMutex.Unlock()

	if err := m.recorder.SessionClosed(ctx, id); err != nil {
		slog.Error("Failed to record session close", "id", id, "error", err)
	}

	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.sessionsMutex.RLock()
	defer m.sessionsMutex.RUnlock()

	return len(m.sessions)
}

// Sessions lists the live sessions, most recently active first.
func (m *Manager) Sessions() []models.SessionInfo {
	m.sessionsMutex.RLock()
	infos := make([]models.SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		session.mu.Lock()
		infos = append(infos, session.info())
		session.mu.Unlock()
	}
	m.sessionsMutex.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastActive.After(infos[j].LastActive)
	})

	return infos
}

// Sweep removes sessions that have been idle for longer than the TTL and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context, now time.Time) int {
	var expired []uuid.UUID

	m.sessionsMutex.Lock()
	for id, session := range m.sessions {
		session.mu.Lock()
		idle := now.Sub(session.lastActive)
		session.mu.Unlock()

		if idle > m.ttl {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.sessionsMutex.Unlock()

	for _, id := range expired {
		if err := m.recorder.SessionClosed(ctx, id.String()); err != nil {
			slog.Error("Failed to close expired session", "id", id, "error", err)
		}
	}

	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Sweep(ctx, m.now()); removed > 0 {
				slog.Info("Removed idle sessions", "count", removed)
			}
		}
	}
}
