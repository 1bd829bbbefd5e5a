package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/sweepmines/internal/minefield"
	"github.com/lk16/sweepmines/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu       sync.Mutex
	started  []models.SessionInfo
	active   []models.SessionInfo
	finished []models.GameResult
	closed   []string
	err      error
}

func (r *fakeRecorder) SessionStarted(_ context.Context, info models.SessionInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, info)
	return r.err
}

func (r *fakeRecorder) SessionActive(_ context.Context, info models.SessionInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, info)
	return r.err
}

func (r *fakeRecorder) SessionFinished(_ context.Context, result models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, result)
	return r.err
}

func (r *fakeRecorder) SessionClosed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, id)
	return r.err
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*Manager, *fakeRecorder, *testClock) {
	t.Helper()

	recorder := &fakeRecorder{}
	clock := &testClock{now: time.Date(2024, 11, 4, 12, 0, 0, 0, time.UTC)}

	manager := NewManager(recorder, 10*time.Minute, false)
	manager.now = clock.Now

	return manager, recorder, clock
}

func seed(value uint64) *uint64 {
	return &value
}

func createBeginner(t *testing.T, manager *Manager) models.GameView {
	t.Helper()

	view, err := manager.Create(t.Context(), models.NewGameRequest{Difficulty: "beginner", Seed: seed(1)})
	require.NoError(t, err)
	return view
}

// field returns the minefield of a session for inspecting the hidden mine layout.
func field(t *testing.T, manager *Manager, id string) *minefield.Minefield {
	t.Helper()

	session, err := manager.lookup(id)
	require.NoError(t, err)
	return session.field
}

func findCell(t *testing.T, m *minefield.Minefield, match func(minefield.Location) bool) minefield.Position {
	t.Helper()

	for i := range m.Count() {
		p := m.PositionOf(i)
		if match(m.Location(p)) {
			return p
		}
	}

	t.Fatal("no matching cell")
	return minefield.Position{}
}

func reveal(x, y int) Move {
	return Move{Action: ActionReveal, Position: minefield.Position{X: x, Y: y}}
}

func TestParseMove(t *testing.T) {
	maybe := minefield.Maybe

	tests := []struct {
		name    string
		req     models.MoveRequest
		want    Move
		wantErr bool
	}{
		{
			name: "Reveal",
			req:  models.MoveRequest{Action: "reveal", X: 1, Y: 2},
			want: Move{Action: ActionReveal, Position: minefield.Position{X: 1, Y: 2}},
		},
		{
			name: "CycleFlag",
			req:  models.MoveRequest{Action: "flag", X: 3, Y: 0},
			want: Move{Action: ActionFlag, Position: minefield.Position{X: 3}},
		},
		{
			name: "SetFlag",
			req:  models.MoveRequest{Action: "flag", Flag: "maybe"},
			want: Move{Action: ActionFlag, Flag: &maybe},
		},
		{
			name:    "InvalidFlag",
			req:     models.MoveRequest{Action: "flag", Flag: "bomb"},
			wantErr: true,
		},
		{
			name:    "UnknownAction",
			req:     models.MoveRequest{Action: "dig"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, err := ParseMove(tt.req)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidMove)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, move)
		})
	}
}

func TestManager_Create(t *testing.T) {
	manager, recorder, clock := newTestManager(t)

	view := createBeginner(t, manager)

	require.NotEmpty(t, view.ID)
	require.Equal(t, minefield.Beginner, view.Difficulty)
	require.Equal(t, string(StatusIdle), view.Status)
	require.Equal(t, 10, view.RemainingMines)
	require.Len(t, view.Rows, 9)
	require.Equal(t, strings.Repeat("-", 9), view.Rows[0])
	require.Equal(t, clock.now, view.CreatedAt)
	require.Nil(t, view.StartedAt)
	require.False(t, view.AutoFlag)
	require.Equal(t, 1, manager.Len())

	require.Len(t, recorder.started, 1)
	require.Equal(t, view.ID, recorder.started[0].ID)
	require.Equal(t, "beginner", recorder.started[0].Difficulty)
}

func TestManager_CreateCustom(t *testing.T) {
	manager, _, _ := newTestManager(t)

	autoFlag := true
	view, err := manager.Create(t.Context(), models.NewGameRequest{
		Width:         5,
		Height:        4,
		NumberOfMines: 3,
		AutoFlag:      &autoFlag,
	})
	require.NoError(t, err)

	require.Equal(t, minefield.CustomDifficulty(5, 4, 3), view.Difficulty)
	require.True(t, view.AutoFlag)
	require.Equal(t, []string{"-----", "-----", "-----", "-----"}, view.Rows)
}

func TestManager_CreateInvalid(t *testing.T) {
	manager, recorder, _ := newTestManager(t)

	_, err := manager.Create(t.Context(), models.NewGameRequest{Difficulty: "impossible"})
	require.ErrorIs(t, err, ErrInvalidGame)

	_, err = manager.Create(t.Context(), models.NewGameRequest{Width: 3, Height: 3, NumberOfMines: 1})
	require.ErrorIs(t, err, ErrInvalidGame)
	require.ErrorIs(t, err, minefield.ErrTooManyMines)

	_, err = manager.Create(t.Context(), models.NewGameRequest{Width: -3, Height: 3})
	require.ErrorIs(t, err, minefield.ErrInvalidDimensions)

	require.Zero(t, manager.Len())
	require.Empty(t, recorder.started)
}

func TestManager_CreateRecorderFailure(t *testing.T) {
	manager, recorder, _ := newTestManager(t)
	recorder.err = errors.New("redis down")

	view := createBeginner(t, manager)
	require.NotEmpty(t, view.ID)
}

func TestManager_NotFound(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.View("not-a-uuid")
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = manager.View(uuid.NewString())
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = manager.Apply(t.Context(), uuid.NewString(), reveal(0, 0))
	require.ErrorIs(t, err, ErrGameNotFound)

	require.ErrorIs(t, manager.Delete(t.Context(), uuid.NewString()), ErrGameNotFound)
}

func TestManager_ApplyOutOfBounds(t *testing.T) {
	manager, _, _ := newTestManager(t)
	view := createBeginner(t, manager)

	_, err := manager.Apply(t.Context(), view.ID, reveal(9, 0))
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionFlag, Position: minefield.Position{X: 0, Y: -1}})
	require.ErrorIs(t, err, ErrOutOfBounds)

	after, err := manager.View(view.ID)
	require.NoError(t, err)
	require.Equal(t, string(StatusIdle), after.Status)
}

func TestManager_RevealStartsTimer(t *testing.T) {
	manager, _, clock := newTestManager(t)
	view := createBeginner(t, manager)

	clock.Advance(5 * time.Second)
	startedAt := clock.now

	view, err := manager.Apply(t.Context(), view.ID, reveal(4, 4))
	require.NoError(t, err)

	require.True(t, view.Changed)
	require.Equal(t, string(StatusPlaying), view.Status)
	require.NotNil(t, view.StartedAt)
	require.Equal(t, startedAt, *view.StartedAt)
	require.Positive(t, view.NumberOfCleared)
	require.Zero(t, view.ElapsedSeconds)

	clock.Advance(3 * time.Second)
	view, err = manager.View(view.ID)
	require.NoError(t, err)
	require.InDelta(t, 3.0, view.ElapsedSeconds, 1e-9)

	// Hidden mines are not shown while playing.
	for _, row := range view.Rows {
		require.NotContains(t, row, "*")
	}
}

func TestManager_Lose(t *testing.T) {
	manager, recorder, clock := newTestManager(t)
	view := createBeginner(t, manager)

	_, err := manager.Apply(t.Context(), view.ID, reveal(0, 0))
	require.NoError(t, err)

	mine := findCell(t, field(t, manager, view.ID), func(l minefield.Location) bool { return l.HasMine })

	clock.Advance(7 * time.Second)
	view, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionReveal, Position: mine})
	require.NoError(t, err)

	require.True(t, view.Changed)
	require.Equal(t, string(StatusLost), view.Status)
	require.NotNil(t, view.ExplodedAt)
	require.Equal(t, mine, *view.ExplodedAt)
	require.Equal(t, byte('X'), view.Rows[mine.Y][mine.X])
	require.NotNil(t, view.FinishedAt)

	require.Len(t, recorder.finished, 1)
	result := recorder.finished[0]
	require.Equal(t, view.ID, result.ID)
	require.False(t, result.Won)
	require.Equal(t, int64(7000), result.DurationMs)
	require.Equal(t, "beginner", result.Difficulty)

	// Further moves change nothing and don't record again.
	view, err = manager.Apply(t.Context(), view.ID, reveal(8, 8))
	require.NoError(t, err)
	require.False(t, view.Changed)
	require.Len(t, recorder.finished, 1)
}

func TestManager_Win(t *testing.T) {
	manager, recorder, clock := newTestManager(t)
	view := createBeginner(t, manager)

	view, err := manager.Apply(t.Context(), view.ID, reveal(4, 4))
	require.NoError(t, err)

	m := field(t, manager, view.ID)
	for i := range m.Count() {
		p := m.PositionOf(i)
		if m.Location(p).HasMine || m.Location(p).IsCleared {
			continue
		}

		clock.Advance(time.Second)
		view, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionTap, Position: p})
		require.NoError(t, err)
	}

	require.Equal(t, string(StatusWon), view.Status)
	require.Zero(t, view.RemainingMines)
	require.Equal(t, 81-10, view.NumberOfCleared)

	require.Len(t, recorder.finished, 1)
	require.True(t, recorder.finished[0].Won)
	require.Equal(t, 81-10, recorder.finished[0].NumberOfCleared)
}

func TestManager_TapChords(t *testing.T) {
	manager, _, _ := newTestManager(t)
	view := createBeginner(t, manager)

	_, err := manager.Apply(t.Context(), view.ID, reveal(4, 4))
	require.NoError(t, err)

	m := field(t, manager, view.ID)
	number := findCell(t, m, func(l minefield.Location) bool {
		return l.IsCleared && l.NumberOfMinesAround > 0
	})

	// Tapping an unsatisfied number does nothing.
	view, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionTap, Position: number})
	require.NoError(t, err)

	hasCoveredSafeNeighbour := false
	for _, neighbour := range m.Neighbours(number) {
		location := m.Location(neighbour)
		if location.HasMine {
			_, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionFlag, Position: neighbour})
			require.NoError(t, err)
		} else if !location.IsCleared {
			hasCoveredSafeNeighbour = true
		}
	}

	cleared := m.NumberOfCleared()
	view, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionTap, Position: number})
	require.NoError(t, err)

	require.NotEqual(t, string(StatusLost), view.Status)
	require.Equal(t, hasCoveredSafeNeighbour, view.Changed)
	if hasCoveredSafeNeighbour {
		require.Greater(t, view.NumberOfCleared, cleared)
	}
	for _, neighbour := range m.Neighbours(number) {
		location := m.Location(neighbour)
		require.Equal(t, !location.HasMine, location.IsCleared)
	}
}

func TestManager_Flag(t *testing.T) {
	manager, _, _ := newTestManager(t)
	view := createBeginner(t, manager)
	p := minefield.Position{X: 2, Y: 3}
	cycle := Move{Action: ActionFlag, Position: p}

	view, err := manager.Apply(t.Context(), view.ID, cycle)
	require.NoError(t, err)
	require.True(t, view.Changed)
	require.Equal(t, byte('F'), view.Rows[3][2])
	require.Equal(t, 9, view.RemainingMines)

	view, err = manager.Apply(t.Context(), view.ID, cycle)
	require.NoError(t, err)
	require.Equal(t, byte('?'), view.Rows[3][2])
	require.Equal(t, 10, view.RemainingMines)

	view, err = manager.Apply(t.Context(), view.ID, cycle)
	require.NoError(t, err)
	require.Equal(t, byte('-'), view.Rows[3][2])

	flagged := minefield.Flagged
	set := Move{Action: ActionFlag, Position: p, Flag: &flagged}

	view, err = manager.Apply(t.Context(), view.ID, set)
	require.NoError(t, err)
	require.True(t, view.Changed)

	view, err = manager.Apply(t.Context(), view.ID, set)
	require.NoError(t, err)
	require.False(t, view.Changed)
	require.Equal(t, 1, view.NumberOfFlagged)

	// Flags don't start the game.
	require.Equal(t, string(StatusIdle), view.Status)
	require.Nil(t, view.StartedAt)
}

func TestManager_Restart(t *testing.T) {
	manager, recorder, _ := newTestManager(t)
	view := createBeginner(t, manager)

	_, err := manager.Apply(t.Context(), view.ID, reveal(4, 4))
	require.NoError(t, err)
	old := field(t, manager, view.ID)

	restarted, err := manager.Apply(t.Context(), view.ID, Move{Action: ActionRestart})
	require.NoError(t, err)

	require.Equal(t, view.ID, restarted.ID)
	require.Equal(t, string(StatusIdle), restarted.Status)
	require.Zero(t, restarted.NumberOfCleared)
	require.Nil(t, restarted.StartedAt)
	require.NotSame(t, old, field(t, manager, view.ID))
	require.Len(t, recorder.started, 2)
}

func TestManager_ApplyRecordsActivity(t *testing.T) {
	manager, recorder, clock := newTestManager(t)
	view := createBeginner(t, manager)

	clock.Advance(10 * time.Minute)
	_, err := manager.Apply(t.Context(), view.ID, reveal(4, 4))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionFlag, Position: minefield.Position{X: 0, Y: 0}})
	require.NoError(t, err)

	require.Len(t, recorder.started, 1)
	require.Len(t, recorder.active, 2)
	require.Equal(t, view.ID, recorder.active[1].ID)
	require.Equal(t, clock.now, recorder.active[1].LastActive)

	sessions := manager.Sessions()
	require.Equal(t, sessions[0].LastActive, recorder.active[1].LastActive)

	// Rejected moves are not activity.
	_, err = manager.Apply(t.Context(), view.ID, reveal(-1, 0))
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Len(t, recorder.active, 2)

	// A restart is recorded as a new start instead.
	_, err = manager.Apply(t.Context(), view.ID, Move{Action: ActionRestart})
	require.NoError(t, err)
	require.Len(t, recorder.started, 2)
	require.Len(t, recorder.active, 2)
}

func TestManager_DeleteAndSweep(t *testing.T) {
	manager, recorder, clock := newTestManager(t)

	first := createBeginner(t, manager)
	second := createBeginner(t, manager)
	third := createBeginner(t, manager)

	require.NoError(t, manager.Delete(t.Context(), first.ID))
	require.Equal(t, 2, manager.Len())
	require.Equal(t, []string{first.ID}, recorder.closed)

	clock.Advance(8 * time.Minute)
	_, err := manager.Apply(t.Context(), second.ID, reveal(0, 0))
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)
	require.Equal(t, 1, manager.Sweep(t.Context(), clock.now))
	require.Equal(t, 1, manager.Len())
	require.Equal(t, []string{first.ID, third.ID}, recorder.closed)

	sessions := manager.Sessions()
	require.Len(t, sessions, 1)
	require.Equal(t, second.ID, sessions[0].ID)

	_, err = manager.View(third.ID)
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestManager_RunSweeperStops(t *testing.T) {
	manager, _, _ := newTestManager(t)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})

	go func() {
		manager.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestManager_NilRecorder(t *testing.T) {
	manager := NewManager(nil, time.Minute, true)

	view, err := manager.Create(t.Context(), models.NewGameRequest{Difficulty: "expert"})
	require.NoError(t, err)
	require.True(t, view.AutoFlag)
	require.NoError(t, manager.Delete(t.Context(), view.ID))
}
