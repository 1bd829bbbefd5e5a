package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(nil, game.NewManager(nil, time.Minute, false))
}

func incoming(t *testing.T, id int, event string, data any) *Incoming {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	return &Incoming{Event: event, ID: id, Data: raw}
}

func gameView(t *testing.T, outgoing *Outgoing) models.GameView {
	t.Helper()

	view, ok := outgoing.Data.(models.GameView)
	require.True(t, ok)
	return view
}

func TestHandleMessage_Play(t *testing.T) {
	h := newTestHandler()
	ctx := t.Context()
	seed := uint64(3)

	outgoing, err := h.handleMessage(ctx, incoming(t, 1, EventNewGame, models.NewGameRequest{
		Difficulty: "beginner",
		Seed:       &seed,
	}))
	require.NoError(t, err)
	require.Equal(t, 1, outgoing.ID)

	created := gameView(t, outgoing)
	require.Equal(t, "idle", created.Status)

	outgoing, err = h.handleMessage(ctx, incoming(t, 2, EventMove, map[string]any{
		"game_id": created.ID,
		"action":  "reveal",
		"x":       4,
		"y":       4,
	}))
	require.NoError(t, err)
	require.Equal(t, 2, outgoing.ID)

	moved := gameView(t, outgoing)
	require.Equal(t, created.ID, moved.ID)
	require.Equal(t, "playing", moved.Status)
	require.True(t, moved.Changed)

	outgoing, err = h.handleMessage(ctx, incoming(t, 3, EventState, StateRequest{GameID: created.ID}))
	require.NoError(t, err)
	require.Equal(t, moved.Rows, gameView(t, outgoing).Rows)
}

func TestHandleMessage_Errors(t *testing.T) {
	h := newTestHandler()
	ctx := t.Context()

	tests := []struct {
		name   string
		req    *Incoming
		target error
	}{
		{
			name: "MissingEvent",
			req:  &Incoming{ID: 1},
		},
		{
			name: "UnknownEvent",
			req:  &Incoming{ID: 1, Event: "explode"},
		},
		{
			name: "BadPayload",
			req:  &Incoming{ID: 1, Event: EventMove, Data: json.RawMessage(`[1, 2]`)},
		},
		{
			name:   "UnknownGame",
			req:    incoming(t, 1, EventState, StateRequest{GameID: "missing"}),
			target: game.ErrGameNotFound,
		},
		{
			name:   "UnknownAction",
			req:    incoming(t, 1, EventMove, map[string]any{"game_id": "missing", "action": "dig"}),
			target: game.ErrInvalidMove,
		},
		{
			name:   "UnknownDifficulty",
			req:    incoming(t, 1, EventNewGame, models.NewGameRequest{Difficulty: "nightmare"}),
			target: game.ErrInvalidGame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outgoing, err := h.handleMessage(ctx, tt.req)
			require.Error(t, err)
			require.Nil(t, outgoing)
			if tt.target != nil {
				require.ErrorIs(t, err, tt.target)
			}
		})
	}
}

type message struct {
	messageType int
	data        []byte
}

// fakeConn replays incoming messages and fails reads with closeErr once they run out.
type fakeConn struct {
	incoming []message
	written  [][]byte
	closeErr error
	writeErr error
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if len(c.incoming) == 0 {
		return 0, nil, c.closeErr
	}

	msg := c.incoming[0]
	c.incoming = c.incoming[1:]
	return msg.messageType, msg.data, nil
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, data)
	return nil
}

func textMessage(data string) message {
	return message{messageType: websocket.TextMessage, data: []byte(data)}
}

func TestHandle(t *testing.T) {
	closeErr := errors.New("connection closed")
	conn := &fakeConn{
		incoming: []message{
			textMessage(`{"event": "new_game", "id": 7, "data": {"difficulty": "beginner"}}`),
			textMessage(`{"event": "state", "id": 8, "data": {"game_id": "missing"}}`),
		},
		closeErr: closeErr,
	}

	err := NewHandler(conn, game.NewManager(nil, time.Minute, false)).Handle()

	require.ErrorIs(t, err, closeErr)
	require.Equal(t, "ws read error: connection closed", err.Error())

	require.Len(t, conn.written, 2)

	var created struct {
		ID   int             `json:"id"`
		Data models.GameView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(conn.written[0], &created))
	require.Equal(t, 7, created.ID)
	require.Equal(t, "beginner", created.Data.Difficulty.Name)

	var failed Outgoing
	require.NoError(t, json.Unmarshal(conn.written[1], &failed))
	require.Equal(t, 8, failed.ID)
	require.Contains(t, failed.Error, "game not found")
	require.Nil(t, failed.Data)
}

func TestHandleErrors(t *testing.T) {
	writeErr := errors.New("broken pipe")

	tests := []struct {
		name    string
		conn    *fakeConn
		wantErr string
	}{
		{
			name:    "BinaryMessage",
			conn:    &fakeConn{incoming: []message{{messageType: websocket.BinaryMessage}}},
			wantErr: "ws unexpected message type: 2",
		},
		{
			name:    "InvalidJSON",
			conn:    &fakeConn{incoming: []message{textMessage("{")}},
			wantErr: "ws unmarshal error: unexpected end of JSON input",
		},
		{
			name: "WriteFails",
			conn: &fakeConn{
				incoming: []message{textMessage(`{"event": "explode", "id": 1}`)},
				writeErr: writeErr,
			},
			wantErr: "ws write error: broken pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHandler(tt.conn, game.NewManager(nil, time.Minute, false)).Handle()
			require.EqualError(t, err, tt.wantErr)
		})
	}
}
