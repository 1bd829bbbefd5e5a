package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/models"
)

const (
	requestTimeout = 2 * time.Second
)

// Conn is the part of a websocket connection the Handler uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

type Handler struct {
	games *game.Manager
	ws    Conn
}

// NewHandler creates a new Handler.
func NewHandler(ws Conn, games *game.Manager) *Handler {
	return &Handler{games: games, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", string(msg))

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("ws unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("ws unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("ws write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMessage(ctx context.Context, req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	var (
		view models.GameView
		err  error
	)

	switch req.Event {
	case EventNewGame:
		view, err = h.handleNewGame(ctx, req.Data)
	case EventMove:
		view, err = h.handleMove(ctx, req.Data)
	case EventState:
		view, err = h.handleState(req.Data)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}

	if err != nil {
		return nil, err
	}

	return &Outgoing{ID: req.ID, Data: view}, nil
}

// Handle handles the websocket connection. Failed requests are answered with an error
// and the connection stays open. It returns when reading or writing fails.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		outgoing, err := h.handleMessage(ctx, req)
		cancel()

		if err != nil {
			outgoing = &Outgoing{ID: req.ID, Error: err.Error()}
		}

		if err = h.writeMessage(outgoing); err != nil {
			return err
		}
	}
}

func (h *Handler) handleNewGame(ctx context.Context, data json.RawMessage) (models.GameView, error) {
	var req models.NewGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.GameView{}, fmt.Errorf("ws new game unmarshal error: %w", err)
	}

	if err := req.Validate(); err != nil {
		return models.GameView{}, err
	}

	return h.games.Create(ctx, req)
}

func (h *Handler) handleMove(ctx context.Context, data json.RawMessage) (models.GameView, error) {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.GameView{}, fmt.Errorf("ws move unmarshal error: %w", err)
	}

	move, err := game.ParseMove(req.MoveRequest)
	if err != nil {
		return models.GameView{}, err
	}

	return h.games.Apply(ctx, req.GameID, move)
}

func (h *Handler) handleState(data json.RawMessage) (models.GameView, error) {
	var req StateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.GameView{}, fmt.Errorf("ws state unmarshal error: %w", err)
	}

	return h.games.View(req.GameID)
}
