package ws

import (
	"encoding/json"

	"github.com/lk16/sweepmines/internal/models"
)

const (
	EventNewGame = "new_game"
	EventMove    = "move"
	EventState   = "state"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Outgoing answers the Incoming message with the same ID. Either Data or Error is set.
type Outgoing struct {
	ID    int    `json:"id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type MoveRequest struct {
	GameID string `json:"game_id"`
	models.MoveRequest
}

type StateRequest struct {
	GameID string `json:"game_id"`
}
