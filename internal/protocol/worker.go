package protocol

import "github.com/vovakirdan/tui-tetris/internal/tetris"

// Worker message types.
const (
	TypeReady    = "ready"
	TypeEvaluate = "evaluate"
)

// WorkerRequest asks a worker to evaluate a position with the named agent.
type WorkerRequest struct {
	Type string  `json:"type"`
	ID   int64   `json:"id"`
	AI   string  `json:"ai"`
	Game Request `json:"game"`
}

// NewEvaluate builds an evaluate request for g.
func NewEvaluate(id int64, ai string, g *tetris.Game) WorkerRequest {
	return WorkerRequest{Type: TypeEvaluate, ID: id, AI: ai, Game: NewRequest(g)}
}

// WorkerResponse is either a ready signal or the answer to one evaluate
// request. Actions hold engine action names.
type WorkerResponse struct {
	Type    string          `json:"type"`
	ID      int64           `json:"id,omitempty"`
	Success bool            `json:"success,omitempty"`
	Actions []tetris.Action `json:"actions,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Ready returns the message a worker posts once it can accept requests.
func Ready() WorkerResponse {
	return WorkerResponse{Type: TypeReady}
}
