package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Response is an agent's decision: moves to apply in order and an
// optional evaluation score.
type Response struct {
	Moves []Move   `json:"moves"`
	Score *float64 `json:"score"`
}

// MarshalJSON keeps an empty move list as [] rather than null.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	if r.Moves == nil {
		r.Moves = []Move{}
	}
	return json.Marshal(plain(r))
}

// Actions translates the moves into engine actions.
func (r *Response) Actions() []tetris.Action {
	out := make([]tetris.Action, 0, len(r.Moves))
	for _, m := range r.Moves {
		if a, ok := m.Action(); ok {
			out = append(out, a)
		}
	}
	return out
}

// DecodeResponse parses and validates an agent response. Any invalid field
// rejects the whole response.
func DecodeResponse(data []byte) (*Response, error) {
	fields, err := decodeObject(data, "moves", "score")
	if err != nil {
		return nil, err
	}

	var names []string
	if err := decodeNonNull(fields["moves"], &names); err != nil {
		return nil, fieldError("moves", err)
	}
	resp := &Response{Moves: make([]Move, 0, len(names))}
	for i, name := range names {
		m, err := ParseMove(name)
		if err != nil {
			return nil, fmt.Errorf("moves[%d]: %w", i, err)
		}
		resp.Moves = append(resp.Moves, m)
	}

	if !isNull(fields["score"]) {
		var score float64
		if err := json.Unmarshal(fields["score"], &score); err != nil {
			return nil, fieldError("score", err)
		}
		resp.Score = &score
	}
	return resp, nil
}
