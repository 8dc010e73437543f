package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// ErrMalformed marks a message that failed validation. Callers treat it as
// "no decision" and apply nothing.
var ErrMalformed = errors.New("protocol: malformed message")

const (
	MatrixWidth  = tetris.BoardWidth
	MatrixHeight = tetris.VisibleRows
)

// Request is the board state sent to an agent. Matrix is indexed [x][y]
// with y = 0 the bottom row.
type Request struct {
	Matrix  [MatrixWidth][MatrixHeight]bool `json:"matrix"`
	Queue   []int                           `json:"queue"`
	Current int                             `json:"current"`
	Hold    *int                            `json:"hold"`
}

// NewRequest captures the agent-visible state of g.
func NewRequest(g *tetris.Game) Request {
	req := Request{
		Matrix:  g.Board().Visible(),
		Current: WireID(g.Piece().Type),
	}
	queue := g.Queue()
	req.Queue = make([]int, len(queue))
	for i, t := range queue {
		req.Queue[i] = WireID(t)
	}
	if t, ok := g.Hold(); ok {
		id := WireID(t)
		req.Hold = &id
	}
	return req
}

// MarshalJSON keeps an empty queue as [] rather than null.
func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	if r.Queue == nil {
		r.Queue = []int{}
	}
	return json.Marshal(plain(r))
}

// CurrentPiece returns the active piece type.
func (r *Request) CurrentPiece() tetris.PieceType {
	t, _ := FromWireID(r.Current)
	return t
}

// HoldPiece returns the held piece type, if any.
func (r *Request) HoldPiece() (tetris.PieceType, bool) {
	if r.Hold == nil {
		return 0, false
	}
	return FromWireID(*r.Hold)
}

// QueuePieces returns the upcoming piece types.
func (r *Request) QueuePieces() []tetris.PieceType {
	out := make([]tetris.PieceType, 0, len(r.Queue))
	for _, id := range r.Queue {
		if t, ok := FromWireID(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// DecodeRequest parses and validates a request. Every key must be present
// with the right shape; extra keys are ignored.
func DecodeRequest(data []byte) (*Request, error) {
	fields, err := decodeObject(data, "matrix", "queue", "current", "hold")
	if err != nil {
		return nil, err
	}

	var req Request

	// Pointer elements tell a null apart from false or 0.
	var matrix [][]*bool
	if err := decodeNonNull(fields["matrix"], &matrix); err != nil {
		return nil, fieldError("matrix", err)
	}
	if len(matrix) != MatrixWidth {
		return nil, fmt.Errorf("%w: matrix has %d columns, expected %d", ErrMalformed, len(matrix), MatrixWidth)
	}
	for x, col := range matrix {
		if len(col) != MatrixHeight {
			return nil, fmt.Errorf("%w: matrix column %d has %d rows, expected %d", ErrMalformed, x, len(col), MatrixHeight)
		}
		for y, cell := range col {
			if cell == nil {
				return nil, fmt.Errorf("%w: matrix[%d][%d] is null", ErrMalformed, x, y)
			}
			req.Matrix[x][y] = *cell
		}
	}

	var queue []*int
	if err := decodeNonNull(fields["queue"], &queue); err != nil {
		return nil, fieldError("queue", err)
	}
	req.Queue = make([]int, len(queue))
	for i, id := range queue {
		if id == nil {
			return nil, fmt.Errorf("%w: queue[%d] is null", ErrMalformed, i)
		}
		if _, ok := FromWireID(*id); !ok {
			return nil, fmt.Errorf("%w: queue[%d] = %d is not a piece", ErrMalformed, i, *id)
		}
		req.Queue[i] = *id
	}

	if err := decodeNonNull(fields["current"], &req.Current); err != nil {
		return nil, fieldError("current", err)
	}
	if _, ok := FromWireID(req.Current); !ok {
		return nil, fmt.Errorf("%w: current = %d is not a piece", ErrMalformed, req.Current)
	}

	if !isNull(fields["hold"]) {
		var hold int
		if err := json.Unmarshal(fields["hold"], &hold); err != nil {
			return nil, fieldError("hold", err)
		}
		if _, ok := FromWireID(hold); !ok {
			return nil, fmt.Errorf("%w: hold = %d is not a piece", ErrMalformed, hold)
		}
		req.Hold = &hold
	}
	return &req, nil
}

// decodeObject splits a JSON object into raw fields and checks that every
// required key is present.
func decodeObject(data []byte, required ...string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformed)
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformed, key)
		}
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeNonNull(raw json.RawMessage, v any) error {
	if isNull(raw) {
		return errors.New("must not be null")
	}
	return json.Unmarshal(raw, v)
}

func fieldError(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, err)
}
