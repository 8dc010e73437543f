package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func TestWireIDsRoundTrip(t *testing.T) {
	seen := map[int]bool{}
	for _, pt := range tetris.AllPieceTypes {
		id := WireID(pt)
		assert.False(t, seen[id], "duplicate wire id %d", id)
		seen[id] = true
		back, ok := FromWireID(id)
		require.True(t, ok)
		assert.Equal(t, pt, back)
	}
	_, ok := FromWireID(7)
	assert.False(t, ok)
	_, ok = FromWireID(-1)
	assert.False(t, ok)
}

func TestNewRequest(t *testing.T) {
	g := tetris.NewGame()
	g.Start(42)
	g.Board().Set(0, 0, tetris.TileGarbage)
	g.Board().Set(9, 19, tetris.TileGarbage)
	g.Board().Set(9, 20, tetris.TileGarbage)

	req := NewRequest(g)
	assert.True(t, req.Matrix[0][0])
	assert.True(t, req.Matrix[9][19])
	assert.False(t, req.Matrix[1][0])
	assert.Equal(t, WireID(g.Piece().Type), req.Current)
	assert.Nil(t, req.Hold)
	require.Len(t, req.Queue, tetris.QueueLength)
	for i, pt := range g.Queue() {
		assert.Equal(t, WireID(pt), req.Queue[i])
	}

	g.SwapHold()
	req = NewRequest(g)
	require.NotNil(t, req.Hold)
	held, _ := g.Hold()
	assert.Equal(t, WireID(held), *req.Hold)
}

func TestRequestJSONRoundTrip(t *testing.T) {
	g := tetris.NewGame()
	g.Start(9)
	g.SwapHold()
	g.Board().AddGarbage(2, 3)

	data, err := json.Marshal(NewRequest(g))
	require.NoError(t, err)

	decoded, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, NewRequest(g), *decoded)
	assert.Equal(t, g.Queue(), decoded.QueuePieces())
}

func TestDecodeRequestRejects(t *testing.T) {
	row := `[false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false]`
	matrix := "[" + row
	for i := 1; i < 10; i++ {
		matrix += "," + row
	}
	matrix += "]"
	nullCell := "[" + strings.Replace(row, "false", "null", 1) + strings.Repeat(","+row, 9) + "]"

	tests := []struct {
		name string
		body string
	}{
		{"null", `null`},
		{"array", `[]`},
		{"missing hold", `{"matrix":` + matrix + `,"queue":[],"current":0}`},
		{"short matrix", `{"matrix":[` + row + `],"queue":[],"current":0,"hold":null}`},
		{"non-bool cell", `{"matrix":[[1]],"queue":[],"current":0,"hold":null}`},
		{"current out of range", `{"matrix":` + matrix + `,"queue":[],"current":7,"hold":null}`},
		{"fractional current", `{"matrix":` + matrix + `,"queue":[],"current":1.5,"hold":null}`},
		{"queue null", `{"matrix":` + matrix + `,"queue":null,"current":0,"hold":null}`},
		{"queue bad id", `{"matrix":` + matrix + `,"queue":[0,9],"current":0,"hold":null}`},
		{"hold string", `{"matrix":` + matrix + `,"queue":[],"current":0,"hold":"T"}`},
		{"queue null element", `{"matrix":` + matrix + `,"queue":[null,1],"current":0,"hold":null}`},
		{"matrix null cell", `{"matrix":` + nullCell + `,"queue":[],"current":0,"hold":null}`},
		{"matrix null column", `{"matrix":[null` + strings.Repeat(","+row, 9) + `],"queue":[],"current":0,"hold":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			assert.Nil(t, req)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	ok := `{"matrix":` + matrix + `,"queue":[1,2],"current":6,"hold":3,"extra":true}`
	req, err := DecodeRequest([]byte(ok))
	require.NoError(t, err)
	assert.Equal(t, tetris.PieceZ, req.CurrentPiece())
	held, hasHold := req.HoldPiece()
	assert.True(t, hasHold)
	assert.Equal(t, tetris.PieceL, held)
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"moves":["hold","rotateLeft","shiftRight","hardDrop"],"score":1.5}`))
	require.NoError(t, err)
	assert.Equal(t, []Move{MoveHold, MoveRotateLeft, MoveShiftRight, MoveHardDrop}, resp.Moves)
	require.NotNil(t, resp.Score)
	assert.InDelta(t, 1.5, *resp.Score, 1e-9)
	assert.Equal(t, []tetris.Action{
		tetris.ActionHold, tetris.ActionRotateCCW, tetris.ActionShiftRight, tetris.ActionHardDrop,
	}, resp.Actions())

	resp, err = DecodeResponse([]byte(`{"moves":[],"score":null}`))
	require.NoError(t, err)
	assert.Empty(t, resp.Moves)
	assert.Nil(t, resp.Score)
}

func TestDecodeResponseRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `hardDrop`},
		{"null", `null`},
		{"missing score", `{"moves":["hardDrop"]}`},
		{"missing moves", `{"score":1}`},
		{"moves null", `{"moves":null,"score":1}`},
		{"moves null element", `{"moves":[null,"hardDrop"],"score":1}`},
		{"unknown move", `{"moves":["hardDrop","teleport"],"score":1}`},
		{"kebab move", `{"moves":["hard-drop"],"score":1}`},
		{"move not string", `{"moves":[3],"score":1}`},
		{"score string", `{"moves":[],"score":"high"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeResponse([]byte(tt.body))
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestResponseMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(Response{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"moves":[],"score":null}`, string(data))
}

func TestMoveFor(t *testing.T) {
	for _, m := range AllMoves {
		a, ok := m.Action()
		require.True(t, ok)
		back, ok := MoveFor(a)
		require.True(t, ok)
		assert.Equal(t, m, back)
	}
	_, ok := MoveFor(tetris.ActionShiftDown)
	assert.False(t, ok)
}

func TestWorkerMessagesJSON(t *testing.T) {
	data, err := json.Marshal(WorkerResponse{
		Type:    TypeEvaluate,
		ID:      3,
		Success: true,
		Actions: []tetris.Action{tetris.ActionRotateCW, tetris.ActionHardDrop},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"evaluate","id":3,"success":true,"actions":["rotate-cw","hard-drop"]}`, string(data))

	var back WorkerResponse
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []tetris.Action{tetris.ActionRotateCW, tetris.ActionHardDrop}, back.Actions)
}
