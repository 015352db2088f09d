package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandEnvelope(t *testing.T) {
	data, err := json.Marshal(Command(TypeDraw))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "draw"}`, string(data))

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"type":"stand"}`), &msg))
	assert.Equal(t, TypeStand, msg.Type)
	assert.True(t, msg.Type.IsCommand())
	assert.Error(t, msg.Decode(&struct{}{}))
}

func TestStateMessage(t *testing.T) {
	state := game.State{
		SessionID: "s1",
		Round:     2,
		Hand:      deck.MustParseCards("9c 9h 5s"),
		Score:     23,
		Status:    game.Lost,
		Remaining: 49,
	}

	msg, err := StateMessage(state)
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "state",
		"data": {
			"session_id": "s1",
			"round": 2,
			"hand": ["9c", "9h", "5s"],
			"score": 23,
			"status": "lost",
			"remaining": 49
		}
	}`, string(data))

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	var got game.State
	require.NoError(t, decoded.Decode(&got))
	assert.Equal(t, state, got)
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		sentinel error
	}{
		{"action", &game.ActionError{Action: game.ActionDraw, Status: game.Standing}, CodeInvalidAction, game.ErrInvalidAction},
		{"wrapped empty deck", fmt.Errorf("draw: %w", deck.ErrEmptyDeck), CodeEmptyDeck, deck.ErrEmptyDeck},
		{"other", errors.New("garbled frame"), CodeBadRequest, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ErrorMessage(tt.err)
			require.NoError(t, err)
			assert.Equal(t, TypeError, msg.Type)

			var data ErrorData
			require.NoError(t, msg.Decode(&data))
			assert.Equal(t, tt.code, data.Code)
			assert.Equal(t, tt.err.Error(), data.Message)
			assert.ErrorIs(t, &data, tt.sentinel)
		})
	}
}

func TestUnknownCodeUnwrapsToNil(t *testing.T) {
	err := &ErrorData{Code: "teapot", Message: "short and stout"}
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "teapot: short and stout", err.Error())
}

func TestCommandFor(t *testing.T) {
	for _, action := range []game.Action{game.ActionDraw, game.ActionStand, game.ActionRestart} {
		mt, ok := CommandFor(action)
		require.True(t, ok)
		assert.Equal(t, string(action), mt.String())
		assert.True(t, mt.IsCommand())
	}

	_, ok := CommandFor(game.Action("split"))
	assert.False(t, ok)
	assert.False(t, TypeError.IsCommand())
}
