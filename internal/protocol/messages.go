// Package protocol defines the JSON messages exchanged between a remote
// player and the session server over WebSocket.
//
// Every message is an envelope {"type": ..., "data": ...}. The client sends
// commands (draw, stand, restart, state) with no data; the server answers
// each command with exactly one state or error message, in order.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeDraw    MessageType = "draw"
	TypeStand   MessageType = "stand"
	TypeRestart MessageType = "restart"

	// Both directions: a state request from the client, a snapshot from the server
	TypeState MessageType = "state"

	// Server -> Client
	TypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// IsCommand reports whether a client may send the type
func (mt MessageType) IsCommand() bool {
	switch mt {
	case TypeDraw, TypeStand, TypeRestart, TypeState:
		return true
	}
	return false
}

// CommandFor maps a game action to its command type
func CommandFor(action game.Action) (MessageType, bool) {
	switch action {
	case game.ActionDraw:
		return TypeDraw, true
	case game.ActionStand:
		return TypeStand, true
	case game.ActionRestart:
		return TypeRestart, true
	}
	return "", false
}

// Message is the envelope for every frame
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a message with data encoded as JSON
func NewMessage(messageType MessageType, data any) (*Message, error) {
	if data == nil {
		return &Message{Type: messageType}, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", messageType, err)
	}
	return &Message{Type: messageType, Data: dataBytes}, nil
}

// Command creates a client command with no data
func Command(messageType MessageType) *Message {
	return &Message{Type: messageType}
}

// StateMessage wraps a state snapshot
func StateMessage(state game.State) (*Message, error) {
	return NewMessage(TypeState, state)
}

// ErrorMessage wraps an error, classifying it by code
func ErrorMessage(err error) (*Message, error) {
	return NewMessage(TypeError, ErrorFor(err))
}

// Decode unmarshals the message data into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s message has no data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s data: %w", m.Type, err)
	}
	return nil
}

// Error codes
const (
	CodeInvalidAction = "invalid_action"
	CodeEmptyDeck     = "empty_deck"
	CodeBadRequest    = "bad_request"
)

// ErrBadRequest marks a message the server could not understand
var ErrBadRequest = errors.New("bad request")

// ErrorData is the payload of an error message. It implements error and
// unwraps to the matching sentinel so callers can use errors.Is across the
// wire.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorData) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ErrorData) Unwrap() error {
	switch e.Code {
	case CodeInvalidAction:
		return game.ErrInvalidAction
	case CodeEmptyDeck:
		return deck.ErrEmptyDeck
	case CodeBadRequest:
		return ErrBadRequest
	}
	return nil
}

// ErrorFor classifies err into an error payload
func ErrorFor(err error) *ErrorData {
	code := CodeBadRequest
	switch {
	case errors.Is(err, game.ErrInvalidAction):
		code = CodeInvalidAction
	case errors.Is(err, deck.ErrEmptyDeck):
		code = CodeEmptyDeck
	}
	return &ErrorData{Code: code, Message: err.Error()}
}
