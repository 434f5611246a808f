package bus

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Message types consumed from and produced to the host bus.
const (
	TypeIntent = "applauncher.intent"
	TypeAnswer = "applauncher.answer"
	TypeDialog = "applauncher.dialog"
	TypeAsk    = "applauncher.ask"
	TypeAck    = "applauncher.ack"
)

// Envelope is the bus wire format: a type tag and a free-form payload.
type Envelope struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Intent is a segmented utterance delivered by the host NLU front end.
type Intent struct {
	Action      string `json:"action"` // "launch" or "close"
	Application string `json:"application"`
	Lang        string `json:"lang"`
}

// Answer is the user's reply to a pending yes/no question.
type Answer struct {
	Session string `json:"session"`
	Answer  string `json:"answer"` // "yes", "no", or anything else
}

// Encode marshals an envelope for the wire.
func Encode(envelope Envelope) ([]byte, error) {
	return sonic.Marshal(envelope)
}

// Decode unmarshals a wire frame into an envelope.
func Decode(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := sonic.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("malformed bus envelope: %w", err)
	}
	return envelope, nil
}

// DecodeIntent extracts an Intent from an envelope payload.
func DecodeIntent(envelope Envelope) (Intent, error) {
	return decodeData[Intent](envelope)
}

// DecodeAnswer extracts an Answer from an envelope payload.
func DecodeAnswer(envelope Envelope) (Answer, error) {
	return decodeData[Answer](envelope)
}

func decodeData[T any](envelope Envelope) (T, error) {
	var out T
	raw, err := sonic.Marshal(envelope.Data)
	if err != nil {
		return out, err
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("malformed %s payload: %w", envelope.Type, err)
	}
	return out, nil
}
