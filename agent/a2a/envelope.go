// Package a2a implements the agent-to-agent remote invocation protocol:
// JSON envelopes over HTTP, with a published agent card for discovery. The
// protocol is strictly request/response; the streaming capability on the
// card is advertised but never exercised.
package a2a

import (
	"encoding/json"
	"fmt"
)

const (
	PartKindText = "text"

	// CardPath is the well-known location of the agent card.
	CardPath = "/.well-known/agent.json"
)

// Part is one segment of an envelope payload. Only text parts are defined.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// RequestMessage carries the serialized {user, prompt} payload as a single
// text part.
type RequestMessage struct {
	Role      string `json:"role"`
	Content   []Part `json:"content"`
	MessageID string `json:"messageId"`
}

// SendRequest is the request envelope. The id is an opaque correlation
// token that must round-trip unchanged in the immediate response.
type SendRequest struct {
	ID      string         `json:"id"`
	Message RequestMessage `json:"message"`
}

// Result holds the reply payload; the caller only ever reads the first
// text part.
type Result struct {
	Parts []Part `json:"parts"`
}

// SendResponse is the response envelope.
type SendResponse struct {
	ID     string  `json:"id"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// FirstText returns the text of the first text part of the result.
func (r *SendResponse) FirstText() (string, bool) {
	if r == nil || r.Result == nil {
		return "", false
	}
	for _, p := range r.Result.Parts {
		if p.Kind == PartKindText {
			return p.Text, true
		}
	}
	return "", false
}

// Payload is the {user, prompt} pair serialized into the text part of a
// request envelope.
type Payload struct {
	User   string `json:"user"`
	Prompt string `json:"prompt"`
}

func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(raw), nil
}

func DecodePayload(text string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return p, nil
}
