package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

// fakeAgent serves a card pointing back at itself and answers every
// message with a fixed reply, recording what it received.
type fakeAgent struct {
	t        *testing.T
	reply    string
	delay    time.Duration
	received []SendRequest

	server *httptest.Server
}

func newFakeAgent(t *testing.T, reply string, delay time.Duration) *fakeAgent {
	t.Helper()

	f := &fakeAgent{t: t, reply: reply, delay: delay}
	mux := http.NewServeMux()
	mux.HandleFunc(CardPath, func(w http.ResponseWriter, r *http.Request) {
		card := Card{
			Name:         "Fake Agent",
			Description:  "test fixture",
			URL:          f.server.URL + "/",
			Version:      "1.0.0",
			Capabilities: Capabilities{Streaming: true},
		}
		_ = json.NewEncoder(w).Encode(card)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		var env SendRequest
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Errorf("decode envelope: %v", err)
			return
		}
		f.received = append(f.received, env)
		_ = json.NewEncoder(w).Encode(SendResponse{
			ID:     env.ID,
			Result: &Result{Parts: []Part{{Kind: PartKindText, Text: f.reply}}},
		})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func TestInvokeReturnsFirstTextPart(t *testing.T) {
	t.Parallel()

	agent := newFakeAgent(t, "remote work is allowed twice a week", 0)
	client := NewClient(ClientConfig{Timeout: 2 * time.Second})

	got, err := client.Invoke(context.Background(), agent.server.URL, "Alice", "What is the remote work policy?")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "remote work is allowed twice a week" {
		t.Fatalf("unexpected reply: %q", got)
	}

	if len(agent.received) != 1 {
		t.Fatalf("expected 1 envelope, got %d", len(agent.received))
	}
	env := agent.received[0]
	if env.ID == "" || env.Message.MessageID == "" {
		t.Fatalf("missing correlation ids: %#v", env)
	}
	if len(env.Message.Content) != 1 || env.Message.Content[0].Kind != PartKindText {
		t.Fatalf("unexpected content parts: %#v", env.Message.Content)
	}

	payload, err := DecodePayload(env.Message.Content[0].Text)
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if payload.User != "Alice" || payload.Prompt != "What is the remote work policy?" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestInvokeTimeoutAgainstDelayedResponder(t *testing.T) {
	t.Parallel()

	agent := newFakeAgent(t, "too late", 250*time.Millisecond)
	client := NewClient(ClientConfig{Timeout: 50 * time.Millisecond})

	_, err := client.Invoke(context.Background(), agent.server.URL, "Alice", "anything")
	if !errors.Is(err, contractx.ErrRemoteTimeout) {
		t.Fatalf("expected ErrRemoteTimeout, got %v", err)
	}
}

func TestInvokeUnavailableAddress(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	client := NewClient(ClientConfig{Timeout: time.Second})
	_, err := client.Invoke(context.Background(), dead.URL, "Alice", "anything")
	if !errors.Is(err, contractx.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestInvokeMalformedResponses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		message http.HandlerFunc
	}{
		{
			name: "garbage body",
			message: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "no text part",
			message: func(w http.ResponseWriter, r *http.Request) {
				var env SendRequest
				_ = json.NewDecoder(r.Body).Decode(&env)
				_ = json.NewEncoder(w).Encode(SendResponse{ID: env.ID, Result: &Result{}})
			},
		},
		{
			name: "correlation id mismatch",
			message: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(SendResponse{
					ID:     "someone-else",
					Result: &Result{Parts: []Part{{Kind: PartKindText, Text: "hi"}}},
				})
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var serverURL string
			mux := http.NewServeMux()
			mux.HandleFunc(CardPath, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(Card{Name: "Broken", URL: serverURL + "/"})
			})
			mux.HandleFunc("/", tc.message)
			server := httptest.NewServer(mux)
			defer server.Close()
			serverURL = server.URL

			client := NewClient(ClientConfig{Timeout: time.Second})
			_, err := client.Invoke(context.Background(), server.URL, "Alice", "anything")
			if !errors.Is(err, contractx.ErrRemoteMalformed) {
				t.Fatalf("expected ErrRemoteMalformed, got %v", err)
			}
		})
	}
}

func TestInvokeRejectsCardWithoutEndpoint(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(CardPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Card{Name: "No Endpoint"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: time.Second})
	_, err := client.Invoke(context.Background(), server.URL, "Alice", "anything")
	if !errors.Is(err, contractx.ErrRemoteMalformed) {
		t.Fatalf("expected ErrRemoteMalformed, got %v", err)
	}
}
