package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

type fakeExecutor struct {
	reply      string
	err        error
	lastUser   string
	lastPrompt string
}

func (f *fakeExecutor) Execute(ctx context.Context, user, prompt string) (string, error) {
	f.lastUser = user
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeExecutor) Cancel(ctx context.Context, requestID string) error {
	return contractx.ErrCancelUnsupported
}

func testCard(url string) Card {
	return Card{
		Name:         "HR Timeoff Agent",
		Description:  "Performs timeoff operations.",
		URL:          url,
		Version:      "1.0.0",
		Capabilities: Capabilities{Streaming: true},
		Skills: []Skill{
			{
				ID:          "TimeoffSkill",
				Name:        "Timeoff Agent Skills",
				Description: "Performs timeoff operations.",
				Examples:    []string{"What is my timeoff balance?"},
			},
		},
	}
}

func postEnvelope(t *testing.T, server *httptest.Server, env SendRequest) (*http.Response, SendResponse) {
	t.Helper()

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	resp, err := http.Post(server.URL+"/", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post envelope: %v", err)
	}
	defer resp.Body.Close()

	var parsed SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, parsed
}

func newEnvelope(t *testing.T, id, user, prompt string) SendRequest {
	t.Helper()

	text, err := Payload{User: user, Prompt: prompt}.Encode()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return SendRequest{
		ID: id,
		Message: RequestMessage{
			Role:      "user",
			Content:   []Part{{Kind: PartKindText, Text: text}},
			MessageID: "msg-1",
		},
	}
}

func TestServerPublishesCard(t *testing.T) {
	t.Parallel()

	srv := NewServer(testCard("http://localhost:9002/"), &fakeExecutor{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + CardPath)
	if err != nil {
		t.Fatalf("get card: %v", err)
	}
	defer resp.Body.Close()

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if card.Name != "HR Timeoff Agent" {
		t.Fatalf("unexpected card name: %s", card.Name)
	}
	if !card.Capabilities.Streaming {
		t.Fatal("card must advertise streaming")
	}
	if len(card.Skills) != 1 || card.Skills[0].ID != "TimeoffSkill" {
		t.Fatalf("unexpected skills: %#v", card.Skills)
	}
}

func TestServerEchoesCorrelationID(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{reply: "Your balance is 15 days."}
	srv := NewServer(testCard(""), exec)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, parsed := postEnvelope(t, ts, newEnvelope(t, "req-42", "Alice", "What is my balance?"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if parsed.ID != "req-42" {
		t.Fatalf("correlation id not echoed: %q", parsed.ID)
	}
	text, ok := parsed.FirstText()
	if !ok || text != "Your balance is 15 days." {
		t.Fatalf("unexpected result text: %q ok=%v", text, ok)
	}
	if exec.lastUser != "Alice" || exec.lastPrompt != "What is my balance?" {
		t.Fatalf("executor got wrong payload: user=%q prompt=%q", exec.lastUser, exec.lastPrompt)
	}
}

func TestServerDegradedReplyOnLeakedExecutorError(t *testing.T) {
	t.Parallel()

	srv := NewServer(testCard(""), &fakeExecutor{err: errors.New("boom")})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, parsed := postEnvelope(t, ts, newEnvelope(t, "req-1", "Alice", "anything"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	text, ok := parsed.FirstText()
	if !ok || text != degradedReply {
		t.Fatalf("expected degraded reply, got %q", text)
	}
}

func TestServerRejectsEnvelopeWithoutTextPart(t *testing.T) {
	t.Parallel()

	srv := NewServer(testCard(""), &fakeExecutor{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, parsed := postEnvelope(t, ts, SendRequest{ID: "req-2"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if parsed.Error == "" {
		t.Fatal("expected error body")
	}
}

func TestServerCancelIsHardError(t *testing.T) {
	t.Parallel()

	srv := NewServer(testCard(""), &fakeExecutor{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, _ := json.Marshal(SendRequest{ID: "req-3"})
	resp, err := http.Post(ts.URL+"/cancel", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post cancel: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.StatusCode)
	}
	var parsed SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode cancel response: %v", err)
	}
	if parsed.Error != contractx.ErrCancelUnsupported.Error() {
		t.Fatalf("unexpected cancel error: %q", parsed.Error)
	}
}
