package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

// ClientConfig bounds every remote invocation. The timeout covers the card
// fetch and the message exchange together.
type ClientConfig struct {
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client turns a (user, prompt) pair plus a target address into a single
// textual reply, hiding the envelope protocol. It holds no per-session
// state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

var _ contractx.Invoker = (*Client)(nil)

// Invoke resolves the agent card at address, posts one request envelope to
// the card's endpoint, and returns the first text segment of the result.
func (c *Client) Invoke(ctx context.Context, address, user, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	card, err := c.fetchCard(ctx, address)
	if err != nil {
		return "", err
	}

	log.Debug().Str("agent", card.Name).Str("url", card.URL).Msg("invoking remote agent")

	payload, err := Payload{User: user, Prompt: prompt}.Encode()
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrRemoteMalformed, err)
	}

	req := SendRequest{
		ID: uuid.NewString(),
		Message: RequestMessage{
			Role:      "user",
			Content:   []Part{{Kind: PartKindText, Text: payload}},
			MessageID: uuid.NewString(),
		},
	}

	resp, err := c.sendMessage(ctx, card.URL, req)
	if err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", fmt.Errorf("%w: remote error: %s", contractx.ErrRemoteMalformed, resp.Error)
	}
	if resp.ID != req.ID {
		return "", fmt.Errorf("%w: correlation id mismatch: sent %s, got %s",
			contractx.ErrRemoteMalformed, req.ID, resp.ID)
	}

	text, ok := resp.FirstText()
	if !ok {
		return "", fmt.Errorf("%w: result carries no text part", contractx.ErrRemoteMalformed)
	}
	return text, nil
}

func (c *Client) fetchCard(ctx context.Context, address string) (*Card, error) {
	cardURL := strings.TrimRight(strings.TrimSpace(address), "/") + CardPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build card request: %v", contractx.ErrRemoteUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, translateTransportError(err, "fetch agent card")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read card response: %v", contractx.ErrRemoteMalformed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: card fetch status=%d", contractx.ErrRemoteUnavailable, resp.StatusCode)
	}

	var card Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("%w: decode agent card: %v", contractx.ErrRemoteMalformed, err)
	}
	if strings.TrimSpace(card.URL) == "" {
		return nil, fmt.Errorf("%w: agent card has no endpoint url", contractx.ErrRemoteMalformed)
	}
	return &card, nil
}

func (c *Client) sendMessage(ctx context.Context, endpoint string, env SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal envelope: %v", contractx.ErrRemoteMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build message request: %v", contractx.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, translateTransportError(err, "send message")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read message response: %v", contractx.ErrRemoteMalformed, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: message status=%d body=%s",
			contractx.ErrRemoteMalformed, resp.StatusCode, string(raw))
	}

	var parsed SendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response envelope: %v", contractx.ErrRemoteMalformed, err)
	}
	return &parsed, nil
}

func translateTransportError(err error, op string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %s: %v", contractx.ErrRemoteTimeout, op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", contractx.ErrRemoteTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", contractx.ErrRemoteUnavailable, op, err)
}
