// Package router classifies incoming requests and dispatches them to the
// matching specialist over the agent mesh.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

const (
	// RefusalReply answers requests outside the supported capabilities.
	RefusalReply = "Sorry, I cannot help you with this request. I only support HR policy queries and timeoff requests. Please contact your HR representative for assistance."

	// ApologyReply answers sessions where classification or dispatch broke
	// down. The session still completes normally.
	ApologyReply = "Sorry, something went wrong"
)

var (
	ErrEmptyHistory  = errors.New("router: conversation history is empty")
	ErrNoUserMessage = errors.New("router: conversation history has no user message")
)

// Config points the router at its specialists.
type Config struct {
	PolicyAddress  string `envconfig:"POLICY_AGENT_ADDRESS" default:"http://localhost:9001"`
	TimeoffAddress string `envconfig:"TIMEOFF_AGENT_ADDRESS" default:"http://localhost:9002"`
}

type GraphInput struct {
	History contractx.History
	User    string
}

type GraphOutput struct {
	History contractx.History
}

// Router owns the classify-then-dispatch graph. It holds no per-session
// state; concurrent Route calls never observe each other.
type Router struct {
	classifier     contractx.Classifier
	invoker        contractx.Invoker
	policyAddress  string
	timeoffAddress string

	runner compose.Runnable[GraphInput, GraphOutput]
}

func New(ctx context.Context, cfg Config, classifier contractx.Classifier, invoker contractx.Invoker) (*Router, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is required", contractx.ErrValidation)
	}
	if invoker == nil {
		return nil, fmt.Errorf("%w: invoker is required", contractx.ErrValidation)
	}
	if cfg.PolicyAddress == "" || cfg.TimeoffAddress == "" {
		return nil, fmt.Errorf("%w: specialist addresses are required", contractx.ErrValidation)
	}

	r := &Router{
		classifier:     classifier,
		invoker:        invoker,
		policyAddress:  cfg.PolicyAddress,
		timeoffAddress: cfg.TimeoffAddress,
	}

	runner, err := r.compileRouteGraph(ctx)
	if err != nil {
		return nil, err
	}
	r.runner = runner
	return r, nil
}

// Route runs one request through the graph and returns the history with
// exactly one assistant reply appended. It only fails on structurally
// invalid input; every downstream failure degrades into a text reply.
func (r *Router) Route(ctx context.Context, history contractx.History, user string) (contractx.History, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	if _, ok := history.LastUserMessage(); !ok {
		return nil, ErrNoUserMessage
	}

	out, err := r.runner.Invoke(ctx, GraphInput{History: history, User: user})
	if err != nil {
		return nil, fmt.Errorf("route request for %s: %w", user, err)
	}
	return out.History, nil
}
