// Package policy adapts the retrieval+answer capability to the uniform
// specialist execute contract.
package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

const (
	retrieveTopK = 3

	failureReply  = "Sorry, I could not look up the HR policies right now. Please try again later."
	noMatchReply  = "I could not find anything in the HR policies about that. Please contact your HR representative."
	emptyPromptRe = "Please tell me which HR policy you would like to know about."
)

// Agent answers HR policy questions by retrieving evidence chunks and
// asking the answer capability to compose a reply. Execute absorbs every
// internal failure into a readable text answer; the transport layer never
// sees an error from it.
type Agent struct {
	retriever contractx.Retriever
	answerer  contractx.Answerer
}

func New(retriever contractx.Retriever, answerer contractx.Answerer) (*Agent, error) {
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever is required", contractx.ErrValidation)
	}
	if answerer == nil {
		return nil, fmt.Errorf("%w: answerer is required", contractx.ErrValidation)
	}
	return &Agent{retriever: retriever, answerer: answerer}, nil
}

var _ contractx.Executor = (*Agent)(nil)

func (a *Agent) Execute(ctx context.Context, user, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return emptyPromptRe, nil
	}

	chunks, err := a.retriever.Retrieve(ctx, prompt, retrieveTopK)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("policy retrieval failed")
		return failureReply, nil
	}
	if len(chunks) == 0 {
		return noMatchReply, nil
	}

	answer, err := a.answerer.Answer(ctx, prompt, chunks)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("policy answer failed")
		return failureReply, nil
	}
	return answer, nil
}

func (a *Agent) Cancel(ctx context.Context, requestID string) error {
	return fmt.Errorf("%w: policy agent request %s", contractx.ErrCancelUnsupported, requestID)
}
