// Package timeoff adapts the time-off ledger to the uniform specialist
// execute contract through a bounded tool-augmented reasoning loop.
package timeoff

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	ledgerx "github.com/tanpawarit/hr-agent-mesh/agent/ledger"
)

const (
	// maxPlanHops bounds the plan-execute cycle; the two-tool surface
	// never needs more than a couple of rounds.
	maxPlanHops = 4

	failureReply = "Sorry, I could not complete the timeoff operation right now. Please try again later."
	noAnswerRe   = "I could not work out how to handle that timeoff request. Please rephrase it."
)

// Agent runs the planner against the two ledger tools until it produces a
// final answer. Execute absorbs every internal failure into a readable
// text answer; the transport layer never sees an error from it.
type Agent struct {
	store   ledgerx.Store
	planner contractx.ToolPlanner
}

func New(store ledgerx.Store, planner contractx.ToolPlanner) (*Agent, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: ledger store is required", contractx.ErrValidation)
	}
	if planner == nil {
		return nil, fmt.Errorf("%w: tool planner is required", contractx.ErrValidation)
	}
	return &Agent{store: store, planner: planner}, nil
}

var _ contractx.Executor = (*Agent)(nil)

func (a *Agent) Execute(ctx context.Context, user, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "Please tell me what timeoff operation you need.", nil
	}

	var results []contractx.ToolResult
	for hop := 0; hop < maxPlanHops; hop++ {
		step, err := a.planner.Plan(ctx, contractx.PlanRequest{
			User:        user,
			Prompt:      prompt,
			ToolResults: results,
		})
		if err != nil {
			log.Error().Err(err).Str("user", user).Int("hop", hop).Msg("timeoff planning failed")
			return failureReply, nil
		}

		if step.Answer != "" {
			return step.Answer, nil
		}
		if len(step.ToolRequests) == 0 {
			return noAnswerRe, nil
		}

		for _, req := range step.ToolRequests {
			result, err := executeTool(ctx, a.store, req)
			if err != nil {
				log.Error().Err(err).Str("tool", req.Tool).Msg("ledger tool failed")
				return failureReply, nil
			}
			results = append(results, result)
		}
	}

	log.Warn().Str("user", user).Msg("timeoff planner exhausted its hop budget")
	return noAnswerRe, nil
}

func (a *Agent) Cancel(ctx context.Context, requestID string) error {
	return fmt.Errorf("%w: timeoff agent request %s", contractx.ErrCancelUnsupported, requestID)
}
