// Package llm provides the eino-backed implementations of the opaque model
// capabilities: routing classification, policy answering, and the default
// tool-planning strategy for the timeoff agent.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

/* ------------------------------ Classifier ------------------------------ */

type classifierImpl struct {
	chatModel    einomodel.BaseChatModel
	systemPrompt string
}

// NewClassifier wraps a chat model as the routing classifier. The system
// prompt enumerates the route labels and mandates a single-token reply; the
// raw text is returned untrusted for the router to canonicalize.
func NewClassifier(chatModel einomodel.BaseChatModel, systemPrompt string) contractx.Classifier {
	return &classifierImpl{chatModel: chatModel, systemPrompt: systemPrompt}
}

func (c *classifierImpl) Classify(ctx context.Context, history contractx.History) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: history is empty", contractx.ErrValidation)
	}

	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(c.systemPrompt))
	for _, m := range history {
		switch m.Role {
		case contractx.RoleUser:
			messages = append(messages, schema.UserMessage(m.Content))
		case contractx.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(m.Content, nil))
		case contractx.RoleSystem:
			messages = append(messages, schema.SystemMessage(m.Content))
		}
	}

	out, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: classify: %v", contractx.ErrModelInvoke, err)
	}
	if out == nil {
		return "", fmt.Errorf("%w: classifier returned nil message", contractx.ErrModelInvoke)
	}
	return out.Content, nil
}

/* ------------------------------- Answerer ------------------------------- */

type answererImpl struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

// NewAnswerer compiles a prompt->model graph that answers a query from
// retrieved evidence chunks. The template must reference {input} and
// {evidence}.
func NewAnswerer(ctx context.Context, chatModel einomodel.BaseChatModel, template string) (contractx.Answerer, error) {
	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(template),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", tpl); err != nil {
		return nil, fmt.Errorf("add answer prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add answer model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add answer edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add answer edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add answer edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("policy.answer_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile answer graph: %w", err)
	}
	return &answererImpl{runner: runner}, nil
}

func (a *answererImpl) Answer(ctx context.Context, query string, chunks []string) (string, error) {
	out, err := a.runner.Invoke(ctx, map[string]any{
		"input":    query,
		"evidence": strings.Join(chunks, "\n---\n"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: answer invoke: %v", contractx.ErrModelInvoke, err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("%w: answerer returned empty message", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(out.Content), nil
}

/* ------------------------------ ToolPlanner ----------------------------- */

type toolPlannerImpl struct {
	runner       compose.Runnable[map[string]any, *schema.Message]
	allowedTools map[string]struct{}
}

// NewToolPlanner binds the given tools to a tool-calling chat model and
// compiles the planning graph. Each Plan call yields either tool requests
// or a final answer; tool names outside the bound set are rejected.
func NewToolPlanner(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
) (contractx.ToolPlanner, error) {
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", tpl); err != nil {
		return nil, fmt.Errorf("add planning prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", toolModel); err != nil {
		return nil, fmt.Errorf("add planning model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add planning edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add planning edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add planning edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("timeoff.tool_planning_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile tool planning graph: %w", err)
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowed[t.Name] = struct{}{}
	}

	return &toolPlannerImpl{runner: runner, allowedTools: allowed}, nil
}

func (p *toolPlannerImpl) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanStep, error) {
	payload := map[string]any{
		"user":         req.User,
		"prompt":       req.Prompt,
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.PlanStep{}, fmt.Errorf("%w: marshal planning payload: %v", contractx.ErrValidation, err)
	}

	msg, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.PlanStep{}, fmt.Errorf("%w: planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.PlanStep{}, fmt.Errorf("%w: empty planning response", contractx.ErrModelInvoke)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.PlanStep{}, err
	}

	if len(toolRequests) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return contractx.PlanStep{}, fmt.Errorf("%w: planner produced neither tools nor answer", contractx.ErrModelInvoke)
		}
		return contractx.PlanStep{Answer: content}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := p.allowedTools[tr.Tool]; !ok {
			return contractx.PlanStep{}, fmt.Errorf("%w: tool=%s is not bound to this planner", contractx.ErrValidation, tr.Tool)
		}
	}

	return contractx.PlanStep{ToolRequests: toolRequests}, nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrValidation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrValidation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}
