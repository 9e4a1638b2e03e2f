package contract

import "strings"

type AgentType string

const (
	AgentTypeRouter  AgentType = "router"
	AgentTypePolicy  AgentType = "policy"
	AgentTypeTimeoff AgentType = "timeoff"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is an append-only, role-tagged transcript owned by a single
// routing session. Helpers return copies; callers never mutate in place.
type History []Message

func (h History) Append(role Role, content string) History {
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, Message{Role: role, Content: content})
	return out
}

// LastUserMessage returns the most recent user-authored entry. The router
// forwards this text to specialists, never the classifier's output.
func (h History) LastUserMessage() (string, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleUser {
			return h[i].Content, true
		}
	}
	return "", false
}

// RouteLabel is the closed set of routing destinations. The classifier's
// free text never drives dispatch directly; it must pass through
// ParseRouteLabel first.
type RouteLabel string

const (
	RoutePolicy      RouteLabel = "POLICY"
	RouteTimeoff     RouteLabel = "TIMEOFF"
	RouteUnsupported RouteLabel = "UNSUPPORTED"
)

// ParseRouteLabel canonicalizes classifier output. Anything that is not an
// exact label token maps to RouteUnsupported.
func ParseRouteLabel(text string) RouteLabel {
	switch RouteLabel(strings.TrimSpace(text)) {
	case RoutePolicy:
		return RoutePolicy
	case RouteTimeoff:
		return RouteTimeoff
	default:
		return RouteUnsupported
	}
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PlanStep is one turn of a tool-augmented reasoning loop: either a batch
// of tool requests to execute, or a final answer for the caller.
type PlanStep struct {
	Answer       string        `json:"answer,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

type PlanRequest struct {
	User        string       `json:"user"`
	Prompt      string       `json:"prompt"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}
