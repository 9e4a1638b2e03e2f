package contract

import "context"

// Classifier maps a message history onto free routing text. The reply is
// expected to be a single label token but is never trusted as one.
type Classifier interface {
	Classify(ctx context.Context, history History) (string, error)
}

// Answerer generates the final reply text for a query given retrieved
// evidence chunks.
type Answerer interface {
	Answer(ctx context.Context, query string, chunks []string) (string, error)
}

// Retriever returns up to k evidence chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Invoker reaches a remote specialist agent at address and returns its
// textual reply.
type Invoker interface {
	Invoke(ctx context.Context, address, user, prompt string) (string, error)
}

// Executor is the uniform specialist contract served over the wire.
// Execute must not surface internal failures as errors: whatever text it
// returns is exactly what the remote caller receives. Cancel always fails
// with ErrCancelUnsupported.
type Executor interface {
	Execute(ctx context.Context, user, prompt string) (string, error)
	Cancel(ctx context.Context, requestID string) error
}

// ToolPlanner is the replaceable reasoning strategy that decides which
// tool to call next, or produces the final answer once tool results are in.
type ToolPlanner interface {
	Plan(ctx context.Context, req PlanRequest) (PlanStep, error)
}
