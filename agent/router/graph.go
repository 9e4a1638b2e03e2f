package router

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

const (
	nodeClassify        = "classify"
	nodeDispatchPolicy  = "dispatch_policy"
	nodeDispatchTimeoff = "dispatch_timeoff"
	nodeUnsupported     = "unsupported"
	nodeApology         = "apology"
	nodeFinalize        = "finalize"
)

// graphState carries one session through classify-then-dispatch. It is
// created fresh per Route call and never shared.
type graphState struct {
	History contractx.History
	User    string

	// Prompt is the original user text forwarded to specialists, fixed
	// before classification so the classifier output can never leak into a
	// dispatch.
	Prompt string

	Label  contractx.RouteLabel
	Failed bool
}

func (r *Router) compileRouteGraph(ctx context.Context) (compose.Runnable[GraphInput, GraphOutput], error) {
	graph := compose.NewGraph[GraphInput, GraphOutput]()

	if err := graph.AddLambdaNode(nodeClassify,
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*graphState, error) {
			return r.classify(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeClassify, err)
	}

	if err := graph.AddLambdaNode(nodeDispatchPolicy,
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return r.dispatch(ctx, in, r.policyAddress)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeDispatchPolicy, err)
	}

	if err := graph.AddLambdaNode(nodeDispatchTimeoff,
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return r.dispatch(ctx, in, r.timeoffAddress)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeDispatchTimeoff, err)
	}

	if err := graph.AddLambdaNode(nodeUnsupported,
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			in.History = in.History.Append(contractx.RoleAssistant, RefusalReply)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeUnsupported, err)
	}

	if err := graph.AddLambdaNode(nodeApology,
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			in.History = in.History.Append(contractx.RoleAssistant, ApologyReply)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeApology, err)
	}

	if err := graph.AddLambdaNode(nodeFinalize,
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (GraphOutput, error) {
			return GraphOutput{History: in.History}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalize, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *graphState) (string, error) {
			if in.Failed {
				return nodeApology, nil
			}
			switch in.Label {
			case contractx.RoutePolicy:
				return nodeDispatchPolicy, nil
			case contractx.RouteTimeoff:
				return nodeDispatchTimeoff, nil
			default:
				return nodeUnsupported, nil
			}
		},
		map[string]bool{
			nodeDispatchPolicy:  true,
			nodeDispatchTimeoff: true,
			nodeUnsupported:     true,
			nodeApology:         true,
		},
	)

	if err := graph.AddEdge(compose.START, nodeClassify); err != nil {
		return nil, fmt.Errorf("add edge start->%s: %w", nodeClassify, err)
	}
	if err := graph.AddBranch(nodeClassify, branch); err != nil {
		return nil, fmt.Errorf("add routing branch: %w", err)
	}
	for _, node := range []string{nodeDispatchPolicy, nodeDispatchTimeoff, nodeUnsupported, nodeApology} {
		if err := graph.AddEdge(node, nodeFinalize); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", node, nodeFinalize, err)
		}
	}
	if err := graph.AddEdge(nodeFinalize, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s->end: %w", nodeFinalize, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.route"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

// classify asks the classification capability once. The classifier owns
// its routing instructions; only the raw conversation goes in. A transport
// failure marks the state failed; garbage output is simply canonicalized
// to UNSUPPORTED.
func (r *Router) classify(ctx context.Context, in GraphInput) (*graphState, error) {
	prompt, ok := in.History.LastUserMessage()
	if !ok {
		return nil, ErrNoUserMessage
	}

	st := &graphState{
		History: in.History,
		User:    in.User,
		Prompt:  prompt,
	}

	labelText, err := r.classifier.Classify(ctx, in.History)
	if err != nil {
		log.Error().Err(err).Str("user", in.User).Msg("classification failed")
		st.Failed = true
		return st, nil
	}

	st.Label = contractx.ParseRouteLabel(labelText)
	log.Debug().Str("user", in.User).Str("label", string(st.Label)).Msg("route chosen")
	return st, nil
}

// dispatch forwards the original user prompt to the specialist at address
// and folds the reply into the history. A remote failure degrades to the
// apology reply; the session still completes.
func (r *Router) dispatch(ctx context.Context, in *graphState, address string) (*graphState, error) {
	reply, err := r.invoker.Invoke(ctx, address, in.User, in.Prompt)
	if err != nil {
		log.Error().Err(err).Str("address", address).Str("user", in.User).Msg("dispatch failed")
		reply = ApologyReply
	}
	in.History = in.History.Append(contractx.RoleAssistant, reply)
	return in, nil
}
