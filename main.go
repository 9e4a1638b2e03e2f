package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	a2ax "github.com/tanpawarit/hr-agent-mesh/agent/a2a"
	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	llmx "github.com/tanpawarit/hr-agent-mesh/agent/llm"
	promptx "github.com/tanpawarit/hr-agent-mesh/agent/prompt"
	routerx "github.com/tanpawarit/hr-agent-mesh/agent/router"
	configx "github.com/tanpawarit/hr-agent-mesh/pkg/config"
	_ "github.com/tanpawarit/hr-agent-mesh/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/hr-agent-mesh/pkg/openrouter"
)

// Each demo turn is an independent session: fresh history, one user message.
type demoTurn struct {
	user string
	text string
}

func main() {
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model configuration")
	}

	routerCfg := configx.MustNew[routerx.Config]("")
	clientCfg := configx.MustNew[a2ax.ClientConfig]("A2A")

	orCfg := llmCfg.OpenRouterFor(contractx.AgentTypeRouter)
	if openrouterx.NewClient(orCfg) == nil {
		log.Fatal().Msg("openrouter credentials are not usable")
	}
	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create router chat model")
	}

	prompts := promptx.LoadPromptSet()
	classifier := llmx.NewClassifier(chatModel, prompts.Router)
	invoker := a2ax.NewClient(*clientCfg)

	r, err := routerx.New(ctx, *routerCfg, classifier, invoker)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	turns := []demoTurn{
		{user: "Alice", text: "What is our remote work policy?"},
		{user: "Alice", text: "How many days can I take off?"},
		{user: "Alice", text: "I want to request time off, starting from 2025-05-05, for a total of 5 days."},
		{user: "Bob", text: "How much annual leave do I have left?"},
		{user: "Bob", text: "Can you order me a pizza?"},
	}

	for _, turn := range turns {
		history := contractx.History{
			{Role: contractx.RoleUser, Content: turn.text},
		}
		out, err := r.Route(ctx, history, turn.user)
		if err != nil {
			log.Fatal().Err(err).Str("user", turn.user).Msg("route request")
		}
		fmt.Printf("[%s] %s\n", turn.user, turn.text)
		fmt.Printf("  -> %s\n\n", out[len(out)-1].Content)
	}
}
