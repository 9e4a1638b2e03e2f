package main

import (
	"context"

	"github.com/rs/zerolog/log"

	a2ax "github.com/tanpawarit/hr-agent-mesh/agent/a2a"
	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	llmx "github.com/tanpawarit/hr-agent-mesh/agent/llm"
	promptx "github.com/tanpawarit/hr-agent-mesh/agent/prompt"
	policyx "github.com/tanpawarit/hr-agent-mesh/agent/specialist/policy"
	configx "github.com/tanpawarit/hr-agent-mesh/pkg/config"
	_ "github.com/tanpawarit/hr-agent-mesh/pkg/logger/autoload"
)

type serveConfig struct {
	Addr      string `envconfig:"POLICY_AGENT_ADDR" default:":9001"`
	PublicURL string `envconfig:"POLICY_AGENT_PUBLIC_URL" default:"http://localhost:9001"`
}

func main() {
	ctx := context.Background()

	serveCfg := configx.MustNew[serveConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model configuration")
	}

	orCfg := llmCfg.OpenRouterFor(contractx.AgentTypePolicy)
	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create policy chat model")
	}

	prompts := promptx.LoadPromptSet()
	answerer, err := llmx.NewAnswerer(ctx, chatModel, prompts.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("build policy answerer")
	}

	agent, err := policyx.New(policyx.NewDocumentRetriever(), answerer)
	if err != nil {
		log.Fatal().Err(err).Msg("build policy agent")
	}

	card := a2ax.Card{
		Name:        "HR Policy Agent",
		Description: "Answers questions about company HR policies from the policy handbook.",
		URL:         serveCfg.PublicURL,
		Version:     "1.0.0",
		Capabilities: a2ax.Capabilities{
			Streaming: false,
		},
		Skills: []a2ax.Skill{
			{
				ID:          "policy_qa",
				Name:        "Policy Q&A",
				Description: "Answers HR policy questions grounded in the policy handbook.",
				Examples:    []string{"What is our remote work policy?", "How many sick days do we get?"},
			},
		},
	}

	server := a2ax.NewServer(card, agent)
	if err := server.ListenAndServe(serveCfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("policy agent server stopped")
	}
}
