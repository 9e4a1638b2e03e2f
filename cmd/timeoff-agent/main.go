package main

import (
	"context"

	"github.com/rs/zerolog/log"

	a2ax "github.com/tanpawarit/hr-agent-mesh/agent/a2a"
	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	ledgerx "github.com/tanpawarit/hr-agent-mesh/agent/ledger"
	llmx "github.com/tanpawarit/hr-agent-mesh/agent/llm"
	promptx "github.com/tanpawarit/hr-agent-mesh/agent/prompt"
	timeoffx "github.com/tanpawarit/hr-agent-mesh/agent/specialist/timeoff"
	configx "github.com/tanpawarit/hr-agent-mesh/pkg/config"
	_ "github.com/tanpawarit/hr-agent-mesh/pkg/logger/autoload"
)

type serveConfig struct {
	Addr      string `envconfig:"TIMEOFF_AGENT_ADDR" default:":9002"`
	PublicURL string `envconfig:"TIMEOFF_AGENT_PUBLIC_URL" default:"http://localhost:9002"`

	// LedgerDSN selects Postgres persistence; empty runs the seeded
	// in-memory ledger.
	LedgerDSN string `envconfig:"LEDGER_DSN"`
}

func main() {
	ctx := context.Background()

	serveCfg := configx.MustNew[serveConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model configuration")
	}

	store, err := newStore(ctx, serveCfg.LedgerDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open ledger store")
	}

	orCfg := llmCfg.OpenRouterFor(contractx.AgentTypeTimeoff)
	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create timeoff chat model")
	}

	prompts := promptx.LoadPromptSet()
	planner, err := llmx.NewToolPlanner(ctx, chatModel, prompts.Timeoff, timeoffx.ToolInfos())
	if err != nil {
		log.Fatal().Err(err).Msg("build timeoff planner")
	}

	agent, err := timeoffx.New(store, planner)
	if err != nil {
		log.Fatal().Err(err).Msg("build timeoff agent")
	}

	card := a2ax.Card{
		Name:        "Timeoff Agent",
		Description: "Checks vacation balances and files timeoff requests against the employee ledger.",
		URL:         serveCfg.PublicURL,
		Version:     "1.0.0",
		Capabilities: a2ax.Capabilities{
			Streaming: false,
		},
		Skills: []a2ax.Skill{
			{
				ID:          "timeoff_balance",
				Name:        "Balance lookup",
				Description: "Reports how many timeoff days an employee has left.",
				Examples:    []string{"How many vacation days do I have?"},
			},
			{
				ID:          "timeoff_request",
				Name:        "File timeoff",
				Description: "Files a timeoff request when the balance allows it.",
				Examples:    []string{"Book 5 days off starting 2025-05-05."},
			},
		},
	}

	server := a2ax.NewServer(card, agent)
	if err := server.ListenAndServe(serveCfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("timeoff agent server stopped")
	}
}

func newStore(ctx context.Context, dsn string) (ledgerx.Store, error) {
	if dsn == "" {
		log.Info().Msg("using in-memory ledger store")
		return ledgerx.NewMemoryStore(), nil
	}
	log.Info().Msg("using postgres ledger store")
	return ledgerx.NewBunStore(ctx, ledgerx.BunConfig{DSN: dsn})
}
