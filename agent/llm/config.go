package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
	openrouterx "github.com/tanpawarit/hr-agent-mesh/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RouterModel        string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	PolicyModel        string  `envconfig:"POLICY_MODEL" split_words:"true"`
	TimeoffModel       string  `envconfig:"TIMEOFF_MODEL" split_words:"true"`
	RouterTemperature  float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"-1"`
	PolicyTemperature  float32 `envconfig:"POLICY_TEMPERATURE" split_words:"true" default:"-1"`
	TimeoffTemperature float32 `envconfig:"TIMEOFF_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model configuration for one agent, applying
// per-agent overrides over the shared defaults.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeRouter:
		if v := strings.TrimSpace(c.RouterModel); v != "" {
			modelName = v
		}
		if c.RouterTemperature >= 0 {
			temp = c.RouterTemperature
		}
	case contractx.AgentTypePolicy:
		if v := strings.TrimSpace(c.PolicyModel); v != "" {
			modelName = v
		}
		if c.PolicyTemperature >= 0 {
			temp = c.PolicyTemperature
		}
	case contractx.AgentTypeTimeoff:
		if v := strings.TrimSpace(c.TimeoffModel); v != "" {
			modelName = v
		}
		if c.TimeoffTemperature >= 0 {
			temp = c.TimeoffTemperature
		}
	}

	maxTokens := c.MaxCompletionToken

	return openrouterx.Config{
		BaseURL:            c.BaseURL,
		APIKey:             c.APIKey,
		Model:              modelName,
		MaxCompletionToken: &maxTokens,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            c.SiteURL,
		SiteName:           c.SiteName,
	}
}
