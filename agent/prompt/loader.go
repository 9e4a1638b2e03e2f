package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/policy.txt
	policyRaw string

	//go:embed template/timeoff.txt
	timeoffRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Router  string
	Policy  string
	Timeoff string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:  strings.TrimSpace(routerRaw),
		Policy:  strings.TrimSpace(policyRaw),
		Timeoff: strings.TrimSpace(timeoffRaw),
	}
}
