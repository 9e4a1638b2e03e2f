package a2a

// Capabilities advertises optional protocol features. Streaming is
// published for compatibility but unused by the invoke contract.
type Capabilities struct {
	Streaming bool `json:"streaming"`
}

// Skill describes one narrow capability of an agent.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
}

// Card is the discovery descriptor published at CardPath. URL is the
// endpoint message envelopes are posted to.
type Card struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	Version      string       `json:"version"`
	Capabilities Capabilities `json:"capabilities"`
	Skills       []Skill      `json:"skills"`
}
