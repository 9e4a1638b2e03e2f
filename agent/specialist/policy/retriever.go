package policy

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

//go:embed document/hr_policy.txt
var policyDocumentRaw string

// DocumentRetriever serves evidence chunks from the embedded HR policy
// document. Chunks are paragraph-sized; scoring is term overlap between the
// query and the chunk. The retrieval contract treats the mechanism as
// opaque, so a deterministic scorer is sufficient here.
type DocumentRetriever struct {
	chunks []string
}

func NewDocumentRetriever() *DocumentRetriever {
	return NewDocumentRetrieverFromText(policyDocumentRaw)
}

func NewDocumentRetrieverFromText(text string) *DocumentRetriever {
	var chunks []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			chunks = append(chunks, block)
		}
	}
	return &DocumentRetriever{chunks: chunks}
}

var _ contractx.Retriever = (*DocumentRetriever)(nil)

func (r *DocumentRetriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", contractx.ErrValidation)
	}

	terms := queryTerms(query)
	type scored struct {
		chunk string
		score int
		index int
	}

	var candidates []scored
	for i, chunk := range r.chunks {
		lower := strings.ToLower(chunk)
		score := 0
		for term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{chunk: chunk, score: score, index: i})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index < candidates[j].index
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.chunk)
	}
	return out, nil
}

func queryTerms(query string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?:;\"'")
		// Short function words carry no signal for overlap scoring.
		if len(word) < 4 {
			continue
		}
		terms[word] = struct{}{}
	}
	return terms
}
