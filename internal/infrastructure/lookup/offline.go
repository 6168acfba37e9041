package lookup

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"PitchPipeline/internal/ports"

	"PitchPipeline/pkg/slug"
)

var topicBank = []string{
	"technology", "startups", "culture", "climate",
	"finance", "health", "travel", "relationships",
}

// Offline is a deterministic search provider for reproducible runs without
// network access. Identical query and limit always yield the identical hit
// sequence, within a run and across runs. Registered fixtures take
// precedence over synthesized hits.
type Offline struct {
	fixtures map[string][]ports.SearchHit
}

var _ ports.SearchProvider = (*Offline)(nil)

// NewOffline builds the provider with no fixtures.
func NewOffline() *Offline {
	return &Offline{fixtures: map[string][]ports.SearchHit{}}
}

// SetFixture pins the hits returned for an exact query.
func (o *Offline) SetFixture(query string, hits []ports.SearchHit) {
	o.fixtures[query] = hits
}

// Name identifies the provider inside the registry.
func (o *Offline) Name() string {
	return "offline"
}

// Lookup returns fixture hits when present, otherwise a synthesized sequence
// seeded by the query hash. Callers always receive a fresh slice.
func (o *Offline) Lookup(_ context.Context, query string, limit int) ([]ports.SearchHit, error) {
	if limit <= 0 {
		return []ports.SearchHit{}, nil
	}

	if fixed, ok := o.fixtures[query]; ok {
		hits := make([]ports.SearchHit, 0, limit)
		for i := 0; i < len(fixed) && i < limit; i++ {
			hits = append(hits, fixed[i])
		}
		return hits, nil
	}

	seed := hashQuery(query)
	base := slug.Make(query)
	hits := make([]ports.SearchHit, 0, limit)
	for i := 0; i < limit; i++ {
		topic := topicBank[(seed+uint64(i))%uint64(len(topicBank))]
		hits = append(hits, ports.SearchHit{
			Title:   fmt.Sprintf("%s: recent coverage on %s", query, topic),
			URL:     fmt.Sprintf("https://press.example.org/%s/%d", base, seed%1000+uint64(i)),
			Snippet: fmt.Sprintf("An in-depth piece on %s, exploring what %s means for readers.", topic, strings.ToLower(query)),
		})
	}
	return hits, nil
}

func hashQuery(query string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(query))
	return h.Sum64()
}
