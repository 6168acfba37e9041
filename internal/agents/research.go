package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

// Research gathers a prospect's recent published work and derives topics,
// a summary and a bounded set of suggested pitch angles. Finding nothing is
// a valid outcome: the record comes back with empty lists and a sentinel
// summary, not an error.
type Research struct {
	search     ports.SearchProvider
	gate       *guard.Gate
	maxLookups int
	logger     *slog.Logger
}

// NewResearch wires the agent; maxLookups caps external calls per prospect.
func NewResearch(search ports.SearchProvider, gate *guard.Gate, maxLookups int, logger *slog.Logger) *Research {
	if maxLookups < 1 {
		maxLookups = 1
	}
	return &Research{search: search, gate: gate, maxLookups: maxLookups, logger: logger}
}

// Run produces the research record for a prospect or the stage's terminal error.
func (r *Research) Run(ctx context.Context, prospect domain.Prospect) (domain.ResearchRecord, *domain.StageError) {
	if err := prospect.Validate(); err != nil {
		return domain.ResearchRecord{}, domain.NewStageError(domain.StageResearch, domain.KindNonRetryable, err)
	}

	r.debug("starting research", "prospect", prospect.ContactName)

	var hits []ports.SearchHit
	lookups := 0
	for _, query := range r.buildQueries(prospect) {
		if lookups >= r.maxLookups || len(hits) > 0 {
			break
		}
		lookups++

		var found []ports.SearchHit
		err := r.gate.Do(ctx, func(ctx context.Context) error {
			var lookupErr error
			found, lookupErr = r.search.Lookup(ctx, query, hitLimit)
			return lookupErr
		})
		if err != nil {
			return domain.ResearchRecord{}, domain.NewStageError(domain.StageResearch, classify(err), fmt.Errorf("lookup %q: %w", query, err))
		}
		hits = found
	}

	record := r.compose(prospect, hits)
	if err := record.Validate(); err != nil {
		return domain.ResearchRecord{}, domain.NewStageError(domain.StageResearch, domain.KindNonRetryable, err)
	}

	r.debug("research completed",
		"prospect", prospect.ContactName,
		"hits", len(hits),
		"topics", len(record.Topics),
		"angles", len(record.Angles))
	return record, nil
}

func (r *Research) buildQueries(prospect domain.Prospect) []string {
	name := prospect.ContactName
	if prospect.MatchedName.Resolved() {
		name = prospect.MatchedName.String()
	}

	parts := []string{name}
	if prospect.Outlet.Resolved() {
		parts = append(parts, prospect.Outlet.String())
	}
	primary := strings.Join(append(parts, "latest articles"), " ")
	fallback := strings.Join(append(parts, "recent coverage"), " ")
	return []string{primary, fallback}
}

// compose builds the record from whatever the lookups produced. Zero hits
// collapse every list to empty and the summary to the sentinel.
func (r *Research) compose(prospect domain.Prospect, hits []ports.SearchHit) domain.ResearchRecord {
	record := domain.ResearchRecord{
		ProspectName: prospect.ContactName,
		Topics:       []string{},
		Summary:      domain.Unknown(),
		Angles:       []string{},
		Citations:    []domain.Citation{},
	}

	if prospect.Beat.Resolved() {
		for _, topic := range strings.Split(prospect.Beat.String(), ",") {
			if topic = strings.TrimSpace(topic); topic != "" {
				record.Topics = appendUnique(record.Topics, topic)
			}
		}
	}

	if len(hits) == 0 {
		return record
	}

	for _, hit := range hits {
		if topic := topicFromTitle(hit.Title); topic != "" {
			record.Topics = appendUnique(record.Topics, topic)
		}
	}

	latest := hits[0]
	summary := fmt.Sprintf("Latest piece: %q (%s).", latest.Title, latest.URL)
	if snippet := strings.TrimSpace(latest.Snippet); snippet != "" {
		summary += " " + snippet
	}
	record.Summary = domain.Known(summary)

	record.Angles = append(record.Angles, fmt.Sprintf("Follow up on %q by extending what it left open.", latest.Title))
	for _, topic := range record.Topics {
		if len(record.Angles) >= domain.MaxAngles {
			break
		}
		record.Angles = append(record.Angles, fmt.Sprintf("A fresh perspective on %s for their readers.", topic))
	}

	record.Citations = citationsFromHits(hits, fmt.Sprintf("Recent work by %s", prospect.ContactName))
	return record
}

// topicFromTitle pulls the trailing "... on <topic>" clause out of a result
// title; most coverage headlines carry their subject there.
func topicFromTitle(title string) string {
	idx := strings.LastIndex(strings.ToLower(title), " on ")
	if idx < 0 {
		return ""
	}
	topic := strings.TrimSpace(title[idx+len(" on "):])
	topic = strings.Trim(topic, ".!?\"'")
	if topic == "" || len(strings.Fields(topic)) > 4 {
		return ""
	}
	return strings.ToLower(topic)
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}

func (r *Research) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
