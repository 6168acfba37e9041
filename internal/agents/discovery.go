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

// Discovery resolves a raw contact into a validated prospect. Fields that
// cannot be verified after the lookup budget is spent are set to the unknown
// sentinel, never guessed and never left absent.
type Discovery struct {
	search     ports.SearchProvider
	gate       *guard.Gate
	maxLookups int
	logger     *slog.Logger
}

// NewDiscovery wires the agent; maxLookups caps total external calls per
// contact across all of the stage's queries.
func NewDiscovery(search ports.SearchProvider, gate *guard.Gate, maxLookups int, logger *slog.Logger) *Discovery {
	if maxLookups < 1 {
		maxLookups = 1
	}
	return &Discovery{search: search, gate: gate, maxLookups: maxLookups, logger: logger}
}

// Run produces the prospect for one contact or the stage's terminal error.
func (d *Discovery) Run(ctx context.Context, contact domain.RawContact) (domain.Prospect, *domain.StageError) {
	if err := contact.Validate(); err != nil {
		return domain.Prospect{}, domain.NewStageError(domain.StageDiscovery, domain.KindNonRetryable, err)
	}

	d.debug("starting discovery", "contact", contact.Name)

	queries := d.buildQueries(contact)
	prospect := domain.Prospect{
		ContactName: contact.Name,
		MatchedName: domain.Unknown(),
		Outlet:      domain.Known(contact.Outlet),
		Beat:        domain.Unknown(),
		Email:       domain.Unknown(),
		ProfileURL:  domain.Known(contact.ProfileURL),
		Citations:   []domain.Citation{},
	}
	if len(contact.Keywords) > 0 {
		prospect.Beat = domain.Known(strings.Join(contact.Keywords, ", "))
	}

	lookups := 0
	for _, query := range queries {
		if lookups >= d.maxLookups {
			break
		}
		if d.resolved(prospect) {
			break
		}
		lookups++

		var hits []ports.SearchHit
		err := d.gate.Do(ctx, func(ctx context.Context) error {
			var lookupErr error
			hits, lookupErr = d.search.Lookup(ctx, query, hitLimit)
			return lookupErr
		})
		if err != nil {
			return domain.Prospect{}, domain.NewStageError(domain.StageDiscovery, classify(err), fmt.Errorf("lookup %q: %w", query, err))
		}

		d.merge(&prospect, contact, hits, query)
	}

	if err := prospect.Validate(); err != nil {
		return domain.Prospect{}, domain.NewStageError(domain.StageDiscovery, domain.KindNonRetryable, err)
	}

	d.debug("discovery completed",
		"contact", contact.Name,
		"matched", prospect.MatchedName.Resolved(),
		"email", prospect.Email.Resolved(),
		"lookups", lookups)
	return prospect, nil
}

// buildQueries orders the stage's lookup attempts, broadest first.
func (d *Discovery) buildQueries(contact domain.RawContact) []string {
	parts := []string{contact.Name}
	if contact.Outlet != "" {
		parts = append(parts, contact.Outlet)
	}
	if len(contact.Keywords) > 0 {
		parts = append(parts, strings.Join(contact.Keywords, " "))
	}
	primary := strings.Join(parts, " ")
	return []string{primary, contact.Name + " journalist profile"}
}

// merge folds verified facts from the hits into the prospect. Unverifiable
// hits change nothing; a field that stays unresolved keeps the sentinel.
func (d *Discovery) merge(prospect *domain.Prospect, contact domain.RawContact, hits []ports.SearchHit, query string) {
	nameLower := strings.ToLower(contact.Name)

	for _, hit := range hits {
		combined := hit.Title + " " + hit.Snippet
		titleLower := strings.ToLower(hit.Title)

		if !prospect.MatchedName.Resolved() && strings.Contains(titleLower, nameLower) {
			prospect.MatchedName = domain.Known(contact.Name)
		}
		if !prospect.Email.Resolved() {
			if email := emailExpr.FindString(combined); email != "" {
				prospect.Email = domain.Known(email)
			}
		}
		if !prospect.ProfileURL.Resolved() && hit.URL != "" {
			if strings.Contains(titleLower, "profile") || strings.Contains(titleLower, nameLower) {
				prospect.ProfileURL = domain.Known(hit.URL)
			}
		}
	}

	prospect.Citations = append(prospect.Citations,
		citationsFromHits(hits, fmt.Sprintf("Discovery search result for %q", query))...)
}

// resolved reports whether every lookup-fillable field already has a value.
func (d *Discovery) resolved(p domain.Prospect) bool {
	return p.MatchedName.Resolved() && p.Email.Resolved() && p.ProfileURL.Resolved()
}

func (d *Discovery) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
