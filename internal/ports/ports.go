package ports

import (
	"context"
	"errors"

	"PitchPipeline/internal/domain"
)

// ErrSearchUnavailable signals a provider-level outage. Live clients wrap it
// so callers can distinguish an outage from a legitimately empty result set.
var ErrSearchUnavailable = errors.New("search provider unavailable")

// SearchHit is one result returned by a search provider.
type SearchHit struct {
	Title   string
	URL     string
	Snippet string
}

// SearchProvider executes a query against public sources. Implementations
// must not expose shared mutable state to callers; the ordered hits for a
// query are the whole contract.
type SearchProvider interface {
	Name() string
	Lookup(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// DraftStrategy turns a prospect and its research into a subject line and a
// Markdown body.
type DraftStrategy interface {
	Name() string
	Generate(ctx context.Context, prospect domain.Prospect, research domain.ResearchRecord, voice domain.BrandVoice) (subject string, body string, err error)
}

// DiscoveryStage resolves a raw contact into a validated prospect.
type DiscoveryStage interface {
	Run(ctx context.Context, contact domain.RawContact) (domain.Prospect, *domain.StageError)
}

// ResearchStage gathers a prospect's recent work into a research record.
type ResearchStage interface {
	Run(ctx context.Context, prospect domain.Prospect) (domain.ResearchRecord, *domain.StageError)
}

// DraftingStage composes the pitch from a prospect and its research.
type DraftingStage interface {
	Run(ctx context.Context, prospect domain.Prospect, research domain.ResearchRecord) (domain.PitchRecord, *domain.StageError)
}

// ContactSource loads the ordered raw contacts for a run.
type ContactSource interface {
	Load(ctx context.Context) ([]domain.RawContact, error)
}

// ProspectRepository persists processed prospects for re-run deduplication.
type ProspectRepository interface {
	AlreadyPitched(ctx context.Context, names []string) (map[string]bool, error)
	SaveOutcome(ctx context.Context, processed domain.ProcessedProspect) error
}

// PitchWriter persists pitch drafts and the review summary.
type PitchWriter interface {
	WritePitches(ctx context.Context, outcomes []domain.ItemOutcome) error
}

// ResearchWriter persists the research records gathered during a run.
type ResearchWriter interface {
	WriteResearch(ctx context.Context, outcomes []domain.ItemOutcome) error
}

// ManifestWriter persists the finalized run manifest.
type ManifestWriter interface {
	WriteManifest(ctx context.Context, manifest *domain.RunManifest) error
}
