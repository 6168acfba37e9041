package agents

import (
	"context"
	"log/slog"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
	"PitchPipeline/pkg/slug"
)

// Drafting composes the pitch record from a prospect and its research. When
// the primary strategy fails, the agent falls back to the deterministic
// template instead of failing the contact; a draft always beats no draft.
type Drafting struct {
	primary  ports.DraftStrategy
	fallback ports.DraftStrategy
	voice    domain.BrandVoice
	logger   *slog.Logger
}

// NewDrafting wires the agent. fallback may equal primary when only the
// template strategy is configured.
func NewDrafting(primary, fallback ports.DraftStrategy, voice domain.BrandVoice, logger *slog.Logger) *Drafting {
	return &Drafting{primary: primary, fallback: fallback, voice: voice, logger: logger}
}

// Run produces the pitch record or the stage's terminal error. The review
// label stays empty; only a human reviewer sets it after the run.
func (d *Drafting) Run(ctx context.Context, prospect domain.Prospect, research domain.ResearchRecord) (domain.PitchRecord, *domain.StageError) {
	if err := prospect.Validate(); err != nil {
		return domain.PitchRecord{}, domain.NewStageError(domain.StageDrafting, domain.KindNonRetryable, err)
	}
	if err := research.Validate(); err != nil {
		return domain.PitchRecord{}, domain.NewStageError(domain.StageDrafting, domain.KindNonRetryable, err)
	}

	d.debug("drafting pitch", "prospect", prospect.ContactName, "strategy", d.primary.Name())

	subject, body, err := d.primary.Generate(ctx, prospect, research, d.voice)
	if err != nil && d.fallback != nil && d.fallback.Name() != d.primary.Name() {
		if d.logger != nil {
			d.logger.Warn("draft strategy failed, falling back",
				"prospect", prospect.ContactName,
				"strategy", d.primary.Name(),
				"fallback", d.fallback.Name(),
				"error", err)
		}
		subject, body, err = d.fallback.Generate(ctx, prospect, research, d.voice)
	}
	if err != nil {
		return domain.PitchRecord{}, domain.NewStageError(domain.StageDrafting, classify(err), err)
	}

	pitch := domain.PitchRecord{
		ProspectName: prospect.ContactName,
		Slug:         slug.Make(prospect.ContactName),
		Subject:      subject,
		Body:         body,
		ReviewLabel:  "",
		Citations:    research.Citations,
	}
	if err := pitch.Validate(); err != nil {
		return domain.PitchRecord{}, domain.NewStageError(domain.StageDrafting, domain.KindNonRetryable, err)
	}

	d.debug("pitch drafted", "prospect", prospect.ContactName, "slug", pitch.Slug)
	return pitch, nil
}

func (d *Drafting) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
