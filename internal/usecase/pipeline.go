package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
)

// PipelineDeps wires the stage agents and collaborators into the orchestrator.
type PipelineDeps struct {
	Discovery   ports.DiscoveryStage
	Research    ports.ResearchStage
	Drafting    ports.DraftingStage
	Repository  ports.ProspectRepository
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline drives every contact through discovery, research and drafting
// with a bounded worker pool. One contact's failure never aborts the run;
// it becomes a manifest entry and the pool moves on.
type Pipeline struct {
	discovery   ports.DiscoveryStage
	research    ports.ResearchStage
	drafting    ports.DraftingStage
	repository  ports.ProspectRepository
	concurrency int
	logger      *slog.Logger

	mu sync.Mutex // serializes manifest mutation; the pipeline is its sole writer
}

// RunResult carries everything the external writers persist.
type RunResult struct {
	Outcomes []domain.ItemOutcome
	Manifest *domain.RunManifest
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		discovery:   deps.Discovery,
		research:    deps.Research,
		drafting:    deps.Drafting,
		repository:  deps.Repository,
		concurrency: deps.Concurrency,
		logger:      deps.Logger,
	}
}

// Run processes all contacts and returns the outcome tuples plus the
// finalized manifest. It errors only when the run cannot start at all;
// per-contact failures are manifest entries, not errors.
func (p *Pipeline) Run(ctx context.Context, contacts []domain.RawContact) (*RunResult, error) {
	if len(contacts) == 0 {
		return nil, fmt.Errorf("no contacts to process")
	}
	if p.concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", p.concurrency)
	}
	if p.discovery == nil || p.research == nil || p.drafting == nil {
		return nil, fmt.Errorf("pipeline stages are not fully wired")
	}

	work, err := p.filterProcessed(ctx, contacts)
	if err != nil {
		return nil, err
	}
	if len(work) == 0 {
		return nil, fmt.Errorf("all %d contacts were already pitched", len(contacts))
	}

	manifest := domain.NewRunManifest(len(work))
	outcomes := make([]domain.ItemOutcome, len(work))

	p.info("run started", "run_id", manifest.RunID, "contacts", len(work), "concurrency", p.concurrency)
	start := time.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcome := p.processContact(ctx, work[idx])
				outcomes[idx] = outcome
				p.record(manifest, outcome)
			}
		}()
	}

	for i := range work {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	manifest.Finish()
	p.info("run finished",
		"run_id", manifest.RunID,
		"succeeded", manifest.Succeeded,
		"failed", manifest.FailureCount(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &RunResult{Outcomes: outcomes, Manifest: manifest}, nil
}

// processContact walks one contact through the stage chain. Stages run
// strictly in order; the first stage error is terminal for the contact.
// Cancellation lets the current stage finish naturally, then ends the chain.
func (p *Pipeline) processContact(ctx context.Context, contact domain.RawContact) domain.ItemOutcome {
	outcome := domain.ItemOutcome{Contact: contact}

	if failure := canceled(ctx, domain.StageDiscovery); failure != nil {
		outcome.Failure = failure
		return outcome
	}
	prospect, failure := p.discovery.Run(ctx, contact)
	if failure != nil {
		outcome.Failure = failure
		return outcome
	}
	outcome.Prospect = &prospect

	if failure := canceled(ctx, domain.StageResearch); failure != nil {
		outcome.Failure = failure
		return outcome
	}
	research, failure := p.research.Run(ctx, prospect)
	if failure != nil {
		outcome.Failure = failure
		return outcome
	}
	outcome.Research = &research

	if failure := canceled(ctx, domain.StageDrafting); failure != nil {
		outcome.Failure = failure
		return outcome
	}
	pitch, failure := p.drafting.Run(ctx, prospect, research)
	if failure != nil {
		outcome.Failure = failure
		return outcome
	}
	outcome.Pitch = &pitch

	return outcome
}

// record books exactly one manifest outcome for the contact and persists the
// snapshot when a repository is configured. Persistence problems are logged,
// never fatal for the contact.
func (p *Pipeline) record(manifest *domain.RunManifest, outcome domain.ItemOutcome) {
	p.mu.Lock()
	if outcome.Succeeded() {
		manifest.RecordSuccess()
	} else {
		manifest.RecordFailure(outcome.Contact.Name, outcome.Failure)
	}
	p.mu.Unlock()

	if outcome.Failure != nil {
		p.warn("contact failed",
			"contact", outcome.Contact.Name,
			"stage", outcome.Failure.Stage,
			"kind", outcome.Failure.Kind)
	}

	if p.repository == nil {
		return
	}
	processed := domain.ProcessedProspect{
		ContactName: outcome.Contact.Name,
		Status:      domain.StatusFailed,
		CreatedAt:   time.Now().UTC(),
	}
	if outcome.Pitch != nil {
		processed.Slug = outcome.Pitch.Slug
		processed.Subject = outcome.Pitch.Subject
		processed.Status = domain.StatusPitched
	}
	// Persist even when the run context is already canceled.
	if err := p.repository.SaveOutcome(context.Background(), processed); err != nil {
		p.warn("persist outcome", "contact", outcome.Contact.Name, "error", err)
	}
}

// filterProcessed drops contacts whose pitch already exists from a previous
// run. A missing repository means nothing is filtered.
func (p *Pipeline) filterProcessed(ctx context.Context, contacts []domain.RawContact) ([]domain.RawContact, error) {
	if p.repository == nil {
		return contacts, nil
	}

	names := make([]string, len(contacts))
	for i, c := range contacts {
		names[i] = c.Name
	}
	skip, err := p.repository.AlreadyPitched(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load processed prospects: %w", err)
	}

	work := make([]domain.RawContact, 0, len(contacts))
	for _, c := range contacts {
		if skip[c.Name] {
			p.info("skipping already-pitched contact", "contact", c.Name)
			continue
		}
		work = append(work, c)
	}
	return work, nil
}

func canceled(ctx context.Context, stage domain.Stage) *domain.StageError {
	if err := ctx.Err(); err != nil {
		return domain.NewStageError(stage, domain.KindNonRetryable, fmt.Errorf("run aborted: %w", err))
	}
	return nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
