package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"PitchPipeline/internal/agents"
	"PitchPipeline/internal/config"
	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/infrastructure/contacts"
	"PitchPipeline/internal/infrastructure/llm"
	"PitchPipeline/internal/infrastructure/lookup"
	"PitchPipeline/internal/infrastructure/storage"
	"PitchPipeline/internal/infrastructure/writer"
	"PitchPipeline/internal/logging"
	"PitchPipeline/internal/ports"
	"PitchPipeline/internal/search"
	"PitchPipeline/internal/usecase"
)

// Application wires configuration to the pipeline and its collaborators.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	source   ports.ContactSource
	pipeline *usecase.Pipeline
	files    *writer.FileWriter
	db       *sql.DB
}

// New builds a runnable application instance for one batch execution.
func New(cfg config.Config, prospectsPath string, limit int, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := search.NewRegistry()
	registry.Register(lookup.NewOffline())
	registry.Register(lookup.NewDuckDuckGo(nil))

	provider, err := registry.Resolve(cfg.Pipeline.SearchProvider)
	if err != nil {
		return nil, fmt.Errorf("configure search: %w", err)
	}

	// One gate per run; search and generation share its budget.
	gate := guard.NewGate(cfg.Pipeline.SearchRateLimit, cfg.Pipeline.MaxRetries, cfg.Pipeline.BackoffBase())

	voice := domain.BrandVoice{
		Name:    cfg.Brand.Name,
		Tone:    cfg.Brand.Tone,
		Mission: cfg.Brand.Mission,
		Vision:  cfg.Brand.Vision,
		Pillars: cfg.Brand.Pillars,
	}

	template := agents.NewTemplate()
	var primary ports.DraftStrategy = template
	if cfg.Generation.Enabled() {
		primary = llm.NewOpenAIClient(cfg.Generation, gate)
		baseLogger.Info("generative drafting enabled", "model", cfg.Generation.Model)
	}

	maxLookups := cfg.Pipeline.MaxLookupsPerStage

	var db *sql.DB
	var repository ports.ProspectRepository
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Discovery:   agents.NewDiscovery(provider, gate, maxLookups, logging.Component(baseLogger, "agent.discovery")),
		Research:    agents.NewResearch(provider, gate, maxLookups, logging.Component(baseLogger, "agent.research")),
		Drafting:    agents.NewDrafting(primary, template, voice, logging.Component(baseLogger, "agent.drafting")),
		Repository:  repository,
		Concurrency: cfg.Pipeline.Concurrency,
		Logger:      logging.Component(baseLogger, "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		source:   contacts.NewCSVSource(prospectsPath, limit, logging.Component(baseLogger, "contacts")),
		pipeline: pipeline,
		files:    writer.NewFileWriter(cfg.Output.Dir, logging.Component(baseLogger, "writer")),
		db:       db,
	}, nil
}

// Run executes one batch: load contacts, drive the pipeline, persist the
// outcome tuples and the finalized manifest.
func (a *Application) Run(ctx context.Context) error {
	loaded, err := a.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}

	result, err := a.pipeline.Run(ctx, loaded)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if err := a.files.WriteResearch(ctx, result.Outcomes); err != nil {
		return fmt.Errorf("write research: %w", err)
	}
	if err := a.files.WritePitches(ctx, result.Outcomes); err != nil {
		return fmt.Errorf("write pitches: %w", err)
	}
	if err := a.files.WriteManifest(ctx, result.Manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	a.logger.Info("artifacts persisted",
		"dir", a.cfg.Output.Dir,
		"succeeded", result.Manifest.Succeeded,
		"failed", result.Manifest.FailureCount())
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
