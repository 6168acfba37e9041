package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBackoff    = "1s"
	configPathEnv     = "PITCHPIPELINE_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	generationKeyEnv  = "PITCHPIPELINE_OPENAI_KEY"
	searchProviderEnv = "PITCHPIPELINE_SEARCH_PROVIDER"
	outputDirEnv      = "PITCHPIPELINE_OUTPUT_DIR"
	logLevelEnv       = "PITCHPIPELINE_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Generation GenerationConfig `yaml:"generation"`
	Brand      BrandConfig      `yaml:"brand"`
	Database   DatabaseConfig   `yaml:"database"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PipelineConfig sizes the run: provider selection, throughput ceilings and
// the retry discipline around external calls.
type PipelineConfig struct {
	SearchProvider     string `yaml:"searchProvider"`
	SearchRateLimit    int    `yaml:"searchRateLimit"`
	Concurrency        int    `yaml:"concurrency"`
	MaxRetries         int    `yaml:"maxRetries"`
	Backoff            string `yaml:"backoff"`
	MaxLookupsPerStage int    `yaml:"maxLookupsPerStage"`
}

// BackoffBase resolves the configured backoff string to a duration.
func (p PipelineConfig) BackoffBase() time.Duration {
	d, err := time.ParseDuration(p.Backoff)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultBackoff)
	}
	return d
}

// GenerationConfig defines how to contact the text-generation API. The key
// is an opaque credential; it is never logged or persisted.
type GenerationConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// Enabled reports whether a credential is configured; without one the
// drafting stage stays on the template strategy.
func (g GenerationConfig) Enabled() bool {
	return g.APIKey != ""
}

// BrandConfig carries the brand voice injected into every draft.
type BrandConfig struct {
	Name    string   `yaml:"name"`
	Tone    string   `yaml:"tone"`
	Mission string   `yaml:"mission"`
	Vision  string   `yaml:"vision"`
	Pillars []string `yaml:"pillars"`
}

// DatabaseConfig describes the optional Postgres connection for re-run
// deduplication. An empty DSN disables the repository.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// OutputConfig locates the run artifacts on disk.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(generationKeyEnv); v != "" {
		c.Generation.APIKey = v
	}

	if v := os.Getenv(searchProviderEnv); v != "" {
		c.Pipeline.SearchProvider = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Pipeline.SearchProvider != "" {
		base.Pipeline.SearchProvider = override.Pipeline.SearchProvider
	}
	if override.Pipeline.SearchRateLimit > 0 {
		base.Pipeline.SearchRateLimit = override.Pipeline.SearchRateLimit
	}
	if override.Pipeline.Concurrency > 0 {
		base.Pipeline.Concurrency = override.Pipeline.Concurrency
	}
	if override.Pipeline.MaxRetries > 0 {
		base.Pipeline.MaxRetries = override.Pipeline.MaxRetries
	}
	if override.Pipeline.Backoff != "" {
		base.Pipeline.Backoff = override.Pipeline.Backoff
	}
	if override.Pipeline.MaxLookupsPerStage > 0 {
		base.Pipeline.MaxLookupsPerStage = override.Pipeline.MaxLookupsPerStage
	}

	if override.Generation.Endpoint != "" {
		base.Generation.Endpoint = override.Generation.Endpoint
	}
	if override.Generation.Model != "" {
		base.Generation.Model = override.Generation.Model
	}
	if override.Generation.APIKey != "" {
		base.Generation.APIKey = override.Generation.APIKey
	}

	if override.Brand.Name != "" {
		base.Brand.Name = override.Brand.Name
	}
	if override.Brand.Tone != "" {
		base.Brand.Tone = override.Brand.Tone
	}
	if override.Brand.Mission != "" {
		base.Brand.Mission = override.Brand.Mission
	}
	if override.Brand.Vision != "" {
		base.Brand.Vision = override.Brand.Vision
	}
	if len(override.Brand.Pillars) > 0 {
		base.Brand.Pillars = override.Brand.Pillars
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			SearchProvider:     "offline",
			SearchRateLimit:    60,
			Concurrency:        4,
			MaxRetries:         2,
			Backoff:            defaultBackoff,
			MaxLookupsPerStage: 2,
		},
		Generation: GenerationConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			APIKey:   "",
		},
		Brand: BrandConfig{
			Name:    "Life Legally Single",
			Tone:    "warm, journalist-first, no hype",
			Mission: "We equip singles with tools, community, and technology that elevate self-love, finance, travel, and personal growth.",
			Vision:  "We believe singlehood can be a power move rather than a placeholder.",
			Pillars: []string{"self-love", "finance", "travel", "personal growth"},
		},
		Database: DatabaseConfig{DSN: ""},
		Output:   OutputConfig{Dir: "outputs"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
