package agents

import (
	"context"
	"sync"
	"time"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

// testGate builds a gate that never throttles tests noticeably.
func testGate(maxRetries int) *guard.Gate {
	return guard.NewGate(600000, maxRetries, time.Millisecond)
}

// stubSearch is a scripted provider shared by the agent tests.
type stubSearch struct {
	mu    sync.Mutex
	hits  []ports.SearchHit
	err   error
	calls int
}

func (s *stubSearch) Name() string { return "stub" }

func (s *stubSearch) Lookup(_ context.Context, _ string, limit int) ([]ports.SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.hits) > limit {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

func (s *stubSearch) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// failingStrategy always errors, for exercising the drafting fallback.
type failingStrategy struct{ err error }

func (f *failingStrategy) Name() string { return "failing" }

func (f *failingStrategy) Generate(context.Context, domain.Prospect, domain.ResearchRecord, domain.BrandVoice) (string, string, error) {
	return "", "", f.err
}

func testVoice() domain.BrandVoice {
	return domain.BrandVoice{
		Name:    "Life Legally Single",
		Tone:    "warm, journalist-first",
		Mission: "We equip singles with tools that elevate self-love and personal growth.",
		Vision:  "Singlehood as a power move.",
		Pillars: []string{"self-love", "finance"},
	}
}

func testProspect() domain.Prospect {
	return domain.Prospect{
		ContactName: "Jordan Vega",
		MatchedName: domain.Known("Jordan Vega"),
		Outlet:      domain.Known("The Ledger"),
		Beat:        domain.Known("housing, city politics"),
		Email:       domain.Unknown(),
		ProfileURL:  domain.Unknown(),
	}
}
