// Package agents holds the three pipeline stages: discovery resolves a raw
// contact into a prospect, research gathers recent work, drafting composes
// the pitch. Each stage owns its retries via the shared guard gate and
// reports terminal failures as domain.StageError.
package agents

import (
	"errors"
	"regexp"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

// hitLimit is how many hits a single guarded lookup asks for.
const hitLimit = 5

var emailExpr = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// classify maps a terminal guarded-call error onto a manifest error kind.
func classify(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, ports.ErrSearchUnavailable):
		return domain.KindSearchUnavailable
	case guard.IsRetryable(err):
		return domain.KindRetryableExhausted
	default:
		return domain.KindNonRetryable
	}
}

// citationsFromHits turns a hit sequence into citation references.
func citationsFromHits(hits []ports.SearchHit, description string) []domain.Citation {
	citations := make([]domain.Citation, 0, len(hits))
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}
		citations = append(citations, domain.Citation{URL: hit.URL, Description: description})
	}
	return citations
}
