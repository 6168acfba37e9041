package agents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

func TestDiscoveryNeverLeavesFieldsAbsent(t *testing.T) {
	t.Parallel()

	// Hits that verify nothing: every unfilled field must end as sentinel.
	search := &stubSearch{hits: []ports.SearchHit{
		{Title: "Unrelated result", URL: "https://elsewhere.example", Snippet: "nothing useful"},
	}}
	agent := NewDiscovery(search, testGate(0), 2, nil)

	prospect, failure := agent.Run(context.Background(), domain.RawContact{Name: "Jordan Vega"})

	require.Nil(t, failure)
	require.NoError(t, prospect.Validate())
	assert.False(t, prospect.MatchedName.Resolved())
	assert.Equal(t, domain.Sentinel, prospect.Email.String())
	assert.Equal(t, domain.Sentinel, prospect.Outlet.String())
}

func TestDiscoveryMergesVerifiedFacts(t *testing.T) {
	t.Parallel()

	search := &stubSearch{hits: []ports.SearchHit{
		{
			Title:   "Jordan Vega — The Ledger",
			URL:     "https://theledger.example/jordan-vega",
			Snippet: "Reach Jordan at jordan.vega@theledger.example",
		},
	}}
	agent := NewDiscovery(search, testGate(0), 2, nil)

	contact := domain.RawContact{
		Name:     "Jordan Vega",
		Outlet:   "The Ledger",
		Keywords: []string{"housing", "city politics"},
	}
	prospect, failure := agent.Run(context.Background(), contact)

	require.Nil(t, failure)
	assert.Equal(t, "Jordan Vega", prospect.MatchedName.String())
	assert.Equal(t, "jordan.vega@theledger.example", prospect.Email.String())
	assert.Equal(t, "https://theledger.example/jordan-vega", prospect.ProfileURL.String())
	assert.Equal(t, "housing, city politics", prospect.Beat.String())
	assert.NotEmpty(t, prospect.Citations)
}

func TestDiscoveryRejectsMalformedContact(t *testing.T) {
	t.Parallel()

	search := &stubSearch{}
	agent := NewDiscovery(search, testGate(3), 2, nil)

	_, failure := agent.Run(context.Background(), domain.RawContact{Name: "   "})

	require.NotNil(t, failure)
	assert.Equal(t, domain.StageDiscovery, failure.Stage)
	assert.Equal(t, domain.KindNonRetryable, failure.Kind)
	assert.Zero(t, search.callCount(), "malformed input must not reach the provider")
}

func TestDiscoveryRetryExhaustionAttemptCount(t *testing.T) {
	t.Parallel()

	outage := guard.Retryable(fmt.Errorf("%w: http 503", ports.ErrSearchUnavailable))
	search := &stubSearch{err: outage}
	agent := NewDiscovery(search, testGate(2), 2, nil)

	_, failure := agent.Run(context.Background(), domain.RawContact{Name: "Jordan Vega"})

	require.NotNil(t, failure)
	assert.Equal(t, domain.StageDiscovery, failure.Stage)
	assert.Equal(t, domain.KindSearchUnavailable, failure.Kind)
	// 1 initial call + 2 retries, then the stage fails terminally.
	assert.Equal(t, 3, search.callCount())
}

func TestDiscoveryClassifiesPlainTransientFailure(t *testing.T) {
	t.Parallel()

	search := &stubSearch{err: guard.Retryable(errors.New("timeout"))}
	agent := NewDiscovery(search, testGate(0), 2, nil)

	_, failure := agent.Run(context.Background(), domain.RawContact{Name: "Jordan Vega"})

	require.NotNil(t, failure)
	assert.Equal(t, domain.KindRetryableExhausted, failure.Kind)
}

func TestDiscoveryStopsAtLookupCap(t *testing.T) {
	t.Parallel()

	// No hits verify anything, so the agent would keep querying; the stage
	// cap has to stop it.
	search := &stubSearch{hits: []ports.SearchHit{}}
	agent := NewDiscovery(search, testGate(0), 1, nil)

	_, failure := agent.Run(context.Background(), domain.RawContact{Name: "Jordan Vega"})

	require.Nil(t, failure)
	assert.Equal(t, 1, search.callCount())
}
