package lookup

import (
	"context"
	"reflect"
	"testing"

	"PitchPipeline/internal/ports"
)

func TestOfflineDeterminism(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := NewOffline()

	first, err := provider.Lookup(ctx, "Jordan Vega The Ledger", 5)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	second, err := provider.Lookup(ctx, "Jordan Vega The Ledger", 5)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical queries diverged:\n%v\n%v", first, second)
	}

	// A fresh instance simulates a separate run; results must still match.
	other, err := NewOffline().Lookup(ctx, "Jordan Vega The Ledger", 5)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if !reflect.DeepEqual(first, other) {
		t.Fatalf("results changed across instances")
	}
}

func TestOfflineDistinctQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := NewOffline()

	a, _ := provider.Lookup(ctx, "Jordan Vega", 3)
	b, _ := provider.Lookup(ctx, "Sam Okafor", 3)

	if reflect.DeepEqual(a, b) {
		t.Fatalf("different queries should not share a result sequence")
	}
}

func TestOfflineHonorsLimit(t *testing.T) {
	t.Parallel()

	provider := NewOffline()
	hits, err := provider.Lookup(context.Background(), "anyone", 2)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	none, err := provider.Lookup(context.Background(), "anyone", 0)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("limit 0 should return no hits")
	}
}

func TestOfflineFixturePrecedence(t *testing.T) {
	t.Parallel()

	provider := NewOffline()
	pinned := []ports.SearchHit{
		{Title: "Jordan Vega profile", URL: "https://theledger.example/jordan", Snippet: "Staff writer."},
	}
	provider.SetFixture("Jordan Vega", pinned)

	hits, err := provider.Lookup(context.Background(), "Jordan Vega", 5)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if len(hits) != 1 || hits[0].URL != "https://theledger.example/jordan" {
		t.Fatalf("fixture not honored: %v", hits)
	}
}

func TestOfflineTitleCarriesQuery(t *testing.T) {
	t.Parallel()

	hits, err := NewOffline().Lookup(context.Background(), "Jordan Vega", 1)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected one hit")
	}
	if got := hits[0].Title; len(got) == 0 || got[:len("Jordan Vega")] != "Jordan Vega" {
		t.Fatalf("synthesized title should open with the query, got %q", got)
	}
}
