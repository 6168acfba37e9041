package search

import (
	"context"
	"testing"

	"PitchPipeline/internal/ports"
)

type namedProvider struct{ name string }

func (p namedProvider) Name() string { return p.name }

func (p namedProvider) Lookup(context.Context, string, int) ([]ports.SearchHit, error) {
	return nil, nil
}

func TestRegistryResolvesByName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(namedProvider{name: "offline"})
	registry.Register(namedProvider{name: "live"})

	provider, err := registry.Resolve("live")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if provider.Name() != "live" {
		t.Errorf("resolved wrong provider: %s", provider.Name())
	}
}

func TestRegistryRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(namedProvider{name: "offline"})

	if _, err := registry.Resolve("bing"); err == nil {
		t.Fatal("expected an error for an unregistered provider")
	}
}
