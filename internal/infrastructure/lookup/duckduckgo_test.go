package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

const litePage = `
<html><body><table>
  <tr><td>1.</td><td><a rel="nofollow" href="https://theledger.example/jordan-vega" class="result-link">Jordan Vega — The Ledger</a></td></tr>
  <tr><td>&nbsp;</td><td class="result-snippet">Jordan Vega covers housing and city politics. Contact: jordan.vega@theledger.example</td></tr>
  <tr><td>2.</td><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Ftheledger.example%2Flatest" class="result-link">Latest coverage on housing</a></td></tr>
  <tr><td>&nbsp;</td><td class="result-snippet">The newest piece from the city desk.</td></tr>
</table></body></html>`

func TestDuckDuckGoLookupParsesLitePage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("q") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(litePage))
	}))
	defer server.Close()

	provider := NewDuckDuckGo(server.Client())
	provider.endpoint = server.URL

	hits, err := provider.Lookup(context.Background(), "Jordan Vega The Ledger", 5)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Title != "Jordan Vega — The Ledger" {
		t.Fatalf("unexpected title: %q", hits[0].Title)
	}
	if hits[0].URL != "https://theledger.example/jordan-vega" {
		t.Fatalf("unexpected url: %q", hits[0].URL)
	}
	if hits[0].Snippet == "" {
		t.Fatalf("snippet should be paired with its result link")
	}
	if hits[1].URL != "https://theledger.example/latest" {
		t.Fatalf("redirect link not unwrapped: %q", hits[1].URL)
	}
}

func TestDuckDuckGoLookupHonorsLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(litePage))
	}))
	defer server.Close()

	provider := NewDuckDuckGo(server.Client())
	provider.endpoint = server.URL

	hits, err := provider.Lookup(context.Background(), "anything", 1)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestDuckDuckGoLookupReportsOutage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewDuckDuckGo(server.Client())
	provider.endpoint = server.URL

	_, err := provider.Lookup(context.Background(), "anything", 5)
	if err == nil {
		t.Fatalf("expected outage error")
	}
	if !errors.Is(err, ports.ErrSearchUnavailable) {
		t.Fatalf("outage must surface as ErrSearchUnavailable, got %v", err)
	}
	if !guard.IsRetryable(err) {
		t.Fatalf("outage must be retryable")
	}
}

func TestDuckDuckGoLookupTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	endpoint := server.URL
	server.Close() // connection refused from here on

	provider := NewDuckDuckGo(nil)
	provider.endpoint = endpoint

	_, err := provider.Lookup(context.Background(), "anything", 5)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !errors.Is(err, ports.ErrSearchUnavailable) || !guard.IsRetryable(err) {
		t.Fatalf("transport failure must be a retryable outage, got %v", err)
	}
}
