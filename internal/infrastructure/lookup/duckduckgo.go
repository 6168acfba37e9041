package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

const ddgLiteEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGo scrapes the DuckDuckGo lite HTML page. It needs no credential,
// which keeps the live provider usable without holding any provider account.
type DuckDuckGo struct {
	client   *http.Client
	endpoint string
}

var _ ports.SearchProvider = (*DuckDuckGo)(nil)

// NewDuckDuckGo wires an HTTP client; a nil client gets a 10s timeout default.
func NewDuckDuckGo(client *http.Client) *DuckDuckGo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGo{client: client, endpoint: ddgLiteEndpoint}
}

// Name identifies the provider inside the registry.
func (d *DuckDuckGo) Name() string {
	return "live"
}

// Lookup posts the query to the lite page and extracts result rows. Any
// transport failure or non-200 status surfaces as a retryable
// ErrSearchUnavailable rather than a silently empty result set.
func (d *DuckDuckGo) Lookup(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if limit <= 0 {
		return []ports.SearchHit{}, nil
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, guard.Retryable(fmt.Errorf("%w: %v", ports.ErrSearchUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, guard.Retryable(fmt.Errorf("%w: http %d", ports.ErrSearchUnavailable, resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, guard.Retryable(fmt.Errorf("%w: parse page: %v", ports.ErrSearchUnavailable, err))
	}

	return extractHits(doc, limit), nil
}

// extractHits walks the lite page's result links and pairs each with the
// snippet cell that follows it.
func extractHits(doc *goquery.Document, limit int) []ports.SearchHit {
	hits := make([]ports.SearchHit, 0, limit)

	doc.Find("a.result-link").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		snippet := link.Closest("tr").NextFiltered("tr").Find("td.result-snippet").Text()
		hits = append(hits, ports.SearchHit{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(snippet),
		})
		return len(hits) < limit
	})

	return hits
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// destination URL.
func resolveRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") && !strings.HasPrefix(href, "/l/") {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
