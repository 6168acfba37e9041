package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PitchPipeline/internal/config"
	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
)

func testClient(endpoint string, maxRetries int) *OpenAIClient {
	return NewOpenAIClient(config.GenerationConfig{
		Endpoint: endpoint,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	}, guard.NewGate(600000, maxRetries, time.Millisecond))
}

func testInputs() (domain.Prospect, domain.ResearchRecord, domain.BrandVoice) {
	prospect := domain.Prospect{
		ContactName: "Jordan Vega",
		MatchedName: domain.Known("Jordan Vega"),
		Outlet:      domain.Known("The Ledger"),
		Beat:        domain.Known("housing"),
		Email:       domain.Unknown(),
		ProfileURL:  domain.Unknown(),
	}
	research := domain.ResearchRecord{
		ProspectName: "Jordan Vega",
		Topics:       []string{"housing"},
		Summary:      domain.Known("Covers city housing policy."),
		Angles:       []string{"follow up on rent control"},
	}
	return prospect, research, domain.BrandVoice{Name: "Life Legally Single", Tone: "warm"}
}

func completionResponse(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(raw)
}

func TestGenerateParsesSubjectAndBody(t *testing.T) {
	t.Parallel()

	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model %q", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", payload.Messages)
		}
		if !strings.Contains(payload.Messages[1].Content, "Jordan Vega") {
			t.Errorf("prompt should name the prospect: %q", payload.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("Subject: A rent control story\n\nHi Jordan,\n\nBody here.")))
	}))
	defer server.Close()

	prospect, research, voice := testInputs()
	subject, body, err := testClient(server.URL, 0).Generate(context.Background(), prospect, research, voice)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if subject != "A rent control story" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.HasPrefix(body, "Hi Jordan,") {
		t.Errorf("body = %q", body)
	}
	if authHeader != "Bearer sk-test" {
		t.Errorf("authorization header = %q", authHeader)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionResponse("Subject: Second try\n\nBody.")))
	}))
	defer server.Close()

	prospect, research, voice := testInputs()
	subject, _, err := testClient(server.URL, 2).Generate(context.Background(), prospect, research, voice)
	if err != nil {
		t.Fatalf("generate after retry: %v", err)
	}
	if subject != "Second try" {
		t.Errorf("subject = %q", subject)
	}
	if calls != 2 {
		t.Errorf("expected one retry, got %d calls", calls)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "bad model"}`))
	}))
	defer server.Close()

	prospect, research, voice := testInputs()
	_, _, err := testClient(server.URL, 2).Generate(context.Background(), prospect, research, voice)
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if calls != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls)
	}
	if !strings.Contains(err.Error(), "bad model") {
		t.Errorf("error should carry the response excerpt: %v", err)
	}
}

func TestGenerateRequiresCredential(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient(config.GenerationConfig{
		Endpoint: "https://api.example.org",
		Model:    "gpt-4o-mini",
	}, guard.NewGate(600000, 0, time.Millisecond))

	prospect, research, voice := testInputs()
	if _, _, err := client.Generate(context.Background(), prospect, research, voice); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestSplitDraft(t *testing.T) {
	t.Parallel()

	voice := domain.BrandVoice{Name: "Life Legally Single"}

	subject, body := splitDraft("Subject: Hello\n\nBody text.", voice)
	if subject != "Hello" || body != "Body text." {
		t.Errorf("got subject %q body %q", subject, body)
	}

	subject, body = splitDraft("# Leading heading\nRest of draft.", voice)
	if subject != "Leading heading" || body != "Rest of draft." {
		t.Errorf("heading fallback: subject %q body %q", subject, body)
	}

	subject, body = splitDraft("Only one line", voice)
	if subject != "Only one line" || body == "" {
		t.Errorf("single line draft should synthesize a body, got %q / %q", subject, body)
	}

	if subject, body = splitDraft("   \n\n", voice); subject != "" || body != "" {
		t.Errorf("blank draft should yield empty results, got %q / %q", subject, body)
	}
}
