package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PitchPipeline/internal/config"
	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/guard"
	"PitchPipeline/internal/ports"
)

// OpenAIClient implements the generative draft strategy against
// OpenAI-compatible chat-completion APIs. Calls run under the shared gate so
// generation and search draw on the same per-minute budget and retry policy.
type OpenAIClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	gate       *guard.Gate
}

var _ ports.DraftStrategy = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.GenerationConfig, gate *guard.Gate) *OpenAIClient {
	return &OpenAIClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		gate:     gate,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Name identifies the strategy in wiring and logs.
func (c *OpenAIClient) Name() string {
	return "generative"
}

// Generate asks the model for a complete pitch and splits it into subject
// and body. Transport failures and provider throttling are retried by the
// gate; whatever error survives is the caller's cue to fall back.
func (c *OpenAIClient) Generate(ctx context.Context, prospect domain.Prospect, research domain.ResearchRecord, voice domain.BrandVoice) (string, string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", "", fmt.Errorf("generation client misconfigured")
	}

	prompt := buildPrompt(prospect, research, voice)

	var content string
	err := c.gate.Do(ctx, func(ctx context.Context) error {
		var callErr error
		content, callErr = c.complete(ctx, systemPrompt(voice), prompt)
		return callErr
	})
	if err != nil {
		return "", "", fmt.Errorf("generate draft: %w", err)
	}

	subject, body := splitDraft(content, voice)
	if subject == "" || body == "" {
		return "", "", fmt.Errorf("generation returned an unusable draft")
	}
	return subject, body, nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", guard.Retryable(fmt.Errorf("generation call: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", guard.Retryable(fmt.Errorf("generation error %s", resp.Status))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("generation error %s: %s", resp.Status, strings.TrimSpace(string(excerpt)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func systemPrompt(voice domain.BrandVoice) string {
	return fmt.Sprintf(
		"You are an outreach assistant for %s. Our tone is %s. "+
			"Write journalist-first pitches: concise, specific, no hard sell and no hype. "+
			"Open with the writer's recent work when research provides it. "+
			"Return the draft as a 'Subject:' line followed by the Markdown body.",
		voice.Name, voice.Tone)
}

func buildPrompt(prospect domain.Prospect, research domain.ResearchRecord, voice domain.BrandVoice) string {
	topics := "recent trends"
	if len(research.Topics) > 0 {
		topics = strings.Join(research.Topics, ", ")
	}
	angle := "a fresh story for their readers"
	if len(research.Angles) > 0 {
		angle = research.Angles[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a pitch to %s", prospect.ContactName)
	if prospect.Outlet.Resolved() {
		fmt.Fprintf(&b, " of %s", prospect.Outlet)
	}
	fmt.Fprintf(&b, ", who covers %s. ", topics)
	if research.Summary.Resolved() {
		fmt.Fprintf(&b, "Their most recent relevant work: %s ", research.Summary)
	}
	fmt.Fprintf(&b, "The angle for this pitch is: %s. ", angle)
	fmt.Fprintf(&b, "Introduce %s, its mission (%s) and why this story would resonate with their audience.",
		voice.Name, voice.Mission)
	return b.String()
}

// splitDraft separates the model output into subject and body. Models asked
// for a "Subject:" line usually comply; when they do not, the first
// non-empty line becomes the subject.
func splitDraft(content string, voice domain.BrandVoice) (string, string) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		subject := strings.TrimSpace(strings.TrimPrefix(trimmed, "Subject:"))
		subject = strings.Trim(subject, "# ")
		body := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		if body == "" {
			body = fmt.Sprintf("%s\n\nBest regards,\n%s", subject, voice.Name)
		}
		return subject, body
	}
	return "", ""
}
