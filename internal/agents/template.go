package agents

import (
	"context"
	"fmt"
	"strings"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
)

// Template is the default draft strategy: a deterministic brand-voice fill
// with no external dependency. Given well-formed inputs it cannot fail,
// which is what makes it a safe fallback for the generative strategy.
type Template struct{}

var _ ports.DraftStrategy = (*Template)(nil)

// NewTemplate builds the strategy.
func NewTemplate() *Template {
	return &Template{}
}

// Name identifies the strategy in wiring and logs.
func (t *Template) Name() string {
	return "template"
}

// Generate fills the fixed pitch template from prospect, research and brand
// voice fields. Identical inputs always yield the identical draft.
func (t *Template) Generate(_ context.Context, prospect domain.Prospect, research domain.ResearchRecord, voice domain.BrandVoice) (string, string, error) {
	angle := firstAngle(research, voice)
	subject := "Story idea: " + sentenceCase(angle)

	var body strings.Builder
	body.WriteString(greeting(prospect) + "\n\n")

	body.WriteString(fmt.Sprintf("I’m reaching out on behalf of %s. %s\n\n", voice.Name, strings.TrimSpace(voice.Mission)))

	if len(research.Topics) > 0 {
		body.WriteString(fmt.Sprintf("We’ve been following your coverage of %s and thought you might be interested in a story about %s.\n\n",
			strings.Join(research.Topics, ", "), angle))
	} else {
		body.WriteString(fmt.Sprintf("We thought you might be interested in a story about %s.\n\n", angle))
	}

	if research.Summary.Resolved() {
		body.WriteString(fmt.Sprintf("Your recent work stood out to us. %s\n\n", research.Summary))
	}

	if vision := strings.TrimSpace(voice.Vision); vision != "" {
		body.WriteString(vision + "\n\n")
	}

	body.WriteString(fmt.Sprintf("Best regards,\n%s", voice.Name))
	return subject, body.String(), nil
}

func greeting(prospect domain.Prospect) string {
	name := prospect.ContactName
	if prospect.MatchedName.Resolved() {
		name = prospect.MatchedName.String()
	}
	if first := strings.Fields(name); len(first) > 0 {
		return "Hi " + first[0] + ","
	}
	return "Hi there,"
}

func firstAngle(research domain.ResearchRecord, voice domain.BrandVoice) string {
	if len(research.Angles) > 0 {
		return research.Angles[0]
	}
	if len(voice.Pillars) > 0 {
		return voice.Pillars[0]
	}
	return fmt.Sprintf("what %s is building for your readers", voice.Name)
}

func sentenceCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
