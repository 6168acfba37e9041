package domain

import (
	"fmt"
	"strings"
)

// MaxAngles bounds the number of suggested pitch angles per research record.
const MaxAngles = 5

// Stage names one step of the per-contact processing chain.
type Stage string

const (
	StageDiscovery Stage = "discovery"
	StageResearch  Stage = "research"
	StageDrafting  Stage = "drafting"
)

// RawContact is the immutable input row describing one journalist.
type RawContact struct {
	Name       string
	Outlet     string
	Keywords   []string
	ProfileURL string
}

// Validate rejects contacts that cannot identify a journalist at all.
func (c RawContact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contact name is required")
	}
	return nil
}

// Citation references the public source backing an extracted fact.
type Citation struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Prospect is the validated identity record produced by discovery.
// Every field is either a resolved value or the unknown sentinel; partial
// records never leave the discovery stage.
type Prospect struct {
	ContactName string
	MatchedName Field
	Outlet      Field
	Beat        Field
	Email       Field
	ProfileURL  Field
	Citations   []Citation
}

// Validate enforces that every declared field survived discovery, possibly
// as the sentinel.
func (p Prospect) Validate() error {
	if strings.TrimSpace(p.ContactName) == "" {
		return fmt.Errorf("prospect contact name is required")
	}
	fields := map[string]Field{
		"matched_name": p.MatchedName,
		"outlet":       p.Outlet,
		"beat":         p.Beat,
		"email":        p.Email,
		"profile_url":  p.ProfileURL,
	}
	for name, f := range fields {
		if !f.Set() {
			return fmt.Errorf("prospect field %s is absent", name)
		}
	}
	return nil
}

// ResearchRecord summarizes a prospect's recent published work.
type ResearchRecord struct {
	ProspectName string
	Topics       []string
	Summary      Field
	Angles       []string
	Citations    []Citation
}

// Validate checks shape; an empty record with a sentinel summary is valid,
// it means research found nothing rather than failed.
func (r ResearchRecord) Validate() error {
	if strings.TrimSpace(r.ProspectName) == "" {
		return fmt.Errorf("research prospect name is required")
	}
	if !r.Summary.Set() {
		return fmt.Errorf("research summary is absent")
	}
	if len(r.Angles) > MaxAngles {
		return fmt.Errorf("research has %d angles, max %d", len(r.Angles), MaxAngles)
	}
	return nil
}

// PitchRecord is the terminal draft artifact awaiting human review.
// ReviewLabel stays empty; it is reserved for post-run manual annotation.
type PitchRecord struct {
	ProspectName string
	Slug         string
	Subject      string
	Body         string
	ReviewLabel  string
	Citations    []Citation
}

// Validate rejects drafts missing the parts a reviewer needs.
func (p PitchRecord) Validate() error {
	if strings.TrimSpace(p.ProspectName) == "" {
		return fmt.Errorf("pitch prospect name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("pitch slug is required")
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("pitch subject is empty")
	}
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("pitch body is empty")
	}
	return nil
}
