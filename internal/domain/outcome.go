package domain

import "time"

// BrandVoice is the immutable brand context threaded into drafting. The
// core never parses it; configuration supplies it fully formed.
type BrandVoice struct {
	Name    string
	Tone    string
	Mission string
	Vision  string
	Pillars []string
}

// ItemOutcome is the per-contact result tuple handed to the writers.
// Exactly one of Pitch or Failure is set; Prospect and Research carry
// whatever the chain produced before it ended.
type ItemOutcome struct {
	Contact  RawContact
	Prospect *Prospect
	Research *ResearchRecord
	Pitch    *PitchRecord
	Failure  *StageError
}

// Succeeded reports whether the contact's chain reached a pitch.
func (o ItemOutcome) Succeeded() bool {
	return o.Pitch != nil && o.Failure == nil
}

// OutcomeStatus enumerates terminal states persisted for re-run dedup.
type OutcomeStatus string

const (
	StatusPitched OutcomeStatus = "pitched"
	StatusFailed  OutcomeStatus = "failed"
)

// ProcessedProspect is the snapshot persisted after a contact's chain ends,
// used to skip already-pitched journalists on later runs.
type ProcessedProspect struct {
	ContactName string
	Slug        string
	Subject     string
	Status      OutcomeStatus
	CreatedAt   time.Time
}
