package domain

import (
	"time"

	"github.com/google/uuid"
)

// ManifestEntry records one contact that did not reach a pitch.
type ManifestEntry struct {
	Contact string    `json:"contact"`
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// RunManifest is the single source of truth for one pipeline execution.
// The orchestrator is its sole writer and serializes every mutation;
// the type itself is not safe for concurrent use.
type RunManifest struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Failures   []ManifestEntry `json:"failures"`
}

// NewRunManifest opens a manifest for a run over total contacts.
func NewRunManifest(total int) *RunManifest {
	return &RunManifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Total:     total,
		Failures:  []ManifestEntry{},
	}
}

// RecordSuccess counts one contact that produced a pitch.
func (m *RunManifest) RecordSuccess() {
	m.Succeeded++
}

// RecordFailure appends the terminal stage error for one contact.
func (m *RunManifest) RecordFailure(contact string, stageErr *StageError) {
	m.Failures = append(m.Failures, ManifestEntry{
		Contact: contact,
		Stage:   stageErr.Stage,
		Kind:    stageErr.Kind,
		Message: stageErr.Err.Error(),
	})
}

// FailureCount returns how many contacts ended in a manifest error entry.
func (m *RunManifest) FailureCount() int {
	return len(m.Failures)
}

// Finish stamps the end of the run.
func (m *RunManifest) Finish() {
	m.FinishedAt = time.Now().UTC()
}
