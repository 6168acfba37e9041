package writer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
)

const excerptLen = 200

// FileWriter persists run artifacts under a single output directory:
// pitches/<slug>.md per draft, pitch_summary.csv with an empty manual_label
// column for reviewers, research/journalist_research.csv and
// run_manifest.json.
type FileWriter struct {
	dir    string
	logger *slog.Logger
}

var _ ports.PitchWriter = (*FileWriter)(nil)
var _ ports.ResearchWriter = (*FileWriter)(nil)
var _ ports.ManifestWriter = (*FileWriter)(nil)

// NewFileWriter roots all artifacts at dir.
func NewFileWriter(dir string, logger *slog.Logger) *FileWriter {
	return &FileWriter{dir: dir, logger: logger}
}

// WritePitches writes one Markdown file per successful draft plus the
// summary CSV covering every contact, failed ones included.
func (w *FileWriter) WritePitches(_ context.Context, outcomes []domain.ItemOutcome) error {
	pitchesDir := filepath.Join(w.dir, "pitches")
	if err := os.MkdirAll(pitchesDir, 0o755); err != nil {
		return fmt.Errorf("create pitches dir: %w", err)
	}

	rows := [][]string{}
	for _, outcome := range outcomes {
		if outcome.Pitch == nil {
			reason := ""
			if outcome.Failure != nil {
				reason = outcome.Failure.Error()
			}
			rows = append(rows, []string{outcome.Contact.Name, "", "", "", reason})
			continue
		}

		pitch := outcome.Pitch
		path := filepath.Join(pitchesDir, pitch.Slug+".md")
		if err := os.WriteFile(path, []byte(renderPitch(pitch)), 0o644); err != nil {
			return fmt.Errorf("write pitch %s: %w", pitch.Slug, err)
		}

		rows = append(rows, []string{
			pitch.ProspectName,
			pitch.Slug,
			pitch.Subject,
			excerpt(pitch.Body),
			pitch.ReviewLabel,
		})
	}

	header := []string{"prospect_name", "slug", "subject_line", "pitch_excerpt", "manual_label"}
	if err := w.writeCSV(filepath.Join(w.dir, "pitch_summary.csv"), header, rows); err != nil {
		return err
	}

	if w.logger != nil {
		w.logger.Debug("pitches written", "dir", pitchesDir, "rows", len(rows))
	}
	return nil
}

// WriteResearch writes the research CSV for every outcome that produced a
// prospect, whether or not its chain reached a pitch.
func (w *FileWriter) WriteResearch(_ context.Context, outcomes []domain.ItemOutcome) error {
	researchDir := filepath.Join(w.dir, "research")
	if err := os.MkdirAll(researchDir, 0o755); err != nil {
		return fmt.Errorf("create research dir: %w", err)
	}

	rows := [][]string{}
	for _, outcome := range outcomes {
		if outcome.Prospect == nil {
			continue
		}
		p := outcome.Prospect

		topics, summary, angles, citations := "", domain.Sentinel, "", ""
		if r := outcome.Research; r != nil {
			topics = strings.Join(r.Topics, "; ")
			summary = r.Summary.String()
			angles = strings.Join(r.Angles, "; ")
			citations = joinCitationURLs(r.Citations)
		}

		rows = append(rows, []string{
			p.ContactName,
			p.MatchedName.String(),
			p.Email.String(),
			p.Outlet.String(),
			p.ProfileURL.String(),
			topics,
			summary,
			angles,
			citations,
		})
	}

	header := []string{
		"prospect_name", "matched_name", "email", "outlet",
		"profile_url", "topics", "summary", "angles", "citations",
	}
	return w.writeCSV(filepath.Join(researchDir, "journalist_research.csv"), header, rows)
}

// WriteManifest serializes the finalized manifest as indented JSON.
func (w *FileWriter) WriteManifest(_ context.Context, manifest *domain.RunManifest) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	path := filepath.Join(w.dir, "run_manifest.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (w *FileWriter) writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("write rows: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return file.Close()
}

func renderPitch(pitch *domain.PitchRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pitch.Subject)
	b.WriteString(pitch.Body)
	b.WriteString("\n")

	if len(pitch.Citations) > 0 {
		b.WriteString("\n---\n\nSources:\n")
		for _, c := range pitch.Citations {
			fmt.Fprintf(&b, "- %s\n", c.URL)
		}
	}
	return b.String()
}

func excerpt(body string) string {
	flat := strings.ReplaceAll(body, "\n", " ")
	runes := []rune(flat)
	if len(runes) <= excerptLen {
		return flat
	}
	return string(runes[:excerptLen]) + "..."
}

func joinCitationURLs(citations []domain.Citation) string {
	urls := make([]string, 0, len(citations))
	for _, c := range citations {
		urls = append(urls, c.URL)
	}
	return strings.Join(urls, ";")
}
