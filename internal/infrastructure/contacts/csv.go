package contacts

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
)

// CSVSource loads raw contacts from a CSV file with a header row. Expected
// columns: name, outlet (or publication), keywords (semicolon separated)
// and profile_url; missing columns simply leave the field empty.
type CSVSource struct {
	path   string
	limit  int
	logger *slog.Logger
}

var _ ports.ContactSource = (*CSVSource)(nil)

// NewCSVSource wires a file path; limit 0 loads every row.
func NewCSVSource(path string, limit int, logger *slog.Logger) *CSVSource {
	return &CSVSource{path: path, limit: limit, logger: logger}
}

// Load reads the file and returns the ordered contact sequence. Rows that
// fail validation are skipped with a warning rather than failing the load.
func (s *CSVSource) Load(_ context.Context) ([]domain.RawContact, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open contacts file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read contacts header: %w", err)
	}
	columns := indexColumns(header)

	var contacts []domain.RawContact
	for {
		if s.limit > 0 && len(contacts) >= s.limit {
			break
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read contacts row: %w", err)
		}

		contact := domain.RawContact{
			Name:       cell(row, columns["name"]),
			Outlet:     cell(row, columns["outlet"]),
			ProfileURL: cell(row, columns["profile_url"]),
			Keywords:   splitKeywords(cell(row, columns["keywords"])),
		}
		if err := contact.Validate(); err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping contact row", "error", err)
			}
			continue
		}
		contacts = append(contacts, contact)
	}

	if s.logger != nil {
		s.logger.Debug("contacts loaded", "path", s.path, "count", len(contacts))
	}
	return contacts, nil
}

// indexColumns maps normalized header names to their positions. The outlet
// column also answers to "publication", its name in older prospect sheets.
func indexColumns(header []string) map[string]int {
	columns := map[string]int{"name": -1, "outlet": -1, "keywords": -1, "profile_url": -1}
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "publication" {
			normalized = "outlet"
		}
		if _, known := columns[normalized]; known {
			columns[normalized] = i
		}
	}
	return columns
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, kw := range strings.Split(raw, ";") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
