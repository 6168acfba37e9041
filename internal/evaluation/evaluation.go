// Package evaluation computes post-run metrics from human-annotated run
// artifacts. It runs after reviewers fill the manual_label column; the
// pipeline itself never sets labels.
package evaluation

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Result summarizes send-readiness over the labeled rows.
type Result struct {
	Labeled   int
	SendReady int
}

// Ratio returns the send-ready share among labeled rows, 0 when nothing is
// labeled.
func (r Result) Ratio() float64 {
	if r.Labeled == 0 {
		return 0
	}
	return float64(r.SendReady) / float64(r.Labeled)
}

// SendReadiness reads a pitch summary CSV and counts manual labels: 1 means
// send-ready, 0 means needs work, empty rows are ignored.
func SendReadiness(summaryPath string) (Result, error) {
	file, err := os.Open(summaryPath)
	if err != nil {
		return Result{}, fmt.Errorf("open summary: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read summary header: %w", err)
	}

	labelIdx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "manual_label") {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return Result{}, fmt.Errorf("summary has no manual_label column")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read summary rows: %w", err)
	}

	var result Result
	for _, row := range rows {
		if labelIdx >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[labelIdx])
		if raw == "" {
			continue
		}
		label, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		result.Labeled++
		if label == 1 {
			result.SendReady++
		}
	}

	return result, nil
}
