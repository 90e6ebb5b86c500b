package queue

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/bilgisen/skypost/internal/models"
)

// column order of the content sheet
var expectedHeader = []string{"id", "topic", "link", "tags", "cta", "active", "image_ids"}

// Load reads the content sheet. Rows keep their file order; inactive rows
// are kept so the selector can report an accurate queue size.
func Load(path string) ([]models.QueueItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(expectedHeader)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse queue file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("queue file %s is empty", path)
	}

	if err := checkHeader(records[0]); err != nil {
		return nil, fmt.Errorf("queue file %s: %w", path, err)
	}

	items := make([]models.QueueItem, 0, len(records)-1)
	seen := make(map[string]bool)
	for i, rec := range records[1:] {
		item, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("queue file %s row %d: %w", path, i+2, err)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("queue file %s row %d: duplicate id %q", path, i+2, item.ID)
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items, nil
}

func checkHeader(row []string) error {
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(row[i])) != want {
			return fmt.Errorf("unexpected header column %d: got %q, want %q", i, row[i], want)
		}
	}
	return nil
}

func parseRow(rec []string) (models.QueueItem, error) {
	id := strings.TrimSpace(rec[0])
	if id == "" {
		return models.QueueItem{}, fmt.Errorf("missing required field: id")
	}
	topic := strings.TrimSpace(rec[1])
	if topic == "" {
		return models.QueueItem{}, fmt.Errorf("missing required field: topic")
	}
	return models.QueueItem{
		ID:       id,
		Topic:    topic,
		Link:     strings.TrimSpace(rec[2]),
		Tags:     splitList(rec[3]),
		CTA:      strings.TrimSpace(rec[4]),
		Active:   strings.EqualFold(strings.TrimSpace(rec[5]), "true"),
		ImageIDs: splitList(rec[6]),
	}, nil
}

// splitList parses a semicolon-delimited cell into its non-empty entries.
func splitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
