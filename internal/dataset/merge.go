package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

var (
	ErrRowCountMismatch = errors.New("prediction rows do not align with events")
	ErrDuplicateKey     = errors.New("duplicate key in prediction file")
)

// Substrings used to locate prediction columns.
const (
	DeadlySubstring   = "deadly"
	SeveritySubstring = "severity"
)

// Predictions are model-output tables to append onto the events. Either
// table may be nil.
type Predictions struct {
	Deadly   *Table
	Severity *Table
	// KeyColumn joins on a shared identifier instead of row position. Events
	// must have been loaded with the same LoadOptions.KeyColumn.
	KeyColumn string
}

// MergePredictions returns a copy of events with the predicted labels set.
func MergePredictions(events []models.Event, p Predictions) ([]models.Event, error) {
	merged := make([]models.Event, len(events))
	copy(merged, events)

	if p.Deadly != nil {
		labels, err := predictionLabels(merged, p.Deadly, DeadlySubstring, p.KeyColumn)
		if err != nil {
			return nil, err
		}
		for i := range merged {
			merged[i].Deadly = DeadlyLabel(labels[i])
		}
	}

	if p.Severity != nil {
		labels, err := predictionLabels(merged, p.Severity, SeveritySubstring, p.KeyColumn)
		if err != nil {
			return nil, err
		}
		for i := range merged {
			merged[i].Severity = models.ParseSeverity(labels[i])
		}
	}

	return merged, nil
}

// predictionLabels returns one raw label per event, aligned with events.
func predictionLabels(events []models.Event, raw *Table, substr, keyColumn string) ([]string, error) {
	t, err := raw.Normalized()
	if err != nil {
		return nil, err
	}
	col, err := FindColumn(t, substr)
	if err != nil {
		return nil, err
	}
	values, err := t.Column(col)
	if err != nil {
		return nil, err
	}

	if keyColumn == "" {
		if len(values) != len(events) {
			return nil, fmt.Errorf("%w: %s has %d rows, base dataset has %d",
				ErrRowCountMismatch, t.Name, len(values), len(events))
		}
		return values, nil
	}

	keys, err := t.Column(strings.ToLower(strings.TrimSpace(keyColumn)))
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]string, len(keys))
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := byKey[k]; dup {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateKey, k, t.Name)
		}
		byKey[k] = values[i]
	}

	// Blank keys are missing identifiers and never match.
	labels := make([]string, len(events))
	for i := range events {
		if events[i].Key != "" {
			labels[i] = byKey[events[i].Key]
		}
	}
	return labels, nil
}

// DeadlyLabel maps a numeric indicator to "Yes" (non-zero) or "No" (zero)
// and leaves textual values untouched.
func DeadlyLabel(raw string) string {
	s := strings.TrimSpace(raw)
	v, ok := parseNumber(s)
	if !ok {
		return s
	}
	if v != 0 {
		return models.DeadlyYes
	}
	return models.DeadlyNo
}
