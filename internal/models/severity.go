package models

import "strings"

// Severity is the predicted severity label of an event.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// ParseSeverity canonicalises known labels case-insensitively and keeps any
// other text untouched.
func ParseSeverity(s string) Severity {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	default:
		return Severity(trimmed)
	}
}

// Ordinal maps Low=1, Medium=2, High=3. The second return value is false for
// anything else.
func (s Severity) Ordinal() (float64, bool) {
	switch s {
	case SeverityLow:
		return 1, true
	case SeverityMedium:
		return 2, true
	case SeverityHigh:
		return 3, true
	default:
		return 0, false
	}
}

func (s Severity) String() string {
	return string(s)
}
