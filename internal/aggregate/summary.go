// Package aggregate derives the metrics and chart tables of the disaster
// dashboard from a filtered view. Every function is pure; nothing is cached
// between views.
package aggregate

import (
	"errors"
	"sort"

	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/stats"
)

var ErrEmptyView = errors.New("no events match the selected filters")

// DeadliestEvent identifies the row with the most deaths.
type DeadliestEvent struct {
	Row          int     `json:"row"`
	DisasterType string  `json:"disaster_type"`
	Location     string  `json:"location"`
	StartYear    *int    `json:"start_year"`
	TotalDeaths  float64 `json:"total_deaths"`
}

// Summary holds the scalar metric tiles.
type Summary struct {
	Events               int            `json:"events"`
	TotalDeaths          float64        `json:"total_deaths"`
	AverageDeaths        float64        `json:"average_deaths"`
	MostCommonType       string         `json:"most_common_type"`
	Deadliest            DeadliestEvent `json:"deadliest_event"`
	MostFrequentLocation string         `json:"most_frequent_location"`
	MostFrequentSubgroup string         `json:"most_frequent_subgroup"`
	EarliestYear         *int           `json:"earliest_year"`
	LatestYear           *int           `json:"latest_year"`
	DistinctSubgroups    int            `json:"distinct_subgroups"`
}

// TotalDeaths is the deaths sum; 0 for no events.
func TotalDeaths(events []models.Event) float64 {
	var total float64
	for _, e := range events {
		total += e.TotalDeaths
	}
	return total
}

// Summarize computes the metric tiles. An empty view is reported as
// ErrEmptyView instead of producing undefined means and modes.
func Summarize(view filter.View) (*Summary, error) {
	events := view.Events
	if len(events) == 0 {
		return nil, ErrEmptyView
	}

	s := &Summary{
		Events:      len(events),
		TotalDeaths: TotalDeaths(events),
	}
	s.AverageDeaths = stats.Round(s.TotalDeaths/float64(len(events)), 2)

	types := make([]string, len(events))
	locations := make([]string, len(events))
	subgroups := make([]string, len(events))
	deadliest := 0
	for i, e := range events {
		types[i] = e.DisasterType
		locations[i] = e.Location
		subgroups[i] = e.DisasterSubgroup

		if e.TotalDeaths > events[deadliest].TotalDeaths {
			deadliest = i
		}
		if y, ok := e.Year(); ok {
			if s.EarliestYear == nil || y < *s.EarliestYear {
				s.EarliestYear = models.IntPtr(y)
			}
			if s.LatestYear == nil || y > *s.LatestYear {
				s.LatestYear = models.IntPtr(y)
			}
		}
	}

	s.MostCommonType = Mode(types)
	s.MostFrequentLocation = Mode(locations)
	s.MostFrequentSubgroup = Mode(subgroups)
	s.DistinctSubgroups = len(distinct(subgroups))

	d := events[deadliest]
	s.Deadliest = DeadliestEvent{
		Row:          d.Row,
		DisasterType: d.DisasterType,
		Location:     d.Location,
		StartYear:    d.StartYear,
		TotalDeaths:  d.TotalDeaths,
	}

	return s, nil
}

// Mode returns the most frequent value; ties resolve to the lexicographically
// first value. Empty input yields "".
func Mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

// distinct returns the sorted distinct values.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
