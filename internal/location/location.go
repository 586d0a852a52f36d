// Package location splits multi-place location strings into single places.
package location

import (
	"sort"
	"strings"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

const separator = ","

// Split returns the place names of a comma-separated location. A value
// without any usable piece yields itself (or Unknown when blank).
func Split(loc string) []string {
	parts := strings.Split(loc, separator)
	places := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			places = append(places, p)
		}
	}
	if len(places) == 0 {
		if trimmed := strings.TrimSpace(loc); trimmed != "" {
			return []string{trimmed}
		}
		return []string{models.Unknown}
	}
	return places
}

// Expand returns one event per place name, copying every other field. Row is
// preserved so expanded rows can be traced back to their source event.
func Expand(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		for _, place := range Split(e.Location) {
			dup := e
			dup.Location = place
			out = append(out, dup)
		}
	}
	return out
}

// Cities returns the sorted distinct place names across events.
func Cities(events []models.Event) []string {
	seen := make(map[string]struct{})
	for _, e := range events {
		for _, place := range Split(e.Location) {
			seen[place] = struct{}{}
		}
	}
	cities := make([]string, 0, len(seen))
	for c := range seen {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return cities
}
