package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/stats"
)

var ErrUnknownDimension = errors.New("unknown grouping dimension")

// Dimension is a categorical column the deaths/damage chart can group by.
type Dimension string

const (
	DimensionType    Dimension = models.ColType
	DimensionSubtype Dimension = models.ColSubtype
)

// Dimensions lists the selectable grouping dimensions.
func Dimensions() []string {
	return []string{string(DimensionType), string(DimensionSubtype)}
}

// ParseDimension accepts the column name or its short form ("type",
// "subtype"), case-insensitively. Empty selects DimensionType.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "type", strings.ToLower(string(DimensionType)):
		return DimensionType, nil
	case "subtype", strings.ToLower(string(DimensionSubtype)):
		return DimensionSubtype, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
}

func (d Dimension) value(e *models.Event) string {
	if d == DimensionSubtype {
		return e.DisasterSubtype
	}
	return e.DisasterType
}

// CategoryTotals is one bar group of the deaths and damage chart.
type CategoryTotals struct {
	Key         string  `json:"key"`
	TotalDeaths float64 `json:"total_deaths"`
	TotalDamage float64 `json:"total_damage"`
	EventCount  int     `json:"event_count"`
}

// DeathsAndDamageBy sums deaths and damage per value of dim, sorted by key.
func DeathsAndDamageBy(events []models.Event, dim Dimension) []CategoryTotals {
	byKey := make(map[string]*CategoryTotals)
	for i := range events {
		key := dim.value(&events[i])
		ct, ok := byKey[key]
		if !ok {
			ct = &CategoryTotals{Key: key}
			byKey[key] = ct
		}
		ct.TotalDeaths += events[i].TotalDeaths
		ct.TotalDamage += events[i].TotalDamage
		ct.EventCount++
	}

	out := make([]CategoryTotals, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		out = append(out, *byKey[key])
	}
	return out
}

// DeathStats is the mean and median deaths of one disaster type.
type DeathStats struct {
	DisasterType string  `json:"disaster_type"`
	Mean         float64 `json:"mean_deaths"`
	Median       float64 `json:"median_deaths"`
}

func DeathStatsByType(events []models.Event) []DeathStats {
	groups := deathsByType(events)
	out := make([]DeathStats, 0, len(groups))
	for _, t := range sortedKeys(groups) {
		deaths := groups[t]
		out = append(out, DeathStats{
			DisasterType: t,
			Mean:         stats.Mean(deaths),
			Median:       stats.Median(deaths),
		})
	}
	return out
}

// BoxStats is the five-number summary of deaths for one disaster type, with
// the individual points for overlay.
type BoxStats struct {
	DisasterType string    `json:"disaster_type"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	Deaths       []float64 `json:"deaths"`
}

func DeathDistributionByType(events []models.Event) []BoxStats {
	groups := deathsByType(events)
	out := make([]BoxStats, 0, len(groups))
	for _, t := range sortedKeys(groups) {
		deaths := groups[t]
		out = append(out, BoxStats{
			DisasterType: t,
			Min:          stats.Min(deaths),
			Q1:           stats.Quantile(deaths, 0.25),
			Median:       stats.Median(deaths),
			Q3:           stats.Quantile(deaths, 0.75),
			Max:          stats.Max(deaths),
			Deaths:       deaths,
		})
	}
	return out
}

func deathsByType(events []models.Event) map[string][]float64 {
	groups := make(map[string][]float64)
	for _, e := range events {
		groups[e.DisasterType] = append(groups[e.DisasterType], e.TotalDeaths)
	}
	return groups
}

// Count is one key with its number of events.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// YearCount is the number of events starting in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// EventsByYear counts events per start year, ascending. Events without a
// year are left out.
func EventsByYear(events []models.Event) []YearCount {
	counts := make(map[int]int)
	for _, e := range events {
		if y, ok := e.Year(); ok {
			counts[y]++
		}
	}
	years := sortedYears(counts)
	out := make([]YearCount, 0, len(years))
	for _, y := range years {
		out = append(out, YearCount{Year: y, Count: counts[y]})
	}
	return out
}

// Frame is one animation frame: the count of every disaster type in a year,
// zero for types not seen that year.
type Frame struct {
	Year   int     `json:"year"`
	Counts []Count `json:"counts"`
}

func EventsByYearAndType(events []models.Event) []Frame {
	counts := make(map[int]map[string]int)
	typeSet := make(map[string]struct{})
	for _, e := range events {
		y, ok := e.Year()
		if !ok {
			continue
		}
		if counts[y] == nil {
			counts[y] = make(map[string]int)
		}
		counts[y][e.DisasterType]++
		typeSet[e.DisasterType] = struct{}{}
	}

	types := sortedKeys(typeSet)
	years := sortedYears(counts)
	frames := make([]Frame, 0, len(years))
	for _, y := range years {
		f := Frame{Year: y, Counts: make([]Count, 0, len(types))}
		for _, t := range types {
			f.Counts = append(f.Counts, Count{Key: t, Count: counts[y][t]})
		}
		frames = append(frames, f)
	}
	return frames
}

// EventsBySubtype counts events per subtype, most frequent first.
func EventsBySubtype(events []models.Event) []Count {
	return countBy(events, func(e *models.Event) string { return e.DisasterSubtype })
}

// SubgroupShares counts events per subgroup, most frequent first.
func SubgroupShares(events []models.Event) []Count {
	return countBy(events, func(e *models.Event) string { return e.DisasterSubgroup })
}

func countBy(events []models.Event, key func(*models.Event) string) []Count {
	counts := make(map[string]int)
	for i := range events {
		counts[key(&events[i])]++
	}
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sortCountsDesc(out)
	return out
}

// CitySummary is one bar of the per-city chart.
type CitySummary struct {
	Location       string  `json:"location"`
	EventCount     int     `json:"event_count"`
	TotalDeaths    float64 `json:"total_deaths"`
	MostCommonType string  `json:"most_common_type"`
}

// TopLocations ranks the places of an expanded view by event count
// (descending, then name). n <= 0 returns every place.
func TopLocations(expanded []models.Event, n int) []CitySummary {
	type acc struct {
		count  int
		deaths float64
		types  []string
	}
	byCity := make(map[string]*acc)
	for _, e := range expanded {
		a, ok := byCity[e.Location]
		if !ok {
			a = &acc{}
			byCity[e.Location] = a
		}
		a.count++
		a.deaths += e.TotalDeaths
		a.types = append(a.types, e.DisasterType)
	}

	out := make([]CitySummary, 0, len(byCity))
	for city, a := range byCity {
		out = append(out, CitySummary{
			Location:       city,
			EventCount:     a.count,
			TotalDeaths:    a.deaths,
			MostCommonType: Mode(a.types),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventCount != out[j].EventCount {
			return out[i].EventCount > out[j].EventCount
		}
		return out[i].Location < out[j].Location
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortCountsDesc(counts []Count) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Key < counts[j].Key
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
