package aggregate

import (
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/location"
)

// Options selects the interactive parts of the dashboard.
type Options struct {
	GroupBy      Dimension
	TopLocations int

	// WithSeverity adds the location x type severity pivot.
	WithSeverity bool
}

// Dashboard is every aggregate the disaster dashboard renders for one view.
type Dashboard struct {
	Summary                 *Summary         `json:"summary"`
	GroupBy                 Dimension        `json:"group_by"`
	ByCategory              []CategoryTotals `json:"by_category"`
	DeathStats              []DeathStats     `json:"death_stats"`
	DeathDistribution       []BoxStats       `json:"death_distribution"`
	EventsByYear            []YearCount      `json:"events_by_year"`
	EventsByYearAndType     []Frame          `json:"events_by_year_and_type"`
	EventsBySubtype         []Count          `json:"events_by_subtype"`
	SubgroupShares          []Count          `json:"subgroup_shares"`
	TopLocations            []CitySummary    `json:"top_locations"`
	DeathsByYearAndSubgroup Pivot            `json:"deaths_by_year_and_subgroup"`
	LocationTypeCounts      Pivot            `json:"location_type_counts"`
	LocationTypeSeverity    *SparsePivot     `json:"location_type_severity,omitempty"`
}

// Build computes every aggregate of view. Empty views return ErrEmptyView and
// nothing is computed.
func Build(view filter.View, opts Options) (*Dashboard, error) {
	summary, err := Summarize(view)
	if err != nil {
		return nil, err
	}
	if opts.GroupBy == "" {
		opts.GroupBy = DimensionType
	}

	events := view.Events
	expanded := location.Expand(events)

	d := &Dashboard{
		Summary:                 summary,
		GroupBy:                 opts.GroupBy,
		ByCategory:              DeathsAndDamageBy(events, opts.GroupBy),
		DeathStats:              DeathStatsByType(events),
		DeathDistribution:       DeathDistributionByType(events),
		EventsByYear:            EventsByYear(events),
		EventsByYearAndType:     EventsByYearAndType(events),
		EventsBySubtype:         EventsBySubtype(events),
		SubgroupShares:          SubgroupShares(events),
		TopLocations:            TopLocations(expanded, opts.TopLocations),
		DeathsByYearAndSubgroup: DeathsByYearAndSubgroup(events),
		LocationTypeCounts:      LocationTypeCounts(expanded),
	}
	if opts.WithSeverity {
		sev := LocationTypeSeverity(expanded)
		d.LocationTypeSeverity = &sev
	}
	return d, nil
}
