package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/location"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

func scenarioEvents() []models.Event {
	return []models.Event{
		{Row: 0, StartYear: models.IntPtr(2010), DisasterType: "Flood", DisasterSubgroup: "Hydrological", DisasterSubtype: "Flash flood", Location: "Riyadh", TotalDeaths: 5, TotalDamage: 10, Severity: models.SeverityHigh},
		{Row: 1, StartYear: models.IntPtr(2010), DisasterType: "Flood", DisasterSubgroup: "Hydrological", DisasterSubtype: "Riverine flood", Location: "Jeddah", TotalDeaths: 3, TotalDamage: 0, Severity: models.SeverityLow},
		{Row: 2, StartYear: models.IntPtr(2015), DisasterType: "Storm", DisasterSubgroup: "Meteorological", DisasterSubtype: "Sandstorm", Location: "Riyadh", TotalDeaths: 10, TotalDamage: 7},
	}
}

func view(t *testing.T, events []models.Event, p filter.Params) filter.View {
	t.Helper()
	v, err := filter.Apply(events, p)
	require.NoError(t, err)
	return v
}

func TestSummarize_Scenario(t *testing.T) {
	v := view(t, scenarioEvents(), filter.Params{Years: &filter.YearRange{From: 2010, To: 2010}})
	require.Equal(t, 2, v.Len())

	s, err := Summarize(v)
	require.NoError(t, err)

	assert.Equal(t, 8.0, s.TotalDeaths)
	assert.Equal(t, 4.0, s.AverageDeaths)
	assert.Equal(t, "Flood", s.MostCommonType)
	assert.Equal(t, 0, s.Deadliest.Row)
	assert.Equal(t, "Riyadh", s.Deadliest.Location)
	assert.Equal(t, 5.0, s.Deadliest.TotalDeaths)
	assert.Equal(t, 2010, *s.EarliestYear)
	assert.Equal(t, 2010, *s.LatestYear)
	assert.Equal(t, 1, s.DistinctSubgroups)
	assert.Equal(t, "Hydrological", s.MostFrequentSubgroup)
	// Jeddah and Riyadh tie once each
	assert.Equal(t, "Jeddah", s.MostFrequentLocation)
}

func TestSummarize_TotalMatchesSumForEveryFilter(t *testing.T) {
	events := scenarioEvents()
	for lo := 2009; lo <= 2016; lo++ {
		for hi := lo; hi <= 2016; hi++ {
			v := view(t, events, filter.Params{Years: &filter.YearRange{From: lo, To: hi}})
			s, err := Summarize(v)
			if v.Empty() {
				assert.ErrorIs(t, err, ErrEmptyView)
				assert.Equal(t, 0.0, TotalDeaths(v.Events))
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, TotalDeaths(v.Events), s.TotalDeaths)
		}
	}
}

func TestSummarize_AverageRounded(t *testing.T) {
	events := []models.Event{
		{DisasterType: "A", TotalDeaths: 1},
		{DisasterType: "A", TotalDeaths: 1},
		{DisasterType: "A", TotalDeaths: 0},
	}
	s, err := Summarize(view(t, events, filter.Params{}))
	require.NoError(t, err)
	assert.Equal(t, 0.67, s.AverageDeaths)
	assert.Nil(t, s.EarliestYear)
}

func TestSummarize_DeadliestFirstOccurrence(t *testing.T) {
	events := []models.Event{
		{Row: 7, DisasterType: "A", TotalDeaths: 9},
		{Row: 8, DisasterType: "B", TotalDeaths: 9},
	}
	s, err := Summarize(view(t, events, filter.Params{}))
	require.NoError(t, err)
	assert.Equal(t, 7, s.Deadliest.Row)
}

func TestMode_LexicographicTieBreak(t *testing.T) {
	assert.Equal(t, "Flood", Mode([]string{"Storm", "Flood", "Storm", "Flood"}))
	assert.Equal(t, "Storm", Mode([]string{"Storm", "Flood", "Storm"}))
	assert.Equal(t, "", Mode(nil))
}

func TestDeathsAndDamageBy(t *testing.T) {
	events := scenarioEvents()

	byType := DeathsAndDamageBy(events, DimensionType)
	assert.Equal(t, []CategoryTotals{
		{Key: "Flood", TotalDeaths: 8, TotalDamage: 10, EventCount: 2},
		{Key: "Storm", TotalDeaths: 10, TotalDamage: 7, EventCount: 1},
	}, byType)

	bySubtype := DeathsAndDamageBy(events, DimensionSubtype)
	require.Len(t, bySubtype, 3)
	assert.Equal(t, "Flash flood", bySubtype[0].Key)
}

func TestParseDimension(t *testing.T) {
	for in, want := range map[string]Dimension{
		"":                 DimensionType,
		"type":             DimensionType,
		"Disaster Type":    DimensionType,
		"disaster subtype": DimensionSubtype,
		"SUBTYPE":          DimensionSubtype,
	} {
		got, err := ParseDimension(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDimension("Location")
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestDeathStatsAndDistribution(t *testing.T) {
	events := []models.Event{
		{DisasterType: "Flood", TotalDeaths: 1},
		{DisasterType: "Flood", TotalDeaths: 2},
		{DisasterType: "Flood", TotalDeaths: 9},
		{DisasterType: "Storm", TotalDeaths: 4},
	}

	stats := DeathStatsByType(events)
	require.Len(t, stats, 2)
	assert.Equal(t, DeathStats{DisasterType: "Flood", Mean: 4, Median: 2}, stats[0])
	assert.Equal(t, DeathStats{DisasterType: "Storm", Mean: 4, Median: 4}, stats[1])

	box := DeathDistributionByType(events)
	require.Len(t, box, 2)
	assert.Equal(t, 1.0, box[0].Min)
	assert.Equal(t, 1.5, box[0].Q1)
	assert.Equal(t, 5.5, box[0].Q3)
	assert.Equal(t, 9.0, box[0].Max)
	assert.Equal(t, []float64{1, 2, 9}, box[0].Deaths)
}

func TestEventsByYearAndType_ZeroFilled(t *testing.T) {
	events := append(scenarioEvents(), models.Event{DisasterType: "Storm"})

	byYear := EventsByYear(events)
	assert.Equal(t, []YearCount{{Year: 2010, Count: 2}, {Year: 2015, Count: 1}}, byYear)

	frames := EventsByYearAndType(events)
	require.Len(t, frames, 2)
	assert.Equal(t, Frame{Year: 2010, Counts: []Count{{"Flood", 2}, {"Storm", 0}}}, frames[0])
	assert.Equal(t, Frame{Year: 2015, Counts: []Count{{"Flood", 0}, {"Storm", 1}}}, frames[1])
}

func TestCountsDescending(t *testing.T) {
	events := scenarioEvents()
	assert.Equal(t, []Count{{"Hydrological", 2}, {"Meteorological", 1}}, SubgroupShares(events))
	assert.Equal(t, []Count{{"Flash flood", 1}, {"Riverine flood", 1}, {"Sandstorm", 1}}, EventsBySubtype(events))
}

func TestTopLocations(t *testing.T) {
	events := []models.Event{
		{Row: 0, DisasterType: "Flood", Location: "Riyadh, Jeddah", TotalDeaths: 5},
		{Row: 1, DisasterType: "Storm", Location: "Jeddah", TotalDeaths: 1},
		{Row: 2, DisasterType: "Storm", Location: "Abha", TotalDeaths: 2},
	}
	expanded := location.Expand(events)

	top := TopLocations(expanded, 0)
	require.Len(t, top, 3)
	assert.Equal(t, CitySummary{Location: "Jeddah", EventCount: 2, TotalDeaths: 6, MostCommonType: "Flood"}, top[0])
	assert.Equal(t, "Abha", top[1].Location)
	assert.Equal(t, "Riyadh", top[2].Location)

	assert.Len(t, TopLocations(expanded, 2), 2)
}

func TestDeathsByYearAndSubgroup(t *testing.T) {
	p := DeathsByYearAndSubgroup(scenarioEvents())

	assert.Equal(t, []string{"Hydrological", "Meteorological"}, p.Rows)
	assert.Equal(t, []string{"2010", "2015"}, p.Columns)

	v, ok := p.Value("Hydrological", "2010")
	require.True(t, ok)
	assert.Equal(t, 8.0, v)

	v, ok = p.Value("Hydrological", "2015")
	require.True(t, ok)
	assert.Equal(t, 0.0, v, "absent combinations are zero")

	v, _ = p.Value("Meteorological", "2015")
	assert.Equal(t, 10.0, v)
}

func TestDeathsByYearAndSubgroup_NumericYearOrder(t *testing.T) {
	events := []models.Event{
		{StartYear: models.IntPtr(2000), DisasterSubgroup: "A", TotalDeaths: 1},
		{StartYear: models.IntPtr(999), DisasterSubgroup: "A", TotalDeaths: 2},
	}
	p := DeathsByYearAndSubgroup(events)
	assert.Equal(t, []string{"999", "2000"}, p.Columns)

	v, ok := p.Value("A", "999")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestLocationTypeCounts(t *testing.T) {
	expanded := location.Expand(scenarioEvents())
	p := LocationTypeCounts(expanded)

	assert.Equal(t, []string{"Jeddah", "Riyadh"}, p.Rows)
	assert.Equal(t, []string{"Flood", "Storm"}, p.Columns)
	assert.Equal(t, [][]float64{{1, 0}, {1, 1}}, p.Values)
}

func TestLocationTypeSeverity_LeavesUnseenMissing(t *testing.T) {
	events := append(scenarioEvents(),
		models.Event{DisasterType: "Flood", Location: "Riyadh", Severity: models.SeverityMedium},
	)
	p := LocationTypeSeverity(location.Expand(events))

	assert.Equal(t, []string{"Jeddah", "Riyadh"}, p.Rows)
	assert.Equal(t, []string{"Flood"}, p.Columns, "storm never had a severity")

	v, ok := p.Value("Riyadh", "Flood")
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, 2.5, *v)

	v, ok = p.Value("Jeddah", "Flood")
	require.True(t, ok)
	assert.Equal(t, 1.0, *v)
}

func TestLocationTypeSeverity_SparseCell(t *testing.T) {
	events := []models.Event{
		{DisasterType: "Flood", Location: "Riyadh", Severity: models.SeverityHigh},
		{DisasterType: "Storm", Location: "Jeddah", Severity: models.SeverityLow},
	}
	p := LocationTypeSeverity(events)

	v, ok := p.Value("Riyadh", "Storm")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestBuild(t *testing.T) {
	v := view(t, scenarioEvents(), filter.Params{})

	d, err := Build(v, Options{GroupBy: DimensionSubtype, TopLocations: 1, WithSeverity: true})
	require.NoError(t, err)

	assert.Equal(t, 18.0, d.Summary.TotalDeaths)
	assert.Equal(t, DimensionSubtype, d.GroupBy)
	assert.Len(t, d.ByCategory, 3)
	assert.Len(t, d.TopLocations, 1)
	assert.Equal(t, "Riyadh", d.TopLocations[0].Location)
	require.NotNil(t, d.LocationTypeSeverity)
}

func TestBuild_EmptyViewSkipsAggregation(t *testing.T) {
	v := view(t, scenarioEvents(), filter.Params{Types: []string{"Earthquake"}})
	require.True(t, v.Empty())

	d, err := Build(v, Options{})
	assert.ErrorIs(t, err, ErrEmptyView)
	assert.Nil(t, d)
}
