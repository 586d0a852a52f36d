package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

func sampleEvents() []models.Event {
	return []models.Event{
		{Row: 0, StartYear: models.IntPtr(2010), DisasterType: "Flood", Location: "Riyadh", TotalDeaths: 5},
		{Row: 1, StartYear: models.IntPtr(2010), DisasterType: "Flood", Location: "Jeddah", TotalDeaths: 3},
		{Row: 2, StartYear: models.IntPtr(2015), DisasterType: "Storm", Location: "Riyadh", TotalDeaths: 10},
		{Row: 3, StartYear: models.IntPtr(2018), DisasterType: "Epidemic", Location: "Jeddah, Mecca", TotalDeaths: 40},
		{Row: 4, StartYear: nil, DisasterType: "Storm", Location: "Abha", TotalDeaths: 1},
	}
}

func TestApply_YearRangeIsClosed(t *testing.T) {
	events := sampleEvents()

	for lo := 2008; lo <= 2020; lo++ {
		for hi := lo; hi <= 2020; hi++ {
			view, err := Apply(events, Params{Years: &YearRange{From: lo, To: hi}})
			require.NoError(t, err)
			for _, e := range view.Events {
				y, ok := e.Year()
				require.True(t, ok)
				assert.GreaterOrEqual(t, y, lo)
				assert.LessOrEqual(t, y, hi)
			}
		}
	}
}

func TestApply_InvalidYearRange(t *testing.T) {
	_, err := Apply(sampleEvents(), Params{Years: &YearRange{From: 2015, To: 2010}})
	assert.ErrorIs(t, err, ErrInvalidYearRange)
}

func TestApply_NilYearsKeepsMissingYears(t *testing.T) {
	view, err := Apply(sampleEvents(), Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Len())
}

func TestApply_AllTypesIsIdentity(t *testing.T) {
	events := sampleEvents()
	opts := Domain(events, nil)

	all, err := Apply(events, Params{Types: opts.Types})
	require.NoError(t, err)
	assert.Equal(t, events, all.Events)
}

func TestApply_EmptyTypeSetAcceptsNone(t *testing.T) {
	view, err := Apply(sampleEvents(), Params{Types: []string{}})
	require.NoError(t, err)
	assert.True(t, view.Applied)
	assert.True(t, view.Empty())
}

func TestApply_CitySubstring(t *testing.T) {
	view, err := Apply(sampleEvents(), Params{Cities: []string{"Mecca", "Abha"}})
	require.NoError(t, err)

	rows := make([]int, 0, view.Len())
	for _, e := range view.Events {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{3, 4}, rows)

	view, err = Apply(sampleEvents(), Params{Cities: []string{"riyadh"}})
	require.NoError(t, err)
	assert.True(t, view.Empty(), "matching is case-sensitive")
}

func TestApply_Scenario(t *testing.T) {
	view, err := Apply(sampleEvents()[:3], Params{Years: &YearRange{From: 2010, To: 2010}})
	require.NoError(t, err)
	require.Equal(t, 2, view.Len())
	assert.Equal(t, "Riyadh", view.Events[0].Location)
	assert.Equal(t, "Jeddah", view.Events[1].Location)
}

func TestView_ZeroValueIsNotApplied(t *testing.T) {
	var v View
	assert.False(t, v.Applied)
	assert.False(t, v.Empty())
}

func TestDomainAndDefaults(t *testing.T) {
	opts := Domain(sampleEvents(), []string{"Disaster Type"})

	require.NotNil(t, opts.YearMin)
	require.NotNil(t, opts.YearMax)
	assert.Equal(t, 2010, *opts.YearMin)
	assert.Equal(t, 2018, *opts.YearMax)
	assert.Equal(t, []string{"Epidemic", "Flood", "Storm"}, opts.Types)
	assert.Equal(t, []string{"Abha", "Jeddah", "Mecca", "Riyadh"}, opts.Cities)

	all := opts.Defaults(CityDefaultAll)
	assert.Equal(t, &YearRange{From: 2010, To: 2018}, all.Years)
	assert.Equal(t, opts.Cities, all.Cities)

	none := opts.Defaults(CityDefaultNone)
	assert.Empty(t, none.Cities)

	// the default selection keeps every event that has a year
	view, err := Apply(sampleEvents(), all)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Len())
}
