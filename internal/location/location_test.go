package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Riyadh, Jeddah", []string{"Riyadh", "Jeddah"}},
		{"Riyadh", []string{"Riyadh"}},
		{" Riyadh ,,Jeddah,", []string{"Riyadh", "Jeddah"}},
		{",", []string{","}},
		{"", []string{models.Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestSplit_Idempotent(t *testing.T) {
	for _, place := range Split("Riyadh, Jeddah, Mecca") {
		assert.Equal(t, []string{place}, Split(place))
	}
}

func TestExpand(t *testing.T) {
	events := []models.Event{
		{Row: 0, StartYear: models.IntPtr(2010), DisasterType: "Flood", Location: "Riyadh, Jeddah", TotalDeaths: 4},
		{Row: 1, StartYear: models.IntPtr(2015), DisasterType: "Storm", Location: "Dammam", TotalDeaths: 1},
	}

	expanded := Expand(events)
	require.Len(t, expanded, 3)

	assert.Equal(t, "Riyadh", expanded[0].Location)
	assert.Equal(t, "Jeddah", expanded[1].Location)
	assert.Equal(t, "Dammam", expanded[2].Location)

	// non-location fields are copied verbatim
	a, b := expanded[0], expanded[1]
	a.Location, b.Location = "", ""
	assert.Equal(t, a, b)

	assert.Equal(t, "Riyadh, Jeddah", events[0].Location, "input is not modified")
}

func TestExpand_PreservesRowMultiset(t *testing.T) {
	events := []models.Event{
		{Row: 0, Location: "A, B, C"},
		{Row: 1, Location: "A"},
		{Row: 2, Location: ""},
		{Row: 3, Location: "B, A"},
	}

	collapsed := make(map[int]int)
	for _, e := range Expand(events) {
		collapsed[e.Row]++
	}

	require.Len(t, collapsed, len(events), "no rows gained or lost")
	for _, e := range events {
		assert.Equal(t, len(Split(e.Location)), collapsed[e.Row])
	}
}

func TestCities(t *testing.T) {
	events := []models.Event{
		{Location: "Riyadh, Jeddah"},
		{Location: "Jeddah"},
		{Location: "Abha"},
	}
	assert.Equal(t, []string{"Abha", "Jeddah", "Riyadh"}, Cities(events))
}
