package api

import (
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON maps events with coordinates to point features; the rest are
// skipped.
func toGeoJSON(events []models.Event) FeatureCollection {
	features := make([]Feature, 0, len(events))

	for i := range events {
		e := &events[i]
		if !e.HasCoordinates() {
			continue
		}
		props := map[string]any{
			"row":               e.Row,
			"disaster_type":     e.DisasterType,
			"disaster_subgroup": e.DisasterSubgroup,
			"disaster_subtype":  e.DisasterSubtype,
			"location":          e.Location,
			"start_year":        e.StartYear,
			"total_deaths":      e.TotalDeaths,
			"magnitude":         e.Magnitude,
		}
		if e.Deadly != "" {
			props["deadly"] = e.Deadly
		}
		if e.Severity != "" {
			props["severity"] = e.Severity.String()
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{*e.Longitude, *e.Latitude},
			},
			Properties: props,
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
