package models

// Column headers of the base disaster dataset.
const (
	ColStartYear   = "Start Year"
	ColType        = "Disaster Type"
	ColSubgroup    = "Disaster Subgroup"
	ColSubtype     = "Disaster Subtype"
	ColLocation    = "Location"
	ColTotalDeaths = "Total Deaths"
	ColTotalDamage = "Total Damage ('000 US$)"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
	ColMagnitude   = "Magnitude"

	// Appended by the prediction merger.
	ColPredictedDeadly   = "Predicted Deadly"
	ColPredictedSeverity = "Predicted Severity"
)

// Unknown fills missing categorical values.
const Unknown = "Unknown"

const (
	DeadlyYes = "Yes"
	DeadlyNo  = "No"
)

// Event is one disaster occurrence row of the base dataset.
type Event struct {
	Row              int      `json:"row"` // position in the base file, stable across merges
	Key              string   `json:"key,omitempty"`
	StartYear        *int     `json:"start_year"`
	DisasterType     string   `json:"disaster_type"`
	DisasterSubgroup string   `json:"disaster_subgroup"`
	DisasterSubtype  string   `json:"disaster_subtype"`
	Location         string   `json:"location"`
	TotalDeaths      float64  `json:"total_deaths"`
	TotalDamage      float64  `json:"total_damage"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Magnitude        *float64 `json:"magnitude,omitempty"`
	Deadly           string   `json:"deadly,omitempty"`
	Severity         Severity `json:"severity,omitempty"`

	// Extra holds the remaining base columns, aligned with Snapshot.ExtraColumns.
	Extra []string `json:"-"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// Year returns the start year and whether it is present.
func (e *Event) Year() (int, bool) {
	if e.StartYear == nil {
		return 0, false
	}
	return *e.StartYear, true
}

func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
