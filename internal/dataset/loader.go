package dataset

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/worker"
)

// RequiredColumns must be present in the base event dataset.
var RequiredColumns = []string{
	models.ColStartYear,
	models.ColType,
	models.ColSubgroup,
	models.ColSubtype,
	models.ColLocation,
	models.ColTotalDeaths,
}

var optionalColumns = []string{
	models.ColTotalDamage,
	models.ColLatitude,
	models.ColLongitude,
	models.ColMagnitude,
}

// LoadOptions tunes how base rows become events.
type LoadOptions struct {
	// KeyColumn, when set, must exist and fills Event.Key for explicit-key
	// merges. It is still exported as an ordinary column.
	KeyColumn string
}

// Coercions counts the silent corrections applied while loading.
type Coercions struct {
	MissingYear     int
	DeathsDefaulted int
	DamageDefaulted int
	UnknownFilled   int
}

// LoadTables reads every path concurrently and returns one table per path.
func LoadTables(ctx context.Context, paths []string, workers int) (map[string]*Table, error) {
	var (
		mu     sync.Mutex
		tables = make(map[string]*Table, len(paths))
	)

	jobs := make([]worker.Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, p)
	}

	err := worker.Run(ctx, workers, jobs, func(ctx context.Context, job worker.Job) error {
		path := job.(string)
		t, err := ReadTable(path)
		if err != nil {
			return err
		}
		slog.Debug("table loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns()))

		mu.Lock()
		tables[path] = t
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// EventTable is the base dataset after coercion.
type EventTable struct {
	Events []models.Event

	// Columns is the source header in file order.
	Columns      []string
	ExtraColumns []string

	// Optional columns present in the source file.
	HasDamage      bool
	HasCoordinates bool
	HasMagnitude   bool
	Coercions      Coercions
}

// LoadEvents converts the base table into events, applying lenient numeric
// parsing and categorical defaults. It fails only on missing columns.
func LoadEvents(t *Table, opts LoadOptions) (*EventTable, error) {
	var c Coercions

	cols := make(map[string][]string)
	for _, name := range RequiredColumns {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[name] = values
	}
	for _, name := range optionalColumns {
		if values, err := t.Column(name); err == nil {
			cols[name] = values
		}
	}

	var keys []string
	if opts.KeyColumn != "" {
		values, err := t.Column(opts.KeyColumn)
		if err != nil {
			return nil, err
		}
		keys = values
	}

	known := make(map[string]bool, len(cols))
	for name := range cols {
		known[name] = true
	}
	var extraNames []string
	var extraCols [][]string
	for _, name := range t.Columns() {
		if known[name] {
			continue
		}
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		extraNames = append(extraNames, name)
		extraCols = append(extraCols, values)
	}

	n := t.Len()
	events := make([]models.Event, n)
	for i := 0; i < n; i++ {
		e := models.Event{
			Row:          i,
			DisasterType: strings.TrimSpace(cols[models.ColType][i]),
		}

		if year, ok := parseYear(cols[models.ColStartYear][i]); ok {
			e.StartYear = models.IntPtr(year)
		} else {
			c.MissingYear++
		}

		e.TotalDeaths = nonNegative(cols[models.ColTotalDeaths][i], &c.DeathsDefaulted)
		if damage, ok := cols[models.ColTotalDamage]; ok {
			e.TotalDamage = nonNegative(damage[i], &c.DamageDefaulted)
		}

		e.DisasterSubgroup = orUnknown(cols[models.ColSubgroup][i], &c.UnknownFilled)
		e.DisasterSubtype = orUnknown(cols[models.ColSubtype][i], &c.UnknownFilled)
		e.Location = orUnknown(cols[models.ColLocation][i], &c.UnknownFilled)

		if lat, ok := cols[models.ColLatitude]; ok {
			e.Latitude = optionalFloat(lat[i])
		}
		if lon, ok := cols[models.ColLongitude]; ok {
			e.Longitude = optionalFloat(lon[i])
		}
		if mag, ok := cols[models.ColMagnitude]; ok {
			e.Magnitude = optionalFloat(mag[i])
		}
		if keys != nil {
			e.Key = strings.TrimSpace(keys[i])
		}

		if len(extraCols) > 0 {
			e.Extra = make([]string, len(extraCols))
			for j, values := range extraCols {
				e.Extra[j] = values[i]
			}
		}

		events[i] = e
	}

	if c != (Coercions{}) {
		slog.Warn("coerced values while loading events",
			"table", t.Name,
			"missing_year", c.MissingYear,
			"deaths_defaulted", c.DeathsDefaulted,
			"damage_defaulted", c.DamageDefaulted,
			"unknown_filled", c.UnknownFilled,
		)
	}

	_, hasDamage := cols[models.ColTotalDamage]
	_, hasLat := cols[models.ColLatitude]
	_, hasLon := cols[models.ColLongitude]
	_, hasMag := cols[models.ColMagnitude]

	return &EventTable{
		Events:         events,
		Columns:        t.Columns(),
		ExtraColumns:   extraNames,
		HasDamage:      hasDamage,
		HasCoordinates: hasLat && hasLon,
		HasMagnitude:   hasMag,
		Coercions:      c,
	}, nil
}

// parseNumber is the lenient parse used for every numeric column: anything
// that is not a finite number counts as missing.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseYear(raw string) (int, bool) {
	v, ok := parseNumber(raw)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func nonNegative(raw string, defaulted *int) float64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		*defaulted++
		return 0
	}
	return v
}

func orUnknown(raw string, filled *int) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		*filled++
		return models.Unknown
	}
	return s
}

func optionalFloat(raw string) *float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return nil
	}
	return models.Float64Ptr(v)
}

func formatYear(e *models.Event) string {
	if y, ok := e.Year(); ok {
		return strconv.Itoa(y)
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
