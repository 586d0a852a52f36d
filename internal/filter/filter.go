package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mr1hm/go-disaster-dashboard/internal/location"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

var ErrInvalidYearRange = errors.New("invalid year range")

// YearRange is a closed interval of start years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Params is the conjunction of predicates a view is built from.
type Params struct {
	// Years nil accepts every row, including rows without a start year.
	Years *YearRange `json:"years,omitempty"`
	// Types nil accepts every type; a non-nil empty set accepts none.
	Types []string `json:"types"`
	// Cities empty accepts every row; otherwise the raw location must contain
	// at least one entry (case-sensitive substring).
	Cities []string `json:"cities"`
}

func (p Params) Validate() error {
	if p.Years != nil && p.Years.From > p.Years.To {
		return fmt.Errorf("%w: %d > %d", ErrInvalidYearRange, p.Years.From, p.Years.To)
	}
	return nil
}

// View is a filtered, read-only subset of events. The zero View has not been
// applied yet and is distinct from an applied view with no rows.
type View struct {
	Events  []models.Event
	Params  Params
	Applied bool
}

func (v View) Len() int { return len(v.Events) }

// Empty reports an applied view without rows.
func (v View) Empty() bool {
	return v.Applied && len(v.Events) == 0
}

// Apply returns the events that satisfy every predicate of p, in input order.
func Apply(events []models.Event, p Params) (View, error) {
	if err := p.Validate(); err != nil {
		return View{}, err
	}

	var types map[string]struct{}
	if p.Types != nil {
		types = make(map[string]struct{}, len(p.Types))
		for _, t := range p.Types {
			types[t] = struct{}{}
		}
	}

	matched := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !matchYear(e, p.Years) {
			continue
		}
		if types != nil {
			if _, ok := types[e.DisasterType]; !ok {
				continue
			}
		}
		if !matchCity(e.Location, p.Cities) {
			continue
		}
		matched = append(matched, e)
	}

	return View{Events: matched, Params: p, Applied: true}, nil
}

func matchYear(e models.Event, r *YearRange) bool {
	if r == nil {
		return true
	}
	year, ok := e.Year()
	return ok && r.From <= year && year <= r.To
}

func matchCity(loc string, cities []string) bool {
	if len(cities) == 0 {
		return true
	}
	for _, c := range cities {
		if strings.Contains(loc, c) {
			return true
		}
	}
	return false
}

// CityDefault selects the initial city selection of a dashboard variant.
type CityDefault string

const (
	CityDefaultAll  CityDefault = "all"
	CityDefaultNone CityDefault = "none"
)

// Options describes the filter domain observed in a dataset.
type Options struct {
	YearMin    *int     `json:"year_min"`
	YearMax    *int     `json:"year_max"`
	Types      []string `json:"types"`
	Cities     []string `json:"cities"`
	Dimensions []string `json:"group_by"`
}

// Domain collects the selectable values of events.
func Domain(events []models.Event, dimensions []string) Options {
	var o Options
	seen := make(map[string]struct{})
	for _, e := range events {
		if y, ok := e.Year(); ok {
			if o.YearMin == nil || y < *o.YearMin {
				o.YearMin = models.IntPtr(y)
			}
			if o.YearMax == nil || y > *o.YearMax {
				o.YearMax = models.IntPtr(y)
			}
		}
		if e.DisasterType == "" {
			continue
		}
		if _, ok := seen[e.DisasterType]; !ok {
			seen[e.DisasterType] = struct{}{}
			o.Types = append(o.Types, e.DisasterType)
		}
	}
	sort.Strings(o.Types)
	o.Cities = location.Cities(events)
	o.Dimensions = dimensions
	return o
}

// Defaults returns the parameters of an untouched dashboard: the full year
// range, every type, and the configured city selection.
func (o Options) Defaults(cities CityDefault) Params {
	p := Params{Types: append([]string{}, o.Types...)}
	if o.YearMin != nil && o.YearMax != nil {
		p.Years = &YearRange{From: *o.YearMin, To: *o.YearMax}
	}
	if cities == CityDefaultAll {
		p.Cities = append([]string{}, o.Cities...)
	} else {
		p.Cities = []string{}
	}
	return p
}
