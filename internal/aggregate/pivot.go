package aggregate

import (
	"strconv"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Pivot is a dense two-dimensional table; combinations absent from the input
// hold 0.
type Pivot struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Value returns the cell for a row and column key.
func (p Pivot) Value(row, col string) (float64, bool) {
	i, j := indexOf(p.Rows, row), indexOf(p.Columns, col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return p.Values[i][j], true
}

// SparsePivot leaves unseen combinations nil, for statistics where zero is a
// meaningful value.
type SparsePivot struct {
	Rows    []string     `json:"rows"`
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

func (p SparsePivot) Value(row, col string) (*float64, bool) {
	i, j := indexOf(p.Rows, row), indexOf(p.Columns, col)
	if i < 0 || j < 0 {
		return nil, false
	}
	return p.Values[i][j], true
}

type cellKey struct{ row, col string }

// DeathsByYearAndSubgroup sums deaths with subgroups as rows and start years
// as columns (ascending). Events without a year are left out.
func DeathsByYearAndSubgroup(events []models.Event) Pivot {
	sums := make(map[cellKey]float64)
	rows := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, e := range events {
		y, ok := e.Year()
		if !ok {
			continue
		}
		col := strconv.Itoa(y)
		sums[cellKey{e.DisasterSubgroup, col}] += e.TotalDeaths
		rows[e.DisasterSubgroup] = struct{}{}
		years[y] = struct{}{}
	}

	cols := make([]string, 0, len(years))
	for _, y := range sortedYears(years) {
		cols = append(cols, strconv.Itoa(y))
	}
	return densePivot(sortedKeys(rows), cols, sums)
}

// LocationTypeCounts counts events of an expanded view per place and type.
func LocationTypeCounts(expanded []models.Event) Pivot {
	counts := make(map[cellKey]float64)
	rows := make(map[string]struct{})
	cols := make(map[string]struct{})
	for _, e := range expanded {
		counts[cellKey{e.Location, e.DisasterType}]++
		rows[e.Location] = struct{}{}
		cols[e.DisasterType] = struct{}{}
	}
	return densePivot(sortedKeys(rows), sortedKeys(cols), counts)
}

// LocationTypeSeverity averages the ordinal severity (Low=1, Medium=2,
// High=3) per place and type of an expanded view. Events without a known
// severity are ignored; places or types never observed with one are absent.
func LocationTypeSeverity(expanded []models.Event) SparsePivot {
	type acc struct {
		sum float64
		n   int
	}
	cells := make(map[cellKey]*acc)
	rows := make(map[string]struct{})
	cols := make(map[string]struct{})
	for _, e := range expanded {
		score, ok := e.Severity.Ordinal()
		if !ok {
			continue
		}
		k := cellKey{e.Location, e.DisasterType}
		a, ok := cells[k]
		if !ok {
			a = &acc{}
			cells[k] = a
		}
		a.sum += score
		a.n++
		rows[e.Location] = struct{}{}
		cols[e.DisasterType] = struct{}{}
	}

	p := SparsePivot{Rows: sortedKeys(rows), Columns: sortedKeys(cols)}
	p.Values = make([][]*float64, len(p.Rows))
	for i, r := range p.Rows {
		p.Values[i] = make([]*float64, len(p.Columns))
		for j, c := range p.Columns {
			if a, ok := cells[cellKey{r, c}]; ok {
				p.Values[i][j] = models.Float64Ptr(a.sum / float64(a.n))
			}
		}
	}
	return p
}

func densePivot(rows, cols []string, cells map[cellKey]float64) Pivot {
	p := Pivot{Rows: rows, Columns: cols, Values: make([][]float64, len(rows))}
	for i, r := range rows {
		p.Values[i] = make([]float64, len(cols))
		for j, c := range cols {
			p.Values[i][j] = cells[cellKey{r, c}]
		}
	}
	return p
}

func indexOf(keys []string, k string) int {
	for i, key := range keys {
		if key == k {
			return i
		}
	}
	return -1
}
