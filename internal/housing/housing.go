// Package housing computes the descriptive statistics of the housing price
// dashboard. Only numeric columns take part in the statistics; missing cells
// are skipped per column.
package housing

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotNumeric    = errors.New("column is not numeric")
	ErrNoNumeric     = errors.New("no numeric columns")
)

// DefaultScatterColumns are the features most correlated with price.
var DefaultScatterColumns = []string{"price", "sqft_living", "bathrooms", "sqft_above", "view"}

const (
	DefaultOverviewRows = 5
	DefaultZScoreRows   = 50
)

var missingMarkers = []string{"NA", "NaN", "<nil>", "nan", "N/A", "null"}

// Dataset is a loaded housing table.
type Dataset struct {
	Name    string
	df      dataframe.DataFrame
	numeric []string
}

func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse reads CSV content with column type detection. Integer and float
// columns are numeric.
func Parse(name string, r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingMarkers),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("error reading housing table %s: %w", name, df.Err)
	}

	d := &Dataset{Name: name, df: df}
	for i, t := range df.Types() {
		if t == series.Int || t == series.Float {
			d.numeric = append(d.numeric, df.Names()[i])
		}
	}
	if len(d.numeric) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoNumeric, name)
	}
	return d, nil
}

func (d *Dataset) Len() int {
	return d.df.Nrow()
}

func (d *Dataset) Columns() []string {
	return d.df.Names()
}

// NumericColumns lists the numeric columns in file order.
func (d *Dataset) NumericColumns() []string {
	out := make([]string, len(d.numeric))
	copy(out, d.numeric)
	return out
}

// values returns the column as floats with missing cells as NaN.
func (d *Dataset) values(col string) ([]float64, error) {
	if !d.isNumeric(col) {
		for _, name := range d.df.Names() {
			if name == col {
				return nil, fmt.Errorf("%w: %q", ErrNotNumeric, col)
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return d.df.Col(col).Float(), nil
}

func (d *Dataset) isNumeric(col string) bool {
	for _, name := range d.numeric {
		if name == col {
			return true
		}
	}
	return false
}

// present drops missing values.
func present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !isMissing(x) {
			out = append(out, x)
		}
	}
	return out
}

func isMissing(x float64) bool {
	return math.IsNaN(x)
}

// number maps undefined statistics to nil so they encode as JSON null.
func number(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// Overview is the first rows of the table, every column as text.
type Overview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Overview returns the first n rows; n <= 0 selects DefaultOverviewRows.
func (d *Dataset) Overview(n int) Overview {
	if n <= 0 {
		n = DefaultOverviewRows
	}
	n = min(n, d.df.Nrow())

	out := Overview{Columns: d.df.Names(), Rows: make([][]string, 0, n)}
	if n == 0 {
		return out
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	records := d.df.Subset(idx).Records()
	out.Rows = append(out.Rows, records[1:]...)
	return out
}
