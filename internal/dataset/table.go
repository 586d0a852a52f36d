package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	ErrMissingColumn      = errors.New("required column missing")
	ErrNoPredictionColumn = errors.New("no matching prediction column")
)

// missingMarkers are raw cell values treated as absent.
var missingMarkers = []string{"NA", "NaN", "<nil>", "nan", "N/A", "null"}

// Table is a flat, string-typed table read from one delimited file.
type Table struct {
	Name string
	df   dataframe.DataFrame
}

// ReadTable reads a header-row CSV file. A missing file is reported with an
// error wrapping os.ErrNotExist.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseTable(path, f)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTable reads CSV content from r. Every column is kept as text; numeric
// coercion happens when events are built. A header with no data rows yields
// an empty table with those columns.
func ParseTable(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", name, err)
	}
	if len(records) == 1 {
		return emptyTable(name, records[0])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", name, df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

func emptyTable(name string, header []string) (*Table, error) {
	cols := make([]series.Series, len(header))
	for i, h := range header {
		cols[i] = series.New([]string{}, series.String, h)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", name, df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

func (t *Table) Len() int {
	return t.df.Nrow()
}

func (t *Table) Columns() []string {
	return t.df.Names()
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the raw cell values of a column with missing cells as "".
func (t *Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, name, t.Name)
	}
	col := t.df.Col(name)
	values := col.Records()
	nan := col.IsNaN()
	for i := range values {
		if nan[i] {
			values[i] = ""
		}
	}
	return values, nil
}

// Normalized returns a copy of the table with every header trimmed and
// lowercased, so prediction columns can be located regardless of export
// quirks.
func (t *Table) Normalized() (*Table, error) {
	df := t.df
	for _, name := range df.Names() {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == name {
			continue
		}
		df = df.Rename(normalized, name)
		if df.Err != nil {
			return nil, fmt.Errorf("error normalizing column %q of %s: %w", name, t.Name, df.Err)
		}
	}
	return &Table{Name: t.Name, df: df}, nil
}

// FindColumn returns the first header, in file order, containing substr
// case-insensitively.
func FindColumn(t *Table, substr string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(substr))
	for _, name := range t.Columns() {
		if strings.Contains(strings.ToLower(strings.TrimSpace(name)), needle) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no column containing %q in %s", ErrNoPredictionColumn, substr, t.Name)
}
