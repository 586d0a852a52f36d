package housing

import (
	"fmt"

	"github.com/mr1hm/go-disaster-dashboard/internal/stats"
)

// Description is the describe() row of one numeric column.
type Description struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

func (d *Dataset) Describe() []Description {
	out := make([]Description, 0, len(d.numeric))
	for _, col := range d.numeric {
		xs := present(d.df.Col(col).Float())
		out = append(out, Description{
			Column: col,
			Count:  len(xs),
			Mean:   number(stats.Mean(xs)),
			Std:    number(stats.StdDev(xs)),
			Min:    number(stats.Min(xs)),
			P25:    number(stats.Quantile(xs, 0.25)),
			P50:    number(stats.Median(xs)),
			P75:    number(stats.Quantile(xs, 0.75)),
			Max:    number(stats.Max(xs)),
		})
	}
	return out
}

// ColumnValue is one statistic of one numeric column.
type ColumnValue struct {
	Column string   `json:"column"`
	Value  *float64 `json:"value"`
}

func (d *Dataset) perColumn(fn func([]float64) float64) []ColumnValue {
	out := make([]ColumnValue, 0, len(d.numeric))
	for _, col := range d.numeric {
		xs := present(d.df.Col(col).Float())
		out = append(out, ColumnValue{Column: col, Value: number(fn(xs))})
	}
	return out
}

func (d *Dataset) Median() []ColumnValue { return d.perColumn(stats.Median) }

// Mode picks the smallest value among equally frequent ones.
func (d *Dataset) Mode() []ColumnValue { return d.perColumn(stats.Mode) }

// Range is max - min per column.
func (d *Dataset) Range() []ColumnValue {
	return d.perColumn(func(xs []float64) float64 {
		return stats.Max(xs) - stats.Min(xs)
	})
}

// Variance and StdDev are sample statistics (n-1 denominator).
func (d *Dataset) Variance() []ColumnValue { return d.perColumn(stats.Variance) }

func (d *Dataset) StdDev() []ColumnValue { return d.perColumn(stats.StdDev) }

// Summary bundles the per-column statistics panels.
type Summary struct {
	Describe []Description `json:"describe"`
	Median   []ColumnValue `json:"median"`
	Mode     []ColumnValue `json:"mode"`
	Range    []ColumnValue `json:"range"`
	Variance []ColumnValue `json:"variance"`
	StdDev   []ColumnValue `json:"std_dev"`
}

func (d *Dataset) Summary() Summary {
	return Summary{
		Describe: d.Describe(),
		Median:   d.Median(),
		Mode:     d.Mode(),
		Range:    d.Range(),
		Variance: d.Variance(),
		StdDev:   d.StdDev(),
	}
}

// Matrix is a square or rectangular table of numeric cells keyed by column.
type Matrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// Correlation is the Pearson correlation of every pair of numeric columns,
// computed over the rows where both values are present.
func (d *Dataset) Correlation() Matrix {
	cols := make([][]float64, len(d.numeric))
	for i, col := range d.numeric {
		cols[i] = d.df.Col(col).Float()
	}

	m := Matrix{Columns: d.NumericColumns(), Values: make([][]*float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]*float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			xs, ys := pairwise(cols[i], cols[j])
			r := number(stats.Correlation(xs, ys))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwise(a, b []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(a))
	ys := make([]float64, 0, len(b))
	for k := range a {
		if isMissing(a[k]) || isMissing(b[k]) {
			continue
		}
		xs = append(xs, a[k])
		ys = append(ys, b[k])
	}
	return xs, ys
}

// Scatter holds the raw values of the selected columns, one slice per
// column, for a scatter matrix.
type Scatter struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// ScatterMatrix returns the values of cols. Every column must exist and be
// numeric.
func (d *Dataset) ScatterMatrix(cols []string) (Scatter, error) {
	if len(cols) == 0 {
		cols = DefaultScatterColumns
	}
	s := Scatter{Columns: append([]string(nil), cols...), Values: make([][]*float64, len(cols))}
	for i, col := range cols {
		xs, err := d.values(col)
		if err != nil {
			return Scatter{}, fmt.Errorf("scatter matrix: %w", err)
		}
		s.Values[i] = make([]*float64, len(xs))
		for k, x := range xs {
			s.Values[i][k] = number(x)
		}
	}
	return s, nil
}

// ZScores standardises every numeric column with its mean and sample
// standard deviation and returns the first limit rows. Undefined scores
// (missing cell, constant column) are nil. limit <= 0 selects
// DefaultZScoreRows.
func (d *Dataset) ZScores(limit int) Matrix {
	if limit <= 0 {
		limit = DefaultZScoreRows
	}
	limit = min(limit, d.df.Nrow())

	m := Matrix{Columns: d.NumericColumns(), Values: make([][]*float64, limit)}
	for r := range m.Values {
		m.Values[r] = make([]*float64, len(d.numeric))
	}
	for c, col := range d.numeric {
		all := d.df.Col(col).Float()
		xs := present(all)
		mean, std := stats.Mean(xs), stats.StdDev(xs)
		for r := 0; r < limit; r++ {
			if isMissing(all[r]) {
				continue
			}
			m.Values[r][c] = number((all[r] - mean) / std)
		}
	}
	return m
}
