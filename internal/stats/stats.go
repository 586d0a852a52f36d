// Package stats holds the numeric helpers shared by the disaster and housing
// dashboards.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sum returns 0 for an empty slice.
func Sum(xs []float64) float64 {
	return floats.Sum(xs)
}

// Mean returns NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Variance is the unbiased (n-1) sample variance; NaN below two values.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Variance(xs, nil)
}

// StdDev is the sample standard deviation; NaN below two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// Quantile uses linear interpolation between closest ranks (h = p*(n-1)),
// the convention dataframe libraries use for describe and median output.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Min and Max return NaN for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

// Mode returns the most frequent value, the smallest one among ties.
func Mode(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	best, bestN := math.Inf(1), 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

// Correlation is the Pearson coefficient of two equally long series.
func Correlation(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// Round rounds to the given number of decimals, ties to even.
func Round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*pow) / pow
}
