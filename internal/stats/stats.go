// Package stats computes descriptive statistics and error metrics over
// collected Monte Carlo estimates. All functions are pure and never panic on
// numerically degenerate input: undefined quantities are reported as NaN.
package stats

import (
	"math"
	"sort"
)

// Summary holds descriptive statistics for a sample of scalar estimates.
// Variance and StdDev use the population definition (divide by N, not N-1),
// matching the aggregate statistics the rest of the engine reports.
type Summary struct {
	// N is the number of samples described.
	N int
	// Mean is the arithmetic mean.
	Mean float64
	// Median is the middle value (average of the two middle values for even N).
	Median float64
	// Variance is the population variance.
	Variance float64
	// StdDev is the population standard deviation.
	StdDev float64
	// Min is the smallest sample.
	Min float64
	// Max is the largest sample.
	Max float64
	// Skewness is the third standardized moment. NaN when StdDev is zero.
	Skewness float64
	// Kurtosis is the excess kurtosis (fourth standardized moment minus 3).
	// NaN when StdDev is zero.
	Kurtosis float64
}

// Describe computes the full summary for the given samples.
//
// A degenerate sample (constant values, or a single value) has zero variance;
// its skewness and kurtosis are reported as NaN rather than raising an error.
// An empty sample yields N == 0 with every statistic NaN.
//
// Parameters:
//   - xs: The samples to describe. The slice is not modified.
//
// Returns:
//   - Summary: The computed statistics.
func Describe(xs []float64) Summary {
	if len(xs) == 0 {
		nan := math.NaN()
		return Summary{
			Mean: nan, Median: nan, Variance: nan, StdDev: nan,
			Min: nan, Max: nan, Skewness: nan, Kurtosis: nan,
		}
	}

	s := Summary{N: len(xs), Mean: Mean(xs), Median: Median(xs)}

	s.Min, s.Max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}

	s.Variance = moment(xs, s.Mean, 2)
	s.StdDev = math.Sqrt(s.Variance)

	if s.StdDev == 0 {
		s.Skewness = math.NaN()
		s.Kurtosis = math.NaN()
		return s
	}

	// Standardized third and fourth moments: mean(((x-mean)/std)^k).
	s.Skewness = standardizedMoment(xs, s.Mean, s.StdDev, 3)
	s.Kurtosis = standardizedMoment(xs, s.Mean, s.StdDev, 4) - 3
	return s
}

// Mean returns the arithmetic mean of xs, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance of xs, or NaN for an empty slice.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return moment(xs, Mean(xs), 2)
}

// StdDev returns the population standard deviation of xs, or NaN for an
// empty slice.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Median returns the middle value of xs without modifying the input, or NaN
// for an empty slice. For an even number of samples it averages the two
// middle values.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Percentile returns the p-th percentile of a sorted sample using the
// nearest-rank method. p is in [0, 1] (e.g. 0.95 for p95). The slice must be
// sorted in ascending order.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

// RunningMeans returns the cumulative running mean after each element of xs.
// Element i is the mean of xs[0..i]. This is the series plotted as a
// convergence history.
func RunningMeans(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	means := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		means[i] = sum / float64(i+1)
	}
	return means
}

// ErrorMetrics computes the absolute and relative error of an estimate
// against a known reference value.
//
// The relative error is NaN when the reference is zero; the caller is
// expected to check for NaN rather than rely on an error return.
//
// Parameters:
//   - estimate: The computed estimate.
//   - reference: The known correct value.
//
// Returns:
//   - float64: The absolute error |estimate - reference|.
//   - float64: The relative error |estimate - reference| / |reference|.
func ErrorMetrics(estimate, reference float64) (float64, float64) {
	abs := math.Abs(estimate - reference)
	if reference == 0 {
		return abs, math.NaN()
	}
	return abs, abs / math.Abs(reference)
}

// moment computes mean((x-center)^k).
func moment(xs []float64, center float64, k int) float64 {
	var sum float64
	for _, x := range xs {
		sum += math.Pow(x-center, float64(k))
	}
	return sum / float64(len(xs))
}

// standardizedMoment computes mean(((x-mean)/std)^k).
func standardizedMoment(xs []float64, mean, std float64, k int) float64 {
	var sum float64
	for _, x := range xs {
		sum += math.Pow((x-mean)/std, float64(k))
	}
	return sum / float64(len(xs))
}
