package stats

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genSample generates non-empty float64 samples in a bounded range, keeping
// the arithmetic well away from overflow so the properties test statistics,
// not float edge cases.
func genSample() gopter.Gen {
	return gen.SliceOf(gen.Float64Range(-1e6, 1e6)).
		SuchThat(func(xs []float64) bool { return len(xs) > 0 })
}

// TestMeanBounds_PropertyBased verifies that for any non-empty sample the
// mean lies within [min, max]. This is the basic sanity invariant of the
// aggregation layer: no weighting or accumulation error can push the mean
// outside the observed range.
func TestMeanBounds_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("mean lies within [min, max]", prop.ForAll(
		func(xs []float64) bool {
			s := Describe(xs)
			// Tolerance scales with magnitude to absorb summation rounding.
			tol := 1e-9 * math.Max(1, math.Max(math.Abs(s.Min), math.Abs(s.Max)))
			return s.Mean >= s.Min-tol && s.Mean <= s.Max+tol
		},
		genSample(),
	))

	properties.TestingRun(t)
}

// TestConstantSample_PropertyBased verifies the degenerate-statistics
// contract: a buffer of one repeated constant has zero standard deviation,
// NaN skewness and kurtosis, and a mean equal to the constant.
func TestConstantSample_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Integer-valued constants sum exactly in float64 at these magnitudes,
	// so the degenerate zero-variance path is hit without rounding noise.
	properties.Property("constant sample degenerates to NaN moments", prop.ForAll(
		func(ci int64, n int) bool {
			c := float64(ci)
			xs := make([]float64, n)
			for i := range xs {
				xs[i] = c
			}
			s := Describe(xs)
			return s.StdDev == 0 &&
				math.IsNaN(s.Skewness) &&
				math.IsNaN(s.Kurtosis) &&
				s.Mean == c
		},
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.IntRange(2, 100),
	))

	properties.TestingRun(t)
}

// TestVarianceNonNegative_PropertyBased verifies that population variance is
// never negative and that StdDev is its square root.
func TestVarianceNonNegative_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("variance >= 0 and stddev = sqrt(variance)", prop.ForAll(
		func(xs []float64) bool {
			s := Describe(xs)
			if s.Variance < 0 {
				return false
			}
			return math.Abs(s.StdDev-math.Sqrt(s.Variance)) < 1e-9
		},
		genSample(),
	))

	properties.TestingRun(t)
}

// TestErrorMetricsRoundTrip_PropertyBased verifies the error-metric round
// trip: an estimate equal to its reference has zero absolute and relative
// error for any non-zero reference.
func TestErrorMetricsRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("estimate == reference yields zero error", prop.ForAll(
		func(r float64) bool {
			if r == 0 {
				r = 1
			}
			abs, rel := ErrorMetrics(r, r)
			return abs == 0 && rel == 0
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

// TestRunningMeansConsistency_PropertyBased verifies that the last running
// mean equals the overall mean of the sample.
func TestRunningMeansConsistency_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("final running mean equals overall mean", prop.ForAll(
		func(xs []float64) bool {
			means := RunningMeans(xs)
			if len(means) != len(xs) {
				return false
			}
			return math.Abs(means[len(means)-1]-Mean(xs)) < 1e-6
		},
		genSample(),
	))

	properties.TestingRun(t)
}
