package trial

import (
	"math/rand"

	"github.com/agbru/mcsim/internal/config"
)

// UniformIntName is the registry name of the uniform integer trial.
const UniformIntName = "uniform-int"

// Auxiliary keys reported by the uniform integer trial.
const (
	AuxObservedMin = "observed_min"
	AuxObservedMax = "observed_max"
)

// UniformInt samples integers uniformly from [Min, Max] and estimates the
// distribution mean. The reference value is the exact mean (Min+Max)/2, so
// the trial doubles as a self-checking exercise of the error metrics.
type UniformInt struct {
	min, max int
	samples  int
	batches  []int
	storeRaw bool
	rng      *rand.Rand
	raw      []float64
}

// NewUniformInt constructs a uniform integer trial from the configuration.
// Batched generation follows the configured batch size, with the last batch
// absorbing any remainder so the total drawn always equals the configured
// sample count.
//
// Parameters:
//   - cfg: The simulation configuration (bounds, sample count, batching,
//     raw retention).
//   - seed: The seed for the trial's random source.
//   - seeded: Whether seed should be used (false selects a clock seed).
//
// Returns:
//   - *UniformInt: The constructed trial.
func NewUniformInt(cfg config.SimConfig, seed int64, seeded bool) *UniformInt {
	return &UniformInt{
		min:      cfg.UniformMin,
		max:      cfg.UniformMax,
		samples:  cfg.Samples,
		batches:  cfg.EffectiveBatches(cfg.Samples),
		storeRaw: cfg.StorePoints,
		rng:      newRand(seed, seeded),
	}
}

// Name returns the trial identifier.
func (u *UniformInt) Name() string { return UniformIntName }

// Reference returns the exact mean of the discrete uniform distribution.
func (u *UniformInt) Reference() (float64, bool) {
	return float64(u.min+u.max) / 2, true
}

// Run draws one round of integers batch by batch and returns the sample mean
// plus the observed extrema in the auxiliary map.
func (u *UniformInt) Run() (float64, map[string]float64, error) {
	span := u.max - u.min + 1

	var sum float64
	obsMin, obsMax := float64(u.max), float64(u.min)
	for _, size := range u.batches {
		for i := 0; i < size; i++ {
			v := float64(u.min + u.rng.Intn(span))
			sum += v
			if v < obsMin {
				obsMin = v
			}
			if v > obsMax {
				obsMax = v
			}
			if u.storeRaw {
				u.raw = append(u.raw, v)
			}
		}
	}

	estimate := sum / float64(u.samples)
	aux := map[string]float64{
		AuxObservedMin: obsMin,
		AuxObservedMax: obsMax,
	}
	return estimate, aux, nil
}

// RawSamples returns the retained raw draws. Empty unless raw retention was
// enabled in the configuration. The slice is owned by this trial.
func (u *UniformInt) RawSamples() []float64 { return u.raw }
