package trial

import (
	"math"
	"math/rand"

	"github.com/agbru/mcsim/internal/config"
)

// PiName is the registry name of the pi estimation trial.
const PiName = "pi"

// AuxInsideCircle is the auxiliary key reporting the raw hit count.
const AuxInsideCircle = "inside_circle"

// PiEstimator estimates pi by uniform sampling of the unit square: the
// fraction of points falling inside the inscribed unit circle approaches
// pi/4. Each Run draws the configured number of samples and returns
// 4 * inside / samples.
type PiEstimator struct {
	samples     int
	vectorized  bool
	storePoints bool
	rng         *rand.Rand
	points      []Point
}

// NewPiEstimator constructs a pi estimation trial from the configuration.
// The trial seeds its own random source once here; see Trial for the
// determinism contract.
//
// Parameters:
//   - cfg: The simulation configuration (sample count, sampling path,
//     point retention).
//   - seed: The seed for the trial's random source.
//   - seeded: Whether seed should be used (false selects a clock seed).
//
// Returns:
//   - *PiEstimator: The constructed trial.
func NewPiEstimator(cfg config.SimConfig, seed int64, seeded bool) *PiEstimator {
	return &PiEstimator{
		samples:     cfg.Samples,
		vectorized:  cfg.Vectorized,
		storePoints: cfg.StorePoints,
		rng:         newRand(seed, seeded),
	}
}

// Name returns the trial identifier.
func (p *PiEstimator) Name() string { return PiName }

// Reference returns math.Pi; the pi trial always has a known answer.
func (p *PiEstimator) Reference() (float64, bool) { return math.Pi, true }

// Run draws a fresh round of samples and returns the pi estimate together
// with the raw inside-circle count in the auxiliary map.
func (p *PiEstimator) Run() (float64, map[string]float64, error) {
	var inside int
	if p.vectorized {
		inside = p.runBatch()
	} else {
		inside = p.runScalar()
	}

	estimate := 4 * float64(inside) / float64(p.samples)
	return estimate, map[string]float64{AuxInsideCircle: float64(inside)}, nil
}

// runBatch generates all coordinates up front and classifies them in a
// second pass. Statistically equivalent to runScalar; the split exists so
// the two sampling paths can be toggled and compared.
func (p *PiEstimator) runBatch() int {
	xs := make([]float64, p.samples)
	ys := make([]float64, p.samples)
	for i := range xs {
		xs[i] = p.rng.Float64()*2 - 1
		ys[i] = p.rng.Float64()*2 - 1
	}

	inside := 0
	for i := range xs {
		hit := xs[i]*xs[i]+ys[i]*ys[i] <= 1
		if hit {
			inside++
		}
		if p.storePoints {
			p.points = append(p.points, Point{X: xs[i], Y: ys[i], Inside: hit})
		}
	}
	return inside
}

// runScalar draws and classifies one point at a time.
func (p *PiEstimator) runScalar() int {
	inside := 0
	for i := 0; i < p.samples; i++ {
		x := p.rng.Float64()*2 - 1
		y := p.rng.Float64()*2 - 1
		hit := x*x+y*y <= 1
		if hit {
			inside++
		}
		if p.storePoints {
			p.points = append(p.points, Point{X: x, Y: y, Inside: hit})
		}
	}
	return inside
}

// Points returns the recorded sample points. Empty unless point retention
// was enabled in the configuration. The slice is owned by this trial.
func (p *PiEstimator) Points() []Point { return p.points }
