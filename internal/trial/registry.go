package trial

import (
	"sort"

	"github.com/agbru/mcsim/internal/config"
	apperrors "github.com/agbru/mcsim/internal/errors"
)

// Builder constructs an independent trial instance. The engine calls a
// builder once per worker so that every worker owns its trial (and its
// random source) exclusively.
type Builder func(cfg config.SimConfig, seed int64, seeded bool) Trial

// Registry maps trial names to builders. It decouples the engine and the
// application wiring from the concrete trial implementations.
type Registry struct {
	builders map[string]Builder
}

// NewDefaultRegistry returns a registry with all built-in trials registered.
func NewDefaultRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register(PiName, func(cfg config.SimConfig, seed int64, seeded bool) Trial {
		return NewPiEstimator(cfg, seed, seeded)
	})
	r.Register(UniformIntName, func(cfg config.SimConfig, seed int64, seeded bool) Trial {
		return NewUniformInt(cfg, seed, seeded)
	})
	return r
}

// Register adds a builder under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// New constructs a trial by name.
//
// Parameters:
//   - name: The registered trial name.
//   - cfg: The simulation configuration.
//   - seed: The seed for the trial's random source.
//   - seeded: Whether seed should be used.
//
// Returns:
//   - Trial: The constructed trial.
//   - error: A ConfigError if the name is not registered.
func (r *Registry) New(name string, cfg config.SimConfig, seed int64, seeded bool) (Trial, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown trial %q (available: %v)", name, r.List())
	}
	return b(cfg, seed, seeded), nil
}

// List returns the registered trial names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
