// SPDX-License-Identifier: MIT

package engine

import (
	"math/rand"

	"github.com/katalvlaran/rulial/grid"
)

// InitMode selects how generation 0 is produced.
type InitMode int

const (
	// InitRandom draws every cell alive with probability Density.
	InitRandom InitMode = iota
	// InitSingleSeed sets only the centre cell.
	InitSingleSeed
	// InitCustom starts from a caller-supplied grid.
	InitCustom
)

// DefaultDensity is the live-cell probability of the random initializer.
const DefaultDensity = 0.5

// defaultSeed is used when no RNG is supplied or the seed is zero.
const defaultSeed int64 = 1

// Option customizes Simulate.
// Complexity: applying N options costs O(N).
type Option func(*simConfig)

type simConfig struct {
	mode    InitMode
	density float64
	custom  grid.Grid
	rng     *rand.Rand
}

func newSimConfig(opts []Option) simConfig {
	cfg := simConfig{mode: InitRandom, density: DefaultDensity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(defaultSeed))
	}

	return cfg
}

// WithRandom selects the random initializer at the given density.
// Densities outside [0, 1] are reported by Simulate.
func WithRandom(density float64) Option {
	return func(c *simConfig) {
		c.mode = InitRandom
		c.density = density
	}
}

// WithSingleSeed selects the centre-seed initializer.
func WithSingleSeed() Option {
	return func(c *simConfig) { c.mode = InitSingleSeed }
}

// WithCustom starts the simulation from g.
func WithCustom(g grid.Grid) Option {
	return func(c *simConfig) {
		c.mode = InitCustom
		c.custom = g
	}
}

// WithSeed seeds the random initializer. Seed 0 selects the fixed default.
func WithSeed(seed int64) Option {
	return func(c *simConfig) {
		if seed == 0 {
			seed = defaultSeed
		}
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the RNG for the random initializer. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("engine: WithRand(nil)")
	}
	return func(c *simConfig) { c.rng = r }
}
