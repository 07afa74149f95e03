// SPDX-License-Identifier: MIT

package sheaf

import (
	"math"

	"github.com/katalvlaran/rulial/engine"
	"github.com/katalvlaran/rulial/grid"
	"github.com/katalvlaran/rulial/rule"
)

// MonodromyOptions fixes the band probe.
type MonodromyOptions struct {
	Size  int     // side of the square torus
	Steps int     // generations to evolve
	Band  float64 // |ratio − 1| ≤ Band counts as unitary
}

// DefaultMonodromyOptions returns a 32×32 torus, 10 steps and a ±0.1 band.
func DefaultMonodromyOptions() MonodromyOptions {
	return MonodromyOptions{Size: 32, Steps: 10, Band: 0.1}
}

// Monodromy is the outcome of the band probe.
type Monodromy struct {
	Index   float64 `json:"monodromy_index" yaml:"monodromy_index" toml:"monodromy_index"`
	Ratio   float64 `json:"ratio" yaml:"ratio" toml:"ratio"`
	Initial int     `json:"initial_live" yaml:"initial_live" toml:"initial_live"`
	Final   int     `json:"final_live" yaml:"final_live" toml:"final_live"`
}

// maxIndex is the largest float64 below 1; tanh saturates to exactly 1.0
// for arguments above ~19.
var maxIndex = math.Nextafter(1, 0)

// MonodromyFromRatio maps a growth ratio to an index in (−1, 1):
// 0 inside the band around 1, tanh(ratio − 1) outside it. NaN maps to 0.
func MonodromyFromRatio(ratio, band float64) float64 {
	if math.IsNaN(ratio) || math.Abs(ratio-1) <= band {
		return 0
	}
	v := math.Tanh(ratio - 1)
	if v > maxIndex {
		return maxIndex
	}
	if v < -maxIndex {
		return -maxIndex
	}

	return v
}

// EstimateMonodromy seeds a full-width horizontal band on row Size/2 of a
// Size×Size torus (a generator of its first homology), evolves it Steps
// generations under spec and maps final/initial live counts through
// MonodromyFromRatio.
//
// Degenerate runs yield Index 0: an empty seed (non-positive Size) and a
// band that dies out completely, which carries no growth signal. Extinction
// therefore reads as neutral, not as decay: a rule that kills the band,
// such as B1/S, B2/S or B2/S0, gets |Index| < 0.5 and classifies as mixed
// rather than tense.
func EstimateMonodromy(spec rule.Spec, opts MonodromyOptions) Monodromy {
	g0, err := grid.HorizontalBand(opts.Size, opts.Size, opts.Size/2)
	if err != nil {
		return Monodromy{}
	}
	m := Monodromy{Initial: g0.Population()}
	if m.Initial == 0 {
		return m
	}
	m.Final = engine.New(spec).Run(g0, opts.Steps).Population()
	m.Ratio = float64(m.Final) / float64(m.Initial)
	if m.Final == 0 {
		return m
	}
	m.Index = MonodromyFromRatio(m.Ratio, opts.Band)

	return m
}
