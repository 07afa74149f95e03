// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/rulial/gridgraph"
)

// Random returns a grid whose cells are independently alive with the given
// probability, drawn from rng in row-major order.
// Errors: ErrInvalidShape, ErrInvalidDensity.
func Random(h, w int, density float64, rng *rand.Rand) (Grid, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return Grid{}, fmt.Errorf("Random: density %v: %w", density, ErrInvalidDensity)
	}
	g, err := New(h, w)
	if err != nil {
		return Grid{}, fmt.Errorf("Random: %w", err)
	}
	for i := range g.cells {
		if rng.Float64() < density {
			g.cells[i] = 1
		}
	}

	return g, nil
}

// SingleSeed returns a grid with only the centre cell (h/2, w/2) alive.
func SingleSeed(h, w int) (Grid, error) {
	g, err := New(h, w)
	if err != nil {
		return Grid{}, fmt.Errorf("SingleSeed: %w", err)
	}
	g.cells[(h/2)*w+w/2] = 1

	return g, nil
}

// HorizontalBand returns a grid whose only live cells fill row `row`
// (reduced modulo h).
func HorizontalBand(h, w, row int) (Grid, error) {
	g, err := New(h, w)
	if err != nil {
		return Grid{}, fmt.Errorf("HorizontalBand: %w", err)
	}
	base := gridgraph.Mod(row, h) * w
	for c := 0; c < w; c++ {
		g.cells[base+c] = 1
	}

	return g, nil
}
