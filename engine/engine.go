// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/katalvlaran/rulial/grid"
	"github.com/katalvlaran/rulial/rule"
)

// Engine applies one rule. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	rule rule.Spec
}

// New returns an Engine for spec.
func New(spec rule.Spec) *Engine {
	return &Engine{rule: spec}
}

// NewFromString parses s and returns an Engine for it.
// Errors: those of rule.Parse (rule.ErrMalformedRule).
func NewFromString(s string) (*Engine, error) {
	spec, err := rule.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return New(spec), nil
}

// Rule returns the rule the engine applies.
func (e *Engine) Rule() rule.Spec { return e.rule }

// Step returns the next generation of g. The zero Grid steps to itself.
// Complexity: O(H·W).
func (e *Engine) Step(g grid.Grid) grid.Grid {
	h, w := g.Height(), g.Width()
	if h == 0 || w == 0 {
		return g
	}
	next := make([]byte, h*w)
	var (
		r, c, n       int
		up, mid, down int
		left, right   int
	)
	for r = 0; r < h; r++ {
		up = ((r - 1 + h) % h) * w
		mid = r * w
		down = ((r + 1) % h) * w
		for c = 0; c < w; c++ {
			left = (c - 1 + w) % w
			right = (c + 1) % w
			n = int(g.Cell(up+left)) + int(g.Cell(up+c)) + int(g.Cell(up+right)) +
				int(g.Cell(mid+left)) + int(g.Cell(mid+right)) +
				int(g.Cell(down+left)) + int(g.Cell(down+c)) + int(g.Cell(down+right))
			if e.rule.Next(g.Cell(mid+c) == 1, n) {
				next[mid+c] = 1
			}
		}
	}
	out, _ := grid.FromBytes(h, w, next) // shape and values are valid by construction

	return out
}

// Run advances g by steps generations and returns only the last one.
// Negative steps return g unchanged.
func (e *Engine) Run(g grid.Grid, steps int) grid.Grid {
	for i := 0; i < steps; i++ {
		g = e.Step(g)
	}

	return g
}

// Simulate returns steps+1 generations of an h×w torus, generation 0 first.
//
// Errors:
//   - ErrInvalidShape, ErrInvalidSteps.
//   - ErrShapeMismatch when WithCustom's grid is not h×w.
//   - grid.ErrInvalidDensity when WithRandom's density is outside [0, 1].
//
// Complexity: O(steps·H·W) time and memory.
func (e *Engine) Simulate(h, w, steps int, opts ...Option) ([]grid.Grid, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("Simulate(%d, %d): %w", h, w, ErrInvalidShape)
	}
	if steps < 0 {
		return nil, fmt.Errorf("Simulate: steps=%d: %w", steps, ErrInvalidSteps)
	}
	cfg := newSimConfig(opts)

	var (
		g0  grid.Grid
		err error
	)
	switch cfg.mode {
	case InitSingleSeed:
		g0, err = grid.SingleSeed(h, w)
	case InitCustom:
		if cfg.custom.Height() != h || cfg.custom.Width() != w {
			return nil, fmt.Errorf("Simulate: custom %dx%d, want %dx%d: %w",
				cfg.custom.Height(), cfg.custom.Width(), h, w, ErrShapeMismatch)
		}
		g0 = cfg.custom
	default:
		g0, err = grid.Random(h, w, cfg.density, cfg.rng)
	}
	if err != nil {
		return nil, fmt.Errorf("Simulate: %w", err)
	}

	history := make([]grid.Grid, steps+1)
	history[0] = g0
	for t := 1; t <= steps; t++ {
		history[t] = e.Step(history[t-1])
	}

	return history, nil
}
