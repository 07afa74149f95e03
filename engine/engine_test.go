// SPDX-License-Identifier: MIT
package engine_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/rulial/engine"
	"github.com/katalvlaran/rulial/grid"
	"github.com/katalvlaran/rulial/rule"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, rows ...string) grid.Grid {
	t.Helper()
	g, err := grid.FromRows(rows...)
	require.NoError(t, err)

	return g
}

func TestGliderTranslatesEveryFourGenerations(t *testing.T) {
	g0 := mustGrid(t,
		".#......",
		"..#.....",
		"###.....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	e := engine.New(rule.Life)

	history, err := e.Simulate(8, 8, 4, engine.WithCustom(g0))
	require.NoError(t, err)
	require.Len(t, history, 5)
	require.True(t, history[0].Equal(g0))
	for i := 1; i < 4; i++ {
		require.Equal(t, 5, history[i].Population(), "generation %d", i)
		require.False(t, history[i].Equal(g0.Translate(1, 1)), "generation %d", i)
	}
	require.True(t, history[4].Equal(g0.Translate(1, 1)))

	// 8 more periods bring it back around the torus.
	require.True(t, e.Run(g0, 32).Equal(g0))
}

func TestOscillatorsAndStillLifes(t *testing.T) {
	e := engine.New(rule.Life)

	blinker := mustGrid(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	flipped := e.Step(blinker)
	require.True(t, flipped.Equal(mustGrid(t,
		".....",
		".....",
		".###.",
		".....",
		".....",
	)))
	require.True(t, e.Step(flipped).Equal(blinker))

	block := mustGrid(t,
		"....",
		".##.",
		".##.",
		"....",
	)
	require.True(t, e.Step(block).Equal(block))
}

func TestNeighbourCountWraps(t *testing.T) {
	// Three cells on the seam give birth on the far side: B3 at (0,0)
	// sees (4,4), (4,0) and (0,4).
	g := mustGrid(t,
		"....#",
		".....",
		".....",
		".....",
		"#...#",
	)
	next := engine.New(rule.MustParse("B3/S")).Step(g)
	require.True(t, next.At(0, 0))
	require.Equal(t, 1, next.Population())
}

func TestStepIsDeterministicAndShapePreserving(t *testing.T) {
	g, err := grid.Random(13, 7, 0.4, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	e := engine.New(rule.MustParse("B36/S23"))

	a, b := e.Step(g), e.Step(g)
	require.True(t, a.Equal(b))
	require.Equal(t, 13, a.Height())
	require.Equal(t, 7, a.Width())
}

func TestEmptyRuleKillsEverything(t *testing.T) {
	e, err := engine.NewFromString("B/S")
	require.NoError(t, err)

	history, err := e.Simulate(10, 10, 1, engine.WithRandom(0.5), engine.WithSeed(3))
	require.NoError(t, err)
	require.Equal(t, 0, history[1].Population())
}

func TestSimulateSeeding(t *testing.T) {
	e := engine.New(rule.Life)

	a, err := e.Simulate(12, 12, 3, engine.WithSeed(77))
	require.NoError(t, err)
	b, err := e.Simulate(12, 12, 3, engine.WithRand(rand.New(rand.NewSource(77))))
	require.NoError(t, err)
	for i := range a {
		require.True(t, a[i].Equal(b[i]), "generation %d", i)
	}

	zero, err := e.Simulate(12, 12, 0, engine.WithSeed(0))
	require.NoError(t, err)
	def, err := e.Simulate(12, 12, 0)
	require.NoError(t, err)
	require.Len(t, zero, 1)
	require.True(t, zero[0].Equal(def[0]))

	seed, err := e.Simulate(9, 9, 2, engine.WithSingleSeed())
	require.NoError(t, err)
	require.Equal(t, 1, seed[0].Population())
	require.True(t, seed[0].At(4, 4))
	require.Equal(t, 0, seed[1].Population())
}

func TestSimulateErrors(t *testing.T) {
	e := engine.New(rule.Life)

	_, err := e.Simulate(0, 4, 1)
	require.ErrorIs(t, err, engine.ErrInvalidShape)
	require.ErrorIs(t, err, grid.ErrInvalidShape)

	_, err = e.Simulate(4, 4, -1)
	require.ErrorIs(t, err, engine.ErrInvalidSteps)

	small, _ := grid.New(3, 3)
	_, err = e.Simulate(4, 4, 1, engine.WithCustom(small))
	require.ErrorIs(t, err, engine.ErrShapeMismatch)

	_, err = e.Simulate(4, 4, 1, engine.WithRandom(-0.1))
	require.ErrorIs(t, err, grid.ErrInvalidDensity)

	_, err = engine.NewFromString("B9/S")
	require.ErrorIs(t, err, rule.ErrMalformedRule)

	require.Panics(t, func() { engine.WithRand(nil) })
}
