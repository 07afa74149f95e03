// SPDX-License-Identifier: MIT

package sheaf_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

func TestMonodromyFromRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"unitary", 1, 0},
		{"inside band above", 1.09, 0},
		{"inside band below", 0.95, 0},
		{"doubling", 2, math.Tanh(1)},
		{"halving", 0.5, math.Tanh(-0.5)},
		{"extinct", 0, math.Tanh(-1)},
		{"nan", math.NaN(), 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, sheaf.MonodromyFromRatio(tc.ratio, 0.1), 1e-12)
		})
	}
}

func TestMonodromyFromRatioSaturates(t *testing.T) {
	for _, r := range []float64{25, 1e6, math.Inf(1)} {
		v := sheaf.MonodromyFromRatio(r, 0.1)
		require.Less(t, v, 1.0)
		require.Greater(t, v, 0.999)
	}
	prev := 0.0
	for _, r := range []float64{1.2, 1.5, 2, 4, 8} {
		v := sheaf.MonodromyFromRatio(r, 0.1)
		require.Greater(t, v, prev)
		prev = v
	}
}

func TestEstimateMonodromyLife(t *testing.T) {
	// Under B3/S23 a full-width line splits into two lines moving one row
	// apart per two generations: 10 steps double the population.
	m := sheaf.EstimateMonodromy(rule.Life, sheaf.DefaultMonodromyOptions())
	require.Equal(t, 32, m.Initial)
	require.Equal(t, 64, m.Final)
	require.InDelta(t, 2, m.Ratio, 1e-12)
	require.InDelta(t, math.Tanh(1), m.Index, 1e-12)
}

func TestEstimateMonodromyExtinction(t *testing.T) {
	m := sheaf.EstimateMonodromy(rule.MustParse("B/S"), sheaf.DefaultMonodromyOptions())
	require.Equal(t, 32, m.Initial)
	require.Equal(t, 0, m.Final)
	require.Equal(t, 0.0, m.Index)
}

func TestExtinctBandClassifiesMixed(t *testing.T) {
	for _, r := range []string{"B1/S", "B2/S", "B2/S0"} {
		m := sheaf.EstimateMonodromy(rule.MustParse(r), sheaf.DefaultMonodromyOptions())
		require.Equal(t, 0, m.Final, r)
		require.Equal(t, 0.0, m.Index, r)
		require.Equal(t, sheaf.Mixed, sheaf.Classify(m.Index, 0, 0), r)
	}
}

func TestEstimateMonodromyStill(t *testing.T) {
	// S2 keeps the line alive and nothing is born.
	m := sheaf.EstimateMonodromy(rule.MustParse("B/S2"), sheaf.DefaultMonodromyOptions())
	require.Equal(t, m.Initial, m.Final)
	require.Equal(t, 0.0, m.Index)
}

func TestEstimateMonodromyEmptySeed(t *testing.T) {
	m := sheaf.EstimateMonodromy(rule.Life, sheaf.MonodromyOptions{Size: 0, Steps: 10, Band: 0.1})
	require.Equal(t, sheaf.Monodromy{}, m)
}
