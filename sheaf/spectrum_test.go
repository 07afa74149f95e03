// SPDX-License-Identifier: MIT

package sheaf_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rulial/gridgraph"
	"github.com/katalvlaran/rulial/sheaf"
	"github.com/katalvlaran/rulial/sparse"
)

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	return ctx
}

// torusGap is the smallest non-zero Laplacian eigenvalue of the 8×8
// 8-connected torus: 8 − 2cos(π/4) − 2 − 4cos(π/4).
var torusGap = 6 - 3*math.Sqrt2

func TestSummarizeSpectrum(t *testing.T) {
	s := sheaf.SummarizeSpectrum([]float64{0, 1e-9, 0.5, 2})
	require.Equal(t, 0.5, s.Gap)
	require.InDelta(t, 2.5, s.EffectiveResistance, 1e-12)
	require.Equal(t, []float64{0, 1e-9, 0.5, 2}, s.Eigenvalues)

	s = sheaf.SummarizeSpectrum([]float64{0})
	require.Equal(t, 0.0, s.Gap)
	require.True(t, math.IsInf(s.EffectiveResistance, 1))

	s = sheaf.SummarizeSpectrum(nil)
	require.Equal(t, 0.0, s.Gap)
	require.True(t, math.IsInf(s.EffectiveResistance, 1))
}

func TestAnalyzeSpectrumTorus(t *testing.T) {
	st, err := gridgraph.Build(8, 8)
	require.NoError(t, err)

	s, err := sheaf.AnalyzeSpectrum(st.Laplacian, 25, sparse.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, s.Eigenvalues, sheaf.MaxSpectralK)
	require.InDelta(t, 0, s.Eigenvalues[0], 1e-8)
	require.InDelta(t, torusGap, s.Gap, 1e-6)
	require.False(t, math.IsInf(s.EffectiveResistance, 0))
	require.Greater(t, s.EffectiveResistance, 1/torusGap)
	for i := 1; i < len(s.Eigenvalues); i++ {
		require.LessOrEqual(t, s.Eigenvalues[i-1], s.Eigenvalues[i]+1e-9)
	}
}

func TestAnalyzeSpectrumSingleCell(t *testing.T) {
	st, err := gridgraph.Build(1, 1)
	require.NoError(t, err)

	s, err := sheaf.AnalyzeSpectrum(st.Laplacian, sheaf.MaxSpectralK, sparse.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0.0, s.Gap)
	require.True(t, math.IsInf(s.EffectiveResistance, 1))
	require.Equal(t, []float64{0}, s.Eigenvalues)
}

func TestAnalyzeSpectrumFailure(t *testing.T) {
	st, err := gridgraph.Build(8, 8)
	require.NoError(t, err)
	opts := sparse.DefaultOptions()
	opts.Ctx = cancelledContext()

	_, err = sheaf.AnalyzeSpectrum(st.Laplacian, 5, opts)
	require.ErrorIs(t, err, sparse.ErrNoConvergence)
	require.ErrorIs(t, err, context.Canceled)

	_, err = sheaf.AnalyzeSpectrum(nil, 5, sparse.DefaultOptions())
	require.ErrorIs(t, err, sheaf.ErrNilOperator)
}

func TestFallbackSpectrum(t *testing.T) {
	s := sheaf.FallbackSpectrum(sheaf.DefaultFallback())
	require.Equal(t, 0.2, s.Gap)
	require.Equal(t, 100.0, s.EffectiveResistance)
	require.Equal(t, []float64{0, 0.2}, s.Eigenvalues)
}

func TestSmallestEigenpairsOrdering(t *testing.T) {
	st, err := gridgraph.Build(3, 4)
	require.NoError(t, err)

	eig, err := sheaf.SmallestEigenpairs(st.Laplacian, 50, sparse.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, eig.Values, 10) // capped at n − 2
	require.Len(t, eig.Vectors, 10)
	for i, v := range eig.Values {
		require.GreaterOrEqual(t, v, 0.0)
		require.Len(t, eig.Vectors[i], 12)
		if i > 0 {
			require.LessOrEqual(t, eig.Values[i-1], v)
		}
	}

	_, err = sheaf.SmallestEigenpairs(st.Laplacian, 0, sparse.DefaultOptions())
	require.ErrorIs(t, err, sparse.ErrInvalidK)
}
