// SPDX-License-Identifier: MIT

package sheaf_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rulial/gridgraph"
	"github.com/katalvlaran/rulial/sheaf"
	"github.com/katalvlaran/rulial/sparse"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func TestDecomposeTorus(t *testing.T) {
	st, err := gridgraph.Build(8, 8)
	require.NoError(t, err)
	opts := sparse.DefaultOptions()

	tests := []struct {
		name     string
		signal   []float64
		harmonic float64
		gradient float64
	}{
		{"uniform", constant(64, 1), 1, 0},
		{"single cell", append([]float64{1}, constant(63, 0)...), 0.125, math.Sqrt(1 - 1.0/64)},
		{"empty", constant(64, 0), 0, 0},
		{"short signal padded", []float64{1}, 0.125, math.Sqrt(1 - 1.0/64)},
		{"long signal truncated", constant(100, 2), 1, 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, err := sheaf.Decompose(tc.signal, st.Laplacian, 10, opts)
			require.NoError(t, err)
			require.InDelta(t, tc.harmonic, h.HarmonicOverlap, 1e-6)
			require.InDelta(t, tc.gradient, h.GradientNorm, 1e-6)
		})
	}
}

func TestDecomposeOrthogonality(t *testing.T) {
	st, err := gridgraph.Build(8, 8)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 10; trial++ {
		signal := make([]float64, 64)
		for i := range signal {
			if rng.Float64() < 0.3 {
				signal[i] = 1
			}
		}
		signal[trial] = 1
		h, err := sheaf.Decompose(signal, st.Laplacian, 10, sparse.DefaultOptions())
		require.NoError(t, err)
		sum := h.HarmonicOverlap*h.HarmonicOverlap + h.GradientNorm*h.GradientNorm
		require.InDelta(t, 1, sum, 1e-3)
		require.GreaterOrEqual(t, h.HarmonicOverlap, 0.0)
		require.LessOrEqual(t, h.HarmonicOverlap, 1.0+1e-9)
	}
}

func TestDecomposeTinyGraphUsesMean(t *testing.T) {
	st, err := gridgraph.Build(1, 2)
	require.NoError(t, err)

	h, err := sheaf.Decompose([]float64{1, 0}, st.Laplacian, 10, sparse.DefaultOptions())
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(0.5), h.HarmonicOverlap, 1e-12)
	require.InDelta(t, math.Sqrt(0.5), h.GradientNorm, 1e-12)
}

func TestDecomposeFailure(t *testing.T) {
	st, err := gridgraph.Build(8, 8)
	require.NoError(t, err)
	opts := sparse.DefaultOptions()
	opts.Ctx = cancelledContext()

	_, err = sheaf.Decompose(constant(64, 1), st.Laplacian, 10, opts)
	require.ErrorIs(t, err, sparse.ErrNoConvergence)

	_, err = sheaf.Decompose(constant(4, 1), nil, 10, sparse.DefaultOptions())
	require.ErrorIs(t, err, sheaf.ErrNilOperator)
}

func TestMeanHodge(t *testing.T) {
	h := sheaf.MeanHodge(constant(16, 3), 16)
	require.InDelta(t, 1, h.HarmonicOverlap, 1e-12)
	require.InDelta(t, 0, h.GradientNorm, 1e-6)

	alternating := make([]float64, 16)
	for i := range alternating {
		alternating[i] = float64(1 - 2*(i%2))
	}
	h = sheaf.MeanHodge(alternating, 16)
	require.InDelta(t, 0, h.HarmonicOverlap, 1e-12)
	require.InDelta(t, 1, h.GradientNorm, 1e-12)

	require.Equal(t, sheaf.Hodge{}, sheaf.MeanHodge(nil, 16))
	require.Equal(t, sheaf.Hodge{}, sheaf.MeanHodge(constant(4, 1), 0))
}

func TestProjectKernelWithoutZeroEigenvalue(t *testing.T) {
	// No value under ZeroTol: the first vector is the basis.
	eig := sparse.Eigen{
		Values:  []float64{0.5, 1},
		Vectors: [][]float64{{1, 0}, {0, 1}},
	}
	h := sheaf.ProjectKernel([]float64{3, 4}, eig)
	require.InDelta(t, 0.6, h.HarmonicOverlap, 1e-12)
	require.InDelta(t, 0.8, h.GradientNorm, 1e-12)

	// Orthogonal to the basis.
	h = sheaf.ProjectKernel([]float64{0, 1}, eig)
	require.Equal(t, sheaf.Hodge{HarmonicOverlap: 0, GradientNorm: 1}, h)

	// No pairs at all: mean projection.
	h = sheaf.ProjectKernel([]float64{1, 1}, sparse.Eigen{})
	require.InDelta(t, 1, h.HarmonicOverlap, 1e-12)
}
