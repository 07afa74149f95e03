// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/rulial/matrix"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestDotNorm(t *testing.T) {
	d, err := matrix.Dot([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, 32.0, d)

	_, err = matrix.Dot([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	require.InDelta(t, 5.0, matrix.Norm([]float64{3, 4}), eps)
	require.Equal(t, 0.0, matrix.Norm([]float64{0, 0}))
	require.InDelta(t, 1e200*math.Sqrt2, matrix.Norm([]float64{1e200, 1e200}), 1e188)
}

// TestEigenPath checks the path-graph Laplacian P3: eigenvalues 0, 1, 3.
func TestEigenPath(t *testing.T) {
	l, err := matrix.NewFromRows([][]float64{
		{1, -1, 0},
		{-1, 2, -1},
		{0, -1, 1},
	})
	require.NoError(t, err)

	vals, vecs, err := matrix.Eigen(l, 1e-12, 100)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 1, 3}, vals, 1e-9)

	// A·v = λ·v for every column.
	for j, lambda := range vals {
		v, err := vecs.Column(j)
		require.NoError(t, err)
		av := matVec(t, l, v)
		for i := range v {
			require.InDelta(t, lambda*v[i], av[i], 1e-9)
		}
		require.InDelta(t, 1.0, matrix.Norm(v), 1e-9)
	}
}

func TestEigenErrors(t *testing.T) {
	asym, err := matrix.NewFromRows([][]float64{{1, 2}, {0, 1}})
	require.NoError(t, err)
	_, _, err = matrix.Eigen(asym, 1e-12, 50)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, _, err = matrix.Eigen(rect, 1e-12, 50)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	full, err := matrix.NewFromRows([][]float64{{2, 1, 1}, {1, 2, 1}, {1, 1, 2}})
	require.NoError(t, err)
	_, _, err = matrix.Eigen(full, 1e-12, 0)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

// matVec returns m·x using the exported accessors (matrix.MatVec was removed).
func matVec(t *testing.T, m matrix.Matrix, x []float64) []float64 {
	t.Helper()
	out := make([]float64, m.Rows())
	for i := range out {
		for j, xj := range x {
			a, err := m.At(i, j)
			require.NoError(t, err)
			out[i] += a * xj
		}
	}
	return out
}
