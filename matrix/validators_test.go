// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/rulial/matrix"
	"github.com/stretchr/testify/require"
)

func TestValidateSymmetric(t *testing.T) {
	t.Parallel()

	sym, _ := matrix.NewFromRows([][]float64{{1, 2}, {2, 1}})
	near, _ := matrix.NewFromRows([][]float64{{1, 2}, {2 + 1e-12, 1}})
	asym, _ := matrix.NewFromRows([][]float64{{1, 2}, {3, 1}})
	rect, _ := matrix.NewDense(2, 3)
	var typedNil *matrix.Dense

	tests := []struct {
		name    string
		m       matrix.Matrix
		tol     float64
		wantErr error
	}{
		{"symmetric", sym, 0, nil},
		{"within tolerance", near, 1e-9, nil},
		{"asymmetric", asym, 1e-9, matrix.ErrAsymmetry},
		{"rectangular", rect, 1e-9, matrix.ErrDimensionMismatch},
		{"nil interface", nil, 1e-9, matrix.ErrNilMatrix},
		{"typed nil", typedNil, 1e-9, matrix.ErrNilMatrix},
		{"nan tolerance", sym, math.NaN(), matrix.ErrNaNInf},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSymmetric(tc.m, tc.tol)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
