// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
)

// SingularValues returns the k largest singular values of a, descending.
// They are the square roots of the k largest eigenvalues of AᵀA; tiny
// negative eigenvalues produced by round-off are clamped to zero.
//
// Errors:
//   - ErrInvalidK when a has no columns or k ∉ [1, cols].
//   - Everything EigenSym returns.
//
// Complexity:
//   - One EigenSym call on NormalOperator(a); each Apply costs O(2·nnz).
func SingularValues(a *CSR, k int, opts Options) ([]float64, error) {
	if a == nil {
		return nil, fmt.Errorf("SingularValues: %w", ErrBadShape)
	}
	if a.cols == 0 || k < 1 || k > a.cols {
		return nil, fmt.Errorf("SingularValues: k=%d, cols=%d: %w", k, a.cols, ErrInvalidK)
	}
	eig, err := EigenSym(NormalOperator(a), k, LargestMagnitude, opts)
	if err != nil {
		return nil, fmt.Errorf("SingularValues: %w", err)
	}
	out := make([]float64, k)
	for i, v := range eig.Values {
		if v > 0 {
			out[i] = math.Sqrt(v)
		}
	}

	return out, nil
}
