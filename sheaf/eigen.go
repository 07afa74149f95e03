// SPDX-License-Identifier: MIT

package sheaf

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/rulial/sparse"
)

// ZeroTol is the absolute threshold under which an eigenvalue counts as zero.
const ZeroTol = 1e-6

// SmallestEigenpairs returns up to k eigenpairs of the Laplacian l with the
// smallest magnitude, ordered by |λ| ascending; the returned values are |λ|.
// k is reduced to n−2; when that leaves nothing (n ≤ 2) all n pairs are
// computed densely instead.
//
// Errors:
//   - ErrNilOperator, sparse.ErrNotSquare, sparse.ErrInvalidK (k < 1).
//   - sparse.ErrNoConvergence from the solver.
func SmallestEigenpairs(l *sparse.CSR, k int, opts sparse.Options) (sparse.Eigen, error) {
	if l == nil || l.Rows() == 0 {
		return sparse.Eigen{}, ErrNilOperator
	}
	if k < 1 {
		return sparse.Eigen{}, fmt.Errorf("SmallestEigenpairs: k=%d: %w", k, sparse.ErrInvalidK)
	}
	op, err := sparse.AsOperator(l)
	if err != nil {
		return sparse.Eigen{}, fmt.Errorf("SmallestEigenpairs: %w", err)
	}
	n := l.Rows()
	if k > n-2 {
		k = n - 2
	}
	if k < 1 {
		k = n
	}
	eig, err := sparse.EigenSym(op, k, sparse.SmallestMagnitude, opts)
	if err != nil {
		return sparse.Eigen{}, fmt.Errorf("SmallestEigenpairs: %w", err)
	}
	sortByMagnitude(&eig)

	return eig, nil
}

// sortByMagnitude orders pairs by |λ| and replaces each value with |λ|.
func sortByMagnitude(eig *sparse.Eigen) {
	idx := make([]int, len(eig.Values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(eig.Values[idx[a]]) < math.Abs(eig.Values[idx[b]])
	})
	vals := make([]float64, len(idx))
	vecs := make([][]float64, len(idx))
	for i, j := range idx {
		vals[i] = math.Abs(eig.Values[j])
		vecs[i] = eig.Vectors[j]
	}
	eig.Values, eig.Vectors = vals, vecs
}

// truncate returns the first k pairs of eig (all of them when k ≥ len).
func truncate(eig sparse.Eigen, k int) sparse.Eigen {
	if k >= len(eig.Values) || k < 0 {
		return eig
	}

	return sparse.Eigen{Values: eig.Values[:k], Vectors: eig.Vectors[:k]}
}
