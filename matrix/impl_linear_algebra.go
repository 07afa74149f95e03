// SPDX-License-Identifier: MIT
// Package matrix - linear-algebra kernels: Dot, Norm and the cyclic Jacobi
// eigen decomposition used for Rayleigh–Ritz extraction.
//
// Notes:
//   - All kernels validate through validators.go and wrap failures as "Op: %w".
//   - Loop orders are fixed so identical inputs give bit-identical outputs.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// ZeroSum is the initial value of every accumulator.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opEigen = "Eigen"
	opDot   = "Dot"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Only call with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Dot returns Σ a[i]·b[i]. Errors: ErrDimensionMismatch.
// Complexity: O(n).
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, matrixErrorf(opDot, ErrDimensionMismatch)
	}

	return dot(a, b), nil
}

// Norm returns the Euclidean norm of x (scaled to avoid overflow).
// Complexity: O(n).
func Norm(x []float64) float64 {
	var scale, ssq float64 = 0, 1
	var ax float64
	for _, v := range x {
		if v == 0 {
			continue
		}
		ax = math.Abs(v)
		if scale < ax {
			ssq = 1 + ssq*(scale/ax)*(scale/ax)
			scale = ax
		} else {
			ssq += (ax / scale) * (ax / scale)
		}
	}
	if scale == 0 {
		return 0
	}

	return scale * math.Sqrt(ssq)
}

func dot(a, b []float64) float64 {
	acc := ZeroSum
	for i := range a {
		acc += a[i] * b[i]
	}

	return acc
}

// Eigen computes all eigenpairs of a symmetric matrix with cyclic Jacobi sweeps.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Sweep the strict upper triangle in fixed i→j order, applying a
//     Jacobi rotation to every pivot with |A[p,q]| above a sweep threshold.
//   - Stage 3: Stop when the off-diagonal Frobenius mass drops under
//     tol·max(1, ‖A‖_F); otherwise fail with ErrMatrixEigenFailed.
//   - Stage 4: Sort eigenvalues ascending and permute the columns of Q to match.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: convergence threshold (typ. 1e-12).
//   - maxSweeps: cap on full sweeps (each sweep visits n(n-1)/2 pivots).
//
// Returns:
//   - []float64: eigenvalues in ascending order.
//   - *Dense: Q whose column j is the unit eigenvector of eigenvalue j.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNaNInf, ErrMatrixEigenFailed.
//
// Determinism:
//   - Fixed pivot order and a stable sort keep results reproducible.
//
// Complexity:
//   - Time O(maxSweeps·n³), Space O(n²).
func Eigen(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, math.Max(tol, 1e-9)); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.Rows()

	// Working copy A (flat) and accumulator Q = I.
	a := make([]float64, n*n)
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, nil, matrixErrorf(opEigen, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, matrixErrorf(opEigen, ErrNaNInf)
			}
			a[i*n+j] = v
		}
	}
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	frob := math.Sqrt(dot(a, a))
	target := tol * math.Max(1, frob)

	var (
		sweep              int
		p, r               int
		off                float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
		converged          bool
	)
	for sweep = 0; sweep < maxSweeps; sweep++ {
		off = offDiagonalNorm(a, n)
		if off <= target {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for r = p + 1; r < n; r++ {
				apq = a[p*n+r]
				if math.Abs(apq) <= target/float64(n*n) {
					continue
				}
				app = a[p*n+p]
				aqq = a[r*n+r]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for i = 0; i < n; i++ {
					if i == p || i == r {
						continue
					}
					aip = a[i*n+p]
					aiq = a[i*n+r]
					a[i*n+p], a[p*n+i] = c*aip-s*aiq, c*aip-s*aiq
					a[i*n+r], a[r*n+i] = s*aip+c*aiq, s*aip+c*aiq
				}
				a[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
				a[r*n+r] = s*s*app + 2*c*s*apq + c*c*aqq
				a[p*n+r], a[r*n+p] = 0, 0

				for i = 0; i < n; i++ {
					qip = q.data[i*n+p]
					qiq = q.data[i*n+r]
					q.data[i*n+p] = c*qip - s*qiq
					q.data[i*n+r] = s*qip + c*qiq
				}
			}
		}
	}
	if !converged && offDiagonalNorm(a, n) > target {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	// Sort ascending, carrying eigenvector columns along.
	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return a[order[x]*n+order[x]] < a[order[y]*n+order[y]] })

	vals := make([]float64, n)
	vecs, _ := NewDense(n, n)
	for j = 0; j < n; j++ {
		vals[j] = a[order[j]*n+order[j]]
		for i = 0; i < n; i++ {
			vecs.data[i*n+j] = q.data[i*n+order[j]]
		}
	}

	return vals, vecs, nil
}

// offDiagonalNorm returns sqrt(Σ_{i≠j} A[i,j]²).
func offDiagonalNorm(a []float64, n int) float64 {
	var acc float64
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			acc += 2 * a[i*n+j] * a[i*n+j]
		}
	}

	return math.Sqrt(acc)
}
