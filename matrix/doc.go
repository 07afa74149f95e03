// Package matrix provides the small dense kernels used by the iterative
// solvers in package sparse.
//
// What:
//
//   - Dense: row-major float64 storage with safe At/Set accessors.
//   - Eigen: cyclic Jacobi decomposition of real symmetric matrices.
//   - Dot, Norm: vector helpers; Dot validates lengths.
//
// Why:
//
//   - Lanczos reduces a large sparse symmetric operator to a small
//     tridiagonal matrix; its Ritz pairs are extracted densely here.
//   - Tiny Laplacians (n ≤ 2) are too small for Krylov methods and are
//     decomposed directly.
//
// Complexity:
//
//   - NewDense: O(r·c). At/Set: O(1). Clone: O(r·c).
//   - Eigen: O(sweeps·n³), Memory O(n²).
//
// Errors:
//
//   - ErrInvalidDimensions, ErrOutOfRange, ErrDimensionMismatch, ErrNilMatrix,
//     ErrAsymmetry, ErrNaNInf, ErrMatrixEigenFailed.
//
// Matrices here are meant to stay small (a few hundred rows at most);
// anything grid-sized belongs in package sparse.
package matrix
