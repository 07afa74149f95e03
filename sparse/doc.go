// Package sparse provides compressed sparse row (CSR) operators and the
// iterative symmetric eigen solver used by the sheaf analyzer.
//
// What:
//
//   - CSR: immutable sparse matrix built from (row, col, value) triplets,
//     duplicates summed, with MulVec / MulTransVec kernels.
//   - Operator: a square linear map (Dim, Apply); CSR and NormalOperator(AᵀA)
//     implement it without forming dense storage.
//   - EigenSym: a few extreme eigenpairs of a symmetric operator via Lanczos
//     with full reorthogonalization and locking restarts.
//   - SingularValues: the largest singular values of a CSR via EigenSym on AᵀA.
//
// Why:
//
//   - Grid operators have thousands of nodes but only ~9 non-zeros per row;
//     dense decompositions are O(n³) and are avoided.
//   - Restarting from a start vector orthogonal to everything already locked
//     recovers eigenvalue multiplicities that a single Krylov run misses on
//     symmetric (toroidal) graphs.
//
// Errors:
//
//   - ErrBadShape, ErrDimensionMismatch, ErrIndexOutOfRange, ErrNaNInf,
//     ErrNotSquare, ErrInvalidK: malformed input.
//   - ErrNoConvergence: the iteration budget (or Options.Ctx) ran out before
//     the requested pairs converged. This is an expected, recoverable outcome;
//     callers substitute their own approximation.
//
// Complexity:
//
//   - NewCSR: O(nnz·log nnz). MulVec: O(nnz).
//   - EigenSym: O(restarts·m·(nnz + m·n)) for Krylov dimension m.
package sparse
