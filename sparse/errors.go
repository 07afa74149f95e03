// SPDX-License-Identifier: MIT

package sparse

import "errors"

var (
	// ErrBadShape is returned for negative dimensions.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrIndexOutOfRange indicates a triplet or accessor index outside the shape.
	ErrIndexOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates a vector whose length does not fit the operator.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNaNInf signals a non-finite triplet value.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrNotSquare signals that a square operator was required.
	ErrNotSquare = errors.New("sparse: matrix is not square")

	// ErrInvalidK signals a requested pair count outside [1, n].
	ErrInvalidK = errors.New("sparse: requested eigenpair count out of range")

	// ErrUnknownWhich signals a Which value outside the defined set.
	ErrUnknownWhich = errors.New("sparse: unknown eigenvalue selector")

	// ErrNoConvergence signals that an iterative solver exhausted its budget.
	ErrNoConvergence = errors.New("sparse: iterative solver did not converge")
)
