// SPDX-License-Identifier: MIT

package grid

import "errors"

var (
	// ErrInvalidShape indicates a non-positive height or width.
	ErrInvalidShape = errors.New("grid: height and width must be positive")

	// ErrLengthMismatch indicates a cell buffer or row whose length does not fit the shape.
	ErrLengthMismatch = errors.New("grid: cell count does not match shape")

	// ErrInvalidCell indicates a cell value other than 0/1 or an unknown glyph.
	ErrInvalidCell = errors.New("grid: invalid cell value")

	// ErrInvalidDensity indicates a density outside [0, 1].
	ErrInvalidDensity = errors.New("grid: density must lie in [0, 1]")
)
