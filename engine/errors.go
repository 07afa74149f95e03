// SPDX-License-Identifier: MIT

package engine

import (
	"errors"

	"github.com/katalvlaran/rulial/grid"
)

var (
	// ErrInvalidShape indicates a non-positive height or width. It is the
	// grid package's sentinel, so errors.Is matches either name.
	ErrInvalidShape = grid.ErrInvalidShape

	// ErrInvalidSteps indicates a negative step count.
	ErrInvalidSteps = errors.New("engine: steps must be non-negative")

	// ErrShapeMismatch indicates a custom initial grid whose shape differs
	// from the requested one.
	ErrShapeMismatch = errors.New("engine: custom grid shape does not match")
)
