// SPDX-License-Identifier: MIT

package gridgraph

import "errors"

var (
	// ErrInvalidShape indicates a non-positive height or width.
	ErrInvalidShape = errors.New("gridgraph: height and width must be positive")
)
