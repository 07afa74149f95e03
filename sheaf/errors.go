// SPDX-License-Identifier: MIT

package sheaf

import "errors"

var (
	// ErrNilOperator indicates a nil or empty operator.
	ErrNilOperator = errors.New("sheaf: nil or empty operator")

	// ErrInvalidConfig indicates an Analyzer configuration that cannot run.
	ErrInvalidConfig = errors.New("sheaf: invalid configuration")
)
