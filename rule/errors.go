// SPDX-License-Identifier: MIT

package rule

import "errors"

var (
	// ErrMalformedRule is wrapped by every Parse failure.
	ErrMalformedRule = errors.New("rule: malformed rule string")

	// ErrDigitOutOfRange marks a neighbour count outside 0..8.
	ErrDigitOutOfRange = errors.New("rule: neighbour count out of range")
)
