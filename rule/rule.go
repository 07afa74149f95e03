// SPDX-License-Identifier: MIT

package rule

import (
	"fmt"
	"strings"
)

// MaxNeighbours is the largest Moore neighbour count.
const MaxNeighbours = 8

// Spec is a birth/survival rule. The zero value is "B/S" (every cell dies).
type Spec struct {
	born    uint16 // bit n set: a dead cell with n live neighbours is born
	survive uint16 // bit n set: a live cell with n live neighbours survives
}

// Life is Conway's Game of Life.
var Life = MustParse("B3/S23")

// Parse reads "B<digits>/S<digits>". Letters are case-insensitive, digits
// may come in any order but at most once per set, and either set may be empty.
// The input is taken verbatim: surrounding whitespace is not trimmed.
//
// Errors:
//   - ErrMalformedRule for a missing '/', a missing B or S prefix, a
//     non-digit (whitespace included), or a repeated digit.
//   - ErrDigitOutOfRange (together with ErrMalformedRule) for the digit 9.
//
// Complexity: O(len(s)).
func Parse(s string) (Spec, error) {
	left, right, ok := strings.Cut(s, "/")
	if !ok {
		return Spec{}, fmt.Errorf("Parse(%q): missing '/': %w", s, ErrMalformedRule)
	}
	born, err := parseSet(left, 'B')
	if err != nil {
		return Spec{}, fmt.Errorf("Parse(%q): %w", s, err)
	}
	survive, err := parseSet(right, 'S')
	if err != nil {
		return Spec{}, fmt.Errorf("Parse(%q): %w", s, err)
	}

	return Spec{born: born, survive: survive}, nil
}

// MustParse is Parse for package-level literals; it panics on error.
func MustParse(s string) Spec {
	sp, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return sp
}

func parseSet(part string, prefix byte) (uint16, error) {
	if part == "" || (part[0] != prefix && part[0] != prefix+('a'-'A')) {
		return 0, fmt.Errorf("expected %c prefix in %q: %w", prefix, part, ErrMalformedRule)
	}
	var mask uint16
	for _, r := range part[1:] {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q in %c set: %w", r, prefix, ErrMalformedRule)
		}
		d := int(r - '0')
		if d > MaxNeighbours {
			return 0, fmt.Errorf("digit %d in %c set: %w: %w", d, prefix, ErrMalformedRule, ErrDigitOutOfRange)
		}
		if mask&(1<<d) != 0 {
			return 0, fmt.Errorf("repeated digit %d in %c set: %w", d, prefix, ErrMalformedRule)
		}
		mask |= 1 << d
	}

	return mask, nil
}

// Born reports whether a dead cell with n live neighbours becomes alive.
// Counts outside 0..8 are never in either set.
func (s Spec) Born(n int) bool {
	return n >= 0 && n <= MaxNeighbours && s.born&(1<<n) != 0
}

// Survives reports whether a live cell with n live neighbours stays alive.
func (s Spec) Survives(n int) bool {
	return n >= 0 && n <= MaxNeighbours && s.survive&(1<<n) != 0
}

// Next is the outer-totalistic transition for one cell.
func (s Spec) Next(alive bool, n int) bool {
	if alive {
		return s.Survives(n)
	}

	return s.Born(n)
}

// BornCounts returns the birth digits in ascending order.
func (s Spec) BornCounts() []int { return digits(s.born) }

// SurviveCounts returns the survival digits in ascending order.
func (s Spec) SurviveCounts() []int { return digits(s.survive) }

func digits(mask uint16) []int {
	out := make([]int, 0, MaxNeighbours+1)
	for d := 0; d <= MaxNeighbours; d++ {
		if mask&(1<<d) != 0 {
			out = append(out, d)
		}
	}

	return out
}

// String returns the canonical form, e.g. "B36/S23".
func (s Spec) String() string {
	var sb strings.Builder
	sb.Grow(2*(MaxNeighbours+1) + 3)
	sb.WriteByte('B')
	for _, d := range s.BornCounts() {
		sb.WriteByte(byte('0' + d))
	}
	sb.WriteString("/S")
	for _, d := range s.SurviveCounts() {
		sb.WriteByte(byte('0' + d))
	}

	return sb.String()
}

// MarshalText encodes the canonical string, so a Spec reads naturally in
// JSON, YAML and TOML records.
func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the canonical string.
func (s *Spec) UnmarshalText(b []byte) error {
	sp, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = sp

	return nil
}
