// SPDX-License-Identifier: MIT

package rule

import "math/rand"

// Probabilities used by Random.
const (
	BirthProbability   = 0.4
	SurviveProbability = 0.5
)

// Random draws a rule with each birth digit present with probability 0.4 and
// each survival digit with probability 0.5. A rule with an empty birth set is
// given one uniformly chosen birth digit, since nothing could ever appear.
func Random(rng *rand.Rand) Spec {
	var s Spec
	for d := 0; d <= MaxNeighbours; d++ {
		if rng.Float64() < BirthProbability {
			s.born |= 1 << d
		}
	}
	for d := 0; d <= MaxNeighbours; d++ {
		if rng.Float64() < SurviveProbability {
			s.survive |= 1 << d
		}
	}
	if s.born == 0 {
		s.born = 1 << rng.Intn(MaxNeighbours+1)
	}

	return s
}

// WithBorn returns a copy of s with n added to the birth set. Counts outside
// 0..8 leave s unchanged.
func (s Spec) WithBorn(n int) Spec {
	if n >= 0 && n <= MaxNeighbours {
		s.born |= 1 << n
	}

	return s
}

// Bits flattens the rule into 18 flags: birth 0..8 then survival 0..8.
func (s Spec) Bits() [18]bool {
	var out [18]bool
	for d := 0; d <= MaxNeighbours; d++ {
		out[d] = s.Born(d)
		out[MaxNeighbours+1+d] = s.Survives(d)
	}

	return out
}

// FromBits is the inverse of Spec.Bits.
func FromBits(bits [18]bool) Spec {
	var s Spec
	for d := 0; d <= MaxNeighbours; d++ {
		if bits[d] {
			s.born |= 1 << d
		}
		if bits[MaxNeighbours+1+d] {
			s.survive |= 1 << d
		}
	}

	return s
}
