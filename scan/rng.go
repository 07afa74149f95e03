// SPDX-License-Identifier: MIT

package scan

import "math/rand"

// defaultSeed replaces a zero scan seed.
const defaultSeed int64 = 1

// deriveSeed mixes a scan seed and a rule index into an independent 64-bit
// seed with a SplitMix64 finalizer, so rule i of a scan does not depend on
// how many rules precede it or on worker scheduling.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// ruleRNG returns the RNG that draws rule index of a scan seeded with seed.
// Policy: seed==0 ⇒ defaultSeed.
func ruleRNG(seed int64, index int) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(deriveSeed(seed, uint64(index))))
}
