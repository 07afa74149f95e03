// SPDX-License-Identifier: MIT

package sheaf

import (
	"fmt"

	"github.com/katalvlaran/rulial/sparse"
)

// Cohomology defaults.
const (
	// MaxSingularValues bounds how many singular values of δ₀ are sampled.
	MaxSingularValues = 50
	// SignificanceTol is the fraction of σ_max above which a singular value
	// counts toward the rank.
	SignificanceTol = 1e-6
)

// Cohomology is an estimate of dim H⁰ and dim H¹ of the coboundary δ₀.
// It is an estimate: when only k of min(m, n) singular values are sampled,
// the rank is extrapolated linearly.
type Cohomology struct {
	H0   int `json:"h0" yaml:"h0" toml:"h0"`
	H1   int `json:"h1" yaml:"h1" toml:"h1"`
	Rank int `json:"rank" yaml:"rank" toml:"rank"`
}

// EulerCohomology is the estimate for a connected graph with m edges and n
// nodes: rank(δ₀) = n − 1, so H⁰ = 1 and H¹ = m − n + 1 (never negative).
func EulerCohomology(m, n int) Cohomology {
	return fromRank(m, n, n-1)
}

func fromRank(m, n, rank int) Cohomology {
	c := Cohomology{H0: n - rank, H1: m - rank, Rank: rank}
	if c.H0 < 1 {
		c.H0 = 1
	}
	if c.H1 < 0 {
		c.H1 = 0
	}

	return c
}

// EstimateCohomology estimates (H⁰, H¹) of the m×n coboundary delta0 from its
// k = min(maxK, min(m, n) − 2) largest singular values. Values above
// SignificanceTol·σ_max are counted and the count is scaled by min(m, n)/k.
// When k ≤ 0 the Euler estimate is returned without error.
//
// Errors:
//   - ErrNilOperator for a nil delta0.
//   - sparse.ErrNoConvergence (wrapped) when the singular values could not be
//     computed; callers substitute EulerCohomology.
//
// Complexity: one SingularValues call with k pairs.
func EstimateCohomology(delta0 *sparse.CSR, maxK int, opts sparse.Options) (Cohomology, error) {
	if delta0 == nil {
		return Cohomology{}, ErrNilOperator
	}
	m, n := delta0.Rows(), delta0.Cols()
	small := m
	if n < small {
		small = n
	}
	k := small - 2
	if maxK < k {
		k = maxK
	}
	if k <= 0 {
		return EulerCohomology(m, n), nil
	}

	sv, err := sparse.SingularValues(delta0, k, opts)
	if err != nil {
		return Cohomology{}, fmt.Errorf("EstimateCohomology: %w", err)
	}
	var smax float64
	for _, s := range sv {
		if s > smax {
			smax = s
		}
	}
	count := 0
	for _, s := range sv {
		if s > SignificanceTol*smax {
			count++
		}
	}

	return fromRank(m, n, count*small/k), nil
}
