// SPDX-License-Identifier: MIT

package sheaf

import (
	"math"

	"github.com/katalvlaran/rulial/sparse"
)

// MaxSpectralK bounds the number of eigenvalues AnalyzeSpectrum requests.
const MaxSpectralK = 10

// Spectrum summarizes the low end of a Laplacian spectrum.
type Spectrum struct {
	// Gap is the smallest eigenvalue above ZeroTol, 0 when there is none.
	Gap float64 `json:"spectral_gap" yaml:"spectral_gap" toml:"spectral_gap"`
	// EffectiveResistance is Σ 1/λ over eigenvalues above ZeroTol, +Inf
	// when there is none.
	EffectiveResistance float64 `json:"effective_resistance" yaml:"effective_resistance" toml:"effective_resistance"`
	// Eigenvalues holds |λ| ascending.
	Eigenvalues []float64 `json:"eigenvalues" yaml:"eigenvalues" toml:"eigenvalues"`
}

// Fallback holds the constants substituted when the spectral solve fails.
type Fallback struct {
	SpectralGap         float64
	EffectiveResistance float64
}

// DefaultFallback matches a regular toroidal grid of typical size.
func DefaultFallback() Fallback {
	return Fallback{SpectralGap: 0.2, EffectiveResistance: 100}
}

// FallbackSpectrum is the substitute summary used after a solver failure:
// the configured gap and resistance with eigenvalues [0, gap].
func FallbackSpectrum(f Fallback) Spectrum {
	return Spectrum{
		Gap:                 f.SpectralGap,
		EffectiveResistance: f.EffectiveResistance,
		Eigenvalues:         []float64{0, f.SpectralGap},
	}
}

// SummarizeSpectrum derives the gap and the effective resistance from
// eigenvalue magnitudes sorted ascending.
func SummarizeSpectrum(values []float64) Spectrum {
	s := Spectrum{EffectiveResistance: math.Inf(1), Eigenvalues: append([]float64(nil), values...)}
	found := false
	for _, v := range values {
		if v <= ZeroTol {
			continue
		}
		if !found {
			s.Gap = v
			s.EffectiveResistance = 0
			found = true
		}
		s.EffectiveResistance += 1 / v
	}

	return s
}

// AnalyzeSpectrum computes the min(k, MaxSpectralK, n−2) smallest eigenvalues
// of the Laplacian l and summarizes them. Graphs with n ≤ 2 are decomposed
// densely.
//
// Errors: those of SmallestEigenpairs; callers substitute FallbackSpectrum
// for sparse.ErrNoConvergence.
func AnalyzeSpectrum(l *sparse.CSR, k int, opts sparse.Options) (Spectrum, error) {
	if k > MaxSpectralK {
		k = MaxSpectralK
	}
	eig, err := SmallestEigenpairs(l, k, opts)
	if err != nil {
		return Spectrum{}, err
	}

	return SummarizeSpectrum(eig.Values), nil
}
