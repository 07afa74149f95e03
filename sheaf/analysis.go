// SPDX-License-Identifier: MIT

package sheaf

import (
	"fmt"
	"strings"
)

// Analysis is the write-once record produced for one rule.
type Analysis struct {
	H0                  int       `json:"h0" yaml:"h0" toml:"h0"`
	H1                  int       `json:"h1" yaml:"h1" toml:"h1"`
	SpectralGap         float64   `json:"spectral_gap" yaml:"spectral_gap" toml:"spectral_gap"`
	EffectiveResistance float64   `json:"effective_resistance" yaml:"effective_resistance" toml:"effective_resistance"`
	HarmonicOverlap     float64   `json:"harmonic_overlap" yaml:"harmonic_overlap" toml:"harmonic_overlap"`
	GradientNorm        float64   `json:"gradient_norm" yaml:"gradient_norm" toml:"gradient_norm"`
	MonodromyIndex      float64   `json:"monodromy_index" yaml:"monodromy_index" toml:"monodromy_index"`
	SheafType           SheafType `json:"sheaf_type" yaml:"sheaf_type" toml:"sheaf_type"`
}

// Summary renders a multi-line human-readable report.
func (a Analysis) Summary() string {
	var sb strings.Builder
	sb.WriteString("=== Sheaf Analysis ===\n")
	fmt.Fprintf(&sb, "  H0 dimension:         %d\n", a.H0)
	fmt.Fprintf(&sb, "  H1 dimension:         %d\n", a.H1)
	fmt.Fprintf(&sb, "  Spectral gap:         %.4f\n", a.SpectralGap)
	fmt.Fprintf(&sb, "  Effective resistance: %.4f\n", a.EffectiveResistance)
	fmt.Fprintf(&sb, "  Harmonic overlap:     %.3f\n", a.HarmonicOverlap)
	fmt.Fprintf(&sb, "  Gradient norm:        %.3f\n", a.GradientNorm)
	fmt.Fprintf(&sb, "  Monodromy index:      %+.3f\n", a.MonodromyIndex)
	fmt.Fprintf(&sb, "  Sheaf type:           %s\n", a.SheafType)

	return sb.String()
}
