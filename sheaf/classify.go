// SPDX-License-Identifier: MIT

package sheaf

import "fmt"

// SheafType is the closed set of sheaf classifications.
type SheafType uint8

const (
	// Mixed: monodromy inside [−0.5, 0.5].
	Mixed SheafType = iota
	// ResonantFrozen: expanding band and a signal at equilibrium.
	ResonantFrozen
	// ResonantActive: expanding band with residual dynamics.
	ResonantActive
	// Tense: contracting band, particle-like dynamics.
	Tense
)

// Classification thresholds.
const (
	ResonanceThreshold = 0.5
	TensionThreshold   = -0.5
	FrozenOverlap      = 0.8
)

var sheafTypeNames = [...]string{
	Mixed:          "mixed",
	ResonantFrozen: "resonant-frozen",
	ResonantActive: "resonant-active",
	Tense:          "tense",
}

// SheafTypes lists every SheafType.
func SheafTypes() []SheafType {
	return []SheafType{ResonantFrozen, ResonantActive, Tense, Mixed}
}

// String returns the hyphenated label, e.g. "resonant-frozen".
func (t SheafType) String() string {
	if int(t) < len(sheafTypeNames) {
		return sheafTypeNames[t]
	}

	return fmt.Sprintf("SheafType(%d)", uint8(t))
}

// IsResonant reports whether t is one of the resonant variants.
func (t SheafType) IsResonant() bool {
	return t == ResonantFrozen || t == ResonantActive
}

// ParseSheafType is the inverse of String.
func ParseSheafType(s string) (SheafType, error) {
	for i, name := range sheafTypeNames {
		if name == s {
			return SheafType(i), nil
		}
	}

	return Mixed, fmt.Errorf("sheaf: unknown sheaf type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t SheafType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SheafType) UnmarshalText(b []byte) error {
	v, err := ParseSheafType(string(b))
	if err != nil {
		return err
	}
	*t = v

	return nil
}

// Classify maps the three scalar metrics to a SheafType. It is total: NaN
// inputs fail every comparison and land in Mixed. The spectral gap is
// accepted for interface stability and does not influence the label.
func Classify(monodromy, harmonicOverlap, spectralGap float64) SheafType {
	switch {
	case monodromy > ResonanceThreshold && harmonicOverlap > FrozenOverlap:
		return ResonantFrozen
	case monodromy > ResonanceThreshold:
		return ResonantActive
	case monodromy < TensionThreshold:
		return Tense
	default:
		return Mixed
	}
}
