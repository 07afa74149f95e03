// SPDX-License-Identifier: MIT

package sheaf_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rulial/sheaf"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mono, harmonic float64
		want           sheaf.SheafType
	}{
		{0.9, 0.95, sheaf.ResonantFrozen},
		{0.9, 0.8, sheaf.ResonantActive},
		{0.51, 0.1, sheaf.ResonantActive},
		{0.5, 0.99, sheaf.Mixed},
		{-0.5, 0.99, sheaf.Mixed},
		{-0.51, 0.99, sheaf.Tense},
		{-0.99, 0, sheaf.Tense},
		{0, 0, sheaf.Mixed},
		{math.NaN(), 0.9, sheaf.Mixed},
		{0.9, math.NaN(), sheaf.ResonantActive},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, sheaf.Classify(tc.mono, tc.harmonic, 0.2), "mono=%v harmonic=%v", tc.mono, tc.harmonic)
	}
}

func TestClassifyTotalAndDeterministic(t *testing.T) {
	known := map[sheaf.SheafType]bool{}
	for _, st := range sheaf.SheafTypes() {
		known[st] = true
	}
	seen := map[sheaf.SheafType]bool{}
	for m := -1.0; m <= 1.0; m += 0.05 {
		for h := 0.0; h <= 1.0; h += 0.05 {
			for _, gap := range []float64{0, 0.2, 5} {
				got := sheaf.Classify(m, h, gap)
				require.True(t, known[got])
				require.Equal(t, got, sheaf.Classify(m, h, gap))
				seen[got] = true
			}
		}
	}
	require.Len(t, seen, 4)
}

func TestSheafTypeText(t *testing.T) {
	for _, st := range sheaf.SheafTypes() {
		b, err := st.MarshalText()
		require.NoError(t, err)
		var back sheaf.SheafType
		require.NoError(t, back.UnmarshalText(b))
		require.Equal(t, st, back)
	}
	require.Equal(t, "resonant-frozen", sheaf.ResonantFrozen.String())
	require.Equal(t, "mixed", sheaf.Mixed.String())
	require.True(t, sheaf.ResonantActive.IsResonant())
	require.False(t, sheaf.Tense.IsResonant())

	_, err := sheaf.ParseSheafType("frozen")
	require.Error(t, err)
	require.Equal(t, "SheafType(9)", sheaf.SheafType(9).String())
}

func TestAnalysisJSON(t *testing.T) {
	a := sheaf.Analysis{H0: 1, H1: 192, SpectralGap: 0.5, EffectiveResistance: 3, SheafType: sheaf.Tense}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.Contains(t, string(b), `"sheaf_type":"tense"`)
	require.Contains(t, string(b), `"h1":192`)

	var back sheaf.Analysis
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, a, back)

	require.Contains(t, a.Summary(), "Sheaf type:           tense")
}
