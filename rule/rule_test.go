// SPDX-License-Identifier: MIT
package rule_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/katalvlaran/rulial/rule"
	"github.com/stretchr/testify/require"
)

func TestParseCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"B3/S23", "B3/S23"},
		{"b3/s32", "B3/S23"},
		{"B36/S23", "B36/S23"},
		{"B/S", "B/S"},
		{"B012345678/S", "B012345678/S"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			s, err := rule.Parse(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, s.String())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		digit bool
	}{
		{"missing slash", "B3S23", false},
		{"missing birth prefix", "3/S23", false},
		{"missing survive prefix", "B3/23", false},
		{"swapped prefixes", "S23/B3", false},
		{"non digit", "B3x/S23", false},
		{"nine", "B39/S23", true},
		{"duplicate", "B33/S23", false},
		{"empty", "", false},
		{"extra slash", "B3/S2/3", false},
		{"leading space", " B3/S23", false},
		{"trailing space", "B3/S23 ", false},
		{"trailing newline", "B3/S23\n", false},
		{"padded both", "  B1/S  ", false},
		{"inner space", "B3/ S23", false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := rule.Parse(tc.in)
			require.ErrorIs(t, err, rule.ErrMalformedRule)
			if tc.digit {
				require.ErrorIs(t, err, rule.ErrDigitOutOfRange)
			}
		})
	}
}

func TestSpecEqualityIsStructural(t *testing.T) {
	a := rule.MustParse("B36/S23")
	b := rule.MustParse("b63/S32")
	require.Equal(t, a, b)
	require.True(t, a == b)

	seen := map[rule.Spec]int{a: 1}
	require.Equal(t, 1, seen[b])
	require.NotEqual(t, rule.Life, a)
}

func TestTransition(t *testing.T) {
	life := rule.Life
	require.True(t, life.Born(3))
	require.False(t, life.Born(2))
	require.True(t, life.Survives(2))
	require.False(t, life.Survives(4))
	require.False(t, life.Born(-1))
	require.False(t, life.Survives(9))

	require.True(t, life.Next(false, 3))
	require.False(t, life.Next(false, 2))
	require.True(t, life.Next(true, 3))
	require.False(t, life.Next(true, 1))

	require.Equal(t, []int{3}, life.BornCounts())
	require.Equal(t, []int{2, 3}, life.SurviveCounts())
}

func TestBitsRoundTrip(t *testing.T) {
	bits := rule.Life.Bits()
	require.True(t, bits[3])
	require.True(t, bits[9+2])
	require.True(t, bits[9+3])
	require.False(t, bits[2])
	require.Equal(t, rule.Life, rule.FromBits(bits))
}

func TestRandomAlwaysBirths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		s := rng.Int63()
		r := rule.Random(rand.New(rand.NewSource(s)))
		require.NotEmpty(t, r.BornCounts(), "rule %s", r)

		again := rule.Random(rand.New(rand.NewSource(s)))
		require.Equal(t, r, again)
	}
}

func TestWithBorn(t *testing.T) {
	require.Equal(t, "B03/S23", rule.Life.WithBorn(0).String())
	require.Equal(t, rule.Life, rule.Life.WithBorn(9))
}

func TestTextMarshalling(t *testing.T) {
	out, err := json.Marshal(struct {
		Rule rule.Spec `json:"rule"`
	}{rule.Life})
	require.NoError(t, err)
	require.JSONEq(t, `{"rule":"B3/S23"}`, string(out))

	var back struct {
		Rule rule.Spec `json:"rule"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"rule":"b36/s23"}`), &back))
	require.Equal(t, "B36/S23", back.Rule.String())
	require.Error(t, json.Unmarshal([]byte(`{"rule":"nope"}`), &back))
}
