// SPDX-License-Identifier: MIT

package atlas_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/rulial/atlas"
	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

// AtlasSuite exercises the SQLite store against a fresh database per test.
type AtlasSuite struct {
	suite.Suite
	ctx   context.Context
	path  string
	store *atlas.Store
	clock time.Time
}

func (s *AtlasSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "atlas.db")
	s.clock = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st, err := atlas.Open(s.ctx, s.path, atlas.WithClock(s.tick))
	require.NoError(s.T(), err)
	s.store = st
}

func (s *AtlasSuite) TearDownTest() {
	require.NoError(s.T(), s.store.Close())
}

// tick advances the fake clock by one second per stamp.
func (s *AtlasSuite) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func report(r string, class int, typ sheaf.SheafType, harmonic, mono float64) pipeline.Report {
	return pipeline.Report{
		Rule: rule.MustParse(r),
		Analysis: sheaf.Analysis{
			H0: 1, H1: 3072, SpectralGap: 0.04, EffectiveResistance: 60,
			HarmonicOverlap: harmonic, GradientNorm: math.Sqrt(1 - harmonic*harmonic),
			MonodromyIndex: mono, SheafType: typ,
		},
		WolframClass:    class,
		Phase:           pipeline.PhaseOf(typ),
		Density:         harmonic * harmonic,
		Clusters:        3,
		FinalPopulation: 100,
	}
}

// TestRecordAndGet verifies every field survives a round trip.
func (s *AtlasSuite) TestRecordAndGet() {
	rep := report("B3/S23", 4, sheaf.ResonantActive, 0.41, 0.76)
	rep.Fallbacks = []string{sheaf.StageCohomology}
	require.NoError(s.T(), s.store.Record(s.ctx, rep, "scan-1"))

	e, err := s.store.Get(s.ctx, rule.Life)
	require.NoError(s.T(), err)
	require.Equal(s.T(), rep, e.Report)
	require.Equal(s.T(), "scan-1", e.ScanID)
	require.True(s.T(), s.clock.Equal(e.RecordedAt))
}

// TestInfiniteResistance checks that +Inf is stored as NULL and read back.
func (s *AtlasSuite) TestInfiniteResistance() {
	rep := report("B/S", 1, sheaf.Mixed, 0, 0)
	rep.Analysis.EffectiveResistance = math.Inf(1)
	require.NoError(s.T(), s.store.Record(s.ctx, rep, ""))

	e, err := s.store.Get(s.ctx, rule.MustParse("B/S"))
	require.NoError(s.T(), err)
	require.True(s.T(), math.IsInf(e.Report.Analysis.EffectiveResistance, 1))
}

// TestUpsert ensures a rule keeps one row and the latest values.
func (s *AtlasSuite) TestUpsert() {
	require.NoError(s.T(), s.store.Record(s.ctx, report("B36/S23", 3, sheaf.Mixed, 0.2, 0), "a"))
	require.NoError(s.T(), s.store.Record(s.ctx, report("B36/S23", 4, sheaf.Tense, 0.5, -0.7), "b"))

	all, err := s.store.List(s.ctx, atlas.Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	require.Equal(s.T(), 4, all[0].Report.WolframClass)
	require.Equal(s.T(), sheaf.Tense, all[0].Report.Analysis.SheafType)
	require.Equal(s.T(), "b", all[0].ScanID)
}

// TestHasAndNotFound covers lookups of unknown rules.
func (s *AtlasSuite) TestHasAndNotFound() {
	ok, err := s.store.Has(s.ctx, rule.Life)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)

	_, err = s.store.Get(s.ctx, rule.Life)
	require.ErrorIs(s.T(), err, atlas.ErrNotFound)

	require.NoError(s.T(), s.store.Record(s.ctx, report("B3/S23", 4, sheaf.ResonantActive, 0.4, 0.76), ""))
	ok, err = s.store.Has(s.ctx, rule.MustParse("b3/s32"))
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

// TestListFilters covers ordering, limits and every filter.
func (s *AtlasSuite) TestListFilters() {
	reps := []pipeline.Report{
		report("B3/S23", 4, sheaf.ResonantActive, 0.45, 0.76),
		report("B2/S", 3, sheaf.ResonantActive, 0.2, 0.99),
		report("B1/S1", 2, sheaf.ResonantFrozen, 0.95, 0.9),
		report("B35/S", 4, sheaf.Tense, 0.5, -0.8),
	}
	require.NoError(s.T(), s.store.RecordAll(s.ctx, reps, "batch"))

	all, err := s.store.List(s.ctx, atlas.Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 4)
	require.Equal(s.T(), "B35/S", all[0].Report.Rule.String()) // most recent first

	limited, err := s.store.List(s.ctx, atlas.Filter{Limit: 2})
	require.NoError(s.T(), err)
	require.Len(s.T(), limited, 2)

	class4, err := s.store.List(s.ctx, atlas.Filter{WolframClass: 4})
	require.NoError(s.T(), err)
	require.Len(s.T(), class4, 2)

	particles, err := s.store.List(s.ctx, atlas.Filter{Phase: pipeline.PhaseParticle})
	require.NoError(s.T(), err)
	require.Len(s.T(), particles, 1)
	require.Equal(s.T(), "B35/S", particles[0].Report.Rule.String())

	frozen, err := s.store.List(s.ctx, atlas.Filter{SheafType: sheaf.ResonantFrozen.String()})
	require.NoError(s.T(), err)
	require.Len(s.T(), frozen, 1)

	goldilocks, err := s.store.List(s.ctx, atlas.Filter{MinHarmonic: 0.3, MaxHarmonic: 0.7})
	require.NoError(s.T(), err)
	require.Len(s.T(), goldilocks, 2)
}

// TestStatistics checks aggregate counts and means.
func (s *AtlasSuite) TestStatistics() {
	empty, err := s.store.Statistics(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, empty.Total)
	require.Equal(s.T(), 0.0, empty.MeanMonodromy)

	reps := []pipeline.Report{
		report("B3/S23", 4, sheaf.ResonantActive, 0.4, 0.8),
		report("B2/S", 3, sheaf.ResonantActive, 0.2, 0.6),
		report("B35/S", 4, sheaf.Tense, 0.6, -0.8),
		report("B/S", 1, sheaf.Mixed, 0, 0),
	}
	require.NoError(s.T(), s.store.RecordAll(s.ctx, reps, ""))

	st, err := s.store.Statistics(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 4, st.Total)
	require.Equal(s.T(), 2, st.Condensates)
	require.InDelta(s.T(), 0.15, st.MeanMonodromy, 1e-12)
	require.InDelta(s.T(), 0.3, st.MeanHarmonic, 1e-12)
	require.Equal(s.T(), map[int]int{1: 1, 3: 1, 4: 2}, st.ByClass)
	require.Equal(s.T(), map[sheaf.SheafType]int{sheaf.ResonantActive: 2, sheaf.Tense: 1, sheaf.Mixed: 1}, st.BySheafType)
}

// TestReopen verifies data persists across handles.
func (s *AtlasSuite) TestReopen() {
	require.NoError(s.T(), s.store.Record(s.ctx, report("B3/S23", 4, sheaf.ResonantActive, 0.4, 0.76), ""))
	require.NoError(s.T(), s.store.Close())

	st, err := atlas.Open(s.ctx, s.path)
	require.NoError(s.T(), err)
	s.store = st
	ok, err := st.Has(s.ctx, rule.Life)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

func TestAtlasSuite(t *testing.T) {
	suite.Run(t, new(AtlasSuite))
}

func TestWithClockNil(t *testing.T) {
	require.Panics(t, func() { atlas.WithClock(nil) })
}
