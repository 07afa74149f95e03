// SPDX-License-Identifier: MIT

package sheaf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/rulial/engine"
	"github.com/katalvlaran/rulial/grid"
	"github.com/katalvlaran/rulial/gridgraph"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sparse"
)

// Stage names reported in Result.Fallbacks and in Warn logs.
const (
	StageCohomology = "cohomology"
	StageSpectrum   = "spectrum"
	StageHodge      = "hodge"
)

// Config parameterizes an Analyzer. Zero values are invalid; start from
// DefaultConfig.
type Config struct {
	GridSize    int     // side of the simulated square torus
	Steps       int     // generations simulated before analysis
	Density     float64 // live probability of generation 0
	Seed        int64   // seed of generation 0; 0 selects the engine default
	SpectralK   int     // eigenvalues summarized, capped at MaxSpectralK
	CohomologyK int     // singular values sampled, MaxSingularValues by default
	HodgeK      int     // eigenpairs used for the kernel projection
	Monodromy   MonodromyOptions
	Fallback    Fallback
	Solver      sparse.Options
}

// DefaultConfig returns the reference parameters: a 32×32 torus evolved 50
// steps from density 0.3 with seed 42.
func DefaultConfig() Config {
	return Config{
		GridSize:    32,
		Steps:       50,
		Density:     0.3,
		Seed:        42,
		SpectralK:   MaxSpectralK,
		CohomologyK: MaxSingularValues,
		HodgeK:      10,
		Monodromy:   DefaultMonodromyOptions(),
		Fallback:    DefaultFallback(),
		Solver:      sparse.DefaultOptions(),
	}
}

// Validate reports the first unusable field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 1:
		return fmt.Errorf("%w: grid size %d", ErrInvalidConfig, c.GridSize)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps %d", ErrInvalidConfig, c.Steps)
	case math.IsNaN(c.Density) || c.Density < 0 || c.Density > 1:
		return fmt.Errorf("%w: density %v", ErrInvalidConfig, c.Density)
	case c.SpectralK < 1 || c.CohomologyK < 1 || c.HodgeK < 1:
		return fmt.Errorf("%w: k values must be positive (spectral %d, cohomology %d, hodge %d)",
			ErrInvalidConfig, c.SpectralK, c.CohomologyK, c.HodgeK)
	case c.Monodromy.Size < 1 || c.Monodromy.Steps < 0:
		return fmt.Errorf("%w: monodromy probe %dx%d for %d steps",
			ErrInvalidConfig, c.Monodromy.Size, c.Monodromy.Size, c.Monodromy.Steps)
	case math.IsNaN(c.Monodromy.Band) || c.Monodromy.Band < 0:
		return fmt.Errorf("%w: monodromy band %v", ErrInvalidConfig, c.Monodromy.Band)
	case c.Fallback.SpectralGap < 0 || c.Fallback.EffectiveResistance < 0:
		return fmt.Errorf("%w: negative fallback constants", ErrInvalidConfig)
	}

	return nil
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for fallback warnings. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("sheaf: WithLogger(nil)")
	}
	return func(a *Analyzer) { a.log = l }
}

// WithCache shares a structure cache between analyzers. Panics on nil.
func WithCache(c *gridgraph.Cache) Option {
	if c == nil {
		panic("sheaf: WithCache(nil)")
	}
	return func(a *Analyzer) { a.cache = c }
}

// Result is everything Analyze learned about one rule.
type Result struct {
	Rule       rule.Spec
	Analysis   Analysis
	Cohomology Cohomology
	Spectrum   Spectrum
	Monodromy  Monodromy
	Final      grid.Grid
	// Fallbacks lists the stages whose solver failed and were substituted.
	Fallbacks []string
}

type shapeKey struct{ h, w, k int }

func (k shapeKey) String() string { return fmt.Sprintf("%dx%d/%d", k.h, k.w, k.k) }

type memoEntry[T any] struct {
	value T
	err   error
}

// Analyzer runs the sheaf pipeline. It is safe for concurrent use.
//
// Shape-only results (cohomology and the low Laplacian eigenpairs) depend on
// the grid dimensions alone and are memoized per shape, including solver
// failures. Concurrent callers share one solve per shape. Failures caused by
// a done context are not memoized, and a caller whose own context is still
// live never inherits another caller's cancellation.
type Analyzer struct {
	cfg   Config
	log   *slog.Logger
	cache *gridgraph.Cache

	mu    sync.Mutex
	cohom map[shapeKey]memoEntry[Cohomology]
	eigen map[shapeKey]memoEntry[sparse.Eigen]
	group singleflight.Group
}

// NewAnalyzer validates cfg and returns a ready Analyzer.
// Errors: ErrInvalidConfig.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		cfg:   cfg,
		cohom: make(map[shapeKey]memoEntry[Cohomology]),
		eigen: make(map[shapeKey]memoEntry[sparse.Eigen]),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = slog.New(slog.DiscardHandler)
	}
	if a.cache == nil {
		a.cache = gridgraph.NewCache()
	}

	return a, nil
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// ClassifyRule parses s and analyzes it.
// Errors: rule.ErrMalformedRule (possibly with rule.ErrDigitOutOfRange).
func (a *Analyzer) ClassifyRule(ctx context.Context, s string) (Analysis, error) {
	spec, err := rule.Parse(s)
	if err != nil {
		return Analysis{}, fmt.Errorf("ClassifyRule: %w", err)
	}
	res, err := a.Analyze(ctx, spec)
	if err != nil {
		return Analysis{}, fmt.Errorf("ClassifyRule: %w", err)
	}

	return res.Analysis, nil
}

// Analyze simulates spec on the configured torus and analyzes the final
// generation. Solver failures never surface as errors; see AnalyzeGrid.
func (a *Analyzer) Analyze(ctx context.Context, spec rule.Spec) (Result, error) {
	history, err := engine.New(spec).Simulate(a.cfg.GridSize, a.cfg.GridSize, a.cfg.Steps,
		engine.WithRandom(a.cfg.Density), engine.WithSeed(a.cfg.Seed))
	if err != nil {
		return Result{}, fmt.Errorf("Analyze: %w", err)
	}

	return a.AnalyzeGrid(ctx, spec, history[len(history)-1])
}

// AnalyzeGrid runs the sheaf stages over final's shape and signal, plus the
// monodromy probe for spec.
//
// Each failed solver stage is replaced explicitly: EulerCohomology for the
// cohomology, FallbackSpectrum for the spectrum and MeanHodge for the Hodge
// split. A done ctx counts as a failure of every remaining stage.
//
// Errors: gridgraph.ErrInvalidShape for a zero Grid.
func (a *Analyzer) AnalyzeGrid(ctx context.Context, spec rule.Spec, final grid.Grid) (Result, error) {
	s, err := a.cache.Get(final.Height(), final.Width())
	if err != nil {
		return Result{}, fmt.Errorf("AnalyzeGrid: %w", err)
	}
	res := Result{Rule: spec, Final: final}
	log := a.log.With("rule", spec.String())

	res.Cohomology, err = a.cohomology(ctx, s)
	if err != nil {
		res.Cohomology = EulerCohomology(s.Edges, s.Nodes)
		res.Fallbacks = append(res.Fallbacks, StageCohomology)
		log.WarnContext(ctx, "solver failed", "stage", StageCohomology, "fallback", "euler", "error", err)
	}

	spectralK := min(a.cfg.SpectralK, MaxSpectralK)
	signal := final.Signal()
	var hodge Hodge
	eig, err := a.eigenpairs(ctx, s, max(spectralK, a.cfg.HodgeK))
	if err != nil {
		res.Spectrum = FallbackSpectrum(a.cfg.Fallback)
		hodge = MeanHodge(signal, s.Nodes)
		res.Fallbacks = append(res.Fallbacks, StageSpectrum, StageHodge)
		log.WarnContext(ctx, "solver failed", "stage", StageSpectrum, "fallback", "constant", "error", err)
		log.WarnContext(ctx, "solver failed", "stage", StageHodge, "fallback", "mean", "error", err)
	} else {
		res.Spectrum = SummarizeSpectrum(truncate(eig, spectralK).Values)
		hodge = ProjectKernel(signal, truncate(eig, a.cfg.HodgeK))
	}

	res.Monodromy = EstimateMonodromy(spec, a.cfg.Monodromy)
	res.Analysis = Analysis{
		H0:                  res.Cohomology.H0,
		H1:                  res.Cohomology.H1,
		SpectralGap:         res.Spectrum.Gap,
		EffectiveResistance: res.Spectrum.EffectiveResistance,
		HarmonicOverlap:     hodge.HarmonicOverlap,
		GradientNorm:        hodge.GradientNorm,
		MonodromyIndex:      res.Monodromy.Index,
	}
	res.Analysis.SheafType = Classify(res.Analysis.MonodromyIndex, res.Analysis.HarmonicOverlap, res.Analysis.SpectralGap)
	log.DebugContext(ctx, "rule analyzed",
		"sheaf_type", res.Analysis.SheafType.String(),
		"monodromy", res.Analysis.MonodromyIndex,
		"harmonic", res.Analysis.HarmonicOverlap,
		"fallbacks", len(res.Fallbacks))

	return res, nil
}

// Eigenvalues returns the k smallest Laplacian eigenvalue magnitudes of the
// configured torus, ascending. A solver failure yields [0].
func (a *Analyzer) Eigenvalues(ctx context.Context, k int) []float64 {
	s, err := a.cache.Get(a.cfg.GridSize, a.cfg.GridSize)
	if err != nil || k < 1 {
		return []float64{0}
	}
	eig, err := a.eigenpairs(ctx, s, k)
	if err != nil {
		a.log.WarnContext(ctx, "solver failed", "stage", StageSpectrum, "fallback", "zero", "error", err)
		return []float64{0}
	}

	return append([]float64(nil), eig.Values...)
}

func (a *Analyzer) solverOptions(ctx context.Context) sparse.Options {
	opts := a.cfg.Solver
	opts.Ctx = ctx

	return opts
}

func (a *Analyzer) cohomology(ctx context.Context, s *gridgraph.Structure) (Cohomology, error) {
	key := shapeKey{s.Height, s.Width, a.cfg.CohomologyK}

	return memoized(ctx, a, "cohomology", key, a.cohom, func(ctx context.Context) (Cohomology, error) {
		return EstimateCohomology(s.Coboundary, key.k, a.solverOptions(ctx))
	})
}

func (a *Analyzer) eigenpairs(ctx context.Context, s *gridgraph.Structure, k int) (sparse.Eigen, error) {
	key := shapeKey{s.Height, s.Width, k}

	return memoized(ctx, a, "eigen", key, a.eigen, func(ctx context.Context) (sparse.Eigen, error) {
		return SmallestEigenpairs(s.Laplacian, k, a.solverOptions(ctx))
	})
}

// memoized returns memo[key], computing it with solve at most once at a time
// per key. The shared solve runs under the context of the caller that
// started it; when that context ends the solve, callers with a live context
// start over instead of taking the error.
func memoized[T any](ctx context.Context, a *Analyzer, stage string, key shapeKey,
	memo map[shapeKey]memoEntry[T], solve func(context.Context) (T, error)) (T, error) {
	name := stage + "/" + key.String()
	for {
		a.mu.Lock()
		e, ok := memo[key]
		a.mu.Unlock()
		if ok {
			return e.value, e.err
		}

		v, err, _ := a.group.Do(name, func() (any, error) {
			v, err := solve(ctx)
			if err == nil || ctx.Err() == nil {
				a.mu.Lock()
				memo[key] = memoEntry[T]{value: v, err: err}
				a.mu.Unlock()
			}
			return v, err
		})
		if err == nil {
			return v.(T), nil
		}
		if ctx.Err() != nil || !isContextError(err) {
			var zero T
			return zero, err
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
