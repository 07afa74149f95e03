// SPDX-License-Identifier: MIT

// Package scan classifies batches of rules in parallel and records them in
// an atlas, skipping rules it already holds.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

// ErrInvalidConfig reports an unusable scan configuration.
var ErrInvalidConfig = errors.New("scan: invalid configuration")

// Classifier turns a rule into a report; *pipeline.Pipeline implements it.
type Classifier interface {
	AnalyzeRule(ctx context.Context, spec rule.Spec) (pipeline.Report, error)
}

// Store persists reports; *atlas.Store implements it.
type Store interface {
	Has(ctx context.Context, spec rule.Spec) (bool, error)
	Record(ctx context.Context, rep pipeline.Report, scanID string) error
}

// Config describes one scan.
type Config struct {
	Workers int
	Count   int
	Mode    Mode
	Seed    int64
	// Rules is scanned verbatim in ModeList.
	Rules []rule.Spec
	// Timeout bounds each rule's analysis; 0 means none. A rule that runs
	// out of time degrades to the solver fallbacks rather than failing.
	Timeout time.Duration
	// Rescan analyzes rules the store already holds.
	Rescan bool
}

// Validate reports the first unusable field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers=%d", ErrInvalidConfig, c.Workers)
	case c.Count < 0:
		return fmt.Errorf("%w: count=%d", ErrInvalidConfig, c.Count)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout=%s", ErrInvalidConfig, c.Timeout)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}

	return nil
}

// Progress is called once per finished rule, serialized.
type Progress func(done, total int, rep pipeline.Report)

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLogger sets the scan logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("scan: WithLogger(nil)")
	}
	return func(s *Scanner) { s.log = l }
}

// WithMetrics records scan metrics. Panics on nil.
func WithMetrics(m *Metrics) Option {
	if m == nil {
		panic("scan: WithMetrics(nil)")
	}
	return func(s *Scanner) { s.metrics = m }
}

// WithStore persists results and enables skipping. Panics on nil.
func WithStore(st Store) Option {
	if st == nil {
		panic("scan: WithStore(nil)")
	}
	return func(s *Scanner) { s.store = st }
}

// WithProgress registers a per-rule callback. Panics on nil.
func WithProgress(fn Progress) Option {
	if fn == nil {
		panic("scan: WithProgress(nil)")
	}
	return func(s *Scanner) { s.progress = fn }
}

// WithRunID fixes the run identifier instead of a random UUID.
func WithRunID(id string) Option {
	return func(s *Scanner) { s.runID = id }
}

// Summary is the outcome of a scan.
type Summary struct {
	RunID    string
	Total    int
	Analyzed int
	Skipped  int
	Failed   int
	// Reports holds the analyzed reports in generation order.
	Reports  []pipeline.Report
	ByType   map[sheaf.SheafType]int
	ByClass  map[int]int
	Duration time.Duration
}

// Scanner runs scans. It is safe to call Run repeatedly; each call gets a
// fresh run id unless WithRunID fixed one.
type Scanner struct {
	classifier Classifier
	cfg        Config
	store      Store
	metrics    *Metrics
	log        *slog.Logger
	progress   Progress
	runID      string
}

// New validates cfg and returns a Scanner over c.
// Errors: ErrInvalidConfig.
func New(c Classifier, cfg Config, opts ...Option) (*Scanner, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil classifier", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scanner{classifier: c, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}

	return s, nil
}

// Run scans every generated rule with at most Workers analyses in flight.
//
// Analysis errors are counted and logged; the rule is skipped. Store errors
// and cancellation of ctx abort the scan and are returned together with the
// partial Summary.
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	rules := Generate(s.cfg)
	runID := s.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := s.log.With("scan_id", runID)
	log.InfoContext(ctx, "scan started", "rules", len(rules), "workers", s.cfg.Workers, "mode", string(s.cfg.Mode))

	var (
		mu      sync.Mutex
		done    int
		reports = make([]*pipeline.Report, len(rules))
		sum     = Summary{
			RunID:   runID,
			Total:   len(rules),
			ByType:  map[sheaf.SheafType]int{},
			ByClass: map[int]int{},
		}
	)
	finish := func(rep pipeline.Report, analyzed bool) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if analyzed && s.progress != nil {
			s.progress(done, len(rules), rep)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, spec := range rules {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.store != nil && !s.cfg.Rescan {
				has, err := s.store.Has(gctx, spec)
				if err != nil {
					return err
				}
				if has {
					mu.Lock()
					sum.Skipped++
					mu.Unlock()
					s.observeSkip()
					finish(pipeline.Report{}, false)
					return nil
				}
			}

			rep, err := s.analyze(gctx, spec)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				if s.metrics != nil {
					s.metrics.Failed.Inc()
				}
				log.WarnContext(gctx, "rule failed", "rule", spec.String(), "error", err)
				finish(pipeline.Report{}, false)
				return nil
			}
			if s.store != nil {
				if err := s.store.Record(gctx, rep, runID); err != nil {
					return err
				}
			}

			mu.Lock()
			reports[i] = &rep
			sum.Analyzed++
			sum.ByType[rep.Analysis.SheafType]++
			sum.ByClass[rep.WolframClass]++
			mu.Unlock()
			finish(rep, true)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	for _, r := range reports {
		if r != nil {
			sum.Reports = append(sum.Reports, *r)
		}
	}
	sum.Duration = time.Since(start)
	log.InfoContext(ctx, "scan finished",
		"analyzed", sum.Analyzed,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"duration", sum.Duration)
	if err != nil {
		return sum, fmt.Errorf("scan %s: %w", runID, err)
	}

	return sum, nil
}

func (s *Scanner) analyze(ctx context.Context, spec rule.Spec) (pipeline.Report, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if s.metrics != nil {
		s.metrics.InFlight.Inc()
		defer s.metrics.InFlight.Dec()
		timer := time.Now()
		defer func() { s.metrics.Duration.Observe(time.Since(timer).Seconds()) }()
	}

	rep, err := s.classifier.AnalyzeRule(ctx, spec)
	if err != nil {
		return pipeline.Report{}, err
	}
	if s.metrics != nil {
		s.metrics.Analyzed.WithLabelValues(rep.Analysis.SheafType.String()).Inc()
		for _, stage := range rep.Fallbacks {
			s.metrics.Fallbacks.WithLabelValues(stage).Inc()
		}
	}

	return rep, nil
}

func (s *Scanner) observeSkip() {
	if s.metrics != nil {
		s.metrics.Skipped.Inc()
	}
}
