// SPDX-License-Identifier: MIT

// Package pipeline turns a rule into a classified Report: it simulates the
// rule, runs the sheaf analysis on the final generation and derives the
// Wolfram class and the phase label from the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

// ErrNilAnalyzer is returned by New for a nil analyzer.
var ErrNilAnalyzer = errors.New("pipeline: nil analyzer")

// Phase is the coarse dynamical phase of a rule.
type Phase string

const (
	PhaseParticle   Phase = "particle"
	PhaseCondensate Phase = "condensate"
	PhaseHybrid     Phase = "hybrid"
)

// PhaseOf maps a sheaf type to its phase: tense rules carry particles,
// resonant ones condense, mixed ones are hybrids.
func PhaseOf(t sheaf.SheafType) Phase {
	switch {
	case t == sheaf.Tense:
		return PhaseParticle
	case t.IsResonant():
		return PhaseCondensate
	default:
		return PhaseHybrid
	}
}

// Density bounds outside which a final grid counts as frozen (class 1).
const (
	EmptyDensity = 0.02
	FullDensity  = 0.98
)

// WolframClass estimates the 1–4 Wolfram class from the final density and
// the sheaf analysis.
//
//   - density < EmptyDensity or > FullDensity: 1 (uniform).
//   - tense: 2 when harmonic overlap > 0.8 (settled particles), else 4.
//   - otherwise: 2 when harmonic overlap > 0.9, 4 inside [0.3, 0.6], else 3.
func WolframClass(density float64, a sheaf.Analysis) int {
	if density < EmptyDensity || density > FullDensity {
		return 1
	}
	h := a.HarmonicOverlap
	if a.SheafType == sheaf.Tense {
		if h > 0.8 {
			return 2
		}
		return 4
	}
	switch {
	case h > 0.9:
		return 2
	case h >= 0.3 && h <= 0.6:
		return 4
	default:
		return 3
	}
}

// Report is the full classification of one rule.
//
// EffectiveResistance may be +Inf, which encoding/json rejects; encode
// through the report package.
type Report struct {
	Rule            rule.Spec      `json:"rule" yaml:"rule" toml:"rule"`
	Analysis        sheaf.Analysis `json:"analysis" yaml:"analysis" toml:"analysis"`
	WolframClass    int            `json:"wolfram_class" yaml:"wolfram_class" toml:"wolfram_class"`
	Phase           Phase          `json:"phase" yaml:"phase" toml:"phase"`
	Density         float64        `json:"density" yaml:"density" toml:"density"`
	Clusters        int            `json:"clusters" yaml:"clusters" toml:"clusters"`
	FinalPopulation int            `json:"final_population" yaml:"final_population" toml:"final_population"`
	Fallbacks       []string       `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty" toml:"fallbacks,omitempty"`
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("pipeline: WithLogger(nil)")
	}
	return func(p *Pipeline) { p.log = l }
}

// Pipeline classifies rules with a shared Analyzer. It is safe for
// concurrent use.
type Pipeline struct {
	analyzer *sheaf.Analyzer
	log      *slog.Logger
}

// New returns a Pipeline over a.
// Errors: ErrNilAnalyzer.
func New(a *sheaf.Analyzer, opts ...Option) (*Pipeline, error) {
	if a == nil {
		return nil, ErrNilAnalyzer
	}
	p := &Pipeline{analyzer: a}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}

	return p, nil
}

// Analyzer returns the underlying analyzer.
func (p *Pipeline) Analyzer() *sheaf.Analyzer { return p.analyzer }

// AnalyzeRule classifies spec.
func (p *Pipeline) AnalyzeRule(ctx context.Context, spec rule.Spec) (Report, error) {
	res, err := p.analyzer.Analyze(ctx, spec)
	if err != nil {
		return Report{}, fmt.Errorf("AnalyzeRule(%s): %w", spec, err)
	}
	rep := Report{
		Rule:            spec,
		Analysis:        res.Analysis,
		Density:         res.Final.Density(),
		Clusters:        len(res.Final.Clusters()),
		FinalPopulation: res.Final.Population(),
		Fallbacks:       res.Fallbacks,
	}
	rep.WolframClass = WolframClass(rep.Density, rep.Analysis)
	rep.Phase = PhaseOf(rep.Analysis.SheafType)
	p.log.DebugContext(ctx, "rule classified",
		"rule", spec.String(),
		"class", rep.WolframClass,
		"phase", string(rep.Phase),
		"density", rep.Density)

	return rep, nil
}

// AnalyzeString parses s and classifies it.
// Errors: rule.ErrMalformedRule.
func (p *Pipeline) AnalyzeString(ctx context.Context, s string) (Report, error) {
	spec, err := rule.Parse(s)
	if err != nil {
		return Report{}, fmt.Errorf("AnalyzeString: %w", err)
	}

	return p.AnalyzeRule(ctx, spec)
}
