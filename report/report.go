// SPDX-License-Identifier: MIT

// Package report flattens pipeline reports into records and encodes them as
// JSON lines, YAML or TOML.
//
// An infinite effective resistance has no JSON or YAML number form; it is
// written as null (omitted in TOML) and read back as +Inf.
package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

// ErrUnknownFormat is returned for a format name other than json, yaml or toml.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format selects an encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat accepts json, jsonl, yaml, yml and toml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "jsonl":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is the flat, one-row form of a report.
type Record struct {
	Rule                string   `json:"rule" yaml:"rule" toml:"rule"`
	Born                string   `json:"born" yaml:"born" toml:"born"`
	Survive             string   `json:"survive" yaml:"survive" toml:"survive"`
	WolframClass        int      `json:"wolfram_class" yaml:"wolfram_class" toml:"wolfram_class"`
	Phase               string   `json:"phase" yaml:"phase" toml:"phase"`
	SheafType           string   `json:"sheaf_type" yaml:"sheaf_type" toml:"sheaf_type"`
	H0                  int      `json:"h0" yaml:"h0" toml:"h0"`
	H1                  int      `json:"h1" yaml:"h1" toml:"h1"`
	SpectralGap         float64  `json:"spectral_gap" yaml:"spectral_gap" toml:"spectral_gap"`
	EffectiveResistance *float64 `json:"effective_resistance" yaml:"effective_resistance" toml:"effective_resistance,omitempty"`
	HarmonicOverlap     float64  `json:"harmonic_overlap" yaml:"harmonic_overlap" toml:"harmonic_overlap"`
	GradientNorm        float64  `json:"gradient_norm" yaml:"gradient_norm" toml:"gradient_norm"`
	MonodromyIndex      float64  `json:"monodromy_index" yaml:"monodromy_index" toml:"monodromy_index"`
	Density             float64  `json:"density" yaml:"density" toml:"density"`
	Clusters            int      `json:"clusters" yaml:"clusters" toml:"clusters"`
	FinalPopulation     int      `json:"final_population" yaml:"final_population" toml:"final_population"`
	Fallbacks           []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty" toml:"fallbacks,omitempty"`
}

func digitString(ds []int) string {
	var sb strings.Builder
	for _, d := range ds {
		sb.WriteByte(byte('0' + d))
	}

	return sb.String()
}

// FiniteOrNil returns nil for ±Inf and NaN, &v otherwise.
func FiniteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}

	return &v
}

// FromReport flattens r.
func FromReport(r pipeline.Report) Record {
	a := r.Analysis
	return Record{
		Rule:                r.Rule.String(),
		Born:                digitString(r.Rule.BornCounts()),
		Survive:             digitString(r.Rule.SurviveCounts()),
		WolframClass:        r.WolframClass,
		Phase:               string(r.Phase),
		SheafType:           a.SheafType.String(),
		H0:                  a.H0,
		H1:                  a.H1,
		SpectralGap:         a.SpectralGap,
		EffectiveResistance: FiniteOrNil(a.EffectiveResistance),
		HarmonicOverlap:     a.HarmonicOverlap,
		GradientNorm:        a.GradientNorm,
		MonodromyIndex:      a.MonodromyIndex,
		Density:             r.Density,
		Clusters:            r.Clusters,
		FinalPopulation:     r.FinalPopulation,
		Fallbacks:           r.Fallbacks,
	}
}

// Report rebuilds the pipeline report. A nil EffectiveResistance becomes +Inf.
// Errors: rule.ErrMalformedRule and unknown sheaf type names.
func (rec Record) Report() (pipeline.Report, error) {
	spec, err := rule.Parse(rec.Rule)
	if err != nil {
		return pipeline.Report{}, fmt.Errorf("Record.Report: %w", err)
	}
	st, err := sheaf.ParseSheafType(rec.SheafType)
	if err != nil {
		return pipeline.Report{}, fmt.Errorf("Record.Report: %w", err)
	}
	resistance := math.Inf(1)
	if rec.EffectiveResistance != nil {
		resistance = *rec.EffectiveResistance
	}

	return pipeline.Report{
		Rule: spec,
		Analysis: sheaf.Analysis{
			H0:                  rec.H0,
			H1:                  rec.H1,
			SpectralGap:         rec.SpectralGap,
			EffectiveResistance: resistance,
			HarmonicOverlap:     rec.HarmonicOverlap,
			GradientNorm:        rec.GradientNorm,
			MonodromyIndex:      rec.MonodromyIndex,
			SheafType:           st,
		},
		WolframClass:    rec.WolframClass,
		Phase:           pipeline.Phase(rec.Phase),
		Density:         rec.Density,
		Clusters:        rec.Clusters,
		FinalPopulation: rec.FinalPopulation,
		Fallbacks:       rec.Fallbacks,
	}, nil
}

// tomlDocument wraps records as an array of [[record]] tables.
type tomlDocument struct {
	Records []Record `toml:"record"`
}

// Write encodes recs to w: one JSON object per line, a YAML sequence, or
// a TOML document of [[record]] tables.
func Write(w io.Writer, f Format, recs ...Record) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		for i := range recs {
			if err := enc.Encode(recs[i]); err != nil {
				return fmt.Errorf("report: json record %d: %w", i, err)
			}
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		return enc.Close()
	case TOML:
		if err := toml.NewEncoder(w).Encode(tomlDocument{Records: recs}); err != nil {
			return fmt.Errorf("report: toml: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Read decodes records written by Write in format f.
func Read(r io.Reader, f Format) ([]Record, error) {
	switch f {
	case JSON:
		return readJSONLines(r)
	case YAML:
		var recs []Record
		if err := yaml.NewDecoder(r).Decode(&recs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("report: yaml: %w", err)
		}
		return recs, nil
	case TOML:
		var doc tomlDocument
		if err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("report: toml: %w", err)
		}
		return doc.Records, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func readJSONLines(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("report: json line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("report: json: %w", err)
	}

	return recs, nil
}
