// SPDX-License-Identifier: MIT

// Package atlas persists classified rules in a SQLite database, one row per
// canonical rule string, so scans can resume and results can be queried.
package atlas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

// ErrNotFound is returned by Get for a rule that was never recorded.
var ErrNotFound = errors.New("atlas: rule not found")

// schema is idempotent and runs on every Open.
// effective_resistance is NULL when the resistance is infinite.
const schema = `
CREATE TABLE IF NOT EXISTS rules (
    rule                 TEXT PRIMARY KEY,
    born                 TEXT NOT NULL,
    survive              TEXT NOT NULL,
    wolfram_class        INTEGER NOT NULL,
    phase                TEXT NOT NULL,
    sheaf_type           TEXT NOT NULL,
    h0                   INTEGER NOT NULL,
    h1                   INTEGER NOT NULL,
    spectral_gap         REAL NOT NULL,
    effective_resistance REAL,
    harmonic_overlap     REAL NOT NULL,
    gradient_norm        REAL NOT NULL,
    monodromy            REAL NOT NULL,
    density              REAL NOT NULL,
    clusters             INTEGER NOT NULL,
    final_population     INTEGER NOT NULL,
    fallbacks            TEXT NOT NULL DEFAULT '',
    scan_id              TEXT NOT NULL DEFAULT '',
    recorded_at          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS rules_wolfram_class ON rules(wolfram_class);
CREATE INDEX IF NOT EXISTS rules_sheaf_type ON rules(sheaf_type);
`

const columns = `rule, wolfram_class, phase, sheaf_type, h0, h1, spectral_gap,
	effective_resistance, harmonic_overlap, gradient_norm, monodromy, density,
	clusters, final_population, fallbacks, scan_id, recorded_at`

// Entry is one stored rule.
type Entry struct {
	Report     pipeline.Report
	ScanID     string
	RecordedAt time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now for recorded_at stamps. Panics on nil.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("atlas: WithClock(nil)")
	}
	return func(s *Store) { s.now = now }
}

// Store is a SQLite-backed rule atlas in WAL mode. It is safe for
// concurrent use; writes are serialized on a single connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the atlas at path, enables WAL mode and a busy
// timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("atlas: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("atlas: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("atlas: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("atlas: create schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const upsert = `
	INSERT INTO rules (rule, born, survive, wolfram_class, phase, sheaf_type, h0, h1,
		spectral_gap, effective_resistance, harmonic_overlap, gradient_norm, monodromy,
		density, clusters, final_population, fallbacks, scan_id, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(rule) DO UPDATE SET
		wolfram_class        = excluded.wolfram_class,
		phase                = excluded.phase,
		sheaf_type           = excluded.sheaf_type,
		h0                   = excluded.h0,
		h1                   = excluded.h1,
		spectral_gap         = excluded.spectral_gap,
		effective_resistance = excluded.effective_resistance,
		harmonic_overlap     = excluded.harmonic_overlap,
		gradient_norm        = excluded.gradient_norm,
		monodromy            = excluded.monodromy,
		density              = excluded.density,
		clusters             = excluded.clusters,
		final_population     = excluded.final_population,
		fallbacks            = excluded.fallbacks,
		scan_id              = excluded.scan_id,
		recorded_at          = excluded.recorded_at`

func digits(ds []int) string {
	var sb strings.Builder
	for _, d := range ds {
		sb.WriteByte(byte('0' + d))
	}

	return sb.String()
}

func (s *Store) args(rep pipeline.Report, scanID string) []any {
	a := rep.Analysis
	var resistance sql.NullFloat64
	if !math.IsInf(a.EffectiveResistance, 0) && !math.IsNaN(a.EffectiveResistance) {
		resistance = sql.NullFloat64{Float64: a.EffectiveResistance, Valid: true}
	}

	return []any{
		rep.Rule.String(), digits(rep.Rule.BornCounts()), digits(rep.Rule.SurviveCounts()),
		rep.WolframClass, string(rep.Phase), a.SheafType.String(), a.H0, a.H1,
		a.SpectralGap, resistance, a.HarmonicOverlap, a.GradientNorm, a.MonodromyIndex,
		rep.Density, rep.Clusters, rep.FinalPopulation, strings.Join(rep.Fallbacks, ","),
		scanID, s.now().UnixNano(),
	}
}

// Record upserts rep under its canonical rule string.
func (s *Store) Record(ctx context.Context, rep pipeline.Report, scanID string) error {
	if _, err := s.db.ExecContext(ctx, upsert, s.args(rep, scanID)...); err != nil {
		return fmt.Errorf("atlas: record %s: %w", rep.Rule, err)
	}

	return nil
}

// RecordAll upserts reps in a single transaction.
func (s *Store) RecordAll(ctx context.Context, reps []pipeline.Report, scanID string) error {
	if len(reps) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atlas: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("atlas: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rep := range reps {
		if _, err := stmt.ExecContext(ctx, s.args(rep, scanID)...); err != nil {
			return fmt.Errorf("atlas: record %s: %w", rep.Rule, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atlas: commit: %w", err)
	}

	return nil
}

// Has reports whether spec has been recorded.
func (s *Store) Has(ctx context.Context, spec rule.Spec) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rules WHERE rule = ?", spec.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("atlas: has %s: %w", spec, err)
	}

	return n > 0, nil
}

// Get returns the entry for spec.
// Errors: ErrNotFound.
func (s *Store) Get(ctx context.Context, spec rule.Spec) (Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM rules WHERE rule = ?", spec.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, spec)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("atlas: get %s: %w", spec, err)
	}

	return e, nil
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Limit        int
	WolframClass int
	Phase        pipeline.Phase
	SheafType    string
	// MinHarmonic and MaxHarmonic bound the harmonic overlap when
	// MaxHarmonic > 0.
	MinHarmonic, MaxHarmonic float64
}

// List returns matching entries, most recent first, ties by rule.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.WolframClass != 0 {
		where = append(where, "wolfram_class = ?")
		args = append(args, f.WolframClass)
	}
	if f.Phase != "" {
		where = append(where, "phase = ?")
		args = append(args, string(f.Phase))
	}
	if f.SheafType != "" {
		where = append(where, "sheaf_type = ?")
		args = append(args, f.SheafType)
	}
	if f.MaxHarmonic > 0 {
		where = append(where, "harmonic_overlap BETWEEN ? AND ?")
		args = append(args, f.MinHarmonic, f.MaxHarmonic)
	}

	q := "SELECT " + columns + " FROM rules"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY recorded_at DESC, rule"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("atlas: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("atlas: list: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("atlas: list: %w", err)
	}

	return out, nil
}

// Stats summarizes the atlas.
type Stats struct {
	Total         int                     `json:"total" yaml:"total" toml:"total"`
	Condensates   int                     `json:"condensates" yaml:"condensates" toml:"condensates"`
	MeanMonodromy float64                 `json:"mean_monodromy" yaml:"mean_monodromy" toml:"mean_monodromy"`
	MeanHarmonic  float64                 `json:"mean_harmonic_overlap" yaml:"mean_harmonic_overlap" toml:"mean_harmonic_overlap"`
	ByClass       map[int]int             `json:"by_class" yaml:"by_class" toml:"by_class"`
	BySheafType   map[sheaf.SheafType]int `json:"by_sheaf_type" yaml:"by_sheaf_type" toml:"by_sheaf_type"`
}

// Statistics aggregates counts and means over every stored rule.
func (s *Store) Statistics(ctx context.Context) (Stats, error) {
	st := Stats{ByClass: map[int]int{}, BySheafType: map[sheaf.SheafType]int{}}
	const q = `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN phase = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(monodromy), 0),
		       COALESCE(AVG(harmonic_overlap), 0)
		FROM rules`
	err := s.db.QueryRowContext(ctx, q, string(pipeline.PhaseCondensate)).
		Scan(&st.Total, &st.Condensates, &st.MeanMonodromy, &st.MeanHarmonic)
	if err != nil {
		return Stats{}, fmt.Errorf("atlas: statistics: %w", err)
	}

	if err := s.groupCount(ctx, "wolfram_class", func(key string, n int) error {
		var c int
		if _, err := fmt.Sscan(key, &c); err != nil {
			return err
		}
		st.ByClass[c] = n
		return nil
	}); err != nil {
		return Stats{}, err
	}
	if err := s.groupCount(ctx, "sheaf_type", func(key string, n int) error {
		t, err := sheaf.ParseSheafType(key)
		if err != nil {
			return err
		}
		st.BySheafType[t] = n
		return nil
	}); err != nil {
		return Stats{}, err
	}

	return st, nil
}

// groupCount runs SELECT col, COUNT(*) ... GROUP BY col; col is a constant.
func (s *Store) groupCount(ctx context.Context, col string, fn func(key string, n int) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT CAST("+col+" AS TEXT), COUNT(*) FROM rules GROUP BY "+col)
	if err != nil {
		return fmt.Errorf("atlas: count by %s: %w", col, err)
	}
	defer rows.Close()
	var (
		key string
		n   int
	)
	for rows.Next() {
		if err = rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("atlas: count by %s: %w", col, err)
		}
		if err = fn(key, n); err != nil {
			return fmt.Errorf("atlas: count by %s: %w", col, err)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("atlas: count by %s: %w", col, err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e          Entry
		ruleStr    string
		phase      string
		sheafType  string
		resistance sql.NullFloat64
		fallbacks  string
		stamp      int64
		a          = &e.Report.Analysis
	)
	err := sc.Scan(&ruleStr, &e.Report.WolframClass, &phase, &sheafType, &a.H0, &a.H1,
		&a.SpectralGap, &resistance, &a.HarmonicOverlap, &a.GradientNorm, &a.MonodromyIndex,
		&e.Report.Density, &e.Report.Clusters, &e.Report.FinalPopulation, &fallbacks,
		&e.ScanID, &stamp)
	if err != nil {
		return Entry{}, err
	}
	if e.Report.Rule, err = rule.Parse(ruleStr); err != nil {
		return Entry{}, err
	}
	if a.SheafType, err = sheaf.ParseSheafType(sheafType); err != nil {
		return Entry{}, err
	}
	a.EffectiveResistance = math.Inf(1)
	if resistance.Valid {
		a.EffectiveResistance = resistance.Float64
	}
	e.Report.Phase = pipeline.Phase(phase)
	if fallbacks != "" {
		e.Report.Fallbacks = strings.Split(fallbacks, ",")
	}
	e.RecordedAt = time.Unix(0, stamp).UTC()

	return e, nil
}
