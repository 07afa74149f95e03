// SPDX-License-Identifier: MIT

// Package config loads rulial's runtime configuration from defaults, an
// optional .rulial.yaml or .rulial.toml file, RULIAL_* environment variables
// and command-line flags bound by the caller, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/katalvlaran/rulial/sheaf"
	"github.com/katalvlaran/rulial/sparse"
)

// EnvPrefix is the prefix of every environment override, e.g.
// RULIAL_GRID_SIZE or RULIAL_MONODROMY_BAND.
const EnvPrefix = "RULIAL"

// ErrInvalid reports a configuration value that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// MonodromyConfig configures the band probe.
type MonodromyConfig struct {
	Size  int     `mapstructure:"size"`
	Steps int     `mapstructure:"steps"`
	Band  float64 `mapstructure:"band"`
}

// FallbackConfig holds the constants substituted after a spectral failure.
type FallbackConfig struct {
	SpectralGap         float64 `mapstructure:"spectral_gap"`
	EffectiveResistance float64 `mapstructure:"effective_resistance"`
}

// SolverConfig tunes the iterative eigensolver. Zero values select the
// solver defaults.
type SolverConfig struct {
	Tol         float64 `mapstructure:"tol"`
	MaxIter     int     `mapstructure:"max_iter"`
	MaxRestarts int     `mapstructure:"max_restarts"`
}

// AtlasConfig locates the rule atlas database.
type AtlasConfig struct {
	Path string `mapstructure:"path"`
}

// ScanConfig configures batch scans.
type ScanConfig struct {
	Workers int           `mapstructure:"workers"`
	Count   int           `mapstructure:"count"`
	Timeout time.Duration `mapstructure:"timeout"`
	Mode    string        `mapstructure:"mode"`
	Seed    int64         `mapstructure:"seed"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds all runtime configuration.
type Config struct {
	GridSize    int     `mapstructure:"grid_size"`
	Steps       int     `mapstructure:"steps"`
	Density     float64 `mapstructure:"density"`
	Seed        int64   `mapstructure:"seed"`
	SpectralK   int     `mapstructure:"spectral_k"`
	CohomologyK int     `mapstructure:"cohomology_k"`
	HodgeK      int     `mapstructure:"hodge_k"`

	Monodromy MonodromyConfig `mapstructure:"monodromy"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Solver    SolverConfig    `mapstructure:"solver"`
	Atlas     AtlasConfig     `mapstructure:"atlas"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Log       LogConfig       `mapstructure:"log"`
}

// SetDefaults registers every key with its built-in default. Registering
// the keys also lets AutomaticEnv resolve nested ones.
func SetDefaults(v *viper.Viper) {
	def := sheaf.DefaultConfig()
	v.SetDefault("grid_size", def.GridSize)
	v.SetDefault("steps", def.Steps)
	v.SetDefault("density", def.Density)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("spectral_k", def.SpectralK)
	v.SetDefault("cohomology_k", def.CohomologyK)
	v.SetDefault("hodge_k", def.HodgeK)
	v.SetDefault("monodromy.size", def.Monodromy.Size)
	v.SetDefault("monodromy.steps", def.Monodromy.Steps)
	v.SetDefault("monodromy.band", def.Monodromy.Band)
	v.SetDefault("fallback.spectral_gap", def.Fallback.SpectralGap)
	v.SetDefault("fallback.effective_resistance", def.Fallback.EffectiveResistance)
	v.SetDefault("solver.tol", sparse.DefaultTol)
	v.SetDefault("solver.max_iter", 0)
	v.SetDefault("solver.max_restarts", sparse.DefaultMaxRestarts)
	v.SetDefault("atlas.path", "atlas.db")
	v.SetDefault("scan.workers", runtime.NumCPU())
	v.SetDefault("scan.count", 200)
	v.SetDefault("scan.timeout", time.Duration(0))
	v.SetDefault("scan.mode", "random")
	v.SetDefault("scan.seed", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv enables RULIAL_* overrides; dots in keys become underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load applies defaults and decodes v into a validated Config.
// Errors: decoding failures and ErrInvalid.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the analysis parameters and the ambient settings.
func (c Config) Validate() error {
	if err := c.Sheaf().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers=%d", ErrInvalid, c.Scan.Workers)
	}
	if c.Scan.Count < 0 || c.Scan.Timeout < 0 {
		return fmt.Errorf("%w: scan.count=%d scan.timeout=%s", ErrInvalid, c.Scan.Count, c.Scan.Timeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format=%q (want text or json)", ErrInvalid, c.Log.Format)
	}

	return nil
}

// Sheaf converts c to the analyzer configuration.
func (c Config) Sheaf() sheaf.Config {
	solver := sparse.DefaultOptions()
	solver.Tol = c.Solver.Tol
	solver.MaxIter = c.Solver.MaxIter
	solver.MaxRestarts = c.Solver.MaxRestarts

	return sheaf.Config{
		GridSize:    c.GridSize,
		Steps:       c.Steps,
		Density:     c.Density,
		Seed:        c.Seed,
		SpectralK:   c.SpectralK,
		CohomologyK: c.CohomologyK,
		HodgeK:      c.HodgeK,
		Monodromy: sheaf.MonodromyOptions{
			Size:  c.Monodromy.Size,
			Steps: c.Monodromy.Steps,
			Band:  c.Monodromy.Band,
		},
		Fallback: sheaf.Fallback{
			SpectralGap:         c.Fallback.SpectralGap,
			EffectiveResistance: c.Fallback.EffectiveResistance,
		},
		Solver: solver,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level=%q", ErrInvalid, s)
	}

	return l, nil
}

// Logger builds the configured slog handler writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}
