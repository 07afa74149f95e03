// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/rulial/atlas"
	"github.com/katalvlaran/rulial/config"
	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/sheaf"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	def := sheaf.DefaultConfig()

	root := &cobra.Command{
		Use:   "rulial",
		Short: "Classify 2D cellular automaton rules by their sheaf structure",
		Long: "rulial simulates B/S cellular automata on a torus and classifies each rule\n" +
			"from the cohomology, spectral gap, Hodge decomposition and monodromy of its\n" +
			"final grid. Results can be stored in a SQLite rule atlas.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.load(cmd) },
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .rulial.yaml or .rulial.toml)")
	pf.Int("grid-size", def.GridSize, "side of the simulated torus")
	pf.Int("steps", def.Steps, "generations simulated before analysis")
	pf.Float64("density", def.Density, "initial live-cell density")
	pf.Int64("seed", def.Seed, "seed of the initial grid")
	pf.String("atlas", "atlas.db", "rule atlas database path")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	bindFlags(a.v, pf, map[string]string{
		"grid_size":  "grid-size",
		"steps":      "steps",
		"density":    "density",
		"seed":       "seed",
		"atlas.path": "atlas",
		"log.level":  "log-level",
		"log.format": "log-format",
	})

	root.AddCommand(
		newAnalyzeCmd(a),
		newScanCmd(a),
		newSimulateCmd(a),
		newAtlasCmd(a),
	)

	return root
}

// load reads the config file, environment and flags into a.cfg.
func (a *app) load(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName(".rulial")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	config.BindEnv(a.v)

	// A missing default config file is fine; we use defaults.
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("config loaded", "file", used)
	}

	return nil
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	an, err := sheaf.NewAnalyzer(a.cfg.Sheaf(), sheaf.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	return pipeline.New(an, pipeline.WithLogger(a.log))
}

func (a *app) openAtlas(cmd *cobra.Command) (*atlas.Store, error) {
	st, err := atlas.Open(cmd.Context(), a.cfg.Atlas.Path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("atlas opened", "path", a.cfg.Atlas.Path)

	return st, nil
}
