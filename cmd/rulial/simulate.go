// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rulial/engine"
)

const (
	initRandom = "random"
	initSingle = "single"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		start string
		raw   bool
		final bool
	)
	cmd := &cobra.Command{
		Use:   "simulate <rule>",
		Short: "Run a rule and print its generations",
		Long: "simulate evolves a grid under the rule and prints every generation as\n" +
			"text, or only the last one with --final. With --raw each generation is\n" +
			"written as one byte per cell (0 or 1) in row-major order.",
		Example: "  rulial simulate B3/S23 --grid-size 16 --steps 4\n" +
			"  rulial simulate B1/S --init single --final",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.NewFromString(args[0])
			if err != nil {
				return err
			}

			opts := []engine.Option{engine.WithSeed(a.cfg.Seed)}
			switch strings.ToLower(start) {
			case initRandom:
				opts = append(opts, engine.WithRandom(a.cfg.Density))
			case initSingle:
				opts = append(opts, engine.WithSingleSeed())
			default:
				return fmt.Errorf("simulate: unknown --init %q (want %s or %s)", start, initRandom, initSingle)
			}

			size := a.cfg.GridSize
			gens, err := e.Simulate(size, size, a.cfg.Steps, opts...)
			if err != nil {
				return err
			}
			if final {
				gens = gens[len(gens)-1:]
			}

			out := cmd.OutOrStdout()
			for _, g := range gens {
				if raw {
					if _, err := out.Write(g.Bytes()); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "# %s population=%d density=%.3f\n", e.Rule(), g.Population(), g.Density())
				fmt.Fprint(out, g.String())
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&start, "init", initRandom, "initial grid: random or single")
	cmd.Flags().BoolVar(&raw, "raw", false, "write raw cell bytes instead of text")
	cmd.Flags().BoolVar(&final, "final", false, "print only the final generation")

	return cmd
}
