// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rulial/atlas"
	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/report"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/sheaf"
)

func newAtlasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Query and maintain the rule atlas",
	}
	cmd.AddCommand(
		newAtlasListCmd(a),
		newAtlasStatsCmd(a),
		newAtlasShowCmd(a),
		newAtlasImportCmd(a),
	)

	return cmd
}

func newAtlasListCmd(a *app) *cobra.Command {
	var (
		f         atlas.Filter
		phase     string
		sheafType string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded rules, most recent first",
		Example: "  rulial atlas list --limit 20\n" +
			"  rulial atlas list --type resonant-frozen --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sheafType != "" {
				t, err := sheaf.ParseSheafType(sheafType)
				if err != nil {
					return err
				}
				f.SheafType = t.String()
			}
			f.Phase = pipeline.Phase(strings.ToLower(phase))

			st, err := a.openAtlas(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			reps := make([]pipeline.Report, len(entries))
			for i, e := range entries {
				reps[i] = e.Report
			}
			if strings.EqualFold(format, "table") {
				writeTable(cmd.OutOrStdout(), reps)
				return nil
			}

			return writeReports(cmd.OutOrStdout(), format, reps)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.Limit, "limit", 50, "maximum rows (0 = all)")
	fl.IntVar(&f.WolframClass, "class", 0, "only this Wolfram class (1-4)")
	fl.StringVar(&phase, "phase", "", "only this phase: particle, condensate or hybrid")
	fl.StringVar(&sheafType, "type", "", "only this sheaf type")
	fl.Float64Var(&f.MinHarmonic, "min-harmonic", 0, "lower bound on the harmonic overlap")
	fl.Float64Var(&f.MaxHarmonic, "max-harmonic", 0, "upper bound on the harmonic overlap (0 = none)")
	fl.StringVarP(&format, "format", "f", "table", "output format: table, text, json, yaml or toml")

	return cmd
}

func newAtlasStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the atlas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openAtlas(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), stats)

			return nil
		},
	}
}

func newAtlasShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <rule>",
		Short: "Print the stored report of one rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := rule.Parse(args[0])
			if err != nil {
				return err
			}
			st, err := a.openAtlas(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			e, err := st.Get(cmd.Context(), spec)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := writeReports(out, format, []pipeline.Report{e.Report}); err != nil {
				return err
			}
			if strings.EqualFold(format, formatText) {
				fmt.Fprintf(out, "  Recorded:             %s\n", e.RecordedAt.Format("2006-01-02 15:04:05"))
				if e.ScanID != "" {
					fmt.Fprintf(out, "  Scan:                 %s\n", e.ScanID)
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml or toml")

	return cmd
}

func newAtlasImportCmd(a *app) *cobra.Command {
	var (
		format string
		scanID string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load exported report records into the atlas",
		Long: "import reads records written by analyze --format or atlas list --format\n" +
			"and upserts them in one transaction. The format defaults to the file\n" +
			"extension.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			rf, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			fh, err := os.Open(path)
			if err != nil {
				return err
			}
			defer fh.Close()
			recs, err := report.Read(fh, rf)
			if err != nil {
				return err
			}
			reps := make([]pipeline.Report, len(recs))
			for i, rec := range recs {
				if reps[i], err = rec.Report(); err != nil {
					return fmt.Errorf("%s: record %d: %w", path, i, err)
				}
			}

			st, err := a.openAtlas(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.RecordAll(cmd.Context(), reps, scanID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules from %s\n", len(reps), path)

			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json, yaml or toml")
	cmd.Flags().StringVar(&scanID, "scan-id", "", "scan id stored with the imported rules")

	return cmd
}
