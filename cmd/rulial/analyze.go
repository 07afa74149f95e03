// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		format string
		record bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <rule>...",
		Short: "Classify one or more rules",
		Example: "  rulial analyze B3/S23\n" +
			"  rulial analyze B36/S23 B3678/S34678 --format json",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]rule.Spec, len(args))
			for i, s := range args {
				spec, err := rule.Parse(s)
				if err != nil {
					return err
				}
				specs[i] = spec
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			reps := make([]pipeline.Report, 0, len(specs))
			for _, spec := range specs {
				rep, err := p.AnalyzeRule(cmd.Context(), spec)
				if err != nil {
					return err
				}
				reps = append(reps, rep)
			}

			if record {
				st, err := a.openAtlas(cmd)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.RecordAll(cmd.Context(), reps, ""); err != nil {
					return err
				}
			}

			return writeReports(cmd.OutOrStdout(), format, reps)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml or toml")
	cmd.Flags().BoolVar(&record, "record", false, "also store the reports in the atlas")

	return cmd
}
