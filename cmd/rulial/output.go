// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/katalvlaran/rulial/atlas"
	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/report"
	"github.com/katalvlaran/rulial/sheaf"
)

const formatText = "text"

// writeReports renders reps as text blocks or as report records.
func writeReports(w io.Writer, format string, reps []pipeline.Report) error {
	if strings.EqualFold(format, formatText) {
		for i, rep := range reps {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeReportText(w, rep)
		}
		return nil
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	recs := make([]report.Record, len(reps))
	for i, rep := range reps {
		recs[i] = report.FromReport(rep)
	}

	return report.Write(w, f, recs...)
}

func writeReportText(w io.Writer, rep pipeline.Report) {
	fmt.Fprintf(w, "Rule: %s\n", rep.Rule)
	io.WriteString(w, rep.Analysis.Summary())
	fmt.Fprintf(w, "  Wolfram class:        %d\n", rep.WolframClass)
	fmt.Fprintf(w, "  Phase:                %s\n", rep.Phase)
	fmt.Fprintf(w, "  Final density:        %.3f\n", rep.Density)
	fmt.Fprintf(w, "  Clusters:             %d\n", rep.Clusters)
	if len(rep.Fallbacks) > 0 {
		fmt.Fprintf(w, "  Fallbacks:            %s\n", strings.Join(rep.Fallbacks, ", "))
	}
}

// writeTable prints one line per report, suited to long lists.
func writeTable(w io.Writer, reps []pipeline.Report) {
	fmt.Fprintf(w, "%-22s %5s %-11s %-16s %7s %7s %7s\n",
		"RULE", "CLASS", "PHASE", "SHEAF", "MONO", "HARM", "GAP")
	for _, rep := range reps {
		fmt.Fprintf(w, "%-22s %5d %-11s %-16s %+7.3f %7.3f %7.4f\n",
			rep.Rule, rep.WolframClass, rep.Phase, rep.Analysis.SheafType,
			rep.Analysis.MonodromyIndex, rep.Analysis.HarmonicOverlap, rep.Analysis.SpectralGap)
	}
}

func writeStats(w io.Writer, st atlas.Stats) {
	fmt.Fprintf(w, "Rules:                %d\n", st.Total)
	fmt.Fprintf(w, "Condensates:          %d\n", st.Condensates)
	fmt.Fprintf(w, "Mean monodromy:       %+.3f\n", st.MeanMonodromy)
	fmt.Fprintf(w, "Mean harmonic:        %.3f\n", st.MeanHarmonic)

	classes := make([]int, 0, len(st.ByClass))
	for c := range st.ByClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	for _, c := range classes {
		fmt.Fprintf(w, "  Class %d:            %d\n", c, st.ByClass[c])
	}
	for _, t := range sheaf.SheafTypes() {
		if n := st.BySheafType[t]; n > 0 {
			fmt.Fprintf(w, "  %-19s %d\n", t.String()+":", n)
		}
	}
}
