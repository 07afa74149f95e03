// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/rulial/pipeline"
	"github.com/katalvlaran/rulial/rule"
	"github.com/katalvlaran/rulial/scan"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		rules       []string
		rescan      bool
		table       bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify a batch of rules into the atlas",
		Long: "scan classifies random rules (or the rules given with --rules) in parallel\n" +
			"and records every report in the atlas. Rules the atlas already holds are\n" +
			"skipped unless --rescan is set.",
		Example: "  rulial scan --count 500 --workers 8\n" +
			"  rulial scan --mode condensate --count 100\n" +
			"  rulial scan --rules B3/S23,B36/S23 --rescan",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sc := a.cfg.Scan
			mode, err := scan.ParseMode(sc.Mode)
			if err != nil {
				return err
			}
			cfg := scan.Config{
				Workers: sc.Workers,
				Count:   sc.Count,
				Mode:    mode,
				Seed:    sc.Seed,
				Timeout: sc.Timeout,
				Rescan:  rescan,
			}
			if len(rules) > 0 {
				cfg.Mode = scan.ModeList
				for _, s := range rules {
					spec, err := rule.Parse(s)
					if err != nil {
						return err
					}
					cfg.Rules = append(cfg.Rules, spec)
				}
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			st, err := a.openAtlas(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			if metricsAddr != "" {
				stop := serveMetrics(a, reg, metricsAddr)
				defer stop()
			}

			out := cmd.OutOrStdout()
			s, err := scan.New(p, cfg,
				scan.WithLogger(a.log),
				scan.WithStore(st),
				scan.WithMetrics(scan.NewMetrics(reg)),
				scan.WithProgress(func(done, total int, rep pipeline.Report) {
					a.log.Debug("rule done", "done", done, "total", total, "rule", rep.Rule.String())
				}),
			)
			if err != nil {
				return err
			}

			sum, runErr := s.Run(ctx)
			if table && len(sum.Reports) > 0 {
				writeTable(out, sum.Reports)
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Scan %s: %d analyzed, %d skipped, %d failed in %s\n",
				sum.RunID, sum.Analyzed, sum.Skipped, sum.Failed, sum.Duration.Round(time.Millisecond))
			if runErr != nil {
				return runErr
			}

			stats, err := st.Statistics(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			writeStats(out, stats)

			return nil
		},
	}

	f := cmd.Flags()
	f.Int("count", 200, "number of random rules to draw")
	f.Int("workers", 0, "parallel analyses (default: number of CPUs)")
	f.String("mode", string(scan.ModeRandom), "rule source: random or condensate")
	f.Int64("rule-seed", 0, "seed of the rule generator")
	f.Duration("timeout", 0, "per-rule analysis timeout (0 = none)")
	f.StringSliceVar(&rules, "rules", nil, "scan these rules instead of random ones")
	f.BoolVar(&rescan, "rescan", false, "re-analyze rules already in the atlas")
	f.BoolVar(&table, "table", false, "print one line per analyzed rule")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while scanning")
	bindFlags(a.v, f, map[string]string{
		"scan.count":   "count",
		"scan.workers": "workers",
		"scan.mode":    "mode",
		"scan.seed":    "rule-seed",
		"scan.timeout": "timeout",
	})

	return cmd
}

// serveMetrics exposes reg over HTTP until the returned stop is called.
func serveMetrics(a *app, reg *prometheus.Registry, addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
