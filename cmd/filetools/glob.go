package main

import (
	"fmt"
	"sort"

	"github.com/nicad/duckdb-file-tools/internal/collector"
	"github.com/nicad/duckdb-file-tools/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// strategyTables maps a strategy name onto its table function
var strategyTables = map[string]string{
	collector.StrategySequential: "glob_stat",
	collector.StrategyParallel:   "glob_stat_sha256_parallel",
	collector.StrategyWalk:       "glob_stat_sha256_jwalk",
}

type globFlags struct {
	ignoreCase bool
	noFollow   bool
	exclude    []string
}

func (f *globFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "Match the pattern case-insensitively")
	cmd.Flags().BoolVar(&f.noFollow, "no-follow", false, "Do not follow symlinks; symlinks are left out")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "Exclude pattern (repeatable)")
}

func (f *globFlags) named() map[string]any {
	return map[string]any{
		"ignore_case":     f.ignoreCase,
		"follow_symlinks": !f.noFollow,
		"exclude":         f.exclude,
	}
}

func globCmd(a *app) *cobra.Command {
	var (
		flags    globFlags
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "glob <pattern>",
		Short: "List metadata for every path matching a glob pattern",
		Long: `Expands a glob pattern (*, ?, [...], {a,b} and **) and prints one row per match.
The parallel and walk strategies also compute SHA-256 for regular files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := strategyTables[strategy]
			if !ok {
				return fmt.Errorf("%w: %q", collector.ErrUnknownStrategy, strategy)
			}
			f, err := a.registry.Table(name)
			if err != nil {
				return err
			}

			e, err := f.Bind(cmd.Context(), []any{args[0]}, flags.named())
			if err != nil {
				return err
			}

			t := &report.Table{
				Title:   name,
				Columns: reportColumns(f.Columns),
				Rows:    e.Drain(),
				Summary: collectSummary(e.Result()),
			}
			if a.showMetrics {
				m, err := a.metricsSummary()
				if err != nil {
					return err
				}
				t.Summary = append(t.Summary, m...)
			}
			return a.emit(t)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&strategy, "strategy", "s", collector.StrategySequential, "Strategy: sequential, parallel, walk")

	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var flags globFlags

	cmd := &cobra.Command{
		Use:   "compare <pattern>",
		Short: "Run both parallel strategies and report where they disagree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := make(map[string]map[string][]any, 2)
			for _, strategy := range []string{collector.StrategyParallel, collector.StrategyWalk} {
				f, err := a.registry.Table(strategyTables[strategy])
				if err != nil {
					return err
				}
				e, err := f.Bind(cmd.Context(), []any{args[0]}, flags.named())
				if err != nil {
					return err
				}

				byPath := make(map[string][]any, e.Total())
				for _, row := range e.Drain() {
					byPath[row[0].(string)] = row
				}
				sets[strategy] = byPath

				a.logger.Debug("Strategy finished",
					zap.String("strategy", strategy),
					zap.Int("records", len(byPath)),
					zap.Duration("duration", e.Result().Duration))
			}

			glob, walk := sets[collector.StrategyParallel], sets[collector.StrategyWalk]
			t := &report.Table{
				Title:   "strategy comparison",
				Columns: []report.Column{{Name: "path"}, {Name: "difference"}},
			}

			var onlyGlob, onlyWalk, mismatched int
			for _, path := range unionPaths(glob, walk) {
				g, inGlob := glob[path]
				w, inWalk := walk[path]
				switch {
				case !inWalk:
					onlyGlob++
					t.Rows = append(t.Rows, []any{path, "only in parallel"})
				case !inGlob:
					onlyWalk++
					t.Rows = append(t.Rows, []any{path, "only in walk"})
				default:
					if field := firstDifference(g, w); field != "" {
						mismatched++
						t.Rows = append(t.Rows, []any{path, "differs in " + field})
					}
				}
			}

			t.Summary = []report.Field{
				{Key: "Parallel", Value: len(glob)},
				{Key: "Walk", Value: len(walk)},
				{Key: "Only parallel", Value: onlyGlob},
				{Key: "Only walk", Value: onlyWalk},
				{Key: "Mismatched", Value: mismatched},
			}
			return a.emit(t)
		},
	}

	flags.register(cmd)
	return cmd
}

func unionPaths(sets ...map[string][]any) []string {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for path := range set {
			seen[path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// compareColumns are the record fields checked by compare, by row index.
// Access time is left out since hashing itself updates it.
var compareColumns = []struct {
	index int
	name  string
}{
	{1, "size"},
	{2, "modified_time"},
	{4, "created_time"},
	{5, "permissions"},
	{6, "inode"},
	{7, "is_file"},
	{8, "is_dir"},
	{9, "is_symlink"},
	{10, "hash"},
}

func firstDifference(a, b []any) string {
	for _, c := range compareColumns {
		if c.index >= len(a) || c.index >= len(b) {
			continue
		}
		if a[c.index] != b[c.index] {
			return c.name
		}
	}
	return ""
}
