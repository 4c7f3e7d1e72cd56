package extension

import (
	"context"

	"github.com/nicad/duckdb-file-tools/internal/collector"
	"github.com/nicad/duckdb-file-tools/pkg/models"
)

func recordColumns(withHash bool) []Column {
	cols := []Column{
		varchar("path"),
		ubigint("size"),
		timestamp("modified_time"),
		timestamp("accessed_time"),
		timestamp("created_time"),
		varchar("permissions"),
		ubigint("inode"),
		boolean("is_file"),
		boolean("is_dir"),
		boolean("is_symlink"),
	}
	if withHash {
		cols = append(cols, varchar("hash"))
	}
	return cols
}

func recordRow(rec *models.FileRecord, withHash bool) []any {
	row := []any{
		rec.Path,
		rec.Size,
		rec.ModifiedTime,
		rec.AccessedTime,
		rec.CreatedTime,
		rec.Permissions,
		rec.Inode,
		rec.IsFile,
		rec.IsDir,
		rec.IsSymlink,
	}
	if withHash {
		var hash any
		if rec.Hash != nil {
			hash = *rec.Hash
		}
		row = append(row, hash)
	}
	return row
}

func collectParams() []Param {
	return []Param{
		{Column: boolean("ignore_case"), Default: false},
		{Column: boolean("follow_symlinks"), Default: true},
		{Column: varcharList("exclude"), Default: []string{}},
	}
}

func (r *Registry) registerEnumeration() {
	r.mustTable(&TableFunction{
		Name:        "glob_stat",
		Description: "Metadata for every path matching a glob pattern, in enumeration order",
		Args:        []Column{varchar("pattern")},
		Named:       collectParams(),
		Columns:     recordColumns(false),
		bind:        r.collect(collector.StrategySequential),
	})
	r.mustTable(&TableFunction{
		Name:        "glob_stat_legacy",
		Description: "glob_stat with default options and no named parameters",
		Args:        []Column{varchar("pattern")},
		Columns:     recordColumns(false),
		bind:        r.collect(collector.StrategySequential),
	})
	r.mustTable(&TableFunction{
		Name:        "glob_stat_sha256_parallel",
		Description: "Metadata and SHA-256 for matching paths, expanded by glob and processed in parallel",
		Args:        []Column{varchar("pattern")},
		Named:       collectParams(),
		Columns:     recordColumns(true),
		bind:        r.collect(collector.StrategyParallel),
		withHash:    true,
	})
	r.mustTable(&TableFunction{
		Name:        "glob_stat_sha256_jwalk",
		Description: "Metadata and SHA-256 for matching paths, discovered by a parallel directory walk",
		Args:        []Column{varchar("pattern")},
		Named:       collectParams(),
		Columns:     recordColumns(true),
		bind:        r.collect(collector.StrategyWalk),
		withHash:    true,
	})
}

// collect binds a table call to one collection strategy
func (r *Registry) collect(strategy string) BindFunc {
	return func(ctx context.Context, in BindInput) (*models.CollectResult, error) {
		pattern, err := asString("pattern", in.Args[0])
		if err != nil {
			return nil, err
		}

		opts := collector.DefaultOptions()
		if v, ok := in.Named["ignore_case"]; ok {
			if opts.IgnoreCase, err = asBool("ignore_case", v); err != nil {
				return nil, err
			}
		}
		if v, ok := in.Named["follow_symlinks"]; ok {
			if opts.FollowSymlinks, err = asBool("follow_symlinks", v); err != nil {
				return nil, err
			}
		}
		if v, ok := in.Named["exclude"]; ok {
			if opts.Exclude, err = asStringList("exclude", v); err != nil {
				return nil, err
			}
		}

		s, err := collector.New(strategy, r.cfg, r.logger, r.metrics)
		if err != nil {
			return nil, err
		}
		return s.Collect(ctx, pattern, opts)
	}
}
