package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/nicad/duckdb-file-tools/internal/extension"
	"github.com/nicad/duckdb-file-tools/internal/report"
	"github.com/nicad/duckdb-file-tools/pkg/models"
)

// reportColumns maps host column types onto report rendering kinds
func reportColumns(cols []extension.Column) []report.Column {
	out := make([]report.Column, 0, len(cols))
	for _, c := range cols {
		kind := report.KindPlain
		switch {
		case c.Type == extension.TypeTimestamp:
			kind = report.KindTime
		case c.Type == extension.TypeBlob:
			kind = report.KindBlob
		case c.Name == "size":
			kind = report.KindSize
		}
		out = append(out, report.Column{Name: c.Name, Kind: kind})
	}
	return out
}

// pathRows evaluates a one-argument scalar over paths as a single chunk.
// Struct results are flattened into one column per field.
func (a *app) pathRows(ctx context.Context, name string, paths []string, extra ...any) (*report.Table, error) {
	f, err := a.registry.Scalar(name)
	if err != nil {
		return nil, err
	}

	columns := []extension.Column{f.Args[0]}
	for i := range extra {
		columns = append(columns, f.Optional[i].Column)
	}
	input := extension.NewChunk(columns, len(paths))
	for _, p := range paths {
		input.Append(append([]any{p}, extra...)...)
	}

	out, err := f.Invoke(ctx, input)
	if err != nil {
		return nil, err
	}

	resultCols := []extension.Column{f.Args[0]}
	if f.Returns.Type == extension.TypeStruct {
		resultCols = append(resultCols, f.Returns.Children...)
	} else {
		resultCols = append(resultCols, f.Returns)
	}

	t := &report.Table{Columns: reportColumns(resultCols)}
	for i, v := range out {
		row := []any{paths[i]}
		if f.Returns.Type == extension.TypeStruct {
			fields, _ := v.(map[string]any)
			for _, child := range f.Returns.Children {
				row = append(row, fields[child.Name])
			}
		} else {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// collectSummary describes one enumeration for the report footer
func collectSummary(res *models.CollectResult) []report.Field {
	if res == nil || res.Stats == nil {
		return nil
	}
	fields := []report.Field{
		{Key: "Strategy", Value: res.Strategy},
		{Key: "Pattern", Value: res.Pattern},
		{Key: "Records", Value: len(res.Records)},
		{Key: "Files", Value: res.Stats.Files},
		{Key: "Directories", Value: res.Stats.Dirs},
		{Key: "Symlinks", Value: res.Stats.Symlinks},
		{Key: "Skipped", Value: res.Stats.Skipped},
		{Key: "Duration", Value: report.FormatDuration(res.Duration)},
	}
	if res.Stats.WorkersUsed > 1 {
		fields = append(fields,
			report.Field{Key: "Workers", Value: res.Stats.WorkersUsed},
			report.Field{Key: "Hashed", Value: humanize.IBytes(res.Stats.HashedBytes)},
			report.Field{Key: "Hash failures", Value: res.Stats.HashFailures})
	}
	if res.Stats.Panics > 0 {
		fields = append(fields, report.Field{Key: "Panics", Value: res.Stats.Panics})
	}
	return fields
}

// metricsSummary flattens the gathered prometheus metrics into summary
// fields, one per series
func (a *app) metricsSummary() ([]report.Field, error) {
	if a.metrics == nil {
		return nil, nil
	}
	families, err := a.metrics.Gather()
	if err != nil {
		return nil, err
	}

	var fields []report.Field
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			sort.Strings(labels)

			key := mf.GetName()
			if len(labels) > 0 {
				key += fmt.Sprint(labels)
			}

			switch {
			case m.GetCounter() != nil:
				fields = append(fields, report.Field{Key: key, Value: m.GetCounter().GetValue()})
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fields = append(fields, report.Field{
					Key:   key,
					Value: fmt.Sprintf("count=%d sum=%.4fs", h.GetSampleCount(), h.GetSampleSum()),
				})
			}
		}
	}
	return fields, nil
}
