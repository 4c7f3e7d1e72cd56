package extension

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/nicad/duckdb-file-tools/pkg/models"
)

// ScalarFunc computes one output value from one row of arguments.
// Returning (nil, nil) produces NULL.
type ScalarFunc func(ctx context.Context, args []any) (any, error)

// ScalarFunction produces one value per input row
type ScalarFunction struct {
	Name        string
	Description string
	Args        []Column
	Optional    []Param // trailing positional arguments that may be omitted
	Returns     Column

	// NullArgs passes NULL arguments through to fn instead of producing
	// NULL without calling it
	NullArgs bool

	fn ScalarFunc
}

// Signature renders the function the way a host catalog lists it
func (f *ScalarFunction) Signature() string {
	params := make([]string, 0, len(f.Args)+len(f.Optional))
	for _, a := range f.Args {
		params = append(params, a.Name+" "+a.TypeString())
	}
	for _, o := range f.Optional {
		params = append(params, fmt.Sprintf("[%s %s = %v]", o.Name, o.TypeString(), formatDefault(o.Default)))
	}
	return fmt.Sprintf("%s(%s) -> %s", f.Name, strings.Join(params, ", "), f.Returns.TypeString())
}

// Invoke evaluates the function over every row of input. Any row error
// aborts the whole chunk.
func (f *ScalarFunction) Invoke(ctx context.Context, input *Chunk) ([]any, error) {
	nargs := len(input.Data)
	if nargs < len(f.Args) || nargs > len(f.Args)+len(f.Optional) {
		return nil, fmt.Errorf("%w: %s expects %d to %d arguments, got %d",
			ErrArgument, f.Name, len(f.Args), len(f.Args)+len(f.Optional), nargs)
	}

	out := make([]any, input.Len())
	args := make([]any, len(f.Args)+len(f.Optional))
	for i := 0; i < input.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		null := false
		for a := range args {
			if a < nargs {
				args[a] = input.Data[a][i]
			} else {
				args[a] = f.Optional[a-len(f.Args)].Default
			}
			if args[a] == nil && !f.NullArgs {
				null = true
			}
		}
		if null {
			continue
		}

		v, err := f.fn(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", f.Name, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// Call evaluates the function for a single row
func (f *ScalarFunction) Call(ctx context.Context, args ...any) (any, error) {
	columns := make([]Column, 0, len(args))
	for i := range args {
		if i < len(f.Args) {
			columns = append(columns, f.Args[i])
		} else if j := i - len(f.Args); j < len(f.Optional) {
			columns = append(columns, f.Optional[j].Column)
		} else {
			columns = append(columns, Column{Name: fmt.Sprintf("arg%d", i+1)})
		}
	}

	out, err := f.Invoke(ctx, ChunkOf(columns, args))
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// BindInput carries the positional and named arguments of a table call
// after defaults are applied
type BindInput struct {
	Args  []any
	Named map[string]any
}

// BindFunc runs the enumeration for one table call
type BindFunc func(ctx context.Context, in BindInput) (*models.CollectResult, error)

// TableFunction produces a sequence of rows, emitted in chunks
type TableFunction struct {
	Name        string
	Description string
	Args        []Column
	Named       []Param
	Columns     []Column

	bind      BindFunc
	withHash  bool
	batchSize int
}

// Signature renders the function the way a host catalog lists it
func (f *TableFunction) Signature() string {
	params := make([]string, 0, len(f.Args)+len(f.Named))
	for _, a := range f.Args {
		params = append(params, a.Name+" "+a.TypeString())
	}
	for _, n := range f.Named {
		params = append(params, fmt.Sprintf("%s := %s %v", n.Name, n.TypeString(), formatDefault(n.Default)))
	}
	cols := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		cols = append(cols, c.Name+" "+c.TypeString())
	}
	return fmt.Sprintf("%s(%s) -> TABLE(%s)", f.Name, strings.Join(params, ", "), strings.Join(cols, ", "))
}

// Bind validates the arguments, runs the enumeration and returns an
// emitter over the materialized rows
func (f *TableFunction) Bind(ctx context.Context, args []any, named map[string]any) (*Emitter, error) {
	if len(args) != len(f.Args) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArgument, f.Name, len(f.Args), len(args))
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%w: %s: %s must not be NULL", ErrArgument, f.Name, f.Args[i].Name)
		}
	}

	in := BindInput{Args: args, Named: make(map[string]any, len(f.Named))}
	for _, p := range f.Named {
		in.Named[p.Name] = p.Default
	}
	for name, v := range named {
		key := strings.ToLower(name)
		if _, ok := in.Named[key]; !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q", ErrArgument, f.Name, name)
		}
		if v != nil {
			in.Named[key] = v
		}
	}

	result, err := f.bind(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}

	rows := make([][]any, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, recordRow(rec, f.withHash))
	}
	return newEmitter(f.Columns, rows, f.batchSize, result), nil
}

// Emitter streams materialized rows in chunks. The cursor is claimed
// atomically so concurrent callers never receive the same row twice.
type Emitter struct {
	columns []Column
	rows    [][]any
	batch   int64
	cursor  atomic.Int64
	result  *models.CollectResult
}

func newEmitter(columns []Column, rows [][]any, batchSize int, result *models.CollectResult) *Emitter {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Emitter{
		columns: columns,
		rows:    rows,
		batch:   int64(batchSize),
		result:  result,
	}
}

// Next returns the next chunk of up to the batch size rows. An empty
// chunk means the sequence is exhausted.
func (e *Emitter) Next() *Chunk {
	total := int64(len(e.rows))
	end := e.cursor.Add(e.batch)
	start := end - e.batch
	if start >= total {
		return NewChunk(e.columns, 0)
	}
	if end > total {
		end = total
	}

	chunk := NewChunk(e.columns, int(end-start))
	for _, row := range e.rows[start:end] {
		chunk.Append(row...)
	}
	return chunk
}

// Total returns the number of materialized rows
func (e *Emitter) Total() int {
	return len(e.rows)
}

// Result returns the underlying collection result
func (e *Emitter) Result() *models.CollectResult {
	return e.result
}

// Drain reads every remaining chunk and returns the rows
func (e *Emitter) Drain() [][]any {
	var rows [][]any
	for {
		chunk := e.Next()
		if chunk.Len() == 0 {
			return rows
		}
		for i := 0; i < chunk.Len(); i++ {
			rows = append(rows, chunk.Row(i))
		}
	}
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + d + "'"
	case []string:
		quoted := make([]string, len(d))
		for i, s := range d {
			quoted[i] = "'" + s + "'"
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(d)
	}
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
