package extension

import (
	"fmt"
	"strings"
)

// LogicalType is the host-side type of a column or argument
type LogicalType int

const (
	TypeVarchar LogicalType = iota
	TypeBlob
	TypeBoolean
	TypeInteger
	TypeBigint
	TypeUBigint
	TypeTimestamp // int64 microseconds since the Unix epoch
	TypeList
	TypeStruct
)

var typeNames = map[LogicalType]string{
	TypeVarchar:   "VARCHAR",
	TypeBlob:      "BLOB",
	TypeBoolean:   "BOOLEAN",
	TypeInteger:   "INTEGER",
	TypeBigint:    "BIGINT",
	TypeUBigint:   "UBIGINT",
	TypeTimestamp: "TIMESTAMP",
	TypeList:      "LIST",
	TypeStruct:    "STRUCT",
}

func (t LogicalType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE(%d)", int(t))
}

// Column describes one argument, result field or output column.
// Lists carry their element type in Children[0]; structs carry one child
// per field.
type Column struct {
	Name     string
	Type     LogicalType
	Children []Column
}

// TypeString renders the column type the way a host catalog lists it
func (c Column) TypeString() string {
	switch c.Type {
	case TypeList:
		if len(c.Children) == 1 {
			return c.Children[0].TypeString() + "[]"
		}
		return "LIST"
	case TypeStruct:
		fields := make([]string, 0, len(c.Children))
		for _, child := range c.Children {
			fields = append(fields, child.Name+" "+child.TypeString())
		}
		return "STRUCT(" + strings.Join(fields, ", ") + ")"
	default:
		return c.Type.String()
	}
}

// Param is a named or optional argument with its default value
type Param struct {
	Column
	Default any
}

func varchar(name string) Column { return Column{Name: name, Type: TypeVarchar} }
func blob(name string) Column    { return Column{Name: name, Type: TypeBlob} }
func boolean(name string) Column { return Column{Name: name, Type: TypeBoolean} }
func bigint(name string) Column  { return Column{Name: name, Type: TypeBigint} }
func ubigint(name string) Column { return Column{Name: name, Type: TypeUBigint} }
func integer(name string) Column { return Column{Name: name, Type: TypeInteger} }

func timestamp(name string) Column { return Column{Name: name, Type: TypeTimestamp} }

func varcharList(name string) Column {
	return Column{Name: name, Type: TypeList, Children: []Column{varchar("")}}
}

// Chunk is a columnar block of rows. A nil value is NULL.
type Chunk struct {
	Columns []Column
	Data    [][]any
	size    int
}

// NewChunk creates an empty chunk with room for capacity rows
func NewChunk(columns []Column, capacity int) *Chunk {
	data := make([][]any, len(columns))
	for i := range data {
		data[i] = make([]any, 0, capacity)
	}
	return &Chunk{Columns: columns, Data: data}
}

// ChunkOf builds a chunk from row-major values
func ChunkOf(columns []Column, rows ...[]any) *Chunk {
	c := NewChunk(columns, len(rows))
	for _, row := range rows {
		c.Append(row...)
	}
	return c
}

// Len returns the number of rows
func (c *Chunk) Len() int {
	if c == nil {
		return 0
	}
	return c.size
}

// Append adds one row. Missing trailing values are NULL.
func (c *Chunk) Append(values ...any) {
	for i := range c.Data {
		var v any
		if i < len(values) {
			v = values[i]
		}
		c.Data[i] = append(c.Data[i], v)
	}
	c.size++
}

// Row returns row i in column order
func (c *Chunk) Row(i int) []any {
	row := make([]any, len(c.Data))
	for col := range c.Data {
		row[col] = c.Data[col][i]
	}
	return row
}

// Value returns the value at column col, row i
func (c *Chunk) Value(col, i int) any {
	return c.Data[col][i]
}
