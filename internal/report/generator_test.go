package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTable() *Table {
	return &Table{
		Title: "glob results",
		Columns: []Column{
			{Name: "path"},
			{Name: "size", Kind: KindSize},
			{Name: "modified_time", Kind: KindTime},
			{Name: "hash"},
		},
		Rows: [][]any{
			{"a.txt", uint64(2048), int64(0), "abc"},
			{"b|c.txt", uint64(1), int64(1_000_000), nil},
		},
		Summary: []Field{
			{Key: "Strategy", Value: "walk"},
			{Key: "Records", Value: 2},
		},
	}
}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1m30.00s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3.00s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  Kind
		want  string
	}{
		{"Null", nil, KindPlain, "NULL"},
		{"Size", uint64(1536), KindSize, "1.5 KiB"},
		{"Time", int64(1_000_001), KindTime, "1970-01-01 00:00:01.000001"},
		{"Blob", []byte{0xde, 0xad}, KindPlain, `\xdead`},
		{"List", []string{".tar", ".gz"}, KindPlain, "[.tar, .gz]"},
		{"Struct", map[string]any{"b": 2, "a": "x"}, KindPlain, "{a: x, b: 2}"},
		{"Bool", true, KindPlain, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.kind))
		})
	}

	long := FormatValue(bytes.Repeat([]byte{0x01}, 100), KindBlob)
	assert.True(t, strings.HasSuffix(long, "... (100 B)"), long)
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(config.Default(), nil, &buf)

	path, err := g.Generate(sampleTable(), "", "")
	require.NoError(t, err)
	assert.Empty(t, path)

	out := buf.String()
	assert.Contains(t, out, "GLOB RESULTS")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "1970-01-01 00:00:01.000000")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "Strategy:")

	lines := strings.Split(out, "\n")
	var header, first string
	for i, line := range lines {
		if strings.HasPrefix(line, "path") {
			header, first = line, lines[i+1]
			break
		}
	}
	require.NotEmpty(t, header)
	assert.Equal(t, strings.Index(header, "size"), strings.Index(first, "2.0 KiB"))
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(nil, nil, &buf)

	_, err := g.Generate(sampleTable(), "json", "")
	require.NoError(t, err)

	var doc struct {
		Title   string           `json:"title"`
		Rows    []map[string]any `json:"rows"`
		Summary map[string]any   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "glob results", doc.Title)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "a.txt", doc.Rows[0]["path"])
	assert.Equal(t, float64(2048), doc.Rows[0]["size"])
	assert.Nil(t, doc.Rows[1]["hash"])
	assert.Equal(t, "walk", doc.Summary["Strategy"])
}

func TestGenerate_YAML(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(nil, nil, &buf)

	_, err := g.Generate(sampleTable(), "yaml", "")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "b|c.txt", doc.Rows[1]["path"])
}

func TestGenerate_Markdown(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(nil, nil, &buf)

	_, err := g.Generate(sampleTable(), "md", "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# glob results")
	assert.Contains(t, out, "| path | size | modified_time | hash |")
	assert.Contains(t, out, `b\|c.txt`)
	assert.Contains(t, out, "| Strategy | walk |")
}

func TestGenerate_File(t *testing.T) {
	g := NewGenerator(nil, nil, &bytes.Buffer{})
	target := filepath.Join(t.TempDir(), "out.json")

	path, err := g.Generate(sampleTable(), "json", target)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestGenerate_UnknownFormat(t *testing.T) {
	g := NewGenerator(nil, nil, &bytes.Buffer{})
	_, err := g.Generate(sampleTable(), "xml", "")
	assert.Error(t, err)
}
