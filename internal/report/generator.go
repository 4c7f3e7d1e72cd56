package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nicad/duckdb-file-tools/internal/config"
	"go.uber.org/zap"
)

// Kind controls how a column's values are rendered for humans
type Kind int

const (
	KindPlain Kind = iota
	KindSize       // byte counts, humanized in text output
	KindTime       // microseconds since the Unix epoch
	KindBlob       // raw bytes, shown as a hex preview
)

// Column is one output column
type Column struct {
	Name string
	Kind Kind
}

// Field is one summary line
type Field struct {
	Key   string
	Value any
}

// Table is a result set ready to render
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]any
	Summary []Field
}

// blobPreview is the number of bytes shown before a blob is truncated
const blobPreview = 16

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator renders tables in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
	out    io.Writer
}

// NewGenerator creates a new report generator writing to out when no
// output file is given
func NewGenerator(cfg *config.Config, logger *zap.Logger, out io.Writer) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Generator{
		config: cfg,
		logger: logger,
		out:    out,
	}
}

// Generate renders t. An empty format uses the configured output format.
// With an output file the absolute path of the written file is returned.
func (g *Generator) Generate(t *Table, format, outputFile string) (string, error) {
	if format == "" {
		format = g.config.OutputFormat
	}

	var render func(io.Writer, *Table) error
	switch format {
	case "text", "txt":
		render = g.renderText
	case "json":
		render = renderJSON
	case "yaml", "yml":
		render = renderYAML
	case "md", "markdown":
		render = renderMarkdown
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}

	if outputFile == "" {
		return "", render(g.out, t)
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	f, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}
	if err := render(f, t); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// FormatValue renders one cell for human-oriented formats
func FormatValue(v any, kind Kind) string {
	if v == nil {
		return "NULL"
	}

	switch kind {
	case KindTime:
		if us, ok := v.(int64); ok {
			return time.UnixMicro(us).UTC().Format("2006-01-02 15:04:05.000000")
		}
	case KindSize:
		if n, ok := v.(uint64); ok {
			return humanize.IBytes(n)
		}
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return formatBlob(val)
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+FormatValue(val[k], KindPlain))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(val)
	}
}

func formatBlob(b []byte) string {
	if len(b) <= blobPreview {
		return `\x` + hex.EncodeToString(b)
	}
	return fmt.Sprintf(`\x%s... (%s)`, hex.EncodeToString(b[:blobPreview]), humanize.IBytes(uint64(len(b))))
}
