package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the machine-readable form of a Table
type Document struct {
	Title   string           `json:"title,omitempty" yaml:"title,omitempty"`
	Rows    []map[string]any `json:"rows" yaml:"rows"`
	Summary map[string]any   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// NewDocument converts t into keyed rows
func NewDocument(t *Table) *Document {
	doc := &Document{
		Title: t.Title,
		Rows:  make([]map[string]any, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				m[c.Name] = row[i]
			} else {
				m[c.Name] = nil
			}
		}
		doc.Rows = append(doc.Rows, m)
	}
	if len(t.Summary) > 0 {
		doc.Summary = make(map[string]any, len(t.Summary))
		for _, f := range t.Summary {
			doc.Summary[f.Key] = f.Value
		}
	}
	return doc
}

func renderJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(t))
}

func renderYAML(w io.Writer, t *Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(t)); err != nil {
		return err
	}
	return enc.Close()
}
