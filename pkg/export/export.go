// Package export renders the currently loaded table client-side as a PDF or
// an Excel workbook: a title, a metadata block (total count, search term,
// role, generation date), a styled header row and the body rows. Both
// formats share one column description so screens configure the export once.
package export

import (
	"fmt"
	"time"
)

// Column maps a table column to row data. Formatter, when set, renders the
// raw value; otherwise fmt.Sprint does.
type Column struct {
	Header    string
	Key       string
	Formatter func(v any) string
}

// Row is one exported record keyed by column Key.
type Row = map[string]any

// Meta is the block printed between the title and the header row.
type Meta struct {
	Title       string
	TotalCount  int
	SearchTerm  string
	Role        string
	GeneratedAt time.Time
}

// Options configures one export. ShowSerialNumber prepends a 1-based index
// column.
type Options struct {
	Columns          []Column
	Meta             Meta
	ShowSerialNumber bool
}

func cellText(c Column, r Row) string {
	v, ok := r[c.Key]
	if !ok || v == nil {
		return ""
	}
	if c.Formatter != nil {
		return c.Formatter(v)
	}
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		// JSON numbers decode as floats; whole values print without the
		// trailing .0 the default formatting would add.
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// headers returns the effective header row, serial column included.
func (o *Options) headers() []string {
	var out []string
	if o.ShowSerialNumber {
		out = append(out, "Sr. No.")
	}
	for _, c := range o.Columns {
		out = append(out, c.Header)
	}
	return out
}

// cells returns the rendered cell values for one row.
func (o *Options) cells(idx int, r Row) []string {
	var out []string
	if o.ShowSerialNumber {
		out = append(out, fmt.Sprintf("%d", idx+1))
	}
	for _, c := range o.Columns {
		out = append(out, cellText(c, r))
	}
	return out
}

// metaLines renders the metadata block in display order; empty search terms
// are omitted.
func (o *Options) metaLines() []string {
	m := o.Meta
	lines := []string{fmt.Sprintf("Total Records: %d", m.TotalCount)}
	if m.SearchTerm != "" {
		lines = append(lines, fmt.Sprintf("Search: %s", m.SearchTerm))
	}
	if m.Role != "" {
		lines = append(lines, fmt.Sprintf("Role: %s", m.Role))
	}
	at := m.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	lines = append(lines, fmt.Sprintf("Generated: %s", at.Format("02 Jan 2006 15:04")))
	return lines
}
