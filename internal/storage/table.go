package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/thermokit/internal/thermo"
)

// Column is one named series of a result table.
type Column struct {
	Name   string
	Values []float64
}

// Attr is a result entry that does not run along the table rows: a
// string, a scalar, or a list whose length differs from the row count.
type Attr struct {
	Name  string
	Value string
}

// Table is a result laid out as rows of state points.
type Table struct {
	Attrs   []Attr
	Columns []Column
	Rows    int
}

// NewTable flattens a result. Lists become columns, lists of lists one
// column per inner index, named after components when the widths agree.
// Keys are visited in sorted order with T first.
func NewTable(result thermo.Result, components []string) Table {
	p := thermo.Params(result)
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "T":
			return -1
		case b == "T":
			return 1
		}
		return strings.Compare(a, b)
	})

	var t Table
	series := map[string][]float64{}
	matrices := map[string][][]float64{}
	for _, k := range keys {
		switch v := result[k].(type) {
		case string:
			t.Attrs = append(t.Attrs, Attr{Name: k, Value: v})
			continue
		case float64, int:
			f, _ := p.Float(k)
			t.Attrs = append(t.Attrs, Attr{Name: k, Value: formatFloat(f)})
			continue
		}
		if isMatrix(result[k]) {
			if m, err := p.Matrix(k); err == nil {
				matrices[k] = m
				t.Rows = max(t.Rows, len(m))
				continue
			}
		}
		if s, err := p.Floats(k); err == nil {
			series[k] = s
			t.Rows = max(t.Rows, len(s))
			continue
		}
		t.Attrs = append(t.Attrs, Attr{Name: k, Value: fmt.Sprint(result[k])})
	}

	for _, k := range keys {
		if s, ok := series[k]; ok {
			if len(s) != t.Rows {
				t.Attrs = append(t.Attrs, Attr{Name: k, Value: formatList(s)})
				continue
			}
			t.Columns = append(t.Columns, Column{Name: k, Values: s})
		}
		if m, ok := matrices[k]; ok {
			if len(m) != t.Rows {
				t.Attrs = append(t.Attrs, Attr{Name: k, Value: fmt.Sprint(m)})
				continue
			}
			t.Columns = append(t.Columns, splitMatrix(k, m, components)...)
		}
	}
	return t
}

func isMatrix(v any) bool {
	switch m := v.(type) {
	case [][]float64:
		return true
	case []any:
		if len(m) == 0 {
			return false
		}
		switch m[0].(type) {
		case []any, []float64:
			return true
		}
	}
	return false
}

func splitMatrix(key string, m [][]float64, components []string) []Column {
	width := 0
	for _, row := range m {
		width = max(width, len(row))
	}
	cols := make([]Column, width)
	for j := range cols {
		name := fmt.Sprintf("%s[%d]", key, j)
		if len(components) == width {
			name = key + "_" + components[j]
		}
		vals := make([]float64, len(m))
		for i, row := range m {
			if j < len(row) {
				vals[i] = row[j]
			}
		}
		cols[j] = Column{Name: name, Values: vals}
	}
	return cols
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (t Table) header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

func (t Table) row(i int) []string {
	r := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		r[j] = formatFloat(c.Values[i])
	}
	return r
}

// WriteText writes a titled, column-aligned table.
func WriteText(w io.Writer, title string, t Table) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, a := range t.Attrs {
		if _, err := fmt.Fprintf(w, "%s: %s\n", a.Name, a.Value); err != nil {
			return err
		}
	}
	if len(t.Columns) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header(), "\t"))
	for i := 0; i < t.Rows; i++ {
		fmt.Fprintln(tw, strings.Join(t.row(i), "\t"))
	}
	return tw.Flush()
}

// WriteCSV writes the table columns as CSV. Attributes are not included.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header()); err != nil {
		return err
	}
	for i := 0; i < t.Rows; i++ {
		if err := cw.Write(t.row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 8, 64)
}

func formatList(s []float64) string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = formatFloat(f)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
