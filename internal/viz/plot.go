package viz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/thermokit/internal/storage"
)

var ErrNothingToPlot = errors.New("viz: nothing to plot")

// axisColumns are the independent variables a result is plotted against,
// in order of preference.
var axisColumns = []string{"T", "rho", "P"}

const maxPlots = 6

// Axis returns the column a table is plotted against.
func Axis(t storage.Table) (storage.Column, bool) {
	for _, name := range axisColumns {
		if c, ok := t.Column(name); ok && !constant(c.Values) {
			return c, true
		}
	}
	if len(t.Columns) > 0 {
		return t.Columns[0], true
	}
	return storage.Column{}, false
}

func constant(v []float64) bool {
	if len(v) == 0 {
		return true
	}
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// Plot draws the named columns of t, or up to six of the dependent
// columns when names is empty. Single-row tables cannot be plotted.
func Plot(t storage.Table, names []string, width, height int) ([]string, error) {
	if t.Rows < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrNothingToPlot, t.Rows)
	}
	axis, _ := Axis(t)

	var cols []storage.Column
	if len(names) == 0 {
		for _, c := range t.Columns {
			if c.Name != axis.Name && !constant(c.Values) {
				cols = append(cols, c)
			}
		}
		if len(cols) > maxPlots {
			cols = cols[:maxPlots]
		}
	} else {
		for _, name := range names {
			c, ok := t.Column(name)
			if !ok {
				return nil, fmt.Errorf("viz: no column %q (have %v)", name, columnNames(t))
			}
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, ErrNothingToPlot
	}

	lo, hi := slices.Min(axis.Values), slices.Max(axis.Values)
	graphs := make([]string, len(cols))
	for i, c := range cols {
		caption := fmt.Sprintf("%s vs %s [%g, %g]", c.Name, axis.Name, lo, hi)
		graphs[i] = asciigraph.Plot(c.Values,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)
	}
	return graphs, nil
}

func columnNames(t storage.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
