package calc

import (
	"fmt"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

// DefaultPressure is used when a routine takes an optional Plist.
const DefaultPressure = 101325.0

// statePoints is the (T, P, composition) grid shared by the phase routines.
type statePoints struct {
	T []float64
	P []float64
	X [][]float64
}

func (s statePoints) Len() int { return len(s.T) }

// readStatePoints reads Tlist, an optional Plist and a composition list
// under compKey, broadcasting single entries to the length of the longest.
// withPressure=false skips Plist entirely.
func readStatePoints(m eos.Model, params thermo.Params, compKey string, withPressure bool) (statePoints, error) {
	var sp statePoints
	T, err := params.Floats("Tlist")
	if err != nil {
		return sp, err
	}

	P := []float64{DefaultPressure}
	if withPressure && params.Has("Plist") {
		if P, err = params.Floats("Plist"); err != nil {
			return sp, err
		}
	}

	var X [][]float64
	if params.Has(compKey) {
		if X, err = params.Matrix(compKey); err != nil {
			return sp, err
		}
	} else if m.NumComponents() == 1 {
		X = [][]float64{{1}}
	} else {
		return sp, &thermo.MissingParameterError{Key: compKey}
	}

	n := max(len(T), len(X))
	if withPressure {
		n = max(n, len(P))
	}
	if sp.T, err = broadcast("Tlist", T, n); err != nil {
		return sp, err
	}
	if withPressure {
		if sp.P, err = broadcast("Plist", P, n); err != nil {
			return sp, err
		}
	}
	if sp.X, err = broadcast(compKey, X, n); err != nil {
		return sp, err
	}
	for i, x := range sp.X {
		if sp.X[i], err = eos.Normalize(x, m.NumComponents()); err != nil {
			return sp, fmt.Errorf("%s[%d]: %w", compKey, i, err)
		}
	}
	return sp, nil
}

func broadcast[T any](key string, vals []T, n int) ([]T, error) {
	switch len(vals) {
	case n:
		return vals, nil
	case 1:
		out := make([]T, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s has %d entries, want 1 or %d", ErrBadInput, key, len(vals), n)
}
