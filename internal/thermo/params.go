package thermo

import (
	"fmt"
	"maps"
	"strconv"
)

// CalculationTypeKey names the routine to dispatch to.
const CalculationTypeKey = "calculation_type"

// Params is a calculation request. Values usually come from a decoded
// YAML or JSON document, so numbers may arrive as int, float64 or string
// and lists as []any; the getters below normalise them.
type Params map[string]any

// Result is the output of a calculation routine.
type Result map[string]any

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	return maps.Clone(p)
}

// Without returns a shallow copy with key omitted. p is left untouched.
func (p Params) Without(key string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a string parameter.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", &MissingParameterError{Key: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParameterTypeError{Key: key, Want: "string", Got: v}
	}
	return s, nil
}

// Float returns a scalar numeric parameter.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, &MissingParameterError{Key: key}
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &ParameterTypeError{Key: key, Want: "number", Got: v}
	}
	return f, nil
}

// FloatOr returns a scalar numeric parameter, or def when key is absent.
func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

// Floats returns a list parameter. A scalar is promoted to a one-element
// list.
func (p Params) Floats(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, &MissingParameterError{Key: key}
	}
	out, ok := toFloats(v)
	if !ok {
		return nil, &ParameterTypeError{Key: key, Want: "list of numbers", Got: v}
	}
	return out, nil
}

// Matrix returns a list-of-lists parameter. A flat list is promoted to a
// single row.
func (p Params) Matrix(key string) ([][]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, &MissingParameterError{Key: key}
	}
	switch m := v.(type) {
	case [][]float64:
		return m, nil
	case []any:
		if len(m) > 0 {
			if _, nested := m[0].([]any); nested {
				return rowsOf(key, m)
			}
			if _, nested := m[0].([]float64); nested {
				return rowsOf(key, m)
			}
		}
	}
	row, ok := toFloats(v)
	if !ok {
		return nil, &ParameterTypeError{Key: key, Want: "list of number lists", Got: v}
	}
	return [][]float64{row}, nil
}

func rowsOf(key string, m []any) ([][]float64, error) {
	out := make([][]float64, len(m))
	for i, r := range m {
		row, ok := toFloats(r)
		if !ok {
			return nil, &ParameterTypeError{Key: fmt.Sprintf("%s[%d]", key, i), Want: "list of numbers", Got: r}
		}
		out[i] = row
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toFloats(v any) ([]float64, bool) {
	switch l := v.(type) {
	case []float64:
		return l, true
	case []int:
		out := make([]float64, len(l))
		for i, n := range l {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(l))
		for i, e := range l {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	if f, ok := toFloat(v); ok {
		return []float64{f}, true
	}
	return nil, false
}
