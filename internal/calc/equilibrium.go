package calc

import (
	"fmt"
	"math"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

// flash holds a converged two-phase point.
type flash struct {
	P          float64
	xi, yi     []float64
	rhol, rhov float64
}

// pureSaturation returns the saturation pressure of every component
// present in z at T.
func pureSaturation(m eos.Model, T float64, z []float64) ([]float64, error) {
	n := m.NumComponents()
	psat := make([]float64, n)
	for i := 0; i < n; i++ {
		if z[i] == 0 {
			continue
		}
		sat, err := saturate(m, T, unitVector(n, i))
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		psat[i] = sat.P
	}
	return psat, nil
}

// kValues returns Kᵢ = φᵢˡ/φᵢᵛ for the given phase densities.
func kValues(m eos.Model, T, rhol float64, x []float64, rhov float64, y []float64) ([]float64, error) {
	ll, _, err := lnPhi(m, rhol, T, x)
	if err != nil {
		return nil, err
	}
	lv, _, err := lnPhi(m, rhov, T, y)
	if err != nil {
		return nil, err
	}
	K := make([]float64, len(ll))
	for i := range K {
		K[i] = math.Exp(ll[i] - lv[i])
	}
	return K, nil
}

func normalized(v []float64) ([]float64, float64) {
	sum := 0.0
	for _, e := range v {
		sum += e
	}
	out := make([]float64, len(v))
	for i, e := range v {
		out[i] = e / sum
	}
	return out, sum
}

func maxDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

// bubblePoint solves Σ xᵢKᵢ = 1 for P by successive substitution, seeded
// with Raoult's law from the pure saturation pressures.
func bubblePoint(m eos.Model, T float64, x []float64) (flash, error) {
	psat, err := pureSaturation(m, T, x)
	if err != nil {
		return flash{}, err
	}
	P := 0.0
	y := make([]float64, len(x))
	for i := range x {
		y[i] = x[i] * psat[i]
		P += y[i]
	}
	y, _ = normalized(y)

	for outer := 0; outer < maxOuterIters; outer++ {
		rhol, err := liquidRoot(m, P, T, x)
		if err != nil {
			return flash{}, err
		}
		var rhov, sum float64
		for inner := 0; inner < maxInnerIters; inner++ {
			if rhov, err = vaporRoot(m, P, T, y); err != nil {
				return flash{}, err
			}
			K, err := kValues(m, T, rhol, x, rhov, y)
			if err != nil {
				return flash{}, err
			}
			next := make([]float64, len(x))
			for i := range x {
				next[i] = x[i] * K[i]
			}
			var yNew []float64
			yNew, sum = normalized(next)
			done := maxDiff(yNew, y) < convergedTol
			y = yNew
			if done {
				break
			}
		}
		if math.Abs(rhol-rhov) <= 1e-6*rhol {
			return flash{}, fmt.Errorf("%w: bubble point at T=%v", ErrTrivialSolution, T)
		}
		if math.Abs(sum-1) < convergedTol {
			return flash{P: P, xi: x, yi: y, rhol: rhol, rhov: rhov}, nil
		}
		P *= sum
	}
	return flash{}, fmt.Errorf("%w: bubble point at T=%v", ErrNotConverged, T)
}

// dewPoint solves Σ yᵢ/Kᵢ = 1 for P, mirroring bubblePoint.
func dewPoint(m eos.Model, T float64, y []float64) (flash, error) {
	psat, err := pureSaturation(m, T, y)
	if err != nil {
		return flash{}, err
	}
	inv := 0.0
	x := make([]float64, len(y))
	for i := range y {
		if y[i] > 0 {
			x[i] = y[i] / psat[i]
			inv += x[i]
		}
	}
	P := 1 / inv
	x, _ = normalized(x)

	for outer := 0; outer < maxOuterIters; outer++ {
		rhov, err := vaporRoot(m, P, T, y)
		if err != nil {
			return flash{}, err
		}
		var rhol, sum float64
		for inner := 0; inner < maxInnerIters; inner++ {
			if rhol, err = liquidRoot(m, P, T, x); err != nil {
				return flash{}, err
			}
			K, err := kValues(m, T, rhol, x, rhov, y)
			if err != nil {
				return flash{}, err
			}
			next := make([]float64, len(y))
			for i := range y {
				next[i] = y[i] / K[i]
			}
			var xNew []float64
			xNew, sum = normalized(next)
			done := maxDiff(xNew, x) < convergedTol
			x = xNew
			if done {
				break
			}
		}
		if math.Abs(rhol-rhov) <= 1e-6*rhol {
			return flash{}, fmt.Errorf("%w: dew point at T=%v", ErrTrivialSolution, T)
		}
		if math.Abs(sum-1) < convergedTol {
			return flash{P: P, xi: x, yi: y, rhol: rhol, rhov: rhov}, nil
		}
		P /= sum
	}
	return flash{}, fmt.Errorf("%w: dew point at T=%v", ErrNotConverged, T)
}

func saturationPoint(solve func(eos.Model, float64, []float64) (flash, error), compKey string) thermo.Routine {
	return func(m eos.Model, params thermo.Params) (thermo.Result, error) {
		sp, err := readStatePoints(m, params, compKey, false)
		if err != nil {
			return nil, err
		}
		P := make([]float64, sp.Len())
		xi := make([][]float64, sp.Len())
		yi := make([][]float64, sp.Len())
		rhol := make([]float64, sp.Len())
		rhov := make([]float64, sp.Len())
		for k := range sp.T {
			f, err := solve(m, sp.T[k], sp.X[k])
			if err != nil {
				return nil, fmt.Errorf("T=%v: %w", sp.T[k], err)
			}
			P[k], xi[k], yi[k], rhol[k], rhov[k] = f.P, f.xi, f.yi, f.rhol, f.rhov
		}
		return thermo.Result{
			"T":    sp.T,
			"P":    P,
			"xi":   xi,
			"yi":   yi,
			"rhol": rhol,
			"rhov": rhov,
		}, nil
	}
}
