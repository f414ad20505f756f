package calc

import (
	"fmt"
	"math"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

// saturation is one coexistence point of a pure component.
type saturation struct {
	P, rhol, rhov float64
}

// coexisting returns the vapor and liquid roots at P, or ok=false when P
// does not have two distinct stable roots.
func coexisting(m eos.Model, P, T float64, x []float64) (rhov, rhol float64, ok bool) {
	roots, err := stableRoots(m, P, T, x)
	if err != nil || len(roots) < 2 {
		return 0, 0, false
	}
	rhov, rhol = roots[0], roots[len(roots)-1]
	return rhov, rhol, rhol > rhov*(1+1e-6)
}

// fugacityGap returns ln φ_liquid - ln φ_vapor for a pure fluid at P.
func fugacityGap(m eos.Model, P, T float64, x []float64) (float64, bool) {
	rhov, rhol, ok := coexisting(m, P, T, x)
	if !ok {
		return 0, false
	}
	lv, _, err := lnPhi(m, rhov, T, x)
	if err != nil {
		return 0, false
	}
	ll, _, err := lnPhi(m, rhol, T, x)
	if err != nil {
		return 0, false
	}
	gap := 0.0
	for i := range x {
		gap += x[i] * (ll[i] - lv[i])
	}
	return gap, true
}

// saturate solves φ_liquid = φ_vapor for the pure fluid x at T by
// bisection in ln P between the spinodal pressures.
func saturate(m eos.Model, T float64, x []float64) (saturation, error) {
	pMax, pMin, err := spinodals(m, T, x)
	if err != nil {
		return saturation{}, err
	}
	lo := pMax * 1e-12
	if pMin > lo {
		lo = pMin
	}
	hi := pMax

	// Pull the bracket inside the two-root region.
	var fLo, fHi float64
	var okLo, okHi bool
	for i := 0; i < 40 && !(okLo && okHi); i++ {
		if !okLo {
			if fLo, okLo = fugacityGap(m, lo, T, x); !okLo {
				lo = lo * (1 + 1e-3*math.Pow(2, float64(i)))
			}
		}
		if !okHi {
			if fHi, okHi = fugacityGap(m, hi, T, x); !okHi {
				hi = hi * (1 - 1e-3*math.Pow(2, float64(i)))
			}
		}
	}
	if !okLo || !okHi {
		return saturation{}, fmt.Errorf("%w: cannot bracket saturation pressure at T=%v", ErrNotConverged, T)
	}
	if fLo < 0 || fHi > 0 {
		return saturation{}, fmt.Errorf("%w: fugacity difference does not change sign at T=%v", ErrNotConverged, T)
	}

	a, b := math.Log(lo), math.Log(hi)
	for i := 0; i < bisectIters && b-a > 1e-12; i++ {
		mid := 0.5 * (a + b)
		f, ok := fugacityGap(m, math.Exp(mid), T, x)
		if !ok {
			// Only reachable through grid resolution near a spinodal; step
			// toward the interior.
			b = mid
			continue
		}
		if f > 0 {
			a = mid
		} else {
			b = mid
		}
	}

	P := math.Exp(0.5 * (a + b))
	rhov, rhol, ok := coexisting(m, P, T, x)
	if !ok {
		return saturation{}, fmt.Errorf("%w: T=%v", ErrTrivialSolution, T)
	}
	return saturation{P: P, rhol: rhol, rhov: rhov}, nil
}

// pureComposition picks the component a pure-fluid routine works on.
func pureComposition(m eos.Model, params thermo.Params) ([]float64, int, error) {
	n := m.NumComponents()
	if !params.Has("component") {
		if n != 1 {
			return nil, 0, &thermo.MissingParameterError{Key: "component"}
		}
		return []float64{1}, 0, nil
	}
	if name, err := params.String("component"); err == nil {
		for i, c := range m.ComponentNames() {
			if c == name {
				return unitVector(n, i), i, nil
			}
		}
		return nil, 0, fmt.Errorf("%w: unknown component %q", ErrBadInput, name)
	}
	f, err := params.Float("component")
	if err != nil {
		return nil, 0, err
	}
	i := int(f)
	if float64(i) != f || i < 0 || i >= n {
		return nil, 0, fmt.Errorf("%w: component index %v out of range [0, %d)", ErrBadInput, f, n)
	}
	return unitVector(n, i), i, nil
}

func saturationProperties(m eos.Model, params thermo.Params) (thermo.Result, error) {
	Tlist, err := params.Floats("Tlist")
	if err != nil {
		return nil, err
	}
	x, idx, err := pureComposition(m, params)
	if err != nil {
		return nil, err
	}

	Psat := make([]float64, len(Tlist))
	rhol := make([]float64, len(Tlist))
	rhov := make([]float64, len(Tlist))
	for i, T := range Tlist {
		sat, err := saturate(m, T, x)
		if err != nil {
			return nil, fmt.Errorf("T=%v: %w", T, err)
		}
		Psat[i], rhol[i], rhov[i] = sat.P, sat.rhol, sat.rhov
	}

	return thermo.Result{
		"component": m.ComponentNames()[idx],
		"T":         Tlist,
		"Psat":      Psat,
		"rhol":      rhol,
		"rhov":      rhov,
	}, nil
}
