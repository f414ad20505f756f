// Package calc implements the calculation routines dispatched by package
// thermo. Each routine reads its inputs from a thermo.Params, evaluates an
// eos.Model, and returns a thermo.Result keyed the same way as the
// original input files (T, P, xi, yi, rhol, rhov, ...).
//
// [Register] adds every routine to a registry; [NewRegistry] returns a
// registry that already holds them.
package calc
