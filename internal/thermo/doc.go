// Package thermo dispatches thermodynamic calculations by name.
//
// A calculation request is a [Params] mapping that carries the routine
// name under [CalculationTypeKey] alongside the routine's own inputs:
//
//	params := thermo.Params{
//		"calculation_type": "saturation_properties",
//		"Tlist":            []float64{250, 300},
//	}
//	result, err := d.Run(model, params)
//
// The [Dispatcher] resolves the name in a [Registry], strips the
// dispatch key and hands the model and the remaining entries to the
// routine. Failures are reported as one of three error types:
//
//   - [MissingParameterError]: no calculation type given
//   - [RoutineNotFoundError]: the name is not registered
//   - [RoutineExecutionError]: the routine failed or panicked
//
// # Thread Safety
//
// A Dispatcher holds no per-call state and may be shared between
// goroutines. Whether two concurrent calls may share one model depends on
// the model, which the dispatcher never inspects.
package thermo
