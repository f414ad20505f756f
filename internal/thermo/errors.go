package thermo

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	// ErrMissingParameter matches any MissingParameterError.
	ErrMissingParameter = errors.New("thermo: missing parameter")

	// ErrRoutineNotFound matches any RoutineNotFoundError.
	ErrRoutineNotFound = errors.New("thermo: calculation type not found")

	// ErrRoutineFailed matches any RoutineExecutionError.
	ErrRoutineFailed = errors.New("thermo: calculation failed")

	// ErrParameterType matches any ParameterTypeError.
	ErrParameterType = errors.New("thermo: parameter has wrong type")
)

// MissingParameterError reports a required key absent from a Params.
type MissingParameterError struct {
	Key string
}

func (e *MissingParameterError) Error() string {
	if e.Key == CalculationTypeKey {
		return "thermo: no calculation type specified"
	}
	return fmt.Sprintf("thermo: missing parameter %q", e.Key)
}

func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// RoutineNotFoundError reports a calculation type with no registered
// routine. Available lists the registered names at the time of the call.
type RoutineNotFoundError struct {
	Name      string
	Available []string
}

func (e *RoutineNotFoundError) Error() string {
	return fmt.Sprintf("thermo: calculation type %q was not found; supported calculation types: %s",
		e.Name, strings.Join(e.Available, ", "))
}

func (e *RoutineNotFoundError) Is(target error) bool {
	return target == ErrRoutineNotFound
}

// RoutineExecutionError reports a routine that returned an error or
// panicked. The message names only the calculation type; the cause is
// reachable through Unwrap.
type RoutineExecutionError struct {
	Name    string
	Wrapped error
}

func (e *RoutineExecutionError) Error() string {
	return fmt.Sprintf("thermo: calculation type %q failed", e.Name)
}

func (e *RoutineExecutionError) Unwrap() error {
	return e.Wrapped
}

func (e *RoutineExecutionError) Is(target error) bool {
	return target == ErrRoutineFailed
}

// ParameterTypeError reports a parameter whose value cannot be read as the
// requested shape.
type ParameterTypeError struct {
	Key  string
	Want string
	Got  any
}

func (e *ParameterTypeError) Error() string {
	return fmt.Sprintf("thermo: parameter %q: want %s, got %T", e.Key, e.Want, e.Got)
}

func (e *ParameterTypeError) Is(target error) bool {
	return target == ErrParameterType
}
