package eos

import "errors"

var (
	// ErrUnknownModel indicates a model type with no registered constructor.
	ErrUnknownModel = errors.New("eos: unknown model type")

	// ErrComposition indicates a composition of the wrong length, with
	// negative entries, or summing to zero.
	ErrComposition = errors.New("eos: invalid composition")

	// ErrDensityBounds indicates a density outside (0, MaxDensity).
	ErrDensityBounds = errors.New("eos: density out of bounds")

	// ErrTemperature indicates a non-positive temperature.
	ErrTemperature = errors.New("eos: temperature must be positive")

	// ErrComponent indicates missing or non-physical component data.
	ErrComponent = errors.New("eos: invalid component data")
)
