package thermo

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/san-kum/thermokit/internal/eos"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dispatcher runs calculations looked up by name in a Registry.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over r. Routines registered on r
// after construction are visible to later calls.
func NewDispatcher(r *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher resolves names against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Run resolves params[CalculationTypeKey], invokes the routine with model
// and a copy of params without that key, and returns the routine's result
// unchanged. params itself is never modified.
func (d *Dispatcher) Run(model eos.Model, params Params) (Result, error) {
	raw, ok := params[CalculationTypeKey]
	if !ok {
		return nil, &MissingParameterError{Key: CalculationTypeKey}
	}

	forwarded := params.Without(CalculationTypeKey)

	name, isString := raw.(string)
	if !isString {
		name = fmt.Sprint(raw)
	}
	calc, found := d.registry.Lookup(name)
	if !isString || !found || calc.Run == nil {
		return nil, &RoutineNotFoundError{Name: name, Available: d.registry.Names()}
	}

	d.logger.Debug("calculation started",
		slog.String("calculation_type", name),
		slog.Int("params", len(forwarded)),
	)

	start := time.Now()
	result, err := invoke(calc.Run, model, forwarded)
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Error("calculation failed",
			slog.String("calculation_type", name),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, &RoutineExecutionError{Name: name, Wrapped: err}
	}

	d.logger.Info("calculation completed",
		slog.String("calculation_type", name),
		slog.Duration("elapsed", elapsed),
	)
	return result, nil
}

// invoke calls fn and converts a panic into an error.
func invoke(fn Routine, model eos.Model, params Params) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(model, params)
}
