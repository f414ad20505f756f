package thermo_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

var _ = Describe("Dispatcher", func() {
	var (
		registry *thermo.Registry
		d        *thermo.Dispatcher
		model    eos.Model
		gotModel eos.Model
		gotArgs  thermo.Params
		calls    int
	)

	BeforeEach(func() {
		var err error
		model, err = eos.NewIdealGas([]eos.Component{{Name: "argon"}})
		Expect(err).NotTo(HaveOccurred())

		gotModel, gotArgs, calls = nil, nil, 0
		registry = thermo.NewRegistry()
		registry.RegisterFunc("echo", func(m eos.Model, p thermo.Params) (thermo.Result, error) {
			calls++
			gotModel, gotArgs = m, p
			return thermo.Result{"echoed": len(p)}, nil
		})
		registry.RegisterFunc("broken", func(eos.Model, thermo.Params) (thermo.Result, error) {
			calls++
			return thermo.Result{"partial": true}, errors.New("density solver diverged")
		})
		registry.RegisterFunc("panics", func(eos.Model, thermo.Params) (thermo.Result, error) {
			panic("index out of range")
		})
		d = thermo.NewDispatcher(registry)
	})

	Describe("missing calculation type", func() {
		DescribeTable("fails regardless of other contents",
			func(params thermo.Params) {
				res, err := d.Run(model, params)
				Expect(res).To(BeNil())

				var missing *thermo.MissingParameterError
				Expect(errors.As(err, &missing)).To(BeTrue())
				Expect(missing.Key).To(Equal(thermo.CalculationTypeKey))
				Expect(err).To(MatchError(thermo.ErrMissingParameter))
				Expect(err.Error()).To(ContainSubstring("no calculation type specified"))
				Expect(calls).To(BeZero())
			},
			Entry("nil params", thermo.Params(nil)),
			Entry("empty params", thermo.Params{}),
			Entry("other keys only", thermo.Params{"Tlist": []float64{300}, "echo": "echo"}),
			Entry("misspelled key", thermo.Params{"calculation-type": "echo"}),
		)
	})

	Describe("unknown calculation type", func() {
		It("names the request and every registered routine", func() {
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "flash"})

			var notFound *thermo.RoutineNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.Name).To(Equal("flash"))
			Expect(err).To(MatchError(thermo.ErrRoutineNotFound))
			for _, name := range []string{"echo", "broken", "panics"} {
				Expect(err.Error()).To(ContainSubstring(name))
			}
			Expect(err.Error()).To(ContainSubstring(`"flash"`))
		})

		It("reflects routines registered after the dispatcher was built", func() {
			registry.RegisterFunc("late_addition", func(eos.Model, thermo.Params) (thermo.Result, error) {
				return nil, nil
			})
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "nope"})
			Expect(err).To(MatchError(ContainSubstring("late_addition")))
		})

		It("matches names exactly", func() {
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "Echo"})
			Expect(err).To(MatchError(thermo.ErrRoutineNotFound))
			Expect(calls).To(BeZero())
		})

		It("rejects a non-string calculation type", func() {
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: 42})
			var notFound *thermo.RoutineNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.Name).To(Equal("42"))
		})
	})

	Describe("successful dispatch", func() {
		It("forwards the model and exactly the remaining keys", func() {
			params := thermo.Params{thermo.CalculationTypeKey: "echo", "a": 1, "b": 2}

			_, err := d.Run(model, params)
			Expect(err).NotTo(HaveOccurred())

			Expect(gotModel).To(BeIdenticalTo(model))
			Expect(gotArgs).To(Equal(thermo.Params{"a": 1, "b": 2}))
		})

		It("leaves the caller's params untouched", func() {
			params := thermo.Params{thermo.CalculationTypeKey: "echo", "a": 1}

			_, err := d.Run(model, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(params).To(Equal(thermo.Params{thermo.CalculationTypeKey: "echo", "a": 1}))

			gotArgs["a"] = 99
			Expect(params["a"]).To(Equal(1))
		})

		It("returns the routine's result unchanged", func() {
			want := thermo.Result{"T": []float64{300}, "P": []float64{101325}}
			registry.RegisterFunc("fixed", func(eos.Model, thermo.Params) (thermo.Result, error) {
				return want, nil
			})

			got, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "fixed"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(fmt.Sprintf("%p", got)).To(Equal(fmt.Sprintf("%p", want)))
		})

		It("dispatches to newly registered routines", func() {
			registry.RegisterFunc("Y", func(eos.Model, thermo.Params) (thermo.Result, error) {
				return thermo.Result{"ran": "Y"}, nil
			})
			got, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "Y", "k": "v"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveKeyWithValue("ran", "Y"))
		})
	})

	Describe("routine failure", func() {
		It("reports the calculation type and drops any partial result", func() {
			res, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "broken"})
			Expect(res).To(BeNil())

			var failed *thermo.RoutineExecutionError
			Expect(errors.As(err, &failed)).To(BeTrue())
			Expect(failed.Name).To(Equal("broken"))
			Expect(err.Error()).To(Equal(`thermo: calculation type "broken" failed`))
		})

		It("keeps the cause reachable without exposing it in the message", func() {
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "broken"})
			Expect(err.Error()).NotTo(ContainSubstring("diverged"))
			Expect(errors.Unwrap(err)).To(MatchError("density solver diverged"))
			Expect(err).To(MatchError(thermo.ErrRoutineFailed))
		})

		It("converts a panic into an execution error", func() {
			var res thermo.Result
			var err error
			Expect(func() {
				res, err = d.Run(model, thermo.Params{thermo.CalculationTypeKey: "panics"})
			}).NotTo(Panic())
			Expect(res).To(BeNil())
			Expect(err).To(MatchError(thermo.ErrRoutineFailed))
			Expect(errors.Unwrap(err).Error()).To(ContainSubstring("index out of range"))
		})

		It("wraps parameter errors raised inside the routine", func() {
			registry.RegisterFunc("needs_T", func(_ eos.Model, p thermo.Params) (thermo.Result, error) {
				if _, err := p.Float("T"); err != nil {
					return nil, err
				}
				return thermo.Result{}, nil
			})
			_, err := d.Run(model, thermo.Params{thermo.CalculationTypeKey: "needs_T"})
			Expect(err).To(MatchError(thermo.ErrRoutineFailed))

			var missing *thermo.MissingParameterError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Key).To(Equal("T"))
		})
	})
})
