package thermo_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

func noop(eos.Model, thermo.Params) (thermo.Result, error) { return thermo.Result{}, nil }

func TestRegistryNamesSorted(t *testing.T) {
	r := thermo.NewRegistry()
	r.RegisterFunc("vapor_properties", noop)
	r.RegisterFunc("bubble_pressure", noop)
	r.RegisterFunc("liquid_properties", noop)

	got := r.Names()
	want := []string{"bubble_pressure", "liquid_properties", "vapor_properties"}
	if !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}

	calcs := r.Calculations()
	for i, c := range calcs {
		if c.Name != want[i] {
			t.Errorf("calculations[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

func TestRegistryOverwrite(t *testing.T) {
	r := thermo.NewRegistry()
	r.Register(thermo.Calculation{Name: "p", Description: "old", Run: noop})
	r.Register(thermo.Calculation{Name: "p", Description: "new", Run: noop})

	c, ok := r.Lookup("p")
	if !ok {
		t.Fatal("expected calculation to be registered")
	}
	if c.Description != "new" {
		t.Errorf("expected last registration to win, got %q", c.Description)
	}
	if len(r.Names()) != 1 {
		t.Errorf("expected one name, got %v", r.Names())
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := thermo.NewRegistry()
	if _, ok := r.Lookup("missing"); ok {
		t.Fatal("expected lookup to fail")
	}
}

func TestRunBatch(t *testing.T) {
	r := thermo.NewRegistry()
	var mu sync.Mutex
	seen := map[float64]bool{}
	r.RegisterFunc("square", func(_ eos.Model, p thermo.Params) (thermo.Result, error) {
		v, err := p.Float("v")
		if err != nil {
			return nil, err
		}
		mu.Lock()
		seen[v] = true
		mu.Unlock()
		return thermo.Result{"sq": v * v}, nil
	})
	d := thermo.NewDispatcher(r)

	requests := []thermo.Params{
		{"calculation_type": "square", "v": 2},
		{"calculation_type": "square"},
		{"calculation_type": "cube", "v": 3},
		{"calculation_type": "square", "v": 4},
	}

	results, err := d.RunBatch(context.Background(), nil, requests, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(requests) {
		t.Fatalf("expected %d results, got %d", len(requests), len(results))
	}

	if results[0].Err != nil || results[0].Result["sq"] != 4.0 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if !errors.Is(results[1].Err, thermo.ErrRoutineFailed) {
		t.Errorf("results[1] expected execution error, got %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, thermo.ErrRoutineNotFound) {
		t.Errorf("results[2] expected not found, got %v", results[2].Err)
	}
	if results[3].Err != nil || results[3].Result["sq"] != 16.0 {
		t.Errorf("results[3] = %+v", results[3])
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("results[%d].Index = %d", i, res.Index)
		}
	}
	if !seen[2] || !seen[4] {
		t.Errorf("expected both valid requests to run, saw %v", seen)
	}
}

func TestRunBatchCanceledAfterCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := thermo.NewRegistry()
	r.RegisterFunc("cancel", func(eos.Model, thermo.Params) (thermo.Result, error) {
		cancel()
		return thermo.Result{"ok": true}, nil
	})
	d := thermo.NewDispatcher(r)

	results, err := d.RunBatch(ctx, nil, []thermo.Params{{"calculation_type": "cancel"}}, 1)
	if err != nil {
		t.Fatalf("expected nil error once every request ran, got %v", err)
	}
	if results[0].Err != nil || results[0].Result["ok"] != true {
		t.Errorf("unexpected result %+v", results[0])
	}
}

func TestRunBatchCanceled(t *testing.T) {
	r := thermo.NewRegistry()
	r.RegisterFunc("noop", noop)
	d := thermo.NewDispatcher(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.RunBatch(ctx, nil, []thermo.Params{{"calculation_type": "noop"}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
