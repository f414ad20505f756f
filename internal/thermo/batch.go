package thermo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/thermokit/internal/eos"
)

// BatchResult pairs one request of a batch with its outcome.
type BatchResult struct {
	Index  int
	Params Params
	Result Result
	Err    error
}

// RunBatch dispatches every request against model with at most workers
// calculations in flight (workers < 1 means one). Results keep the order
// of requests. A failed calculation does not stop the others; its error
// is recorded in the matching BatchResult. The returned error is non-nil
// only when ctx is canceled before every request has run; entries for
// requests that never started have a nil Params.
//
// model must tolerate concurrent use when workers > 1. The bundled
// equation-of-state models are immutable after construction.
func (d *Dispatcher) RunBatch(ctx context.Context, model eos.Model, requests []Params, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	started := 0
	for i, req := range requests {
		if err := gctx.Err(); err != nil {
			break
		}
		started++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Params: req, Err: err}
				return err
			}
			res, err := d.Run(model, req)
			results[i] = BatchResult{Index: i, Params: req, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if started < len(requests) {
		return results, ctx.Err()
	}
	return results, nil
}
