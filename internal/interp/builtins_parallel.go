package interp

import (
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// workerLimit bounds pmap/pcalls concurrency (spec §5: "bounded worker
// pool; default pool size configurable, workers share the evaluation's
// resource limits"), grounded on Tangerg-lynx/flow's Batch.runConcurrent
// use of errgroup.Group.SetLimit.
func workerLimit(ec *EvalContext) int {
	if ec.PoolSize > 0 {
		return ec.PoolSize
	}
	return 8
}

func init() {
	register("pmap", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, errors.New(errors.KindInvalidArity, "pmap: expects a function and at least one collection")
		}
		items, err := asSeq("pmap", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(items))
		g := &errgroup.Group{}
		g.SetLimit(workerLimit(ec))
		for i, it := range items {
			i, it := i, it
			g.Go(func() error {
				worker := ec.childContext()
				v, err := Apply(worker, args[0], []value.Value{it})
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return value.Vector{Items: out}, nil
	})

	register("pcalls", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		out := make([]value.Value, len(args))
		g := &errgroup.Group{}
		g.SetLimit(workerLimit(ec))
		for i, fn := range args {
			i, fn := i, fn
			g.Go(func() error {
				worker := ec.childContext()
				v, err := Apply(worker, fn, nil)
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return value.Vector{Items: out}, nil
	})
}
