package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func init() {
	register("sum-by", aggBy("sum-by", func(acc *float64, allInt *bool, accInt *int64, f value.Value) {
		if fv, ok := f.(value.Int); ok {
			*accInt += fv.Value
			*acc += float64(fv.Value)
			return
		}
		*allInt = false
		fl, _ := value.AsFloat(f)
		*acc += fl
	}))

	register("avg-by", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "avg-by: expects exactly 2 arguments")
		}
		items, err := asSeq("avg-by", args[1])
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return value.NilValue, nil
		}
		var sum float64
		for _, it := range items {
			v, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			f, ok := value.AsFloat(v)
			if !ok {
				return nil, errors.New(errors.KindTypeError, "avg-by: keyed value is not a number")
			}
			sum += f
		}
		return value.Float{Value: sum / float64(len(items))}, nil
	})

	register("min-by", extremeBy("min-by", func(a, b float64) bool { return a < b }))
	register("max-by", extremeBy("max-by", func(a, b float64) bool { return a > b }))

	register("pluck", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "pluck: expects exactly 2 arguments")
		}
		kw, ok := args[0].(value.Keyword)
		if !ok {
			return nil, errors.New(errors.KindTypeError, "pluck: first argument must be a keyword")
		}
		items, err := asSeq("pluck", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(items))
		for i, it := range items {
			m, ok := it.(*value.Map)
			if !ok {
				out[i] = value.NilValue
				continue
			}
			v, found := FlexGet(m, kw)
			if !found {
				v = value.NilValue
			}
			out[i] = v
		}
		return value.Vector{Items: out}, nil
	})
}

func aggBy(name string, accumulate func(acc *float64, allInt *bool, accInt *int64, f value.Value)) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		items, err := asSeq(name, args[1])
		if err != nil {
			return nil, err
		}
		var acc float64
		var accInt int64
		allInt := true
		for _, it := range items {
			v, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			if !value.IsNumber(v) {
				return nil, errors.New(errors.KindTypeError, "%s: keyed value is not a number", name)
			}
			accumulate(&acc, &allInt, &accInt, v)
		}
		if allInt {
			return value.Int{Value: accInt}, nil
		}
		return value.Float{Value: acc}, nil
	}
}

func extremeBy(name string, prefer func(a, b float64) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		items, err := asSeq(name, args[1])
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return value.NilValue, nil
		}
		best := items[0]
		bestKey, err := Apply(ec, args[0], []value.Value{best})
		if err != nil {
			return nil, err
		}
		bestF, _ := value.AsFloat(bestKey)
		for _, it := range items[1:] {
			k, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			f, _ := value.AsFloat(k)
			if prefer(f, bestF) {
				best, bestF = it, f
			}
		}
		return best, nil
	}
}
