package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func init() {
	register("memory/put", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "memory/put: expects exactly 2 arguments")
		}
		ec.PutMemory(args[0], args[1])
		return args[1], nil
	})

	register("memory/get", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "memory/get: expects 1 or 2 arguments")
		}
		if v, found := FlexGet(ec.EffectiveMemory(), args[0]); found {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return value.NilValue, nil
	})
}
