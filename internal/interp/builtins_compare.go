package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// comparisonOps is kept structural, type-distinguishing (spec §4.4:
// "= and not= compare any two values structurally"); the ordering
// operators require both sides to be numeric and arity is already
// enforced to exactly 2 at analyze time, so these only re-check types.
func init() {
	register("=", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "=: expects exactly 2 arguments, got %d", len(args))
		}
		return value.Bool_(value.Equal(args[0], args[1])), nil
	})
	register("not=", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "not=: expects exactly 2 arguments, got %d", len(args))
		}
		return value.Bool_(!value.Equal(args[0], args[1])), nil
	})

	register(">", numCompare(">", func(a, b float64) bool { return a > b }))
	register("<", numCompare("<", func(a, b float64) bool { return a < b }))
	register(">=", numCompare(">=", func(a, b float64) bool { return a >= b }))
	register("<=", numCompare("<=", func(a, b float64) bool { return a <= b }))

	register("zero?", numPredicate("zero?", func(f float64) bool { return f == 0 }))
	register("pos?", numPredicate("pos?", func(f float64) bool { return f > 0 }))
	register("neg?", numPredicate("neg?", func(f float64) bool { return f < 0 }))
	register("even?", intPredicate("even?", func(i int64) bool { return i%2 == 0 }))
	register("odd?", intPredicate("odd?", func(i int64) bool { return i%2 != 0 }))

	register("number?", typePredicate(func(v value.Value) bool { return value.IsNumber(v) }))
	register("string?", typePredicate(func(v value.Value) bool { _, ok := v.(value.Str); return ok }))
	register("keyword?", typePredicate(func(v value.Value) bool { _, ok := v.(value.Keyword); return ok }))
	register("vector?", typePredicate(func(v value.Value) bool { _, ok := v.(value.Vector); return ok }))
	register("map?", typePredicate(func(v value.Value) bool { _, ok := v.(*value.Map); return ok }))
	register("set?", typePredicate(func(v value.Value) bool { _, ok := v.(value.Set); return ok }))
	register("boolean?", typePredicate(func(v value.Value) bool { _, ok := v.(value.Bool); return ok }))
	register("nil?", typePredicate(func(v value.Value) bool { return isNilValue(v) }))
	register("coll?", typePredicate(func(v value.Value) bool {
		switch v.(type) {
		case value.Vector, *value.Map, value.Set:
			return true
		}
		return false
	}))
}

func numCompare(name string, cmp func(a, b float64) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments, got %d", name, len(args))
		}
		if err := numArgs(name, args); err != nil {
			return nil, err
		}
		a, _ := value.AsFloat(args[0])
		b, _ := value.AsFloat(args[1])
		return value.Bool_(cmp(a, b)), nil
	}
}

func numPredicate(name string, pred func(f float64) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1(name, args); err != nil {
			return nil, err
		}
		if err := numArgs(name, args); err != nil {
			return nil, err
		}
		f, _ := value.AsFloat(args[0])
		return value.Bool_(pred(f)), nil
	}
}

func intPredicate(name string, pred func(i int64) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1(name, args); err != nil {
			return nil, err
		}
		if err := numArgs(name, args); err != nil {
			return nil, err
		}
		return value.Bool_(pred(asInt(args[0]))), nil
	}
}

func typePredicate(pred func(v value.Value) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("predicate", args); err != nil {
			return nil, err
		}
		return value.Bool_(pred(args[0])), nil
	}
}
