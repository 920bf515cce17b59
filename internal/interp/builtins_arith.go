package interp

import (
	"math"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// numArgs validates that every arg is numeric, returning a type_error
// naming the offending position otherwise (spec §4.4 arithmetic).
func numArgs(name string, args []value.Value) error {
	for i, a := range args {
		if !value.IsNumber(a) {
			return errors.New(errors.KindTypeError, "%s: argument %d is not a number (got %s)", name, i+1, a.Type())
		}
	}
	return nil
}

func anyFloat(args []value.Value) bool {
	for _, a := range args {
		if _, ok := a.(value.Float); ok {
			return true
		}
	}
	return false
}

func asInt(v value.Value) int64 {
	switch t := v.(type) {
	case value.Int:
		return t.Value
	case value.Float:
		return int64(t.Value)
	}
	return 0
}

func numBinaryFold(name string, args []value.Value, identity int64, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (value.Value, error) {
	if err := numArgs(name, args); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return value.Int{Value: identity}, nil
	}
	if anyFloat(args) {
		acc, _ := value.AsFloat(args[0])
		for _, a := range args[1:] {
			f, _ := value.AsFloat(a)
			acc = floatOp(acc, f)
		}
		return value.Float{Value: acc}, nil
	}
	acc := asInt(args[0])
	for _, a := range args[1:] {
		acc = intOp(acc, asInt(a))
	}
	return value.Int{Value: acc}, nil
}

func init() {
	register("+", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return numBinaryFold("+", args, 0,
			func(a, b int64) int64 { return a + b },
			func(a, b float64) float64 { return a + b })
	})

	register("*", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return numBinaryFold("*", args, 1,
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b })
	})

	register("-", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := numArgs("-", args); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, errors.New(errors.KindInvalidArity, "-: expects at least 1 argument")
		}
		if len(args) == 1 {
			if f, ok := args[0].(value.Float); ok {
				return value.Float{Value: -f.Value}, nil
			}
			return value.Int{Value: -asInt(args[0])}, nil
		}
		return numBinaryFold("-", args, 0,
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b })
	})

	register("/", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := numArgs("/", args); err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, errors.New(errors.KindInvalidArity, "/: expects at least 2 arguments")
		}
		if anyFloat(args) {
			acc, _ := value.AsFloat(args[0])
			for _, a := range args[1:] {
				f, _ := value.AsFloat(a)
				acc /= f
			}
			return value.Float{Value: acc}, nil
		}
		acc := asInt(args[0])
		for _, a := range args[1:] {
			d := asInt(a)
			if d == 0 {
				return nil, errors.New(errors.KindArithmeticError, "/: division by zero")
			}
			acc /= d
		}
		return value.Int{Value: acc}, nil
	})

	register("quot", intBinary("quot", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New(errors.KindArithmeticError, "quot: division by zero")
		}
		return a / b, nil
	}))
	register("rem", intBinary("rem", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New(errors.KindArithmeticError, "rem: division by zero")
		}
		return a % b, nil
	}))
	register("mod", intBinary("mod", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New(errors.KindArithmeticError, "mod: division by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	}))

	register("inc", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "inc: expects exactly 1 argument")
		}
		return numBinaryFold("inc", []value.Value{args[0], value.Int{Value: 1}}, 0,
			func(a, b int64) int64 { return a + b },
			func(a, b float64) float64 { return a + b })
	})
	register("dec", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "dec: expects exactly 1 argument")
		}
		return numBinaryFold("dec", []value.Value{args[0], value.Int{Value: 1}}, 0,
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b })
	})

	register("abs", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("abs", args); err != nil {
			return nil, err
		}
		if err := numArgs("abs", args); err != nil {
			return nil, err
		}
		if f, ok := args[0].(value.Float); ok {
			return value.Float{Value: math.Abs(f.Value)}, nil
		}
		n := asInt(args[0])
		if n < 0 {
			n = -n
		}
		return value.Int{Value: n}, nil
	})

	register("min", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return numVariadicPick("min", args, func(a, b float64) bool { return a < b })
	})
	register("max", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return numVariadicPick("max", args, func(a, b float64) bool { return a > b })
	})
}

func unary1(name string, args []value.Value) error {
	if len(args) != 1 {
		return errors.New(errors.KindInvalidArity, "%s: expects exactly 1 argument, got %d", name, len(args))
	}
	return nil
}

func intBinary(name string, op func(a, b int64) (int64, error)) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments, got %d", name, len(args))
		}
		if err := numArgs(name, args); err != nil {
			return nil, err
		}
		r, err := op(asInt(args[0]), asInt(args[1]))
		if err != nil {
			return nil, err
		}
		return value.Int{Value: r}, nil
	}
}

func numVariadicPick(name string, args []value.Value, prefer func(a, b float64) bool) (value.Value, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.KindInvalidArity, "%s: expects at least 1 argument", name)
	}
	if err := numArgs(name, args); err != nil {
		return nil, err
	}
	best := args[0]
	bestF, _ := value.AsFloat(best)
	for _, a := range args[1:] {
		f, _ := value.AsFloat(a)
		if prefer(f, bestF) {
			best, bestF = a, f
		}
	}
	return best, nil
}
