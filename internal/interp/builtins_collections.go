package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func asSeq(name string, v value.Value) ([]value.Value, error) {
	switch t := v.(type) {
	case value.Vector:
		return t.Items, nil
	case value.Set:
		return t.Values(), nil
	case *value.Map:
		return t.Entries(), nil
	case value.Nil:
		return nil, nil
	case value.Str:
		runes := []rune(t.Value)
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.Str{Value: string(r)}
		}
		return out, nil
	default:
		return nil, errors.New(errors.KindTypeError, "%s: expected a collection, got %s", name, v.Type())
	}
}

func init() {
	register("vec", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("vec", args); err != nil {
			return nil, err
		}
		items, err := asSeq("vec", args[0])
		if err != nil {
			return nil, err
		}
		return value.Vector{Items: append([]value.Value(nil), items...)}, nil
	})
	register("vector", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return value.Vector{Items: append([]value.Value(nil), args...)}, nil
	})
	register("list", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		return value.Vector{Items: append([]value.Value(nil), args...)}, nil
	})
	register("set", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("set", args); err != nil {
			return nil, err
		}
		items, err := asSeq("set", args[0])
		if err != nil {
			return nil, err
		}
		return value.NewSet(items...), nil
	})
	register("hash-map", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args)%2 != 0 {
			return nil, errors.New(errors.KindInvalidArity, "hash-map: expects an even number of arguments")
		}
		return value.NewMap(args...), nil
	})
	register("sorted-map", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args)%2 != 0 {
			return nil, errors.New(errors.KindInvalidArity, "sorted-map: expects an even number of arguments")
		}
		return value.NewMap(args...), nil
	})

	register("conj", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 1 {
			return nil, errors.New(errors.KindInvalidArity, "conj: expects at least 1 argument")
		}
		switch coll := args[0].(type) {
		case value.Vector:
			return value.Vector{Items: append(append([]value.Value(nil), coll.Items...), args[1:]...)}, nil
		case value.Set:
			var cur value.Value = coll
			for _, a := range args[1:] {
				cur = cur.(value.Set).Conj(a)
			}
			return cur, nil
		case value.Nil:
			return value.Vector{Items: append([]value.Value(nil), args[1:]...)}, nil
		default:
			return nil, errors.New(errors.KindTypeError, "conj: cannot conj onto a %s", coll.Type())
		}
	})
	register("cons", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "cons: expects exactly 2 arguments")
		}
		items, err := asSeq("cons", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, 0, len(items)+1)
		out = append(out, args[0])
		out = append(out, items...)
		return value.Vector{Items: out}, nil
	})
	register("concat", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		var out []value.Value
		for _, a := range args {
			items, err := asSeq("concat", a)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		}
		return value.Vector{Items: out}, nil
	})
	register("range", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		var start, end, step int64 = 0, 0, 1
		switch len(args) {
		case 1:
			if err := numArgs("range", args); err != nil {
				return nil, err
			}
			end = asInt(args[0])
		case 2:
			if err := numArgs("range", args); err != nil {
				return nil, err
			}
			start, end = asInt(args[0]), asInt(args[1])
		case 3:
			if err := numArgs("range", args); err != nil {
				return nil, err
			}
			start, end, step = asInt(args[0]), asInt(args[1]), asInt(args[2])
			if step == 0 {
				return nil, errors.New(errors.KindArithmeticError, "range: step must not be zero")
			}
		default:
			return nil, errors.New(errors.KindInvalidArity, "range: expects 1, 2 or 3 arguments, got %d", len(args))
		}
		var out []value.Value
		if step > 0 {
			for i := start; i < end; i += step {
				out = append(out, value.Int{Value: i})
			}
		} else {
			for i := start; i > end; i += step {
				out = append(out, value.Int{Value: i})
			}
		}
		return value.Vector{Items: out}, nil
	})

	register("count", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("count", args); err != nil {
			return nil, err
		}
		items, err := asSeq("count", args[0])
		if err != nil {
			return nil, err
		}
		return value.Int{Value: int64(len(items))}, nil
	})
	register("empty?", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("empty?", args); err != nil {
			return nil, err
		}
		items, err := asSeq("empty?", args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool_(len(items) == 0), nil
	})
	register("first", seqIndex("first", func(items []value.Value) value.Value {
		if len(items) == 0 {
			return value.NilValue
		}
		return items[0]
	}))
	register("last", seqIndex("last", func(items []value.Value) value.Value {
		if len(items) == 0 {
			return value.NilValue
		}
		return items[len(items)-1]
	}))
	register("ffirst", seqIndex("ffirst", func(items []value.Value) value.Value {
		if len(items) == 0 {
			return value.NilValue
		}
		inner, err := asSeq("ffirst", items[0])
		if err != nil || len(inner) == 0 {
			return value.NilValue
		}
		return inner[0]
	}))
	register("nfirst", seqIndex("nfirst", func(items []value.Value) value.Value {
		if len(items) == 0 {
			return value.Vector{}
		}
		inner, err := asSeq("nfirst", items[0])
		if err != nil || len(inner) <= 1 {
			return value.Vector{}
		}
		return value.Vector{Items: inner[1:]}
	}))
	register("fnext", seqIndex("fnext", func(items []value.Value) value.Value {
		if len(items) < 2 {
			return value.NilValue
		}
		return items[1]
	}))
	register("nnext", seqIndex("nnext", func(items []value.Value) value.Value {
		if len(items) <= 2 {
			return value.Vector{}
		}
		return value.Vector{Items: items[2:]}
	}))
	register("rest", seqIndex("rest", func(items []value.Value) value.Value {
		if len(items) <= 1 {
			return value.Vector{}
		}
		return value.Vector{Items: items[1:]}
	}))
	register("next", seqIndex("next", func(items []value.Value) value.Value {
		if len(items) <= 1 {
			return value.NilValue
		}
		return value.Vector{Items: items[1:]}
	}))
	register("nth", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "nth: expects 2 or 3 arguments, got %d", len(args))
		}
		items, err := asSeq("nth", args[0])
		if err != nil {
			return nil, err
		}
		idx := asInt(args[1])
		if idx < 0 || int(idx) >= len(items) {
			if len(args) == 3 {
				return args[2], nil
			}
			return nil, errors.New(errors.KindTypeError, "nth: index %d out of bounds (length %d)", idx, len(items))
		}
		return items[idx], nil
	})
}

func seqIndex(name string, f func(items []value.Value) value.Value) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1(name, args); err != nil {
			return nil, err
		}
		items, err := asSeq(name, args[0])
		if err != nil {
			return nil, err
		}
		return f(items), nil
	}
}
