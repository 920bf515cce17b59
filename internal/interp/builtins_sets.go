package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func asSet(name string, v value.Value) (value.Set, error) {
	if s, ok := v.(value.Set); ok {
		return s, nil
	}
	return value.Set{}, errors.New(errors.KindTypeError, "%s: expected a set, got %s", name, v.Type())
}

func init() {
	register("contains?", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "contains?: expects exactly 2 arguments")
		}
		switch coll := args[0].(type) {
		case value.Set:
			return value.Bool_(coll.Contains(args[1])), nil
		case *value.Map:
			_, found := coll.Get(args[1])
			return value.Bool_(found), nil
		case value.Vector:
			idx := asInt(args[1])
			return value.Bool_(idx >= 0 && int(idx) < len(coll.Items)), nil
		default:
			return value.False, nil
		}
	})

	register("disj", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 1 {
			return nil, errors.New(errors.KindInvalidArity, "disj: expects at least 1 argument")
		}
		s, err := asSet("disj", args[0])
		if err != nil {
			return nil, err
		}
		var cur value.Value = s
		for _, a := range args[1:] {
			cur = cur.(value.Set).Disj(a)
		}
		return cur, nil
	})

	register("union", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		acc := value.NewSet()
		for _, a := range args {
			s, err := asSet("union", a)
			if err != nil {
				return nil, err
			}
			for _, v := range s.Values() {
				acc = acc.Conj(v).(value.Set)
			}
		}
		return acc, nil
	})

	register("intersection", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewSet(), nil
		}
		first, err := asSet("intersection", args[0])
		if err != nil {
			return nil, err
		}
		rest := make([]value.Set, len(args)-1)
		for i, a := range args[1:] {
			s, err := asSet("intersection", a)
			if err != nil {
				return nil, err
			}
			rest[i] = s
		}
		acc := value.NewSet()
		for _, v := range first.Values() {
			inAll := true
			for _, s := range rest {
				if !s.Contains(v) {
					inAll = false
					break
				}
			}
			if inAll {
				acc = acc.Conj(v).(value.Set)
			}
		}
		return acc, nil
	})

	register("difference", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewSet(), nil
		}
		first, err := asSet("difference", args[0])
		if err != nil {
			return nil, err
		}
		acc := first
		for _, a := range args[1:] {
			s, err := asSet("difference", a)
			if err != nil {
				return nil, err
			}
			for _, v := range s.Values() {
				acc = acc.Disj(v).(value.Set)
			}
		}
		return acc, nil
	})
}
