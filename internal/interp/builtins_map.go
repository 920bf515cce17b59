package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func asMap(name string, v value.Value) (*value.Map, error) {
	if m, ok := v.(*value.Map); ok {
		return m, nil
	}
	if isNilValue(v) {
		return value.EmptyMap(), nil
	}
	return nil, errors.New(errors.KindTypeError, "%s: expected a map, got %s", name, v.Type())
}

func init() {
	register("get", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "get: expects 2 or 3 arguments, got %d", len(args))
		}
		m, err := asMap("get", args[0])
		if err != nil {
			return nil, err
		}
		if v, found := FlexGet(m, args[1]); found {
			return v, nil
		}
		if len(args) == 3 {
			return args[2], nil
		}
		return value.NilValue, nil
	})

	register("get-in", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "get-in: expects 2 or 3 arguments, got %d", len(args))
		}
		path, err := asSeq("get-in", args[1])
		if err != nil {
			return nil, err
		}
		cur := args[0]
		for _, k := range path {
			m, ok := cur.(*value.Map)
			if !ok {
				if len(args) == 3 {
					return args[2], nil
				}
				return value.NilValue, nil
			}
			v, found := FlexGet(m, k)
			if !found {
				if len(args) == 3 {
					return args[2], nil
				}
				return value.NilValue, nil
			}
			cur = v
		}
		return cur, nil
	})

	register("assoc", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 3 || len(args)%2 != 1 {
			return nil, errors.New(errors.KindInvalidArity, "assoc: expects a map and key/value pairs")
		}
		m, err := asMap("assoc", args[0])
		if err != nil {
			return nil, err
		}
		for i := 1; i+1 < len(args); i += 2 {
			m = m.Assoc(args[i], args[i+1])
		}
		return m, nil
	})

	register("assoc-in", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "assoc-in: expects exactly 3 arguments")
		}
		m, err := asMap("assoc-in", args[0])
		if err != nil {
			return nil, err
		}
		path, err := asSeq("assoc-in", args[1])
		if err != nil {
			return nil, err
		}
		nm, err := assocInPath(m, path, args[2])
		if err != nil {
			return nil, err
		}
		return nm, nil
	})

	register("update", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 3 {
			return nil, errors.New(errors.KindInvalidArity, "update: expects at least 3 arguments")
		}
		m, err := asMap("update", args[0])
		if err != nil {
			return nil, err
		}
		cur, _ := FlexGet(m, args[1])
		if cur == nil {
			cur = value.NilValue
		}
		callArgs := append([]value.Value{cur}, args[3:]...)
		nv, err := Apply(ec, args[2], callArgs)
		if err != nil {
			return nil, err
		}
		return m.Assoc(args[1], nv), nil
	})

	register("update-in", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 3 {
			return nil, errors.New(errors.KindInvalidArity, "update-in: expects at least 3 arguments")
		}
		m, err := asMap("update-in", args[0])
		if err != nil {
			return nil, err
		}
		path, err := asSeq("update-in", args[1])
		if err != nil {
			return nil, err
		}
		cur, err := registry["get-in"].Fn(ec, []value.Value{m, args[1]})
		if err != nil {
			return nil, err
		}
		callArgs := append([]value.Value{cur}, args[3:]...)
		nv, err := Apply(ec, args[2], callArgs)
		if err != nil {
			return nil, err
		}
		nm, err := assocInPath(m, path, nv)
		if err != nil {
			return nil, err
		}
		return nm, nil
	})

	register("dissoc", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 1 {
			return nil, errors.New(errors.KindInvalidArity, "dissoc: expects at least 1 argument")
		}
		m, err := asMap("dissoc", args[0])
		if err != nil {
			return nil, err
		}
		for _, k := range args[1:] {
			m = m.Dissoc(k)
		}
		return m, nil
	})

	register("merge", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		acc := value.EmptyMap()
		for _, a := range args {
			m, err := asMap("merge", a)
			if err != nil {
				return nil, err
			}
			acc = acc.Merge(m)
		}
		return acc, nil
	})

	register("select-keys", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "select-keys: expects exactly 2 arguments")
		}
		m, err := asMap("select-keys", args[0])
		if err != nil {
			return nil, err
		}
		keys, err := asSeq("select-keys", args[1])
		if err != nil {
			return nil, err
		}
		out := value.EmptyMap()
		for _, k := range keys {
			if v, found := FlexGet(m, k); found {
				out = out.Assoc(k, v)
			}
		}
		return out, nil
	})

	register("keys", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("keys", args); err != nil {
			return nil, err
		}
		m, err := asMap("keys", args[0])
		if err != nil {
			return nil, err
		}
		return value.Vector{Items: m.SortedKeys()}, nil
	})
	register("vals", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("vals", args); err != nil {
			return nil, err
		}
		m, err := asMap("vals", args[0])
		if err != nil {
			return nil, err
		}
		return value.Vector{Items: m.Values()}, nil
	})
	register("entries", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("entries", args); err != nil {
			return nil, err
		}
		m, err := asMap("entries", args[0])
		if err != nil {
			return nil, err
		}
		return value.Vector{Items: m.Entries()}, nil
	})
	register("update-vals", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "update-vals: expects exactly 2 arguments")
		}
		m, err := asMap("update-vals", args[0])
		if err != nil {
			return nil, err
		}
		out := value.EmptyMap()
		for _, k := range m.SortedKeys() {
			v, _ := m.Get(k)
			nv, err := Apply(ec, args[1], []value.Value{v})
			if err != nil {
				return nil, err
			}
			out = out.Assoc(k, nv)
		}
		return out, nil
	})
}

func assocInPath(m *value.Map, path []value.Value, v value.Value) (*value.Map, error) {
	if len(path) == 0 {
		return nil, errors.New(errors.KindInvalidForm, "assoc-in: path must not be empty")
	}
	if len(path) == 1 {
		return m.Assoc(path[0], v), nil
	}
	child, _ := FlexGet(m, path[0])
	childMap, err := asMap("assoc-in", orNil(child))
	if err != nil {
		return nil, err
	}
	nested, err := assocInPath(childMap, path[1:], v)
	if err != nil {
		return nil, err
	}
	return m.Assoc(path[0], nested), nil
}
