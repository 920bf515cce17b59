package interp

import (
	"sort"

	"github.com/samber/lo"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func init() {
	register("map", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, errors.New(errors.KindInvalidArity, "map: expects a function and at least one collection")
		}
		seqs := make([][]value.Value, len(args)-1)
		minLen := -1
		for i, a := range args[1:] {
			items, err := asSeq("map", a)
			if err != nil {
				return nil, err
			}
			seqs[i] = items
			if minLen == -1 || len(items) < minLen {
				minLen = len(items)
			}
		}
		out := make([]value.Value, 0, minLen)
		for i := 0; i < minLen; i++ {
			callArgs := make([]value.Value, len(seqs))
			for j, s := range seqs {
				callArgs[j] = s[i]
			}
			v, err := Apply(ec, args[0], callArgs)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return value.Vector{Items: out}, nil
	})
	registry["mapv"] = registry["map"]

	register("filter", filterLike("filter", true))
	register("remove", filterLike("remove", false))

	register("find", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "find: expects exactly 2 arguments")
		}
		items, err := asSeq("find", args[1])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			ok, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			if value.Truthy(ok) {
				return it, nil
			}
		}
		return value.NilValue, nil
	})

	register("reduce", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		var fn value.Value
		var acc value.Value
		var items []value.Value
		var err error
		switch len(args) {
		case 2:
			fn = args[0]
			items, err = asSeq("reduce", args[1])
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return value.NilValue, nil
			}
			acc, items = items[0], items[1:]
		case 3:
			fn = args[0]
			acc = args[1]
			items, err = asSeq("reduce", args[2])
			if err != nil {
				return nil, err
			}
		default:
			return nil, errors.New(errors.KindInvalidArity, "reduce: expects 2 or 3 arguments, got %d", len(args))
		}
		for _, it := range items {
			acc, err = Apply(ec, fn, []value.Value{acc, it})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	register("map-indexed", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "map-indexed: expects exactly 2 arguments")
		}
		items, err := asSeq("map-indexed", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(items))
		for i, it := range items {
			v, err := Apply(ec, args[0], []value.Value{value.Int{Value: int64(i)}, it})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.Vector{Items: out}, nil
	})

	register("take", countPrefix("take", func(items []value.Value, n int) []value.Value {
		if n > len(items) {
			n = len(items)
		}
		if n < 0 {
			n = 0
		}
		return items[:n]
	}))
	register("drop", countPrefix("drop", func(items []value.Value, n int) []value.Value {
		if n > len(items) {
			n = len(items)
		}
		if n < 0 {
			n = 0
		}
		return items[n:]
	}))

	register("take-while", predPrefix("take-while", true))
	register("drop-while", predPrefix("drop-while", false))

	register("sort", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("sort", args); err != nil {
			return nil, err
		}
		items, err := asSeq("sort", args[0])
		if err != nil {
			return nil, err
		}
		out := append([]value.Value(nil), items...)
		sort.SliceStable(out, func(i, j int) bool { return lessValue(out[i], out[j]) })
		return value.Vector{Items: out}, nil
	})
	register("sort-by", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		// sort-by key coll ascending, or sort-by key comparator coll with
		// comparator > for descending (spec.md "Sort-by ordering").
		var keyFn, comparator, coll value.Value
		switch len(args) {
		case 2:
			keyFn, coll = args[0], args[1]
		case 3:
			keyFn, comparator, coll = args[0], args[1], args[2]
		default:
			return nil, errors.New(errors.KindInvalidArity, "sort-by: expects 2 or 3 arguments")
		}
		items, err := asSeq("sort-by", coll)
		if err != nil {
			return nil, err
		}
		keyed := make([]value.Value, len(items))
		copy(keyed, items)
		keys := make([]value.Value, len(items))
		for i, it := range items {
			k, err := Apply(ec, keyFn, []value.Value{it})
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		idx := lo.Range(len(items))
		var less func(a, b int) bool
		if comparator != nil {
			var applyErr error
			less = func(a, b int) bool {
				if applyErr != nil {
					return false
				}
				v, err := Apply(ec, comparator, []value.Value{keys[idx[a]], keys[idx[b]]})
				if err != nil {
					applyErr = err
					return false
				}
				return value.Truthy(v)
			}
			sort.SliceStable(idx, less)
			if applyErr != nil {
				return nil, applyErr
			}
		} else {
			sort.SliceStable(idx, func(a, b int) bool { return lessValue(keys[idx[a]], keys[idx[b]]) })
		}
		out := make([]value.Value, len(items))
		for i, j := range idx {
			out[i] = keyed[j]
		}
		return value.Vector{Items: out}, nil
	})

	register("reverse", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("reverse", args); err != nil {
			return nil, err
		}
		items, err := asSeq("reverse", args[0])
		if err != nil {
			return nil, err
		}
		out := append([]value.Value(nil), items...)
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return value.Vector{Items: out}, nil
	})

	register("distinct", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("distinct", args); err != nil {
			return nil, err
		}
		items, err := asSeq("distinct", args[0])
		if err != nil {
			return nil, err
		}
		out := lo.UniqBy(items, func(v value.Value) string { return value.CanonicalKey(v) })
		return value.Vector{Items: out}, nil
	})
	register("distinct-by", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "distinct-by: expects exactly 2 arguments")
		}
		items, err := asSeq("distinct-by", args[1])
		if err != nil {
			return nil, err
		}
		var applyErr error
		out := lo.UniqBy(items, func(v value.Value) string {
			k, err := Apply(ec, args[0], []value.Value{v})
			if err != nil {
				applyErr = err
				return ""
			}
			return value.CanonicalKey(k)
		})
		if applyErr != nil {
			return nil, applyErr
		}
		return value.Vector{Items: out}, nil
	})

	register("flatten", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("flatten", args); err != nil {
			return nil, err
		}
		var out []value.Value
		var walk func(v value.Value)
		walk = func(v value.Value) {
			if vec, ok := v.(value.Vector); ok {
				for _, it := range vec.Items {
					walk(it)
				}
				return
			}
			out = append(out, v)
		}
		items, err := asSeq("flatten", args[0])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			walk(it)
		}
		return value.Vector{Items: out}, nil
	})

	register("partition", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "partition: expects exactly 2 arguments")
		}
		n := int(asInt(args[0]))
		items, err := asSeq("partition", args[1])
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, errors.New(errors.KindTypeError, "partition: size must be positive")
		}
		chunks := lo.Chunk(items, n)
		out := make([]value.Value, 0, len(chunks))
		for _, c := range chunks {
			if len(c) == n {
				out = append(out, value.Vector{Items: c})
			}
		}
		return value.Vector{Items: out}, nil
	})

	register("interpose", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "interpose: expects exactly 2 arguments")
		}
		items, err := asSeq("interpose", args[1])
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for i, it := range items {
			if i > 0 {
				out = append(out, args[0])
			}
			out = append(out, it)
		}
		return value.Vector{Items: out}, nil
	})

	register("mapcat", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, errors.New(errors.KindInvalidArity, "mapcat: expects a function and at least one collection")
		}
		mapped, err := registry["map"].Fn(ec, args)
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, v := range mapped.(value.Vector).Items {
			items, err := asSeq("mapcat", v)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		}
		return value.Vector{Items: out}, nil
	})

	register("zipmap", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "zipmap: expects exactly 2 arguments")
		}
		keys, err := asSeq("zipmap", args[0])
		if err != nil {
			return nil, err
		}
		vals, err := asSeq("zipmap", args[1])
		if err != nil {
			return nil, err
		}
		m := value.EmptyMap()
		for i := 0; i < len(keys) && i < len(vals); i++ {
			m = m.Assoc(keys[i], vals[i])
		}
		return m, nil
	})

	register("group-by", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "group-by: expects exactly 2 arguments")
		}
		items, err := asSeq("group-by", args[1])
		if err != nil {
			return nil, err
		}
		m := value.EmptyMap()
		for _, it := range items {
			k, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			existing, found := m.Get(k)
			var bucket []value.Value
			if found {
				bucket = existing.(value.Vector).Items
			}
			m = m.Assoc(k, value.Vector{Items: append(bucket, it)})
		}
		return m, nil
	})

	register("frequencies", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("frequencies", args); err != nil {
			return nil, err
		}
		items, err := asSeq("frequencies", args[0])
		if err != nil {
			return nil, err
		}
		m := value.EmptyMap()
		for _, it := range items {
			existing, found := m.Get(it)
			if found {
				m = m.Assoc(it, value.Int{Value: existing.(value.Int).Value + 1})
			} else {
				m = m.Assoc(it, value.Int{Value: 1})
			}
		}
		return m, nil
	})
}

func lessValue(a, b value.Value) bool {
	// Nil keys sort last deterministically (spec.md "Sort-by ordering"),
	// regardless of how CanonicalKey happens to order the "n:" prefix.
	_, aNil := a.(value.Nil)
	_, bNil := b.(value.Nil)
	if aNil || bNil {
		return !aNil && bNil
	}
	if af, aok := value.AsFloat(a); aok {
		if bf, bok := value.AsFloat(b); bok {
			return af < bf
		}
	}
	if as, aok := a.(value.Str); aok {
		if bs, bok := b.(value.Str); bok {
			return as.Value < bs.Value
		}
	}
	return value.CanonicalKey(a) < value.CanonicalKey(b)
}

func filterLike(name string, keep bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		items, err := asSeq(name, args[1])
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, it := range items {
			ok, err := Apply(ec, args[0], []value.Value{it})
			if err != nil {
				return nil, err
			}
			if value.Truthy(ok) == keep {
				out = append(out, it)
			}
		}
		return value.Vector{Items: out}, nil
	}
}

func countPrefix(name string, f func(items []value.Value, n int) []value.Value) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		items, err := asSeq(name, args[1])
		if err != nil {
			return nil, err
		}
		return value.Vector{Items: f(items, int(asInt(args[0])))}, nil
	}
}

func predPrefix(name string, while bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		items, err := asSeq(name, args[1])
		if err != nil {
			return nil, err
		}
		i := 0
		for ; i < len(items); i++ {
			ok, err := Apply(ec, args[0], []value.Value{items[i]})
			if err != nil {
				return nil, err
			}
			if value.Truthy(ok) != while {
				break
			}
		}
		if while {
			return value.Vector{Items: items[:i]}, nil
		}
		return value.Vector{Items: items[i:]}, nil
	}
}
