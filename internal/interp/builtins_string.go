package interp

import (
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func asStr(name string, v value.Value) (string, error) {
	if s, ok := v.(value.Str); ok {
		return s.Value, nil
	}
	return "", errors.New(errors.KindTypeError, "%s: expected a string, got %s", name, v.Type())
}

func renderStr(v value.Value) string {
	if s, ok := v.(value.Str); ok {
		return s.Value
	}
	return v.String()
}

func init() {
	register("str", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(renderStr(a))
		}
		return value.Str{Value: b.String()}, nil
	})

	register("split", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "split: expects exactly 2 arguments")
		}
		s, err := asStr("split", args[0])
		if err != nil {
			return nil, err
		}
		sep, err := asStr("split", args[1])
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.Str{Value: p}
		}
		return value.Vector{Items: out}, nil
	})

	register("join", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "join: expects 1 or 2 arguments")
		}
		sep := ""
		coll := args[0]
		if len(args) == 2 {
			sep, _ = asStr("join", args[0])
			coll = args[1]
		}
		items, err := asSeq("join", coll)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = renderStr(it)
		}
		return value.Str{Value: strings.Join(parts, sep)}, nil
	})

	register("trim", strFn1("trim", strings.TrimSpace))
	register("upper-case", strFn1("upper-case", strings.ToUpper))
	register("lower-case", strFn1("lower-case", strings.ToLower))

	register("replace", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "replace: expects exactly 3 arguments")
		}
		s, err := asStr("replace", args[0])
		if err != nil {
			return nil, err
		}
		if re, ok := args[1].(value.Regex); ok {
			repl, err := asStr("replace", args[2])
			if err != nil {
				return nil, err
			}
			pattern, ok := re.Pattern.(interface{ ReplaceAllString(string, string) string })
			if ok {
				return value.Str{Value: pattern.ReplaceAllString(s, repl)}, nil
			}
			return value.Str{Value: s}, nil
		}
		from, err := asStr("replace", args[1])
		if err != nil {
			return nil, err
		}
		to, err := asStr("replace", args[2])
		if err != nil {
			return nil, err
		}
		return value.Str{Value: strings.ReplaceAll(s, from, to)}, nil
	})

	register("includes?", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "includes?: expects exactly 2 arguments")
		}
		s, err := asStr("includes?", args[0])
		if err != nil {
			return nil, err
		}
		sub, err := asStr("includes?", args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool_(strings.Contains(s, sub)), nil
	})
	register("starts-with?", strPredicate2("starts-with?", strings.HasPrefix))
	register("ends-with?", strPredicate2("ends-with?", strings.HasSuffix))

	register("subs", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, errors.New(errors.KindInvalidArity, "subs: expects 2 or 3 arguments")
		}
		s, err := asStr("subs", args[0])
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		start := int(asInt(args[1]))
		end := len(runes)
		if len(args) == 3 {
			end = int(asInt(args[2]))
		}
		if start < 0 || end > len(runes) || start > end {
			return nil, errors.New(errors.KindTypeError, "subs: index out of bounds")
		}
		return value.Str{Value: string(runes[start:end])}, nil
	})

	register("re-pattern", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1("re-pattern", args); err != nil {
			return nil, err
		}
		s, err := asStr("re-pattern", args[0])
		if err != nil {
			return nil, err
		}
		re, err := value.CompileRegex(s)
		if err != nil {
			return nil, errors.New(errors.KindTypeError, "re-pattern: %s", err.Error())
		}
		return re, nil
	})

	register("re-find", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "re-find: expects exactly 2 arguments")
		}
		re, ok := args[0].(value.Regex)
		if !ok {
			return nil, errors.New(errors.KindTypeError, "re-find: expected a regex as the first argument")
		}
		s, err := asStr("re-find", args[1])
		if err != nil {
			return nil, err
		}
		m := re.Pattern.FindStringSubmatch(s)
		if m == nil {
			return value.NilValue, nil
		}
		if len(m) == 1 {
			return value.Str{Value: m[0]}, nil
		}
		out := make([]value.Value, len(m))
		for i, g := range m {
			out[i] = value.Str{Value: g}
		}
		return value.Vector{Items: out}, nil
	})

	register("re-matches", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "re-matches: expects exactly 2 arguments")
		}
		re, ok := args[0].(value.Regex)
		if !ok {
			return nil, errors.New(errors.KindTypeError, "re-matches: expected a regex as the first argument")
		}
		s, err := asStr("re-matches", args[1])
		if err != nil {
			return nil, err
		}
		if !re.Pattern.MatchString(s) {
			return value.NilValue, nil
		}
		idx := re.Pattern.FindStringIndex(s)
		if idx == nil || idx[0] != 0 || idx[1] != len(s) {
			return value.NilValue, nil
		}
		m := re.Pattern.FindStringSubmatch(s)
		if len(m) <= 1 {
			return value.Str{Value: s}, nil
		}
		out := make([]value.Value, len(m))
		for i, g := range m {
			out[i] = value.Str{Value: g}
		}
		return value.Vector{Items: out}, nil
	})
}

func strFn1(name string, f func(string) string) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if err := unary1(name, args); err != nil {
			return nil, err
		}
		s, err := asStr(name, args[0])
		if err != nil {
			return nil, err
		}
		return value.Str{Value: f(s)}, nil
	}
}

func strPredicate2(name string, f func(s, prefix string) bool) func(ec *EvalContext, args []value.Value) (value.Value, error) {
	return func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "%s: expects exactly 2 arguments", name)
		}
		s, err := asStr(name, args[0])
		if err != nil {
			return nil, err
		}
		p, err := asStr(name, args[1])
		if err != nil {
			return nil, err
		}
		return value.Bool_(f(s, p)), nil
	}
}
