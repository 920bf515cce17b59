package interp

import (
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func evalCall(c *coreast.Call, env *Environment, ec *EvalContext) (value.Value, error) {
	fn, err := Eval(c.Fn, env, ec)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := Eval(a, env, ec)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return Apply(ec, fn, args)
}

// Apply invokes any callable Value: a Closure, a Keyword used as an
// accessor, or a built-in (spec §4.3 Call, §9 "Callable capability").
func Apply(ec *EvalContext, fn value.Value, args []value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case value.Keyword:
		return applyKeyword(f, args)
	case *Closure:
		return applyClosure(ec, f, args)
	case *Builtin:
		return f.Fn(ec, args)
	default:
		if fn == nil {
			return nil, errors.New(errors.KindNotCallable, "nil is not callable")
		}
		return nil, errors.New(errors.KindNotCallable, "a value of type %s is not callable", fn.Type())
	}
}

// applyKeyword implements spec §4.3's "keyword as function": 1-arg form
// returns m[k] or nil; 2-arg form returns m[k] or the given default.
func applyKeyword(kw value.Keyword, args []value.Value) (value.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errors.New(errors.KindInvalidArity, "keyword-as-function expects 1 or 2 arguments, got %d", len(args))
	}
	var fallback value.Value = value.NilValue
	if len(args) == 2 {
		fallback = args[1]
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		return fallback, nil
	}
	if v, found := FlexGet(m, kw); found {
		return v, nil
	}
	return fallback, nil
}

func evalCallTool(ct *coreast.CallTool, env *Environment, ec *EvalContext) (value.Value, error) {
	argVal, err := Eval(ct.ArgMap, env, ec)
	if err != nil {
		return nil, err
	}
	m, ok := argVal.(*value.Map)
	if !ok {
		return nil, errors.New(errors.KindTypeError, "call argument must evaluate to a map, got %s", argVal.Type())
	}
	toolFn, ok := ec.Tools[ct.Name]
	if !ok {
		return nil, errors.New(errors.KindUnknownTool, "unknown tool %q", ct.Name)
	}
	result, err := toolFn(m)
	if err != nil {
		return nil, errors.New(errors.KindToolError, "tool %q failed: %s", ct.Name, err.Error())
	}
	if !ec.Discard && ec.ToolCalls != nil {
		*ec.ToolCalls = append(*ec.ToolCalls, ToolCallRecord{Name: ct.Name, Args: m, Result: result})
	}
	return result, nil
}

func fetchPath(item value.Value, path []coreast.PathSegment) value.Value {
	cur := item
	for _, seg := range path {
		m, ok := cur.(*value.Map)
		if !ok {
			return value.NilValue
		}
		v, found := FlexGet(m, value.Keyword{Name: seg.Key})
		if !found {
			return value.NilValue
		}
		cur = v
	}
	return cur
}

func compareWhere(lhs value.Value, op string, rhs value.Value) bool {
	if op == "truthy" {
		return value.Truthy(lhs)
	}
	if isNilValue(lhs) {
		// nil on LHS makes any comparison false (spec §4.3: "nil-safe").
		return false
	}
	switch op {
	case "eq":
		return value.Equal(lhs, rhs)
	case "not_eq":
		return !value.Equal(lhs, rhs)
	case "gt", "lt", "gte", "lte":
		lf, ok1 := value.AsFloat(lhs)
		rf, ok2 := value.AsFloat(rhs)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case "gt":
			return lf > rf
		case "lt":
			return lf < rf
		case "gte":
			return lf >= rf
		default:
			return lf <= rf
		}
	case "includes":
		switch lv := lhs.(type) {
		case value.Vector:
			for _, it := range lv.Items {
				if value.Equal(it, rhs) {
					return true
				}
			}
			return false
		case value.Str:
			rs, ok := rhs.(value.Str)
			if !ok {
				return false
			}
			return strings.Contains(lv.Value, rs.Value)
		default:
			return false
		}
	case "in":
		switch rv := rhs.(type) {
		case value.Vector:
			for _, it := range rv.Items {
				if value.Equal(it, lhs) {
					return true
				}
			}
		case value.Set:
			return rv.Contains(lhs)
		}
		return false
	default:
		return false
	}
}

// evalWhere builds a first-class predicate closure from a field path, a
// comparison operator and a (pre-evaluated) comparison value (spec §4.3
// Where, glossary "where predicate").
func evalWhere(w *coreast.Where, env *Environment, ec *EvalContext) (value.Value, error) {
	cmpValue, err := Eval(w.Value, env, ec)
	if err != nil {
		return nil, err
	}
	path := w.Path
	op := w.Op
	return &Builtin{Name: "where", Fn: func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "where predicate expects exactly one argument, got %d", len(args))
		}
		lhs := fetchPath(args[0], path)
		return value.Bool_(compareWhere(lhs, op, cmpValue)), nil
	}}, nil
}

// evalPredCombinator composes predicates (spec §4.3: "empty all-of/none-of
// -> always true; empty any-of -> always false").
func evalPredCombinator(pc *coreast.PredCombinator, env *Environment, ec *EvalContext) (value.Value, error) {
	preds := make([]value.Value, len(pc.Preds))
	for i, p := range pc.Preds {
		v, err := Eval(p, env, ec)
		if err != nil {
			return nil, err
		}
		preds[i] = v
	}
	kind := pc.Kind
	return &Builtin{Name: kind, Fn: func(ec2 *EvalContext, args []value.Value) (value.Value, error) {
		switch kind {
		case "all-of":
			for _, p := range preds {
				v, err := Apply(ec2, p, args)
				if err != nil {
					return nil, err
				}
				if !value.Truthy(v) {
					return value.False, nil
				}
			}
			return value.True, nil
		case "any-of":
			for _, p := range preds {
				v, err := Apply(ec2, p, args)
				if err != nil {
					return nil, err
				}
				if value.Truthy(v) {
					return value.True, nil
				}
			}
			return value.False, nil
		default: // "none-of"
			for _, p := range preds {
				v, err := Apply(ec2, p, args)
				if err != nil {
					return nil, err
				}
				if value.Truthy(v) {
					return value.False, nil
				}
			}
			return value.True, nil
		}
	}}, nil
}
