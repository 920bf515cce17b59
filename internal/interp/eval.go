package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Eval recursively walks one Core AST node against env, honoring
// short-circuiting, closures, destructuring and special-form semantics
// (spec §4.3). It is not required to be tail-call optimized; runaway
// recursion is bounded by the loop/recur iteration cap and the sandbox's
// cooperative deadline, both enforced here.
func Eval(node coreast.Node, env *Environment, ec *EvalContext) (value.Value, error) {
	if err := ec.CheckDeadline(); err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *coreast.Literal:
		return n.Value, nil

	case *coreast.Var:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		if b, ok := registry[n.Name]; ok {
			return b, nil
		}
		return nil, errors.New(errors.KindUnboundVar, "unbound variable %q", n.Name)

	case *coreast.Ctx:
		v, _ := FlexGet(ec.Ctx, value.Keyword{Name: n.Key})
		return orNil(v), nil

	case *coreast.Memory:
		v, _ := FlexGet(ec.EffectiveMemory(), value.Keyword{Name: n.Key})
		return orNil(v), nil

	case *coreast.VectorNode:
		items := make([]value.Value, len(n.Items))
		for i, it := range n.Items {
			v, err := Eval(it, env, ec)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		if err := ec.accountBytes(int64(len(items)) * 16); err != nil {
			return nil, err
		}
		return value.Vector{Items: items}, nil

	case *coreast.MapNode:
		vals := make([]value.Value, len(n.Pairs))
		for i, p := range n.Pairs {
			v, err := Eval(p, env, ec)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		if err := ec.accountBytes(int64(len(vals)) * 16); err != nil {
			return nil, err
		}
		return value.NewMap(vals...), nil

	case *coreast.SetNode:
		items := make([]value.Value, len(n.Items))
		for i, it := range n.Items {
			v, err := Eval(it, env, ec)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		if err := ec.accountBytes(int64(len(items)) * 16); err != nil {
			return nil, err
		}
		return value.NewSet(items...), nil

	case *coreast.If:
		c, err := Eval(n.Cond, env, ec)
		if err != nil {
			return nil, err
		}
		if value.Truthy(c) {
			return Eval(n.Then, env, ec)
		}
		return Eval(n.Else, env, ec)

	case *coreast.Let:
		letEnv := NewEnclosedEnvironment(env)
		for _, b := range n.Bindings {
			v, err := Eval(b.Value, letEnv, ec)
			if err != nil {
				return nil, err
			}
			if err := bindPattern(b.Pattern, v, letEnv, ec); err != nil {
				return nil, err
			}
		}
		return evalBodySeq(n.Body, letEnv, ec)

	case *coreast.Fn:
		return &Closure{Params: n.Params, Variadic: n.Variadic, Body: n.Body, Env: env}, nil

	case *coreast.And:
		var result value.Value = value.True
		for _, a := range n.Args {
			v, err := Eval(a, env, ec)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(v) {
				return v, nil
			}
			result = v
		}
		return result, nil

	case *coreast.Or:
		var result value.Value = value.NilValue
		for _, a := range n.Args {
			v, err := Eval(a, env, ec)
			if err != nil {
				return nil, err
			}
			if value.Truthy(v) {
				return v, nil
			}
			result = v
		}
		return result, nil

	case *coreast.Where:
		return evalWhere(n, env, ec)

	case *coreast.PredCombinator:
		return evalPredCombinator(n, env, ec)

	case *coreast.CallTool:
		return evalCallTool(n, env, ec)

	case *coreast.Call:
		return evalCall(n, env, ec)

	case *coreast.Def:
		v, err := Eval(n.Value, env, ec)
		if err != nil {
			return nil, err
		}
		env.Root().Define(n.Name, v)
		return v, nil

	case *coreast.Do:
		return evalBodySeq(n.Exprs, env, ec)

	case *coreast.Quote:
		return n.Raw, nil

	case *coreast.Loop:
		return evalLoop(n, env, ec)

	case *coreast.Recur:
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(a, env, ec)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return nil, &recurSignal{Args: args}

	default:
		return nil, errors.New(errors.KindTypeError, "cannot evaluate Core AST node of type %T", node)
	}
}

func orNil(v value.Value) value.Value {
	if v == nil {
		return value.NilValue
	}
	return v
}

// evalBodySeq evaluates a body in order, returning the last value (spec
// §4.3 Do: "evaluate left-to-right, return the last value"). An empty body
// evaluates to nil.
func evalBodySeq(body []coreast.Node, env *Environment, ec *EvalContext) (value.Value, error) {
	var result value.Value = value.NilValue
	for _, expr := range body {
		v, err := Eval(expr, env, ec)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
