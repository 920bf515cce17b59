package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func isNilValue(v value.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(value.Nil)
	return ok
}

// bindPattern implements destructuring (spec §4.3 Let/Fn): a flat symbol
// binds directly; a vector pattern binds positionally with an optional
// "& rest" collector; a map pattern supports :keys/:or/:as alongside
// direct keyword-to-pattern bindings.
func bindPattern(pat coreast.Pattern, v value.Value, env *Environment, ec *EvalContext) error {
	switch p := pat.(type) {
	case coreast.SymbolPattern:
		env.Define(p.Name, v)
		return nil

	case coreast.VectorPattern:
		vec, ok := v.(value.Vector)
		if !ok {
			if isNilValue(v) {
				vec = value.Vector{}
			} else {
				return errors.New(errors.KindTypeError, "cannot destructure a %s as a vector", v.Type())
			}
		}
		for i, elemPat := range p.Elems {
			var elemVal value.Value = value.NilValue
			if i < len(vec.Items) {
				elemVal = vec.Items[i]
			}
			if err := bindPattern(elemPat, elemVal, env, ec); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			var rest []value.Value
			if len(vec.Items) > len(p.Elems) {
				rest = append(rest, vec.Items[len(p.Elems):]...)
			}
			if err := bindPattern(*p.Rest, value.Vector{Items: rest}, env, ec); err != nil {
				return err
			}
		}
		return nil

	case coreast.MapPattern:
		m, ok := v.(*value.Map)
		if !ok {
			if isNilValue(v) {
				m = value.EmptyMap()
			} else {
				return errors.New(errors.KindTypeError, "cannot destructure a %s as a map", v.Type())
			}
		}
		for _, e := range p.Entries {
			val, found := FlexGet(m, value.Keyword{Name: e.Key})
			if !found {
				if e.Default != nil {
					dv, err := Eval(e.Default, env, ec)
					if err != nil {
						return err
					}
					val = dv
				} else {
					val = value.NilValue
				}
			}
			if err := bindPattern(e.Pattern, val, env, ec); err != nil {
				return err
			}
		}
		if p.As != "" {
			env.Define(p.As, m)
		}
		return nil

	default:
		return errors.New(errors.KindUnsupportedPattern, "unsupported binding pattern %T", pat)
	}
}

// bindParams binds closure call arguments to params, with variadic "& rest"
// collection (spec §3: "Variadic fn accepts & rest collecting remaining
// args into a vector").
func bindParams(params []coreast.Pattern, variadic *coreast.Pattern, args []value.Value, env *Environment, ec *EvalContext) error {
	if variadic == nil {
		if len(args) != len(params) {
			return errors.New(errors.KindInvalidArity, "expected %d argument(s), got %d", len(params), len(args))
		}
	} else if len(args) < len(params) {
		return errors.New(errors.KindInvalidArity, "expected at least %d argument(s), got %d", len(params), len(args))
	}
	for i, p := range params {
		if err := bindPattern(p, args[i], env, ec); err != nil {
			return err
		}
	}
	if variadic != nil {
		rest := append([]value.Value(nil), args[len(params):]...)
		if err := bindPattern(*variadic, value.Vector{Items: rest}, env, ec); err != nil {
			return err
		}
	}
	return nil
}
