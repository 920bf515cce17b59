package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func init() {
	// return unwinds to the turn boundary carrying its argument as the
	// turn's successful result (spec §7: "return and fail are not errors;
	// they are termination signals").
	register("return", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "return: expects exactly 1 argument")
		}
		return nil, &errors.ReturnSignal{Value: args[0]}
	})

	// fail unwinds to the turn boundary carrying a reason keyword and an
	// optional message, taken from a {:reason ... :message ...} map
	// (spec §7 "fail" termination signal).
	register("fail", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "fail: expects exactly 1 argument")
		}
		m, ok := args[0].(*value.Map)
		if !ok {
			return nil, errors.New(errors.KindTypeError, "fail: expects a {:reason ... :message ...} map")
		}
		reason := ""
		if rv, found := FlexGet(m, value.Keyword{Name: "reason"}); found {
			if kw, ok := rv.(value.Keyword); ok {
				reason = kw.Name
			} else {
				reason = renderStr(rv)
			}
		}
		message := ""
		if mv, found := FlexGet(m, value.Keyword{Name: "message"}); found {
			message = renderStr(mv)
		}
		return nil, &errors.FailSignal{Reason: reason, Message: message}
	})
}
