package interp

import (
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/value"
)

func init() {
	register("println", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = renderStr(a)
		}
		recordPrint(ec, strings.Join(parts, " "))
		return value.NilValue, nil
	})

	register("print-str", func(_ *EvalContext, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = renderStr(a)
		}
		return value.Str{Value: strings.Join(parts, " ")}, nil
	})
}
