package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// maxIterations bounds loop/recur and function-recursion re-binding (spec
// §4.5: "Recursion/iteration caps: loop/recur and equivalent iterations
// capped at 1000; exceeding fails iteration_limit").
const maxIterations = 1000

// recurSignal unwinds evaluation back to the nearest enclosing Loop or
// closure call, trampoline-style, so recur never grows the Go call stack.
// It is caught only by evalLoop/applyClosure, never surfaced past them.
type recurSignal struct{ Args []value.Value }

func (r *recurSignal) Error() string { return "recur outside of loop or fn" }

func evalLoop(l *coreast.Loop, env *Environment, ec *EvalContext) (value.Value, error) {
	loopEnv := NewEnclosedEnvironment(env)
	for _, b := range l.Bindings {
		v, err := Eval(b.Value, loopEnv, ec)
		if err != nil {
			return nil, err
		}
		if err := bindPattern(b.Pattern, v, loopEnv, ec); err != nil {
			return nil, err
		}
	}
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return nil, errors.New(errors.KindIterationLimit, "loop exceeded %d iterations", maxIterations)
		}
		if err := ec.CheckDeadline(); err != nil {
			return nil, err
		}
		result, err := evalBodySeq(l.Body, loopEnv, ec)
		if rs, ok := err.(*recurSignal); ok {
			if len(rs.Args) != len(l.Bindings) {
				return nil, errors.New(errors.KindInvalidArity, "recur expects %d binding(s), got %d arguments", len(l.Bindings), len(rs.Args))
			}
			nextEnv := NewEnclosedEnvironment(env)
			for i, b := range l.Bindings {
				if err := bindPattern(b.Pattern, rs.Args[i], nextEnv, ec); err != nil {
					return nil, err
				}
			}
			loopEnv = nextEnv
			continue
		}
		return result, err
	}
}

// applyClosure invokes c with args, trampolining recur the same way
// evalLoop does so direct self-recursion via recur doesn't grow the stack.
func applyClosure(ec *EvalContext, c *Closure, args []value.Value) (value.Value, error) {
	callEnv := NewEnclosedEnvironment(c.Env)
	if err := bindParams(c.Params, c.Variadic, args, callEnv, ec); err != nil {
		return nil, err
	}
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return nil, errors.New(errors.KindIterationLimit, "function call exceeded %d recursive iterations", maxIterations)
		}
		if err := ec.CheckDeadline(); err != nil {
			return nil, err
		}
		result, err := evalBodySeq(c.Body, callEnv, ec)
		if rs, ok := err.(*recurSignal); ok {
			nextEnv := NewEnclosedEnvironment(c.Env)
			if err := bindParams(c.Params, c.Variadic, rs.Args, nextEnv, ec); err != nil {
				return nil, err
			}
			callEnv = nextEnv
			continue
		}
		return result, err
	}
}
