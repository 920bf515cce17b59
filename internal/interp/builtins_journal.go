package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// journalKey canonicalizes a task id (string or keyword) into the
// Journal map's key space (spec §4.4 "Journal (multi-turn)": tasks are
// cached by id across agentic-loop turns).
func journalKey(id value.Value) string {
	return value.CanonicalKey(id)
}

func init() {
	// task caches the result of a zero-argument thunk by id; once cached
	// in ec.Journal (owned by the Loop and persisted across turns) the
	// thunk is never re-invoked for that id.
	register("task", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.KindInvalidArity, "task: expects exactly 2 arguments")
		}
		key := journalKey(args[0])
		if ec.Journal != nil {
			if cached, ok := ec.Journal[key]; ok {
				return cached, nil
			}
		}
		result, err := Apply(ec, args[1], nil)
		if err != nil {
			return nil, err
		}
		if ec.Journal != nil {
			ec.Journal[key] = result
		}
		return result, nil
	})

	// step-done marks a task id as complete without caching a value,
	// using a sentinel so later (task id ...) calls at the same id
	// short-circuit on subsequent turns.
	register("step-done", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "step-done: expects exactly 1 argument")
		}
		key := journalKey(args[0])
		if ec.Journal != nil {
			ec.Journal[key] = value.True
		}
		return value.True, nil
	})

	register("task-reset", func(ec *EvalContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.KindInvalidArity, "task-reset: expects exactly 1 argument")
		}
		key := journalKey(args[0])
		if ec.Journal != nil {
			delete(ec.Journal, key)
		}
		return value.NilValue, nil
	})
}
