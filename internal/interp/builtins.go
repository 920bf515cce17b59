package interp

import "github.com/cwbudde/go-ptclisp/internal/value"

// registry is the global built-in table: a constant map from name to
// function pointer, populated at init time by the builtins_*.go files
// (spec §9: "Global built-in registry... avoid process-wide mutable
// state" — the map itself is written once at init and never mutated
// afterwards, so concurrent Eval calls only ever read it).
var registry = map[string]*Builtin{}

func register(name string, fn func(ec *EvalContext, args []value.Value) (value.Value, error)) {
	registry[name] = &Builtin{Name: name, Fn: fn}
}
