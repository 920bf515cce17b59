// Package interp implements the Evaluator and Runtime Library: it walks
// the Core AST against an environment chain and hosts the built-in
// function registry. Grounded on the teacher's internal/interp/environment.go
// "frame + outer pointer" shape, generalized from DWScript's case-insensitive
// ident.Map storage to this Lisp's plain case-sensitive symbol table.
package interp

import "github.com/cwbudde/go-ptclisp/internal/value"

// Environment is a lexically scoped symbol table: each frame maps name to
// Value, with an outer pointer forming the chain described in spec §3
// ("Environment is a lexically scoped chain ... Global frame is seeded
// with built-in functions").
type Environment struct {
	store map[string]value.Value
	outer *Environment
}

// NewEnvironment creates a root-level environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{store: map[string]value.Value{}}
}

// NewEnclosedEnvironment creates a new scope nested inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]value.Value{}, outer: outer}
}

// Get searches the current frame then each outer frame in turn.
func (e *Environment) Get(name string) (value.Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define binds name in this frame, overwriting any existing local binding.
func (e *Environment) Define(name string, v value.Value) {
	e.store[name] = v
}

// Root returns the outermost frame in the chain — where Def installs names
// (spec §3: "Def mutates the outermost user frame").
func (e *Environment) Root() *Environment {
	if e.outer == nil {
		return e
	}
	return e.outer.Root()
}
