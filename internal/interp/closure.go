package interp

import (
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Closure is a function value capturing its defining environment (spec §3
// Value variant "Closure": "captured params + body + environment").
type Closure struct {
	Params   []coreast.Pattern
	Variadic *coreast.Pattern
	Body     []coreast.Node
	Env      *Environment
}

func (c *Closure) Type() string   { return "closure" }
func (c *Closure) String() string { return "#<closure>" }

// Builtin wraps a runtime library function in a callable Value so it can
// flow through Var lookups and higher-order functions uniformly with
// closures and keyword-as-accessor (spec §9: "Callable capability: closure
// OR keyword-as-accessor OR built-in — a tagged union with a uniform
// invoke(args, env) -> Value operation").
type Builtin struct {
	Name string
	Fn   func(ec *EvalContext, args []value.Value) (value.Value, error)
}

func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) String() string { return "#<builtin:" + b.Name + ">" }
