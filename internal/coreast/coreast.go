// Package coreast defines the Core AST emitted by the Analyzer (spec §3):
// a desugared, validated tree the Evaluator consumes directly. No
// desugarable forms (when, cond, ->, ->>, #()) survive into this tree.
package coreast

import "github.com/cwbudde/go-ptclisp/internal/value"

// Node is any Core AST form.
type Node interface {
	coreNode()
}

type base struct{}

func (base) coreNode() {}

// Literal wraps an already-evaluated constant value.
type Literal struct {
	base
	Value value.Value
}

// Var looks up a lexically bound name or a built-in.
type Var struct {
	base
	Name string
}

// Ctx fetches a key from the read-only ctx/ map.
type Ctx struct {
	base
	Key string
}

// Memory fetches a key from the read-only memory/ map.
type Memory struct {
	base
	Key string
}

// VectorNode evaluates each element in order and collects a Vector.
type VectorNode struct {
	base
	Items []Node
}

// MapNode evaluates flat key/value pairs in order and collects a Map.
type MapNode struct {
	base
	Pairs []Node
}

// SetNode evaluates each element in order and collects a Set.
type SetNode struct {
	base
	Items []Node
}

// If is always 3-ary: condition, then-branch, else-branch (mandatory).
type If struct {
	base
	Cond, Then, Else Node
}

// Binding is one [pattern value] pair inside a Let.
type Binding struct {
	Pattern Pattern
	Value   Node
}

// Let evaluates bindings left-to-right into an extended environment, then
// evaluates Body in it.
type Let struct {
	base
	Bindings []Binding
	Body     []Node
}

// Fn produces a Closure value capturing the defining environment.
type Fn struct {
	base
	Params   []Pattern
	Variadic *Pattern // non-nil when "& rest" was present
	Body     []Node
}

// And short-circuits on the first falsy argument.
type And struct {
	base
	Args []Node
}

// Or short-circuits on the first truthy argument.
type Or struct {
	base
	Args []Node
}

// PathSegment is one step of a `where` field path: either a keyword/string
// key or a numeric index.
type PathSegment struct {
	Key   string
	Index int
	IsIdx bool
}

// Where builds a first-class predicate from a field path, comparison
// operator, and comparison value (spec §3, §4.3, glossary "where predicate").
type Where struct {
	base
	Path  []PathSegment
	Op    string
	Value Node
}

// PredCombinator composes predicates: all-of / any-of / none-of.
type PredCombinator struct {
	base
	Kind  string // "all-of" | "any-of" | "none-of"
	Preds []Node
}

// CallTool invokes a host tool by (string-literal-validated) name with an
// evaluated argument map.
type CallTool struct {
	base
	Name   string
	ArgMap Node
}

// Call applies Fn to Args: a closure, keyword-as-accessor, or built-in name.
type Call struct {
	base
	Fn   Node
	Args []Node
}

// Def evaluates Value and binds Name in the outermost user frame.
type Def struct {
	base
	Name  string
	Value Node
}

// Do evaluates Exprs left-to-right, returning the last value.
type Do struct {
	base
	Exprs []Node
}

// Quote yields the raw (unevaluated) form converted to a Value, without
// evaluating any of its contents.
type Quote struct {
	base
	Raw value.Value
}

// Loop and Recur implement bounded-stack iteration. Neither appears in
// spec §3's Core AST enumeration, but spec §8's concrete timeout scenario
// ("(loop [] (recur))") requires them to parse and evaluate; they are an
// addition to that enumeration, not a removal or contradiction of anything
// spec.md names.
type Loop struct {
	base
	Bindings []Binding
	Body     []Node
}

// Recur re-invokes the nearest enclosing Loop (or Fn) with new argument
// values, without growing the Go call stack.
type Recur struct {
	base
	Args []Node
}
