package interp

import (
	"time"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// ToolFn is the host tool contract (spec §6): one argument map, any Value
// result, or an error the evaluator wraps as tool_error.
type ToolFn func(args *value.Map) (value.Value, error)

// ToolCallRecord is one entry of the per-evaluation tool-call bag (spec §3
// "Lifetimes": "Tool-call side effects ... are collected in a per-evaluation
// bag that the Sandbox returns with the value").
type ToolCallRecord struct {
	Name   string
	Args   value.Value
	Result value.Value
}

// EvalContext carries everything one evaluation needs beyond the Core AST
// and Environment chain: read-only ctx/memory snapshots, the tool registry,
// the cross-turn journal, and the Sandbox's resource limits. It is built
// once per evaluation (spec §4.3's "(CoreAST, ctx, memory, env, tool_fn)").
type EvalContext struct {
	Ctx    *value.Map
	Memory *value.Map
	// memoryOverlay holds writes from (memory/put k v) and (def ...)-style
	// map mutation during this evaluation; nil means no writes yet.
	memoryOverlay *value.Map

	Tools   map[string]ToolFn
	Journal map[string]value.Value // task-id -> cached result, owned by the Loop

	Deadline time.Time

	HeapLimit   int64 // <=0 disables accounting
	heapUsed    int64
	PrintLenCap int // default 2000 (spec §4.5)

	Prints    *[]string
	ToolCalls *[]ToolCallRecord

	// Discard is set for pmap/pcalls worker contexts: prints and tool calls
	// are recorded into a throwaway bag instead of the turn's real one
	// (spec §4.3/§5 "parallel primitives discard print and tool-call records").
	Discard bool

	PoolSize int // pmap/pcalls worker cap
}

// EffectiveMemory returns the current memory snapshot, including any writes
// made so far this evaluation.
func (ec *EvalContext) EffectiveMemory() *value.Map {
	if ec.memoryOverlay != nil {
		return ec.memoryOverlay
	}
	return ec.Memory
}

// PutMemory records (memory/put k v), used by the "memory" builtins file.
func (ec *EvalContext) PutMemory(k, v value.Value) {
	ec.memoryOverlay = ec.EffectiveMemory().Assoc(k, v)
}

// CheckDeadline implements the cooperative timeout check (spec §5: "the
// sandbox periodically checks deadline between evaluation steps").
func (ec *EvalContext) CheckDeadline() error {
	if ec.Deadline.IsZero() {
		return nil
	}
	if time.Now().After(ec.Deadline) {
		return errors.New(errors.KindTimeout, "evaluation exceeded its timeout")
	}
	return nil
}

// accountBytes applies an approximate allocation-cost charge when Eval
// builds a vector, map or set literal (spec §4.5/§5); built-ins and string
// builds are not charged. It is a coarse estimate, not a precise heap
// accounting.
func (ec *EvalContext) accountBytes(n int64) error {
	if ec.HeapLimit <= 0 {
		return nil
	}
	ec.heapUsed += n
	if ec.heapUsed > ec.HeapLimit {
		return errors.New(errors.KindMemoryExceeded, "evaluation exceeded its memory budget")
	}
	return nil
}

// childContext returns a copy of ec suitable for a pmap/pcalls worker: ctx
// and memory are shared read-only snapshots (workers never write back),
// and prints/tool-calls are redirected into a throwaway bag (spec §5:
// "Parallel workers receive a copy of ctx and memory; they cannot write
// back to memory"). Journal gets the same copy-on-fork treatment: a
// shallow struct copy would alias the parent's map across every worker
// goroutine, and task/step-done/task-reset mutate it with no
// synchronization, so each worker instead gets its own private map
// snapshotted at fork time.
func (ec *EvalContext) childContext() *EvalContext {
	discardPrints := []string{}
	discardCalls := []ToolCallRecord{}
	child := *ec
	child.Journal = copyJournal(ec.Journal)
	child.Prints = &discardPrints
	child.ToolCalls = &discardCalls
	child.Discard = true
	return &child
}

func copyJournal(j map[string]value.Value) map[string]value.Value {
	if j == nil {
		return nil
	}
	out := make(map[string]value.Value, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

func recordPrint(ec *EvalContext, s string) {
	if ec.PrintLenCap > 0 && len(s) > ec.PrintLenCap {
		s = s[:ec.PrintLenCap]
	}
	if ec.Prints != nil {
		*ec.Prints = append(*ec.Prints, s)
	}
}
