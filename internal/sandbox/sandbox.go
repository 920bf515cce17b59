// Package sandbox wraps one Evaluator run in a bounded execution unit:
// wall-clock timeout, approximate heap cap, iteration cap (enforced inside
// internal/interp's loop/recur trampoline) and print-length cap (spec.md
// §4.5). It is the boundary the Agentic Loop calls once per turn.
package sandbox

import (
	"time"

	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/interp"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Config holds the resource limits for one evaluation (spec.md §4.5).
type Config struct {
	Timeout     time.Duration // default 1000ms
	MaxHeap     int64         // approximate byte budget; <=0 disables accounting
	PrintLenCap int           // default 2000
	PoolSize    int           // pmap/pcalls worker cap; <=0 uses a fixed cap of 8
}

// DefaultConfig matches spec.md §4.5's stated defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     1000 * time.Millisecond,
		MaxHeap:     10 * 1024 * 1024,
		PrintLenCap: 2000,
	}
}

// Metrics reports what the evaluation cost (spec.md §4.5: "Metrics include
// duration_ms and approximate memory_bytes").
type Metrics struct {
	DurationMs  int64
	MemoryBytes int64
}

// Result is the Sandbox's successful-or-failed output (spec.md §4.5:
// "(value, metrics, new_memory, prints, tool_calls) or a structured error").
type Result struct {
	Value     value.Value
	Metrics   Metrics
	NewMemory *value.Map
	Prints    []string
	ToolCalls []interp.ToolCallRecord
}

// Run evaluates prog against ctx/memory/tools/journal under cfg's resource
// limits. On a genuine evaluation error, Result carries only the entry
// memory snapshot — no partial evaluation state leaks out (spec.md §4.5:
// "On failure the Sandbox does NOT leak partial state to the caller except
// the memory snapshot at entry"). A return or fail signal is not such an
// error: its Result carries the memory, prints and tool calls accumulated
// up to that point.
func Run(prog coreast.Node, ctx, memory *value.Map, tools map[string]interp.ToolFn, journal map[string]value.Value, cfg Config) (*Result, error) {
	start := time.Now()
	printCap := cfg.PrintLenCap
	if printCap <= 0 {
		printCap = 2000
	}
	prints := []string{}
	toolCalls := []interp.ToolCallRecord{}

	ec := &interp.EvalContext{
		Ctx:         ctx,
		Memory:      memory,
		Tools:       tools,
		Journal:     journal,
		HeapLimit:   cfg.MaxHeap,
		PrintLenCap: printCap,
		Prints:      &prints,
		ToolCalls:   &toolCalls,
		PoolSize:    cfg.PoolSize,
	}
	if cfg.Timeout > 0 {
		ec.Deadline = start.Add(cfg.Timeout)
	}

	env := interp.NewEnvironment()
	result, err := interp.Eval(prog, env, ec)
	metrics := Metrics{DurationMs: time.Since(start).Milliseconds()}

	if err != nil {
		// return/fail are termination signals, not errors (spec.md §7):
		// the turn's memory writes and side-effect bags up to that point
		// still stand, unlike a genuine evaluation error.
		switch sig := err.(type) {
		case *errors.ReturnSignal:
			v, _ := sig.Value.(value.Value)
			return &Result{Value: v, Metrics: metrics, NewMemory: ec.EffectiveMemory(), Prints: prints, ToolCalls: toolCalls}, err
		case *errors.FailSignal:
			return &Result{Metrics: metrics, NewMemory: ec.EffectiveMemory(), Prints: prints, ToolCalls: toolCalls}, err
		}
		return &Result{Metrics: metrics, NewMemory: memory}, err
	}
	return &Result{
		Value:     result,
		Metrics:   metrics,
		NewMemory: ec.EffectiveMemory(),
		Prints:    prints,
		ToolCalls: toolCalls,
	}, nil
}

// AsStructuredError normalizes any error the Sandbox produced into
// *errors.Error, leaving ReturnSignal/FailSignal as-is since those are not
// errors in the turn-level sense (spec.md §7) — callers should type-switch
// for those before falling back to this.
func AsStructuredError(err error) *errors.Error {
	return errors.AsError(err)
}
