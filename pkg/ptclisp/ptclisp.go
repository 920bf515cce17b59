// Package ptclisp is the public facade over the PTC-Lisp interpreter
// (spec.md §6 "External interfaces"): a single-turn Run, a multi-turn
// RunLoop, and FormatError. Everything else — parser, analyzer, evaluator,
// sandbox, agentic loop — lives in internal/ and is reached only through
// this package, the way the teacher's pkg/dwscript hides compiler/vm/ffi
// behind New/Eval/RegisterFunction. PTC-Lisp has no persistent compiled
// program to hold a stateful Engine around, so the facade is a small set
// of package-level functions plus functional RunOptions, rather than a
// teacher-style Engine value.
package ptclisp

import (
	"time"

	"github.com/cwbudde/go-ptclisp/internal/analyzer"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/interp"
	"github.com/cwbudde/go-ptclisp/internal/loop"
	"github.com/cwbudde/go-ptclisp/internal/parser"
	"github.com/cwbudde/go-ptclisp/internal/sandbox"
	"github.com/cwbudde/go-ptclisp/internal/step"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Re-exported types so callers never need to import internal/ packages
// directly (spec.md §6's Step/Agent/LLM shapes).
type (
	Step          = step.Step
	Fail          = step.Fail
	Usage         = step.Usage
	TraceEntry    = step.TraceEntry
	ToolCallEntry = step.ToolCallEntry
	ToolFn        = interp.ToolFn
	Agent         = loop.Agent
	Signature     = loop.Signature
	Message       = loop.Message
	LLMInput      = loop.LLMInput
	LLMFunc       = loop.LLMFunc
	LoopOptions   = loop.Options
)

// RunOptions is the single-turn counterpart of spec.md §6's
// `options = {context, memory, tools, timeout_ms, max_heap, float_precision}`.
type RunOptions struct {
	Context        *value.Map
	Memory         *value.Map
	Tools          map[string]ToolFn
	TimeoutMs      int
	MaxHeap        int64
	FloatPrecision *int // reserved: parser/printer currently use Go's default float formatting
}

// RunOption mutates a RunOptions in place, following the teacher's
// functional-option style (pkg/dwscript's WithTypeCheck, WithOutput, ...).
type RunOption func(*RunOptions)

func WithContext(ctx *value.Map) RunOption { return func(o *RunOptions) { o.Context = ctx } }
func WithMemory(mem *value.Map) RunOption  { return func(o *RunOptions) { o.Memory = mem } }
func WithTools(tools map[string]ToolFn) RunOption {
	return func(o *RunOptions) { o.Tools = tools }
}
func WithTimeoutMs(ms int) RunOption { return func(o *RunOptions) { o.TimeoutMs = ms } }
func WithMaxHeap(bytes int64) RunOption {
	return func(o *RunOptions) { o.MaxHeap = bytes }
}

// Run evaluates source once against opts (spec.md §6 "run(source, options)
// -> Step"). Unlike RunLoop there is no LLM driving further turns: a parse,
// analyze or sandbox error is reported directly on the returned Step's Fail
// rather than fed back to anyone.
func Run(source string, opts ...RunOption) *Step {
	cfg := RunOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = value.EmptyMap()
	}
	memory := cfg.Memory
	if memory == nil {
		memory = value.EmptyMap()
	}
	startMemory := memory

	prog, perr := parser.Parse(source)
	if perr != nil {
		return failStep(errors.AsError(perr), memory, startMemory)
	}

	coreProg, aerr := analyzer.New().AnalyzeProgram(prog)
	if aerr != nil {
		return failStep(errors.AsError(aerr), memory, startMemory)
	}

	sc := sandbox.DefaultConfig()
	if cfg.TimeoutMs > 0 {
		sc.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	if cfg.MaxHeap > 0 {
		sc.MaxHeap = cfg.MaxHeap
	}

	result, serr := sandbox.Run(coreProg, ctx, memory, cfg.Tools, map[string]value.Value{}, sc)

	switch sig := serr.(type) {
	case nil:
		ret, merged := applyMemoryMerge(memory, result.Value)
		return &Step{
			Return:      ret,
			Memory:      merged,
			MemoryDelta: memoryDelta(startMemory, merged),
			Usage:       Usage{Turns: 1},
			Trace:       []TraceEntry{turnTrace(source, ret, result)},
		}
	case *errors.ReturnSignal:
		v, _ := sig.Value.(value.Value)
		ret, merged := applyMemoryMerge(memory, v)
		return &Step{
			Return:      ret,
			Memory:      merged,
			MemoryDelta: memoryDelta(startMemory, merged),
			Usage:       Usage{Turns: 1},
			Trace:       []TraceEntry{turnTrace(source, ret, result)},
		}
	case *errors.FailSignal:
		mem := memory
		if result != nil && result.NewMemory != nil {
			mem = result.NewMemory
		}
		return &Step{
			Fail:        &Fail{Reason: sig.Reason, Message: sig.Message},
			Memory:      mem,
			MemoryDelta: memoryDelta(startMemory, mem),
			Usage:       Usage{Turns: 1},
			Trace:       []TraceEntry{turnTrace(source, nil, result)},
		}
	default:
		return failStep(errors.AsError(serr), memory, startMemory)
	}
}

// RunLoop drives a multi-turn SubAgent to completion (spec.md §6
// "run_loop(agent, options) -> Step"); it is a thin pass-through to
// internal/loop, which already owns the full turn state machine.
func RunLoop(agent Agent, ctx, memory *value.Map, opts LoopOptions) *Step {
	return loop.RunLoop(agent, ctx, memory, opts)
}

// FormatError renders err as the short, imperative, LLM-friendly one-liner
// spec.md §6 requires ("format_error(error) -> String").
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return errors.AsError(err).Format()
}

func failStep(err *errors.Error, memory, startMemory *value.Map) *Step {
	return &Step{
		Fail:        &Fail{Reason: string(err.Kind), Message: err.Format()},
		Memory:      memory,
		MemoryDelta: memoryDelta(startMemory, memory),
		Usage:       Usage{Turns: 1},
	}
}

func turnTrace(source string, ret value.Value, result *sandbox.Result) TraceEntry {
	entry := TraceEntry{Turn: 1, ProgramSource: source, Return: ret}
	if result != nil {
		entry.DurationMs = result.Metrics.DurationMs
		entry.Prints = result.Prints
		calls := make([]ToolCallEntry, len(result.ToolCalls))
		for i, c := range result.ToolCalls {
			calls[i] = ToolCallEntry{Name: c.Name, Args: c.Args, Result: c.Result}
		}
		entry.ToolCalls = calls
	}
	return entry
}

// applyMemoryMerge mirrors internal/loop's unexported helper of the same
// name: spec.md §6's bit-exact memory-merge rules. Run is single-shot, so
// it cannot share internal/loop's private turn machinery, but the merge
// contract itself must still match exactly.
func applyMemoryMerge(memory *value.Map, returned value.Value) (value.Value, *value.Map) {
	m, ok := returned.(*value.Map)
	if !ok {
		return returned, memory
	}
	if resultVal, found := interp.FlexGet(m, value.Keyword{Name: "result"}); found {
		rest := m.Dissoc(value.Keyword{Name: "result"}).Dissoc(value.Str{Value: "result"})
		return resultVal, memory.Merge(rest)
	}
	return m, memory.Merge(m)
}

func memoryDelta(start, end *value.Map) *value.Map {
	delta := value.EmptyMap()
	for _, k := range end.SortedKeys() {
		v, _ := end.Get(k)
		if old, found := start.Get(k); !found || !value.Equal(old, v) {
			delta = delta.Assoc(k, v)
		}
	}
	return delta
}
