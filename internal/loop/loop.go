// Package loop implements the Agentic Loop (spec.md §4.6): it drives a
// SubAgent invocation across turns, calling an LLM callback, extracting
// and running PTC-Lisp code, applying the memory-merge contract, and
// assembling the terminal internal/step.Step record. Turn logging is
// structured via github.com/sirupsen/logrus, grounded on the
// praxis-go-sdk DSL-analyzer pattern of a *logrus.Logger field with
// Debugf/WithFields at phase boundaries — the only ambient-logging
// pattern in the retrieval pack that targets an LLM/DSL execution loop.
package loop

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/go-ptclisp/internal/analyzer"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/interp"
	"github.com/cwbudde/go-ptclisp/internal/jsonbridge"
	"github.com/cwbudde/go-ptclisp/internal/llmscan"
	"github.com/cwbudde/go-ptclisp/internal/parser"
	"github.com/cwbudde/go-ptclisp/internal/sandbox"
	"github.com/cwbudde/go-ptclisp/internal/step"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Message is one conversation turn fed to, or produced by, the LLM.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// LLMInput is what the Loop hands the LLM callback each turn (spec.md §4.6
// step 1).
type LLMInput struct {
	System    string
	Messages  []Message
	Turn      int
	Memory    *value.Map
	ToolNames []string
}

// LLMFunc invokes the language model; a non-nil error is treated as
// llm_error (spec.md §6: "expect {:ok, text} or {:error, reason}").
type LLMFunc func(input LLMInput) (string, error)

// Signature optionally validates a run's final return value (spec.md
// §4.6 "Signature validation"). The spec leaves the signature format
// unspecified beyond "validated, mismatch -> validation_error"; resolved
// here as a caller-supplied predicate, the narrowest shape that satisfies
// the contract without inventing a schema language the spec never names.
type Signature struct {
	Validate func(value.Value) error
}

// Agent describes one SubAgent invocation (spec.md §6 "run_loop").
type Agent struct {
	Prompt       string
	Signature    *Signature
	Tools        map[string]interp.ToolFn
	MaxTurns     int           // default configurable, 5-10 typical
	Timeout      time.Duration // per-turn Sandbox timeout
	MemoryLimit  int64         // serialized memory byte cap, default ~1 MiB
	SystemPrompt string
	OutputMode   string
}

// Options carries the LLM callback(s) and ambient logger for one RunLoop
// call (spec.md §6 "run_loop... options provide an llm callback").
type Options struct {
	LLM         LLMFunc
	LLMRegistry map[string]LLMFunc
	Logger      *logrus.Logger
	ModelName   string // selects LLMRegistry[ModelName] when set, else LLM
}

const (
	defaultMaxTurns    = 8
	defaultMemoryLimit = 1 << 20 // ~1 MiB
	noCodeFoundMessage = "No valid PTC-Lisp code found"
)

// RunLoop drives agent to completion (spec.md §4.6/§4.7), returning the
// terminal Step. It never returns a Go error: every termination path,
// including llm_error and max_turns_exceeded, is expressed in the Step.
func RunLoop(agent Agent, ctx, memory *value.Map, opts Options) *step.Step {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}

	llmFn := opts.LLM
	if opts.ModelName != "" && opts.LLMRegistry != nil {
		if fn, ok := opts.LLMRegistry[opts.ModelName]; ok {
			llmFn = fn
		}
	}

	maxTurns := agent.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	memLimit := agent.MemoryLimit
	if memLimit <= 0 {
		memLimit = defaultMemoryLimit
	}

	toolNames := make([]string, 0, len(agent.Tools))
	for name := range agent.Tools {
		toolNames = append(toolNames, name)
	}

	journal := map[string]value.Value{}
	curMemory := memory
	if curMemory == nil {
		curMemory = value.EmptyMap()
	}
	startMemory := curMemory

	messages := []Message{{Role: "user", Content: agent.Prompt}}
	var trace []TraceEntryInternal

	traceID := step.NewTraceID()
	log.WithFields(logrus.Fields{"trace_id": traceID, "max_turns": maxTurns}).Debug("loop.start")

	for turn := 1; turn <= maxTurns; turn++ {
		log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn}).Debug("loop.turn.awaiting_llm")

		if llmFn == nil {
			return terminal(step.Fail{Reason: string(errors.KindLLMError), Message: "no LLM callback configured"}, curMemory, startMemory, turn-1, trace)
		}

		text, err := llmFn(LLMInput{
			System:    agent.SystemPrompt,
			Messages:  append([]Message(nil), messages...),
			Turn:      turn,
			Memory:    curMemory,
			ToolNames: toolNames,
		})
		if err != nil {
			return terminal(step.Fail{Reason: string(errors.KindLLMError), Message: err.Error()}, curMemory, startMemory, turn-1, trace)
		}

		code, found := llmscan.Extract(text)
		if !found {
			messages = append(messages, Message{Role: "assistant", Content: text})
			messages = append(messages, Message{Role: "user", Content: noCodeFoundMessage})
			log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn}).Debug("loop.turn.no_code_found")
			continue
		}

		prog, perr := parser.Parse(code)
		if perr != nil {
			messages = appendRecovery(messages, text, perr)
			log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn, "err": perr.Error()}).Debug("loop.turn.parse_error")
			continue
		}

		coreProg, aerr := analyzer.New().AnalyzeProgram(prog)
		if aerr != nil {
			messages = appendRecovery(messages, text, aerr)
			log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn, "err": aerr.Error()}).Debug("loop.turn.analyze_error")
			continue
		}

		cfg := sandbox.DefaultConfig()
		if agent.Timeout > 0 {
			cfg.Timeout = agent.Timeout
		}

		result, serr := sandbox.Run(coreProg, ctx, curMemory, agent.Tools, journal, cfg)

		switch sig := serr.(type) {
		case nil:
			candidate, merged := applyMemoryMerge(curMemory, result.Value)
			curMemory = merged
			trace = appendTrace(trace, turn, code, candidate, result, log, traceID)
			if exceeded, byteLen := memoryExceeds(curMemory, memLimit); exceeded {
				return terminal(step.Fail{Reason: string(errors.KindMemoryLimitExceeded), Message: humanMemorySize(byteLen, memLimit)}, curMemory, startMemory, turn, trace)
			}
			if maxTurns == 1 {
				return decide(candidate, nil, curMemory, startMemory, turn, trace, agent.Signature)
			}
			messages = append(messages, Message{Role: "assistant", Content: text})
			continue

		case *errors.ReturnSignal:
			_, merged := applyMemoryMerge(curMemory, result.Value)
			curMemory = merged
			trace = appendTrace(trace, turn, code, result.Value, result, log, traceID)
			if exceeded, byteLen := memoryExceeds(curMemory, memLimit); exceeded {
				return terminal(step.Fail{Reason: string(errors.KindMemoryLimitExceeded), Message: humanMemorySize(byteLen, memLimit)}, curMemory, startMemory, turn, trace)
			}
			return decide(result.Value, nil, curMemory, startMemory, turn, trace, agent.Signature)

		case *errors.FailSignal:
			trace = appendTrace(trace, turn, code, nil, result, log, traceID)
			return decide(nil, &step.Fail{Reason: sig.Reason, Message: sig.Message}, curMemory, startMemory, turn, trace, nil)

		default:
			structured := errors.AsError(serr)
			messages = appendRecovery(messages, text, structured)
			log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn, "err": structured.Error()}).Debug("loop.turn.sandbox_error")
			trace = appendTrace(trace, turn, code, nil, result, log, traceID)
			continue
		}
	}

	return terminal(step.Fail{Reason: string(errors.KindMaxTurnsExceeded), Message: "exceeded max_turns"}, curMemory, startMemory, maxTurns, trace)
}

func appendRecovery(messages []Message, originalResponse string, err error) []Message {
	messages = append(messages, Message{Role: "assistant", Content: originalResponse})
	formatted := errors.AsError(err).Format()
	return append(messages, Message{Role: "user", Content: formatted})
}

// applyMemoryMerge implements spec.md §6's memory-merge rules (bit-exact):
// a non-map return leaves memory unchanged; a map without :result merges
// wholesale and is itself the candidate return; a map with :result merges
// everything else and the :result value becomes the candidate return.
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

func memoryExceeds(memory *value.Map, limit int64) (bool, int) {
	encoded, err := jsonbridge.FromValue(memory)
	if err != nil {
		return false, 0
	}
	return int64(len(encoded)) > limit, len(encoded)
}

func humanMemorySize(byteLen int, limit int64) string {
	return errors.New(errors.KindMemoryLimitExceeded, "memory grew to %d bytes, exceeding the %d byte limit", byteLen, limit).Error()
}

// TraceEntryInternal mirrors step.TraceEntry but keeps sandbox.Result's
// richer per-turn data alive until the Step is finally assembled.
type TraceEntryInternal struct {
	Turn          int
	ProgramSource string
	Return        value.Value
	Prints        []string
	ToolCalls     []interp.ToolCallRecord
	DurationMs    int64
}

func appendTrace(trace []TraceEntryInternal, turn int, program string, ret value.Value, result *sandbox.Result, log *logrus.Logger, traceID string) []TraceEntryInternal {
	entry := TraceEntryInternal{Turn: turn, ProgramSource: program, Return: ret}
	if result != nil {
		entry.Prints = result.Prints
		entry.ToolCalls = result.ToolCalls
		entry.DurationMs = result.Metrics.DurationMs
	}
	log.WithFields(logrus.Fields{"trace_id": traceID, "turn": turn, "duration_ms": entry.DurationMs}).Debug("loop.turn.done")
	return append(trace, entry)
}

func toStepTrace(trace []TraceEntryInternal) []step.TraceEntry {
	out := make([]step.TraceEntry, len(trace))
	for i, t := range trace {
		calls := make([]step.ToolCallEntry, len(t.ToolCalls))
		for j, c := range t.ToolCalls {
			calls[j] = step.ToolCallEntry{Name: c.Name, Args: c.Args, Result: c.Result}
		}
		out[i] = step.TraceEntry{
			Turn:          t.Turn,
			ProgramSource: t.ProgramSource,
			Return:        t.Return,
			Prints:        t.Prints,
			ToolCalls:     calls,
			DurationMs:    t.DurationMs,
		}
	}
	return out
}

// memoryDelta returns the keys end added or changed relative to start
// (step.Step's "memory_delta": what this run actually wrote).
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

func decide(ret value.Value, fail *step.Fail, memory, startMemory *value.Map, turns int, trace []TraceEntryInternal, sig *Signature) *step.Step {
	if fail == nil && sig != nil && sig.Validate != nil {
		if err := sig.Validate(ret); err != nil {
			fail = &step.Fail{Reason: string(errors.KindValidationError), Message: err.Error()}
			ret = nil
		}
	}
	return &step.Step{
		Return:      ret,
		Fail:        fail,
		Memory:      memory,
		MemoryDelta: memoryDelta(startMemory, memory),
		Usage:       step.Usage{Turns: turns},
		Trace:       toStepTrace(trace),
	}
}

func terminal(fail step.Fail, memory, startMemory *value.Map, turns int, trace []TraceEntryInternal) *step.Step {
	return decide(nil, &fail, memory, startMemory, turns, trace, nil)
}
