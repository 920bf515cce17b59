// Package step implements the canonical terminal result record (spec.md
// §3 "Step", §6 "Agentic API") accumulated by internal/loop across turns,
// plus trace-file sanitization for the wire format described in spec.md
// §6 ("Trace file format").
package step

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/go-ptclisp/internal/value"
)

// Fail is the {reason, message} pair populated when a run ends via
// (fail ...) or a terminal Loop condition (spec.md §3 "fail is {reason:
// ErrorKind, message: String} or nil").
type Fail struct {
	Reason  string
	Message string
}

// Usage counts the turns of one run (spec.md §3's "usage").
type Usage struct {
	Turns int
}

// TraceEntry records one turn's program and its effects (spec.md §3
// "trace is an ordered list of {turn, program_source, return, prints,
// tool_calls, duration_ms}").
type TraceEntry struct {
	Turn          int
	ProgramSource string
	Return        value.Value
	Prints        []string
	ToolCalls     []ToolCallEntry
	DurationMs    int64
}

// ToolCallEntry is a trace-safe projection of one tool invocation.
type ToolCallEntry struct {
	Name   string
	Args   value.Value
	Result value.Value
}

// Step is the canonical terminal record of a run (spec.md §3 "Step").
type Step struct {
	Return      value.Value
	Fail        *Fail
	Memory      *value.Map
	MemoryDelta *value.Map
	Usage       Usage
	Trace       []TraceEntry
}

// NewTraceID generates a trace identifier (spec.md §6 "Trace file format":
// "trace_id"), grounded on the teacher-adjacent pack's use of
// google/uuid.NewString for request/run identifiers.
func NewTraceID() string {
	return uuid.NewString()
}

// sanitizeLimits bound the trace-file sanitization rule (spec.md §6:
// "binaries over 1 KB are summarized... lists over 100 items rendered as
// 'List(N items)'").
const (
	maxBinaryBytes = 1024
	maxListItems   = 100
)

// Sanitize converts a Value into a plain Go value suitable for JSON trace
// lines, applying spec.md §6's sanitization rules: large strings/binaries
// are summarized, long lists are collapsed, and Value structs are
// flattened into maps/slices instead of emitting opaque Go types.
func Sanitize(v value.Value) any {
	switch t := v.(type) {
	case nil:
		return nil
	case value.Nil:
		return nil
	case value.Bool:
		return t.Value
	case value.Int:
		return t.Value
	case value.Float:
		return t.Value
	case value.Str:
		if len(t.Value) > maxBinaryBytes {
			return map[string]any{"__binary__": true, "size": len(t.Value)}
		}
		return t.Value
	case value.Keyword:
		return ":" + t.Name
	case value.Vector:
		if len(t.Items) > maxListItems {
			return sanitizeListSummary(len(t.Items))
		}
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = Sanitize(item)
		}
		return out
	case value.Set:
		vals := t.Values()
		if len(vals) > maxListItems {
			return sanitizeListSummary(len(vals))
		}
		out := make([]any, len(vals))
		for i, item := range vals {
			out[i] = Sanitize(item)
		}
		return out
	case *value.Map:
		out := make(map[string]any, t.Len())
		for _, k := range t.SortedKeys() {
			val, _ := t.Get(k)
			out[k.String()] = Sanitize(val)
		}
		return out
	default:
		return v.String()
	}
}

func sanitizeListSummary(n int) string {
	return "List(" + strconv.Itoa(n) + " items)"
}

// TraceLine is one "turn" event in the trace-file format (spec.md §6).
type TraceLine struct {
	Event     string
	TraceID   string
	Timestamp time.Time
	Turn      int
	Payload   map[string]any
}
