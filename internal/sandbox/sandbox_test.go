package sandbox

import (
	"testing"
	"time"

	"github.com/cwbudde/go-ptclisp/internal/analyzer"
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/interp"
	"github.com/cwbudde/go-ptclisp/internal/parser"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func mustCompile(t *testing.T, source string) coreast.Node {
	t.Helper()
	prog, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parser.Parse(%q) error = %v", source, err)
	}
	core, err := analyzer.New().AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("AnalyzeProgram(%q) error = %v", source, err)
	}
	return core
}

func TestRun_Arithmetic(t *testing.T) {
	prog := mustCompile(t, "(+ 1 2 3)")
	result, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, ok := result.Value.(value.Int); !ok || got.Value != 6 {
		t.Errorf("Run() value = %#v, want Int(6)", result.Value)
	}
}

func TestRun_ReturnSignalPreservesState(t *testing.T) {
	prog := mustCompile(t, `(do (println "hi") (return 42))`)
	result, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, nil, DefaultConfig())
	if _, ok := err.(*errors.ReturnSignal); !ok {
		t.Fatalf("Run() error = %v (%T), want *errors.ReturnSignal", err, err)
	}
	if got, ok := result.Value.(value.Int); !ok || got.Value != 42 {
		t.Errorf("Run() value = %#v, want Int(42)", result.Value)
	}
	if len(result.Prints) != 1 || result.Prints[0] != "hi" {
		t.Errorf("Run() prints = %#v, want [\"hi\"]", result.Prints)
	}
	if result.NewMemory == nil {
		t.Error("Run() NewMemory = nil on a ReturnSignal, want the entry memory snapshot")
	}
}

func TestRun_FailSignal(t *testing.T) {
	prog := mustCompile(t, `(fail {:reason "bad-input" :message "nope"})`)
	result, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, nil, DefaultConfig())
	sig, ok := err.(*errors.FailSignal)
	if !ok {
		t.Fatalf("Run() error = %v (%T), want *errors.FailSignal", err, err)
	}
	if sig.Reason != "bad-input" || sig.Message != "nope" {
		t.Errorf("FailSignal = %+v", sig)
	}
	if result.NewMemory == nil {
		t.Error("Run() NewMemory = nil on a FailSignal")
	}
}

func TestRun_EvaluatorErrorDiscardsPartialState(t *testing.T) {
	prog := mustCompile(t, "(unbound-name)")
	result, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, nil, DefaultConfig())
	if err == nil {
		t.Fatal("Run() error = nil, want unbound_var")
	}
	if result.Value != nil {
		t.Errorf("Run() value = %#v, want nil on a genuine evaluator error", result.Value)
	}
}

func TestRun_TimeoutIsEnforced(t *testing.T) {
	// loop/recur and closure recursion are capped at 1000 iterations
	// before a timeout could fire, so this forces the slow path through
	// a non-recur higher-order call repeated enough times to blow well
	// past a near-zero deadline.
	prog := mustCompile(t, "(reduce + 0 (map (fn [n] (* n n)) (range 5000000)))")
	cfg := DefaultConfig()
	cfg.Timeout = 1 * time.Millisecond
	_, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, nil, cfg)
	structured := AsStructuredError(err)
	if structured == nil || structured.Kind != errors.KindTimeout {
		t.Fatalf("Run() error = %v, want kind %q", err, errors.KindTimeout)
	}
}

func TestRun_ToolCallIsRecorded(t *testing.T) {
	tools := map[string]interp.ToolFn{
		"echo": func(args *value.Map) (value.Value, error) {
			return args, nil
		},
	}
	prog := mustCompile(t, `(call "echo" {:msg "hi"})`)
	result, err := Run(prog, value.EmptyMap(), value.EmptyMap(), tools, map[string]value.Value{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Name != "echo" {
		t.Errorf("Run() tool calls = %#v, want one call to echo", result.ToolCalls)
	}
}

func TestRun_UnknownToolIsAnError(t *testing.T) {
	prog := mustCompile(t, `(call "nope" {})`)
	_, err := Run(prog, value.EmptyMap(), value.EmptyMap(), nil, map[string]value.Value{}, DefaultConfig())
	structured := AsStructuredError(err)
	if structured == nil || structured.Kind != errors.KindUnknownTool {
		t.Fatalf("Run() error = %v, want kind %q", err, errors.KindUnknownTool)
	}
}
