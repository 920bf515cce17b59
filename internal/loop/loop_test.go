package loop

import (
	"errors"
	"testing"

	pkgerrors "github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func scriptedLLM(responses ...string) LLMFunc {
	i := 0
	return func(LLMInput) (string, error) {
		if i >= len(responses) {
			return "", errors.New("scriptedLLM: ran out of responses")
		}
		r := responses[i]
		i++
		return r, nil
	}
}

func TestRunLoop_SingleTurnReturn(t *testing.T) {
	agent := Agent{Prompt: "add", MaxTurns: 3}
	opts := Options{LLM: scriptedLLM("(return (+ 1 2))")}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail != nil {
		t.Fatalf("RunLoop() Fail = %+v, want nil", step.Fail)
	}
	if got, ok := step.Return.(value.Int); !ok || got.Value != 3 {
		t.Errorf("RunLoop() Return = %#v, want Int(3)", step.Return)
	}
	if step.Usage.Turns != 1 {
		t.Errorf("RunLoop() Turns = %d, want 1", step.Usage.Turns)
	}
}

func TestRunLoop_MemoryMergeWithResult(t *testing.T) {
	// A plain map return (no (return ...)/(fail ...) signal) is only
	// decided immediately when max_turns is 1 -- otherwise the Loop
	// treats it as an ordinary turn and asks the LLM to continue.
	agent := Agent{Prompt: "remember", MaxTurns: 1}
	opts := Options{LLM: scriptedLLM(`{:result "ok" :seen true}`)}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail != nil {
		t.Fatalf("RunLoop() Fail = %+v", step.Fail)
	}
	if got, ok := step.Return.(value.Str); !ok || got.Value != "ok" {
		t.Errorf("RunLoop() Return = %#v, want Str(\"ok\")", step.Return)
	}
	seen, found := step.Memory.Get(value.Keyword{Name: "seen"})
	if !found || seen != value.True {
		t.Errorf("RunLoop() Memory[:seen] = %v, %v, want true", seen, found)
	}
	if _, found := step.Memory.Get(value.Keyword{Name: "result"}); found {
		t.Error("RunLoop() Memory should not retain :result per the merge contract")
	}
}

func TestRunLoop_MultiTurnMemoryPersists(t *testing.T) {
	agent := Agent{Prompt: "two turns", MaxTurns: 3}
	opts := Options{LLM: scriptedLLM(
		`{:seen true}`,
		`(return memory/seen)`,
	)}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail != nil {
		t.Fatalf("RunLoop() Fail = %+v", step.Fail)
	}
	if step.Return != value.True {
		t.Errorf("RunLoop() Return = %#v, want true (read back from memory)", step.Return)
	}
	if step.Usage.Turns != 2 {
		t.Errorf("RunLoop() Turns = %d, want 2", step.Usage.Turns)
	}
}

func TestRunLoop_FailSignalBecomesStepFail(t *testing.T) {
	agent := Agent{Prompt: "fail fast", MaxTurns: 3}
	opts := Options{LLM: scriptedLLM(`(fail {:reason "bad-input" :message "nope"})`)}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail == nil {
		t.Fatal("RunLoop() Fail = nil, want a Fail")
	}
	if step.Fail.Reason != "bad-input" || step.Fail.Message != "nope" {
		t.Errorf("RunLoop() Fail = %+v", step.Fail)
	}
}

func TestRunLoop_NoCodeFoundRetriesThenExceedsTurns(t *testing.T) {
	agent := Agent{Prompt: "confused", MaxTurns: 2}
	opts := Options{LLM: scriptedLLM("I don't know what to do.", "Still unsure.")}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail == nil || step.Fail.Reason != string(pkgerrors.KindMaxTurnsExceeded) {
		t.Fatalf("RunLoop() Fail = %+v, want max_turns_exceeded", step.Fail)
	}
}

func TestRunLoop_LLMErrorIsTerminal(t *testing.T) {
	agent := Agent{Prompt: "broken llm", MaxTurns: 3}
	opts := Options{LLM: func(LLMInput) (string, error) {
		return "", errors.New("connection refused")
	}}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail == nil || step.Fail.Reason != string(pkgerrors.KindLLMError) {
		t.Fatalf("RunLoop() Fail = %+v, want llm_error", step.Fail)
	}
}

func TestRunLoop_NoLLMConfigured(t *testing.T) {
	agent := Agent{Prompt: "no llm", MaxTurns: 3}
	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), Options{})

	if step.Fail == nil || step.Fail.Reason != string(pkgerrors.KindLLMError) {
		t.Fatalf("RunLoop() Fail = %+v, want llm_error", step.Fail)
	}
}

func TestRunLoop_SignatureValidationFailure(t *testing.T) {
	agent := Agent{
		Prompt:   "validated",
		MaxTurns: 3,
		Signature: &Signature{Validate: func(v value.Value) error {
			if _, ok := v.(value.Int); !ok {
				return errors.New("expected an int")
			}
			return nil
		}},
	}
	opts := Options{LLM: scriptedLLM(`(return "not an int")`)}

	step := RunLoop(agent, value.EmptyMap(), value.EmptyMap(), opts)

	if step.Fail == nil || step.Fail.Reason != string(pkgerrors.KindValidationError) {
		t.Fatalf("RunLoop() Fail = %+v, want validation_error", step.Fail)
	}
}
