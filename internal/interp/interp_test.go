package interp

import (
	"testing"

	"github.com/cwbudde/go-ptclisp/internal/analyzer"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/parser"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// evalSource parses, analyzes and evaluates source against a fresh
// EvalContext/Environment, the common harness every test in this package
// builds on.
func evalSource(t *testing.T, source string, tools map[string]ToolFn) (value.Value, *EvalContext, error) {
	t.Helper()
	prog, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parser.Parse(%q) error = %v", source, err)
	}
	core, err := analyzer.New().AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("AnalyzeProgram(%q) error = %v", source, err)
	}
	prints := []string{}
	calls := []ToolCallRecord{}
	ec := &EvalContext{
		Ctx:         value.EmptyMap(),
		Memory:      value.EmptyMap(),
		Tools:       tools,
		Journal:     map[string]value.Value{},
		PrintLenCap: 2000,
		Prints:      &prints,
		ToolCalls:   &calls,
	}
	v, err := Eval(core, NewEnvironment(), ec)
	return v, ec, err
}

func eval(t *testing.T, source string) value.Value {
	t.Helper()
	v, _, err := evalSource(t, source, nil)
	if err != nil {
		t.Fatalf("eval(%q) error = %v", source, err)
	}
	return v
}

func evalErr(t *testing.T, source string) error {
	t.Helper()
	_, _, err := evalSource(t, source, nil)
	if err == nil {
		t.Fatalf("eval(%q): expected an error, got none", source)
	}
	return err
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   value.Value
	}{
		{"(+ 1 2 3)", value.Int{Value: 6}},
		{"(+ 1 2.5)", value.Float{Value: 3.5}},
		{"(- 10 3 2)", value.Int{Value: 5}},
		{"(* 2 3 4)", value.Int{Value: 24}},
		{"(/ 10 4)", value.Int{Value: 2}},
		{"(/ 10.0 4)", value.Float{Value: 2.5}},
		{"(quot 7 2)", value.Int{Value: 3}},
		{"(rem 7 2)", value.Int{Value: 1}},
		{"(mod -7 2)", value.Int{Value: 1}},
		{"(inc 5)", value.Int{Value: 6}},
		{"(dec 5)", value.Int{Value: 4}},
		{"(abs -5)", value.Int{Value: 5}},
		{"(min 3 1 2)", value.Int{Value: 1}},
		{"(max 3 1 2)", value.Int{Value: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := eval(t, tt.source)
			if !value.Equal(got, tt.want) {
				t.Errorf("eval(%q) = %#v, want %#v", tt.source, got, tt.want)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	err := evalErr(t, "(/ 1 0)")
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindArithmeticError {
		t.Errorf("eval(\"(/ 1 0)\") error = %v, want kind %q", err, errors.KindArithmeticError)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"(= 1 1)", true},
		{"(= 1 2)", false},
		{"(not= 1 2)", true},
		{"(> 3 2)", true},
		{"(< 3 2)", false},
		{"(>= 3 3)", true},
		{"(<= 2 3)", true},
		{"(even? 4)", true},
		{"(odd? 3)", true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := eval(t, tt.source)
			if got != value.Bool_(tt.want) {
				t.Errorf("eval(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestCollectionsFilterMapReduce(t *testing.T) {
	got := eval(t, "(reduce + 0 (filter even? (range 10)))")
	if want := value.Int{Value: 20}; !value.Equal(got, want) {
		t.Errorf("reduce/filter/range = %#v, want %#v", got, want)
	}

	got = eval(t, "(count (map inc [1 2 3]))")
	if want := (value.Int{Value: 3}); !value.Equal(got, want) {
		t.Errorf("count(map ...) = %#v, want %#v", got, want)
	}

	got = eval(t, `(first (sort-by - [3 1 2]))`)
	if want := (value.Int{Value: 3}); !value.Equal(got, want) {
		t.Errorf("first(sort-by) = %#v, want %#v", got, want)
	}
}

func TestSortByAscendingDefault(t *testing.T) {
	got := eval(t, `(sort-by (fn [x] x) [3 1 2])`)
	vec, ok := got.(value.Vector)
	if !ok || len(vec.Items) != 3 {
		t.Fatalf("sort-by = %#v, want a 3-item Vector", got)
	}
	want := []int64{1, 2, 3}
	for i, item := range vec.Items {
		if v, ok := item.(value.Int); !ok || v.Value != want[i] {
			t.Errorf("sort-by ascending result[%d] = %#v, want %d", i, item, want[i])
		}
	}
}

func TestSortByDescendingComparator(t *testing.T) {
	got := eval(t, `(sort-by (fn [x] x) > [3 1 2])`)
	vec, ok := got.(value.Vector)
	if !ok || len(vec.Items) != 3 {
		t.Fatalf("sort-by with > comparator = %#v, want a 3-item Vector", got)
	}
	want := []int64{3, 2, 1}
	for i, item := range vec.Items {
		if v, ok := item.(value.Int); !ok || v.Value != want[i] {
			t.Errorf("sort-by descending result[%d] = %#v, want %d", i, item, want[i])
		}
	}
}

func TestSortNilKeysLast(t *testing.T) {
	got := eval(t, `(sort-by :age [{:age 2} {:age nil} {:age 1}])`)
	vec, ok := got.(value.Vector)
	if !ok || len(vec.Items) != 3 {
		t.Fatalf("sort-by = %#v, want a 3-item Vector", got)
	}
	last, ok := vec.Items[2].(*value.Map)
	if !ok {
		t.Fatalf("last element = %#v, want a *value.Map", vec.Items[2])
	}
	age, _ := FlexGet(last, value.Keyword{Name: "age"})
	if _, isNil := age.(value.Nil); !isNil {
		t.Errorf("last element's :age = %#v, want nil (nil keys must sort last)", age)
	}
}

func TestMapOps(t *testing.T) {
	got := eval(t, `(:a (assoc {} :a 1 :b 2))`)
	if want := (value.Int{Value: 1}); !value.Equal(got, want) {
		t.Errorf(":a (assoc ...) = %#v, want %#v", got, want)
	}

	got = eval(t, `(get-in {:a {:b 42}} [:a :b])`)
	if want := (value.Int{Value: 42}); !value.Equal(got, want) {
		t.Errorf("get-in = %#v, want %#v", got, want)
	}

	got = eval(t, `(keys (dissoc {:a 1 :b 2} :a))`)
	if vec, ok := got.(value.Vector); !ok || len(vec.Items) != 1 {
		t.Errorf("keys(dissoc) = %#v, want a 1-item Vector", got)
	}
}

func TestStringOps(t *testing.T) {
	got := eval(t, `(str "a" "-" "b")`)
	if want := (value.Str{Value: "a-b"}); !value.Equal(got, want) {
		t.Errorf("str = %#v, want %#v", got, want)
	}

	got = eval(t, `(upper-case "go")`)
	if want := (value.Str{Value: "GO"}); !value.Equal(got, want) {
		t.Errorf("upper-case = %#v, want %#v", got, want)
	}

	got = eval(t, `(includes? "hello world" "world")`)
	if got != value.True {
		t.Errorf("includes? = %v, want true", got)
	}
}

func TestClosuresAndLet(t *testing.T) {
	got := eval(t, `(let [f (fn [x] (* x x))] (f 6))`)
	if want := (value.Int{Value: 36}); !value.Equal(got, want) {
		t.Errorf("closure call = %#v, want %#v", got, want)
	}
}

func TestLoopRecur(t *testing.T) {
	got := eval(t, `(loop [n 0 acc 0] (if (= n 5) acc (recur (inc n) (+ acc n))))`)
	if want := (value.Int{Value: 10}); !value.Equal(got, want) {
		t.Errorf("loop/recur = %#v, want %#v", got, want)
	}
}

func TestIterationLimit(t *testing.T) {
	err := evalErr(t, `(loop [n 0] (recur (inc n)))`)
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindIterationLimit {
		t.Errorf("unbounded loop/recur error = %v, want kind %q", err, errors.KindIterationLimit)
	}
}

func TestWhereAndPredCombinators(t *testing.T) {
	got := eval(t, `(filter (where :age :gt 18) [{:age 10} {:age 20} {:age 30}])`)
	vec, ok := got.(value.Vector)
	if !ok || len(vec.Items) != 2 {
		t.Fatalf("filter(where) = %#v, want a 2-item Vector", got)
	}

	got = eval(t, `((all-of (where :age :gt 18) (where :age :lt 25)) {:age 20})`)
	if got != value.True {
		t.Errorf("all-of = %v, want true", got)
	}

	got = eval(t, `((any-of (where :age :gt 100) (where :age :lt 25)) {:age 20})`)
	if got != value.True {
		t.Errorf("any-of = %v, want true", got)
	}

	got = eval(t, `((none-of (where :age :gt 100)) {:age 20})`)
	if got != value.True {
		t.Errorf("none-of = %v, want true", got)
	}
}

func TestCallTool(t *testing.T) {
	tools := map[string]ToolFn{
		"echo": func(args *value.Map) (value.Value, error) {
			return args, nil
		},
	}
	v, ec, err := evalSource(t, `(call "echo" {:msg "hi"})`, tools)
	if err != nil {
		t.Fatalf("eval(call) error = %v", err)
	}
	m, ok := v.(*value.Map)
	if !ok {
		t.Fatalf("call result = %T, want *value.Map", v)
	}
	msg, found := FlexGet(m, value.Keyword{Name: "msg"})
	if !found || msg.(value.Str).Value != "hi" {
		t.Errorf("call result :msg = %v, %v, want \"hi\"", msg, found)
	}
	if len(*ec.ToolCalls) != 1 || (*ec.ToolCalls)[0].Name != "echo" {
		t.Errorf("ToolCalls = %#v, want one call to echo", *ec.ToolCalls)
	}
}

func TestCallToolUnknownAndError(t *testing.T) {
	tools := map[string]ToolFn{
		"boom": func(args *value.Map) (value.Value, error) {
			return nil, errTestToolFailure
		},
	}

	_, _, err := evalSource(t, `(call "nope" {})`, tools)
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindUnknownTool {
		t.Errorf("unknown tool error = %v, want kind %q", err, errors.KindUnknownTool)
	}

	_, _, err = evalSource(t, `(call "boom" {})`, tools)
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindToolError {
		t.Errorf("tool error = %v, want kind %q", err, errors.KindToolError)
	}
}

var errTestToolFailure = toolFailure{}

type toolFailure struct{}

func (toolFailure) Error() string { return "boom" }

func TestReturnAndFail(t *testing.T) {
	_, _, err := evalSource(t, `(do (println "before") (return 7))`, nil)
	sig, ok := err.(*errors.ReturnSignal)
	if !ok {
		t.Fatalf("(return 7) error = %v (%T), want *errors.ReturnSignal", err, err)
	}
	if v, ok := sig.Value.(value.Value); !ok || !value.Equal(v, value.Int{Value: 7}) {
		t.Errorf("ReturnSignal.Value = %#v, want Int(7)", sig.Value)
	}

	_, _, err = evalSource(t, `(fail {:reason "bad" :message "nope"})`, nil)
	fsig, ok := err.(*errors.FailSignal)
	if !ok {
		t.Fatalf("(fail ...) error = %v (%T), want *errors.FailSignal", err, err)
	}
	if fsig.Reason != "bad" || fsig.Message != "nope" {
		t.Errorf("FailSignal = %+v", fsig)
	}
}

func TestParallelPrimitives(t *testing.T) {
	got := eval(t, `(pmap (fn [x] (* x x)) [1 2 3 4])`)
	vec, ok := got.(value.Vector)
	if !ok || len(vec.Items) != 4 {
		t.Fatalf("pmap = %#v, want a 4-item Vector", got)
	}
	want := []int64{1, 4, 9, 16}
	for i, item := range vec.Items {
		if v, ok := item.(value.Int); !ok || v.Value != want[i] {
			t.Errorf("pmap result[%d] = %#v, want %d (order must be preserved)", i, item, want[i])
		}
	}
}

func TestParallelPrimitivesDiscardPrints(t *testing.T) {
	v, ec, err := evalSource(t, `(pmap (fn [x] (println x) x) [1 2 3])`, nil)
	if err != nil {
		t.Fatalf("eval(pmap with println) error = %v", err)
	}
	if vec, ok := v.(value.Vector); !ok || len(vec.Items) != 3 {
		t.Fatalf("pmap = %#v, want a 3-item Vector", v)
	}
	if len(*ec.Prints) != 0 {
		t.Errorf("Prints = %#v, want empty: pmap workers must discard nested prints", *ec.Prints)
	}
}

func TestTaskCachesByID(t *testing.T) {
	calls := 0
	tools := map[string]ToolFn{
		"count": func(args *value.Map) (value.Value, error) {
			calls++
			return value.Int{Value: int64(calls)}, nil
		},
	}
	got := eval2(t, `(do
  (task "a" (fn [] (call "count" {})))
  (task "a" (fn [] (call "count" {}))))`, tools)
	if v, ok := got.(value.Int); !ok || v.Value != 1 {
		t.Errorf("second task(\"a\", ...) = %#v, want the cached Int(1) from the first call", got)
	}
	if calls != 1 {
		t.Errorf("tool was called %d times, want 1: task must cache by id and skip re-invoking", calls)
	}
}

func TestStepDoneShortCircuitsTask(t *testing.T) {
	got := eval(t, `(do (step-done "x") (task "x" (fn [] 999)))`)
	if got != value.True {
		t.Errorf("task(\"x\", ...) after step-done(\"x\") = %#v, want true (the step-done sentinel)", got)
	}
}

func TestTaskReset(t *testing.T) {
	got := eval(t, `(do
  (task "a" (fn [] 1))
  (task-reset "a")
  (task "a" (fn [] 2)))`)
	if v, ok := got.(value.Int); !ok || v.Value != 2 {
		t.Errorf("task(\"a\", ...) after task-reset(\"a\") = %#v, want Int(2): the cache entry must be cleared", got)
	}
}

func TestTaskInsidePmapDoesNotShareJournal(t *testing.T) {
	v, ec, err := evalSource(t, `(pmap (fn [x] (task x (fn [] (* x x)))) [1 2 3 4 5 6 7 8])`, nil)
	if err != nil {
		t.Fatalf("eval(pmap with task) error = %v", err)
	}
	vec, ok := v.(value.Vector)
	if !ok || len(vec.Items) != 8 {
		t.Fatalf("pmap = %#v, want an 8-item Vector", v)
	}
	for i, item := range vec.Items {
		want := int64((i + 1) * (i + 1))
		if n, ok := item.(value.Int); !ok || n.Value != want {
			t.Errorf("pmap result[%d] = %#v, want %d", i, item, want)
		}
	}
	if len(ec.Journal) != 0 {
		t.Errorf("parent Journal = %#v, want untouched: pmap/pcalls workers must not write back to the shared journal", ec.Journal)
	}
}

func TestPcallsTaskDoesNotShareJournal(t *testing.T) {
	v, ec, err := evalSource(t, `(pcalls
  (fn [] (task "a" (fn [] 1)))
  (fn [] (task "b" (fn [] 2)))
  (fn [] (task "c" (fn [] 3))))`, nil)
	if err != nil {
		t.Fatalf("eval(pcalls with task) error = %v", err)
	}
	vec, ok := v.(value.Vector)
	if !ok || len(vec.Items) != 3 {
		t.Fatalf("pcalls = %#v, want a 3-item Vector", v)
	}
	if len(ec.Journal) != 0 {
		t.Errorf("parent Journal = %#v, want untouched", ec.Journal)
	}
}

// eval2 mirrors eval but lets the caller register tools.
func eval2(t *testing.T, source string, tools map[string]ToolFn) value.Value {
	t.Helper()
	v, _, err := evalSource(t, source, tools)
	if err != nil {
		t.Fatalf("eval(%q) error = %v", source, err)
	}
	return v
}

func TestNotCallable(t *testing.T) {
	err := evalErr(t, `(5 1 2)`)
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindNotCallable {
		t.Errorf("calling a non-callable error = %v, want kind %q", err, errors.KindNotCallable)
	}
}

func TestUnboundVar(t *testing.T) {
	err := evalErr(t, `totally-unbound-name`)
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindUnboundVar {
		t.Errorf("unbound var error = %v, want kind %q", err, errors.KindUnboundVar)
	}
}
