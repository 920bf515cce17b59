package value

import (
	"math"
	"testing"
)

func TestStringRepresentations(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NilValue, "nil"},
		{True, "true"},
		{False, "false"},
		{Int{Value: 42}, "42"},
		{Float{Value: 1.5}, "1.5"},
		{Float{Value: 2}, "2.0"},
		{Float{Value: math.Inf(1)}, "##Inf"},
		{Float{Value: math.Inf(-1)}, "##-Inf"},
		{Str{Value: "hi"}, `"hi"`},
		{Str{Value: "a\"b"}, `"a\"b"`},
		{Keyword{Name: "ok"}, ":ok"},
		{Vector{Items: []Value{Int{Value: 1}, Int{Value: 2}}}, "[1 2]"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFloatNaNString(t *testing.T) {
	if got := (Float{Value: math.NaN()}).String(); got != "##NaN" {
		t.Errorf("NaN.String() = %q, want \"##NaN\"", got)
	}
}

func TestBoolSingletons(t *testing.T) {
	if Bool_(true) != True {
		t.Error("Bool_(true) did not return the True singleton")
	}
	if Bool_(false) != False {
		t.Error("Bool_(false) did not return the False singleton")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{NilValue, false},
		{nil, false},
		{False, false},
		{True, true},
		{Int{Value: 0}, true},
		{Str{Value: ""}, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	a := NewMap(Keyword{Name: "a"}, Int{Value: 1}, Keyword{Name: "b"}, Int{Value: 2})
	b := NewMap(Keyword{Name: "b"}, Int{Value: 2}, Keyword{Name: "a"}, Int{Value: 1})
	if !Equal(a, b) {
		t.Error("Equal(a, b) = false, want true: map equality must ignore insertion order")
	}
	if Equal(Int{Value: 1}, Str{Value: "1"}) {
		t.Error("Equal(Int(1), Str(\"1\")) = true, want false: equality must be type-distinguishing")
	}
	if !Equal(Int{Value: 1}, Int{Value: 1}) {
		t.Error("Equal(Int(1), Int(1)) = false, want true")
	}
}

func TestIsNumberAndAsFloat(t *testing.T) {
	if !IsNumber(Int{Value: 1}) || !IsNumber(Float{Value: 1.5}) {
		t.Error("IsNumber should be true for Int and Float")
	}
	if IsNumber(Str{Value: "1"}) {
		t.Error("IsNumber(Str) should be false")
	}
	if f, ok := AsFloat(Int{Value: 3}); !ok || f != 3.0 {
		t.Errorf("AsFloat(Int(3)) = %v, %v, want 3.0, true", f, ok)
	}
	if _, ok := AsFloat(Str{Value: "x"}); ok {
		t.Error("AsFloat(Str) should report ok=false")
	}
}

func TestSetConjDisjDedup(t *testing.T) {
	s := NewSet(Int{Value: 1}, Int{Value: 2}, Int{Value: 1})
	if s.Len() != 2 {
		t.Fatalf("NewSet with a duplicate = len %d, want 2", s.Len())
	}
	if !s.Contains(Int{Value: 1}) {
		t.Error("Contains(1) = false, want true")
	}
	s2 := s.Disj(Int{Value: 1}).(Set)
	if s2.Len() != 1 || s2.Contains(Int{Value: 1}) {
		t.Errorf("Disj(1) left %v entries containing 1", s2.Len())
	}
}

func TestMapAssocGetDissoc(t *testing.T) {
	m := EmptyMap().Assoc(Keyword{Name: "a"}, Int{Value: 1})
	v, found := m.Get(Keyword{Name: "a"})
	if !found || !Equal(v, Int{Value: 1}) {
		t.Errorf("Get(:a) = %v, %v, want Int(1), true", v, found)
	}
	m2 := m.Dissoc(Keyword{Name: "a"})
	if _, found := m2.Get(Keyword{Name: "a"}); found {
		t.Error("Dissoc(:a) should remove the key")
	}
	if _, found := m.Get(Keyword{Name: "a"}); !found {
		t.Error("Assoc/Dissoc must not mutate the original Map")
	}
}

func TestMapMerge(t *testing.T) {
	a := NewMap(Keyword{Name: "a"}, Int{Value: 1})
	b := NewMap(Keyword{Name: "a"}, Int{Value: 2}, Keyword{Name: "b"}, Int{Value: 3})
	merged := a.Merge(b)
	va, _ := merged.Get(Keyword{Name: "a"})
	vb, _ := merged.Get(Keyword{Name: "b"})
	if !Equal(va, Int{Value: 2}) || !Equal(vb, Int{Value: 3}) {
		t.Errorf("Merge() = {:a %v, :b %v}, want {:a 2, :b 3}", va, vb)
	}
}

func TestMapSortedKeysDeterministic(t *testing.T) {
	m := NewMap(Keyword{Name: "z"}, Int{Value: 1}, Keyword{Name: "a"}, Int{Value: 2})
	keys := m.SortedKeys()
	if len(keys) != 2 {
		t.Fatalf("SortedKeys() len = %d, want 2", len(keys))
	}
	if ka, ok := keys[0].(Keyword); !ok || ka.Name != "a" {
		t.Errorf("SortedKeys()[0] = %#v, want Keyword(a)", keys[0])
	}
}

func TestNilMapIsSafeToRead(t *testing.T) {
	var m *Map
	if m.Len() != 0 {
		t.Errorf("nil Map Len() = %d, want 0", m.Len())
	}
	if _, found := m.Get(Keyword{Name: "a"}); found {
		t.Error("nil Map Get() should report not found")
	}
}

func TestEqualMap(t *testing.T) {
	a := NewMap(Keyword{Name: "a"}, Int{Value: 1})
	b := NewMap(Keyword{Name: "a"}, Int{Value: 1})
	if !EqualMap(a, b) {
		t.Error("EqualMap(a, b) = false, want true for structurally identical maps")
	}
}
