package jsonbridge

import (
	"testing"

	"github.com/cwbudde/go-ptclisp/internal/interp"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

func TestToValue(t *testing.T) {
	v, err := ToValue(`{"city": "Lisbon", "tempC": 18, "tags": ["a", "b"], "ok": true, "n": null}`)
	if err != nil {
		t.Fatalf("ToValue() error = %v", err)
	}
	m, ok := v.(*value.Map)
	if !ok {
		t.Fatalf("ToValue() = %T, want *value.Map", v)
	}

	// Both the Str key and, since "city" is a valid identifier, the
	// Keyword alias resolve through flex-get.
	city, found := interp.FlexGet(m, value.Keyword{Name: "city"})
	if !found || city.(value.Str).Value != "Lisbon" {
		t.Errorf("flex-get :city = %v, %v", city, found)
	}
	cityByStr, found := interp.FlexGet(m, value.Str{Value: "city"})
	if !found || cityByStr.(value.Str).Value != "Lisbon" {
		t.Errorf("flex-get \"city\" = %v, %v", cityByStr, found)
	}

	temp, _ := interp.FlexGet(m, value.Keyword{Name: "tempC"})
	if i, ok := temp.(value.Int); !ok || i.Value != 18 {
		t.Errorf("tempC = %#v, want Int(18)", temp)
	}

	tags, _ := interp.FlexGet(m, value.Keyword{Name: "tags"})
	vec, ok := tags.(value.Vector)
	if !ok || len(vec.Items) != 2 {
		t.Errorf("tags = %#v, want a 2-item Vector", tags)
	}

	n, _ := interp.FlexGet(m, value.Keyword{Name: "n"})
	if _, ok := n.(value.Nil); !ok {
		t.Errorf("n = %#v, want Nil", n)
	}
}

func TestToValue_Invalid(t *testing.T) {
	if _, err := ToValue("{not json"); err == nil {
		t.Error("ToValue() with invalid JSON: expected error, got nil")
	}
}

func TestFromValue_RoundTrip(t *testing.T) {
	m := value.NewMap(
		value.Keyword{Name: "city"}, value.Str{Value: "Lisbon"},
		value.Keyword{Name: "tempC"}, value.Int{Value: 18},
		value.Str{Value: "nested"}, value.Vector{Items: []value.Value{value.Int{Value: 1}, value.Int{Value: 2}}},
	)

	encoded, err := FromValue(m)
	if err != nil {
		t.Fatalf("FromValue() error = %v", err)
	}

	decoded, err := ToValue(encoded)
	if err != nil {
		t.Fatalf("ToValue(FromValue(m)) error = %v", err)
	}
	dm, ok := decoded.(*value.Map)
	if !ok {
		t.Fatalf("decoded = %T, want *value.Map", decoded)
	}

	city, _ := interp.FlexGet(dm, value.Keyword{Name: "city"})
	if city.(value.Str).Value != "Lisbon" {
		t.Errorf("round-tripped city = %v, want Lisbon", city)
	}
	nested, _ := interp.FlexGet(dm, value.Keyword{Name: "nested"})
	if v, ok := nested.(value.Vector); !ok || len(v.Items) != 2 {
		t.Errorf("round-tripped nested = %#v, want a 2-item Vector", nested)
	}
}

func TestFromValue_Scalars(t *testing.T) {
	tests := []struct {
		in   value.Value
		want string
	}{
		{value.NilValue, "null"},
		{value.True, "true"},
		{value.False, "false"},
		{value.Int{Value: 42}, "42"},
		{value.Str{Value: "hi"}, `"hi"`},
		{value.Keyword{Name: "ok"}, `"ok"`},
	}
	for _, tt := range tests {
		got, err := FromValue(tt.in)
		if err != nil {
			t.Fatalf("FromValue(%v) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("FromValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
