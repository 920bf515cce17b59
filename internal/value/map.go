package value

import (
	"sort"
	"strings"
)

// Map is an ordered-by-key associative collection (spec §3: "keys unique,
// iteration ordered by key for determinism"). It is treated as immutable
// by the evaluator: every mutating operation (Assoc, Dissoc, ...) returns
// a new Map.
type Map struct {
	keys   []string // canonical keys, for stable iteration
	byKey  map[string]Value
	orig   map[string]Value // canonical key -> original key Value
}

// NewMap builds a Map from flat key/value pairs.
func NewMap(pairs ...Value) *Map {
	m := &Map{byKey: map[string]Value{}, orig: map[string]Value{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		m = m.Assoc(pairs[i], pairs[i+1])
	}
	return m
}

// EmptyMap returns a fresh empty map.
func EmptyMap() *Map { return &Map{byKey: map[string]Value{}, orig: map[string]Value{}} }

func (m *Map) Type() string { return "map" }

func (m *Map) String() string {
	keys := m.SortedKeys()
	parts := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v, _ := m.Get(k)
		parts = append(parts, k.String()+" "+v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get looks up k using exact structural equality (no flex-get fallback;
// flex-get lives in the evaluator since it is a get/keyword-call semantic,
// not a Map invariant).
func (m *Map) Get(k Value) (Value, bool) {
	if m == nil {
		return NilValue, false
	}
	v, ok := m.byKey[CanonicalKey(k)]
	return v, ok
}

// Assoc returns a new Map with k bound to v.
func (m *Map) Assoc(k, v Value) *Map {
	ck := CanonicalKey(k)
	nm := &Map{
		byKey: make(map[string]Value, m.Len()+1),
		orig:  make(map[string]Value, m.Len()+1),
	}
	_, existed := m.byKeySafe(ck)
	nm.keys = append(nm.keys, m.keysSafe()...)
	for kk, vv := range m.byKeySafe2() {
		nm.byKey[kk] = vv
	}
	for kk, vv := range m.origSafe() {
		nm.orig[kk] = vv
	}
	if !existed {
		nm.keys = append(nm.keys, ck)
	}
	nm.byKey[ck] = v
	nm.orig[ck] = k
	return nm
}

// Dissoc returns a new Map without k.
func (m *Map) Dissoc(k Value) *Map {
	ck := CanonicalKey(k)
	nm := &Map{byKey: map[string]Value{}, orig: map[string]Value{}}
	for _, kk := range m.keysSafe() {
		if kk == ck {
			continue
		}
		nm.keys = append(nm.keys, kk)
		nm.byKey[kk] = m.byKey[kk]
		nm.orig[kk] = m.orig[kk]
	}
	return nm
}

// Merge returns a new Map with other's keys overwriting m's.
func (m *Map) Merge(other *Map) *Map {
	result := m
	if result == nil {
		result = EmptyMap()
	}
	for _, k := range other.keysSafe() {
		result = result.Assoc(other.orig[k], other.byKey[k])
	}
	return result
}

// SortedKeys returns original key Values in canonical-key sorted order
// (spec §3: "iteration ordered by key for determinism").
func (m *Map) SortedKeys() []Value {
	keys := m.keysSafe()
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	out := make([]Value, len(sorted))
	for i, k := range sorted {
		out[i] = m.orig[k]
	}
	return out
}

// Values returns values in the same order as SortedKeys.
func (m *Map) Values() []Value {
	keys := m.SortedKeys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		out[i] = v
	}
	return out
}

// Entries returns [key value] pairs in sorted-key order.
func (m *Map) Entries() []Value {
	keys := m.SortedKeys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		out[i] = Vector{Items: []Value{k, v}}
	}
	return out
}

func (m *Map) keysSafe() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

func (m *Map) byKeySafe(ck string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.byKey[ck]
	return v, ok
}

func (m *Map) byKeySafe2() map[string]Value {
	if m == nil {
		return nil
	}
	return m.byKey
}

func (m *Map) origSafe() map[string]Value {
	if m == nil {
		return nil
	}
	return m.orig
}

// EqualMap reports structural map equality, ignoring insertion order.
func EqualMap(a, b *Map) bool {
	return CanonicalKey(a) == CanonicalKey(b)
}
