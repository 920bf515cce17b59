package interp

import "github.com/cwbudde/go-ptclisp/internal/value"

// FlexGet implements spec §4.4's flex-get rule: looking up a Keyword key
// tries the atom (keyword) key first, then the equivalent string key.
// Atom precedence on conflict is invariant — if the keyword key exists its
// value wins even when falsy, so presence (not truthiness) decides the
// fallback (spec §4.4: "Atom precedence is invariant: if both keys exist,
// atom wins even when its value is falsy").
func FlexGet(m *value.Map, k value.Value) (value.Value, bool) {
	if m == nil {
		return value.NilValue, false
	}
	if kw, ok := k.(value.Keyword); ok {
		if v, found := m.Get(kw); found {
			return v, true
		}
		return m.Get(value.Str{Value: kw.Name})
	}
	return m.Get(k)
}
