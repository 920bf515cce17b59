package interp

import (
	"testing"

	"github.com/cwbudde/go-ptclisp/internal/step"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestProgramSnapshots snapshots the sanitized return value of a handful of
// representative programs, grounded on the teacher's fixture_test.go use of
// snaps.MatchSnapshot for per-case golden output (no comparable fixture
// corpus was retrieved for ptclisp, so this covers representative programs
// instead of a ported test suite).
func TestProgramSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"arithmetic", "(+ 1 2 (* 3 4))"},
		{"filter_count", "(count (filter even? (range 10)))"},
		{"map_literal", `{:a 1 :b [1 2 3] :c "text"}`},
		{"closure", `(let [sq (fn [x] (* x x))] (map sq [1 2 3 4]))`},
		{"threading", `(-> {:a 1} (assoc :b 2) (dissoc :a))`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := eval(t, tc.source)
			snaps.MatchSnapshot(t, tc.name, step.Sanitize(got))
		})
	}
}
