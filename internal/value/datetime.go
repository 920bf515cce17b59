package value

import "time"

// DateTime is a sub-second UTC instant (spec §3). Arithmetic helpers are
// grounded on the teacher's internal/builtins/datetime_calc.go, generalized
// from DWScript's float-encoded TDateTime to a direct time.Time.
type DateTime struct{ Value time.Time }

func (d DateTime) Type() string   { return "datetime" }
func (d DateTime) String() string { return d.Value.UTC().Format(time.RFC3339Nano) }

// Date is a date-only value (time truncated to midnight UTC).
type Date struct{ Value time.Time }

func (d Date) Type() string   { return "date" }
func (d Date) String() string { return d.Value.UTC().Format("2006-01-02") }

func NewDateTime(t time.Time) DateTime { return DateTime{Value: t.UTC()} }

func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{Value: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// AddDuration mirrors the teacher's EncodeDate/date-arithmetic helpers,
// applied to a real time.Time instead of a DWScript TDateTime float.
func (d DateTime) AddDuration(dur time.Duration) DateTime {
	return NewDateTime(d.Value.Add(dur))
}

func (d Date) AddDays(days int) Date {
	return NewDate(d.Value.AddDate(0, 0, days))
}
