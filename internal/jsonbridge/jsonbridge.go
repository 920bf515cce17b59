// Package jsonbridge converts between the interpreter's Value tagged
// union and JSON text, the wire format tool calls and tool results cross
// (spec.md §6). It is built on github.com/tidwall/gjson for decoding and
// github.com/tidwall/sjson for encoding, promoted from the teacher's
// indirect go.mod entries (transitive through go-snaps) to direct,
// first-use dependencies here.
package jsonbridge

import (
	"strconv"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// ToValue decodes a JSON document into a Value. Object keys are strings by
// nature, but any key that also parses as a valid identifier is additionally
// bound under its Keyword alias — this is what anchors the evaluator's
// flex-get reconciliation (internal/interp/flexget.go): code written against
// tool results can use either (:key m) or (get m "key") uniformly.
func ToValue(jsonText string) (value.Value, error) {
	if !gjson.Valid(jsonText) {
		return nil, errors.New(errors.KindValidationError, "invalid JSON: %s", jsonText)
	}
	return fromGJSON(gjson.Parse(jsonText)), nil
}

func fromGJSON(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.NilValue
	case gjson.True:
		return value.True
	case gjson.False:
		return value.False
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !hasDecimalPoint(r.Raw) {
			return value.Int{Value: int64(r.Num)}
		}
		return value.Float{Value: r.Num}
	case gjson.String:
		return value.Str{Value: r.Str}
	}
	if r.IsArray() {
		var items []value.Value
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, fromGJSON(v))
			return true
		})
		return value.Vector{Items: items}
	}
	if r.IsObject() {
		m := value.EmptyMap()
		r.ForEach(func(k, v gjson.Result) bool {
			key := k.Str
			val := fromGJSON(v)
			m = m.Assoc(value.Str{Value: key}, val)
			if isValidIdent(key) {
				m = m.Assoc(value.Keyword{Name: key}, val)
			}
			return true
		})
		return m
	}
	return value.NilValue
}

func hasDecimalPoint(raw string) bool {
	for _, c := range raw {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || r == '-' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// FromValue encodes a Value back to a JSON document, building containers
// incrementally with sjson.SetRaw (encode/patch) — one SetRaw call per
// element/field, composing already-encoded child fragments as raw JSON —
// rather than a hand-rolled string builder.
func FromValue(v value.Value) (string, error) {
	switch t := v.(type) {
	case value.Nil:
		return "null", nil
	case value.Bool:
		if t.Value {
			return "true", nil
		}
		return "false", nil
	case value.Int:
		return strconv.FormatInt(t.Value, 10), nil
	case value.Float:
		return strconv.FormatFloat(t.Value, 'g', -1, 64), nil
	case value.Str:
		return strconv.Quote(t.Value), nil
	case value.Keyword:
		return strconv.Quote(t.Name), nil
	case value.Vector:
		doc := "[]"
		for i, item := range t.Items {
			raw, err := FromValue(item)
			if err != nil {
				return "", err
			}
			var err2 error
			doc, err2 = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err2 != nil {
				return "", errors.New(errors.KindValidationError, "jsonbridge: %s", err2.Error())
			}
		}
		return doc, nil
	case *value.Map:
		doc := "{}"
		for _, k := range t.SortedKeys() {
			val, _ := t.Get(k)
			raw, err := FromValue(val)
			if err != nil {
				return "", err
			}
			keyName := k.String()
			switch kt := k.(type) {
			case value.Str:
				keyName = kt.Value
			case value.Keyword:
				keyName = kt.Name
			}
			var err2 error
			doc, err2 = sjson.SetRaw(doc, keyName, raw)
			if err2 != nil {
				return "", errors.New(errors.KindValidationError, "jsonbridge: %s", err2.Error())
			}
		}
		return doc, nil
	default:
		return strconv.Quote(v.String()), nil
	}
}
