// Package llmscan locates a PTC-Lisp code block inside raw LLM response
// text (spec.md §9 "LLM response parsing"): prefer a ```clojure fence,
// then ```lisp, then a balanced top-level s-expression. It is deliberately
// independent of internal/parser — feeding raw, possibly malformed LLM
// prose through the real parser repeatedly would mean paying (and
// reporting) parse errors for prose that was never meant to be code.
package llmscan

import "strings"

var fenceLangs = []string{"clojure", "lisp"}

// Extract returns the first code block found in text per the fence-then-
// sexpr preference order, or ok=false if none is found.
func Extract(text string) (code string, ok bool) {
	for _, lang := range fenceLangs {
		if body, found := fencedBlock(text, lang); found {
			return strings.TrimSpace(body), true
		}
	}
	if body, found := balancedSExpr(text); found {
		return strings.TrimSpace(body), true
	}
	return "", false
}

// fencedBlock finds the first ```lang ... ``` fence and returns its body.
func fencedBlock(text, lang string) (string, bool) {
	open := "```" + lang
	start := strings.Index(text, open)
	if start == -1 {
		return "", false
	}
	rest := text[start+len(open):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return rest[:end], true
}

// balancedSExpr scans for the first top-level "(" and returns the text up
// to its matching ")", tracking string literals and escapes so parens
// inside strings don't throw off the depth count.
func balancedSExpr(text string) (string, bool) {
	startIdx := strings.IndexByte(text, '(')
	if startIdx == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := startIdx; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[startIdx : i+1], true
			}
		}
	}
	return "", false
}
