// Package ast defines the Raw AST produced by the parser: lists, vectors,
// maps, sets, symbols, namespaced symbols, keywords, literals and reader
// syntaxes (spec §3). It mirrors the teacher's Node interface shape
// (TokenLiteral/String) generalized to s-expression forms.
package ast

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/lexer"
)

// Node is any Raw AST form.
type Node interface {
	Pos() lexer.Position
	String() string
}

type NilLit struct{ TokPos lexer.Position }

func (n *NilLit) Pos() lexer.Position { return n.TokPos }
func (n *NilLit) String() string      { return "nil" }

type BoolLit struct {
	Value  bool
	TokPos lexer.Position
}

func (b *BoolLit) Pos() lexer.Position { return b.TokPos }
func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type IntLit struct {
	Value  int64
	TokPos lexer.Position
}

func (i *IntLit) Pos() lexer.Position { return i.TokPos }
func (i *IntLit) String() string      { return strconv.FormatInt(i.Value, 10) }

type FloatLit struct {
	Value  float64
	TokPos lexer.Position
}

func (f *FloatLit) Pos() lexer.Position { return f.TokPos }
func (f *FloatLit) String() string      { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

type StringLit struct {
	Value  string
	TokPos lexer.Position
}

func (s *StringLit) Pos() lexer.Position { return s.TokPos }
func (s *StringLit) String() string      { return `"` + s.Value + `"` }

// KeywordLit is a keyword literal. Name carries any "/" found in source
// (e.g. "foo/bar"); the Analyzer is responsible for rejecting namespaced
// keywords (spec §4.1: "the Parser may accept them structurally").
type KeywordLit struct {
	Name   string
	TokPos lexer.Position
}

func (k *KeywordLit) Pos() lexer.Position { return k.TokPos }
func (k *KeywordLit) String() string      { return ":" + k.Name }

// Symbol is a plain (non-namespaced) identifier.
type Symbol struct {
	Name   string
	TokPos lexer.Position
}

func (s *Symbol) Pos() lexer.Position { return s.TokPos }
func (s *Symbol) String() string      { return s.Name }

// NsSymbol is "namespace/name" (ctx/x, memory/x, Double/POSITIVE_INFINITY).
type NsSymbol struct {
	Namespace string
	Name      string
	TokPos    lexer.Position
}

func (n *NsSymbol) Pos() lexer.Position { return n.TokPos }
func (n *NsSymbol) String() string      { return n.Namespace + "/" + n.Name }

type List struct {
	Items  []Node
	TokPos lexer.Position
}

func (l *List) Pos() lexer.Position { return l.TokPos }
func (l *List) String() string      { return "(" + joinNodes(l.Items) + ")" }

type Vector struct {
	Items  []Node
	TokPos lexer.Position
}

func (v *Vector) Pos() lexer.Position { return v.TokPos }
func (v *Vector) String() string      { return "[" + joinNodes(v.Items) + "]" }

// Map holds flat key/value pairs (even length, enforced at parse time).
type Map struct {
	Pairs  []Node
	TokPos lexer.Position
}

func (m *Map) Pos() lexer.Position { return m.TokPos }
func (m *Map) String() string      { return "{" + joinNodes(m.Pairs) + "}" }

type Set struct {
	Items  []Node
	TokPos lexer.Position
}

func (s *Set) Pos() lexer.Position { return s.TokPos }
func (s *Set) String() string      { return "#{" + joinNodes(s.Items) + "}" }

// ShortFn represents #(...) short function syntax; Body still contains the
// raw placeholder symbols (%, %1, %2, ...). The Analyzer desugars it into
// a Fn Core AST node (spec §4.1, §4.2).
type ShortFn struct {
	Body   Node
	TokPos lexer.Position
}

func (s *ShortFn) Pos() lexer.Position { return s.TokPos }
func (s *ShortFn) String() string      { return "#(" + s.Body.String() + ")" }

// Quote is the 'x reader syntax.
type Quote struct {
	Value  Node
	TokPos lexer.Position
}

func (q *Quote) Pos() lexer.Position { return q.TokPos }
func (q *Quote) String() string      { return "'" + q.Value.String() }

// Program is the top-level sequence of forms read from one source string.
type Program struct {
	Forms []Node
}

func (p *Program) Pos() lexer.Position {
	if len(p.Forms) == 0 {
		return lexer.Position{Line: 1, Column: 1}
	}
	return p.Forms[0].Pos()
}

func (p *Program) String() string { return joinNodes(p.Forms) }

func joinNodes(nodes []Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}
