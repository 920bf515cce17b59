// Package analyzer walks the Raw AST and produces the Core AST (spec §4.2):
// it validates arity, classifies special forms, desugars (when, cond, ->,
// ->>, #()) and rejects malformed constructs with structured errors. It
// follows the teacher's internal/semantic "Analyzer walks and emits
// structured errors" shape, generalized from DWScript's static type
// checking to this Lisp's purely syntactic/arity validation (spec's Value
// model is dynamically typed — there is no type-checking pass here).
package analyzer

import (
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/ast"
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// comparisonOps are strictly 2-arity (spec §3 invariant, §4.2).
var comparisonOps = map[string]bool{
	"=": true, "not=": true, ">": true, "<": true, ">=": true, "<=": true,
}

var whereOps = map[string]bool{
	"eq": true, "not_eq": true, "gt": true, "lt": true, "gte": true, "lte": true,
	"includes": true, "in": true, "truthy": true,
}

// Analyzer converts Raw AST into Core AST.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

// AnalyzeProgram analyzes every top-level form, wrapping more than one
// form in an implicit Do.
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) (coreast.Node, error) {
	if len(prog.Forms) == 0 {
		return &coreast.Literal{Value: value.NilValue}, nil
	}
	if len(prog.Forms) == 1 {
		return a.Analyze(prog.Forms[0])
	}
	exprs := make([]coreast.Node, 0, len(prog.Forms))
	for _, f := range prog.Forms {
		n, err := a.Analyze(f)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, n)
	}
	return &coreast.Do{Exprs: exprs}, nil
}

// Analyze converts one Raw AST form into a Core AST node.
func (a *Analyzer) Analyze(node ast.Node) (coreast.Node, error) {
	switch n := node.(type) {
	case *ast.NilLit:
		return &coreast.Literal{Value: value.NilValue}, nil
	case *ast.BoolLit:
		return &coreast.Literal{Value: value.Bool_(n.Value)}, nil
	case *ast.IntLit:
		return &coreast.Literal{Value: value.Int{Value: n.Value}}, nil
	case *ast.FloatLit:
		return &coreast.Literal{Value: value.Float{Value: n.Value}}, nil
	case *ast.StringLit:
		return &coreast.Literal{Value: value.Str{Value: n.Value}}, nil
	case *ast.KeywordLit:
		if strings.Contains(n.Name, "/") {
			return nil, errAt(errors.KindInvalidForm, n, "namespaced keyword :%s is not supported", n.Name)
		}
		return &coreast.Literal{Value: value.Keyword{Name: n.Name}}, nil
	case *ast.Symbol:
		return &coreast.Var{Name: n.Name}, nil
	case *ast.NsSymbol:
		switch n.Namespace {
		case "ctx":
			return &coreast.Ctx{Key: n.Name}, nil
		case "memory":
			return &coreast.Memory{Key: n.Name}, nil
		default:
			return &coreast.Var{Name: n.Namespace + "/" + n.Name}, nil
		}
	case *ast.Vector:
		items, err := a.analyzeAll(n.Items)
		if err != nil {
			return nil, err
		}
		return &coreast.VectorNode{Items: items}, nil
	case *ast.Map:
		pairs, err := a.analyzeAll(n.Pairs)
		if err != nil {
			return nil, err
		}
		return &coreast.MapNode{Pairs: pairs}, nil
	case *ast.Set:
		items, err := a.analyzeAll(n.Items)
		if err != nil {
			return nil, err
		}
		return &coreast.SetNode{Items: items}, nil
	case *ast.Quote:
		v, err := quoteToValue(n.Value)
		if err != nil {
			return nil, err
		}
		return &coreast.Quote{Raw: v}, nil
	case *ast.ShortFn:
		return a.analyzeShortFn(n)
	case *ast.List:
		return a.analyzeList(n)
	default:
		return nil, errors.New(errors.KindInvalidForm, "unrecognized form %T", node)
	}
}

// analyzeList classifies a list's head symbol as one of the special forms
// (spec §4.2's dispatch list), desugars it, or else treats the whole list
// as a generic Call (which covers built-in names, comparison operators,
// and journal operations like task/step-done/task-reset alike).
func (a *Analyzer) analyzeList(l *ast.List) (coreast.Node, error) {
	if len(l.Items) == 0 {
		return nil, errAt(errors.KindInvalidForm, l, "empty list cannot be evaluated as a call")
	}
	head := l.Items[0]
	tail := l.Items[1:]

	if sym, ok := head.(*ast.Symbol); ok {
		switch sym.Name {
		case "let":
			return a.analyzeLet(l, tail)
		case "if":
			return a.analyzeIf(l, tail)
		case "when":
			return a.analyzeWhen(tail)
		case "cond":
			return a.analyzeCond(l, tail)
		case "fn":
			return a.analyzeFn(l, tail)
		case "do":
			exprs, err := a.analyzeAll(tail)
			if err != nil {
				return nil, err
			}
			return &coreast.Do{Exprs: exprs}, nil
		case "def":
			return a.analyzeDef(l, tail)
		case "and":
			args, err := a.analyzeAll(tail)
			if err != nil {
				return nil, err
			}
			return &coreast.And{Args: args}, nil
		case "or":
			args, err := a.analyzeAll(tail)
			if err != nil {
				return nil, err
			}
			return &coreast.Or{Args: args}, nil
		case "where":
			return a.analyzeWhere(l, tail)
		case "all-of", "any-of", "none-of":
			return a.analyzePredCombinator(l, sym.Name, tail)
		case "call":
			return a.analyzeCallTool(l, tail)
		case "->":
			return a.analyzeThread(l, true, tail)
		case "->>":
			return a.analyzeThread(l, false, tail)
		case "loop":
			return a.analyzeLoop(l, tail)
		case "recur":
			args, err := a.analyzeAll(tail)
			if err != nil {
				return nil, err
			}
			return &coreast.Recur{Args: args}, nil
		}
		if comparisonOps[sym.Name] && len(tail) != 2 {
			return nil, errAt(errors.KindInvalidArity, l, "%s requires exactly two arguments", sym.Name)
		}
	}

	fnNode, err := a.Analyze(head)
	if err != nil {
		return nil, err
	}
	args, err := a.analyzeAll(tail)
	if err != nil {
		return nil, err
	}
	return &coreast.Call{Fn: fnNode, Args: args}, nil
}

func (a *Analyzer) analyzeAll(nodes []ast.Node) ([]coreast.Node, error) {
	out := make([]coreast.Node, 0, len(nodes))
	for _, n := range nodes {
		cn, err := a.Analyze(n)
		if err != nil {
			return nil, err
		}
		out = append(out, cn)
	}
	return out, nil
}

func errAt(kind errors.Kind, node ast.Node, format string, args ...any) error {
	pos := node.Pos()
	return errors.NewAt(kind, errors.Position{Line: pos.Line, Column: pos.Column}, format, args...)
}

// quoteToValue converts a Raw AST form into data without evaluating it.
// There is no dedicated "symbol" Value variant in spec §3's Value union,
// so a quoted bare symbol becomes a Keyword of the same name — the closest
// available representation of "a name as data".
func quoteToValue(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NilLit:
		return value.NilValue, nil
	case *ast.BoolLit:
		return value.Bool_(n.Value), nil
	case *ast.IntLit:
		return value.Int{Value: n.Value}, nil
	case *ast.FloatLit:
		return value.Float{Value: n.Value}, nil
	case *ast.StringLit:
		return value.Str{Value: n.Value}, nil
	case *ast.KeywordLit:
		return value.Keyword{Name: n.Name}, nil
	case *ast.Symbol:
		return value.Keyword{Name: n.Name}, nil
	case *ast.NsSymbol:
		return value.Keyword{Name: n.Namespace + "/" + n.Name}, nil
	case *ast.Vector:
		items := make([]value.Value, len(n.Items))
		for i, it := range n.Items {
			v, err := quoteToValue(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.Vector{Items: items}, nil
	case *ast.List:
		items := make([]value.Value, len(n.Items))
		for i, it := range n.Items {
			v, err := quoteToValue(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.Vector{Items: items}, nil
	case *ast.Map:
		pairs := make([]value.Value, len(n.Pairs))
		for i, it := range n.Pairs {
			v, err := quoteToValue(it)
			if err != nil {
				return nil, err
			}
			pairs[i] = v
		}
		return value.NewMap(pairs...), nil
	case *ast.Set:
		items := make([]value.Value, len(n.Items))
		for i, it := range n.Items {
			v, err := quoteToValue(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewSet(items...), nil
	default:
		return nil, errAt(errors.KindInvalidForm, node, "form cannot be quoted")
	}
}
