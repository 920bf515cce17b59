package analyzer

import (
	"github.com/cwbudde/go-ptclisp/internal/ast"
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/value"
)

// wrapBody folds a body sequence into a single Core AST node: no Do for an
// empty or singleton body, so downstream evaluation needn't special-case it.
func wrapBody(exprs []coreast.Node) coreast.Node {
	switch len(exprs) {
	case 0:
		return &coreast.Literal{Value: value.NilValue}
	case 1:
		return exprs[0]
	default:
		return &coreast.Do{Exprs: exprs}
	}
}

func (a *Analyzer) analyzeBindingsVector(node ast.Node) ([]coreast.Binding, error) {
	vec, ok := node.(*ast.Vector)
	if !ok {
		return nil, errAt(errors.KindInvalidForm, node, "expected a binding vector")
	}
	if len(vec.Items)%2 != 0 {
		return nil, errAt(errors.KindInvalidForm, node, "binding vector must have an even number of forms")
	}
	var bindings []coreast.Binding
	for i := 0; i+1 < len(vec.Items); i += 2 {
		pat, err := a.parsePattern(vec.Items[i])
		if err != nil {
			return nil, err
		}
		val, err := a.Analyze(vec.Items[i+1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, coreast.Binding{Pattern: pat, Value: val})
	}
	return bindings, nil
}

func (a *Analyzer) analyzeLet(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) < 2 {
		return nil, errAt(errors.KindInvalidArity, l, "let requires a binding vector and at least one body expression")
	}
	bindings, err := a.analyzeBindingsVector(tail[0])
	if err != nil {
		return nil, err
	}
	body, err := a.analyzeAll(tail[1:])
	if err != nil {
		return nil, err
	}
	return &coreast.Let{Bindings: bindings, Body: body}, nil
}

func (a *Analyzer) analyzeLoop(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) < 2 {
		return nil, errAt(errors.KindInvalidArity, l, "loop requires a binding vector and at least one body expression")
	}
	bindings, err := a.analyzeBindingsVector(tail[0])
	if err != nil {
		return nil, err
	}
	body, err := a.analyzeAll(tail[1:])
	if err != nil {
		return nil, err
	}
	return &coreast.Loop{Bindings: bindings, Body: body}, nil
}

func (a *Analyzer) analyzeIf(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) != 3 {
		return nil, errAt(errors.KindInvalidArity, l, "if requires exactly a condition, a then-branch and an else-branch")
	}
	cond, err := a.Analyze(tail[0])
	if err != nil {
		return nil, err
	}
	then, err := a.Analyze(tail[1])
	if err != nil {
		return nil, err
	}
	els, err := a.Analyze(tail[2])
	if err != nil {
		return nil, err
	}
	return &coreast.If{Cond: cond, Then: then, Else: els}, nil
}

func (a *Analyzer) analyzeWhen(tail []ast.Node) (coreast.Node, error) {
	if len(tail) < 1 {
		return nil, errors.New(errors.KindInvalidArity, "when requires a condition")
	}
	cond, err := a.Analyze(tail[0])
	if err != nil {
		return nil, err
	}
	body, err := a.analyzeAll(tail[1:])
	if err != nil {
		return nil, err
	}
	return &coreast.If{Cond: cond, Then: wrapBody(body), Else: &coreast.Literal{Value: value.NilValue}}, nil
}

func isElseKeyword(node ast.Node) bool {
	kw, ok := node.(*ast.KeywordLit)
	return ok && kw.Name == "else"
}

func (a *Analyzer) analyzeCond(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail)%2 != 0 {
		return nil, errAt(errors.KindInvalidCondForm, l, "cond requires an even number of test/result forms")
	}
	if len(tail) == 0 {
		return nil, errAt(errors.KindInvalidCondForm, l, "cond requires at least one test/result pair")
	}
	type pair struct{ test, result ast.Node }
	pairs := make([]pair, 0, len(tail)/2)
	for i := 0; i+1 < len(tail); i += 2 {
		pairs = append(pairs, pair{tail[i], tail[i+1]})
	}
	var result coreast.Node = &coreast.Literal{Value: value.NilValue}
	for i := len(pairs) - 1; i >= 0; i-- {
		if i == len(pairs)-1 && isElseKeyword(pairs[i].test) {
			r, err := a.Analyze(pairs[i].result)
			if err != nil {
				return nil, err
			}
			result = r
			continue
		}
		condNode, err := a.Analyze(pairs[i].test)
		if err != nil {
			return nil, err
		}
		resNode, err := a.Analyze(pairs[i].result)
		if err != nil {
			return nil, err
		}
		result = &coreast.If{Cond: condNode, Then: resNode, Else: result}
	}
	return result, nil
}

func (a *Analyzer) analyzeFn(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) < 2 {
		return nil, errAt(errors.KindInvalidArity, l, "fn requires a parameter vector and at least one body expression")
	}
	paramsVec, ok := tail[0].(*ast.Vector)
	if !ok {
		return nil, errAt(errors.KindInvalidForm, l, "fn parameters must be a vector")
	}
	params, variadic, err := a.parseParamList(paramsVec)
	if err != nil {
		return nil, err
	}
	body, err := a.analyzeAll(tail[1:])
	if err != nil {
		return nil, err
	}
	return &coreast.Fn{Params: params, Variadic: variadic, Body: body}, nil
}

func (a *Analyzer) analyzeDef(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) != 2 {
		return nil, errAt(errors.KindInvalidArity, l, "def requires a name and a value")
	}
	sym, ok := tail[0].(*ast.Symbol)
	if !ok {
		return nil, errAt(errors.KindInvalidForm, l, "def requires a plain symbol name")
	}
	val, err := a.Analyze(tail[1])
	if err != nil {
		return nil, err
	}
	return &coreast.Def{Name: sym.Name, Value: val}, nil
}

func pathSegmentsFromKeyword(node ast.Node) ([]coreast.PathSegment, bool) {
	switch n := node.(type) {
	case *ast.KeywordLit:
		return []coreast.PathSegment{{Key: n.Name}}, true
	case *ast.Vector:
		segs := make([]coreast.PathSegment, 0, len(n.Items))
		for _, it := range n.Items {
			kw, ok := it.(*ast.KeywordLit)
			if !ok {
				return nil, false
			}
			segs = append(segs, coreast.PathSegment{Key: kw.Name})
		}
		return segs, true
	default:
		return nil, false
	}
}

func (a *Analyzer) analyzeWhere(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) != 2 && len(tail) != 3 {
		return nil, errAt(errors.KindInvalidWhereForm, l, "where requires a field path, an operator and (for binary operators) a comparison value")
	}
	segs, ok := pathSegmentsFromKeyword(tail[0])
	if !ok {
		return nil, errAt(errors.KindInvalidWhereForm, l, "where's field path must be a keyword or a vector of keywords")
	}
	opKw, ok := tail[1].(*ast.KeywordLit)
	if !ok || !whereOps[opKw.Name] {
		return nil, errAt(errors.KindInvalidWhereOperator, l, "where's operator must be one of :eq :not_eq :gt :lt :gte :lte :includes :in :truthy")
	}
	var valNode coreast.Node = &coreast.Literal{Value: value.NilValue}
	if len(tail) == 3 {
		v, err := a.Analyze(tail[2])
		if err != nil {
			return nil, err
		}
		valNode = v
	}
	return &coreast.Where{Path: segs, Op: opKw.Name, Value: valNode}, nil
}

func (a *Analyzer) analyzePredCombinator(l *ast.List, kind string, tail []ast.Node) (coreast.Node, error) {
	if len(tail) == 0 {
		return nil, errAt(errors.KindInvalidArity, l, "%s requires at least one predicate", kind)
	}
	preds, err := a.analyzeAll(tail)
	if err != nil {
		return nil, err
	}
	return &coreast.PredCombinator{Kind: kind, Preds: preds}, nil
}

func (a *Analyzer) analyzeCallTool(l *ast.List, tail []ast.Node) (coreast.Node, error) {
	if len(tail) != 2 {
		return nil, errAt(errors.KindInvalidArity, l, "call requires a tool name and an argument map")
	}
	name, ok := tail[0].(*ast.StringLit)
	if !ok {
		return nil, errAt(errors.KindInvalidCallToolName, l, "call's tool name must be a string literal")
	}
	argMap, err := a.Analyze(tail[1])
	if err != nil {
		return nil, err
	}
	return &coreast.CallTool{Name: name.Value, ArgMap: argMap}, nil
}

func (a *Analyzer) analyzeThread(l *ast.List, first bool, tail []ast.Node) (coreast.Node, error) {
	if len(tail) == 0 {
		return nil, errAt(errors.KindInvalidThreadForm, l, "thread macro requires a seed expression")
	}
	cur, err := a.Analyze(tail[0])
	if err != nil {
		return nil, err
	}
	for _, form := range tail[1:] {
		switch t := form.(type) {
		case *ast.List:
			if len(t.Items) == 0 {
				return nil, errAt(errors.KindInvalidThreadForm, t, "thread step cannot be an empty list")
			}
			fnNode, err := a.Analyze(t.Items[0])
			if err != nil {
				return nil, err
			}
			rest, err := a.analyzeAll(t.Items[1:])
			if err != nil {
				return nil, err
			}
			var args []coreast.Node
			if first {
				args = append([]coreast.Node{cur}, rest...)
			} else {
				args = append(append([]coreast.Node{}, rest...), cur)
			}
			cur = &coreast.Call{Fn: fnNode, Args: args}
		case *ast.Symbol, *ast.NsSymbol, *ast.KeywordLit:
			fnNode, err := a.Analyze(form)
			if err != nil {
				return nil, err
			}
			cur = &coreast.Call{Fn: fnNode, Args: []coreast.Node{cur}}
		default:
			return nil, errAt(errors.KindInvalidThreadForm, form, "thread step must be a symbol or a list")
		}
	}
	return cur, nil
}
