package analyzer

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/go-ptclisp/internal/ast"
	"github.com/cwbudde/go-ptclisp/internal/coreast"
)

// analyzeShortFn desugars #(...) into an ordinary Fn: it finds the highest
// numbered placeholder used (% aliases %1, %& marks a variadic tail) and
// binds that many positional parameters plus an optional rest parameter
// (spec §4.1/§4.2: "#(...) desugars to fn during analysis").
func (a *Analyzer) analyzeShortFn(s *ast.ShortFn) (coreast.Node, error) {
	maxArg := 0
	hasRest := false
	body := rewritePlaceholders(s.Body, &maxArg, &hasRest)

	bodyNode, err := a.Analyze(body)
	if err != nil {
		return nil, err
	}

	params := make([]coreast.Pattern, maxArg)
	for i := 0; i < maxArg; i++ {
		params[i] = coreast.SymbolPattern{Name: fmt.Sprintf("%%%d", i+1)}
	}
	var variadic *coreast.Pattern
	if hasRest {
		p := coreast.Pattern(coreast.SymbolPattern{Name: "%&"})
		variadic = &p
	}
	return &coreast.Fn{Params: params, Variadic: variadic, Body: []coreast.Node{bodyNode}}, nil
}

// rewritePlaceholders walks a Raw AST tree rewriting the bare "%" alias to
// "%1", tracking the highest numbered placeholder and whether "%&" is used.
// It does not descend into a nested quote, since quoted forms are data, not
// code to be parameterized.
func rewritePlaceholders(node ast.Node, maxArg *int, hasRest *bool) ast.Node {
	switch n := node.(type) {
	case *ast.Symbol:
		switch {
		case n.Name == "%":
			if *maxArg < 1 {
				*maxArg = 1
			}
			return &ast.Symbol{Name: "%1", TokPos: n.TokPos}
		case n.Name == "%&":
			*hasRest = true
			return n
		case len(n.Name) >= 2 && n.Name[0] == '%' && isDigits(n.Name[1:]):
			if num, err := strconv.Atoi(n.Name[1:]); err == nil && num > *maxArg {
				*maxArg = num
			}
			return n
		default:
			return n
		}
	case *ast.List:
		items := make([]ast.Node, len(n.Items))
		for i, it := range n.Items {
			items[i] = rewritePlaceholders(it, maxArg, hasRest)
		}
		return &ast.List{Items: items, TokPos: n.TokPos}
	case *ast.Vector:
		items := make([]ast.Node, len(n.Items))
		for i, it := range n.Items {
			items[i] = rewritePlaceholders(it, maxArg, hasRest)
		}
		return &ast.Vector{Items: items, TokPos: n.TokPos}
	case *ast.Map:
		pairs := make([]ast.Node, len(n.Pairs))
		for i, it := range n.Pairs {
			pairs[i] = rewritePlaceholders(it, maxArg, hasRest)
		}
		return &ast.Map{Pairs: pairs, TokPos: n.TokPos}
	case *ast.Set:
		items := make([]ast.Node, len(n.Items))
		for i, it := range n.Items {
			items[i] = rewritePlaceholders(it, maxArg, hasRest)
		}
		return &ast.Set{Items: items, TokPos: n.TokPos}
	default:
		return n
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
