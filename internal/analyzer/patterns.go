package analyzer

import (
	"github.com/cwbudde/go-ptclisp/internal/ast"
	"github.com/cwbudde/go-ptclisp/internal/coreast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
)

func (a *Analyzer) parsePattern(node ast.Node) (coreast.Pattern, error) {
	switch n := node.(type) {
	case *ast.Symbol:
		return coreast.SymbolPattern{Name: n.Name}, nil
	case *ast.Vector:
		elems, rest, err := a.parseVectorPatternItems(n.Items, n)
		if err != nil {
			return nil, err
		}
		return coreast.VectorPattern{Elems: elems, Rest: rest}, nil
	case *ast.Map:
		return a.parseMapPattern(n)
	default:
		return nil, errAt(errors.KindUnsupportedPattern, node, "unsupported binding pattern")
	}
}

// parseParamList parses an fn/loop parameter vector into flat Params plus
// an optional Variadic ("& rest"), the shape coreast.Fn/Loop expect.
func (a *Analyzer) parseParamList(vec *ast.Vector) ([]coreast.Pattern, *coreast.Pattern, error) {
	return a.parseVectorPatternItems(vec.Items, vec)
}

func (a *Analyzer) parseVectorPatternItems(items []ast.Node, src ast.Node) ([]coreast.Pattern, *coreast.Pattern, error) {
	var elems []coreast.Pattern
	var rest *coreast.Pattern
	for i := 0; i < len(items); i++ {
		if sym, ok := items[i].(*ast.Symbol); ok && sym.Name == "&" {
			if i+2 != len(items) {
				return nil, nil, errAt(errors.KindUnsupportedPattern, src, "'&' must be followed by exactly one rest binding with nothing after it")
			}
			p, err := a.parsePattern(items[i+1])
			if err != nil {
				return nil, nil, err
			}
			rest = &p
			break
		}
		p, err := a.parsePattern(items[i])
		if err != nil {
			return nil, nil, err
		}
		elems = append(elems, p)
	}
	return elems, rest, nil
}

func (a *Analyzer) parseMapPattern(n *ast.Map) (coreast.Pattern, error) {
	var entries []coreast.MapPatternEntry
	asName := ""
	orDefaults := map[string]ast.Node{}

	for i := 0; i+1 < len(n.Pairs); i += 2 {
		k, v := n.Pairs[i], n.Pairs[i+1]
		kw, ok := k.(*ast.KeywordLit)
		if !ok {
			return nil, errAt(errors.KindUnsupportedPattern, n, "map pattern keys must be keywords")
		}
		switch kw.Name {
		case "keys":
			vec, ok := v.(*ast.Vector)
			if !ok {
				return nil, errAt(errors.KindUnsupportedPattern, n, ":keys must be followed by a vector of symbols")
			}
			for _, el := range vec.Items {
				sym, ok := el.(*ast.Symbol)
				if !ok {
					return nil, errAt(errors.KindUnsupportedPattern, n, ":keys vector must contain plain symbols")
				}
				entries = append(entries, coreast.MapPatternEntry{Key: sym.Name, Pattern: coreast.SymbolPattern{Name: sym.Name}})
			}
		case "as":
			sym, ok := v.(*ast.Symbol)
			if !ok {
				return nil, errAt(errors.KindUnsupportedPattern, n, ":as must be followed by a plain symbol")
			}
			asName = sym.Name
		case "or":
			orMap, ok := v.(*ast.Map)
			if !ok {
				return nil, errAt(errors.KindUnsupportedPattern, n, ":or must be followed by a map literal")
			}
			for j := 0; j+1 < len(orMap.Pairs); j += 2 {
				sym, ok := orMap.Pairs[j].(*ast.Symbol)
				if !ok {
					return nil, errAt(errors.KindUnsupportedPattern, n, ":or keys must be plain symbols")
				}
				orDefaults[sym.Name] = orMap.Pairs[j+1]
			}
		default:
			pat, err := a.parsePattern(v)
			if err != nil {
				return nil, err
			}
			entries = append(entries, coreast.MapPatternEntry{Key: kw.Name, Pattern: pat})
		}
	}

	for i, e := range entries {
		if def, ok := orDefaults[e.Key]; ok {
			dn, err := a.Analyze(def)
			if err != nil {
				return nil, err
			}
			entries[i].Default = dn
		}
	}
	return coreast.MapPattern{Entries: entries, As: asName}, nil
}
