// Package parser implements a recursive-descent reader for the Lisp
// subset's s-expression syntax, turning a token stream into the Raw AST
// (spec §4.1). Errors are accumulated and reported with position info,
// matching the teacher's p.Errors() accumulation style.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-ptclisp/internal/ast"
	"github.com/cwbudde/go-ptclisp/internal/errors"
	"github.com/cwbudde/go-ptclisp/internal/lexer"
)

func posInf() float64 { return math.Inf(1) }
func negInf() float64 { return math.Inf(-1) }
func nanVal() float64 { return math.NaN() }

// Parser reads a token stream into Raw AST forms.
type Parser struct {
	cur  *cursor
	errs []*errors.Error
}

// New creates a Parser over already-lexed tokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{cur: newCursor(tokens)}
}

// Parse lexes and parses source in one step, returning a Program or the
// first structured parse error encountered.
func Parse(source string) (*ast.Program, error) {
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		e := lexErrs[0]
		return nil, errors.NewAt(errors.KindParseError, errors.Position{Line: e.Pos.Line, Column: e.Pos.Column}, "%s", e.Message)
	}
	p := New(tokens)
	prog := p.ParseProgram()
	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	return prog, nil
}

// Errors returns all parse errors accumulated while parsing.
func (p *Parser) Errors() []*errors.Error { return p.errs }

func (p *Parser) errorAt(pos lexer.Position, format string, args ...any) {
	p.errs = append(p.errs, errors.NewAt(errors.KindParseError, errors.Position{Line: pos.Line, Column: pos.Column}, format, args...))
}

// ParseProgram parses every top-level form until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.cur.atEOF() {
		form := p.parseForm()
		if form == nil {
			// parseForm already recorded an error; skip the offending
			// token to make forward progress instead of looping forever.
			if !p.cur.atEOF() {
				p.cur.advance()
			}
			continue
		}
		prog.Forms = append(prog.Forms, form)
	}
	return prog
}

func (p *Parser) parseForm() ast.Node {
	tok := p.cur.current()
	switch tok.Type {
	case lexer.LPAREN:
		return p.parseList()
	case lexer.LBRACKET:
		return p.parseVector()
	case lexer.LBRACE:
		return p.parseMap()
	case lexer.HASH_LBRACE:
		return p.parseSet()
	case lexer.HASH_LPAREN:
		return p.parseShortFn()
	case lexer.QUOTE:
		p.cur.advance()
		inner := p.parseForm()
		if inner == nil {
			return nil
		}
		return &ast.Quote{Value: inner, TokPos: tok.Pos}
	case lexer.HASH_STRING:
		p.cur.advance()
		// #"..." desugars to a call to (re-pattern "...") per spec §4.1.
		return &ast.List{
			TokPos: tok.Pos,
			Items: []ast.Node{
				&ast.Symbol{Name: "re-pattern", TokPos: tok.Pos},
				&ast.StringLit{Value: tok.Literal, TokPos: tok.Pos},
			},
		}
	case lexer.STRING:
		p.cur.advance()
		return &ast.StringLit{Value: tok.Literal, TokPos: tok.Pos}
	case lexer.KEYWORD:
		p.cur.advance()
		return &ast.KeywordLit{Name: tok.Literal, TokPos: tok.Pos}
	case lexer.INT:
		p.cur.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorAt(tok.Pos, "invalid integer literal %q", tok.Literal)
			return nil
		}
		return &ast.IntLit{Value: v, TokPos: tok.Pos}
	case lexer.FLOAT:
		p.cur.advance()
		return &ast.FloatLit{Value: parseFloatLiteral(tok.Literal), TokPos: tok.Pos}
	case lexer.NIL:
		p.cur.advance()
		return &ast.NilLit{TokPos: tok.Pos}
	case lexer.TRUE:
		p.cur.advance()
		return &ast.BoolLit{Value: true, TokPos: tok.Pos}
	case lexer.FALSE:
		p.cur.advance()
		return &ast.BoolLit{Value: false, TokPos: tok.Pos}
	case lexer.SYMBOL:
		p.cur.advance()
		return parseSymbolLiteral(tok)
	case lexer.PLACEHOLDER:
		p.cur.advance()
		return &ast.Symbol{Name: tok.Literal, TokPos: tok.Pos}
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		p.errorAt(tok.Pos, "unexpected closing %q with no matching opening delimiter", tok.Literal)
		return nil
	case lexer.EOF:
		p.errorAt(tok.Pos, "unexpected end of input")
		return nil
	default:
		p.errorAt(tok.Pos, "unexpected token %q", tok.Literal)
		return nil
	}
}

func parseFloatLiteral(lit string) float64 {
	switch lit {
	case "##Inf":
		return posInf()
	case "##-Inf":
		return negInf()
	case "##NaN":
		return nanVal()
	}
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}

func parseSymbolLiteral(tok lexer.Token) ast.Node {
	if idx := strings.Index(tok.Literal, "/"); idx > 0 && idx < len(tok.Literal)-1 {
		return &ast.NsSymbol{Namespace: tok.Literal[:idx], Name: tok.Literal[idx+1:], TokPos: tok.Pos}
	}
	return &ast.Symbol{Name: tok.Literal, TokPos: tok.Pos}
}

func (p *Parser) parseList() ast.Node {
	open := p.cur.advance() // consume '('
	var items []ast.Node
	for {
		if p.cur.atEOF() {
			p.errorAt(open.Pos, "unbalanced paren: '(' opened here is never closed")
			return nil
		}
		if p.cur.current().Type == lexer.RPAREN {
			p.cur.advance()
			break
		}
		item := p.parseForm()
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
	return &ast.List{Items: items, TokPos: open.Pos}
}

func (p *Parser) parseVector() ast.Node {
	open := p.cur.advance() // consume '['
	var items []ast.Node
	for {
		if p.cur.atEOF() {
			p.errorAt(open.Pos, "unbalanced bracket: '[' opened here is never closed")
			return nil
		}
		if p.cur.current().Type == lexer.RBRACKET {
			p.cur.advance()
			break
		}
		item := p.parseForm()
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
	return &ast.Vector{Items: items, TokPos: open.Pos}
}

func (p *Parser) parseMap() ast.Node {
	open := p.cur.advance() // consume '{'
	var pairs []ast.Node
	for {
		if p.cur.atEOF() {
			p.errorAt(open.Pos, "unbalanced brace: '{' opened here is never closed")
			return nil
		}
		if p.cur.current().Type == lexer.RBRACE {
			p.cur.advance()
			break
		}
		item := p.parseForm()
		if item == nil {
			return nil
		}
		pairs = append(pairs, item)
	}
	if len(pairs)%2 != 0 {
		p.errorAt(open.Pos, "map literal requires an even number of forms, got %d", len(pairs))
		return nil
	}
	return &ast.Map{Pairs: pairs, TokPos: open.Pos}
}

func (p *Parser) parseSet() ast.Node {
	open := p.cur.advance() // consume '#{'
	var items []ast.Node
	for {
		if p.cur.atEOF() {
			p.errorAt(open.Pos, "unbalanced brace: '#{' opened here is never closed")
			return nil
		}
		if p.cur.current().Type == lexer.RBRACE {
			p.cur.advance()
			break
		}
		item := p.parseForm()
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
	return &ast.Set{Items: items, TokPos: open.Pos}
}

func (p *Parser) parseShortFn() ast.Node {
	open := p.cur.advance() // consume '#('
	var items []ast.Node
	for {
		if p.cur.atEOF() {
			p.errorAt(open.Pos, "unbalanced paren: '#(' opened here is never closed")
			return nil
		}
		if p.cur.current().Type == lexer.RPAREN {
			p.cur.advance()
			break
		}
		item := p.parseForm()
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
	body := ast.Node(&ast.List{Items: items, TokPos: open.Pos})
	return &ast.ShortFn{Body: body, TokPos: open.Pos}
}

