package parser

import "github.com/cwbudde/go-ptclisp/internal/lexer"

// cursor walks a pre-scanned token slice with save/restore support,
// mirroring the teacher's internal/parser/cursor.go backtracking pattern.
type cursor struct {
	tokens []lexer.Token
	pos    int
}

func newCursor(tokens []lexer.Token) *cursor {
	return &cursor{tokens: tokens}
}

func (c *cursor) current() lexer.Token {
	if c.pos >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // EOF
	}
	return c.tokens[c.pos]
}

func (c *cursor) advance() lexer.Token {
	tok := c.current()
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return tok
}

func (c *cursor) atEOF() bool {
	return c.current().Type == lexer.EOF
}

// mark/reset support backtracking for constructs the parser wants to
// speculatively try (unused today but kept for parity with the teacher's
// cursor, which backtracking-heavy grammars rely on).
func (c *cursor) mark() int       { return c.pos }
func (c *cursor) reset(mark int)  { c.pos = mark }
