// Package token holds the lexical token representation and the
// random-access token stream shared by the L-dyn and L-stat front ends.
// Each language defines its own set of Kind values; this package only
// fixes the shape of a Token and the cursor operations over a sequence of
// them.
package token

import "fmt"

// Kind identifies the lexical category of a Token. Each language package
// (dynlex, statlex) defines its own closed set of Kind values starting
// from its own iota block; Kind values are only meaningful within the
// language package that produced them.
type Kind int

// Token is an immutable lexical token: a kind, the exact source text that
// produced it, and its position: 1-based line/column, and Start/End as
// 0-based rune offsets into the whole source text (End is one past the
// last rune). Start and End are not byte offsets and are not relative to
// the line.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Col    int
	Start  int
	End    int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Line, t.Col, t.Lexeme)
}

// Stream is a positional cursor over a fixed vector of tokens, providing
// the single-token lookahead a predictive recursive-descent parser needs.
// The final token in Tokens must always be the language's EOF kind; Stream
// never advances past it.
type Stream struct {
	Tokens []Token
	pos    int
}

// NewStream wraps tokens in a Stream positioned at the first token.
func NewStream(tokens []Token) *Stream {
	return &Stream{Tokens: tokens}
}

// Peek returns the current token without advancing.
func (s *Stream) Peek() Token {
	return s.Tokens[s.pos]
}

// PeekAt returns the token offset tokens ahead of the current one, or the
// last (EOF) token if that would run past the end of the stream. It exists
// for the handful of productions (L-stat constructor/method disambiguation)
// that must look one token past the current one without consuming it.
func (s *Stream) PeekAt(offset int) Token {
	i := s.pos + offset
	if i >= len(s.Tokens) {
		i = len(s.Tokens) - 1
	}
	return s.Tokens[i]
}

// Advance returns the current token and moves the cursor forward. It
// saturates at the final (EOF) token.
func (s *Stream) Advance() Token {
	t := s.Tokens[s.pos]
	if s.pos < len(s.Tokens)-1 {
		s.pos++
	}
	return t
}

// Check reports whether the current token has the given kind.
func (s *Stream) Check(k Kind) bool {
	return s.Peek().Kind == k
}

// AtEnd reports whether the cursor is on the final token in the stream.
func (s *Stream) AtEnd() bool {
	return s.pos >= len(s.Tokens)-1
}

// Len returns the total number of tokens in the stream, EOF included.
func (s *Stream) Len() int {
	return len(s.Tokens)
}

// Pos returns the current cursor position.
func (s *Stream) Pos() int {
	return s.pos
}

// SetPos restores the cursor to a previously observed position without
// rebuilding the stream.
func (s *Stream) SetPos(p int) {
	s.pos = p
}
