package token_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/token"
	"github.com/stretchr/testify/assert"
)

const kindEOF token.Kind = 0
const kindA token.Kind = 1
const kindB token.Kind = 2

func toks() []token.Token {
	return []token.Token{
		{Kind: kindA, Lexeme: "a", Line: 1, Col: 1},
		{Kind: kindB, Lexeme: "b", Line: 1, Col: 2},
		{Kind: kindEOF, Lexeme: "", Line: 1, Col: 3},
	}
}

func Test_Stream_PeekAdvance(t *testing.T) {
	s := token.NewStream(toks())

	assert.Equal(t, kindA, s.Peek().Kind)
	assert.False(t, s.AtEnd())

	tok := s.Advance()
	assert.Equal(t, kindA, tok.Kind)
	assert.Equal(t, kindB, s.Peek().Kind)

	s.Advance()
	assert.True(t, s.AtEnd())
	assert.Equal(t, kindEOF, s.Peek().Kind)
}

func Test_Stream_Advance_saturatesAtEOF(t *testing.T) {
	s := token.NewStream(toks())
	s.Advance()
	s.Advance()
	s.Advance()
	s.Advance()
	assert.Equal(t, kindEOF, s.Peek().Kind)
}

func Test_Stream_PeekAt_clampsToEOF(t *testing.T) {
	s := token.NewStream(toks())
	assert.Equal(t, kindB, s.PeekAt(1).Kind)
	assert.Equal(t, kindEOF, s.PeekAt(10).Kind)
}

func Test_Stream_Check(t *testing.T) {
	s := token.NewStream(toks())
	assert.True(t, s.Check(kindA))
	assert.False(t, s.Check(kindB))
}

func Test_Stream_SetPos_resynchronizes(t *testing.T) {
	s := token.NewStream(toks())
	pos := s.Pos()
	s.Advance()
	s.Advance()
	s.SetPos(pos)
	assert.Equal(t, kindA, s.Peek().Kind)
}

func Test_Stream_Len(t *testing.T) {
	s := token.NewStream(toks())
	assert.Equal(t, 3, s.Len())
}
