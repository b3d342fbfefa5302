package dynlex_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/dynlex"
	"github.com/corvidwalk/transbridge/internal/token"
	"github.com/stretchr/testify/assert"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func Test_Lex_keywordsAndIdentifiers(t *testing.T) {
	toks := dynlex.Lex("let x = 1;")
	assert.Equal(t, []token.Kind{
		dynlex.LET, dynlex.IDENTIFIER, dynlex.ASSIGN, dynlex.NUMBER, dynlex.SEMICOLON, dynlex.EOF,
	}, kinds(toks))
}

func Test_Lex_threeCharOpsBeforeTwoBeforeOne(t *testing.T) {
	toks := dynlex.Lex("a === b !== c == d != e")
	got := kinds(toks)
	assert.Contains(t, got, dynlex.STRICT_EQ)
	assert.Contains(t, got, dynlex.STRICT_NEQ)
	assert.Contains(t, got, dynlex.EQ)
	assert.Contains(t, got, dynlex.NEQ)
}

func Test_Lex_extendsKeyword(t *testing.T) {
	toks := dynlex.Lex("class Dog extends Animal {}")
	assert.Equal(t, []token.Kind{
		dynlex.CLASS, dynlex.IDENTIFIER, dynlex.EXTENDS, dynlex.IDENTIFIER,
		dynlex.LBRACE, dynlex.RBRACE, dynlex.EOF,
	}, kinds(toks))
}

func Test_Lex_multilineBlockComment_doesNotLeakIntoFollowingLine(t *testing.T) {
	src := "let a = 1; /* this\nspans two lines */ let b = 2;"
	toks := dynlex.Lex(src)
	got := kinds(toks)

	// both declarations must have survived the comment intact.
	count := 0
	for _, k := range got {
		if k == dynlex.LET {
			count++
		}
	}
	assert.Equal(t, 2, count, "block comment spanning a newline must not swallow the second statement")
}

func Test_Lex_unknownByteBecomesUnknownToken(t *testing.T) {
	toks := dynlex.Lex("let a = 1 # ;")
	assert.Contains(t, kinds(toks), dynlex.UNKNOWN)
}

func Test_Lex_stringLiteral(t *testing.T) {
	toks := dynlex.Lex(`"hello world"`)
	assert.Equal(t, dynlex.STRING, toks[0].Kind)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func Test_Lex_alwaysEndsInEOF(t *testing.T) {
	toks := dynlex.Lex("")
	assert.Len(t, toks, 1)
	assert.Equal(t, dynlex.EOF, toks[0].Kind)
}

func Test_Lex_lineTracking(t *testing.T) {
	toks := dynlex.Lex("let a = 1;\nlet b = 2;")
	var secondLet token.Token
	seen := 0
	for _, tok := range toks {
		if tok.Kind == dynlex.LET {
			seen++
			if seen == 2 {
				secondLet = tok
			}
		}
	}
	assert.Equal(t, 2, secondLet.Line)
}
