package statlex_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/statlex"
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

func Test_Lex_classDeclarationSkeleton(t *testing.T) {
	toks := statlex.Lex("public class Foo { }")
	assert.Equal(t, []token.Kind{
		statlex.PUBLIC, statlex.CLASS, statlex.IDENTIFIER, statlex.LBRACE, statlex.RBRACE, statlex.EOF,
	}, kinds(toks))
}

func Test_Lex_verbatimString(t *testing.T) {
	toks := statlex.Lex(`@"C:\path\no\escapes"`)
	assert.Equal(t, statlex.STRING, toks[0].Kind)
}

func Test_Lex_IsModifier(t *testing.T) {
	assert.True(t, statlex.IsModifier(statlex.PUBLIC))
	assert.True(t, statlex.IsModifier(statlex.STATIC))
	assert.False(t, statlex.IsModifier(statlex.CLASS))
}

func Test_Lex_shrIsSingleToken(t *testing.T) {
	toks := statlex.Lex("a >> b")
	got := kinds(toks)
	assert.Contains(t, got, statlex.SHR)
}

func Test_Lex_foreachInKeyword(t *testing.T) {
	toks := statlex.Lex("foreach (var x in xs) { }")
	got := kinds(toks)
	assert.Contains(t, got, statlex.FOREACH)
	assert.Contains(t, got, statlex.IN)
}

func Test_Lex_linqKeywordsLexRecognized(t *testing.T) {
	toks := statlex.Lex("select from group orderby")
	assert.Equal(t, []token.Kind{
		statlex.SELECT, statlex.FROM, statlex.GROUP, statlex.ORDERBY, statlex.EOF,
	}, kinds(toks))
}

func Test_Lex_primitiveTypeKeywords(t *testing.T) {
	toks := statlex.Lex("int x; double y;")
	got := kinds(toks)
	assert.Contains(t, got, statlex.INT)
	assert.Contains(t, got, statlex.DOUBLE)
}

func Test_Lex_alwaysEndsInEOF(t *testing.T) {
	toks := statlex.Lex("")
	assert.Equal(t, statlex.EOF, toks[len(toks)-1].Kind)
}
