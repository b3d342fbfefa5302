package statast_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/statast"
	"github.com/stretchr/testify/assert"
)

func Test_NamedType_String_withGenericArgs(t *testing.T) {
	typ := &statast.NamedType{
		Name:          &statast.QualifiedName{Parts: []string{"List"}},
		TypeArguments: []*statast.NamedType{statast.SimpleType("int", 1)},
	}
	assert.Equal(t, "List<int>", typ.String())
}

func Test_NamedType_String_plain(t *testing.T) {
	typ := statast.SimpleType("string", 1)
	assert.Equal(t, "string", typ.String())
}

func Test_QualifiedName_String_dotJoins(t *testing.T) {
	q := &statast.QualifiedName{Parts: []string{"System", "Collections", "Generic"}}
	assert.Equal(t, "System.Collections.Generic", q.String())
}

func Test_CompilationUnit_KindAndSrcLine(t *testing.T) {
	cu := &statast.CompilationUnit{Line: 1}
	assert.Equal(t, statast.KCompilationUnit, cu.Kind())
	assert.Equal(t, 1, cu.SrcLine())
}

func Test_String_binaryExpression(t *testing.T) {
	bin := &statast.BinaryExpression{
		Op:    "&&",
		Left:  &statast.Identifier{Name: "a", Line: 1},
		Right: &statast.Identifier{Name: "b", Line: 1},
		Line:  1,
	}
	assert.Equal(t, "Binary(Identifier(a) && Identifier(b))", statast.String(bin))
}

func Test_LiteralKind_hasNoUndefinedVariant(t *testing.T) {
	// L-stat has no "undefined" literal; only LitNull represents absence.
	assert.NotEqual(t, statast.LitNull, statast.LitBoolean)
	assert.NotEqual(t, statast.LitNull, statast.LitString)
	assert.NotEqual(t, statast.LitNull, statast.LitNumber)
}

func Test_Dump(t *testing.T) {
	out := statast.Dump("target", &statast.Identifier{Name: "x", Line: 1})
	assert.Contains(t, out, "target:")
	assert.Contains(t, out, "Identifier(x)")
}
