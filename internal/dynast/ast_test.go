package dynast_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/stretchr/testify/assert"
)

func Test_Program_KindAndSrcLine(t *testing.T) {
	p := &dynast.Program{Line: 1, Body: []dynast.Node{
		&dynast.Identifier{Name: "x", Line: 1},
	}}
	assert.Equal(t, dynast.KProgram, p.Kind())
	assert.Equal(t, 1, p.SrcLine())
}

func Test_String_binaryExpression(t *testing.T) {
	bin := &dynast.BinaryExpression{
		Op:    "+",
		Left:  &dynast.Identifier{Name: "a", Line: 1},
		Right: &dynast.Literal{LitKind: dynast.LitNumber, Raw: "1", Line: 1},
		Line:  1,
	}
	assert.Equal(t, "Binary(Identifier(a) + Literal(1))", dynast.String(bin))
}

func Test_String_nilNode(t *testing.T) {
	assert.Equal(t, "<nil>", dynast.String(nil))
}

func Test_ClassDeclaration_defaultsToNoSuperClass(t *testing.T) {
	c := &dynast.ClassDeclaration{Name: "Foo", Line: 1}
	assert.Empty(t, c.SuperClass)
	assert.Equal(t, dynast.KClassDeclaration, c.Kind())
}

func Test_Dump_wrapsLongLiteral(t *testing.T) {
	lit := &dynast.Literal{
		LitKind: dynast.LitString,
		Raw:     `"this is a somewhat long string literal used to exercise wrapping behavior in the dump helper"`,
		Line:    1,
	}
	out := dynast.Dump("value", lit)
	assert.Contains(t, out, "value:")
	assert.Contains(t, out, "Literal(")
}

func Test_Literal_kindsAreDistinct(t *testing.T) {
	assert.NotEqual(t, dynast.LitString, dynast.LitNumber)
	assert.NotEqual(t, dynast.LitNull, dynast.LitUndefined)
}
