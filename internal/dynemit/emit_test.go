package dynemit_test

import (
	"strings"
	"testing"

	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/corvidwalk/transbridge/internal/dynemit"
	"github.com/stretchr/testify/assert"
)

func Test_Emit_variableDeclaration(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.VariableDeclaration{Kw: "let", Declarations: []*dynast.VariableDeclarator{
			{Name: "x", Init: &dynast.Literal{LitKind: dynast.LitNumber, Raw: "5"}},
		}},
	}}
	out := dynemit.Emit(prog)
	assert.Equal(t, "let x = 5;\n", out)
}

func Test_Emit_consoleWriteLineRewrittenToConsoleLog(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ExpressionStatement{Expr: &dynast.CallExpression{
			Callee: &dynast.MemberExpression{Object: &dynast.Identifier{Name: "Console"}, Property: "WriteLine"},
			Args:   []dynast.Node{&dynast.Literal{LitKind: dynast.LitString, Raw: `"hi"`}},
		}},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "console.log(")
	assert.NotContains(t, out, "Console.WriteLine")
}

func Test_Emit_ifElseChainFlattensToElseIf(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.IfStatement{
			Test: &dynast.Identifier{Name: "a"},
			Consequent: &dynast.BlockStatement{Body: []dynast.Node{
				&dynast.ExpressionStatement{Expr: &dynast.CallExpression{Callee: &dynast.Identifier{Name: "b"}}},
			}},
			Alternate: &dynast.IfStatement{
				Test: &dynast.Identifier{Name: "c"},
				Consequent: &dynast.BlockStatement{Body: []dynast.Node{
					&dynast.ExpressionStatement{Expr: &dynast.CallExpression{Callee: &dynast.Identifier{Name: "d"}}},
				}},
			},
		},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "} else if (c) {")
	assert.Equal(t, 2, strings.Count(out, "if ("))
}

func Test_Emit_binaryExpressionIsParenthesized(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.VariableDeclaration{Kw: "let", Declarations: []*dynast.VariableDeclarator{
			{Name: "x", Init: &dynast.BinaryExpression{
				Op:    "+",
				Left:  &dynast.Identifier{Name: "a"},
				Right: &dynast.Identifier{Name: "b"},
			}},
		}},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "(a + b)")
}

func Test_Emit_classWithExtends(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ClassDeclaration{
			Name:       "Dog",
			SuperClass: "Animal",
			Methods: []*dynast.FunctionDeclaration{
				{Name: "bark", Body: &dynast.BlockStatement{}},
			},
		},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "class Dog extends Animal {")
	assert.Contains(t, out, "bark() {")
}

func Test_Emit_indentWidthIsConfigurable(t *testing.T) {
	defer dynemit.SetIndentWidth(4)
	dynemit.SetIndentWidth(2)

	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.FunctionDeclaration{Name: "f", Body: &dynast.BlockStatement{Body: []dynast.Node{
			&dynast.ExpressionStatement{Expr: &dynast.Identifier{Name: "x"}},
		}}},
	}}
	out := dynemit.Emit(prog)
	lines := strings.Split(out, "\n")
	found := false
	for _, l := range lines {
		if l == "  x;" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected indented body line in output:\n%s", out)
	}
}

func Test_Emit_tryCatchFinally(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.TryStatement{
			Block:        &dynast.BlockStatement{Body: []dynast.Node{&dynast.ExpressionStatement{Expr: &dynast.Identifier{Name: "risky"}}}},
			CatchParam:   "e",
			CatchBlock:   &dynast.BlockStatement{},
			FinallyBlock: &dynast.BlockStatement{},
		},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "try {")
	assert.Contains(t, out, "catch (e) {")
	assert.Contains(t, out, "finally {")
}

func Test_Emit_unsupportedNodeRendersCommentWithWrappedText(t *testing.T) {
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ExpressionStatement{Expr: &dynast.Unsupported{OriginalKind: "ConditionalExpression"}},
	}}
	out := dynemit.Emit(prog)
	assert.Contains(t, out, "/* unsupported:")
	assert.Contains(t, out, "ConditionalExpression")
}
