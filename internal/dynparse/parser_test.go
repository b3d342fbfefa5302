package dynparse_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/corvidwalk/transbridge/internal/dynlex"
	"github.com/corvidwalk/transbridge/internal/dynparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*dynast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := dynlex.Lex(src)
	p := dynparse.New(toks, src, sink)
	prog := p.Parse()
	require.NotNil(t, prog)
	return prog, sink
}

func Test_Parse_variableDeclaration(t *testing.T) {
	prog, sink := parse(t, "let x = 5;")
	require.Len(t, prog.Body, 1)
	decl, ok := prog.Body[0].(*dynast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "let", decl.Kw)
	require.Len(t, decl.Declarations, 1)
	assert.Equal(t, "x", decl.Declarations[0].Name)
	assert.Empty(t, sink.Errors)
}

func Test_Parse_functionDeclaration(t *testing.T) {
	prog, sink := parse(t, "function add(a, b) { return a + b; }")
	require.Len(t, prog.Body, 1)
	fn, ok := prog.Body[0].(*dynast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.Empty(t, sink.Errors)
}

func Test_Parse_classWithExtends(t *testing.T) {
	prog, _ := parse(t, "class Dog extends Animal { bark() { return 1; } }")
	cls, ok := prog.Body[0].(*dynast.ClassDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Dog", cls.Name)
	assert.Equal(t, "Animal", cls.SuperClass)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "bark", cls.Methods[0].Name)
}

func Test_Parse_ifElseChain(t *testing.T) {
	prog, _ := parse(t, `
		if (a) {
			b();
		} else if (c) {
			d();
		} else {
			e();
		}
	`)
	ifs, ok := prog.Body[0].(*dynast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, ifs.Alternate)
	elseif, ok := ifs.Alternate.(*dynast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, elseif.Alternate)
}

func Test_Parse_operatorPrecedence(t *testing.T) {
	// "1 + 2 * 3" must parse as 1 + (2 * 3), not (1 + 2) * 3.
	prog, _ := parse(t, "let x = 1 + 2 * 3;")
	decl := prog.Body[0].(*dynast.VariableDeclaration)
	bin := decl.Declarations[0].Init.(*dynast.BinaryExpression)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*dynast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func Test_Parse_strictEqualityTokenSurvives(t *testing.T) {
	prog, _ := parse(t, "let x = a === b;")
	decl := prog.Body[0].(*dynast.VariableDeclaration)
	bin := decl.Declarations[0].Init.(*dynast.BinaryExpression)
	assert.Equal(t, "===", bin.Op)
}

func Test_Parse_panicModeRecovery_resyncsToNextStatement(t *testing.T) {
	// missing semicolon after the first statement; recovery should still
	// find the second, well-formed statement.
	prog, sink := parse(t, "let x = 1 let y = 2;")
	assert.NotEmpty(t, sink.Errors)
	assert.GreaterOrEqual(t, sink.ErrorRecoveryCount, 1)
	assert.GreaterOrEqual(t, len(prog.Body), 1)
}

func Test_Parse_tryCatchFinally(t *testing.T) {
	prog, _ := parse(t, `
		try {
			risky();
		} catch (e) {
			handle(e);
		} finally {
			cleanup();
		}
	`)
	tryStmt, ok := prog.Body[0].(*dynast.TryStatement)
	require.True(t, ok)
	assert.Equal(t, "e", tryStmt.CatchParam)
	require.NotNil(t, tryStmt.FinallyBlock)
}

func Test_Parse_arrayAndObjectLiterals(t *testing.T) {
	prog, _ := parse(t, `let x = [1, 2, 3]; let y = { a: 1, b: "two" };`)
	decl1 := prog.Body[0].(*dynast.VariableDeclaration)
	arr, ok := decl1.Declarations[0].Init.(*dynast.ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	decl2 := prog.Body[1].(*dynast.VariableDeclaration)
	obj, ok := decl2.Declarations[0].Init.(*dynast.ObjectLiteral)
	require.True(t, ok)
	assert.Len(t, obj.Properties, 2)
}

func Test_Parse_newExpressionAndMemberCallChain(t *testing.T) {
	prog, _ := parse(t, "let d = new Dog().bark();")
	decl := prog.Body[0].(*dynast.VariableDeclaration)
	call, ok := decl.Declarations[0].Init.(*dynast.CallExpression)
	require.True(t, ok)
	member, ok := call.Callee.(*dynast.MemberExpression)
	require.True(t, ok)
	_, ok = member.Object.(*dynast.NewExpression)
	assert.True(t, ok)
}

func Test_Parse_totality_onEmptyInput(t *testing.T) {
	prog, sink := parse(t, "")
	assert.NotNil(t, prog)
	assert.Empty(t, prog.Body)
	assert.Empty(t, sink.Errors)
}

func Test_Parse_metricsSink_tracksTokensAndNodes(t *testing.T) {
	_, sink := parse(t, "let x = 1;")
	assert.Greater(t, sink.TokensProcessed, 0)
	assert.Greater(t, sink.ASTNodes, 0)
}

func Test_Parse_forLoop(t *testing.T) {
	prog, _ := parse(t, "for (let i = 0; i < 10; i++) { step(); }")
	forStmt, ok := prog.Body[0].(*dynast.ForStatement)
	require.True(t, ok)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Test)
	assert.NotNil(t, forStmt.Update)
}

func Test_Parse_prefixAndPostfixUpdate(t *testing.T) {
	prog, _ := parse(t, "x++; --y;")
	exprStmt1 := prog.Body[0].(*dynast.ExpressionStatement)
	upd1, ok := exprStmt1.Expr.(*dynast.UpdateExpression)
	require.True(t, ok)
	assert.False(t, upd1.Prefix)

	exprStmt2 := prog.Body[1].(*dynast.ExpressionStatement)
	upd2, ok := exprStmt2.Expr.(*dynast.UpdateExpression)
	require.True(t, ok)
	assert.True(t, upd2.Prefix)
}
