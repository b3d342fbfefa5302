package mapper_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/corvidwalk/transbridge/internal/mapper"
	"github.com/corvidwalk/transbridge/internal/statast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DynToStat_strictEqualityIsLossyAndWarns(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)

	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ExpressionStatement{Expr: &dynast.BinaryExpression{
			Op: "===", Left: &dynast.Identifier{Name: "a"}, Right: &dynast.Identifier{Name: "b"},
		}},
	}}

	cu := m.DynToStat(prog)
	stmt := cu.Members[0].(*statast.ExpressionStatement)
	bin := stmt.Expr.(*statast.BinaryExpression)
	assert.Equal(t, "==", bin.Op)
	require.Len(t, sink.Warnings, 1)
	assert.Contains(t, sink.Warnings[0].Message, "strict equality")
}

func Test_DynToStat_undefinedLowersToNullWithWarning(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ExpressionStatement{Expr: &dynast.Literal{LitKind: dynast.LitUndefined, Raw: "undefined"}},
	}}

	cu := m.DynToStat(prog)
	stmt := cu.Members[0].(*statast.ExpressionStatement)
	lit := stmt.Expr.(*statast.Literal)
	assert.Equal(t, statast.LitNull, lit.LitKind)
	require.Len(t, sink.Warnings, 1)
}

func Test_DynToStat_arrayLiteralHasNoEquivalent(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ExpressionStatement{Expr: &dynast.ArrayLiteral{Elements: []dynast.Node{}}},
	}}

	cu := m.DynToStat(prog)
	stmt := cu.Members[0].(*statast.ExpressionStatement)
	_, ok := stmt.Expr.(*statast.Unsupported)
	assert.True(t, ok)
	require.Len(t, sink.Errors, 1)
}

func Test_DynToStat_functionBecomesStaticMethod(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.FunctionDeclaration{Name: "add", Params: []string{"a", "b"}, Body: &dynast.BlockStatement{}},
	}}

	cu := m.DynToStat(prog)
	meth := cu.Members[0].(*statast.MethodDeclaration)
	assert.Contains(t, meth.Modifiers, "static")
	assert.Equal(t, "add", meth.Name)
	assert.Len(t, meth.Parameters, 2)
}

func Test_DynToStat_classMethodsAreNotStatic(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.ClassDeclaration{Name: "Dog", SuperClass: "Animal", Methods: []*dynast.FunctionDeclaration{
			{Name: "bark", Body: &dynast.BlockStatement{}},
		}},
	}}

	cu := m.DynToStat(prog)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	require.Len(t, cls.BaseTypes, 1)
	assert.Equal(t, "Animal", cls.BaseTypes[0].Name.String())
	meth := cls.Members[0].(*statast.MethodDeclaration)
	assert.NotContains(t, meth.Modifiers, "static")
}

func Test_DynToStat_multiDeclaratorNarrowsToFirstWithWarning(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	prog := &dynast.Program{Body: []dynast.Node{
		&dynast.VariableDeclaration{Kw: "let", Declarations: []*dynast.VariableDeclarator{
			{Name: "a", Init: &dynast.Literal{LitKind: dynast.LitNumber, Raw: "1"}},
			{Name: "b", Init: &dynast.Literal{LitKind: dynast.LitNumber, Raw: "2"}},
		}},
	}}

	cu := m.DynToStat(prog)
	decl := cu.Members[0].(*statast.VariableDeclaration)
	assert.Equal(t, "a", decl.Identifier)
	require.Len(t, sink.Warnings, 1)
}

func Test_StatToDyn_equalityRaisedToStrictWithWarning(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{Members: []statast.Node{
		&statast.ExpressionStatement{Expr: &statast.BinaryExpression{
			Op: "==", Left: &statast.Identifier{Name: "a"}, Right: &statast.Identifier{Name: "b"},
		}},
	}}

	prog := m.StatToDyn(cu)
	stmt := prog.Body[0].(*dynast.ExpressionStatement)
	bin := stmt.Expr.(*dynast.BinaryExpression)
	assert.Equal(t, "===", bin.Op)
	require.Len(t, sink.Warnings, 1)
}

func Test_StatToDyn_bitwiseOperatorHasNoEquivalent(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{Members: []statast.Node{
		&statast.ExpressionStatement{Expr: &statast.BinaryExpression{
			Op: "&", Left: &statast.Identifier{Name: "a"}, Right: &statast.Identifier{Name: "b"},
		}},
	}}

	m.StatToDyn(cu)
	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0].Message, "bitwise")
}

func Test_StatToDyn_conditionalExpressionHasNoEquivalent(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{Members: []statast.Node{
		&statast.ExpressionStatement{Expr: &statast.ConditionalExpression{
			Test: &statast.Identifier{Name: "a"}, Consequent: &statast.Identifier{Name: "b"}, Alternate: &statast.Identifier{Name: "c"},
		}},
	}}

	m.StatToDyn(cu)
	require.Len(t, sink.Errors, 1)
}

func Test_StatToDyn_usingDirectivesDroppedAsInfo(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{
		Usings:  []*statast.UsingDirective{{Namespace: "System"}},
		Members: []statast.Node{},
	}

	m.StatToDyn(cu)
	require.Len(t, sink.Warnings, 1)
	assert.Equal(t, diag.SeverityInfo, sink.Warnings[0].Severity)
}

func Test_StatToDyn_constructorBecomesNamedFunction(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{Members: []statast.Node{
		&statast.ClassDeclaration{Name: "Box", Members: []statast.Node{
			&statast.ConstructorDeclaration{Name: "Box", Body: &statast.BlockStatement{}},
		}},
	}}

	prog := m.StatToDyn(cu)
	cls := prog.Body[0].(*dynast.ClassDeclaration)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "constructor", cls.Methods[0].Name)
}

func Test_StatToDyn_newExpressionMapsQualifiedTypeToMemberChain(t *testing.T) {
	sink := diag.NewSink()
	m := mapper.New(sink)
	cu := &statast.CompilationUnit{Members: []statast.Node{
		&statast.ExpressionStatement{Expr: &statast.NewExpression{
			Type: &statast.NamedType{Name: &statast.QualifiedName{Parts: []string{"System", "Text", "StringBuilder"}}},
		}},
	}}

	prog := m.StatToDyn(cu)
	stmt := prog.Body[0].(*dynast.ExpressionStatement)
	newExpr := stmt.Expr.(*dynast.NewExpression)
	member, ok := newExpr.Callee.(*dynast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "StringBuilder", member.Property)
}
