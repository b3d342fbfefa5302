package statparse_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/statast"
	"github.com/corvidwalk/transbridge/internal/statlex"
	"github.com/corvidwalk/transbridge/internal/statparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*statast.CompilationUnit, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := statlex.Lex(src)
	p := statparse.New(toks, src, sink)
	cu := p.Parse()
	require.NotNil(t, cu)
	return cu, sink
}

func Test_Parse_usingDirective(t *testing.T) {
	cu, sink := parse(t, "using System; using System.Collections.Generic;")
	require.Len(t, cu.Usings, 2)
	assert.Equal(t, "System", cu.Usings[0].Namespace)
	assert.Equal(t, "System.Collections.Generic", cu.Usings[1].Namespace)
	assert.Empty(t, sink.Errors)
}

func Test_Parse_classWithConstructorAndMethod(t *testing.T) {
	cu, sink := parse(t, `
		public class Dog
		{
			public Dog(string name)
			{
				this.name = name;
			}

			public string Bark()
			{
				return "woof";
			}
		}
	`)
	require.Empty(t, sink.Errors)
	require.Len(t, cu.Members, 1)
	cls, ok := cu.Members[0].(*statast.ClassDeclaration)
	require.True(t, ok)
	require.Len(t, cls.Members, 2)

	ctor, ok := cls.Members[0].(*statast.ConstructorDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Dog", ctor.Name)

	meth, ok := cls.Members[1].(*statast.MethodDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Bark", meth.Name)
}

func Test_Parse_constructorVsMethodDisambiguation(t *testing.T) {
	// A method whose name happens to match a type-shaped identifier must
	// not be misread as a constructor: the disambiguation is driven
	// entirely by "identifier immediately followed by '('".
	cu, _ := parse(t, `
		public class Box
		{
			public Box()
			{
			}

			public int Width(int scale)
			{
				return scale;
			}
		}
	`)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	require.Len(t, cls.Members, 2)
	_, ctorOK := cls.Members[0].(*statast.ConstructorDeclaration)
	assert.True(t, ctorOK)
	meth, methOK := cls.Members[1].(*statast.MethodDeclaration)
	assert.True(t, methOK)
	assert.Equal(t, "Width", meth.Name)
}

func Test_Parse_propertyWithGetSet(t *testing.T) {
	cu, _ := parse(t, `
		public class Point
		{
			public int X { get; set; }
		}
	`)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	prop, ok := cls.Members[0].(*statast.PropertyDeclaration)
	require.True(t, ok)
	assert.True(t, prop.HasGet)
	assert.True(t, prop.HasSet)
}

func Test_Parse_genericTypeParametersAndConstraints(t *testing.T) {
	cu, sink := parse(t, `
		public class Box<T> where T : IComparable
		{
		}
	`)
	require.Empty(t, sink.Errors)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	require.Len(t, cls.TypeParameters, 1)
	assert.Equal(t, "T", cls.TypeParameters[0].Name)
	require.Len(t, cls.TypeParameters[0].Constraints, 1)
}

func Test_Parse_forEachStatement(t *testing.T) {
	cu, _ := parse(t, `
		public class P
		{
			public void Run()
			{
				foreach (var x in items)
				{
					Use(x);
				}
			}
		}
	`)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	meth := cls.Members[0].(*statast.MethodDeclaration)
	_, ok := meth.Body.Body[0].(*statast.ForEachStatement)
	assert.True(t, ok)
}

func Test_Parse_switchStatement(t *testing.T) {
	cu, _ := parse(t, `
		public class P
		{
			public void Run()
			{
				switch (x)
				{
					case 1:
						DoA();
						break;
					default:
						DoB();
						break;
				}
			}
		}
	`)
	cls := cu.Members[0].(*statast.ClassDeclaration)
	meth := cls.Members[0].(*statast.MethodDeclaration)
	sw, ok := meth.Body.Body[0].(*statast.SwitchStatement)
	require.True(t, ok)
	assert.Len(t, sw.Cases, 2)
}

func Test_Parse_bareTopLevelStatements(t *testing.T) {
	// A program with no class wrapper at all must still parse: bare
	// top-level statements are what triggers the conditional Main-wrap in
	// the emitter.
	cu, sink := parse(t, `Console.WriteLine("hi");`)
	require.Empty(t, sink.Errors)
	require.Len(t, cu.Members, 1)
	_, ok := cu.Members[0].(*statast.ExpressionStatement)
	assert.True(t, ok)
}

func Test_Parse_panicModeRecovery_resyncsAtClassBoundary(t *testing.T) {
	cu, sink := parse(t, `
		public class Broken
		{
			this is not valid c# at all!!!
		}

		public class Fine
		{
		}
	`)
	assert.NotEmpty(t, sink.Errors)
	assert.GreaterOrEqual(t, sink.ErrorRecoveryCount, 1)
	require.Len(t, cu.Members, 2)
	_, ok := cu.Members[1].(*statast.ClassDeclaration)
	assert.True(t, ok)
}

func Test_Parse_bitwiseAndShiftPrecedence(t *testing.T) {
	cu, _ := parse(t, `Console.WriteLine(a | b & c);`)
	stmt := cu.Members[0].(*statast.ExpressionStatement)
	call := stmt.Expr.(*statast.CallExpression)
	bin := call.Args[0].(*statast.BinaryExpression)
	assert.Equal(t, "|", bin.Op)
	rhs, ok := bin.Right.(*statast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "&", rhs.Op)
}

func Test_Parse_conditionalExpression(t *testing.T) {
	cu, _ := parse(t, `Console.WriteLine(a ? b : c);`)
	stmt := cu.Members[0].(*statast.ExpressionStatement)
	call := stmt.Expr.(*statast.CallExpression)
	_, ok := call.Args[0].(*statast.ConditionalExpression)
	assert.True(t, ok)
}
