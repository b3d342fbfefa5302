// Package mapper implements the cross-language AST mapper (C5): DynToStat
// and StatToDyn each walk a source-language tree and build a fresh
// target-language tree, per the rule tables in spec.md §4.4. Grounded on
// the teacher's tunascript→ExpansionAST rewrite pass (tunascript/fetmpl),
// the one place in the reference that rebuilds one tree shape from
// another; generalized here to two full, separately-typed ASTs instead of
// one AST rewritten in place.
package mapper

import (
	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/corvidwalk/transbridge/internal/statast"
)

// Mapper carries the diagnostics sink every mapping step reports through.
// It holds no other state; DynToStat and StatToDyn are pure functions of
// their input tree given a sink.
type Mapper struct {
	sink *diag.Sink
}

func New(sink *diag.Sink) *Mapper {
	return &Mapper{sink: sink}
}

func (m *Mapper) unsupported(kind string, line int) {
	m.sink.AddError(diag.Diagnostic{
		Type: diag.TypeASTConversion, Severity: diag.SeverityError, Line: line,
		Message: "no target-language equivalent for " + kind,
	})
}

// ==================== L-dyn -> L-stat ====================

func (m *Mapper) DynToStat(prog *dynast.Program) *statast.CompilationUnit {
	members := make([]statast.Node, 0, len(prog.Body))
	for _, n := range prog.Body {
		members = append(members, m.dynToStatNode(n))
	}
	return &statast.CompilationUnit{Members: members, Line: prog.Line}
}

func (m *Mapper) dynToStatNode(n dynast.Node) statast.Node {
	switch v := n.(type) {
	case *dynast.FunctionDeclaration:
		return m.dynFuncToMethod(v, true)
	case *dynast.ClassDeclaration:
		return m.dynClassToStat(v)
	case *dynast.VariableDeclaration:
		return m.dynVarDeclToStat(v)
	case *dynast.BlockStatement:
		return m.dynBlockToStat(v)
	case *dynast.IfStatement:
		return &statast.IfStatement{
			Test: m.dynExprToStat(v.Test), Consequent: m.dynToStatNode(v.Consequent),
			Alternate: m.dynAltToStat(v.Alternate), Line: v.Line,
		}
	case *dynast.WhileStatement:
		return &statast.WhileStatement{Test: m.dynExprToStat(v.Test), Body: m.dynToStatNode(v.Body), Line: v.Line}
	case *dynast.ForStatement:
		return &statast.ForStatement{
			Init: m.dynAltToStat(v.Init), Test: m.dynAltToStat(v.Test),
			Update: m.dynAltToStat(v.Update), Body: m.dynToStatNode(v.Body), Line: v.Line,
		}
	case *dynast.ReturnStatement:
		return &statast.ReturnStatement{Argument: m.dynAltToStat(v.Argument), Line: v.Line}
	case *dynast.ThrowStatement:
		return &statast.ThrowStatement{Argument: m.dynExprToStat(v.Argument), Line: v.Line}
	case *dynast.BreakStatement:
		return &statast.BreakStatement{Line: v.Line}
	case *dynast.ContinueStatement:
		return &statast.ContinueStatement{Line: v.Line}
	case *dynast.TryStatement:
		return &statast.TryStatement{
			Block: m.dynBlockToStat(v.Block), CatchParam: v.CatchParam,
			CatchBlock: m.dynBlockPtrToStat(v.CatchBlock), FinallyBlock: m.dynBlockPtrToStat(v.FinallyBlock),
			Line: v.Line,
		}
	case *dynast.ExpressionStatement:
		return &statast.ExpressionStatement{Expr: m.dynExprToStat(v.Expr), Line: v.Line}
	default:
		return m.dynExprToStat(n)
	}
}

func (m *Mapper) dynAltToStat(n dynast.Node) statast.Node {
	if n == nil {
		return nil
	}
	return m.dynToStatNode(n)
}

func (m *Mapper) dynBlockToStat(b *dynast.BlockStatement) *statast.BlockStatement {
	body := make([]statast.Node, 0, len(b.Body))
	for _, s := range b.Body {
		body = append(body, m.dynToStatNode(s))
	}
	return &statast.BlockStatement{Body: body, Line: b.Line}
}

func (m *Mapper) dynBlockPtrToStat(b *dynast.BlockStatement) *statast.BlockStatement {
	if b == nil {
		return nil
	}
	return m.dynBlockToStat(b)
}

// dynFuncToMethod maps a FunctionDeclaration to a MethodDeclaration.
// Parameters receive the default type string, per spec.md §4.4; static
// controls whether the "static" modifier is attached (top-level functions
// become static Main-sibling methods, class methods stay instance methods).
func (m *Mapper) dynFuncToMethod(f *dynast.FunctionDeclaration, static bool) *statast.MethodDeclaration {
	mods := []string{"public"}
	if static {
		mods = append(mods, "static")
	}
	params := make([]*statast.Parameter, 0, len(f.Params))
	for _, name := range f.Params {
		params = append(params, &statast.Parameter{Type: statast.SimpleType("string", f.Line), Name: name, Line: f.Line})
	}
	return &statast.MethodDeclaration{
		Modifiers: mods, ReturnType: statast.SimpleType("void", f.Line), Name: f.Name,
		Parameters: params, Body: m.dynBlockToStat(f.Body), Line: f.Line,
	}
}

func (m *Mapper) dynClassToStat(c *dynast.ClassDeclaration) *statast.ClassDeclaration {
	var bases []*statast.NamedType
	if c.SuperClass != "" {
		bases = append(bases, statast.SimpleType(c.SuperClass, c.Line))
	}
	members := make([]statast.Node, 0, len(c.Methods))
	for _, meth := range c.Methods {
		members = append(members, m.dynFuncToMethod(meth, false))
	}
	return &statast.ClassDeclaration{Modifiers: []string{"public"}, Name: c.Name, BaseTypes: bases, Members: members, Line: c.Line}
}

// dynVarDeclToStat takes the first declarator per spec.md §4.4; additional
// declarators are dropped with a warning.
func (m *Mapper) dynVarDeclToStat(v *dynast.VariableDeclaration) *statast.VariableDeclaration {
	if len(v.Declarations) == 0 {
		return &statast.VariableDeclaration{Identifier: "_", Line: v.Line}
	}
	first := v.Declarations[0]
	if len(v.Declarations) > 1 {
		m.sink.AddWarning(diag.Diagnostic{
			Type: diag.TypeSemantic, Severity: diag.SeverityWarning, Line: v.Line,
			Message: "multi-declarator variable statement narrowed to its first declarator",
		})
	}
	return &statast.VariableDeclaration{Identifier: first.Name, Initializer: m.dynAltToStat(first.Init), Line: v.Line}
}

var dynToStatBinOps = map[string]string{
	"===": "==", "!==": "!=",
	"==": "==", "!=": "!=", "<": "<", ">": ">", "<=": "<=", ">=": ">=",
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%",
	"instanceof": "instanceof", "in": "in",
}

func (m *Mapper) dynExprToStat(n dynast.Node) statast.Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *dynast.Identifier:
		return &statast.Identifier{Name: v.Name, Line: v.Line}
	case *dynast.Literal:
		if v.LitKind == dynast.LitUndefined {
			m.sink.AddWarning(diag.Diagnostic{
				Type: diag.TypeSemantic, Severity: diag.SeverityWarning, Line: v.Line,
				Message: "'undefined' has no L-stat equivalent; lowered to 'null'",
			})
			return &statast.Literal{LitKind: statast.LitNull, Raw: "null", Line: v.Line}
		}
		return &statast.Literal{LitKind: statast.LiteralKind(v.LitKind), Raw: v.Raw, Line: v.Line}
	case *dynast.AssignmentExpression:
		return &statast.AssignmentExpression{Op: v.Op, Target: m.dynExprToStat(v.Target), Value: m.dynExprToStat(v.Value), Line: v.Line}
	case *dynast.LogicalExpression:
		return &statast.BinaryExpression{Op: v.Op, Left: m.dynExprToStat(v.Left), Right: m.dynExprToStat(v.Right), Line: v.Line}
	case *dynast.BinaryExpression:
		target, lossy := dynToStatBinOps[v.Op], v.Op == "===" || v.Op == "!=="
		if target == "" {
			target = v.Op
		}
		if lossy {
			m.sink.AddWarning(diag.Diagnostic{
				Type: diag.TypeSemantic, Severity: diag.SeverityWarning, Line: v.Line,
				Message: "strict equality '" + v.Op + "' lowered to '" + target + "'; the target language cannot express reference-strict comparison",
			})
		}
		return &statast.BinaryExpression{Op: target, Left: m.dynExprToStat(v.Left), Right: m.dynExprToStat(v.Right), Line: v.Line}
	case *dynast.UnaryExpression:
		return &statast.UnaryExpression{Op: v.Op, Operand: m.dynExprToStat(v.Operand), Line: v.Line}
	case *dynast.UpdateExpression:
		return &statast.UpdateExpression{Op: v.Op, Operand: m.dynExprToStat(v.Operand), Prefix: v.Prefix, Line: v.Line}
	case *dynast.CallExpression:
		args := make([]statast.Node, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, m.dynExprToStat(a))
		}
		return &statast.CallExpression{Callee: m.dynExprToStat(v.Callee), Args: args, Line: v.Line}
	case *dynast.MemberExpression:
		return &statast.MemberExpression{Object: m.dynExprToStat(v.Object), Property: v.Property, Line: v.Line}
	case *dynast.NewExpression:
		args := make([]statast.Node, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, m.dynExprToStat(a))
		}
		return &statast.NewExpression{Type: dynNodeToNamedType(v.Callee, v.Line), Args: args, Line: v.Line}
	case *dynast.ArrayLiteral:
		m.unsupported("ArrayLiteral", v.Line)
		return &statast.Unsupported{OriginalKind: "ArrayLiteral", Line: v.Line}
	case *dynast.ObjectLiteral:
		m.unsupported("ObjectLiteral", v.Line)
		return &statast.Unsupported{OriginalKind: "ObjectLiteral", Line: v.Line}
	default:
		m.unsupported(dynast.String(n), n.SrcLine())
		return &statast.Unsupported{OriginalKind: dynast.String(n), Line: n.SrcLine()}
	}
}

// dynNodeToNamedType turns a `new Foo.Bar(...)`-style callee chain (an
// Identifier possibly wrapped in MemberExpressions) into a NamedType.
func dynNodeToNamedType(n dynast.Node, line int) *statast.NamedType {
	var parts []string
	var walk func(dynast.Node)
	walk = func(n dynast.Node) {
		switch v := n.(type) {
		case *dynast.MemberExpression:
			walk(v.Object)
			parts = append(parts, v.Property)
		case *dynast.Identifier:
			parts = append(parts, v.Name)
		}
	}
	walk(n)
	if len(parts) == 0 {
		parts = []string{"object"}
	}
	return &statast.NamedType{Name: &statast.QualifiedName{Parts: parts, Line: line}, Line: line}
}

// ==================== L-stat -> L-dyn ====================

func (m *Mapper) StatToDyn(cu *statast.CompilationUnit) *dynast.Program {
	if len(cu.Usings) > 0 {
		m.sink.AddInfo(diag.Diagnostic{
			Type: diag.TypeSemantic, Severity: diag.SeverityInfo, Line: cu.Line,
			Message: "using directives have no L-dyn equivalent and were dropped",
		})
	}
	body := make([]dynast.Node, 0, len(cu.Members))
	for _, n := range cu.Members {
		body = append(body, m.statToDynNode(n))
	}
	return &dynast.Program{Body: body, Line: cu.Line}
}

func (m *Mapper) statToDynNode(n statast.Node) dynast.Node {
	switch v := n.(type) {
	case *statast.MethodDeclaration:
		return m.statMethodToFunc(v)
	case *statast.ClassDeclaration:
		return m.statClassToDyn(v)
	case *statast.NamespaceDeclaration:
		m.sink.AddInfo(diag.Diagnostic{
			Type: diag.TypeSemantic, Severity: diag.SeverityInfo, Line: v.Line,
			Message: "namespace '" + v.Name + "' has no L-dyn equivalent; its members were hoisted",
		})
		body := make([]dynast.Node, 0, len(v.Members))
		for _, mm := range v.Members {
			body = append(body, m.statToDynNode(mm))
		}
		return &dynast.BlockStatement{Body: body, Line: v.Line}
	case *statast.VariableDeclaration:
		return &dynast.VariableDeclaration{
			Kw: "var",
			Declarations: []*dynast.VariableDeclarator{
				{Name: v.Identifier, Init: m.statAltToDyn(v.Initializer), Line: v.Line},
			},
			Line: v.Line,
		}
	case *statast.BlockStatement:
		return m.statBlockToDyn(v)
	case *statast.IfStatement:
		return &dynast.IfStatement{
			Test: m.statExprToDyn(v.Test), Consequent: m.statToDynNode(v.Consequent),
			Alternate: m.statAltToDyn(v.Alternate), Line: v.Line,
		}
	case *statast.WhileStatement:
		return &dynast.WhileStatement{Test: m.statExprToDyn(v.Test), Body: m.statToDynNode(v.Body), Line: v.Line}
	case *statast.ForStatement:
		return &dynast.ForStatement{
			Init: m.statAltToDyn(v.Init), Test: m.statAltToDyn(v.Test),
			Update: m.statAltToDyn(v.Update), Body: m.statToDynNode(v.Body), Line: v.Line,
		}
	case *statast.ReturnStatement:
		return &dynast.ReturnStatement{Argument: m.statAltToDyn(v.Argument), Line: v.Line}
	case *statast.ThrowStatement:
		return &dynast.ThrowStatement{Argument: m.statAltToDyn(v.Argument), Line: v.Line}
	case *statast.BreakStatement:
		return &dynast.BreakStatement{Line: v.Line}
	case *statast.ContinueStatement:
		return &dynast.ContinueStatement{Line: v.Line}
	case *statast.TryStatement:
		return &dynast.TryStatement{
			Block: m.statBlockToDyn(v.Block), CatchParam: v.CatchParam,
			CatchBlock: m.statBlockPtrToDyn(v.CatchBlock), FinallyBlock: m.statBlockPtrToDyn(v.FinallyBlock),
			Line: v.Line,
		}
	case *statast.ExpressionStatement:
		return &dynast.ExpressionStatement{Expr: m.statExprToDyn(v.Expr), Line: v.Line}
	case *statast.DoWhileStatement:
		m.unsupported("do-while statement (no L-dyn equivalent; lowering would change loop semantics)", v.Line)
		return &dynast.WhileStatement{Test: m.statExprToDyn(v.Test), Body: m.statToDynNode(v.Body), Line: v.Line}
	case *statast.ForEachStatement:
		m.unsupported("foreach statement", v.Line)
		return &dynast.BlockStatement{Body: nil, Line: v.Line}
	case *statast.SwitchStatement:
		m.unsupported("switch statement", v.Line)
		return &dynast.BlockStatement{Body: nil, Line: v.Line}
	default:
		return m.statExprToDyn(n)
	}
}

func (m *Mapper) statAltToDyn(n statast.Node) dynast.Node {
	if n == nil {
		return nil
	}
	return m.statToDynNode(n)
}

func (m *Mapper) statBlockToDyn(b *statast.BlockStatement) *dynast.BlockStatement {
	body := make([]dynast.Node, 0, len(b.Body))
	for _, s := range b.Body {
		body = append(body, m.statToDynNode(s))
	}
	return &dynast.BlockStatement{Body: body, Line: b.Line}
}

func (m *Mapper) statBlockPtrToDyn(b *statast.BlockStatement) *dynast.BlockStatement {
	if b == nil {
		return nil
	}
	return m.statBlockToDyn(b)
}

func (m *Mapper) statMethodToFunc(meth *statast.MethodDeclaration) *dynast.FunctionDeclaration {
	params := make([]string, 0, len(meth.Parameters))
	for _, p := range meth.Parameters {
		params = append(params, p.Name)
	}
	body := meth.Body
	if body == nil {
		body = &statast.BlockStatement{Line: meth.Line}
	}
	return &dynast.FunctionDeclaration{Name: meth.Name, Params: params, Body: m.statBlockToDyn(body), Line: meth.Line}
}

func (m *Mapper) statClassToDyn(c *statast.ClassDeclaration) *dynast.ClassDeclaration {
	super := ""
	if len(c.BaseTypes) > 0 {
		super = c.BaseTypes[0].Name.String()
	}
	var methods []*dynast.FunctionDeclaration
	for _, member := range c.Members {
		switch mm := member.(type) {
		case *statast.MethodDeclaration:
			methods = append(methods, m.statMethodToFunc(mm))
		case *statast.ConstructorDeclaration:
			params := make([]string, 0, len(mm.Parameters))
			for _, p := range mm.Parameters {
				params = append(params, p.Name)
			}
			methods = append(methods, &dynast.FunctionDeclaration{Name: "constructor", Params: params, Body: m.statBlockToDyn(mm.Body), Line: mm.Line})
		default:
			m.sink.AddWarning(diag.Diagnostic{
				Type: diag.TypeASTConversion, Severity: diag.SeverityWarning, Line: member.SrcLine(),
				Message: "class member has no L-dyn representation and was dropped",
			})
		}
	}
	return &dynast.ClassDeclaration{Name: c.Name, SuperClass: super, Methods: methods, Line: c.Line}
}

var statToDynBinOps = map[string]string{
	"==": "===", "!=": "!==",
	"<": "<", ">": ">", "<=": "<=", ">=": ">=",
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%",
	"&&": "&&", "||": "||", "instanceof": "instanceof", "in": "in",
}

var bitwiseOrShiftOps = map[string]bool{
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
}

func (m *Mapper) statExprToDyn(n statast.Node) dynast.Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *statast.Identifier:
		return &dynast.Identifier{Name: v.Name, Line: v.Line}
	case *statast.Literal:
		return &dynast.Literal{LitKind: dynast.LiteralKind(v.LitKind), Raw: v.Raw, Line: v.Line}
	case *statast.AssignmentExpression:
		return &dynast.AssignmentExpression{Op: v.Op, Target: m.statExprToDyn(v.Target), Value: m.statExprToDyn(v.Value), Line: v.Line}
	case *statast.ConditionalExpression:
		m.unsupported("conditional (?:) expression", v.Line)
		return m.statExprToDyn(v.Consequent)
	case *statast.BinaryExpression:
		if bitwiseOrShiftOps[v.Op] {
			m.unsupported("bitwise/shift operator '"+v.Op+"'", v.Line)
			return m.statExprToDyn(v.Left)
		}
		target, raised := statToDynBinOps[v.Op], v.Op == "==" || v.Op == "!="
		if target == "" {
			target = v.Op
		}
		if raised {
			m.sink.AddWarning(diag.Diagnostic{
				Type: diag.TypeSemantic, Severity: diag.SeverityWarning, Line: v.Line,
				Message: "equality '" + v.Op + "' raised to '" + target + "'; safe for primitives, a behavior change for reference types",
			})
		}
		if v.Op == "&&" || v.Op == "||" {
			return &dynast.LogicalExpression{Op: v.Op, Left: m.statExprToDyn(v.Left), Right: m.statExprToDyn(v.Right), Line: v.Line}
		}
		return &dynast.BinaryExpression{Op: target, Left: m.statExprToDyn(v.Left), Right: m.statExprToDyn(v.Right), Line: v.Line}
	case *statast.UnaryExpression:
		if v.Op == "~" {
			m.unsupported("bitwise-not operator", v.Line)
			return m.statExprToDyn(v.Operand)
		}
		return &dynast.UnaryExpression{Op: v.Op, Operand: m.statExprToDyn(v.Operand), Line: v.Line}
	case *statast.UpdateExpression:
		return &dynast.UpdateExpression{Op: v.Op, Operand: m.statExprToDyn(v.Operand), Prefix: v.Prefix, Line: v.Line}
	case *statast.CallExpression:
		args := make([]dynast.Node, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, m.statExprToDyn(a))
		}
		return &dynast.CallExpression{Callee: m.statExprToDyn(v.Callee), Args: args, Line: v.Line}
	case *statast.MemberExpression:
		return &dynast.MemberExpression{Object: m.statExprToDyn(v.Object), Property: v.Property, Line: v.Line}
	case *statast.NewExpression:
		args := make([]dynast.Node, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, m.statExprToDyn(a))
		}
		return &dynast.NewExpression{Callee: statNamedTypeToDynNode(v.Type), Args: args, Line: v.Line}
	default:
		m.unsupported(statast.String(n), n.SrcLine())
		return &dynast.Unsupported{OriginalKind: statast.String(n), Line: n.SrcLine()}
	}
}

func statNamedTypeToDynNode(t *statast.NamedType) dynast.Node {
	parts := t.Name.Parts
	var node dynast.Node = &dynast.Identifier{Name: parts[0], Line: t.Line}
	for _, p := range parts[1:] {
		node = &dynast.MemberExpression{Object: node, Property: p, Line: t.Line}
	}
	return node
}
