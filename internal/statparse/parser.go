// Package statparse implements the hand-written recursive-descent parser
// (C3) for L-stat. Same panic/recover discipline as dynparse; the grammar
// covers the fuller precedence cascade (conditional, bitwise, shift) and
// the compilation-unit/class-member structure spec.md §4.3 describes.
//
// Unlike the reference this system replaces, class-member dispatch here
// distinguishes a constructor from a method by checking whether the member
// name is immediately followed by '(' — the reference conflated
// CONSTRUCTOR and IDENTIFIER in the same first-set and misclassified
// identifier-typed methods as constructors (spec.md's Open Questions).
package statparse

import (
	"fmt"
	"strings"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/statast"
	"github.com/corvidwalk/transbridge/internal/statlex"
	"github.com/corvidwalk/transbridge/internal/token"
)

type Parser struct {
	s     *token.Stream
	sink  *diag.Sink
	lines []string
}

func New(toks []token.Token, source string, sink *diag.Sink) *Parser {
	return &Parser{s: token.NewStream(toks), sink: sink, lines: strings.Split(source, "\n")}
}

func (p *Parser) Parse() *statast.CompilationUnit {
	p.sink.StartParse()
	p.sink.TokensProcessed = p.s.Len() - 1
	line := p.s.Peek().Line

	var usings []*statast.UsingDirective
	for p.s.Check(statlex.USING) {
		usings = append(usings, p.parseUsingDirective())
	}
	var members []statast.Node
	for !p.s.AtEnd() {
		if m := p.parseTopLevelMemberRecovered(); m != nil {
			members = append(members, m)
		}
	}
	p.sink.StopParse()
	p.sink.AddNode()
	return &statast.CompilationUnit{Usings: usings, Members: members, Line: line}
}

func (p *Parser) lineText(n int) string {
	if n < 1 || n > len(p.lines) {
		return ""
	}
	return p.lines[n-1]
}

func (p *Parser) fail(tok token.Token, msg string) {
	panic(diag.SyntaxError{Message: msg, SourceLine: p.lineText(tok.Line), Line: tok.Line, Col: tok.Col})
}

func (p *Parser) consume(k token.Kind, msg string) token.Token {
	if p.s.Check(k) {
		return p.s.Advance()
	}
	p.fail(p.s.Peek(), msg)
	panic("unreachable")
}

var topFirstSet = map[token.Kind]bool{
	statlex.NAMESPACE: true, statlex.CLASS: true, statlex.STRUCT: true,
	statlex.INTERFACE: true, statlex.ENUM: true, statlex.VAR: true,
	statlex.IF: true, statlex.WHILE: true, statlex.FOR: true, statlex.FOREACH: true,
	statlex.DO: true, statlex.SWITCH: true, statlex.RETURN: true, statlex.THROW: true,
	statlex.BREAK: true, statlex.CONTINUE: true, statlex.TRY: true, statlex.LBRACE: true,
}

var classMemberFirstSet = map[token.Kind]bool{
	statlex.GET: true, statlex.SET: true, statlex.EVENT: true, statlex.RBRACE: true,
}

func (p *Parser) synchronizeTo(firstSet map[token.Kind]bool) {
	p.sink.RecordRecovery()
	for !p.s.AtEnd() {
		if p.s.Peek().Kind == statlex.SEMICOLON {
			p.s.Advance()
			return
		}
		if firstSet[p.s.Peek().Kind] || statlex.IsModifier(p.s.Peek().Kind) {
			return
		}
		p.s.Advance()
	}
}

func (p *Parser) parseTopLevelMemberRecovered() (m statast.Node) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(diag.SyntaxError)
			if !ok {
				panic(r)
			}
			p.sink.AddError(se.AsDiagnostic(diag.TypeRDPParsing, diag.SeverityError))
			p.synchronizeTo(topFirstSet)
			m = nil
		}
	}()
	return p.parseTopLevelMember()
}

func (p *Parser) parseUsingDirective() *statast.UsingDirective {
	kw := p.s.Advance()
	name := p.parseDottedNameString()
	p.consume(statlex.SEMICOLON, "expected ';' after using directive")
	p.sink.AddNode()
	return &statast.UsingDirective{Namespace: name, Line: kw.Line}
}

func (p *Parser) parseDottedNameString() string {
	first := p.consume(statlex.IDENTIFIER, "expected identifier")
	parts := []string{first.Lexeme}
	for p.s.Check(statlex.DOT) {
		p.s.Advance()
		parts = append(parts, p.consume(statlex.IDENTIFIER, "expected identifier after '.'").Lexeme)
	}
	return strings.Join(parts, ".")
}

func (p *Parser) collectModifiers() []string {
	var mods []string
	for statlex.IsModifier(p.s.Peek().Kind) {
		mods = append(mods, p.s.Advance().Lexeme)
	}
	return mods
}

func (p *Parser) parseTopLevelMember() statast.Node {
	if p.s.Check(statlex.NAMESPACE) {
		return p.parseNamespace()
	}
	mods := p.collectModifiers()
	switch p.s.Peek().Kind {
	case statlex.CLASS:
		return p.parseClassDecl(mods)
	case statlex.STRUCT:
		return p.parseStructDecl(mods)
	case statlex.INTERFACE:
		return p.parseInterfaceDecl(mods)
	case statlex.ENUM:
		return p.parseEnumDecl(mods)
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseNamespace() *statast.NamespaceDeclaration {
	kw := p.s.Advance()
	name := p.parseDottedNameString()
	p.consume(statlex.LBRACE, "expected '{' to start namespace body")
	var members []statast.Node
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if m := p.parseTopLevelMemberRecovered(); m != nil {
			members = append(members, m)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close namespace body")
	p.sink.AddNode()
	return &statast.NamespaceDeclaration{Name: name, Members: members, Line: kw.Line}
}

func (p *Parser) parseTypeParameters() []*statast.TypeParameter {
	if !p.s.Check(statlex.LT) {
		return nil
	}
	p.s.Advance()
	var tps []*statast.TypeParameter
	first := p.consume(statlex.IDENTIFIER, "expected type parameter name")
	tps = append(tps, &statast.TypeParameter{Name: first.Lexeme, Line: first.Line})
	for p.s.Check(statlex.COMMA) {
		p.s.Advance()
		t := p.consume(statlex.IDENTIFIER, "expected type parameter name")
		tps = append(tps, &statast.TypeParameter{Name: t.Lexeme, Line: t.Line})
	}
	p.consume(statlex.GT, "expected '>' to close type parameter list")
	return tps
}

func (p *Parser) parseBaseTypes() []*statast.NamedType {
	if !p.s.Check(statlex.COLON) {
		return nil
	}
	p.s.Advance()
	var bases []*statast.NamedType
	bases = append(bases, p.parseType())
	for p.s.Check(statlex.COMMA) {
		p.s.Advance()
		bases = append(bases, p.parseType())
	}
	return bases
}

func (p *Parser) parseWhereClauses(tps []*statast.TypeParameter) {
	for p.s.Check(statlex.WHERE) {
		p.s.Advance()
		name := p.consume(statlex.IDENTIFIER, "expected type parameter name in where clause").Lexeme
		p.consume(statlex.COLON, "expected ':' in where clause")
		constraint := p.parseType()
		for _, tp := range tps {
			if tp.Name == name {
				tp.Constraints = append(tp.Constraints, constraint)
			}
		}
		for p.s.Check(statlex.COMMA) {
			p.s.Advance()
			c := p.parseType()
			for _, tp := range tps {
				if tp.Name == name {
					tp.Constraints = append(tp.Constraints, c)
				}
			}
		}
	}
}

func (p *Parser) parseClassDecl(mods []string) *statast.ClassDeclaration {
	kw := p.s.Advance()
	name := p.consume(statlex.IDENTIFIER, "expected class name").Lexeme
	tps := p.parseTypeParameters()
	bases := p.parseBaseTypes()
	p.parseWhereClauses(tps)
	p.consume(statlex.LBRACE, "expected '{' to start class body")
	var members []statast.Node
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if m := p.parseClassMemberRecovered(); m != nil {
			members = append(members, m)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close class body")
	p.sink.AddNode()
	return &statast.ClassDeclaration{Modifiers: mods, Name: name, TypeParameters: tps, BaseTypes: bases, Members: members, Line: kw.Line}
}

func (p *Parser) parseStructDecl(mods []string) *statast.StructDeclaration {
	kw := p.s.Advance()
	name := p.consume(statlex.IDENTIFIER, "expected struct name").Lexeme
	bases := p.parseBaseTypes()
	p.consume(statlex.LBRACE, "expected '{' to start struct body")
	var members []statast.Node
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if m := p.parseClassMemberRecovered(); m != nil {
			members = append(members, m)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close struct body")
	p.sink.AddNode()
	return &statast.StructDeclaration{Modifiers: mods, Name: name, BaseTypes: bases, Members: members, Line: kw.Line}
}

func (p *Parser) parseInterfaceDecl(mods []string) *statast.InterfaceDeclaration {
	kw := p.s.Advance()
	name := p.consume(statlex.IDENTIFIER, "expected interface name").Lexeme
	bases := p.parseBaseTypes()
	p.consume(statlex.LBRACE, "expected '{' to start interface body")
	var members []statast.Node
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if m := p.parseClassMemberRecovered(); m != nil {
			members = append(members, m)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close interface body")
	p.sink.AddNode()
	return &statast.InterfaceDeclaration{Modifiers: mods, Name: name, BaseTypes: bases, Members: members, Line: kw.Line}
}

func (p *Parser) parseEnumDecl(mods []string) *statast.EnumDeclaration {
	kw := p.s.Advance()
	name := p.consume(statlex.IDENTIFIER, "expected enum name").Lexeme
	p.consume(statlex.LBRACE, "expected '{' to start enum body")
	var members []string
	if !p.s.Check(statlex.RBRACE) {
		members = append(members, p.consume(statlex.IDENTIFIER, "expected enum member").Lexeme)
		for p.s.Check(statlex.COMMA) {
			p.s.Advance()
			if p.s.Check(statlex.RBRACE) {
				break
			}
			members = append(members, p.consume(statlex.IDENTIFIER, "expected enum member").Lexeme)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close enum body")
	p.sink.AddNode()
	return &statast.EnumDeclaration{Modifiers: mods, Name: name, Members: members, Line: kw.Line}
}

func (p *Parser) parseClassMemberRecovered() (m statast.Node) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(diag.SyntaxError)
			if !ok {
				panic(r)
			}
			p.sink.AddError(se.AsDiagnostic(diag.TypeRDPParsing, diag.SeverityError))
			p.synchronizeTo(classMemberFirstSet)
			m = nil
		}
	}()
	return p.parseClassMember()
}

// parseClassMember implements the fixed constructor/method dispatch: an
// identifier followed immediately by '(' is a constructor; any other
// leading type token starts a field, property, or method.
func (p *Parser) parseClassMember() statast.Node {
	mods := p.collectModifiers()

	if p.s.Check(statlex.EVENT) {
		return p.parseEventDecl(mods)
	}

	if p.s.Check(statlex.IDENTIFIER) && p.s.PeekAt(1).Kind == statlex.LPAREN {
		return p.parseConstructor(mods)
	}

	typ := p.parseType()
	nameTok := p.consume(statlex.IDENTIFIER, "expected member name")
	switch {
	case p.s.Check(statlex.LPAREN):
		return p.parseMethodRest(mods, typ, nameTok)
	case p.s.Check(statlex.LBRACE):
		return p.parsePropertyRest(mods, typ, nameTok)
	default:
		return p.parseFieldRest(mods, typ, nameTok)
	}
}

func (p *Parser) parseConstructor(mods []string) *statast.ConstructorDeclaration {
	nameTok := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after constructor name")
	params := p.parseParamList()
	p.consume(statlex.RPAREN, "expected ')' after constructor parameters")
	body := p.parseBlock()
	p.sink.AddNode()
	return &statast.ConstructorDeclaration{Modifiers: mods, Name: nameTok.Lexeme, Parameters: params, Body: body, Line: nameTok.Line}
}

func (p *Parser) parseParamList() []*statast.Parameter {
	var params []*statast.Parameter
	if !p.s.Check(statlex.RPAREN) {
		params = append(params, p.parseParameter())
		for p.s.Check(statlex.COMMA) {
			p.s.Advance()
			params = append(params, p.parseParameter())
		}
	}
	return params
}

func (p *Parser) parseParameter() *statast.Parameter {
	var mods []string
	for p.s.Check(statlex.REF) || p.s.Check(statlex.OUT) || p.s.Check(statlex.PARAMS) {
		mods = append(mods, p.s.Advance().Lexeme)
	}
	typ := p.parseType()
	name := p.consume(statlex.IDENTIFIER, "expected parameter name").Lexeme
	return &statast.Parameter{Modifiers: mods, Type: typ, Name: name, Line: typ.Line}
}

func (p *Parser) parseMethodRest(mods []string, typ *statast.NamedType, nameTok token.Token) *statast.MethodDeclaration {
	p.consume(statlex.LPAREN, "expected '(' after method name")
	params := p.parseParamList()
	p.consume(statlex.RPAREN, "expected ')' after method parameters")
	var body *statast.BlockStatement
	if p.s.Check(statlex.LBRACE) {
		body = p.parseBlock()
	} else {
		p.consume(statlex.SEMICOLON, "expected ';' after abstract or interface method")
	}
	p.sink.AddNode()
	return &statast.MethodDeclaration{Modifiers: mods, ReturnType: typ, Name: nameTok.Lexeme, Parameters: params, Body: body, Line: nameTok.Line}
}

func (p *Parser) parsePropertyRest(mods []string, typ *statast.NamedType, nameTok token.Token) *statast.PropertyDeclaration {
	p.consume(statlex.LBRACE, "expected '{' to start property accessors")
	prop := &statast.PropertyDeclaration{Modifiers: mods, Type: typ, Name: nameTok.Lexeme, Line: nameTok.Line}
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		switch {
		case p.s.Check(statlex.GET):
			p.s.Advance()
			prop.HasGet = true
			if p.s.Check(statlex.LBRACE) {
				prop.GetBody = p.parseBlock()
			} else {
				p.consume(statlex.SEMICOLON, "expected ';' after auto-implemented get accessor")
			}
		case p.s.Check(statlex.SET):
			p.s.Advance()
			prop.HasSet = true
			if p.s.Check(statlex.LBRACE) {
				prop.SetBody = p.parseBlock()
			} else {
				p.consume(statlex.SEMICOLON, "expected ';' after auto-implemented set accessor")
			}
		default:
			p.fail(p.s.Peek(), "expected 'get' or 'set' accessor")
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close property accessors")
	p.sink.AddNode()
	return prop
}

func (p *Parser) parseFieldRest(mods []string, typ *statast.NamedType, nameTok token.Token) *statast.FieldDeclaration {
	var init statast.Node
	if p.s.Check(statlex.ASSIGN) {
		p.s.Advance()
		init = p.parseAssignExpr()
	}
	p.consume(statlex.SEMICOLON, "expected ';' after field declaration")
	p.sink.AddNode()
	return &statast.FieldDeclaration{Modifiers: mods, Type: typ, Name: nameTok.Lexeme, Init: init, Line: nameTok.Line}
}

func (p *Parser) parseEventDecl(mods []string) *statast.EventDeclaration {
	kw := p.s.Advance()
	typ := p.parseType()
	name := p.consume(statlex.IDENTIFIER, "expected event name").Lexeme
	p.consume(statlex.SEMICOLON, "expected ';' after event declaration")
	p.sink.AddNode()
	return &statast.EventDeclaration{Modifiers: mods, Type: typ, Name: name, Line: kw.Line}
}

// ---- types ----

var primitiveTypeNames = map[token.Kind]string{
	statlex.INT: "int", statlex.STRINGTYPE: "string", statlex.BOOL: "bool",
	statlex.DOUBLE: "double", statlex.FLOAT: "float", statlex.DECIMAL: "decimal",
	statlex.CHAR: "char", statlex.BYTE: "byte", statlex.SHORT: "short",
	statlex.LONG: "long", statlex.UINT: "uint", statlex.USHORT: "ushort",
	statlex.ULONG: "ulong", statlex.SBYTE: "sbyte", statlex.VOID: "void",
}

func isPrimitiveType(k token.Kind) bool {
	_, ok := primitiveTypeNames[k]
	return ok
}

func isTypeStart(k token.Kind) bool {
	return isPrimitiveType(k) || k == statlex.IDENTIFIER
}

func (p *Parser) parseType() *statast.NamedType {
	tok := p.s.Peek()
	if name, ok := primitiveTypeNames[tok.Kind]; ok {
		p.s.Advance()
		qn := &statast.QualifiedName{Parts: []string{name}, Line: tok.Line}
		return &statast.NamedType{Name: qn, Line: tok.Line}
	}
	first := p.consume(statlex.IDENTIFIER, "expected type name")
	parts := []string{first.Lexeme}
	for p.s.Check(statlex.DOT) {
		p.s.Advance()
		parts = append(parts, p.consume(statlex.IDENTIFIER, "expected identifier after '.'").Lexeme)
	}
	qn := &statast.QualifiedName{Parts: parts, Line: first.Line}
	var targs []*statast.NamedType
	if p.s.Check(statlex.LT) {
		p.s.Advance()
		targs = append(targs, p.parseType())
		for p.s.Check(statlex.COMMA) {
			p.s.Advance()
			targs = append(targs, p.parseType())
		}
		p.consume(statlex.GT, "expected '>' to close type argument list")
	}
	return &statast.NamedType{Name: qn, TypeArguments: targs, Line: first.Line}
}

// ---- statements ----

func (p *Parser) parseBlock() *statast.BlockStatement {
	open := p.consume(statlex.LBRACE, "expected '{'")
	var body []statast.Node
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if stmt := p.parseStatementRecovered(); stmt != nil {
			body = append(body, stmt)
		}
	}
	p.consume(statlex.RBRACE, "expected '}' to close block")
	p.sink.AddNode()
	return &statast.BlockStatement{Body: body, Line: open.Line}
}

func (p *Parser) parseStatementRecovered() (stmt statast.Node) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(diag.SyntaxError)
			if !ok {
				panic(r)
			}
			p.sink.AddError(se.AsDiagnostic(diag.TypeRDPParsing, diag.SeverityError))
			p.synchronizeTo(topFirstSet)
			stmt = nil
		}
	}()
	return p.parseStatement()
}

func (p *Parser) couldBeLocalDecl() bool {
	if p.s.Check(statlex.VAR) || isPrimitiveType(p.s.Peek().Kind) {
		return true
	}
	return p.s.Check(statlex.IDENTIFIER) && p.s.PeekAt(1).Kind == statlex.IDENTIFIER
}

func (p *Parser) parseStatement() statast.Node {
	switch p.s.Peek().Kind {
	case statlex.VAR:
		return p.parseLocalVarDecl()
	case statlex.IF:
		return p.parseIfStatement()
	case statlex.WHILE:
		return p.parseWhileStatement()
	case statlex.DO:
		return p.parseDoWhileStatement()
	case statlex.FOR:
		return p.parseForStatement()
	case statlex.FOREACH:
		return p.parseForEachStatement()
	case statlex.SWITCH:
		return p.parseSwitchStatement()
	case statlex.RETURN:
		return p.parseReturnStatement()
	case statlex.THROW:
		return p.parseThrowStatement()
	case statlex.BREAK:
		return p.parseBreakStatement()
	case statlex.CONTINUE:
		return p.parseContinueStatement()
	case statlex.TRY:
		return p.parseTryStatement()
	case statlex.LBRACE:
		return p.parseBlock()
	default:
		if isTypeStart(p.s.Peek().Kind) && p.couldBeLocalDecl() {
			return p.parseLocalVarDecl()
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLocalVarDecl() *statast.VariableDeclaration {
	if p.s.Check(statlex.VAR) {
		kw := p.s.Advance()
		name := p.consume(statlex.IDENTIFIER, "expected identifier after 'var'").Lexeme
		p.consume(statlex.ASSIGN, "expected '=' after 'var' declaration")
		init := p.parseAssignExpr()
		p.consume(statlex.SEMICOLON, "expected ';' after variable declaration")
		p.sink.AddNode()
		return &statast.VariableDeclaration{Identifier: name, Initializer: init, Line: kw.Line}
	}
	typ := p.parseType()
	name := p.consume(statlex.IDENTIFIER, "expected identifier in variable declaration").Lexeme
	var init statast.Node
	if p.s.Check(statlex.ASSIGN) {
		p.s.Advance()
		init = p.parseAssignExpr()
	}
	p.consume(statlex.SEMICOLON, "expected ';' after variable declaration")
	p.sink.AddNode()
	return &statast.VariableDeclaration{Type: typ, Identifier: name, Initializer: init, Line: typ.Line}
}

func (p *Parser) parseIfStatement() *statast.IfStatement {
	kw := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after 'if'")
	test := p.parseExpr()
	p.consume(statlex.RPAREN, "expected ')' after condition")
	cons := p.parseStatement()
	var alt statast.Node
	if p.s.Check(statlex.ELSE) {
		p.s.Advance()
		alt = p.parseStatement()
	}
	p.sink.AddNode()
	return &statast.IfStatement{Test: test, Consequent: cons, Alternate: alt, Line: kw.Line}
}

func (p *Parser) parseWhileStatement() *statast.WhileStatement {
	kw := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after 'while'")
	test := p.parseExpr()
	p.consume(statlex.RPAREN, "expected ')' after condition")
	body := p.parseStatement()
	p.sink.AddNode()
	return &statast.WhileStatement{Test: test, Body: body, Line: kw.Line}
}

func (p *Parser) parseDoWhileStatement() *statast.DoWhileStatement {
	kw := p.s.Advance()
	body := p.parseStatement()
	p.consume(statlex.WHILE, "expected 'while' after 'do' body")
	p.consume(statlex.LPAREN, "expected '(' after 'while'")
	test := p.parseExpr()
	p.consume(statlex.RPAREN, "expected ')' after condition")
	p.consume(statlex.SEMICOLON, "expected ';' after do-while statement")
	p.sink.AddNode()
	return &statast.DoWhileStatement{Body: body, Test: test, Line: kw.Line}
}

func (p *Parser) parseForStatement() *statast.ForStatement {
	kw := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after 'for'")
	var init statast.Node
	if !p.s.Check(statlex.SEMICOLON) {
		if p.couldBeLocalDecl() {
			init = p.parseLocalVarDecl() // consumes trailing ';'
		} else {
			init = &statast.ExpressionStatement{Expr: p.parseExpr(), Line: p.s.Peek().Line}
			p.consume(statlex.SEMICOLON, "expected ';' after for-loop initializer")
		}
	} else {
		p.s.Advance()
	}
	var test statast.Node
	if !p.s.Check(statlex.SEMICOLON) {
		test = p.parseExpr()
	}
	p.consume(statlex.SEMICOLON, "expected ';' after for-loop condition")
	var update statast.Node
	if !p.s.Check(statlex.RPAREN) {
		update = p.parseExpr()
	}
	p.consume(statlex.RPAREN, "expected ')' after for clauses")
	body := p.parseStatement()
	p.sink.AddNode()
	return &statast.ForStatement{Init: init, Test: test, Update: update, Body: body, Line: kw.Line}
}

func (p *Parser) parseForEachStatement() *statast.ForEachStatement {
	kw := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after 'foreach'")
	var varType *statast.NamedType
	if !p.s.Check(statlex.VAR) {
		varType = p.parseType()
	} else {
		p.s.Advance()
	}
	name := p.consume(statlex.IDENTIFIER, "expected loop variable name").Lexeme
	p.consume(statlex.IN, "expected 'in' in foreach statement")
	expr := p.parseExpr()
	p.consume(statlex.RPAREN, "expected ')' after foreach clause")
	body := p.parseStatement()
	p.sink.AddNode()
	return &statast.ForEachStatement{VarType: varType, VarName: name, Expr: expr, Body: body, Line: kw.Line}
}

func (p *Parser) parseSwitchStatement() *statast.SwitchStatement {
	kw := p.s.Advance()
	p.consume(statlex.LPAREN, "expected '(' after 'switch'")
	disc := p.parseExpr()
	p.consume(statlex.RPAREN, "expected ')' after switch discriminant")
	p.consume(statlex.LBRACE, "expected '{' to start switch body")
	var cases []*statast.SwitchCase
	for !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		cases = append(cases, p.parseSwitchCase())
	}
	p.consume(statlex.RBRACE, "expected '}' to close switch body")
	p.sink.AddNode()
	return &statast.SwitchStatement{Discriminant: disc, Cases: cases, Line: kw.Line}
}

func (p *Parser) parseSwitchCase() *statast.SwitchCase {
	var test statast.Node
	line := p.s.Peek().Line
	if p.s.Check(statlex.CASE) {
		p.s.Advance()
		test = p.parseExpr()
		p.consume(statlex.COLON, "expected ':' after case expression")
	} else {
		p.consume(statlex.DEFAULT, "expected 'case' or 'default'")
		p.consume(statlex.COLON, "expected ':' after 'default'")
	}
	var body []statast.Node
	for !p.s.Check(statlex.CASE) && !p.s.Check(statlex.DEFAULT) && !p.s.Check(statlex.RBRACE) && !p.s.AtEnd() {
		if stmt := p.parseStatementRecovered(); stmt != nil {
			body = append(body, stmt)
		}
	}
	p.sink.AddNode()
	return &statast.SwitchCase{Test: test, Body: body, Line: line}
}

func (p *Parser) parseReturnStatement() *statast.ReturnStatement {
	kw := p.s.Advance()
	var arg statast.Node
	if !p.s.Check(statlex.SEMICOLON) {
		arg = p.parseExpr()
	}
	p.consume(statlex.SEMICOLON, "expected ';' after return statement")
	p.sink.AddNode()
	return &statast.ReturnStatement{Argument: arg, Line: kw.Line}
}

func (p *Parser) parseThrowStatement() *statast.ThrowStatement {
	kw := p.s.Advance()
	var arg statast.Node
	if !p.s.Check(statlex.SEMICOLON) {
		arg = p.parseExpr()
	}
	p.consume(statlex.SEMICOLON, "expected ';' after throw statement")
	p.sink.AddNode()
	return &statast.ThrowStatement{Argument: arg, Line: kw.Line}
}

func (p *Parser) parseBreakStatement() *statast.BreakStatement {
	kw := p.s.Advance()
	p.consume(statlex.SEMICOLON, "expected ';' after break")
	p.sink.AddNode()
	return &statast.BreakStatement{Line: kw.Line}
}

func (p *Parser) parseContinueStatement() *statast.ContinueStatement {
	kw := p.s.Advance()
	p.consume(statlex.SEMICOLON, "expected ';' after continue")
	p.sink.AddNode()
	return &statast.ContinueStatement{Line: kw.Line}
}

func (p *Parser) parseTryStatement() *statast.TryStatement {
	kw := p.s.Advance()
	block := p.parseBlock()
	var catchType *statast.NamedType
	var catchParam string
	var catchBlock, finallyBlock *statast.BlockStatement
	if p.s.Check(statlex.CATCH) {
		p.s.Advance()
		if p.s.Check(statlex.LPAREN) {
			p.s.Advance()
			catchType = p.parseType()
			if p.s.Check(statlex.IDENTIFIER) {
				catchParam = p.s.Advance().Lexeme
			}
			p.consume(statlex.RPAREN, "expected ')' after catch clause")
		}
		catchBlock = p.parseBlock()
	}
	if p.s.Check(statlex.FINALLY) {
		p.s.Advance()
		finallyBlock = p.parseBlock()
	}
	p.sink.AddNode()
	return &statast.TryStatement{Block: block, CatchType: catchType, CatchParam: catchParam, CatchBlock: catchBlock, FinallyBlock: finallyBlock, Line: kw.Line}
}

func (p *Parser) parseExpressionStatement() *statast.ExpressionStatement {
	line := p.s.Peek().Line
	expr := p.parseExpr()
	p.consume(statlex.SEMICOLON, "expected ';' after expression")
	p.sink.AddNode()
	return &statast.ExpressionStatement{Expr: expr, Line: line}
}

// ---- expressions, spec.md §4.3 full precedence cascade ----

var assignOps = map[token.Kind]bool{
	statlex.ASSIGN: true, statlex.PLUS_ASSIGN: true, statlex.MINUS_ASSIGN: true,
	statlex.STAR_ASSIGN: true, statlex.SLASH_ASSIGN: true, statlex.AND_ASSIGN: true,
	statlex.OR_ASSIGN: true, statlex.XOR_ASSIGN: true, statlex.SHL_ASSIGN: true,
	statlex.SHR_ASSIGN: true, statlex.COALESCE_ASSIGN: true,
}

func (p *Parser) parseExpr() statast.Node {
	return p.parseAssignExpr()
}

func (p *Parser) parseAssignExpr() statast.Node {
	left := p.parseConditional()
	if assignOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		value := p.parseAssignExpr()
		p.sink.AddNode()
		return &statast.AssignmentExpression{Op: op.Lexeme, Target: left, Value: value, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseConditional() statast.Node {
	test := p.parseLogOr()
	if p.s.Check(statlex.QUESTION) {
		p.s.Advance()
		cons := p.parseExpr()
		p.consume(statlex.COLON, "expected ':' in conditional expression")
		alt := p.parseConditional()
		p.sink.AddNode()
		return &statast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt, Line: test.SrcLine()}
	}
	return test
}

func (p *Parser) parseLogOr() statast.Node {
	left := p.parseLogAnd()
	for p.s.Check(statlex.OROR) {
		op := p.s.Advance()
		right := p.parseLogAnd()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseLogAnd() statast.Node {
	left := p.parseBitOr()
	for p.s.Check(statlex.ANDAND) {
		op := p.s.Advance()
		right := p.parseBitOr()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseBitOr() statast.Node {
	left := p.parseBitXor()
	for p.s.Check(statlex.BITOR) {
		op := p.s.Advance()
		right := p.parseBitXor()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseBitXor() statast.Node {
	left := p.parseBitAnd()
	for p.s.Check(statlex.BITXOR) {
		op := p.s.Advance()
		right := p.parseBitAnd()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseBitAnd() statast.Node {
	left := p.parseEquality()
	for p.s.Check(statlex.BITAND) {
		op := p.s.Advance()
		right := p.parseEquality()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var equalityOps = map[token.Kind]bool{statlex.EQ: true, statlex.NEQ: true}

func (p *Parser) parseEquality() statast.Node {
	left := p.parseRelational()
	for equalityOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		right := p.parseRelational()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var relationalOps = map[token.Kind]bool{
	statlex.LT: true, statlex.GT: true, statlex.LE: true, statlex.GE: true,
	statlex.INSTANCEOF: true, statlex.IN: true,
}

func (p *Parser) parseRelational() statast.Node {
	left := p.parseShift()
	for relationalOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		right := p.parseShift()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseShift() statast.Node {
	left := p.parseAdditive()
	for p.s.Check(statlex.SHL) || p.s.Check(statlex.SHR) {
		op := p.s.Advance()
		right := p.parseAdditive()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseAdditive() statast.Node {
	left := p.parseMult()
	for p.s.Check(statlex.PLUS) || p.s.Check(statlex.MINUS) {
		op := p.s.Advance()
		right := p.parseMult()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseMult() statast.Node {
	left := p.parseUnary()
	for p.s.Check(statlex.STAR) || p.s.Check(statlex.SLASH) || p.s.Check(statlex.PERCENT) {
		op := p.s.Advance()
		right := p.parseUnary()
		p.sink.AddNode()
		left = &statast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var unaryOps = map[token.Kind]bool{
	statlex.NOT: true, statlex.MINUS: true, statlex.PLUS: true,
	statlex.INC: true, statlex.DEC: true, statlex.TYPEOF: true, statlex.BITNOT: true,
}

func (p *Parser) parseUnary() statast.Node {
	if unaryOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		operand := p.parseUnary()
		p.sink.AddNode()
		if op.Kind == statlex.INC || op.Kind == statlex.DEC {
			return &statast.UpdateExpression{Op: op.Lexeme, Operand: operand, Prefix: true, Line: op.Line}
		}
		return &statast.UnaryExpression{Op: op.Lexeme, Operand: operand, Line: op.Line}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() statast.Node {
	node := p.parsePrimary()
	for {
		switch {
		case p.s.Check(statlex.DOT):
			p.s.Advance()
			prop := p.consume(statlex.IDENTIFIER, "expected member name after '.'")
			p.sink.AddNode()
			node = &statast.MemberExpression{Object: node, Property: prop.Lexeme, Line: node.SrcLine()}
		case p.s.Check(statlex.LPAREN):
			args := p.parseArgList()
			p.sink.AddNode()
			node = &statast.CallExpression{Callee: node, Args: args, Line: node.SrcLine()}
		default:
			if p.s.Check(statlex.INC) || p.s.Check(statlex.DEC) {
				op := p.s.Advance()
				p.sink.AddNode()
				return &statast.UpdateExpression{Op: op.Lexeme, Operand: node, Prefix: false, Line: node.SrcLine()}
			}
			return node
		}
	}
}

func (p *Parser) parseArgList() []statast.Node {
	p.consume(statlex.LPAREN, "expected '('")
	var args []statast.Node
	if !p.s.Check(statlex.RPAREN) {
		args = append(args, p.parseAssignExpr())
		for p.s.Check(statlex.COMMA) {
			p.s.Advance()
			args = append(args, p.parseAssignExpr())
		}
	}
	p.consume(statlex.RPAREN, "expected ')' after arguments")
	return args
}

func (p *Parser) parsePrimary() statast.Node {
	tok := p.s.Peek()
	switch tok.Kind {
	case statlex.NEW:
		p.s.Advance()
		typ := p.parseType()
		var args []statast.Node
		if p.s.Check(statlex.LPAREN) {
			args = p.parseArgList()
		}
		p.sink.AddNode()
		return &statast.NewExpression{Type: typ, Args: args, Line: tok.Line}
	case statlex.IDENTIFIER, statlex.THIS, statlex.BASE:
		p.s.Advance()
		p.sink.AddNode()
		return &statast.Identifier{Name: tok.Lexeme, Line: tok.Line}
	case statlex.NUMBER:
		p.s.Advance()
		p.sink.AddNode()
		return &statast.Literal{LitKind: statast.LitNumber, Raw: tok.Lexeme, Line: tok.Line}
	case statlex.STRING:
		p.s.Advance()
		p.sink.AddNode()
		return &statast.Literal{LitKind: statast.LitString, Raw: tok.Lexeme, Line: tok.Line}
	case statlex.TRUE, statlex.FALSE:
		p.s.Advance()
		p.sink.AddNode()
		return &statast.Literal{LitKind: statast.LitBoolean, Raw: tok.Lexeme, Line: tok.Line}
	case statlex.NULL:
		p.s.Advance()
		p.sink.AddNode()
		return &statast.Literal{LitKind: statast.LitNull, Raw: tok.Lexeme, Line: tok.Line}
	case statlex.LPAREN:
		p.s.Advance()
		expr := p.parseExpr()
		p.consume(statlex.RPAREN, "expected ')' after expression")
		return expr
	default:
		p.fail(tok, fmt.Sprintf("unexpected token kind %d", tok.Kind))
		panic("unreachable")
	}
}
