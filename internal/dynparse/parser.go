// Package dynparse implements the hand-written recursive-descent parser
// (C3) for L-dyn. It follows the production structure the teacher's
// tunascript parser uses for panic-mode recovery — raise a diag.SyntaxError,
// catch it at the statement-list boundary, resynchronize — but the grammar
// itself is an explicit precedence cascade (spec.md §4.3) rather than the
// teacher's Pratt nud/led dispatch, since a hand-written recursive-descent
// parser is what this front end is required to be.
package dynparse

import (
	"fmt"
	"strings"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/corvidwalk/transbridge/internal/dynlex"
	"github.com/corvidwalk/transbridge/internal/token"
)

// Parser holds the mutable state of a single parse: the token cursor, the
// shared diagnostics/metrics sink, and the source lines (for diagnostic
// context). None of it is shared across parses.
type Parser struct {
	s     *token.Stream
	sink  *diag.Sink
	lines []string
}

// New returns a Parser ready to parse toks. source is the original program
// text, used only to annotate diagnostics with the offending source line.
func New(toks []token.Token, source string, sink *diag.Sink) *Parser {
	return &Parser{s: token.NewStream(toks), sink: sink, lines: strings.Split(source, "\n")}
}

// Parse runs the full grammar and returns the Program root. It always
// returns a non-nil root, per spec.md's parser-totality property, even when
// the sink accumulated errors along the way.
func (p *Parser) Parse() *dynast.Program {
	p.sink.StartParse()
	p.sink.TokensProcessed = p.s.Len() - 1 // exclude EOF
	line := p.s.Peek().Line
	var body []dynast.Node
	for !p.s.AtEnd() {
		if stmt := p.parseStatementRecovered(); stmt != nil {
			body = append(body, stmt)
		}
	}
	p.sink.StopParse()
	p.sink.AddNode()
	return &dynast.Program{Body: body, Line: line}
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

var stmtFirstSet = map[token.Kind]bool{
	dynlex.VAR: true, dynlex.LET: true, dynlex.CONST: true, dynlex.FUNCTION: true,
	dynlex.CLASS: true, dynlex.IF: true, dynlex.WHILE: true, dynlex.FOR: true,
	dynlex.RETURN: true, dynlex.THROW: true, dynlex.BREAK: true, dynlex.CONTINUE: true,
	dynlex.TRY: true, dynlex.LBRACE: true,
}

// synchronize implements spec.md §4.3's panic-mode recovery: advance until
// a ';' (consumed) or a statement-first-set token (left for the caller) or
// EOF.
func (p *Parser) synchronize() {
	p.sink.RecordRecovery()
	for !p.s.AtEnd() {
		if p.s.Peek().Kind == dynlex.SEMICOLON {
			p.s.Advance()
			return
		}
		if stmtFirstSet[p.s.Peek().Kind] {
			return
		}
		p.s.Advance()
	}
}

// parseStatementRecovered wraps parseStatement with the recover() that
// catches a diag.SyntaxError panic, records it, and resynchronizes. It is
// the only place a SyntaxError is allowed to stop unwinding.
func (p *Parser) parseStatementRecovered() (stmt dynast.Node) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(diag.SyntaxError)
			if !ok {
				panic(r)
			}
			p.sink.AddError(se.AsDiagnostic(diag.TypeRDPParsing, diag.SeverityError))
			p.synchronize()
			stmt = nil
		}
	}()
	return p.parseStatement()
}

func (p *Parser) parseStatement() dynast.Node {
	switch p.s.Peek().Kind {
	case dynlex.VAR, dynlex.LET, dynlex.CONST:
		return p.parseVariableDeclaration()
	case dynlex.FUNCTION:
		return p.parseFunctionDeclaration()
	case dynlex.CLASS:
		return p.parseClassDeclaration()
	case dynlex.IF:
		return p.parseIfStatement()
	case dynlex.WHILE:
		return p.parseWhileStatement()
	case dynlex.FOR:
		return p.parseForStatement()
	case dynlex.RETURN:
		return p.parseReturnStatement()
	case dynlex.THROW:
		return p.parseThrowStatement()
	case dynlex.BREAK:
		return p.parseBreakStatement()
	case dynlex.CONTINUE:
		return p.parseContinueStatement()
	case dynlex.TRY:
		return p.parseTryStatement()
	case dynlex.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() *dynast.VariableDeclaration {
	kw := p.s.Advance()
	line := kw.Line
	var decls []*dynast.VariableDeclarator
	decls = append(decls, p.parseDeclarator())
	for p.s.Check(dynlex.COMMA) {
		p.s.Advance()
		decls = append(decls, p.parseDeclarator())
	}
	p.consume(dynlex.SEMICOLON, "expected ';' after variable declaration")
	if kw.Kind == dynlex.CONST {
		for _, d := range decls {
			if d.Init == nil {
				p.sink.AddError(diag.Diagnostic{
					Type: diag.TypeSyntax, Severity: diag.SeverityError, Line: d.Line,
					Message: fmt.Sprintf("const declarator %q requires an initializer", d.Name),
				})
			}
		}
	}
	p.sink.AddNode()
	return &dynast.VariableDeclaration{Kw: kw.Lexeme, Declarations: decls, Line: line}
}

func (p *Parser) parseDeclarator() *dynast.VariableDeclarator {
	name := p.consume(dynlex.IDENTIFIER, "expected identifier in variable declaration")
	var init dynast.Node
	if p.s.Check(dynlex.ASSIGN) {
		p.s.Advance()
		init = p.parseAssignExpr()
	}
	p.sink.AddNode()
	return &dynast.VariableDeclarator{Name: name.Lexeme, Init: init, Line: name.Line}
}

func (p *Parser) parseFunctionDeclaration() *dynast.FunctionDeclaration {
	kw := p.s.Advance()
	name := p.consume(dynlex.IDENTIFIER, "expected function name")
	p.consume(dynlex.LPAREN, "expected '(' after function name")
	var params []string
	if !p.s.Check(dynlex.RPAREN) {
		params = append(params, p.consume(dynlex.IDENTIFIER, "expected parameter name").Lexeme)
		for p.s.Check(dynlex.COMMA) {
			p.s.Advance()
			params = append(params, p.consume(dynlex.IDENTIFIER, "expected parameter name").Lexeme)
		}
	}
	p.consume(dynlex.RPAREN, "expected ')' after parameters")
	body := p.parseBlock()
	p.sink.AddNode()
	return &dynast.FunctionDeclaration{Name: name.Lexeme, Params: params, Body: body, Line: kw.Line}
}

func (p *Parser) parseClassDeclaration() *dynast.ClassDeclaration {
	kw := p.s.Advance()
	name := p.consume(dynlex.IDENTIFIER, "expected class name")
	super := ""
	if p.s.Check(dynlex.EXTENDS) {
		p.s.Advance()
		super = p.consume(dynlex.IDENTIFIER, "expected superclass name after 'extends'").Lexeme
	}
	p.consume(dynlex.LBRACE, "expected '{' to start class body")
	var methods []*dynast.FunctionDeclaration
	for !p.s.Check(dynlex.RBRACE) && !p.s.AtEnd() {
		if p.s.Check(dynlex.IDENTIFIER) {
			methods = append(methods, p.parseMethod())
			continue
		}
		p.fail(p.s.Peek(), "expected method declaration in class body")
	}
	p.consume(dynlex.RBRACE, "expected '}' to close class body")
	p.sink.AddNode()
	return &dynast.ClassDeclaration{Name: name.Lexeme, SuperClass: super, Methods: methods, Line: kw.Line}
}

func (p *Parser) parseMethod() *dynast.FunctionDeclaration {
	name := p.s.Advance()
	p.consume(dynlex.LPAREN, "expected '(' after method name")
	var params []string
	if !p.s.Check(dynlex.RPAREN) {
		params = append(params, p.consume(dynlex.IDENTIFIER, "expected parameter name").Lexeme)
		for p.s.Check(dynlex.COMMA) {
			p.s.Advance()
			params = append(params, p.consume(dynlex.IDENTIFIER, "expected parameter name").Lexeme)
		}
	}
	p.consume(dynlex.RPAREN, "expected ')' after parameters")
	body := p.parseBlock()
	p.sink.AddNode()
	return &dynast.FunctionDeclaration{Name: name.Lexeme, Params: params, Body: body, Line: name.Line}
}

func (p *Parser) parseBlock() *dynast.BlockStatement {
	open := p.consume(dynlex.LBRACE, "expected '{'")
	var body []dynast.Node
	for !p.s.Check(dynlex.RBRACE) && !p.s.AtEnd() {
		if stmt := p.parseStatementRecovered(); stmt != nil {
			body = append(body, stmt)
		}
	}
	p.consume(dynlex.RBRACE, "expected '}' to close block")
	p.sink.AddNode()
	return &dynast.BlockStatement{Body: body, Line: open.Line}
}

func (p *Parser) parseIfStatement() *dynast.IfStatement {
	kw := p.s.Advance()
	p.consume(dynlex.LPAREN, "expected '(' after 'if'")
	test := p.parseExpr()
	p.consume(dynlex.RPAREN, "expected ')' after condition")
	cons := p.parseStatement()
	var alt dynast.Node
	if p.s.Check(dynlex.ELSE) {
		p.s.Advance()
		alt = p.parseStatement()
	}
	p.sink.AddNode()
	return &dynast.IfStatement{Test: test, Consequent: cons, Alternate: alt, Line: kw.Line}
}

func (p *Parser) parseWhileStatement() *dynast.WhileStatement {
	kw := p.s.Advance()
	p.consume(dynlex.LPAREN, "expected '(' after 'while'")
	test := p.parseExpr()
	p.consume(dynlex.RPAREN, "expected ')' after condition")
	body := p.parseStatement()
	p.sink.AddNode()
	return &dynast.WhileStatement{Test: test, Body: body, Line: kw.Line}
}

func (p *Parser) parseForStatement() *dynast.ForStatement {
	kw := p.s.Advance()
	p.consume(dynlex.LPAREN, "expected '(' after 'for'")
	var init dynast.Node
	if !p.s.Check(dynlex.SEMICOLON) {
		switch p.s.Peek().Kind {
		case dynlex.VAR, dynlex.LET, dynlex.CONST:
			init = p.parseVariableDeclaration() // consumes trailing ';'
		default:
			init = &dynast.ExpressionStatement{Expr: p.parseExpr(), Line: p.s.Peek().Line}
			p.consume(dynlex.SEMICOLON, "expected ';' after for-loop initializer")
		}
	} else {
		p.s.Advance()
	}
	var test dynast.Node
	if !p.s.Check(dynlex.SEMICOLON) {
		test = p.parseExpr()
	}
	p.consume(dynlex.SEMICOLON, "expected ';' after for-loop condition")
	var update dynast.Node
	if !p.s.Check(dynlex.RPAREN) {
		update = p.parseExpr()
	}
	p.consume(dynlex.RPAREN, "expected ')' after for clauses")
	body := p.parseStatement()
	p.sink.AddNode()
	return &dynast.ForStatement{Init: init, Test: test, Update: update, Body: body, Line: kw.Line}
}

func (p *Parser) parseReturnStatement() *dynast.ReturnStatement {
	kw := p.s.Advance()
	var arg dynast.Node
	if !p.s.Check(dynlex.SEMICOLON) {
		arg = p.parseExpr()
	}
	p.consume(dynlex.SEMICOLON, "expected ';' after return statement")
	p.sink.AddNode()
	return &dynast.ReturnStatement{Argument: arg, Line: kw.Line}
}

func (p *Parser) parseThrowStatement() *dynast.ThrowStatement {
	kw := p.s.Advance()
	arg := p.parseExpr()
	p.consume(dynlex.SEMICOLON, "expected ';' after throw statement")
	p.sink.AddNode()
	return &dynast.ThrowStatement{Argument: arg, Line: kw.Line}
}

func (p *Parser) parseBreakStatement() *dynast.BreakStatement {
	kw := p.s.Advance()
	p.consume(dynlex.SEMICOLON, "expected ';' after break")
	p.sink.AddNode()
	return &dynast.BreakStatement{Line: kw.Line}
}

func (p *Parser) parseContinueStatement() *dynast.ContinueStatement {
	kw := p.s.Advance()
	p.consume(dynlex.SEMICOLON, "expected ';' after continue")
	p.sink.AddNode()
	return &dynast.ContinueStatement{Line: kw.Line}
}

func (p *Parser) parseTryStatement() *dynast.TryStatement {
	kw := p.s.Advance()
	block := p.parseBlock()
	var catchParam string
	var catchBlock, finallyBlock *dynast.BlockStatement
	if p.s.Check(dynlex.CATCH) {
		p.s.Advance()
		if p.s.Check(dynlex.LPAREN) {
			p.s.Advance()
			catchParam = p.consume(dynlex.IDENTIFIER, "expected catch parameter name").Lexeme
			p.consume(dynlex.RPAREN, "expected ')' after catch parameter")
		}
		catchBlock = p.parseBlock()
	}
	if p.s.Check(dynlex.FINALLY) {
		p.s.Advance()
		finallyBlock = p.parseBlock()
	}
	p.sink.AddNode()
	return &dynast.TryStatement{Block: block, CatchParam: catchParam, CatchBlock: catchBlock, FinallyBlock: finallyBlock, Line: kw.Line}
}

func (p *Parser) parseExpressionStatement() *dynast.ExpressionStatement {
	line := p.s.Peek().Line
	expr := p.parseExpr()
	p.consume(dynlex.SEMICOLON, "expected ';' after expression")
	p.sink.AddNode()
	return &dynast.ExpressionStatement{Expr: expr, Line: line}
}

// ---- expressions, spec.md §4.3 precedence cascade (L-dyn subset) ----

var assignOps = map[token.Kind]bool{
	dynlex.ASSIGN: true, dynlex.PLUS_ASSIGN: true, dynlex.MINUS_ASSIGN: true,
	dynlex.STAR_ASSIGN: true, dynlex.SLASH_ASSIGN: true,
}

func (p *Parser) parseExpr() dynast.Node {
	return p.parseAssignExpr()
}

func (p *Parser) parseAssignExpr() dynast.Node {
	left := p.parseLogOr()
	if assignOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		value := p.parseAssignExpr() // right-associative
		p.sink.AddNode()
		return &dynast.AssignmentExpression{Op: op.Lexeme, Target: left, Value: value, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseLogOr() dynast.Node {
	left := p.parseLogAnd()
	for p.s.Check(dynlex.OR) {
		op := p.s.Advance()
		right := p.parseLogAnd()
		p.sink.AddNode()
		left = &dynast.LogicalExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseLogAnd() dynast.Node {
	left := p.parseEquality()
	for p.s.Check(dynlex.AND) {
		op := p.s.Advance()
		right := p.parseEquality()
		p.sink.AddNode()
		left = &dynast.LogicalExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var equalityOps = map[token.Kind]bool{
	dynlex.EQ: true, dynlex.NEQ: true, dynlex.STRICT_EQ: true, dynlex.STRICT_NEQ: true,
}

func (p *Parser) parseEquality() dynast.Node {
	left := p.parseRelational()
	for equalityOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		right := p.parseRelational()
		p.sink.AddNode()
		left = &dynast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var relationalOps = map[token.Kind]bool{
	dynlex.LT: true, dynlex.GT: true, dynlex.LE: true, dynlex.GE: true,
	dynlex.INSTANCEOF: true, dynlex.IN: true,
}

func (p *Parser) parseRelational() dynast.Node {
	left := p.parseAdditive()
	for relationalOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		right := p.parseAdditive()
		p.sink.AddNode()
		left = &dynast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseAdditive() dynast.Node {
	left := p.parseMult()
	for p.s.Check(dynlex.PLUS) || p.s.Check(dynlex.MINUS) {
		op := p.s.Advance()
		right := p.parseMult()
		p.sink.AddNode()
		left = &dynast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

func (p *Parser) parseMult() dynast.Node {
	left := p.parseUnary()
	for p.s.Check(dynlex.STAR) || p.s.Check(dynlex.SLASH) || p.s.Check(dynlex.PERCENT) {
		op := p.s.Advance()
		right := p.parseUnary()
		p.sink.AddNode()
		left = &dynast.BinaryExpression{Op: op.Lexeme, Left: left, Right: right, Line: left.SrcLine()}
	}
	return left
}

var unaryOps = map[token.Kind]bool{
	dynlex.NOT: true, dynlex.MINUS: true, dynlex.PLUS: true,
	dynlex.INC: true, dynlex.DEC: true, dynlex.TYPEOF: true,
}

func (p *Parser) parseUnary() dynast.Node {
	if unaryOps[p.s.Peek().Kind] {
		op := p.s.Advance()
		operand := p.parseUnary()
		p.sink.AddNode()
		if op.Kind == dynlex.INC || op.Kind == dynlex.DEC {
			return &dynast.UpdateExpression{Op: op.Lexeme, Operand: operand, Prefix: true, Line: op.Line}
		}
		return &dynast.UnaryExpression{Op: op.Lexeme, Operand: operand, Line: op.Line}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() dynast.Node {
	node := p.parsePrimary()
	for {
		switch {
		case p.s.Check(dynlex.DOT):
			p.s.Advance()
			prop := p.consume(dynlex.IDENTIFIER, "expected property name after '.'")
			p.sink.AddNode()
			node = &dynast.MemberExpression{Object: node, Property: prop.Lexeme, Line: node.SrcLine()}
		case p.s.Check(dynlex.LPAREN):
			args := p.parseArgList()
			p.sink.AddNode()
			node = &dynast.CallExpression{Callee: node, Args: args, Line: node.SrcLine()}
		default:
			if p.s.Check(dynlex.INC) || p.s.Check(dynlex.DEC) {
				op := p.s.Advance()
				p.sink.AddNode()
				return &dynast.UpdateExpression{Op: op.Lexeme, Operand: node, Prefix: false, Line: node.SrcLine()}
			}
			return node
		}
	}
}

func (p *Parser) parseArgList() []dynast.Node {
	p.consume(dynlex.LPAREN, "expected '('")
	var args []dynast.Node
	if !p.s.Check(dynlex.RPAREN) {
		args = append(args, p.parseAssignExpr())
		for p.s.Check(dynlex.COMMA) {
			p.s.Advance()
			args = append(args, p.parseAssignExpr())
		}
	}
	p.consume(dynlex.RPAREN, "expected ')' after arguments")
	return args
}

func (p *Parser) parseCalleeChain() dynast.Node {
	tok := p.consume(dynlex.IDENTIFIER, "expected constructor name after 'new'")
	var node dynast.Node = &dynast.Identifier{Name: tok.Lexeme, Line: tok.Line}
	for p.s.Check(dynlex.DOT) {
		p.s.Advance()
		prop := p.consume(dynlex.IDENTIFIER, "expected property name after '.'")
		node = &dynast.MemberExpression{Object: node, Property: prop.Lexeme, Line: tok.Line}
	}
	return node
}

func (p *Parser) parsePrimary() dynast.Node {
	tok := p.s.Peek()
	switch tok.Kind {
	case dynlex.NEW:
		p.s.Advance()
		callee := p.parseCalleeChain()
		var args []dynast.Node
		if p.s.Check(dynlex.LPAREN) {
			args = p.parseArgList()
		}
		p.sink.AddNode()
		return &dynast.NewExpression{Callee: callee, Args: args, Line: tok.Line}
	case dynlex.IDENTIFIER, dynlex.THIS, dynlex.SUPER:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Identifier{Name: tok.Lexeme, Line: tok.Line}
	case dynlex.NUMBER:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Literal{LitKind: dynast.LitNumber, Raw: tok.Lexeme, Line: tok.Line}
	case dynlex.STRING:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Literal{LitKind: dynast.LitString, Raw: tok.Lexeme, Line: tok.Line}
	case dynlex.TRUE, dynlex.FALSE:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Literal{LitKind: dynast.LitBoolean, Raw: tok.Lexeme, Line: tok.Line}
	case dynlex.NULL:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Literal{LitKind: dynast.LitNull, Raw: tok.Lexeme, Line: tok.Line}
	case dynlex.UNDEFINED:
		p.s.Advance()
		p.sink.AddNode()
		return &dynast.Literal{LitKind: dynast.LitUndefined, Raw: tok.Lexeme, Line: tok.Line}
	case dynlex.LPAREN:
		p.s.Advance()
		expr := p.parseExpr()
		p.consume(dynlex.RPAREN, "expected ')' after expression")
		return expr
	case dynlex.LBRACKET:
		return p.parseArrayLiteral()
	case dynlex.LBRACE:
		return p.parseObjectLiteral()
	default:
		p.fail(tok, fmt.Sprintf("unexpected token %s", dynlex.KindName(tok.Kind)))
		panic("unreachable")
	}
}

func (p *Parser) parseArrayLiteral() *dynast.ArrayLiteral {
	open := p.consume(dynlex.LBRACKET, "expected '['")
	var elems []dynast.Node
	if !p.s.Check(dynlex.RBRACKET) {
		elems = append(elems, p.parseAssignExpr())
		for p.s.Check(dynlex.COMMA) {
			p.s.Advance()
			elems = append(elems, p.parseAssignExpr())
		}
	}
	p.consume(dynlex.RBRACKET, "expected ']' to close array literal")
	p.sink.AddNode()
	return &dynast.ArrayLiteral{Elements: elems, Line: open.Line}
}

func (p *Parser) parseObjectLiteral() *dynast.ObjectLiteral {
	open := p.consume(dynlex.LBRACE, "expected '{'")
	var props []*dynast.Property
	if !p.s.Check(dynlex.RBRACE) {
		props = append(props, p.parseProperty())
		for p.s.Check(dynlex.COMMA) {
			p.s.Advance()
			props = append(props, p.parseProperty())
		}
	}
	p.consume(dynlex.RBRACE, "expected '}' to close object literal")
	p.sink.AddNode()
	return &dynast.ObjectLiteral{Properties: props, Line: open.Line}
}

func (p *Parser) parseProperty() *dynast.Property {
	keyTok := p.s.Peek()
	var key string
	switch keyTok.Kind {
	case dynlex.IDENTIFIER:
		key = keyTok.Lexeme
		p.s.Advance()
	case dynlex.STRING:
		key = strings.Trim(keyTok.Lexeme, `"'`)
		p.s.Advance()
	default:
		p.fail(keyTok, "expected property key")
	}
	p.consume(dynlex.COLON, "expected ':' after property key")
	value := p.parseAssignExpr()
	p.sink.AddNode()
	return &dynast.Property{Key: key, Value: value, Line: keyTok.Line}
}
