// Package dynemit implements the L-dyn emitter (C6): a deterministic,
// indentation-aware pretty-printer over a dynast tree. Grounded on the
// teacher's ExpNode.Tunascript() source round-trip renderers
// (tunascript/syntax/ast.go), adapted from string-concatenation-per-node to
// a shared indenting writer so nested blocks stay 4-space aligned.
package dynemit

import (
	"fmt"
	"strings"

	"github.com/corvidwalk/transbridge/internal/dynast"
	"github.com/dekarrin/rosed"
)

var indentUnit = "    "

// SetIndentWidth overrides the per-level indent used by subsequent Emit
// calls, driven by config.Config.IndentWidth. n <= 0 is ignored.
func SetIndentWidth(n int) {
	if n > 0 {
		indentUnit = strings.Repeat(" ", n)
	}
}

type writer struct {
	b      strings.Builder
	indent int
}

func (w *writer) line(format string, args ...any) {
	w.b.WriteString(strings.Repeat(indentUnit, w.indent))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) raw(s string) {
	w.b.WriteString(s)
}

// Emit renders prog as L-dyn source text. Output is deterministic: stable
// child order, 4-space indent, one statement per line, parenthesized
// binary expressions, no trailing whitespace.
func Emit(prog *dynast.Program) string {
	w := &writer{}
	for _, n := range prog.Body {
		emitStatement(w, n)
	}
	return strings.TrimRight(w.b.String(), "\n") + "\n"
}

func emitStatement(w *writer, n dynast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *dynast.VariableDeclaration:
		w.line("%s", variableDeclText(v))
	case *dynast.FunctionDeclaration:
		emitFunction(w, v)
	case *dynast.ClassDeclaration:
		emitClass(w, v)
	case *dynast.BlockStatement:
		emitBlock(w, v)
	case *dynast.IfStatement:
		emitIf(w, v)
	case *dynast.WhileStatement:
		w.line("while (%s) {", exprText(v.Test))
		w.indent++
		emitStatementInline(w, v.Body)
		w.indent--
		w.line("}")
	case *dynast.ForStatement:
		w.line("for (%s; %s; %s) {", forClauseText(v.Init), optExprText(v.Test), optExprText(v.Update))
		w.indent++
		emitStatementInline(w, v.Body)
		w.indent--
		w.line("}")
	case *dynast.ReturnStatement:
		if v.Argument == nil {
			w.line("return;")
		} else {
			w.line("return %s;", exprText(v.Argument))
		}
	case *dynast.ThrowStatement:
		w.line("throw %s;", exprText(v.Argument))
	case *dynast.BreakStatement:
		w.line("break;")
	case *dynast.ContinueStatement:
		w.line("continue;")
	case *dynast.TryStatement:
		emitTry(w, v)
	case *dynast.ExpressionStatement:
		w.line("%s;", exprText(v.Expr))
	default:
		w.line("%s", exprText(n))
	}
}

// emitStatementInline emits the statements of a loop/if body that is not
// itself a block, at the current indent, without an enclosing brace pair
// (the caller already opened one).
func emitStatementInline(w *writer, n dynast.Node) {
	if block, ok := n.(*dynast.BlockStatement); ok {
		for _, s := range block.Body {
			emitStatement(w, s)
		}
		return
	}
	emitStatement(w, n)
}

func emitBlock(w *writer, b *dynast.BlockStatement) {
	w.line("{")
	w.indent++
	for _, s := range b.Body {
		emitStatement(w, s)
	}
	w.indent--
	w.line("}")
}

func emitIf(w *writer, v *dynast.IfStatement) {
	w.line("if (%s) {", exprText(v.Test))
	w.indent++
	emitStatementInline(w, v.Consequent)
	w.indent--
	if v.Alternate == nil {
		w.line("}")
		return
	}
	if elseif, ok := v.Alternate.(*dynast.IfStatement); ok {
		w.b.WriteString(strings.Repeat(indentUnit, w.indent))
		w.raw("} else ")
		emitElseIfTail(w, elseif)
		return
	}
	w.line("} else {")
	w.indent++
	emitStatementInline(w, v.Alternate)
	w.indent--
	w.line("}")
}

// emitElseIfTail renders "if (...) { ... }" continuing an already-started
// "} else " line, so chained else-if ladders don't indent like a fresh
// block each time.
func emitElseIfTail(w *writer, v *dynast.IfStatement) {
	w.raw(fmt.Sprintf("if (%s) {\n", exprText(v.Test)))
	w.indent++
	emitStatementInline(w, v.Consequent)
	w.indent--
	if v.Alternate == nil {
		w.line("}")
		return
	}
	if elseif, ok := v.Alternate.(*dynast.IfStatement); ok {
		w.b.WriteString(strings.Repeat(indentUnit, w.indent))
		w.raw("} else ")
		emitElseIfTail(w, elseif)
		return
	}
	w.line("} else {")
	w.indent++
	emitStatementInline(w, v.Alternate)
	w.indent--
	w.line("}")
}

func emitTry(w *writer, v *dynast.TryStatement) {
	w.line("try {")
	w.indent++
	for _, s := range v.Block.Body {
		emitStatement(w, s)
	}
	w.indent--
	if v.CatchBlock != nil {
		if v.CatchParam != "" {
			w.line("} catch (%s) {", v.CatchParam)
		} else {
			w.line("} catch {")
		}
		w.indent++
		for _, s := range v.CatchBlock.Body {
			emitStatement(w, s)
		}
		w.indent--
	}
	if v.FinallyBlock != nil {
		w.line("} finally {")
		w.indent++
		for _, s := range v.FinallyBlock.Body {
			emitStatement(w, s)
		}
		w.indent--
	}
	w.line("}")
}

func emitFunction(w *writer, f *dynast.FunctionDeclaration) {
	w.line("function %s(%s) {", f.Name, strings.Join(f.Params, ", "))
	w.indent++
	for _, s := range f.Body.Body {
		emitStatement(w, s)
	}
	w.indent--
	w.line("}")
}

func emitClass(w *writer, c *dynast.ClassDeclaration) {
	if c.SuperClass != "" {
		w.line("class %s extends %s {", c.Name, c.SuperClass)
	} else {
		w.line("class %s {", c.Name)
	}
	w.indent++
	for _, meth := range c.Methods {
		w.line("%s(%s) {", meth.Name, strings.Join(meth.Params, ", "))
		w.indent++
		for _, s := range meth.Body.Body {
			emitStatement(w, s)
		}
		w.indent--
		w.line("}")
	}
	w.indent--
	w.line("}")
}

func variableDeclText(v *dynast.VariableDeclaration) string {
	var parts []string
	for _, d := range v.Declarations {
		if d.Init != nil {
			parts = append(parts, fmt.Sprintf("%s = %s", d.Name, exprText(d.Init)))
		} else {
			parts = append(parts, d.Name)
		}
	}
	return fmt.Sprintf("%s %s;", v.Kw, strings.Join(parts, ", "))
}

func forClauseText(n dynast.Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *dynast.VariableDeclaration:
		return strings.TrimSuffix(variableDeclText(v), ";")
	case *dynast.ExpressionStatement:
		return exprText(v.Expr)
	default:
		return exprText(n)
	}
}

func optExprText(n dynast.Node) string {
	if n == nil {
		return ""
	}
	return exprText(n)
}

// rewriteKnownCall implements spec.md §4.5's cross-language stdlib
// surrogate fixup for L-dyn: a call to Console.WriteLine is rendered as
// console.log.
func rewriteKnownCall(callee string) string {
	if callee == "Console.WriteLine" {
		return "console.log"
	}
	return callee
}

func calleeText(n dynast.Node) string {
	switch v := n.(type) {
	case *dynast.Identifier:
		return v.Name
	case *dynast.MemberExpression:
		return calleeText(v.Object) + "." + v.Property
	default:
		return exprText(n)
	}
}

func exprText(n dynast.Node) string {
	if n == nil {
		return ""
	}
	switch v := n.(type) {
	case *dynast.Identifier:
		return v.Name
	case *dynast.Literal:
		return literalText(v)
	case *dynast.AssignmentExpression:
		return fmt.Sprintf("%s %s %s", exprText(v.Target), v.Op, exprText(v.Value))
	case *dynast.LogicalExpression:
		return fmt.Sprintf("(%s %s %s)", exprText(v.Left), v.Op, exprText(v.Right))
	case *dynast.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", exprText(v.Left), v.Op, exprText(v.Right))
	case *dynast.UnaryExpression:
		return fmt.Sprintf("%s%s", v.Op, exprText(v.Operand))
	case *dynast.UpdateExpression:
		if v.Prefix {
			return fmt.Sprintf("%s%s", v.Op, exprText(v.Operand))
		}
		return fmt.Sprintf("%s%s", exprText(v.Operand), v.Op)
	case *dynast.CallExpression:
		callee := calleeText(v.Callee)
		rewritten := rewriteKnownCall(callee)
		args := make([]string, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, exprText(a))
		}
		return fmt.Sprintf("%s(%s)", rewritten, strings.Join(args, ", "))
	case *dynast.MemberExpression:
		return calleeText(v)
	case *dynast.NewExpression:
		args := make([]string, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, exprText(a))
		}
		return fmt.Sprintf("new %s(%s)", calleeText(v.Callee), strings.Join(args, ", "))
	case *dynast.ArrayLiteral:
		elems := make([]string, 0, len(v.Elements))
		for _, e := range v.Elements {
			elems = append(elems, exprText(e))
		}
		return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
	case *dynast.ObjectLiteral:
		props := make([]string, 0, len(v.Properties))
		for _, p := range v.Properties {
			props = append(props, fmt.Sprintf("%s: %s", p.Key, exprText(p.Value)))
		}
		return fmt.Sprintf("{ %s }", strings.Join(props, ", "))
	case *dynast.Unsupported:
		return fmt.Sprintf("/* unsupported: %s */", rosed.Edit(v.OriginalKind).Wrap(60).String())
	default:
		return ""
	}
}

func literalText(l *dynast.Literal) string {
	switch l.LitKind {
	case dynast.LitString:
		return quoteString(l.Raw)
	case dynast.LitBoolean:
		return l.Raw
	case dynast.LitNull:
		return "null"
	case dynast.LitUndefined:
		return "undefined"
	default:
		return l.Raw
	}
}

// quoteString normalizes a literal's raw lexeme (which may carry single,
// double, or backtick quotes from the source) into a double-quoted L-dyn
// string with backslashes and quotes escaped.
func quoteString(raw string) string {
	inner := raw
	if len(raw) >= 2 {
		inner = raw[1 : len(raw)-1]
	}
	inner = strings.ReplaceAll(inner, `\`, `\\`)
	inner = strings.ReplaceAll(inner, `"`, `\"`)
	return `"` + inner + `"`
}
