// Package dynast defines the L-dyn abstract syntax tree (C4): a closed set
// of tagged node variants, each carrying the source line of its first
// token, following the node-family layout of spec.md §3. The variant set
// is intentionally smaller than go/ast's — every production in the
// recursive-descent grammar produces exactly one of these — so consumers
// (the mapper, the emitter) dispatch on Kind with a type switch rather
// than the teacher's As*Node() panicking-accessor idiom, which doesn't
// scale past a handful of variants.
package dynast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Kind tags the concrete type of a Node.
type Kind int

const (
	KProgram Kind = iota
	KFunctionDeclaration
	KClassDeclaration
	KVariableDeclaration
	KVariableDeclarator
	KBlockStatement
	KIfStatement
	KWhileStatement
	KForStatement
	KReturnStatement
	KThrowStatement
	KBreakStatement
	KContinueStatement
	KTryStatement
	KExpressionStatement
	KAssignmentExpression
	KLogicalExpression
	KBinaryExpression
	KUnaryExpression
	KUpdateExpression
	KCallExpression
	KMemberExpression
	KNewExpression
	KIdentifier
	KLiteral
	KArrayLiteral
	KObjectLiteral
	KProperty
	// KUnsupported wraps a node the mapper could not translate further; it
	// is a pass-through placeholder, never produced by the parser itself.
	KUnsupported
)

// LiteralKind distinguishes the payload type carried by a Literal node.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitUndefined
)

// Node is implemented by every L-dyn AST variant. Kind is the discriminant
// consumers switch on; Line is the 1-based source line of the first token
// consumed while building the node (invariant (i) of spec.md §3).
type Node interface {
	Kind() Kind
	SrcLine() int
}

type Program struct {
	Body []Node
	Line int
}

func (n *Program) Kind() Kind  { return KProgram }
func (n *Program) SrcLine() int { return n.Line }

type FunctionDeclaration struct {
	Name   string
	Params []string
	Body   *BlockStatement
	Line   int
}

func (n *FunctionDeclaration) Kind() Kind   { return KFunctionDeclaration }
func (n *FunctionDeclaration) SrcLine() int { return n.Line }

type ClassDeclaration struct {
	Name       string
	SuperClass string // empty if none
	Methods    []*FunctionDeclaration
	Line       int
}

func (n *ClassDeclaration) Kind() Kind   { return KClassDeclaration }
func (n *ClassDeclaration) SrcLine() int { return n.Line }

// VariableDeclaration's Kw is one of "var", "let", "const".
type VariableDeclaration struct {
	Kw           string
	Declarations []*VariableDeclarator
	Line         int
}

func (n *VariableDeclaration) Kind() Kind   { return KVariableDeclaration }
func (n *VariableDeclaration) SrcLine() int { return n.Line }

type VariableDeclarator struct {
	Name string
	Init Node // nil if uninitialized
	Line int
}

func (n *VariableDeclarator) Kind() Kind   { return KVariableDeclarator }
func (n *VariableDeclarator) SrcLine() int { return n.Line }

type BlockStatement struct {
	Body []Node
	Line int
}

func (n *BlockStatement) Kind() Kind   { return KBlockStatement }
func (n *BlockStatement) SrcLine() int { return n.Line }

type IfStatement struct {
	Test       Node
	Consequent Node
	Alternate  Node // nil if no else
	Line       int
}

func (n *IfStatement) Kind() Kind   { return KIfStatement }
func (n *IfStatement) SrcLine() int { return n.Line }

type WhileStatement struct {
	Test Node
	Body Node
	Line int
}

func (n *WhileStatement) Kind() Kind   { return KWhileStatement }
func (n *WhileStatement) SrcLine() int { return n.Line }

type ForStatement struct {
	Init   Node // *VariableDeclaration or expression-statement-like Node, may be nil
	Test   Node // may be nil
	Update Node // may be nil
	Body   Node
	Line   int
}

func (n *ForStatement) Kind() Kind   { return KForStatement }
func (n *ForStatement) SrcLine() int { return n.Line }

type ReturnStatement struct {
	Argument Node // nil for bare `return;`
	Line     int
}

func (n *ReturnStatement) Kind() Kind   { return KReturnStatement }
func (n *ReturnStatement) SrcLine() int { return n.Line }

type ThrowStatement struct {
	Argument Node
	Line     int
}

func (n *ThrowStatement) Kind() Kind   { return KThrowStatement }
func (n *ThrowStatement) SrcLine() int { return n.Line }

type BreakStatement struct{ Line int }

func (n *BreakStatement) Kind() Kind   { return KBreakStatement }
func (n *BreakStatement) SrcLine() int { return n.Line }

type ContinueStatement struct{ Line int }

func (n *ContinueStatement) Kind() Kind   { return KContinueStatement }
func (n *ContinueStatement) SrcLine() int { return n.Line }

type TryStatement struct {
	Block        *BlockStatement
	CatchParam   string // empty if catch has no binding
	CatchBlock   *BlockStatement // nil if no catch
	FinallyBlock *BlockStatement // nil if no finally
	Line         int
}

func (n *TryStatement) Kind() Kind   { return KTryStatement }
func (n *TryStatement) SrcLine() int { return n.Line }

type ExpressionStatement struct {
	Expr Node
	Line int
}

func (n *ExpressionStatement) Kind() Kind   { return KExpressionStatement }
func (n *ExpressionStatement) SrcLine() int { return n.Line }

// AssignmentExpression's Op is one of "=", "+=", "-=", "*=", "/=".
type AssignmentExpression struct {
	Op     string
	Target Node
	Value  Node
	Line   int
}

func (n *AssignmentExpression) Kind() Kind   { return KAssignmentExpression }
func (n *AssignmentExpression) SrcLine() int { return n.Line }

// LogicalExpression's Op is "&&" or "||".
type LogicalExpression struct {
	Op    string
	Left  Node
	Right Node
	Line  int
}

func (n *LogicalExpression) Kind() Kind   { return KLogicalExpression }
func (n *LogicalExpression) SrcLine() int { return n.Line }

// BinaryExpression covers equality, relational, additive and
// multiplicative operators.
type BinaryExpression struct {
	Op    string
	Left  Node
	Right Node
	Line  int
}

func (n *BinaryExpression) Kind() Kind   { return KBinaryExpression }
func (n *BinaryExpression) SrcLine() int { return n.Line }

// UnaryExpression's Op is one of "!", "-", "+", "typeof".
type UnaryExpression struct {
	Op      string
	Operand Node
	Line    int
}

func (n *UnaryExpression) Kind() Kind   { return KUnaryExpression }
func (n *UnaryExpression) SrcLine() int { return n.Line }

// UpdateExpression is ++/-- applied prefix or postfix.
type UpdateExpression struct {
	Op      string
	Operand Node
	Prefix  bool
	Line    int
}

func (n *UpdateExpression) Kind() Kind   { return KUpdateExpression }
func (n *UpdateExpression) SrcLine() int { return n.Line }

type CallExpression struct {
	Callee Node
	Args   []Node
	Line   int
}

func (n *CallExpression) Kind() Kind   { return KCallExpression }
func (n *CallExpression) SrcLine() int { return n.Line }

type MemberExpression struct {
	Object   Node
	Property string
	Line     int
}

func (n *MemberExpression) Kind() Kind   { return KMemberExpression }
func (n *MemberExpression) SrcLine() int { return n.Line }

type NewExpression struct {
	Callee Node
	Args   []Node
	Line   int
}

func (n *NewExpression) Kind() Kind   { return KNewExpression }
func (n *NewExpression) SrcLine() int { return n.Line }

type Identifier struct {
	Name string
	Line int
}

func (n *Identifier) Kind() Kind   { return KIdentifier }
func (n *Identifier) SrcLine() int { return n.Line }

// Literal carries a tagged value; Raw preserves the exact lexeme
// (including surrounding quotes for strings) for round-trip fidelity.
type Literal struct {
	LitKind LiteralKind
	Raw     string
	Line    int
}

func (n *Literal) Kind() Kind   { return KLiteral }
func (n *Literal) SrcLine() int { return n.Line }

type ArrayLiteral struct {
	Elements []Node
	Line     int
}

func (n *ArrayLiteral) Kind() Kind   { return KArrayLiteral }
func (n *ArrayLiteral) SrcLine() int { return n.Line }

type ObjectLiteral struct {
	Properties []*Property
	Line       int
}

func (n *ObjectLiteral) Kind() Kind   { return KObjectLiteral }
func (n *ObjectLiteral) SrcLine() int { return n.Line }

type Property struct {
	Key   string
	Value Node
	Line  int
}

func (n *Property) Kind() Kind   { return KProperty }
func (n *Property) SrcLine() int { return n.Line }

// Unsupported is the conservative pass-through the mapper produces for a
// node kind it doesn't recognize (spec.md §4.4's "Total over the declared
// node kinds ... for unrecognized kinds, re-emit a same-tag node").
type Unsupported struct {
	OriginalKind string
	Line         int
}

func (n *Unsupported) Kind() Kind   { return KUnsupported }
func (n *Unsupported) SrcLine() int { return n.Line }

// String renders a compact, indentation-free debug form. It is meant for
// test failure output and the CLI's verbose mode, not for code generation
// (that's dynemit's job).
func String(n Node) string {
	if n == nil {
		return "<nil>"
	}
	switch v := n.(type) {
	case *Identifier:
		return fmt.Sprintf("Identifier(%s)", v.Name)
	case *Literal:
		return fmt.Sprintf("Literal(%s)", v.Raw)
	case *BinaryExpression:
		return fmt.Sprintf("Binary(%s %s %s)", String(v.Left), v.Op, String(v.Right))
	default:
		return fmt.Sprintf("%T@L%d", n, n.SrcLine())
	}
}

// Dump renders String(n) wrapped to a terminal-friendly width and indented
// under label, in the same wrap-then-indent shape as the teacher's
// ExpTextNode.String(). Long string/number literals are the nodes most
// likely to be wide enough to need wrapping.
func Dump(label string, n Node) string {
	text := String(n)
	wrapped := rosed.Edit(text).Wrap(72).String()
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return label + ":\n" + strings.Join(lines, "\n")
}
