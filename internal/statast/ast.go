// Package statast defines the L-stat abstract syntax tree (C4), structured
// the same way as dynast: a closed set of tagged Node variants dispatched
// by Kind, each carrying its source line. See dynast's doc comment for the
// rationale behind using a type-switch discriminant instead of the
// teacher's As*Node() accessor idiom.
package statast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

type Kind int

const (
	KCompilationUnit Kind = iota
	KUsingDirective
	KNamespaceDeclaration
	KClassDeclaration
	KStructDeclaration
	KInterfaceDeclaration
	KEnumDeclaration
	KMethodDeclaration
	KConstructorDeclaration
	KPropertyDeclaration
	KEventDeclaration
	KFieldDeclaration
	KParameter
	KTypeParameter
	KBlockStatement
	KIfStatement
	KWhileStatement
	KDoWhileStatement
	KForStatement
	KForEachStatement
	KSwitchStatement
	KSwitchCase
	KReturnStatement
	KThrowStatement
	KBreakStatement
	KContinueStatement
	KTryStatement
	KVariableDeclaration
	KExpressionStatement
	KAssignmentExpression
	KConditionalExpression
	KBinaryExpression
	KUnaryExpression
	KUpdateExpression
	KCallExpression
	KMemberExpression
	KNewExpression
	KIdentifier
	KLiteral
	KNamedType
	KQualifiedName
	KUnsupported
)

type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
)

type Node interface {
	Kind() Kind
	SrcLine() int
}

type CompilationUnit struct {
	Usings  []*UsingDirective
	Members []Node // *NamespaceDeclaration, *ClassDeclaration, *StructDeclaration, *InterfaceDeclaration, *EnumDeclaration, or bare statements
	Line    int
}

func (n *CompilationUnit) Kind() Kind   { return KCompilationUnit }
func (n *CompilationUnit) SrcLine() int { return n.Line }

type UsingDirective struct {
	Namespace string
	Line      int
}

func (n *UsingDirective) Kind() Kind   { return KUsingDirective }
func (n *UsingDirective) SrcLine() int { return n.Line }

type NamespaceDeclaration struct {
	Name    string
	Members []Node
	Line    int
}

func (n *NamespaceDeclaration) Kind() Kind   { return KNamespaceDeclaration }
func (n *NamespaceDeclaration) SrcLine() int { return n.Line }

type TypeParameter struct {
	Name        string
	Constraints []*NamedType
	Line        int
}

func (n *TypeParameter) Kind() Kind   { return KTypeParameter }
func (n *TypeParameter) SrcLine() int { return n.Line }

type ClassDeclaration struct {
	Modifiers      []string
	Name           string
	TypeParameters []*TypeParameter
	BaseTypes      []*NamedType
	Members        []Node
	Line           int
}

func (n *ClassDeclaration) Kind() Kind   { return KClassDeclaration }
func (n *ClassDeclaration) SrcLine() int { return n.Line }

type StructDeclaration struct {
	Modifiers []string
	Name      string
	BaseTypes []*NamedType
	Members   []Node
	Line      int
}

func (n *StructDeclaration) Kind() Kind   { return KStructDeclaration }
func (n *StructDeclaration) SrcLine() int { return n.Line }

type InterfaceDeclaration struct {
	Modifiers []string
	Name      string
	BaseTypes []*NamedType
	Members   []Node
	Line      int
}

func (n *InterfaceDeclaration) Kind() Kind   { return KInterfaceDeclaration }
func (n *InterfaceDeclaration) SrcLine() int { return n.Line }

type EnumDeclaration struct {
	Modifiers []string
	Name      string
	Members   []string
	Line      int
}

func (n *EnumDeclaration) Kind() Kind   { return KEnumDeclaration }
func (n *EnumDeclaration) SrcLine() int { return n.Line }

// Parameter's Modifiers draw from {"ref", "out", "params"}.
type Parameter struct {
	Modifiers []string
	Type      *NamedType
	Name      string
	Line      int
}

func (n *Parameter) Kind() Kind   { return KParameter }
func (n *Parameter) SrcLine() int { return n.Line }

type MethodDeclaration struct {
	Modifiers      []string
	ReturnType     *NamedType
	Name           string
	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	Constraints    []*TypeParameter
	Body           *BlockStatement // nil for abstract/interface methods
	Line           int
}

func (n *MethodDeclaration) Kind() Kind   { return KMethodDeclaration }
func (n *MethodDeclaration) SrcLine() int { return n.Line }

type ConstructorDeclaration struct {
	Modifiers  []string
	Name       string
	Parameters []*Parameter
	Body       *BlockStatement
	Line       int
}

func (n *ConstructorDeclaration) Kind() Kind   { return KConstructorDeclaration }
func (n *ConstructorDeclaration) SrcLine() int { return n.Line }

type PropertyDeclaration struct {
	Modifiers []string
	Type      *NamedType
	Name      string
	HasGet    bool
	HasSet    bool
	GetBody   *BlockStatement // nil for auto-property accessors
	SetBody   *BlockStatement
	Line      int
}

func (n *PropertyDeclaration) Kind() Kind   { return KPropertyDeclaration }
func (n *PropertyDeclaration) SrcLine() int { return n.Line }

type EventDeclaration struct {
	Modifiers []string
	Type      *NamedType
	Name      string
	Line      int
}

func (n *EventDeclaration) Kind() Kind   { return KEventDeclaration }
func (n *EventDeclaration) SrcLine() int { return n.Line }

type FieldDeclaration struct {
	Modifiers []string
	Type      *NamedType
	Name      string
	Init      Node
	Line      int
}

func (n *FieldDeclaration) Kind() Kind   { return KFieldDeclaration }
func (n *FieldDeclaration) SrcLine() int { return n.Line }

type BlockStatement struct {
	Body []Node
	Line int
}

func (n *BlockStatement) Kind() Kind   { return KBlockStatement }
func (n *BlockStatement) SrcLine() int { return n.Line }

type IfStatement struct {
	Test       Node
	Consequent Node
	Alternate  Node
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

type DoWhileStatement struct {
	Body Node
	Test Node
	Line int
}

func (n *DoWhileStatement) Kind() Kind   { return KDoWhileStatement }
func (n *DoWhileStatement) SrcLine() int { return n.Line }

type ForStatement struct {
	Init   Node
	Test   Node
	Update Node
	Body   Node
	Line   int
}

func (n *ForStatement) Kind() Kind   { return KForStatement }
func (n *ForStatement) SrcLine() int { return n.Line }

type ForEachStatement struct {
	VarType *NamedType
	VarName string
	Expr    Node
	Body    Node
	Line    int
}

func (n *ForEachStatement) Kind() Kind   { return KForEachStatement }
func (n *ForEachStatement) SrcLine() int { return n.Line }

type SwitchCase struct {
	// Test is nil for the default case.
	Test Node
	Body []Node
	Line int
}

func (n *SwitchCase) Kind() Kind   { return KSwitchCase }
func (n *SwitchCase) SrcLine() int { return n.Line }

type SwitchStatement struct {
	Discriminant Node
	Cases        []*SwitchCase
	Line         int
}

func (n *SwitchStatement) Kind() Kind   { return KSwitchStatement }
func (n *SwitchStatement) SrcLine() int { return n.Line }

type ReturnStatement struct {
	Argument Node
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
	CatchType    *NamedType // nil for a bare catch
	CatchParam   string
	CatchBlock   *BlockStatement
	FinallyBlock *BlockStatement
	Line         int
}

func (n *TryStatement) Kind() Kind   { return KTryStatement }
func (n *TryStatement) SrcLine() int { return n.Line }

// VariableDeclaration covers local `var name = init;` statements. C# local
// declarations are always single-declarator in the pragmatic subset this
// system targets.
type VariableDeclaration struct {
	Type        *NamedType // nil when declared with `var`
	Identifier  string
	Initializer Node
	Line        int
}

func (n *VariableDeclaration) Kind() Kind   { return KVariableDeclaration }
func (n *VariableDeclaration) SrcLine() int { return n.Line }

type ExpressionStatement struct {
	Expr Node
	Line int
}

func (n *ExpressionStatement) Kind() Kind   { return KExpressionStatement }
func (n *ExpressionStatement) SrcLine() int { return n.Line }

type AssignmentExpression struct {
	Op     string
	Target Node
	Value  Node
	Line   int
}

func (n *AssignmentExpression) Kind() Kind   { return KAssignmentExpression }
func (n *AssignmentExpression) SrcLine() int { return n.Line }

type ConditionalExpression struct {
	Test       Node
	Consequent Node
	Alternate  Node
	Line       int
}

func (n *ConditionalExpression) Kind() Kind   { return KConditionalExpression }
func (n *ConditionalExpression) SrcLine() int { return n.Line }

// BinaryExpression covers logical, bitwise, equality, relational, shift,
// additive and multiplicative operators; Op carries the exact operator
// text.
type BinaryExpression struct {
	Op    string
	Left  Node
	Right Node
	Line  int
}

func (n *BinaryExpression) Kind() Kind   { return KBinaryExpression }
func (n *BinaryExpression) SrcLine() int { return n.Line }

type UnaryExpression struct {
	Op      string
	Operand Node
	Line    int
}

func (n *UnaryExpression) Kind() Kind   { return KUnaryExpression }
func (n *UnaryExpression) SrcLine() int { return n.Line }

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
	Type *NamedType
	Args []Node
	Line int
}

func (n *NewExpression) Kind() Kind   { return KNewExpression }
func (n *NewExpression) SrcLine() int { return n.Line }

type Identifier struct {
	Name string
	Line int
}

func (n *Identifier) Kind() Kind   { return KIdentifier }
func (n *Identifier) SrcLine() int { return n.Line }

type Literal struct {
	LitKind LiteralKind
	Raw     string
	Line    int
}

func (n *Literal) Kind() Kind   { return KLiteral }
func (n *Literal) SrcLine() int { return n.Line }

type QualifiedName struct {
	Parts []string
	Line  int
}

func (n *QualifiedName) Kind() Kind   { return KQualifiedName }
func (n *QualifiedName) SrcLine() int { return n.Line }

func (n *QualifiedName) String() string {
	s := ""
	for i, p := range n.Parts {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

type NamedType struct {
	Name          *QualifiedName
	TypeArguments []*NamedType
	Line          int
}

func (n *NamedType) Kind() Kind   { return KNamedType }
func (n *NamedType) SrcLine() int { return n.Line }

func (n *NamedType) String() string {
	s := n.Name.String()
	if len(n.TypeArguments) > 0 {
		s += "<"
		for i, a := range n.TypeArguments {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		s += ">"
	}
	return s
}

type Unsupported struct {
	OriginalKind string
	Line         int
}

func (n *Unsupported) Kind() Kind   { return KUnsupported }
func (n *Unsupported) SrcLine() int { return n.Line }

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

// Dump renders a one-line-per-node debug form wrapped to a terminal-friendly
// width and indented under label, in the same wrap-then-indent shape as the
// teacher's ExpTextNode.String().
func Dump(label string, n Node) string {
	text := String(n)
	wrapped := rosed.Edit(text).Wrap(72).String()
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return label + ":\n" + strings.Join(lines, "\n")
}

// SimpleType returns a single-identifier NamedType such as "string" or
// "void", the shape most of the mapper's synthesized types take.
func SimpleType(name string, line int) *NamedType {
	return &NamedType{Name: &QualifiedName{Parts: []string{name}, Line: line}, Line: line}
}
