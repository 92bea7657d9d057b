// Package ast defines the C-subset abstract syntax tree consumed by the
// semantic analyzer and the IR generator. The node set is deliberately
// small: exactly the constructs the IR core (package ir) knows how to
// lower, plus the Identifier/ExprStatement glue every parser needs.
package ast

import (
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// Node is the base interface of every AST node.
type Node interface {
	Pos() lexer.Position
	End() lexer.Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	Accept(v Visitor) (interface{}, error)
	exprNode()
}

// Stmt is any node that performs an action without itself being a value.
type Stmt interface {
	Node
	Accept(v Visitor) error
	stmtNode()
}

// Decl is a top-level or block-scoped declaration.
type Decl interface {
	Node
	declNode()
}

// Visitor drives a single traversal of the tree. semantic.Analyzer
// implements it for type checking; irgen.Generator implements it again
// for IR lowering, once a tree has passed analysis.
type Visitor interface {
	VisitBinaryOp(e *BinaryOp) (interface{}, error)
	VisitUnaryOp(e *UnaryOp) (interface{}, error)
	VisitLiteral(e *Literal) (interface{}, error)
	VisitIdentifier(e *Identifier) (interface{}, error)
	VisitGetAddress(e *GetAddress) (interface{}, error)
	VisitAssign(e *Assign) (interface{}, error)

	VisitEmpty(s *Empty) error
	VisitExprStatement(s *ExprStatement) error
	VisitCompoundStatement(s *CompoundStatement) error
	VisitIfElse(s *IfElse) error
	VisitForLoop(s *ForLoop) error
	VisitWhileLoop(s *WhileLoop) error
	VisitDoWhile(s *DoWhile) error
	VisitReturn(s *Return) error
	VisitDeclarationStatement(s *DeclarationStatement) error
}

// BaseNode implements Pos/End by embedding a start/end position pair.
type BaseNode struct {
	StartPos lexer.Position
	EndPos   lexer.Position
}

func (b *BaseNode) Pos() lexer.Position { return b.StartPos }
func (b *BaseNode) End() lexer.Position { return b.EndPos }

// BinaryOp is `LHS op RHS`.
type BinaryOp struct {
	BaseNode
	Op       lexer.TokenType
	LHS, RHS Expr
}

func (e *BinaryOp) exprNode() {}
func (e *BinaryOp) Accept(v Visitor) (interface{}, error) { return v.VisitBinaryOp(e) }

// UnaryOp is `op Operand` (only negation reaches the IR core today).
type UnaryOp struct {
	BaseNode
	Op      lexer.TokenType
	Operand Expr
}

func (e *UnaryOp) exprNode() {}
func (e *UnaryOp) Accept(v Visitor) (interface{}, error) { return v.VisitUnaryOp(e) }

// LiteralKind tags Literal's surface syntax category.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralChar
	LiteralString
)

// Literal is a constant written directly in the source.
type Literal struct {
	BaseNode
	Kind LiteralKind
	Text string
}

func (e *Literal) exprNode() {}
func (e *Literal) Accept(v Visitor) (interface{}, error) { return v.VisitLiteral(e) }

// Identifier names a variable, parameter, or function.
type Identifier struct {
	BaseNode
	Name string
}

func (e *Identifier) exprNode() {}
func (e *Identifier) Accept(v Visitor) (interface{}, error) { return v.VisitIdentifier(e) }

// GetAddress is `&Operand`; Operand must be an lvalue.
type GetAddress struct {
	BaseNode
	Operand Expr
}

func (e *GetAddress) exprNode() {}
func (e *GetAddress) Accept(v Visitor) (interface{}, error) { return v.VisitGetAddress(e) }

// Assign is `Target = Value`, itself an expression (it yields Value).
type Assign struct {
	BaseNode
	Target Expr
	Value  Expr
}

func (e *Assign) exprNode() {}
func (e *Assign) Accept(v Visitor) (interface{}, error) { return v.VisitAssign(e) }

// Empty is the empty statement `;`.
type Empty struct{ BaseNode }

func (s *Empty) stmtNode() {}
func (s *Empty) Accept(v Visitor) error { return v.VisitEmpty(s) }

// ExprStatement evaluates Expr for its side effect and discards the
// value (e.g. a bare assignment statement `x = 1;`).
type ExprStatement struct {
	BaseNode
	Expr Expr
}

func (s *ExprStatement) stmtNode() {}
func (s *ExprStatement) Accept(v Visitor) error { return v.VisitExprStatement(s) }

// CompoundStatement is a `{ ... }` block introducing its own scope.
type CompoundStatement struct {
	BaseNode
	Stmts []Stmt
}

func (s *CompoundStatement) stmtNode() {}
func (s *CompoundStatement) Accept(v Visitor) error { return v.VisitCompoundStatement(s) }

// IfElse is `if (Cond) Then [else Else]`; Else is nil when absent.
type IfElse struct {
	BaseNode
	Cond Expr
	Then Stmt
	Else Stmt
}

func (s *IfElse) stmtNode() {}
func (s *IfElse) Accept(v Visitor) error { return v.VisitIfElse(s) }

// ForLoop is `for (Init; Cond; Post) Body`; any of Init/Cond/Post may
// be nil.
type ForLoop struct {
	BaseNode
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (s *ForLoop) stmtNode() {}
func (s *ForLoop) Accept(v Visitor) error { return v.VisitForLoop(s) }

// WhileLoop is `while (Cond) Body`.
type WhileLoop struct {
	BaseNode
	Cond Expr
	Body Stmt
}

func (s *WhileLoop) stmtNode() {}
func (s *WhileLoop) Accept(v Visitor) error { return v.VisitWhileLoop(s) }

// DoWhile is `do Body while (Cond);`.
type DoWhile struct {
	BaseNode
	Body Stmt
	Cond Expr
}

func (s *DoWhile) stmtNode() {}
func (s *DoWhile) Accept(v Visitor) error { return v.VisitDoWhile(s) }

// Return is `return [Value];`; Value is nil for a void function.
type Return struct {
	BaseNode
	Value Expr
}

func (s *Return) stmtNode() {}
func (s *Return) Accept(v Visitor) error { return v.VisitReturn(s) }

// DeclarationStatement wraps a local VariableDeclaration so it can
// appear in a CompoundStatement's statement list.
type DeclarationStatement struct {
	BaseNode
	Decl *VariableDeclaration
}

func (s *DeclarationStatement) stmtNode() {}
func (s *DeclarationStatement) Accept(v Visitor) error { return v.VisitDeclarationStatement(s) }

// VariableDeclaration introduces Name of type Declarator, optionally
// initialized. Declarator is in the front-end (pre-normalization) type
// grammar; the semantic pass normalizes it.
type VariableDeclaration struct {
	BaseNode
	Name        string
	Declarator  *types.Type
	Initializer Expr
}

func (d *VariableDeclaration) declNode() {}

// Param is one entry of a function's parameter list. Type is nil for a
// K&R identifier-only parameter awaiting reconciliation against
// KnrDecls.
type Param struct {
	Name string
	Type *types.Type
	Pos  lexer.Position
}

// KnrDecl is one entry of a K&R trailing declaration list (`int a;`
// between the parameter list and the function body).
type KnrDecl struct {
	Name string
	Type *types.Type
	Pos  lexer.Position
}

// FunctionDeclaration is either a prototype (Body == nil) or a
// definition. Params carry no Type when this is a K&R-style
// declaration with a non-empty KnrDecls list.
type FunctionDeclaration struct {
	BaseNode
	Name       string
	ReturnType *types.Type
	Params     []*Param
	KnrDecls   []*KnrDecl
	Body       *CompoundStatement
}

func (d *FunctionDeclaration) declNode() {}

// File is one parsed translation unit.
type File struct {
	Filename string
	Decls    []Decl
}
