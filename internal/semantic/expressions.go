package semantic

import (
	"github.com/hassandahiru/ccompiler/internal/ast"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// Expression visitor methods for semantic analysis. Every method
// records the expression's computed type in a.exprTypes before
// returning it, so irgen can look it up later without re-deriving it.

func (a *Analyzer) VisitBinaryOp(expr *ast.BinaryOp) (interface{}, error) {
	leftType, _ := expr.LHS.Accept(a)
	rightType, _ := expr.RHS.Accept(a)
	left, _ := leftType.(*types.Type)
	right, _ := rightType.(*types.Type)

	var result *types.Type
	switch expr.Op {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash:
		if left == nil || right == nil || !left.IsNumeric() || !right.IsNumeric() {
			a.error(expr.Pos(), "operator requires numeric operands")
			result = types.IntType
		} else {
			result = types.IntType
		}
	case lexer.TokenEqual, lexer.TokenNotEqual, lexer.TokenLess, lexer.TokenLessEqual:
		if left == nil || right == nil || (!left.IsNumeric() && left.Kind != types.Pointer) {
			a.error(expr.Pos(), "operator requires comparable operands")
		}
		result = types.IntType
	default:
		a.error(expr.Pos(), "unknown binary operator")
		result = types.IntType
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitUnaryOp(expr *ast.UnaryOp) (interface{}, error) {
	operandType, _ := expr.Operand.Accept(a)
	operand, _ := operandType.(*types.Type)

	var result *types.Type
	switch expr.Op {
	case lexer.TokenMinus:
		if operand == nil || !operand.IsNumeric() {
			a.error(expr.Pos(), "unary - requires a numeric operand")
			result = types.IntType
		} else {
			result = operand
		}
	default:
		a.error(expr.Pos(), "unknown unary operator")
		result = types.IntType
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitLiteral(expr *ast.Literal) (interface{}, error) {
	var result *types.Type
	switch expr.Kind {
	case ast.LiteralInt:
		result = types.IntType
	case ast.LiteralChar:
		result = types.CharType
	default:
		a.error(expr.Pos(), "unsupported literal")
		result = types.IntType
	}
	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitIdentifier(expr *ast.Identifier) (interface{}, error) {
	symbol := a.currentScope.Lookup(expr.Name)
	if symbol == nil {
		a.error(expr.Pos(), "undeclared identifier: "+expr.Name)
		a.exprTypes[expr] = types.IntType
		return types.IntType, nil
	}
	a.identSymbols[expr] = symbol
	a.exprTypes[expr] = symbol.Type
	return symbol.Type, nil
}

func (a *Analyzer) VisitGetAddress(expr *ast.GetAddress) (interface{}, error) {
	id, ok := expr.Operand.(*ast.Identifier)
	if !ok {
		a.error(expr.Pos(), "operand of & must be a variable")
		result := types.NewPointer(types.IntType)
		a.exprTypes[expr] = result
		return result, nil
	}
	operandType, _ := id.Accept(a)
	t, _ := operandType.(*types.Type)
	if t == nil {
		t = types.IntType
	}
	result := types.NewPointer(t)
	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitAssign(expr *ast.Assign) (interface{}, error) {
	id, ok := expr.Target.(*ast.Identifier)
	if !ok {
		a.error(expr.Target.Pos(), "left-hand side of assignment must be a variable")
		return a.fallbackAssignType(expr)
	}

	targetType, _ := id.Accept(a)
	target, _ := targetType.(*types.Type)
	if symbol := a.identSymbols[id]; symbol != nil && !symbol.CanAssign() {
		a.error(expr.Target.Pos(), "cannot assign to "+id.Name)
	}

	valueType, _ := expr.Value.Accept(a)
	value, _ := valueType.(*types.Type)
	if target != nil && value != nil {
		a.assignable(value, target, expr.Value.Pos())
	}

	a.exprTypes[expr] = target
	return target, nil
}

func (a *Analyzer) fallbackAssignType(expr *ast.Assign) (interface{}, error) {
	expr.Value.Accept(a)
	a.exprTypes[expr] = types.IntType
	return types.IntType, nil
}
