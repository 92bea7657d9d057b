package parser

import (
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// Precedence levels for the C-subset expression grammar, lowest to
// highest (spec §11's Expr production covers exactly these operators,
// a strict subset of a full C grammar).
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment // = (right-associative)
	PrecEquality   // ==, !=
	PrecComparison // <, <=
	PrecTerm       // +, -
	PrecFactor     // *, /
	PrecUnary      // unary -, &
	PrecPrimary
)

func getPrecedence(tt lexer.TokenType) Precedence {
	switch tt {
	case lexer.TokenAssign:
		return PrecAssignment
	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality
	case lexer.TokenLess, lexer.TokenLessEqual:
		return PrecComparison
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash:
		return PrecFactor
	default:
		return PrecNone
	}
}

func isRightAssociative(tt lexer.TokenType) bool {
	return tt == lexer.TokenAssign
}
