// Package symtab resolves names to declarations across nested scopes
// (spec symbol table), grounded on original_source/src/Semantic/symbol_table.cpp.
package symtab

import (
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// SymbolKind distinguishes the three kinds of name this C subset
// declares; there is no struct or enum tag namespace to track.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolParameter
)

func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol is a named entity resolved by the analyzer: a variable,
// function, or parameter declaration.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type *types.Type
	Pos  lexer.Position

	Scope *Scope
	Used  bool

	// Index is the parameter position for SymbolParameter, declaration
	// order within its scope for everything else.
	Index int
}

func (s *Symbol) String() string {
	return s.Kind.String() + " " + s.Name + ": " + s.Type.String() + " at " + s.Pos.String()
}

func (s *Symbol) IsGlobal() bool { return s.Scope != nil && s.Scope.IsGlobal() }
func (s *Symbol) IsLocal() bool  { return !s.IsGlobal() }

// CanAssign reports whether this symbol may appear on the left of an
// assignment: variables and parameters can, functions cannot.
func (s *Symbol) CanAssign() bool {
	switch s.Kind {
	case SymbolVariable, SymbolParameter:
		return true
	default:
		return false
	}
}

func (s *Symbol) MarkUsed() { s.Used = true }
