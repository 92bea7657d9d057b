// Package semantic implements semantic analysis for the compiler.
//
// SEMANTIC ANALYSIS:
// After parsing, we have a syntactically correct AST, but it might not be
// semantically valid. Semantic analysis checks:
// 1. Name resolution - are all names defined before use?
// 2. Type checking - do operations use compatible types?
// 3. Declarator normalization - does every declared type survive
//    NormalizeVariableDeclaration / NormalizeParameterDeclaration?
//
// DESIGN PHILOSOPHY:
// - Collect all errors, don't stop at the first one
// - Use the visitor pattern to traverse the AST
// - Build the symbol table while checking
// - Annotate the AST with type information, stored separately (the AST
//   itself carries no mutable analysis state)
package semantic

import (
	"github.com/hassandahiru/ccompiler/internal/ast"
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/symtab"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// Analyzer performs semantic analysis on an AST.
type Analyzer struct {
	currentScope *symtab.Scope
	globalScope  *symtab.Scope

	errors []error

	// exprTypes maps expressions to their computed, normalized type.
	exprTypes map[ast.Expr]*types.Type

	// identSymbols maps every resolved Identifier to the symbol it
	// refers to, so irgen never has to re-run name resolution.
	identSymbols map[*ast.Identifier]*symtab.Symbol

	// declSymbols maps every declaration to its symbol, including
	// function parameters (keyed by the *ast.Param they came from).
	declSymbols map[interface{}]*symtab.Symbol

	currentFunction *symtab.Symbol
	currentReturn   *types.Type
}

// New creates a new semantic analyzer.
func New() *Analyzer {
	global := symtab.NewScope(symtab.ScopeGlobal, nil)
	return &Analyzer{
		currentScope: global,
		globalScope:  global,
	}
}

// Analyze performs semantic analysis on a file, returning every error
// found (empty if the program is well-formed).
func (a *Analyzer) Analyze(file *ast.File) []error {
	a.errors = nil
	a.exprTypes = make(map[ast.Expr]*types.Type)
	a.identSymbols = make(map[*ast.Identifier]*symtab.Symbol)
	a.declSymbols = make(map[interface{}]*symtab.Symbol)
	a.currentScope = a.globalScope

	// Two passes: declare every top-level name first so functions and
	// globals may refer to each other regardless of source order, then
	// check bodies.
	for _, decl := range file.Decls {
		a.declareTopLevel(decl)
	}
	for _, decl := range file.Decls {
		a.checkTopLevel(decl)
	}

	return a.errors
}

func (a *Analyzer) declareTopLevel(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		declType, err := types.NormalizeVariableDeclaration(d.Declarator, d.Pos())
		if err != nil {
			a.report(err)
			declType = d.Declarator
		}
		symbol := &symtab.Symbol{Name: d.Name, Kind: symtab.SymbolVariable, Type: declType, Pos: d.Pos()}
		if err := a.globalScope.Define(symbol); err != nil {
			a.error(d.Pos(), err.Error())
			return
		}
		a.declSymbols[d] = symbol

	case *ast.FunctionDeclaration:
		funcType, err := a.resolveFunctionType(d)
		if err != nil {
			a.report(err)
			return
		}
		if existing := a.globalScope.LookupLocal(d.Name); existing != nil {
			if !existing.Type.Equals(funcType) {
				a.error(d.Pos(), "conflicting declaration of function "+d.Name)
			}
			a.declSymbols[d] = existing
			return
		}
		symbol := &symtab.Symbol{Name: d.Name, Kind: symtab.SymbolFunction, Type: funcType, Pos: d.Pos()}
		if err := a.globalScope.Define(symbol); err != nil {
			a.error(d.Pos(), err.Error())
			return
		}
		a.declSymbols[d] = symbol
	}
}

// resolveFunctionType reconciles a typed or K&R-style parameter list into
// a normalized function type, without declaring anything.
func (a *Analyzer) resolveFunctionType(d *ast.FunctionDeclaration) (*types.Type, error) {
	var paramTypes []*types.Type
	if d.KnrDecls != nil || (len(d.Params) > 0 && d.Params[0].Type == nil) {
		names := make([]types.KnrParam, len(d.Params))
		for i, p := range d.Params {
			names[i] = types.KnrParam{Name: p.Name, Pos: p.Pos}
		}
		decls := make([]types.KnrDecl, len(d.KnrDecls))
		for i, k := range d.KnrDecls {
			decls[i] = types.KnrDecl{Name: k.Name, Type: k.Type, Pos: k.Pos}
		}
		promoted, err := types.PromoteKnrParameters(names, decls)
		if err != nil {
			return nil, err
		}
		paramTypes = promoted
	} else {
		paramTypes = make([]*types.Type, len(d.Params))
		for i, p := range d.Params {
			paramTypes[i] = p.Type
		}
	}

	raw := types.NewFunction(d.ReturnType, paramTypes)
	return types.NormalizeFunctionType(raw, d.Pos())
}

func (a *Analyzer) checkTopLevel(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		if d.Initializer != nil {
			a.error(d.Pos(), "global variable initializers are not supported")
		}
	case *ast.FunctionDeclaration:
		a.checkFunctionDeclaration(d)
	}
}

func (a *Analyzer) checkFunctionDeclaration(d *ast.FunctionDeclaration) {
	symbol := a.declSymbols[d]
	if symbol == nil {
		return
	}
	if d.Body == nil {
		return // prototype only
	}

	a.currentFunction = symbol
	a.currentReturn = symbol.Type.Return
	a.enterScope(symtab.ScopeFunction)
	a.currentScope.Function = symbol

	for i, p := range d.Params {
		paramType := symbol.Type.Params[i]
		paramSymbol := &symtab.Symbol{Name: p.Name, Kind: symtab.SymbolParameter, Type: paramType, Pos: p.Pos, Index: i}
		if err := a.currentScope.Define(paramSymbol); err != nil {
			a.error(p.Pos, err.Error())
			continue
		}
		a.declSymbols[p] = paramSymbol
	}

	d.Body.Accept(a)

	a.exitScope()
	a.currentFunction = nil
	a.currentReturn = nil
}

// Statement visitor methods

func (a *Analyzer) VisitEmpty(*ast.Empty) error { return nil }

func (a *Analyzer) VisitExprStatement(s *ast.ExprStatement) error {
	_, err := s.Expr.Accept(a)
	return err
}

func (a *Analyzer) VisitCompoundStatement(s *ast.CompoundStatement) error {
	a.enterScope(symtab.ScopeBlock)
	for _, stmt := range s.Stmts {
		stmt.Accept(a)
	}
	a.exitScope()
	return nil
}

func (a *Analyzer) VisitIfElse(s *ast.IfElse) error {
	condType, _ := s.Cond.Accept(a)
	if t, _ := condType.(*types.Type); t != nil && !t.IsNumeric() && t.Kind != types.Pointer {
		a.error(s.Cond.Pos(), "if condition must be a scalar expression")
	}
	s.Then.Accept(a)
	if s.Else != nil {
		s.Else.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitForLoop(s *ast.ForLoop) error {
	a.enterScope(symtab.ScopeLoop)
	if s.Init != nil {
		s.Init.Accept(a)
	}
	if s.Cond != nil {
		s.Cond.Accept(a)
	}
	if s.Post != nil {
		s.Post.Accept(a)
	}
	s.Body.Accept(a)
	a.exitScope()
	return nil
}

func (a *Analyzer) VisitWhileLoop(s *ast.WhileLoop) error {
	s.Cond.Accept(a)
	a.enterScope(symtab.ScopeLoop)
	s.Body.Accept(a)
	a.exitScope()
	return nil
}

func (a *Analyzer) VisitDoWhile(s *ast.DoWhile) error {
	a.enterScope(symtab.ScopeLoop)
	s.Body.Accept(a)
	a.exitScope()
	s.Cond.Accept(a)
	return nil
}

func (a *Analyzer) VisitReturn(s *ast.Return) error {
	if a.currentFunction == nil {
		a.error(s.Pos(), "return outside function")
		return nil
	}
	if s.Value != nil {
		if a.currentReturn.Kind == types.Void {
			a.error(s.Value.Pos(), "void function should not return a value")
		}
		valueType, _ := s.Value.Accept(a)
		if t, ok := valueType.(*types.Type); ok && a.currentReturn.Kind != types.Void {
			a.assignable(t, a.currentReturn, s.Value.Pos())
		}
	} else if a.currentReturn.Kind != types.Void {
		a.error(s.Pos(), "missing return value")
	}
	return nil
}

func (a *Analyzer) VisitDeclarationStatement(s *ast.DeclarationStatement) error {
	d := s.Decl
	declType, err := types.NormalizeVariableDeclaration(d.Declarator, d.Pos())
	if err != nil {
		a.report(err)
		declType = d.Declarator
	}
	symbol := &symtab.Symbol{Name: d.Name, Kind: symtab.SymbolVariable, Type: declType, Pos: d.Pos()}
	if err := a.currentScope.Define(symbol); err != nil {
		a.error(d.Pos(), err.Error())
	} else {
		a.declSymbols[d] = symbol
	}
	if d.Initializer != nil {
		initType, _ := d.Initializer.Accept(a)
		if t, ok := initType.(*types.Type); ok {
			a.assignable(t, declType, d.Initializer.Pos())
		}
	}
	return nil
}

// Helpers

func (a *Analyzer) enterScope(kind symtab.ScopeKind) {
	a.currentScope = symtab.NewScope(kind, a.currentScope)
}

func (a *Analyzer) exitScope() {
	if a.currentScope.Parent != nil {
		a.currentScope = a.currentScope.Parent
	}
}

func (a *Analyzer) error(pos lexer.Position, message string) {
	a.errors = append(a.errors, diagnostics.New(diagnostics.InvalidControlFlow, pos, "%s", message))
}

func (a *Analyzer) report(err error) {
	a.errors = append(a.errors, err)
}

func (a *Analyzer) assignable(value, target *types.Type, pos lexer.Position) bool {
	if value.Equals(target) {
		return true
	}
	if value.IsNumeric() && target.IsNumeric() {
		return true
	}
	a.error(pos, "cannot assign "+value.String()+" to "+target.String())
	return false
}

// TypeOf returns the normalized type computed for expr during Analyze.
func (a *Analyzer) TypeOf(expr ast.Expr) *types.Type {
	return a.exprTypes[expr]
}

// SymbolOf returns the symbol an Identifier was resolved to.
func (a *Analyzer) SymbolOf(id *ast.Identifier) *symtab.Symbol {
	return a.identSymbols[id]
}

// DeclSymbol returns the symbol created for a declaration or parameter
// (key is a *ast.VariableDeclaration, *ast.FunctionDeclaration, or
// *ast.Param).
func (a *Analyzer) DeclSymbol(key interface{}) *symtab.Symbol {
	return a.declSymbols[key]
}

// GlobalScope returns the top-level scope (for inspection/debugging).
func (a *Analyzer) GlobalScope() *symtab.Scope {
	return a.globalScope
}
