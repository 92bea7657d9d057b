// Package parser implements a recursive-descent parser, with
// precedence climbing for expressions, over the C-subset grammar
// (spec §11): declarations, control flow, and the small expression
// grammar the IR core understands.
//
// ERROR HANDLING STRATEGY: report a diagnostics error but keep parsing
// (accumulate every syntax error found in one pass), using panic/
// recover for recovery at statement and top-level declaration
// boundaries, matching the teacher's recursive-descent parser.
package parser

import (
	"strconv"

	"github.com/hassandahiru/ccompiler/internal/ast"
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// Parser converts a token stream into an *ast.File.
type Parser struct {
	lexer     *lexer.Lexer
	current   lexer.Token
	previous  lexer.Token
	errors    []error
	panicMode bool
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.advance()
	return p
}

// parseError is the panic payload used for recursive-descent recovery;
// fail also appends the error to p.errors unless the parser is already
// in panic mode from an earlier error.
type parseError struct{ err error }

// ParseFile parses a whole translation unit, accumulating one error per
// malformed top-level declaration and resynchronizing after each.
func (p *Parser) ParseFile(filename string) (*ast.File, []error) {
	file := &ast.File{Filename: filename}
	for !p.isAtEnd() {
		decl := p.parseTopLevelDecl()
		if decl != nil {
			file.Decls = append(file.Decls, decl)
		}
	}
	return file, p.errors
}

func (p *Parser) parseTopLevelDecl() (decl ast.Decl) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronizeTopLevel()
				decl = nil
				return
			}
			panic(r)
		}
	}()

	base := p.parseTypeSpec()
	name, wrap := p.parseDeclarator()
	if p.check(lexer.TokenLeftParen) {
		return p.finishFunctionDeclaration(base, name)
	}
	declType := wrap(base)
	decl = p.finishVariableDeclaration(name, declType)
	return decl
}

// finishFunctionDeclaration parses `( params ) ( knr-decls )? ( { body } | ; )`
// having already consumed the return type and function name.
func (p *Parser) finishFunctionDeclaration(returnType *types.Type, name string) *ast.FunctionDeclaration {
	start := p.previous.Position
	p.expect(lexer.TokenLeftParen, "expected '(' after function name")
	params, knr := p.parseParamList()
	p.expect(lexer.TokenRightParen, "expected ')' after parameter list")

	var knrDecls []*ast.KnrDecl
	if knr {
		knrDecls = p.parseKnrDeclList()
	}

	decl := &ast.FunctionDeclaration{
		BaseNode:   ast.BaseNode{StartPos: start},
		Name:       name,
		ReturnType: returnType,
		Params:     params,
		KnrDecls:   knrDecls,
	}
	if p.match(lexer.TokenSemicolon) {
		decl.EndPos = p.previous.Position
		return decl
	}
	decl.Body = p.parseCompoundStatement()
	decl.EndPos = decl.Body.EndPos
	return decl
}

func (p *Parser) finishVariableDeclaration(name string, declType *types.Type) *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Name: name, Declarator: declType}
	if p.match(lexer.TokenAssign) {
		decl.Initializer = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "expected ';' after variable declaration")
	decl.EndPos = p.previous.Position
	return decl
}

// parseParamList parses a parenthesized parameter list, already having
// consumed '('. It returns (params, isKnrStyle): isKnrStyle is true
// when the list is a bare identifier list, meaning a trailing
// declaration list follows the ')' before the function body.
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	if p.check(lexer.TokenRightParen) {
		return nil, false
	}
	if p.check(lexer.TokenVoid) && p.peekIsOnly(lexer.TokenRightParen) {
		p.advance()
		return nil, false
	}
	if p.check(lexer.TokenIdentifier) {
		var params []*ast.Param
		for {
			pos := p.current.Position
			name := p.expectIdentifier()
			params = append(params, &ast.Param{Name: name, Pos: pos})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		return params, true
	}
	var params []*ast.Param
	for {
		pos := p.current.Position
		base := p.parseTypeSpec()
		name, wrap := p.parseDeclarator()
		params = append(params, &ast.Param{Name: name, Type: wrap(base), Pos: pos})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	return params, false
}

// peekIsOnly reports whether the current token is tt and the lexer's
// very next token closes the parameter list; used to disambiguate a
// lone `void` parameter list from `void` introducing a real parameter
// declared with a pointer/array declarator (e.g. `void *p`).
func (p *Parser) peekIsOnly(tt lexer.TokenType) bool {
	save := *p.lexer
	savedCurrent, savedPrevious := p.current, p.previous
	p.advance()
	result := p.check(tt)
	*p.lexer = save
	p.current, p.previous = savedCurrent, savedPrevious
	return result
}

func (p *Parser) parseKnrDeclList() []*ast.KnrDecl {
	var decls []*ast.KnrDecl
	for !p.check(lexer.TokenLeftBrace) && !p.isAtEnd() {
		base := p.parseTypeSpec()
		for {
			pos := p.current.Position
			name, wrap := p.parseDeclarator()
			decls = append(decls, &ast.KnrDecl{Name: name, Type: wrap(base), Pos: pos})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenSemicolon, "expected ';' after K&R parameter declaration")
	}
	return decls
}

func (p *Parser) parseTypeSpec() *types.Type {
	switch {
	case p.match(lexer.TokenInt):
		return types.IntType
	case p.match(lexer.TokenVoid):
		return types.VoidType
	case p.match(lexer.TokenKwChar):
		return types.CharType
	default:
		p.fail("expected a type ('int', 'void', or 'char')")
		return types.IntType
	}
}

// declBuilder composes the type of a declarator given the base type it
// modifies; parseDeclarator and parseDeclaratorSuffixes chain these
// closures so that array and function suffixes bind tighter than a
// leading '*'.
type declBuilder func(base *types.Type) *types.Type

func identityBuilder(base *types.Type) *types.Type { return base }

// parseDeclarator implements the classic recursive C declarator
// grammar: `pointer? direct-declarator`, where a parenthesized
// direct-declarator lets suffixes bind to an inner pointer instead of
// the outer one (so `*a[4]` and `(*a)[4]` normalize differently).
func (p *Parser) parseDeclarator() (string, declBuilder) {
	if p.match(lexer.TokenStar) {
		name, inner := p.parseDeclarator()
		return name, func(base *types.Type) *types.Type {
			return inner(types.NewPointer(base))
		}
	}
	return p.parseDirectDeclarator()
}

func (p *Parser) parseDirectDeclarator() (string, declBuilder) {
	if p.match(lexer.TokenLeftParen) {
		name, inner := p.parseDeclarator()
		p.expect(lexer.TokenRightParen, "expected ')' to close parenthesized declarator")
		suffix := p.parseDeclaratorSuffixes()
		return name, func(base *types.Type) *types.Type {
			return inner(suffix(base))
		}
	}
	name := p.expectIdentifier()
	return name, p.parseDeclaratorSuffixes()
}

func (p *Parser) parseDeclaratorSuffixes() declBuilder {
	build := declBuilder(identityBuilder)
	for {
		switch {
		case p.match(lexer.TokenLeftBracket):
			count := int64(-1)
			if p.check(lexer.TokenNumber) {
				n, err := strconv.ParseInt(p.current.Lexeme, 10, 64)
				if err == nil {
					count = n
				}
				p.advance()
			}
			p.expect(lexer.TokenRightBracket, "expected ']' to close array declarator")
			prev := build
			build = func(base *types.Type) *types.Type {
				return types.NewArray(prev(base), count)
			}
		case p.match(lexer.TokenLeftParen):
			var params []*types.Type
			if !p.check(lexer.TokenRightParen) {
				for {
					base := p.parseTypeSpec()
					_, wrap := p.parseDeclarator()
					params = append(params, wrap(base))
					if !p.match(lexer.TokenComma) {
						break
					}
				}
			}
			p.expect(lexer.TokenRightParen, "expected ')' to close function declarator")
			prev := build
			build = func(base *types.Type) *types.Type {
				return types.NewFunction(prev(base), params)
			}
		default:
			return build
		}
	}
}

// --- Statements ---

func (p *Parser) parseStatement() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronizeStatement()
				stmt = &ast.Empty{BaseNode: ast.BaseNode{StartPos: p.current.Position, EndPos: p.current.Position}}
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseCompoundStatement()
	case p.match(lexer.TokenIf):
		return p.parseIfElse()
	case p.match(lexer.TokenWhile):
		return p.parseWhileLoop()
	case p.match(lexer.TokenDo):
		return p.parseDoWhile()
	case p.match(lexer.TokenFor):
		return p.parseForLoop()
	case p.match(lexer.TokenReturn):
		return p.parseReturn()
	case p.match(lexer.TokenSemicolon):
		return &ast.Empty{BaseNode: ast.BaseNode{StartPos: p.previous.Position, EndPos: p.previous.Position}}
	case p.isTypeSpecStart():
		return p.parseDeclarationStatement()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) isTypeSpecStart() bool {
	switch p.current.Type {
	case lexer.TokenInt, lexer.TokenVoid, lexer.TokenKwChar:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCompoundStatement() *ast.CompoundStatement {
	start := p.current.Position
	p.expect(lexer.TokenLeftBrace, "expected '{'")
	block := &ast.CompoundStatement{BaseNode: ast.BaseNode{StartPos: start}}
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		block.Stmts = append(block.Stmts, p.parseStatement())
	}
	p.expect(lexer.TokenRightBrace, "expected '}' to close block")
	block.EndPos = p.previous.Position
	return block
}

func (p *Parser) parseDeclarationStatement() *ast.DeclarationStatement {
	start := p.current.Position
	base := p.parseTypeSpec()
	name, wrap := p.parseDeclarator()
	decl := p.finishVariableDeclaration(name, wrap(base))
	return &ast.DeclarationStatement{BaseNode: ast.BaseNode{StartPos: start, EndPos: decl.EndPos}, Decl: decl}
}

func (p *Parser) parseIfElse() *ast.IfElse {
	start := p.previous.Position
	p.expect(lexer.TokenLeftParen, "expected '(' after 'if'")
	cond := p.parseExpression()
	p.expect(lexer.TokenRightParen, "expected ')' after if condition")
	then := p.parseStatement()
	node := &ast.IfElse{BaseNode: ast.BaseNode{StartPos: start}, Cond: cond, Then: then}
	if p.match(lexer.TokenElse) {
		node.Else = p.parseStatement()
		node.EndPos = node.Else.End()
	} else {
		node.EndPos = then.End()
	}
	return node
}

func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	start := p.previous.Position
	p.expect(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.expect(lexer.TokenRightParen, "expected ')' after while condition")
	body := p.parseStatement()
	return &ast.WhileLoop{BaseNode: ast.BaseNode{StartPos: start, EndPos: body.End()}, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() *ast.DoWhile {
	start := p.previous.Position
	body := p.parseStatement()
	p.expect(lexer.TokenWhile, "expected 'while' after 'do' body")
	p.expect(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.expect(lexer.TokenRightParen, "expected ')' after do-while condition")
	p.expect(lexer.TokenSemicolon, "expected ';' after do-while")
	return &ast.DoWhile{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.previous.Position}, Body: body, Cond: cond}
}

func (p *Parser) parseForLoop() *ast.ForLoop {
	start := p.previous.Position
	p.expect(lexer.TokenLeftParen, "expected '(' after 'for'")

	node := &ast.ForLoop{BaseNode: ast.BaseNode{StartPos: start}}
	if !p.check(lexer.TokenSemicolon) {
		if p.isTypeSpecStart() {
			node.Init = p.parseDeclarationStatement()
		} else {
			node.Init = p.parseExprStatement()
		}
	} else {
		p.advance()
	}
	if !p.check(lexer.TokenSemicolon) {
		node.Cond = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "expected ';' after for-loop condition")
	if !p.check(lexer.TokenRightParen) {
		node.Post = p.parseExpression()
	}
	p.expect(lexer.TokenRightParen, "expected ')' after for-loop clauses")
	node.Body = p.parseStatement()
	node.EndPos = node.Body.End()
	return node
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.previous.Position
	node := &ast.Return{BaseNode: ast.BaseNode{StartPos: start}}
	if !p.check(lexer.TokenSemicolon) {
		node.Value = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "expected ';' after return")
	node.EndPos = p.previous.Position
	return node
}

func (p *Parser) parseExprStatement() *ast.ExprStatement {
	start := p.current.Position
	expr := p.parseExpression()
	p.expect(lexer.TokenSemicolon, "expected ';' after expression")
	return &ast.ExprStatement{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.previous.Position}, Expr: expr}
}

// --- Expressions (precedence climbing) ---

func (p *Parser) parseExpression() ast.Expr {
	return p.parsePrecedence(PrecAssignment)
}

func (p *Parser) parsePrecedence(min Precedence) ast.Expr {
	left := p.parseUnary()
	for {
		prec := getPrecedence(p.current.Type)
		if prec < min || prec == PrecNone {
			break
		}
		op := p.current
		p.advance()
		nextMin := prec + 1
		if isRightAssociative(op.Type) {
			nextMin = prec
		}
		right := p.parsePrecedence(nextMin)
		if op.Type == lexer.TokenAssign {
			left = &ast.Assign{BaseNode: ast.BaseNode{StartPos: left.Pos(), EndPos: right.End()}, Target: left, Value: right}
		} else {
			left = &ast.BinaryOp{BaseNode: ast.BaseNode{StartPos: left.Pos(), EndPos: right.End()}, Op: op.Type, LHS: left, RHS: right}
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch {
	case p.check(lexer.TokenMinus):
		op := p.current
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryOp{BaseNode: ast.BaseNode{StartPos: op.Position, EndPos: operand.End()}, Op: op.Type, Operand: operand}
	case p.check(lexer.TokenBitAnd):
		op := p.current
		p.advance()
		operand := p.parseUnary()
		return &ast.GetAddress{BaseNode: ast.BaseNode{StartPos: op.Position, EndPos: operand.End()}, Operand: operand}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.match(lexer.TokenNumber):
		tok := p.previous
		return &ast.Literal{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Position}, Kind: ast.LiteralInt, Text: tok.Lexeme}
	case p.match(lexer.TokenCharLit):
		tok := p.previous
		return &ast.Literal{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Position}, Kind: ast.LiteralChar, Text: tok.Lexeme}
	case p.match(lexer.TokenIdentifier):
		tok := p.previous
		return &ast.Identifier{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Position}, Name: tok.Lexeme}
	case p.match(lexer.TokenLeftParen):
		expr := p.parseExpression()
		p.expect(lexer.TokenRightParen, "expected ')' to close grouped expression")
		return expr
	default:
		p.fail("expected an expression")
		return &ast.Literal{BaseNode: ast.BaseNode{StartPos: p.current.Position, EndPos: p.current.Position}, Kind: ast.LiteralInt, Text: "0"}
	}
}

// --- Token-stream helpers ---

func (p *Parser) advance() {
	p.previous = p.current
	token, err := p.lexer.NextToken()
	if err != nil {
		p.recordError(err.Error())
		p.current = lexer.Token{Type: lexer.TokenInvalid}
		return
	}
	p.current = token
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.current.Type == tt }

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType, message string) {
	if p.check(tt) {
		p.advance()
		return
	}
	p.fail(message)
}

func (p *Parser) expectIdentifier() string {
	if !p.check(lexer.TokenIdentifier) {
		p.fail("expected an identifier")
		return ""
	}
	name := p.current.Lexeme
	p.advance()
	return name
}

func (p *Parser) isAtEnd() bool { return p.current.Type == lexer.TokenEOF }

func (p *Parser) recordError(message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errors = append(p.errors, diagnostics.New(diagnostics.InvalidControlFlow, p.current.Position, "%s", message))
}

// fail records the error (if not already in panic mode) and unwinds to
// the nearest recovery point via panic/recover.
func (p *Parser) fail(message string) {
	p.recordError(message)
	panic(parseError{err: diagnostics.New(diagnostics.InvalidControlFlow, p.current.Position, "%s", message)})
}

func (p *Parser) synchronizeTopLevel() {
	p.panicMode = false
	for !p.isAtEnd() {
		if p.previous.Type == lexer.TokenSemicolon || p.previous.Type == lexer.TokenRightBrace {
			return
		}
		switch p.current.Type {
		case lexer.TokenInt, lexer.TokenVoid, lexer.TokenKwChar:
			return
		}
		p.advance()
	}
}

func (p *Parser) synchronizeStatement() {
	p.panicMode = false
	for !p.isAtEnd() {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch p.current.Type {
		case lexer.TokenIf, lexer.TokenWhile, lexer.TokenDo, lexer.TokenFor,
			lexer.TokenReturn, lexer.TokenInt, lexer.TokenVoid, lexer.TokenKwChar,
			lexer.TokenRightBrace:
			return
		}
		p.advance()
	}
}
