// Package irgen lowers a checked AST into the IR core's instruction
// stream. It is the bridge between the front end (internal/ast,
// internal/semantic) and the middle end (internal/ir and friends): a
// single Visitor implementation that leans entirely on
// internal/ir.CodeBuilder for operand type-checking and on
// internal/ir.BuildFunction for turning the resulting linear stream
// into a CFG.
//
// Control-flow constructs get their labels up front, at the construct's
// entry, and thread them down to the sub-generation calls — there is no
// deferred "patch the branch later" bookkeeping beyond what AppendLabel
// already does for a still-open label. A trailing return is always
// appended after a function body is generated; if the body already
// ended in one, the extra return starts an unreachable block that
// BuildFunction happily partitions off and nothing ever calls.
package irgen

import (
	"github.com/hassandahiru/ccompiler/internal/ast"
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/semantic"
	"github.com/hassandahiru/ccompiler/internal/symtab"
	"github.com/hassandahiru/ccompiler/internal/types"
)

// Generator walks a checked AST and emits IR through ast.Visitor's
// double dispatch. One Generator lowers an entire translation unit;
// its per-function fields are reset at the start of every
// genFunction call.
type Generator struct {
	analyzer *semantic.Analyzer
	globals  map[*symtab.Symbol]*ir.Variable
	module   *ir.Module

	ctx        *ir.FunctionContext
	builder    *ir.CodeBuilder
	locals     map[*symtab.Symbol]*ir.Variable
	returnType irtype.Type
}

// New creates a Generator reading resolved names and types from
// analyzer, which must already have run Analyze successfully.
func New(analyzer *semantic.Analyzer) *Generator {
	return &Generator{analyzer: analyzer, globals: make(map[*symtab.Symbol]*ir.Variable)}
}

// Generate lowers every function definition in file into fresh IR,
// returning the accumulated module.
func (g *Generator) Generate(file *ast.File) (*ir.Module, error) {
	g.module = ir.NewModule(file.Filename)

	for _, decl := range file.Decls {
		if vd, ok := decl.(*ast.VariableDeclaration); ok {
			if err := g.genGlobal(vd); err != nil {
				return nil, err
			}
		}
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FunctionDeclaration)
		if !ok || fd.Body == nil {
			continue
		}
		fn, err := g.genFunction(fd)
		if err != nil {
			return nil, err
		}
		g.module.AddFunction(fn)
	}

	return g.module, nil
}

func (g *Generator) genGlobal(vd *ast.VariableDeclaration) error {
	symbol := g.analyzer.DeclSymbol(vd)
	if symbol == nil {
		return nil
	}
	irType, err := types.ToIRType(symbol.Type, vd.Pos())
	if err != nil {
		return err
	}
	v := ir.NewVariable(symbol.Name, irType)
	g.globals[symbol] = v
	g.module.Globals = append(g.module.Globals, v)
	return nil
}

func (g *Generator) genFunction(fd *ast.FunctionDeclaration) (*ir.Function, error) {
	symbol := g.analyzer.DeclSymbol(fd)
	if symbol == nil {
		return nil, diagnostics.New(diagnostics.InternalInvariant, fd.Pos(), "function %s has no resolved symbol", fd.Name)
	}

	// Reuse ToIRType's own Void-aware conversion by converting the
	// symbol's whole function type rather than just its return type —
	// the bare return type errors on Void, but the Function case
	// knows to let it through as nil.
	funcIR, err := types.ToIRType(symbol.Type, fd.Pos())
	if err != nil {
		return nil, err
	}
	ft := funcIR.(*irtype.Function)

	g.ctx = &ir.FunctionContext{}
	g.builder = ir.NewCodeBuilder(g.ctx)
	g.locals = make(map[*symtab.Symbol]*ir.Variable)
	g.returnType = ft.Return

	params := make([]*ir.Parameter, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = ir.NewParameter(p.Name, ft.Parameters[i])
		paramSymbol := g.analyzer.DeclSymbol(p)
		if paramSymbol == nil {
			continue
		}
		sizeBytes, err := types.SizeOf(paramSymbol.Type, p.Pos)
		if err != nil {
			return nil, err
		}
		alloca := g.builder.AppendAlloca(p.Name, sizeBytes, ft.Parameters[i])
		if _, err := g.builder.AppendStore(params[i], alloca.Dest, p.Pos); err != nil {
			return nil, err
		}
		g.locals[paramSymbol] = alloca.Dest
	}

	if err := fd.Body.Accept(g); err != nil {
		return nil, err
	}

	if g.returnType == nil {
		g.builder.AppendReturn(nil)
	} else {
		g.builder.AppendReturn(ir.NewConstant("0", g.returnType))
	}

	instrs := g.builder.Finish()
	return ir.BuildFunction(fd.Name, params, ft.Return, instrs, g.ctx, fd.Pos())
}

// toBool coerces an arithmetic value to Integer(1) by comparing it
// against its type's zero value; a value that is already Integer(1)
// (the result of a comparison operator) passes through unchanged.
func (g *Generator) toBool(v ir.Value, pos lexer.Position) (ir.Value, error) {
	if irtype.Equal(v.Type(), irtype.Bool1) {
		return v, nil
	}
	zero := ir.NewConstant("0", v.Type())
	bo, err := g.builder.AppendNotEqual(v, zero, pos)
	if err != nil {
		return nil, err
	}
	return bo.Dest, nil
}

// exprValue runs e through the visitor and type-asserts the result,
// the shape every expression-consuming helper below needs.
func (g *Generator) exprValue(e ast.Expr) (ir.Value, error) {
	result, err := e.Accept(g)
	if err != nil {
		return nil, err
	}
	v, _ := result.(ir.Value)
	if v == nil {
		return nil, diagnostics.New(diagnostics.InternalInvariant, e.Pos(), "irgen: expression produced no value")
	}
	return v, nil
}

// address resolves e's storage location. Only a bare identifier is
// addressable in this grammar — there is no index or dereference
// expression to chase through.
func (g *Generator) address(e ast.Expr) (ir.Value, error) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil, diagnostics.New(diagnostics.InternalInvariant, e.Pos(), "irgen: %T is not addressable", e)
	}
	symbol := g.analyzer.SymbolOf(id)
	if symbol == nil {
		return nil, diagnostics.New(diagnostics.InternalInvariant, id.Pos(), "identifier %s has no resolved symbol", id.Name)
	}
	if v, ok := g.locals[symbol]; ok {
		return v, nil
	}
	if v, ok := g.globals[symbol]; ok {
		return v, nil
	}
	return nil, diagnostics.New(diagnostics.InternalInvariant, id.Pos(), "identifier %s has no storage", id.Name)
}

// --- Expression visitors ---

func (g *Generator) VisitLiteral(expr *ast.Literal) (interface{}, error) {
	t := g.analyzer.TypeOf(expr)
	if t == nil {
		t = types.IntType
	}
	irType, err := types.ToIRType(t, expr.Pos())
	if err != nil {
		return nil, err
	}
	return ir.Value(ir.NewConstant(expr.Text, irType)), nil
}

func (g *Generator) VisitIdentifier(expr *ast.Identifier) (interface{}, error) {
	addr, err := g.address(expr)
	if err != nil {
		return nil, err
	}
	load, err := g.builder.AppendLoad(addr, expr.Pos())
	if err != nil {
		return nil, err
	}
	return ir.Value(load.Dest), nil
}

// VisitGetAddress returns the operand's Alloca'd storage directly: the
// Variable a local's Alloca produces is already pointer-typed, so `&x`
// needs no separate address-of instruction.
func (g *Generator) VisitGetAddress(expr *ast.GetAddress) (interface{}, error) {
	v, err := g.address(expr.Operand)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (g *Generator) VisitBinaryOp(expr *ast.BinaryOp) (interface{}, error) {
	left, err := g.exprValue(expr.LHS)
	if err != nil {
		return nil, err
	}
	right, err := g.exprValue(expr.RHS)
	if err != nil {
		return nil, err
	}

	pos := expr.Pos()
	switch expr.Op {
	case lexer.TokenPlus:
		bo, err := g.builder.AppendAdd(left, right)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenMinus:
		bo, err := g.builder.AppendSub(left, right)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenStar:
		bo, err := g.builder.AppendMultiply(left, right)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenSlash:
		bo, err := g.builder.AppendDivide(left, right)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenEqual:
		bo := g.builder.AppendEqual(left, right)
		return ir.Value(bo.Dest), nil
	case lexer.TokenNotEqual:
		bo, err := g.builder.AppendNotEqual(left, right, pos)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenLess:
		bo, err := g.builder.AppendLessThan(left, right, pos)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	case lexer.TokenLessEqual:
		bo, err := g.builder.AppendLessEqual(left, right, pos)
		if err != nil {
			return nil, err
		}
		return ir.Value(bo.Dest), nil
	default:
		return nil, diagnostics.New(diagnostics.InternalInvariant, pos, "irgen: unhandled binary operator %s", expr.Op)
	}
}

func (g *Generator) VisitUnaryOp(expr *ast.UnaryOp) (interface{}, error) {
	operand, err := g.exprValue(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case lexer.TokenMinus:
		u := g.builder.AppendNeg(operand)
		return ir.Value(u.Dest), nil
	default:
		return nil, diagnostics.New(diagnostics.InternalInvariant, expr.Pos(), "irgen: unhandled unary operator %s", expr.Op)
	}
}

// VisitAssign stores Value into Target's storage and yields the stored
// value, matching C's assignment-expression semantics (`y = x = 1`).
func (g *Generator) VisitAssign(expr *ast.Assign) (interface{}, error) {
	addr, err := g.address(expr.Target)
	if err != nil {
		return nil, err
	}
	value, err := g.exprValue(expr.Value)
	if err != nil {
		return nil, err
	}
	if _, err := g.builder.AppendStore(value, addr, expr.Value.Pos()); err != nil {
		return nil, err
	}
	return value, nil
}

// --- Statement visitors ---

func (g *Generator) VisitEmpty(*ast.Empty) error { return nil }

func (g *Generator) VisitExprStatement(s *ast.ExprStatement) error {
	_, err := s.Expr.Accept(g)
	return err
}

func (g *Generator) VisitCompoundStatement(s *ast.CompoundStatement) error {
	for _, stmt := range s.Stmts {
		if err := stmt.Accept(g); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) VisitDeclarationStatement(s *ast.DeclarationStatement) error {
	d := s.Decl
	symbol := g.analyzer.DeclSymbol(d)
	if symbol == nil {
		return diagnostics.New(diagnostics.InternalInvariant, d.Pos(), "declaration of %s has no resolved symbol", d.Name)
	}
	irType, err := types.ToIRType(symbol.Type, d.Pos())
	if err != nil {
		return err
	}
	sizeBytes, err := types.SizeOf(symbol.Type, d.Pos())
	if err != nil {
		return err
	}
	alloca := g.builder.AppendAlloca(d.Name, sizeBytes, irType)
	g.locals[symbol] = alloca.Dest

	if d.Initializer != nil {
		value, err := g.exprValue(d.Initializer)
		if err != nil {
			return err
		}
		if _, err := g.builder.AppendStore(value, alloca.Dest, d.Initializer.Pos()); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) VisitIfElse(s *ast.IfElse) error {
	cond, err := g.exprValue(s.Cond)
	if err != nil {
		return err
	}
	condBool, err := g.toBool(cond, s.Cond.Pos())
	if err != nil {
		return err
	}

	thenLabel := g.ctx.NewLabel()
	elseLabel := g.ctx.NewLabel()
	endLabel := g.ctx.NewLabel()

	if _, err := g.builder.AppendConditionBranch(condBool, thenLabel, elseLabel, s.Cond.Pos()); err != nil {
		return err
	}

	g.builder.AppendLabel(thenLabel)
	if err := s.Then.Accept(g); err != nil {
		return err
	}
	g.builder.AppendGoto(endLabel)

	g.builder.AppendLabel(elseLabel)
	if s.Else != nil {
		if err := s.Else.Accept(g); err != nil {
			return err
		}
	}
	g.builder.AppendGoto(endLabel)

	g.builder.AppendLabel(endLabel)
	return nil
}

func (g *Generator) VisitWhileLoop(s *ast.WhileLoop) error {
	condLabel := g.ctx.NewLabel()
	bodyLabel := g.ctx.NewLabel()
	endLabel := g.ctx.NewLabel()

	g.builder.AppendGoto(condLabel)
	g.builder.AppendLabel(condLabel)
	cond, err := g.exprValue(s.Cond)
	if err != nil {
		return err
	}
	condBool, err := g.toBool(cond, s.Cond.Pos())
	if err != nil {
		return err
	}
	if _, err := g.builder.AppendConditionBranch(condBool, bodyLabel, endLabel, s.Cond.Pos()); err != nil {
		return err
	}

	g.builder.AppendLabel(bodyLabel)
	if err := s.Body.Accept(g); err != nil {
		return err
	}
	g.builder.AppendGoto(condLabel)

	g.builder.AppendLabel(endLabel)
	return nil
}

func (g *Generator) VisitDoWhile(s *ast.DoWhile) error {
	bodyLabel := g.ctx.NewLabel()
	condLabel := g.ctx.NewLabel()
	endLabel := g.ctx.NewLabel()

	g.builder.AppendGoto(bodyLabel)
	g.builder.AppendLabel(bodyLabel)
	if err := s.Body.Accept(g); err != nil {
		return err
	}
	g.builder.AppendGoto(condLabel)

	g.builder.AppendLabel(condLabel)
	cond, err := g.exprValue(s.Cond)
	if err != nil {
		return err
	}
	condBool, err := g.toBool(cond, s.Cond.Pos())
	if err != nil {
		return err
	}
	if _, err := g.builder.AppendConditionBranch(condBool, bodyLabel, endLabel, s.Cond.Pos()); err != nil {
		return err
	}

	g.builder.AppendLabel(endLabel)
	return nil
}

func (g *Generator) VisitForLoop(s *ast.ForLoop) error {
	if s.Init != nil {
		if err := s.Init.Accept(g); err != nil {
			return err
		}
	}

	condLabel := g.ctx.NewLabel()
	bodyLabel := g.ctx.NewLabel()
	endLabel := g.ctx.NewLabel()

	g.builder.AppendGoto(condLabel)
	g.builder.AppendLabel(condLabel)
	if s.Cond != nil {
		cond, err := g.exprValue(s.Cond)
		if err != nil {
			return err
		}
		condBool, err := g.toBool(cond, s.Cond.Pos())
		if err != nil {
			return err
		}
		if _, err := g.builder.AppendConditionBranch(condBool, bodyLabel, endLabel, s.Cond.Pos()); err != nil {
			return err
		}
	} else {
		g.builder.AppendGoto(bodyLabel)
	}

	g.builder.AppendLabel(bodyLabel)
	if err := s.Body.Accept(g); err != nil {
		return err
	}
	if s.Post != nil {
		if _, err := s.Post.Accept(g); err != nil {
			return err
		}
	}
	g.builder.AppendGoto(condLabel)

	g.builder.AppendLabel(endLabel)
	return nil
}

func (g *Generator) VisitReturn(s *ast.Return) error {
	if s.Value == nil {
		g.builder.AppendReturn(nil)
		return nil
	}
	value, err := g.exprValue(s.Value)
	if err != nil {
		return err
	}
	g.builder.AppendReturn(value)
	return nil
}
