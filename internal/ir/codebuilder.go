package ir

import (
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// CodeBuilder emits a single-threaded, append-only linear stream of
// instructions against a FunctionContext, enforcing operand-type
// validity at emission time and threading label patching the way
// code_builder.cpp does (spec §4.3).
type CodeBuilder struct {
	ctx       *FunctionContext
	allocas   []Instruction
	codes     []Instruction
	appending *Label // pending label awaiting the next emitted instruction
}

func NewCodeBuilder(ctx *FunctionContext) *CodeBuilder {
	return &CodeBuilder{ctx: ctx}
}

func (b *CodeBuilder) appendNew(instr Instruction) {
	if b.appending != nil {
		b.appending.Dest = instr
		instr.(interface{ attachLabel(*Label) }).attachLabel(b.appending)
		b.appending = nil
	}
	b.codes = append(b.codes, instr)
}

// attachLabel lets appendNew record which label (if any) the merge
// invariant will later move onto this instruction's containing block.
func (b *instrBase) attachLabel(l *Label) { b.label = l }

// pendingLabel returns the label pending attachment to this instruction, if
// any (consumed by BuildFunction during CFG construction).
func (b *instrBase) pendingLabel() *Label { return b.label }

func (b *CodeBuilder) AppendMultiply(left, right Value) (*BinaryOp, error) {
	bo := newBinaryOp(KindMul, left, right, left.Type())
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendDivide(left, right Value) (*BinaryOp, error) {
	bo := newBinaryOp(KindDiv, left, right, left.Type())
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendAdd(left, right Value) (*BinaryOp, error) {
	bo := newBinaryOp(KindAdd, left, right, left.Type())
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendSub(left, right Value) (*BinaryOp, error) {
	bo := newBinaryOp(KindSub, left, right, left.Type())
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendNeg(operand Value) *UnaryOp {
	u := newUnaryOp(KindNeg, operand, operand.Type())
	b.appendNew(u)
	return u
}

// AppendEqual intentionally does not type-check its operands, matching
// code_builder.cpp's append_equal (unlike not_equal/less_than/
// less_equal, which do) — a deliberate fidelity to the source, noted
// in DESIGN.md.
func (b *CodeBuilder) AppendEqual(left, right Value) *BinaryOp {
	bo := newBinaryOp(KindEqual, left, right, irtype.Bool1)
	b.appendNew(bo)
	return bo
}

func (b *CodeBuilder) AppendNotEqual(left, right Value, pos lexer.Position) (*BinaryOp, error) {
	if !left.Type().Equals(right.Type()) {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "not-equal operands must be of same type")
	}
	bo := newBinaryOp(KindNotEqual, left, right, irtype.Bool1)
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendLessThan(left, right Value, pos lexer.Position) (*BinaryOp, error) {
	if !left.Type().Equals(right.Type()) {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "less-than operands must be of same type")
	}
	bo := newBinaryOp(KindLessThan, left, right, irtype.Bool1)
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendLessEqual(left, right Value, pos lexer.Position) (*BinaryOp, error) {
	if !left.Type().Equals(right.Type()) {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "less-equal operands must be of same type")
	}
	bo := newBinaryOp(KindLessEqual, left, right, irtype.Bool1)
	b.appendNew(bo)
	return bo, nil
}

func (b *CodeBuilder) AppendConditionBranch(cond Value, trueLabel, falseLabel *Label, pos lexer.Position) (*ConditionBranch, error) {
	if !cond.Type().Equals(irtype.Bool1) {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "condition branch requires a bool (Integer(1)) condition, got %s", cond.Type())
	}
	c := NewConditionBranch(cond, trueLabel, falseLabel)
	b.appendNew(c)
	return c, nil
}

func (b *CodeBuilder) AppendGoto(target *Label) *Goto {
	g := NewGoto(target)
	b.appendNew(g)
	return g
}

// AppendLabel attaches label to whatever instruction is emitted next.
// If a label is already pending, the two are reconciled by emitting a
// goto from the first to the second, matching append_label's rule.
func (b *CodeBuilder) AppendLabel(label *Label) {
	if b.appending != nil {
		b.AppendGoto(label)
	}
	b.appending = label
}

func (b *CodeBuilder) AppendNope() *Nope {
	n := NewNope()
	b.appendNew(n)
	return n
}

func (b *CodeBuilder) AppendFunctionDefinition(fn *FunctionValue) *FunctionDefinition {
	f := NewFunctionDefinition(fn)
	b.appendNew(f)
	return f
}

// AppendAlloca only ever appends to the separate alloca list; it never
// receives a pending label (matches append_alloca bypassing
// append_new_code entirely).
func (b *CodeBuilder) AppendAlloca(name string, sizeBytes uint64, allocated irtype.Type) *Alloca {
	a := NewAlloca(name, sizeBytes, allocated)
	b.allocas = append(b.allocas, a)
	return a
}

func (b *CodeBuilder) AppendLoad(address Value, pos lexer.Position) (*Load, error) {
	ptr, ok := address.Type().(*irtype.Pointer)
	if !ok {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "load requires a pointer operand, got %s", address.Type())
	}
	_ = ptr
	l := NewLoad(address)
	b.appendNew(l)
	return l, nil
}

func (b *CodeBuilder) AppendStore(value, address Value, pos lexer.Position) (*Store, error) {
	ptr, ok := address.Type().(*irtype.Pointer)
	if !ok || !ptr.Aim.Equals(value.Type()) {
		return nil, diagnostics.New(diagnostics.TypeMismatch, pos, "store requires dest type Pointer(%s), got %s", value.Type(), address.Type())
	}
	s := NewStore(value, address)
	b.appendNew(s)
	return s, nil
}

func (b *CodeBuilder) AppendReturn(value Value) *Return {
	r := NewReturn(value)
	b.appendNew(r)
	return r
}

// Finish closes the builder: a still-pending label forces a trailing
// Nope, then the alloca prefix is prepended to the code stream.
func (b *CodeBuilder) Finish() []Instruction {
	if b.appending != nil {
		b.AppendNope()
	}
	result := make([]Instruction, 0, len(b.allocas)+len(b.codes))
	result = append(result, b.allocas...)
	result = append(result, b.codes...)
	return result
}
