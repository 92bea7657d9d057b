package ir

import (
	"fmt"
	"strings"

	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
)

// InstrKind tags the instruction sum type.
type InstrKind int

const (
	KindMul InstrKind = iota
	KindDiv
	KindAdd
	KindSub
	KindEqual
	KindNotEqual
	KindLessThan
	KindLessEqual
	KindNeg
	KindGoto
	KindConditionBranch
	KindAlloca
	KindLoad
	KindStore
	KindPhi
	KindReturn
	KindNope
	KindFunctionDefinition
	KindAssign
)

func (k InstrKind) String() string {
	names := [...]string{
		"mul", "div", "add", "sub", "eq", "neq", "lt", "le", "neg",
		"goto", "condbr", "alloca", "load", "store", "phi", "return",
		"nope", "funcdef", "assign",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Instruction is the common interface of every three-address-code node.
// Every variant is simultaneously a node of the doubly linked
// instruction list of its containing BasicGroup.
type Instruction interface {
	fmt.Stringer
	Kind() InstrKind
	Block() *BasicGroup
	Prev() Instruction
	Next() Instruction
	// Operands returns every Use this instruction owns, in slot order.
	Operands() []*Use
	// Result returns the Value this instruction defines, or nil.
	Result() Value

	setBlock(*BasicGroup)
	setPrev(Instruction)
	setNext(Instruction)
}

type instrBase struct {
	kind  InstrKind
	block *BasicGroup
	prev  Instruction
	next  Instruction
	label *Label
}

func (b *instrBase) Kind() InstrKind      { return b.kind }
func (b *instrBase) Block() *BasicGroup   { return b.block }
func (b *instrBase) Prev() Instruction    { return b.prev }
func (b *instrBase) Next() Instruction    { return b.next }
func (b *instrBase) setBlock(g *BasicGroup) { b.block = g }
func (b *instrBase) setPrev(i Instruction)  { b.prev = i }
func (b *instrBase) setNext(i Instruction)  { b.next = i }

// BinaryOp is `Dest = LHS op RHS`.
type BinaryOp struct {
	instrBase
	LHS  *Use
	RHS  *Use
	Dest *Temporary
}

func newBinaryOp(kind InstrKind, lhs, rhs Value, resultType irtype.Type) *BinaryOp {
	b := &BinaryOp{instrBase: instrBase{kind: kind}, Dest: NewTemporary(resultType)}
	b.LHS = NewUse(b, 0, lhs)
	b.RHS = NewUse(b, 1, rhs)
	return b
}

func (b *BinaryOp) SetLHS(v Value) { setOperand(b.LHS, v) }
func (b *BinaryOp) SetRHS(v Value) { setOperand(b.RHS, v) }
func (b *BinaryOp) Operands() []*Use { return []*Use{b.LHS, b.RHS} }
func (b *BinaryOp) Result() Value    { return b.Dest }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("%s = %s %s %s", b.Dest, b.LHS.Value, binOpSymbol(b.kind), b.RHS.Value)
}

func binOpSymbol(k InstrKind) string {
	switch k {
	case KindMul:
		return "*"
	case KindDiv:
		return "/"
	case KindAdd:
		return "+"
	case KindSub:
		return "-"
	case KindEqual:
		return "=="
	case KindNotEqual:
		return "!="
	case KindLessThan:
		return "<"
	case KindLessEqual:
		return "<="
	default:
		return "?"
	}
}

// UnaryOp is `Dest = -Operand`.
type UnaryOp struct {
	instrBase
	Operand *Use
	Dest    *Temporary
}

func newUnaryOp(kind InstrKind, operand Value, resultType irtype.Type) *UnaryOp {
	u := &UnaryOp{instrBase: instrBase{kind: kind}, Dest: NewTemporary(resultType)}
	u.Operand = NewUse(u, 0, operand)
	return u
}

func (u *UnaryOp) SetOperand(v Value)  { setOperand(u.Operand, v) }
func (u *UnaryOp) Operands() []*Use    { return []*Use{u.Operand} }
func (u *UnaryOp) Result() Value       { return u.Dest }
func (u *UnaryOp) String() string {
	return fmt.Sprintf("%s = -%s", u.Dest, u.Operand.Value)
}

// Goto is an unconditional jump.
type Goto struct {
	instrBase
	Target *Use // references a *Label
}

func NewGoto(target *Label) *Goto {
	g := &Goto{instrBase: instrBase{kind: KindGoto}}
	g.Target = NewUse(g, 0, target)
	return g
}

func (g *Goto) SetTarget(l *Label) { setOperand(g.Target, l) }
func (g *Goto) Operands() []*Use   { return []*Use{g.Target} }
func (g *Goto) Result() Value      { return nil }
func (g *Goto) String() string     { return fmt.Sprintf("goto %s;", g.Target.Value) }

// ConditionBranch branches to True when Condition (Integer(1)) is
// non-zero, otherwise to False.
type ConditionBranch struct {
	instrBase
	Condition *Use
	True      *Use // *Label
	False     *Use // *Label
}

func NewConditionBranch(cond Value, trueLabel, falseLabel *Label) *ConditionBranch {
	c := &ConditionBranch{instrBase: instrBase{kind: KindConditionBranch}}
	c.Condition = NewUse(c, 0, cond)
	c.True = NewUse(c, 1, trueLabel)
	c.False = NewUse(c, 2, falseLabel)
	return c
}

func (c *ConditionBranch) SetCondition(v Value) { setOperand(c.Condition, v) }
func (c *ConditionBranch) Operands() []*Use     { return []*Use{c.Condition, c.True, c.False} }
func (c *ConditionBranch) Result() Value        { return nil }
func (c *ConditionBranch) String() string {
	return fmt.Sprintf("if %s goto %s else %s;", c.Condition.Value, c.True.Value, c.False.Value)
}

// Alloca reserves SizeBytes of stack storage and produces a pointer
// Variable of type Pointer(AllocatedType).
type Alloca struct {
	instrBase
	SizeBytes uint64
	Dest      *Variable
}

func NewAlloca(name string, sizeBytes uint64, allocated irtype.Type) *Alloca {
	return &Alloca{
		instrBase: instrBase{kind: KindAlloca},
		SizeBytes: sizeBytes,
		Dest:      NewVariable(name, allocated),
	}
}

func (a *Alloca) Operands() []*Use { return nil }
func (a *Alloca) Result() Value    { return a.Dest }
func (a *Alloca) String() string {
	return fmt.Sprintf("%s = alloca size %d;", a.Dest, a.SizeBytes)
}

// Load reads through a pointer-typed address value.
type Load struct {
	instrBase
	Address *Use
	Dest    *Temporary
}

func NewLoad(address Value) *Load {
	l := &Load{instrBase: instrBase{kind: KindLoad}, Dest: NewTemporary(irtype.GetAimType(address.Type()))}
	l.Address = NewUse(l, 0, address)
	return l
}

func (l *Load) SetAddress(v Value) { setOperand(l.Address, v) }
func (l *Load) Operands() []*Use   { return []*Use{l.Address} }
func (l *Load) Result() Value      { return l.Dest }
func (l *Load) String() string     { return fmt.Sprintf("%s = load %s;", l.Dest, l.Address.Value) }

// Store writes Value through a pointer-typed Address.
type Store struct {
	instrBase
	Value_  *Use // named Value_ to avoid shadowing the ir.Value interface
	Address *Use
}

func NewStore(value, address Value) *Store {
	s := &Store{instrBase: instrBase{kind: KindStore}}
	s.Value_ = NewUse(s, 0, value)
	s.Address = NewUse(s, 1, address)
	return s
}

func (s *Store) SetValue(v Value)   { setOperand(s.Value_, v) }
func (s *Store) SetAddress(v Value) { setOperand(s.Address, v) }
func (s *Store) Operands() []*Use   { return []*Use{s.Value_, s.Address} }
func (s *Store) Result() Value      { return nil }
func (s *Store) String() string {
	return fmt.Sprintf("store %s to %s;", s.Value_.Value, s.Address.Value)
}

// Phi selects a value depending on which predecessor control arrived
// from. Sources[k] corresponds to the block at index k of the owning
// BasicGroup's Precedes.
type Phi struct {
	instrBase
	Sources []*Use
	Dest    *Temporary
}

// NewPhi builds a Phi with numSources slots, all initially referencing
// sentinel (the Alloca's Variable being promoted, per §4.8 Phase 2).
func NewPhi(sentinel Value, numSources int, resultType irtype.Type) *Phi {
	p := &Phi{instrBase: instrBase{kind: KindPhi}, Dest: NewTemporary(resultType)}
	p.Sources = make([]*Use, numSources)
	for i := range p.Sources {
		p.Sources[i] = NewUse(p, i, sentinel)
	}
	return p
}

func (p *Phi) SetSource(i int, v Value) { setOperand(p.Sources[i], v) }
func (p *Phi) Operands() []*Use         { return p.Sources }
func (p *Phi) Result() Value            { return p.Dest }
func (p *Phi) String() string {
	parts := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		parts[i] = s.Value.String()
	}
	return fmt.Sprintf("%s = phi(%s);", p.Dest, strings.Join(parts, ", "))
}

// Return exits the function, optionally carrying a value (nil for a
// void-returning function).
type Return struct {
	instrBase
	Value_ *Use
}

func NewReturn(value Value) *Return {
	r := &Return{instrBase: instrBase{kind: KindReturn}}
	if value != nil {
		r.Value_ = NewUse(r, 0, value)
	}
	return r
}

func (r *Return) SetValue(v Value) { setOperand(r.Value_, v) }
func (r *Return) Operands() []*Use {
	if r.Value_ == nil {
		return nil
	}
	return []*Use{r.Value_}
}
func (r *Return) Result() Value { return nil }
func (r *Return) String() string {
	if r.Value_ == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value_.Value)
}

// Nope is a no-op, emitted to give a trailing label an instruction to
// attach to.
type Nope struct{ instrBase }

func NewNope() *Nope                { return &Nope{instrBase{kind: KindNope}} }
func (n *Nope) Operands() []*Use    { return nil }
func (n *Nope) Result() Value       { return nil }
func (n *Nope) String() string      { return "nope;" }

// FunctionDefinition marks the point in a module-level code stream
// where a nested function value is introduced (mirrors the original's
// SiiIRFunctionDefinition; unused by single-function compilation units
// but kept so a module with several functions dumps predictably).
type FunctionDefinition struct {
	instrBase
	Func *FunctionValue
}

func NewFunctionDefinition(fn *FunctionValue) *FunctionDefinition {
	return &FunctionDefinition{instrBase: instrBase{kind: KindFunctionDefinition}, Func: fn}
}

func (f *FunctionDefinition) Operands() []*Use { return nil }
func (f *FunctionDefinition) Result() Value    { return nil }
func (f *FunctionDefinition) String() string   { return fmt.Sprintf("function %s;", f.Func) }

// Assign is QuitSSA's lowering target: a plain copy `Dest = Src`. It
// never appears before QuitSSA runs.
type Assign struct {
	instrBase
	Src  *Use
	Dest Value
}

func NewAssign(dest Value, src Value) *Assign {
	a := &Assign{instrBase: instrBase{kind: KindAssign}, Dest: dest}
	a.Src = NewUse(a, 0, src)
	return a
}

func (a *Assign) SetSrc(v Value)   { setOperand(a.Src, v) }
func (a *Assign) Operands() []*Use { return []*Use{a.Src} }
func (a *Assign) Result() Value    { return a.Dest }
func (a *Assign) String() string   { return fmt.Sprintf("%s = %s;", a.Dest, a.Src.Value) }

// IsTerminator reports whether instr ends a basic block.
func IsTerminator(instr Instruction) bool {
	switch instr.Kind() {
	case KindGoto, KindConditionBranch, KindReturn:
		return true
	default:
		return false
	}
}
