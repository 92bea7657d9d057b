// Package ir implements the typed SSA value graph, the three-address
// instruction set, the code builder, and control-flow-graph
// construction (spec components B, C and E).
package ir

import (
	"fmt"

	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
)

// ValueKind tags the Value sum type.
type ValueKind int

const (
	KindVariable ValueKind = iota
	KindConstant
	KindTemporary
	KindFunction
	KindLabel
	KindUndef
	KindParameter
)

func (k ValueKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindTemporary:
		return "temporary"
	case KindFunction:
		return "function"
	case KindLabel:
		return "label"
	case KindUndef:
		return "undef"
	case KindParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Use is one operand edge: instr's operand slot Slot currently refers
// to Value. Uses form the user-list of the Value they point at, kept in
// a map keyed by the Use itself so attach/detach are O(1) without
// requiring an intrusive linked-list node (Go's GC, unlike the
// reference-counted C++ original, has no trouble with the resulting
// Use<->Value<->Instruction reference cycles; see DESIGN.md).
type Use struct {
	User  Instruction
	Slot  int
	Value Value
}

// Value is the common interface of every IR value variant.
type Value interface {
	fmt.Stringer
	Kind() ValueKind
	Type() irtype.Type
	addUse(u *Use)
	removeUse(u *Use)
	Users() []*Use
}

// valueBase implements the user-list bookkeeping shared by every
// concrete Value variant.
type valueBase struct {
	kind  ValueKind
	typ   irtype.Type
	users map[*Use]struct{}
}

func (v *valueBase) Kind() ValueKind { return v.kind }
func (v *valueBase) Type() irtype.Type {
	return v.typ
}

func (v *valueBase) addUse(u *Use) {
	if v.users == nil {
		v.users = make(map[*Use]struct{})
	}
	v.users[u] = struct{}{}
}

func (v *valueBase) removeUse(u *Use) {
	delete(v.users, u)
}

func (v *valueBase) Users() []*Use {
	out := make([]*Use, 0, len(v.users))
	for u := range v.users {
		out = append(out, u)
	}
	return out
}

// NewUse creates a Use and attaches it to value's user list. It does
// not set it into any instruction operand slot; callers use SetOperand
// (defined on each instruction) or setOperand below for that.
func NewUse(user Instruction, slot int, value Value) *Use {
	u := &Use{User: user, Slot: slot, Value: value}
	if value != nil {
		value.addUse(u)
	}
	return u
}

// setOperand is the shared use_setter implementation: detach the use
// from its old value (if any) and reattach it to newValue.
func setOperand(u *Use, newValue Value) {
	if u.Value != nil {
		u.Value.removeUse(u)
	}
	u.Value = newValue
	if newValue != nil {
		newValue.addUse(u)
	}
}

// SetUseValue is the exported use_setter primitive (spec §4.2):
// detach u from its current value's user list and attach it to v.
func SetUseValue(u *Use, v Value) { setOperand(u, v) }

// ReplaceAllUsesWith rewrites every use of v to refer to replacement
// instead, preserving the use-list bijection invariant (spec §8.1).
func ReplaceAllUsesWith(v, replacement Value) {
	for _, u := range v.Users() {
		setOperand(u, replacement)
	}
}

// Variable is a stack slot produced by Alloca; Type is always a
// Pointer(Allocated).
type Variable struct {
	valueBase
	Name      string
	Allocated irtype.Type
}

func NewVariable(name string, allocated irtype.Type) *Variable {
	return &Variable{
		valueBase: valueBase{kind: KindVariable, typ: irtype.NewPointer(allocated)},
		Name:      name,
		Allocated: allocated,
	}
}

func (v *Variable) String() string { return "%" + v.Name }

// Constant is a literal value of a fixed type.
type Constant struct {
	valueBase
	Literal string
}

func NewConstant(literal string, t irtype.Type) *Constant {
	return &Constant{valueBase: valueBase{kind: KindConstant, typ: t}, Literal: literal}
}

func (v *Constant) String() string { return v.Literal }

// Temporary is an SSA register; it is given a display name lazily by
// the dump printer, not at construction (spec §9: no global IDAllocator).
type Temporary struct {
	valueBase
}

func NewTemporary(t irtype.Type) *Temporary {
	return &Temporary{valueBase: valueBase{kind: KindTemporary, typ: t}}
}

func (v *Temporary) String() string { return fmt.Sprintf("%%t%p", v) }

// Parameter is a function argument value.
type Parameter struct {
	valueBase
	Name string
}

func NewParameter(name string, t irtype.Type) *Parameter {
	return &Parameter{valueBase: valueBase{kind: KindParameter, typ: t}, Name: name}
}

func (v *Parameter) String() string { return "%" + v.Name }

// Undef is a typed placeholder used to seed mem2reg's rename stack for
// a candidate with no reaching store yet.
type Undef struct {
	valueBase
}

func NewUndef(t irtype.Type) *Undef {
	return &Undef{valueBase: valueBase{kind: KindUndef, typ: t}}
}

func (v *Undef) String() string { return "undef" }

// Label addresses a specific instruction; Dest is mutated in place as
// the code builder patches forward references (see AppendLabel).
type Label struct {
	valueBase
	Name string
	Dest Instruction
}

func NewLabel(name string) *Label {
	return &Label{valueBase: valueBase{kind: KindLabel}, Name: name}
}

func (v *Label) String() string { return "Label." + v.Name }

// FunctionValue names a function as a callable value (its type is
// Function{...}); the Function it refers to is attached once IR
// generation for its body has produced one.
type FunctionValue struct {
	valueBase
	Name string
	Fn   *Function
}

func NewFunctionValue(name string, t irtype.Type) *FunctionValue {
	return &FunctionValue{valueBase: valueBase{kind: KindFunction, typ: t}, Name: name}
}

func (v *FunctionValue) String() string { return "@" + v.Name }
