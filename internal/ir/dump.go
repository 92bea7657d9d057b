package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Function or Module into the canonical textual IR
// form (spec §6), assigning display names to Temporary/Variable/
// Parameter values as it encounters them. A fresh Printer is created
// per dump call rather than threading a global id allocator through
// value construction (spec §9): a value dumped twice in the same call
// keeps the same name, but two separate dumps may number it
// differently.
type Printer struct {
	ids  map[Value]string
	next int
}

func NewPrinter() *Printer { return &Printer{ids: make(map[Value]string)} }

// NameOf returns the display name for v, assigning the next sequential
// %t<N> if v is a Temporary seen for the first time.
func (p *Printer) NameOf(v Value) string {
	if v == nil {
		return "<nil>"
	}
	switch val := v.(type) {
	case *Temporary:
		if name, ok := p.ids[v]; ok {
			return name
		}
		name := fmt.Sprintf("%%t%d", p.next)
		p.next++
		p.ids[v] = name
		return name
	case *Variable:
		return "%" + val.Name
	case *Parameter:
		return "%" + val.Name
	case *Constant:
		return val.Literal
	case *Undef:
		return "undef"
	case *Label:
		return "Label." + val.Name
	case *FunctionValue:
		return "@" + val.Name
	default:
		return v.String()
	}
}

// Function renders fn: its name followed by every reachable block in
// DFS order.
func (p *Printer) Function(fn *Function) string {
	var sb strings.Builder
	sb.WriteString("Function ")
	sb.WriteString(fn.Name)
	sb.WriteString("\n")
	for _, block := range dfsReachable(fn.Entry) {
		p.block(&sb, block)
	}
	return sb.String()
}

func (p *Printer) Module(m *Module) string {
	var sb strings.Builder
	for i, fn := range m.Functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.Function(fn))
	}
	return sb.String()
}

func (p *Printer) block(sb *strings.Builder, g *BasicGroup) {
	sb.WriteString("Label.")
	sb.WriteString(g.Label.Name)
	sb.WriteString(":          ; pred: ")
	for i, pred := range g.Precedes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("Label.")
		sb.WriteString(pred.Label.Name)
	}
	sb.WriteString(";\n")
	for instr := g.Head(); instr != nil; instr = instr.Next() {
		sb.WriteString("  ")
		sb.WriteString(p.instr(instr))
		sb.WriteString("\n")
	}
}

func (p *Printer) instr(instr Instruction) string {
	switch v := instr.(type) {
	case *BinaryOp:
		return fmt.Sprintf("%s = %s %s %s", p.NameOf(v.Dest), p.NameOf(v.LHS.Value), binOpSymbol(v.kind), p.NameOf(v.RHS.Value))
	case *UnaryOp:
		return fmt.Sprintf("%s = -%s", p.NameOf(v.Dest), p.NameOf(v.Operand.Value))
	case *Goto:
		return fmt.Sprintf("goto %s;", p.NameOf(v.Target.Value))
	case *ConditionBranch:
		return fmt.Sprintf("if %s goto %s else %s;", p.NameOf(v.Condition.Value), p.NameOf(v.True.Value), p.NameOf(v.False.Value))
	case *Alloca:
		return fmt.Sprintf("%s = alloca size %d;", p.NameOf(v.Dest), v.SizeBytes)
	case *Load:
		return fmt.Sprintf("%s = load %s;", p.NameOf(v.Dest), p.NameOf(v.Address.Value))
	case *Store:
		return fmt.Sprintf("store %s to %s;", p.NameOf(v.Value_.Value), p.NameOf(v.Address.Value))
	case *Phi:
		parts := make([]string, len(v.Sources))
		for i, s := range v.Sources {
			parts[i] = p.NameOf(s.Value)
		}
		return fmt.Sprintf("%s = phi(%s);", p.NameOf(v.Dest), strings.Join(parts, ", "))
	case *Return:
		if v.Value_ == nil {
			return "return;"
		}
		return fmt.Sprintf("return %s;", p.NameOf(v.Value_.Value))
	case *Nope:
		return "nope;"
	case *FunctionDefinition:
		return fmt.Sprintf("function %s;", p.NameOf(v.Func))
	case *Assign:
		return fmt.Sprintf("%s = %s;", p.NameOf(v.Dest), p.NameOf(v.Src.Value))
	default:
		return instr.String()
	}
}
