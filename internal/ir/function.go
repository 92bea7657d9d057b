package ir

import (
	"strings"

	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// Function owns a FunctionContext (the value arena for this function)
// and its partitioned basic blocks (spec §3.4).
type Function struct {
	Name       string
	Parameters []*Parameter
	ReturnType irtype.Type // nil for void
	Blocks     []*BasicGroup
	Entry      *BasicGroup
	Ctx        *FunctionContext
}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString("Function ")
	sb.WriteString(f.Name)
	sb.WriteString("\n")
	for _, visited := range dfsReachable(f.Entry) {
		sb.WriteString(visited.String())
	}
	return sb.String()
}

// dfsReachable returns every block reachable from entry, in DFS order
// (spec §6: "a function prints its name and every reachable block in
// DFS order"), using an explicit stack rather than recursion (spec §9).
func dfsReachable(entry *BasicGroup) []*BasicGroup {
	seen := map[*BasicGroup]bool{entry: true}
	order := []*BasicGroup{entry}
	stack := []*BasicGroup{entry}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := len(top.Follows) - 1; i >= 0; i-- {
			s := top.Follows[i]
			if !seen[s] {
				seen[s] = true
				order = append(order, s)
				stack = append(stack, s)
			}
		}
	}
	return order
}

type pendingBlock struct {
	label  *Label
	instrs []Instruction
}

// BuildFunction partitions a linear instruction stream (with Allocas
// occupying a contiguous prefix) into a CFG of BasicGroups, wiring
// precedes/follows and applying the merge invariant (spec §4.5).
func BuildFunction(name string, params []*Parameter, returnType irtype.Type, instrs []Instruction, ctx *FunctionContext, pos lexer.Position) (*Function, error) {
	splitAt := 0
	for splitAt < len(instrs) {
		if _, ok := instrs[splitAt].(*Alloca); !ok {
			break
		}
		splitAt++
	}
	for j := splitAt; j < len(instrs); j++ {
		if _, ok := instrs[j].(*Alloca); ok {
			return nil, diagnostics.New(diagnostics.InvalidControlFlow, pos, "alloca instruction appears after the first non-alloca instruction")
		}
	}

	entryLabel := ctx.NewLabel()
	entry := newBasicGroup(entryLabel)
	for _, a := range instrs[:splitAt] {
		entry.PushBack(a)
	}

	rest := instrs[splitAt:]
	if len(rest) == 0 {
		return nil, diagnostics.New(diagnostics.InvalidControlFlow, pos, "function body has no executable instructions")
	}

	var blocks []*pendingBlock
	for idx, instr := range rest {
		lbl := pendingLabelOf(instr)
		startNew := idx == 0
		if len(blocks) > 0 {
			last := blocks[len(blocks)-1]
			prevInstr := last.instrs[len(last.instrs)-1]
			switch {
			case lbl != nil:
				startNew = true
				if !IsTerminator(prevInstr) {
					last.instrs = append(last.instrs, NewGoto(lbl))
				}
			case IsTerminator(prevInstr):
				startNew = true
			}
		}
		if startNew {
			useLabel := lbl
			if useLabel == nil {
				useLabel = ctx.NewLabel()
			}
			blocks = append(blocks, &pendingBlock{label: useLabel})
		}
		blocks[len(blocks)-1].instrs = append(blocks[len(blocks)-1].instrs, instr)
	}

	entry.PushBack(NewGoto(blocks[0].label))

	groups := make([]*BasicGroup, 0, len(blocks)+1)
	groups = append(groups, entry)
	labelToGroup := map[*Label]*BasicGroup{entryLabel: entry}
	for _, pb := range blocks {
		g := newBasicGroup(pb.label)
		for _, instr := range pb.instrs {
			g.PushBack(instr)
		}
		groups = append(groups, g)
		labelToGroup[pb.label] = g
	}

	addEdge(entry, labelToGroup[blocks[0].label])
	for _, g := range groups[1:] {
		term := g.Terminator()
		if term == nil {
			return nil, diagnostics.New(diagnostics.InvalidControlFlow, pos, "block %s does not end in a terminator", g.Label)
		}
		switch t := term.(type) {
		case *Goto:
			addEdge(g, labelToGroup[t.Target.Value.(*Label)])
		case *ConditionBranch:
			addEdge(g, labelToGroup[t.True.Value.(*Label)])
			addEdge(g, labelToGroup[t.False.Value.(*Label)])
		case *Return:
			// no successors
		}
	}

	for i, g := range groups {
		g.Index = i
	}

	return &Function{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Blocks:     groups,
		Entry:      entry,
		Ctx:        ctx,
	}, nil
}

func pendingLabelOf(instr Instruction) *Label {
	if lp, ok := instr.(interface{ pendingLabel() *Label }); ok {
		return lp.pendingLabel()
	}
	return nil
}

// Module is the top-level container of every function generated from a
// translation unit.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []*Variable
}

func NewModule(name string) *Module {
	return &Module{Name: name}
}

func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}

func (m *Module) String() string {
	var sb strings.Builder
	for i, fn := range m.Functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fn.String())
	}
	return sb.String()
}
