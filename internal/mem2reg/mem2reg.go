// Package mem2reg promotes stack-allocated locals that are never
// address-taken into SSA registers, inserting phi nodes at iterated
// dominance frontiers and renaming uses via a dominator-tree walk
// (spec component H), grounded on
// original_source/src/IR/Pass/memory_to_register.cpp.
package mem2reg

import (
	"github.com/hassandahiru/ccompiler/internal/dataflow"
	"github.com/hassandahiru/ccompiler/internal/dominator"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// Run promotes every eligible Variable in fn to registers, iterating to
// a fixed point: promoting one variable can make another's Alloca
// store-only once the loads referring to it are gone (matches
// MemoryToRegisterPass::run's do{}while driver).
func Run(fn *ir.Function, pos lexer.Position) error {
	for {
		changed, err := runOnce(fn, pos)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

func runOnce(fn *ir.Function, pos lexer.Position) (bool, error) {
	tree, err := dominator.Build(fn.Entry, pos)
	if err != nil {
		return false, err
	}
	df := dataflow.NewBuilder(tree)

	changed := false
	variableStacks := map[*ir.Variable][]ir.Value{}
	originalVariableOf := map[*ir.Phi]*ir.Variable{}

	for _, instr := range fn.Entry.Instructions() {
		alloca, ok := instr.(*ir.Alloca)
		if !ok {
			continue
		}
		if !canPromote(alloca.Dest) {
			continue
		}
		if tryRemoveStoreOnly(fn.Entry, alloca) {
			changed = true
			continue
		}
		insertPhis(alloca, df, originalVariableOf)
		variableStacks[alloca.Dest] = []ir.Value{ir.NewUndef(irtype.GetAimType(alloca.Dest.Type()))}
		changed = true
	}
	if len(variableStacks) == 0 {
		return changed, nil
	}

	temporaryRenameMap := map[ir.Value]ir.Value{}
	rename(tree.Root, variableStacks, temporaryRenameMap, originalVariableOf)
	return true, nil
}

// canPromote reports whether v is only ever used as the destination of
// a Load or the address operand of a Store — i.e. its address is never
// itself taken and stored or passed along (CanVariableToRegister).
func canPromote(v *ir.Variable) bool {
	for _, u := range v.Users() {
		switch instr := u.User.(type) {
		case *ir.Load:
			// fine: v is the address being read.
		case *ir.Store:
			if u == instr.Value_ {
				return false // v's address is the value being stored, i.e. escapes.
			}
		default:
			return false
		}
	}
	return true
}

// tryRemoveStoreOnly deletes alloca and every Store into it when it has
// no Load users at all: dead writes to a slot nothing ever reads
// (TryRemoveAllocIfStoreOnly).
func tryRemoveStoreOnly(entry *ir.BasicGroup, alloca *ir.Alloca) bool {
	for _, u := range alloca.Dest.Users() {
		if _, ok := u.User.(*ir.Load); ok {
			return false
		}
	}
	for _, u := range alloca.Dest.Users() {
		st := u.User.(*ir.Store)
		ir.DetachOperands(st)
		st.Block().Erase(st)
	}
	ir.DetachOperands(alloca)
	entry.Erase(alloca)
	return true
}

// insertPhis places a Phi at every block in the iterated dominance
// frontier of alloca's defining (storing) blocks.
func insertPhis(alloca *ir.Alloca, df *dataflow.Builder, originalVariableOf map[*ir.Phi]*ir.Variable) {
	var defBlocks []*ir.BasicGroup
	for _, u := range alloca.Dest.Users() {
		if st, ok := u.User.(*ir.Store); ok && u == st.Address {
			defBlocks = append(defBlocks, st.Block())
		}
	}
	aimType := irtype.GetAimType(alloca.Dest.Type())
	for _, block := range df.IDF(defBlocks) {
		phi := ir.NewPhi(alloca.Dest, len(block.Precedes), aimType)
		originalVariableOf[phi] = alloca.Dest
		block.PushFront(phi)
	}
}

// rename performs the dominator-tree-DFS SSA renaming pass over node
// and its descendants (RenamePass).
func rename(
	node *dominator.Node,
	stacks map[*ir.Variable][]ir.Value,
	temporaryRenameMap map[ir.Value]ir.Value,
	originalVariableOf map[*ir.Phi]*ir.Variable,
) {
	pushCount := map[*ir.Variable]int{}
	block := node.Block

	for instr := block.Head(); instr != nil; {
		next := instr.Next()
		switch v := instr.(type) {
		case *ir.Phi:
			variable, ours := originalVariableOf[v]
			if !ours {
				for _, src := range v.Sources {
					replaceTemporary(src, temporaryRenameMap)
				}
				break
			}
			stacks[variable] = append(stacks[variable], v.Dest)
			pushCount[variable]++

		case *ir.Load:
			if variable, ok := v.Address.Value.(*ir.Variable); ok {
				if stack := stacks[variable]; len(stack) > 0 {
					temporaryRenameMap[v.Dest] = stack[len(stack)-1]
					ir.DetachOperands(v)
					block.Erase(v)
				}
			}

		case *ir.Store:
			replaceTemporary(v.Value_, temporaryRenameMap)
			if variable, ok := v.Address.Value.(*ir.Variable); ok {
				if stack := stacks[variable]; len(stack) > 0 {
					stacks[variable] = append(stack, v.Value_.Value)
					pushCount[variable]++
					ir.DetachOperands(v)
					block.Erase(v)
				}
			}

		case *ir.Alloca:
			if _, ours := stacks[v.Dest]; ours {
				block.Erase(v)
			}

		default:
			for _, u := range instr.Operands() {
				replaceTemporary(u, temporaryRenameMap)
			}
		}
		instr = next
	}

	for _, succ := range block.Follows {
		k := succ.PredIndex(block)
		for instr := succ.Head(); instr != nil; instr = instr.Next() {
			phi, ok := instr.(*ir.Phi)
			if !ok {
				break // phis are always at the head of a block.
			}
			variable, ours := originalVariableOf[phi]
			if !ours {
				continue
			}
			if stack := stacks[variable]; len(stack) > 0 {
				phi.SetSource(k, stack[len(stack)-1])
			}
		}
	}

	for _, child := range node.Children {
		rename(child, stacks, temporaryRenameMap, originalVariableOf)
	}

	for variable, n := range pushCount {
		stack := stacks[variable]
		stacks[variable] = stack[:len(stack)-n]
	}
}

// replaceTemporary rewrites u to point at its rename-map target, when a
// Load that used to produce u.Value has since been removed.
func replaceTemporary(u *ir.Use, temporaryRenameMap map[ir.Value]ir.Value) {
	if replacement, ok := temporaryRenameMap[u.Value]; ok {
		ir.SetUseValue(u, replacement)
	}
}
