// Package quitssa lowers phi nodes out of a function once mem2reg has
// finished promoting locals, turning the strict SSA form back into
// ordinary three-address code (spec component I), grounded on
// original_source/src/IR/Pass/quit_SSA.cpp.
package quitssa

import (
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// Run rewrites every Phi in fn into one Assign per predecessor, each
// inserted immediately before that predecessor's terminator. It assumes
// the CFG has no critical edges (every predecessor of a block holding a
// Phi has exactly one successor) and does not split them: it checks
// this and returns an InternalInvariant error when it fails. If/else and
// while/for lowering never produce such an edge; a do-while loop whose
// body assigns a promoted local does, since its condition block branches
// back to the body block, which also has the loop-entry predecessor.
func Run(fn *ir.Function, pos lexer.Position) error {
	for _, block := range fn.Blocks {
		var phis []*ir.Phi
		for instr := block.Head(); instr != nil; instr = instr.Next() {
			phi, ok := instr.(*ir.Phi)
			if !ok {
				break // phis are always at the head of a block.
			}
			phis = append(phis, phi)
		}
		if len(phis) == 0 {
			continue
		}
		for _, pred := range block.Precedes {
			if len(pred.Follows) != 1 {
				return diagnostics.New(diagnostics.InternalInvariant, pos,
					"critical edge into a phi block: predecessor Label.%s has %d successors", pred.Label.Name, len(pred.Follows))
			}
		}
		for _, phi := range phis {
			for i, pred := range block.Precedes {
				src := phi.Sources[i].Value
				assign := ir.NewAssign(phi.Dest, src)
				pred.InsertBefore(pred.Terminator(), assign)
			}
			ir.DetachOperands(phi)
			block.Erase(phi)
		}
	}
	return nil
}
