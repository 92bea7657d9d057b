package dataflow

import (
	"testing"

	"github.com/hassandahiru/ccompiler/internal/dominator"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// buildDiamond constructs entry -> cond -> {then, else} -> merge, mirroring the
// dominator package's own diamond fixture.
func buildDiamond(t *testing.T) *ir.Function {
	t.Helper()
	ctx := &ir.FunctionContext{}
	b := ir.NewCodeBuilder(ctx)

	thenLabel := ctx.NewLabel()
	elseLabel := ctx.NewLabel()
	mergeLabel := ctx.NewLabel()

	cond := ir.NewConstant("1", irtype.Bool1)
	if _, err := b.AppendConditionBranch(cond, thenLabel, elseLabel, lexer.Position{}); err != nil {
		t.Fatalf("condbranch: %v", err)
	}
	b.AppendLabel(thenLabel)
	b.AppendGoto(mergeLabel)
	b.AppendLabel(elseLabel)
	b.AppendGoto(mergeLabel)
	b.AppendLabel(mergeLabel)
	b.AppendReturn(ir.NewConstant("0", irtype.NewInteger(32)))

	fn, err := ir.BuildFunction("f", nil, irtype.NewInteger(32), b.Finish(), ctx, lexer.Position{})
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	return fn
}

func buildDiamondBuilder(t *testing.T) (*Builder, *ir.Function) {
	t.Helper()
	fn := buildDiamond(t)
	tree, err := dominator.Build(fn.Entry, lexer.Position{})
	if err != nil {
		t.Fatalf("dominator.Build: %v", err)
	}
	return NewBuilder(tree), fn
}

func TestDF_BranchBlocksFrontierIsTheMergeBlock(t *testing.T) {
	b, fn := buildDiamondBuilder(t)

	condBlock := fn.Entry.Follows[0]
	thenBlock := condBlock.Follows[0]
	mergeBlock := thenBlock.Follows[0]

	df := b.DF(thenBlock)
	if len(df) != 1 || df[0] != mergeBlock {
		t.Errorf("DF(then) = %v, want [merge]", df)
	}
}

func TestDF_ImmediateDominatorOfMergeHasEmptyFrontier(t *testing.T) {
	b, fn := buildDiamondBuilder(t)
	condBlock := fn.Entry.Follows[0]
	df := b.DF(condBlock)
	if len(df) != 0 {
		t.Errorf("DF(cond) = %v, want empty: cond strictly dominates every block on both paths to merge", df)
	}
}

func TestIDF_OfOneBranchReachesMergeThroughOneIteration(t *testing.T) {
	b, fn := buildDiamondBuilder(t)
	condBlock := fn.Entry.Follows[0]
	thenBlock := condBlock.Follows[0]
	mergeBlock := thenBlock.Follows[0]

	idf := b.IDF([]*ir.BasicGroup{thenBlock})
	if len(idf) != 1 || idf[0] != mergeBlock {
		t.Errorf("IDF({then}) = %v, want [merge]", idf)
	}
}

func TestIDF_IsDeterministicallyOrdered(t *testing.T) {
	b, fn := buildDiamondBuilder(t)
	condBlock := fn.Entry.Follows[0]
	thenBlock := condBlock.Follows[0]
	elseBlock := condBlock.Follows[1]

	first := b.IDF([]*ir.BasicGroup{thenBlock, elseBlock})
	second := b.IDF([]*ir.BasicGroup{thenBlock, elseBlock})
	if len(first) != len(second) {
		t.Fatalf("expected repeated calls to return the same length, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("expected IDF to be deterministically ordered, element %d differed", i)
		}
	}
}
