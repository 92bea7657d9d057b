package ir

import (
	"testing"

	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

func buildSimpleFunction(t *testing.T) *Function {
	t.Helper()
	ctx := &FunctionContext{}
	b := NewCodeBuilder(ctx)

	n := NewVariable(ctx.NewVariableName(), irtype.NewInteger(32))
	b.AppendAlloca(n.Name, 4, irtype.NewInteger(32))
	one := NewConstant("1", irtype.NewInteger(32))
	if _, err := b.AppendStore(one, n, lexer.Position{}); err != nil {
		t.Fatalf("store: %v", err)
	}
	loaded, err := b.AppendLoad(n, lexer.Position{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b.AppendReturn(loaded)

	fn, err := BuildFunction("main", nil, irtype.NewInteger(32), b.Finish(), ctx, lexer.Position{})
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	return fn
}

func TestBuildFunction_SimpleStraightLine(t *testing.T) {
	fn := buildSimpleFunction(t)
	if fn.Entry == nil {
		t.Fatal("expected entry block")
	}
	if len(fn.Blocks) != 2 {
		t.Errorf("expected entry + one body block, got %d", len(fn.Blocks))
	}
}

func TestBuildFunction_TrailingReturnIsHarmlesslyOrphaned(t *testing.T) {
	ctx := &FunctionContext{}
	b := NewCodeBuilder(ctx)
	zero := NewConstant("0", irtype.NewInteger(32))
	b.AppendReturn(zero)
	// A second, redundant trailing return after one that already
	// terminated the function: BuildFunction starts a new block for it
	// since the previous instruction was a terminator, and nothing ever
	// reaches it from the entry block.
	b.AppendReturn(zero)

	fn, err := BuildFunction("f", nil, irtype.NewInteger(32), b.Finish(), ctx, lexer.Position{})
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	if len(fn.Blocks) != 3 {
		t.Fatalf("expected entry + 2 body blocks (one orphaned), got %d", len(fn.Blocks))
	}
	reachable := dfsReachable(fn.Entry)
	if len(reachable) != 2 {
		t.Errorf("expected only 2 blocks reachable from entry, got %d", len(reachable))
	}
}

func TestBuildFunction_IfElseWiresBothBranches(t *testing.T) {
	ctx := &FunctionContext{}
	b := NewCodeBuilder(ctx)
	thenLabel := ctx.NewLabel()
	elseLabel := ctx.NewLabel()

	cond := NewConstant("1", irtype.Bool1)
	if _, err := b.AppendConditionBranch(cond, thenLabel, elseLabel, lexer.Position{}); err != nil {
		t.Fatalf("condbranch: %v", err)
	}
	b.AppendLabel(thenLabel)
	b.AppendReturn(NewConstant("1", irtype.NewInteger(32)))
	b.AppendLabel(elseLabel)
	b.AppendReturn(NewConstant("0", irtype.NewInteger(32)))

	fn, err := BuildFunction("f", nil, irtype.NewInteger(32), b.Finish(), ctx, lexer.Position{})
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	if len(fn.Entry.Follows) != 1 {
		t.Fatalf("expected entry to have exactly one successor (the synthetic goto target), got %d", len(fn.Entry.Follows))
	}
	condBlock := fn.Entry.Follows[0]
	if len(condBlock.Follows) != 2 {
		t.Fatalf("expected the condition block to branch to 2 successors, got %d", len(condBlock.Follows))
	}
}

func TestBuildFunction_MissingTerminatorIsAnError(t *testing.T) {
	ctx := &FunctionContext{}
	b := NewCodeBuilder(ctx)
	b.AppendNope()
	_, err := BuildFunction("f", nil, nil, b.Finish(), ctx, lexer.Position{Filename: "t.c"})
	if err == nil {
		t.Fatal("expected an error for a block with no terminator")
	}
}

func TestModule_StringConcatenatesFunctions(t *testing.T) {
	m := NewModule("test")
	m.AddFunction(buildSimpleFunction(t))
	if m.String() == "" {
		t.Error("expected non-empty module dump")
	}
}
