package ir

import (
	"strings"
	"testing"

	"github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

func TestPrinter_NameOfTemporaryIsStableWithinOneDump(t *testing.T) {
	p := NewPrinter()
	temp := NewTemporary(irtype.NewInteger(32))
	first := p.NameOf(temp)
	second := p.NameOf(temp)
	if first != second {
		t.Errorf("expected the same temporary to keep its name within one Printer, got %q then %q", first, second)
	}
}

func TestPrinter_NameOfAssignsSequentialNames(t *testing.T) {
	p := NewPrinter()
	a := NewTemporary(irtype.NewInteger(32))
	b := NewTemporary(irtype.NewInteger(32))
	if p.NameOf(a) == p.NameOf(b) {
		t.Error("expected distinct temporaries to get distinct names")
	}
}

func TestPrinter_NameOfVariableUsesItsDeclaredName(t *testing.T) {
	p := NewPrinter()
	v := NewVariable("counter", irtype.NewInteger(32))
	if got := p.NameOf(v); got != "%counter" {
		t.Errorf("NameOf(variable) = %q, want %%counter", got)
	}
}

func TestPrinter_FunctionIncludesEveryReachableBlock(t *testing.T) {
	fn := buildSimpleFunction(t)
	out := NewPrinter().Function(fn)
	if !strings.Contains(out, "Function main") {
		t.Errorf("expected function dump to name the function, got %q", out)
	}
	if !strings.Contains(out, "return") {
		t.Errorf("expected function dump to include the return instruction, got %q", out)
	}
}

func TestPrinter_NilValueIsNamedLiterally(t *testing.T) {
	p := NewPrinter()
	if got := p.NameOf(nil); got != "<nil>" {
		t.Errorf("NameOf(nil) = %q, want <nil>", got)
	}
}

func TestFunction_StringOmitsOrphanedBlocks(t *testing.T) {
	ctx := &FunctionContext{}
	b := NewCodeBuilder(ctx)
	zero := NewConstant("0", irtype.NewInteger(32))
	b.AppendReturn(zero)
	b.AppendReturn(zero)
	fn, err := BuildFunction("f", nil, irtype.NewInteger(32), b.Finish(), ctx, lexer.Position{})
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	out := fn.String()
	if strings.Count(out, "return") != 1 {
		t.Errorf("expected exactly one reachable return in the dump, got:\n%s", out)
	}
}
