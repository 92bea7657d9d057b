package types

import (
	"testing"

	irtypes "github.com/hassandahiru/ccompiler/internal/ir/irtype"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

func TestNormalizeVariableDeclaration_RequiresKnownArrayCount(t *testing.T) {
	unsized := NewArray(IntType, -1)
	if _, err := NormalizeVariableDeclaration(unsized, lexer.Position{}); err == nil {
		t.Error("expected an error for a variable array declaration with no element count")
	}
}

func TestNormalizeVariableDeclaration_ScalarPassesThrough(t *testing.T) {
	got, err := NormalizeVariableDeclaration(IntType, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equals(IntType) {
		t.Errorf("expected scalar to pass through unchanged, got %s", got)
	}
}

func TestNormalizeParameterDeclaration_ArrayDecaysToPointer(t *testing.T) {
	array := NewArray(IntType, 4)
	got, err := NormalizeParameterDeclaration(array, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Pointer {
		t.Fatalf("expected array parameter to decay to pointer, got %s", got.Kind)
	}
	if got.OffsetLimit != Limited || got.OffsetBytes != 4 {
		t.Errorf("expected decayed pointer to remember its bound of 4, got limit=%v bytes=%d", got.OffsetLimit, got.OffsetBytes)
	}
}

func TestNormalizeParameterDeclaration_UnknownLengthArrayDecaysUnlimited(t *testing.T) {
	array := NewArray(IntType, -1)
	got, err := NormalizeParameterDeclaration(array, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OffsetLimit != Unlimited {
		t.Errorf("expected an unknown-length array parameter to decay to an unbounded pointer")
	}
}

func TestNormalizeParameterDeclaration_FunctionDecaysToPointerToFunction(t *testing.T) {
	fn := NewFunction(VoidType, nil)
	got, err := NormalizeParameterDeclaration(fn, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Pointer || got.Aim.Kind != Function {
		t.Errorf("expected function parameter to decay to pointer-to-function, got %s", got)
	}
}

func TestNormalizeFunctionType_RejectsFunctionReturningArray(t *testing.T) {
	bad := NewFunction(NewArray(IntType, 4), nil)
	if _, err := NormalizeFunctionType(bad, lexer.Position{}); err == nil {
		t.Error("expected an error for a function returning an array")
	}
}

func TestNormalizeFunctionType_RejectsFunctionReturningFunction(t *testing.T) {
	bad := NewFunction(NewFunction(VoidType, nil), nil)
	if _, err := NormalizeFunctionType(bad, lexer.Position{}); err == nil {
		t.Error("expected an error for a function returning a function")
	}
}

func TestSizeOf(t *testing.T) {
	tests := []struct {
		name string
		t    *Type
		want uint64
	}{
		{"int", IntType, 4},
		{"char", CharType, 4},
		{"bool", BoolType, 4},
		{"pointer", NewPointer(IntType), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SizeOf(tt.t, lexer.Position{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SizeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSizeOf_RejectsArray(t *testing.T) {
	if _, err := SizeOf(NewArray(IntType, 4), lexer.Position{}); err == nil {
		t.Error("expected an error sizing an array type")
	}
}

func TestToIRType_VoidIsRejectedDirectly(t *testing.T) {
	if _, err := ToIRType(VoidType, lexer.Position{}); err == nil {
		t.Error("expected bare Void to be rejected by ToIRType")
	}
}

func TestToIRType_VoidPassesThroughAsFunctionReturn(t *testing.T) {
	fn := NewFunction(VoidType, nil)
	irType, err := ToIRType(fn, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	funcType, ok := irType.(*irtypes.Function)
	if !ok {
		t.Fatalf("expected *irtype.Function, got %T", irType)
	}
	if funcType.Return != nil {
		t.Errorf("expected a nil Return for a void function, got %s", funcType.Return)
	}
}

func TestPromoteKnrParameters_MissingDeclDefaultsToInt(t *testing.T) {
	names := []KnrParam{{Name: "a"}, {Name: "b"}}
	decls := []KnrDecl{{Name: "a", Type: CharType}}
	got, err := PromoteKnrParameters(names, decls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got[0].Equals(CharType) {
		t.Errorf("expected a's declared type to be char, got %s", got[0])
	}
	if !got[1].Equals(IntType) {
		t.Errorf("expected b with no declaration to default to int, got %s", got[1])
	}
}

func TestPromoteKnrParameters_DuplicateDeclarationIsAnError(t *testing.T) {
	names := []KnrParam{{Name: "a"}}
	decls := []KnrDecl{{Name: "a", Type: IntType}, {Name: "a", Type: IntType}}
	if _, err := PromoteKnrParameters(names, decls); err == nil {
		t.Error("expected an error for a duplicate K&R declaration")
	}
}

func TestPromoteKnrParameters_UnmatchedDeclarationIsAnError(t *testing.T) {
	names := []KnrParam{{Name: "a"}}
	decls := []KnrDecl{{Name: "b", Type: IntType}}
	if _, err := PromoteKnrParameters(names, decls); err == nil {
		t.Error("expected an error for a K&R declaration with no matching parameter")
	}
}
