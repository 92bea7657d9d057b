package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hassandahiru/ccompiler/internal/lexer"
)

func TestNew_FormatsPositionKindAndMessage(t *testing.T) {
	pos := lexer.Position{Filename: "f.c", Line: 3, Column: 9}
	err := New(InvalidType, pos, "cannot assign %s to %s", "char", "int")
	got := err.Error()
	if !strings.Contains(got, "f.c:3:9") || !strings.Contains(got, "invalid type") || !strings.Contains(got, "cannot assign char to int") {
		t.Errorf("unexpected error text: %q", got)
	}
}

func TestIsKind(t *testing.T) {
	err := New(UndeclaredIdentifier, lexer.Position{}, "x")
	if !IsKind(err, UndeclaredIdentifier) {
		t.Error("expected IsKind to match the error's own kind")
	}
	if IsKind(err, TypeMismatch) {
		t.Error("expected IsKind to reject a different kind")
	}
}

func TestWrap_PreservesKindAndPosition(t *testing.T) {
	pos := lexer.Position{Filename: "f.c", Line: 1, Column: 1}
	inner := New(TypeMismatch, pos, "boom")
	wrapped := Wrap(InternalInvariant, pos, inner, "while lowering")
	if wrapped.Kind() != InternalInvariant {
		t.Errorf("expected the wrapped kind to be InternalInvariant, got %s", wrapped.Kind())
	}
	if wrapped.Position() != pos {
		t.Errorf("expected the wrapped position to be preserved")
	}
}

func TestErrorKind_String(t *testing.T) {
	if TypeMismatch.String() != "type mismatch" {
		t.Errorf("unexpected TypeMismatch.String(): %s", TypeMismatch.String())
	}
}

func TestReporter_ReportIncludesSourceLineAndCaret(t *testing.T) {
	source := "int main(void) {\n  return x;\n}\n"
	err := New(UndeclaredIdentifier, lexer.Position{Filename: "f.c", Line: 2, Column: 10}, "undeclared identifier: x")

	var buf bytes.Buffer
	r := NewReporter(&buf, "f.c", source)
	r.Report(&buf, err)

	out := buf.String()
	if !strings.Contains(out, "f.c:2:10") {
		t.Errorf("expected the position in the output, got %q", out)
	}
	if !strings.Contains(out, "return x;") {
		t.Errorf("expected the offending source line in the output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret marker in the output, got %q", out)
	}
}

func TestReporter_OutOfRangeLineIsHandledGracefully(t *testing.T) {
	err := New(InvalidType, lexer.Position{Filename: "f.c", Line: 99, Column: 1}, "boom")
	var buf bytes.Buffer
	r := NewReporter(&buf, "f.c", "int x;\n")
	r.Report(&buf, err)
	if buf.Len() == 0 {
		t.Error("expected at least the header line to be written")
	}
}
