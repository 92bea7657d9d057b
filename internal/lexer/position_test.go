package lexer

import "testing"

func TestPosition_String(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{"valid position", Position{Filename: "test.go", Line: 42, Column: 15, Offset: 100}, "test.go:42:15"},
		{"zero position", Position{}, ":0:0"},
		{"line 1 column 1", Position{Filename: "main.go", Line: 1, Column: 1}, "main.go:1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.expected {
				t.Errorf("Position.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPosition_StringWithNegativeLineOrColumn(t *testing.T) {
	// itoa is exercised with a defensive negative-number path that line
	// and column should never actually produce, but a malformed Position
	// built by hand should still render rather than panic.
	pos := Position{Filename: "bad.c", Line: -1, Column: -5}
	if got, want := pos.String(), "bad.c:-1:-5"; got != want {
		t.Errorf("Position.String() = %v, want %v", got, want)
	}
}
