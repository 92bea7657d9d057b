package symtab

import (
	"testing"

	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/types"
)

func TestSymbol_String(t *testing.T) {
	symbol := &Symbol{
		Name: "x",
		Kind: SymbolVariable,
		Type: types.IntType,
		Pos:  lexer.Position{Filename: "test.go", Line: 1, Column: 5},
	}
	if got, want := symbol.String(), "variable x: int at test.go:1:5"; got != want {
		t.Errorf("Symbol.String() = %q, want %q", got, want)
	}
}

func TestSymbol_IsGlobal(t *testing.T) {
	globalScope := NewScope(ScopeGlobal, nil)
	localScope := NewScope(ScopeBlock, globalScope)

	globalSymbol := &Symbol{Name: "x", Scope: globalScope}
	localSymbol := &Symbol{Name: "y", Scope: localScope}

	if !globalSymbol.IsGlobal() {
		t.Error("expected globalSymbol.IsGlobal() to be true")
	}
	if localSymbol.IsGlobal() {
		t.Error("expected localSymbol.IsGlobal() to be false")
	}
}

func TestSymbol_CanAssign(t *testing.T) {
	tests := []struct {
		name     string
		symbol   *Symbol
		expected bool
	}{
		{"variable can be assigned", &Symbol{Kind: SymbolVariable}, true},
		{"parameter can be assigned", &Symbol{Kind: SymbolParameter}, true},
		{"function cannot be assigned", &Symbol{Kind: SymbolFunction}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.symbol.CanAssign(); got != tt.expected {
				t.Errorf("CanAssign() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewScope(t *testing.T) {
	parent := NewScope(ScopeGlobal, nil)
	child := NewScope(ScopeBlock, parent)

	if child.Parent != parent {
		t.Error("expected child scope to have correct parent")
	}
	if child.Depth != 1 {
		t.Errorf("expected child depth = 1, got %d", child.Depth)
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Error("expected parent to contain child in Children slice")
	}
}

func TestScope_Define(t *testing.T) {
	scope := NewScope(ScopeGlobal, nil)
	symbol := &Symbol{Name: "x", Type: types.IntType}

	if err := scope.Define(symbol); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if symbol.Scope != scope {
		t.Error("expected symbol scope to be set")
	}

	duplicate := &Symbol{Name: "x", Type: types.IntType}
	if err := scope.Define(duplicate); err == nil {
		t.Error("expected an error for a duplicate definition")
	}
}

func TestScope_Lookup(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	local := NewScope(ScopeBlock, global)

	globalSymbol := &Symbol{Name: "x", Type: types.IntType}
	localSymbol := &Symbol{Name: "y", Type: types.CharType}
	global.Define(globalSymbol)
	local.Define(localSymbol)

	if found := local.Lookup("y"); found == nil || found.Name != "y" {
		t.Errorf("expected to find local symbol y, got %v", found)
	}
	if found := local.Lookup("x"); found == nil || found.Name != "x" {
		t.Errorf("expected to find global symbol x from local scope, got %v", found)
	}
	if found := local.Lookup("z"); found != nil {
		t.Error("expected nil for a non-existent symbol")
	}
	if !globalSymbol.Used || !localSymbol.Used {
		t.Error("expected both symbols to be marked used after lookup")
	}
}

func TestScope_LookupLocal(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	local := NewScope(ScopeBlock, global)

	global.Define(&Symbol{Name: "x", Type: types.IntType})
	local.Define(&Symbol{Name: "y", Type: types.CharType})

	if found := local.LookupLocal("y"); found == nil {
		t.Error("expected to find local symbol y")
	}
	if found := local.LookupLocal("x"); found != nil {
		t.Error("expected LookupLocal not to see into the parent scope")
	}
}

func TestScope_FindEnclosingFunction(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	funcScope := NewScope(ScopeFunction, global)
	blockScope := NewScope(ScopeBlock, funcScope)

	if found := blockScope.FindEnclosingFunction(); found != funcScope {
		t.Error("expected to find the enclosing function scope from a nested block")
	}
	if found := global.FindEnclosingFunction(); found != nil {
		t.Error("expected nil enclosing function from global scope")
	}
}

func TestScope_FindEnclosingLoop(t *testing.T) {
	funcScope := NewScope(ScopeFunction, nil)
	loopScope := NewScope(ScopeLoop, funcScope)
	blockScope := NewScope(ScopeBlock, loopScope)

	if found := blockScope.FindEnclosingLoop(); found != loopScope {
		t.Error("expected to find the enclosing loop scope from a nested block")
	}
	if found := funcScope.FindEnclosingLoop(); found != nil {
		t.Error("expected nil enclosing loop from function scope")
	}
}

func TestScope_ShadowingIsAllowed(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	global.Define(&Symbol{Name: "x", Type: types.IntType})

	inner := NewScope(ScopeFunction, global)
	shadow := &Symbol{Name: "x", Type: types.CharType}
	if err := inner.Define(shadow); err != nil {
		t.Errorf("expected a block/function scope to be able to shadow an outer name, got %v", err)
	}
	if found := inner.Lookup("x"); found != shadow {
		t.Error("expected Lookup from the inner scope to resolve to the shadowing symbol")
	}
}

func TestSymbolKind_String(t *testing.T) {
	tests := []struct {
		kind     SymbolKind
		expected string
	}{
		{SymbolVariable, "variable"},
		{SymbolFunction, "function"},
		{SymbolParameter, "parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("SymbolKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestScopeKind_String(t *testing.T) {
	tests := []struct {
		kind     ScopeKind
		expected string
	}{
		{ScopeGlobal, "global"},
		{ScopeFunction, "function"},
		{ScopeBlock, "block"},
		{ScopeLoop, "loop"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ScopeKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
