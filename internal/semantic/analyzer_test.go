package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/parser"
	"github.com/hassandahiru/ccompiler/internal/semantic"
)

func analyze(t *testing.T, source string) (*semantic.Analyzer, []error) {
	t.Helper()
	l := lexer.New(source, "test.c")
	p := parser.New(l)
	file, parseErrs := p.ParseFile("test.c")
	require.Empty(t, parseErrs, "source must parse cleanly")

	a := semantic.New()
	return a, a.Analyze(file)
}

func TestAnalyze_WellFormedProgram(t *testing.T) {
	_, errs := analyze(t, `
		int add(int a, int b) {
			return a + b;
		}
	`)
	assert.Empty(t, errs)
}

func TestAnalyze_UndeclaredIdentifier(t *testing.T) {
	_, errs := analyze(t, `
		int f(void) {
			return x;
		}
	`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "undeclared identifier")
}

func TestAnalyze_Redeclaration(t *testing.T) {
	_, errs := analyze(t, `
		int x;
		int x;
	`)
	require.NotEmpty(t, errs)
}

func TestAnalyze_AssignToFunctionIsError(t *testing.T) {
	_, errs := analyze(t, `
		int f(void) { return 0; }
		int g(void) {
			f = 1;
			return 0;
		}
	`)
	require.NotEmpty(t, errs)
}

func TestAnalyze_VoidReturnWithValueIsError(t *testing.T) {
	_, errs := analyze(t, `
		void f(void) {
			return 1;
		}
	`)
	require.NotEmpty(t, errs)
}

func TestAnalyze_MissingReturnValueIsError(t *testing.T) {
	_, errs := analyze(t, `
		int f(void) {
			return;
		}
	`)
	require.NotEmpty(t, errs)
}

func TestAnalyze_GlobalVariableForwardUse(t *testing.T) {
	a, errs := analyze(t, `
		int counter;
		int get(void) {
			return counter;
		}
	`)
	assert.Empty(t, errs)
	assert.NotNil(t, a.GlobalScope().Lookup("counter"))
}

func TestAnalyze_KnrParameterDefaultsToInt(t *testing.T) {
	_, errs := analyze(t, `
		int add(a, b)
		int a;
		{
			return a + b;
		}
	`)
	// b has no K&R declaration and defaults to int, so this should be
	// well-formed.
	assert.Empty(t, errs)
}
