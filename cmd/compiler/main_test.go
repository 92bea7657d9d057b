package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: &bytes.Buffer{}}).Level(zerolog.Disabled)
}

func TestCompile_FullPipelineSucceedsOnWellFormedSource(t *testing.T) {
	source := `
		int max(int a, int b) {
			if (a < b) {
				return b;
			} else {
				return a;
			}
		}
	`
	var dest bytes.Buffer
	module, err := compile(source, "max.c", false, false, false, &dest, testLogger())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(module.Functions) != 1 || module.Functions[0].Name != "max" {
		t.Fatalf("expected a single max function, got %+v", module.Functions)
	}
	if !strings.Contains(dest.String(), "IR generation successful") {
		t.Errorf("expected a progress trace, got %q", dest.String())
	}
}

func TestCompile_NoSSAStopsBeforeMem2Reg(t *testing.T) {
	source := `
		int identity(int a) {
			int b;
			b = a;
			return b;
		}
	`
	var dest bytes.Buffer
	module, err := compile(source, "identity.c", false, true, false, &dest, testLogger())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if strings.Contains(dest.String(), "mem2reg promotion successful") {
		t.Error("expected --no-ssa to skip mem2reg entirely")
	}
	if len(module.Functions) != 1 {
		t.Fatalf("expected the function to still be generated, got %+v", module.Functions)
	}
}

func TestCompile_QuitSSALowersPhisAfterMem2Reg(t *testing.T) {
	source := `
		int pick(int cond, int a, int b) {
			int result;
			if (cond) {
				result = a;
			} else {
				result = b;
			}
			return result;
		}
	`
	var dest bytes.Buffer
	_, err := compile(source, "pick.c", false, false, true, &dest, testLogger())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := dest.String()
	if !strings.Contains(out, "mem2reg promotion successful") {
		t.Error("expected mem2reg to run before quitssa")
	}
	if !strings.Contains(out, "quitssa lowering successful") {
		t.Error("expected quitssa to run when --quit-ssa is set")
	}
}

func TestCompile_ParseErrorStopsThePipelineEarly(t *testing.T) {
	var dest bytes.Buffer
	_, err := compile("int ;", "bad.c", false, false, false, &dest, testLogger())
	if err == nil {
		t.Fatal("expected a parse error for a malformed declaration")
	}
	if strings.Contains(dest.String(), "parsing successful") {
		t.Error("expected the pipeline not to reach semantic analysis after a parse error")
	}
}

func TestCompile_SemanticErrorStopsBeforeIRGeneration(t *testing.T) {
	source := `
		int f(void) {
			return x;
		}
	`
	var dest bytes.Buffer
	_, err := compile(source, "undeclared.c", false, false, false, &dest, testLogger())
	if err == nil {
		t.Fatal("expected a semantic error for an undeclared identifier")
	}
	if strings.Contains(dest.String(), "IR generation successful") {
		t.Error("expected the pipeline not to reach IR generation after a semantic error")
	}
}

func TestRun_NoArgumentsReturnsUsageExitCode(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Errorf("run(nil) = %d, want 2", code)
	}
}
