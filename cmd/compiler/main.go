// Package main provides the compiler entry point.
//
// It wires the complete pipeline: read file -> lex -> parse -> semantic
// analyze -> IR generate -> mem2reg -> (optionally) QuitSSA -> dump.
// Everything below the "wire the stages together" level lives in the
// internal packages; this file is deliberately thin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/ir"
	"github.com/hassandahiru/ccompiler/internal/irgen"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	"github.com/hassandahiru/ccompiler/internal/mem2reg"
	"github.com/hassandahiru/ccompiler/internal/parser"
	"github.com/hassandahiru/ccompiler/internal/quitssa"
	"github.com/hassandahiru/ccompiler/internal/semantic"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("compiler", flag.ContinueOnError)
	dumpIR := flags.Bool("dump-ir", false, "print the module after each major stage")
	noSSA := flags.Bool("no-ssa", false, "stop before mem2reg, dumping address-taken form")
	quitSSAFlag := flags.Bool("quit-ssa", false, "lower phi nodes back to three-address code after mem2reg")
	out := flags.StringP("output", "o", "", "write the final dump to a file instead of stdout")
	verbose := flags.CountP("verbose", "v", "increase log verbosity (-v, -vv)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <source-file>\n", os.Args[0])
		flags.PrintDefaults()
		return 2
	}
	filename := flags.Arg(0)

	runID := uuid.New().String()
	log := newLogger(*verbose, runID)

	var dest io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
			return 1
		}
		defer f.Close()
		dest = f
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %v\n", err)
		return 1
	}

	log.Info().Str("file", filename).Msg("starting compilation")

	module, err := compile(string(source), filename, *dumpIR, *noSSA, *quitSSAFlag, dest, log)
	if err != nil {
		reportError(os.Stderr, err)
		return 1
	}

	fmt.Fprintf(dest, "\n=== final IR (run %s) ===\n\n", runID)
	fmt.Fprintln(dest, module.String())
	return 0
}

func newLogger(verbosity int, runID string) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("run", runID).Logger()
}

// compile runs every stage in order, recovering any InternalInvariant
// panic at this boundary (none of the packages below are supposed to
// panic across their public API, but a recovered internal-invariant
// failure is reported as a diagnostic rather than a raw stack dump).
func compile(source, filename string, dumpIR, noSSA, runQuitSSA bool, dest io.Writer, log zerolog.Logger) (result *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	l := lexer.New(source, filename)
	p := parser.New(l)
	file, parseErrors := p.ParseFile(filename)
	if len(parseErrors) > 0 {
		return nil, firstOrJoin(parseErrors)
	}
	fmt.Fprintln(dest, "✓ parsing successful")

	analyzer := semantic.New()
	semanticErrors := analyzer.Analyze(file)
	if len(semanticErrors) > 0 {
		return nil, firstOrJoin(semanticErrors)
	}
	fmt.Fprintln(dest, "✓ semantic analysis successful")

	gen := irgen.New(analyzer)
	module, err := gen.Generate(file)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(dest, "✓ IR generation successful")
	if dumpIR {
		fmt.Fprintf(dest, "\n=== IR after generation ===\n\n%s\n", module.String())
	}

	if noSSA {
		return module, nil
	}

	pos := lexer.Position{Filename: filename}
	for _, fn := range module.Functions {
		log.Debug().Str("function", fn.Name).Msg("running mem2reg")
		if err := mem2reg.Run(fn, pos); err != nil {
			return nil, err
		}
	}
	fmt.Fprintln(dest, "✓ mem2reg promotion successful")
	if dumpIR {
		fmt.Fprintf(dest, "\n=== IR after mem2reg ===\n\n%s\n", module.String())
	}

	if runQuitSSA {
		for _, fn := range module.Functions {
			log.Debug().Str("function", fn.Name).Msg("running quitssa")
			if err := quitssa.Run(fn, pos); err != nil {
				return nil, err
			}
		}
		fmt.Fprintln(dest, "✓ quitssa lowering successful")
	}

	return module, nil
}

func firstOrJoin(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("%d errors, first: %w", len(errs), errs[0])
}

func reportError(w io.Writer, err error) {
	var coreErr diagnostics.CoreError
	if ce, ok := err.(diagnostics.CoreError); ok {
		coreErr = ce
		fmt.Fprintf(w, "error: %s: %s\n", coreErr.Position(), coreErr)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
