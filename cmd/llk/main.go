/*
Llk compiles an LL(k) grammar and drives it against a token stream.

It reads a grammar declaration in the surface EBNF form of spec §6, runs
the normalizer, FIRST_k/FOLLOW_k analysis, and prediction table builder
over it, and then either parses a single whitespace-separated list of
terminal names or drives an interactive readline session one line at a
time, reporting the parse trace or the structured error at each step.

Usage:

	llk [flags]

The flags are:

	-v, --version
		Give the current version of llk and then exit.

	-g, --grammar FILE
		Read the EBNF grammar declaration from FILE. Always required: llk
		always compiles a grammar fresh from source before doing anything
		else with it, even when -o is also given to snapshot the result.

	-k, --lookahead INT
		Override the lookahead depth declared in the grammar's header.

	-t, --tokens FILE
		Parse the whitespace-separated terminal names in FILE as a single
		run and report the result.

	-i, --interactive
		Start an interactive readline session: load the grammar, then read
		lines of whitespace-separated terminal names and report the parse
		result for each line.

	--trace
		Print the full production/alternation trace of a successful parse.

	-o, --out FILE
		Serialize the compiled grammar and prediction table to FILE
		instead of (or in addition to) parsing anything.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dekarrin/llgen/analysis"
	"github.com/dekarrin/llgen/ebnf"
	"github.com/dekarrin/llgen/grammar"
	"github.com/dekarrin/llgen/llkio"
	"github.com/dekarrin/llgen/runtime"
	"github.com/dekarrin/llgen/table"
	"github.com/dekarrin/llgen/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGrammarError indicates the grammar declaration failed to
	// normalize.
	ExitGrammarError

	// ExitAnalysisError indicates the grammar normalized but FIRST/FOLLOW
	// analysis or table construction found it is not LL(k).
	ExitAnalysisError

	// ExitParseError indicates the grammar compiled but driving it against
	// the given tokens failed.
	ExitParseError

	// ExitUsageError indicates the flags given don't form a runnable
	// combination.
	ExitUsageError
)

var (
	returnCode int = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Gives the version info")
	flagGrammar     = pflag.StringP("grammar", "g", "", "The EBNF grammar declaration file to compile")
	flagK           = pflag.IntP("lookahead", "k", 0, "Override the lookahead depth declared in the grammar header (0 = use header value)")
	flagTokens      = pflag.StringP("tokens", "t", "", "Parse the whitespace-separated terminal names in this file as a single run")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive readline session reading lines of terminal names")
	flagTrace       = pflag.Bool("trace", false, "Print the full production/alternation trace of a successful parse")
	flagOut         = pflag.StringP("out", "o", "", "Serialize the compiled grammar and prediction table to this file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagGrammar == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -g/--grammar is required")
		returnCode = ExitUsageError
		return
	}

	src, err := os.ReadFile(*flagGrammar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading grammar file: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	decl, err := ebnf.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
	if *flagK > 0 {
		decl.K = *flagK
	}

	g, err := grammar.Normalize(decl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	tbl, err := compileTable(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitAnalysisError
		return
	}

	if *flagOut != "" {
		data, err := llkio.Save(g, tbl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: serializing compiled grammar: %s\n", err.Error())
			returnCode = ExitAnalysisError
			return
		}
		if err := os.WriteFile(*flagOut, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing %s: %s\n", *flagOut, err.Error())
			returnCode = ExitUsageError
			return
		}
	}

	p := runtime.New(g, tbl)

	switch {
	case *flagInteractive:
		if err := runInteractive(p); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
	case *flagTokens != "":
		data, err := os.ReadFile(*flagTokens)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading tokens file: %s\n", err.Error())
			returnCode = ExitUsageError
			return
		}
		if !runOnce(p, string(data)) {
			returnCode = ExitParseError
		}
	}
}

// compileTable runs FIRST_k/FOLLOW_k analysis and builds the prediction
// table, the sequence spec §4.2-§4.4 describe as three distinct stages.
func compileTable(g *grammar.Grammar) (*table.Table, error) {
	fs, err := analysis.ComputeFirst(g)
	if err != nil {
		return nil, err
	}
	fo, err := analysis.ComputeFollow(g, fs)
	if err != nil {
		return nil, err
	}
	return table.Build(g, fs, fo)
}

// runOnce parses the whitespace-separated terminal names in line against
// p, printing the result. It reports whether the parse succeeded.
func runOnce(p *runtime.Parser, line string) bool {
	fields := strings.Fields(line)
	toks := make([]runtime.Token, len(fields))
	for i, f := range fields {
		toks[i] = runtime.NewToken(f, nil)
	}

	trace, err := p.Parse(runtime.NewSliceStream(toks))
	if err != nil {
		fmt.Printf("REJECT: %s\n", err.Error())
		return false
	}

	fmt.Println("ACCEPT")
	if *flagTrace {
		printTrace(trace)
	}
	return true
}

func printTrace(trace []runtime.TraceEntry) {
	for _, e := range trace {
		if e.IsProduction() {
			fmt.Printf("  production %d, alt %d\n", e.Production, e.Alt)
		} else if e.Tok != nil {
			fmt.Printf("  consume %s\n", e.Tok.Class().Name())
		}
	}
}

// runInteractive starts a readline session, one uuid-tagged run per
// invocation of llk -i: every REPL line is parsed fresh against p and the
// id is printed once at startup so repeated -i sessions (and their
// --trace output) can be told apart in a log.
func runInteractive(p *runtime.Parser) error {
	sessionID, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generating session id: %w", err)
	}
	fmt.Printf("llk interactive session %s\n", sessionID)
	fmt.Println("enter whitespace-separated terminal names, one parse per line; Ctrl-D to quit")

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "llk> ",
	})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runOnce(p, line)
	}
}
