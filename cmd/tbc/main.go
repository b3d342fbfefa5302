/*
Tbc converts source text between L-dyn and L-stat.

It reads source from a file argument or from stdin (interactively when
stdin is a terminal), converts it in the requested direction, and writes the
translated source to stdout or the file given by -o/--output.

Usage:

	tbc [flags] [file]

The flags are:

	-v, --version
		Give the current version of transbridge and then exit.

	-s, --to-stat
		Convert L-dyn source into L-stat. This is the default unless a
		.tbc.toml config file specifies otherwise.

	-y, --to-dyn
		Convert L-stat source into L-dyn.

	-p, --parse-only
		Check the input for syntax errors and report diagnostics without
		emitting any converted output.

	-o, --output FILE
		Write the converted source to FILE instead of stdout.

	-c, --config FILE
		Load CLI defaults from the given .tbc.toml file. Defaults to
		".tbc.toml" in the current working directory; its absence is not
		an error.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline when launched with no file argument.

	-V, --verbose
		Print the conversion's metrics block and any diagnostics to
		stderr after a successful run.

If no file argument is given and stdin is a terminal, tbc starts an
interactive session reading one source unit at a time from stdin
(terminated by a blank line), converting and printing each as it is
entered. Exit the session with Ctrl-D. With -d/--direct, or when stdin is
not a terminal, tbc instead reads all of stdin and converts it once.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/corvidwalk/transbridge"
	"github.com/corvidwalk/transbridge/internal/config"
	"github.com/corvidwalk/transbridge/internal/metrics"
	"github.com/corvidwalk/transbridge/internal/util"
	"github.com/corvidwalk/transbridge/internal/version"
)

const (
	// ExitClean indicates a successful conversion with no diagnostics.
	ExitClean = iota
	// ExitWarnings indicates a successful conversion that raised warnings.
	ExitWarnings
	// ExitErrors indicates a best-effort conversion that raised errors.
	ExitErrors
	// ExitFatal indicates initialization failure or an unparseable input
	// the pipeline could not recover from at all.
	ExitFatal
)

var (
	returnCode  int
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagToStat  = pflag.BoolP("to-stat", "s", false, "Convert L-dyn source into L-stat")
	flagToDyn   = pflag.BoolP("to-dyn", "y", false, "Convert L-stat source into L-dyn")
	flagParse   = pflag.BoolP("parse-only", "p", false, "Check syntax only, emit no converted output")
	flagOutput  = pflag.StringP("output", "o", "", "Write converted source to this file instead of stdout")
	flagConfig  = pflag.StringP("config", "c", ".tbc.toml", "Load CLI defaults from this .tbc.toml file")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of using readline")
	flagVerbose = pflag.BoolP("verbose", "V", false, "Print metrics and diagnostics to stderr after conversion")
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

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}

	opts := transbridge.Options{}.ApplyConfig(cfg)
	if *flagToStat {
		opts.Direction = transbridge.DynToStat
	}
	if *flagToDyn {
		opts.Direction = transbridge.StatToDyn
	}

	args := pflag.Args()

	var src string
	switch {
	case len(args) > 0:
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", readErr.Error())
			returnCode = ExitFatal
			return
		}
		src = string(data)
		returnCode = runOnce(src, opts)
		return
	case !*flagDirect && isInteractiveTerminal():
		returnCode = runInteractive(opts)
		return
	default:
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", readErr.Error())
			returnCode = ExitFatal
			return
		}
		src = string(data)
		returnCode = runOnce(src, opts)
		return
	}
}

func isInteractiveTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// runOnce runs a single parse-or-convert pass over src and writes the
// result, returning the process exit status.
func runOnce(src string, opts transbridge.Options) int {
	if *flagParse {
		res, err := transbridge.Parse(src, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitFatal
		}
		printDiagnostics(res.Errors, res.Warnings, res.Metrics)
		return statusFor(res.Valid, res.Warnings)
	}

	res, err := transbridge.Convert(src, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitFatal
	}

	if writeErr := writeOutput(res.Output); writeErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", writeErr.Error())
		return ExitFatal
	}

	printDiagnostics(res.Errors, res.Warnings, res.Metrics)
	return statusFor(res.Success, res.Warnings)
}

func writeOutput(output string) error {
	if *flagOutput == "" {
		_, err := fmt.Print(output)
		return err
	}
	return os.WriteFile(*flagOutput, []byte(output), 0644)
}

// statusFor derives the 4-tier exit status from the result carrier's own
// success field rather than re-counting errors, so it can never disagree
// with ConversionResult.Success/ParseResult.Valid.
func statusFor(success bool, warns []transbridge.Diagnostic) int {
	switch {
	case !success:
		return ExitErrors
	case len(warns) > 0:
		return ExitWarnings
	default:
		return ExitClean
	}
}

func printDiagnostics(errs, warns []transbridge.Diagnostic, m transbridge.Metrics) {
	if !*flagVerbose {
		return
	}
	fmt.Fprint(os.Stderr, metrics.FormatDiagnostics("errors", errs))
	fmt.Fprint(os.Stderr, metrics.FormatDiagnostics("warnings", warns))
	fmt.Fprint(os.Stderr, metrics.Format(metrics.Report{
		ASTNodes:             m.ASTNodes,
		TokensProcessed:      m.TokensProcessed,
		ErrorRecoveryCount:   m.ErrorRecoveryCount,
		ParsingTimeMS:        m.ParsingTimeMS,
		ConversionTimeMS:     m.ConversionTimeMS,
		MemoryUsageKB:        m.MemoryUsageKB,
		SyntaxAccuracy:       m.SyntaxAccuracy,
		SemanticPreservation: m.SemanticPreservation,
	}))
}

// runInteractive starts a readline-backed REPL that reads one source unit
// at a time (terminated by a blank line), converting and printing each as
// it is entered. Mirrors cmd/tqi's interactive-vs-direct split, with
// readline swapped for a blank-line-delimited multi-line reader instead of
// tqi's single-line command reader.
func runInteractive(opts transbridge.Options) int {
	rl, err := readline.NewEx(&readline.Config{Prompt: "tbc> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitFatal
	}
	defer rl.Close()

	fmt.Printf("transbridge %s interactive session (%s). Enter source, blank line to convert, Ctrl-D to quit.\n", version.Current, opts.Direction)

	last := ExitClean
	for {
		lines, readErr := readSourceUnit(rl)
		if readErr != nil {
			return last
		}
		if len(lines) == 0 {
			continue
		}
		last = runOnce(strings.Join(lines, "\n"), opts)
	}
}

// readSourceUnit reads lines until braces/brackets/parens balance back to
// zero and a blank line is seen at that depth, so a REPL user can paste in
// a multi-line function or class body without it being cut off mid-brace.
// The open/close tracking uses a util.Stack of the opening rune; a closer
// that does not match the top of the stack (e.g. a "}" with no matching
// "{") is ignored, so the depth never underflows and nothing is reported.
func readSourceUnit(rl *readline.Instance) ([]string, error) {
	openers := map[rune]rune{')': '(', ']': '[', '}': '{'}
	depth := util.NewStack[rune]()

	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil, err
		}
		for _, r := range line {
			switch r {
			case '(', '[', '{':
				depth.Push(r)
			case ')', ']', '}':
				if !depth.Empty() && depth.Peek() == openers[r] {
					depth.Pop()
				}
			}
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && depth.Empty() {
			break
		}
		if trimmed != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
