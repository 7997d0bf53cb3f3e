// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	lexerrors "lexgen/internal/errors"
	"lexgen/internal/presets"
	"lexgen/internal/rules"
	"lexgen/internal/scanner"
	"lexgen/repl"
	"lexgen/token"
)

const usage = `Usage: lexgen [flags] <rules-file> [<source-file> | -]

Tokenizes the source file with the rules and prints one token per line as
type(value). With "-" or no source file, standard input is read. The rules
file may be a built-in rule set written as builtin:<name>; see -presets.

Flags:
`

// dumper shows every field of a token rather than its String form.
var dumper = spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}

type options struct {
	json      bool
	lines     bool
	only      map[string]bool
	dump      bool
	keepGoing bool
	emitRules bool
	repl      bool
}

// onlyFlag collects the comma separated -only token types.
type onlyFlag []string

func (f *onlyFlag) String() string { return strings.Join(*f, ",") }

func (f *onlyFlag) Set(value string) error {
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*f = append(*f, name)
		}
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	var only onlyFlag
	var listPresets bool
	fs := flag.NewFlagSet("lexgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.json, "json", false, "print tokens as JSON, one object per line")
	fs.BoolVar(&opts.lines, "lines", false, "prefix each token with its line:column")
	fs.Var(&only, "only", "print only tokens of these comma separated types")
	fs.BoolVar(&opts.dump, "dump", false, "dump tokens with all their fields")
	fs.BoolVar(&opts.keepGoing, "keep-going", false, "report every unrecognized character instead of stopping at the first")
	fs.BoolVar(&opts.emitRules, "emit-rules", false, "print the rules in .lex format and exit")
	fs.BoolVar(&opts.repl, "repl", false, "tokenize lines typed interactively")
	fs.BoolVar(&listPresets, "presets", false, "list the built-in rule sets and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if listPresets {
		for _, name := range presets.Names() {
			p, _ := presets.Lookup(name)
			fmt.Fprintf(stdout, "%s%-8s %s\n", presets.Prefix, name, p.Description)
		}
		return 0
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}

	startTime := time.Now()
	rulesPath := fs.Arg(0)

	table, doc, err := presets.Load(rulesPath)
	if err != nil {
		reportRuleError(stderr, rulesPath, err)
		return 1
	}

	if opts.emitRules {
		fmt.Fprint(stdout, doc.Lex().String())
		return 0
	}

	if len(only) > 0 {
		opts.only = make(map[string]bool)
		reporter := lexerrors.NewReporter(rulesPath, "")
		for _, name := range only {
			if !table.Has(name) {
				fmt.Fprint(stderr, reporter.Format(lexerrors.UnknownTokenType(name, table.Names())))
				return 1
			}
			opts.only[name] = true
		}
	}

	if opts.repl {
		return startRepl(stdin, stdout, table)
	}

	sourcePath := "-"
	if fs.NArg() == 2 {
		sourcePath = fs.Arg(1)
	}
	source, err := readSource(sourcePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read file: %v\n", err)
		return 1
	}

	failed := tokenize(table, sourcePath, string(source), opts, stdout, stderr)

	duration := formatDuration(time.Since(startTime))
	if failed {
		fmt.Fprintln(stderr, color.RedString("Tokenizing failed after %s", duration))
		return 1
	}
	fmt.Fprintln(stderr, color.GreenString("Successfully tokenized %s in %s", displayName(sourcePath), duration))
	return 0
}

// tokenize prints the tokens of source and reports whether any character
// was unrecognized.
func tokenize(table *rules.Table, path, source string, opts options, stdout, stderr io.Writer) bool {
	reporter := lexerrors.NewReporter(displayName(path), source)
	encoder := json.NewEncoder(stdout)
	failed := false

	s := scanner.New(table, source)
	for {
		tok, err := s.Advance()
		if errors.Is(err, scanner.ErrEndOfFile) {
			return failed
		}
		if err != nil {
			failed = true
			if d, ok := lexerrors.FromError(err); ok {
				fmt.Fprint(stderr, reporter.Format(d))
			} else {
				fmt.Fprintln(stderr, err)
			}
			if !opts.keepGoing {
				return failed
			}
			continue
		}

		if opts.only != nil && !opts.only[string(tok.Type)] {
			continue
		}
		switch {
		case opts.json:
			_ = encoder.Encode(jsonToken(tok))
		case opts.dump:
			fmt.Fprint(stdout, dumper.Sdump(tok))
		case opts.lines:
			fmt.Fprintf(stdout, "%d:%d\t%s\n", tok.Line+1, tok.Column+1, tok)
		default:
			fmt.Fprintln(stdout, tok)
		}
	}
}

type tokenJSON struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

func jsonToken(tok token.Token) tokenJSON {
	return tokenJSON{
		Type:   string(tok.Type),
		Value:  tok.Value,
		Line:   tok.Line,
		Column: tok.Column,
		Offset: tok.Offset,
	}
}

func reportRuleError(w io.Writer, path string, err error) {
	d, ok := lexerrors.FromError(err)
	if !ok {
		fmt.Fprintf(w, "%s\n", color.RedString("error: %v", err))
		return
	}
	source, _ := os.ReadFile(path)
	fmt.Fprint(w, lexerrors.NewReporter(path, string(source)).Format(d))
}

func startRepl(stdin io.Reader, stdout io.Writer, table *rules.Table) int {
	name := "there"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	fmt.Fprintf(stdout, "Welcome to the lexgen REPL, %s! Type :help for commands.\n", name)

	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		repl.Start(ln, stdout, table)
		return 0
	}

	repl.Start(repl.NewLineReader(stdin, stdout), stdout, table)
	return 0
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return filepath.Clean(path)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
