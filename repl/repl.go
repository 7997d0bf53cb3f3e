// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"

	lexerrors "lexgen/internal/errors"
	"lexgen/internal/rules"
	"lexgen/internal/scanner"
)

const PROMPT = ">> "

const helpText = `commands:
  :rules   list token types in match priority order
  :dump    toggle dumping tokens with all their fields
  :help    show this text
  :quit    exit
`

var dumper = spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}

// LineReader supplies one line of input per prompt. io.EOF ends the session.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

type bufferedReader struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewLineReader reads lines from in, writing prompts to out.
func NewLineReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedReader{out: out, scanner: bufio.NewScanner(in)}
}

func (r *bufferedReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start tokenizes each line read from in with table and prints the tokens to
// out until the input ends or :quit is entered.
func Start(in LineReader, out io.Writer, table *rules.Table) {
	dump := false

	for {
		line, err := in.Prompt(PROMPT)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(out, "read error: %v\n", err)
			}
			fmt.Fprintln(out)
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if h, ok := in.(historyAppender); ok {
			h.AppendHistory(line)
		}

		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit", ":q":
				return
			case ":rules":
				fmt.Fprintln(out, strings.Join(table.Names(), " "))
			case ":dump":
				dump = !dump
				fmt.Fprintf(out, "dump %s\n", onOff(dump))
			case ":help":
				fmt.Fprint(out, helpText)
			default:
				fmt.Fprintf(out, "unknown command %s, type :help for a list\n", trimmed)
			}
			continue
		}

		tokens, errs := scanner.Tokenize(table, line)

		reporter := lexerrors.NewReporter("<repl>", line)
		for _, err := range errs {
			if d, ok := lexerrors.FromError(err); ok {
				fmt.Fprint(out, reporter.Format(d))
			}
		}

		if dump {
			fmt.Fprint(out, dumper.Sdump(tokens))
			continue
		}
		parts := make([]string, len(tokens))
		for i, tok := range tokens {
			parts[i] = tok.String()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
