// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"lexgen/internal/lsp"
	"lexgen/internal/presets"
)

const lsName = "lexgen" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	rulesPath := flag.String("rules", "", "rule file used to tokenize documents (.lex, .json, .yaml or builtin:<name>)")
	verbosity := flag.Int("v", 1, "log verbosity")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(lsName, version)
		return
	}
	if *rulesPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: lexgen-lsp -rules <rules-file>")
		os.Exit(2)
	}

	// Configure logging (nil = log to stderr, stdout carries the protocol)
	commonlog.Configure(*verbosity, nil)

	table, doc, err := presets.Load(*rulesPath)
	if err != nil {
		log.Println("Error loading rules:", err)
		os.Exit(1)
	}

	var operators []string
	for _, op := range doc.Operators {
		operators = append(operators, op.Name)
	}
	lexHandler := lsp.NewHandler(table, operators)

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     lexHandler.Initialize,
		Initialized:                    lexHandler.Initialized,
		Shutdown:                       lexHandler.Shutdown,
		SetTrace:                       lexHandler.SetTrace,
		TextDocumentDidOpen:            lexHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           lexHandler.TextDocumentDidClose,
		TextDocumentDidChange:          lexHandler.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: lexHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting lexgen LSP server with %d rules from %s...", table.Len(), *rulesPath)

	// Start the server over standard input/output
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting lexgen LSP server:", err)
		os.Exit(1)
	}
}
