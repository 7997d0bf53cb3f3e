package lsp_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lexgen/internal/config"
	"lexgen/internal/lsp"
	"lexgen/internal/rules"
)

func newHandler(t *testing.T) *lsp.Handler {
	t.Helper()
	table, doc, err := config.LoadTable("../../examples/calc.lex")
	require.NoError(t, err)

	var operators []string
	for _, op := range doc.Operators {
		operators = append(operators, op.Name)
	}
	return lsp.NewHandler(table, operators)
}

type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := newHandler(t)

	absPath, err := filepath.Abs(filepath.Join("../../examples", "program.calc"))
	require.NoError(t, err, "Failed to get absolute path")

	uri := "file://" + filepath.ToSlash(absPath)

	ctx := &glsp.Context{}
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: uri,
		},
	}

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 18)

	assertToken(t, &decoded[0], 1, 1, 18, "comment")
	assertToken(t, &decoded[1], 2, 1, 3, "keyword")
	assertToken(t, &decoded[2], 2, 5, 5, "variable")
	assertToken(t, &decoded[3], 2, 11, 1, "operator")
	assertToken(t, &decoded[4], 2, 13, 3, "number")
	assertToken(t, &decoded[5], 3, 1, 3, "keyword")
	assertToken(t, &decoded[6], 3, 5, 6, "variable")
	assertToken(t, &decoded[7], 3, 12, 1, "operator")
	assertToken(t, &decoded[8], 3, 14, 1, "operator")
	assertToken(t, &decoded[9], 3, 15, 5, "variable")
	assertToken(t, &decoded[10], 3, 21, 1, "operator")
	assertToken(t, &decoded[11], 3, 23, 1, "number")
	assertToken(t, &decoded[12], 3, 24, 1, "operator")
	assertToken(t, &decoded[13], 4, 1, 5, "keyword")
	assertToken(t, &decoded[14], 4, 7, 6, "string")
	assertToken(t, &decoded[15], 4, 14, 5, "variable")
	assertToken(t, &decoded[16], 4, 20, 1, "operator")
	assertToken(t, &decoded[17], 4, 22, 6, "variable")
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	handler := newHandler(t)
	rec := &recorder{}

	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///tmp/bad.calc",
			Text: "let x = 1\nlet y = x # 2 @",
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.published, 1)

	diags := rec.published[0].Diagnostics
	require.Len(t, diags, 2)
	require.Equal(t, uint32(1), diags[0].Range.Start.Line)
	require.Equal(t, uint32(10), diags[0].Range.Start.Character)
	require.Equal(t, uint32(11), diags[0].Range.End.Character)
	require.Equal(t, "unrecognized character '#'", diags[0].Message)
	require.Equal(t, "L0001", diags[0].Code.Value)
	require.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	require.Equal(t, uint32(14), diags[1].Range.Start.Character)
}

func TestDidChangeReplacesContent(t *testing.T) {
	handler := newHandler(t)
	rec := &recorder{}
	uri := "file:///tmp/change.calc"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let x = #"},
	}))
	require.Len(t, rec.published[0].Diagnostics, 1)

	require.NoError(t, handler.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let x = 1"}},
	}))
	require.Len(t, rec.published, 2)
	require.Empty(t, rec.published[1].Diagnostics)

	tokens, err := handler.TextDocumentSemanticTokensFull(rec.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 4)
	assertToken(t, &decoded[3], 1, 9, 1, "number")
}

func TestDidChangeIncremental(t *testing.T) {
	handler := newHandler(t)
	rec := &recorder{}
	uri := "file:///tmp/incremental.calc"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let x = 1"},
	}))

	require.NoError(t, handler.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 0, Character: 8},
				End:   protocol.Position{Line: 0, Character: 9},
			},
			Text: "$",
		}},
	}))
	require.Len(t, rec.published, 2)
	require.Len(t, rec.published[1].Diagnostics, 1)
	require.Equal(t, "unrecognized character '$'", rec.published[1].Diagnostics[0].Message)
}

func TestDidCloseForgetsContent(t *testing.T) {
	handler := newHandler(t)
	rec := &recorder{}
	uri := "file:///does/not/exist.calc"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let"},
	}))
	require.NoError(t, handler.TextDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	_, err := handler.TextDocumentSemanticTokensFull(rec.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.Error(t, err, "closed documents are read from disk")
}

func TestMultilineTokensAreSplit(t *testing.T) {
	table := rules.MustCompile(rules.Spec{
		Rules: []rules.Rule{
			{Name: "comment", Pattern: `/\*(?s:.*?)\*/`},
			{Name: "ident", Pattern: `[a-zé]+`},
		},
		Whitespace: `\s+`,
	})
	handler := lsp.NewHandler(table, nil)
	rec := &recorder{}
	uri := "file:///tmp/multi.txt"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "café /* a\nbc */ x"},
	}))

	tokens, err := handler.TextDocumentSemanticTokensFull(rec.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 4)
	assertToken(t, &decoded[0], 1, 1, 4, "variable")
	assertToken(t, &decoded[1], 1, 6, 4, "comment")
	assertToken(t, &decoded[2], 2, 1, 5, "comment")
	assertToken(t, &decoded[3], 2, 7, 1, "variable")
}

func TestMultilineTokensWithCRLF(t *testing.T) {
	table := rules.MustCompile(rules.Spec{
		Rules: []rules.Rule{
			{Name: "comment", Pattern: `/\*(?s:.*?)\*/`},
		},
		Whitespace: `\s+`,
	})
	handler := lsp.NewHandler(table, nil)
	rec := &recorder{}
	uri := "file:///tmp/crlf.txt"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "/* ab\r\n\r\ncd */\r\n"},
	}))

	tokens, err := handler.TextDocumentSemanticTokensFull(rec.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 2, "the blank middle line yields no entry")
	assertToken(t, &decoded[0], 1, 1, 5, "comment")
	assertToken(t, &decoded[1], 3, 1, 5, "comment")
}

func TestInitializeAdvertisesLegend(t *testing.T) {
	handler := newHandler(t)

	result, err := handler.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)

	opts, ok := init.Capabilities.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	require.True(t, ok)
	require.Equal(t, lsp.SemanticTokenTypes, opts.Legend.TokenTypes)
}

type DecodedToken struct {
	Line   uint32
	Char   uint32
	Length uint32
	Type   string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		decoded = append(decoded, DecodedToken{
			Line:   line + 1, // LSP uses 0-based indexing
			Char:   char + 1,
			Length: raw[i+2],
			Type:   lsp.SemanticTokenTypes[raw[i+3]],
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string) {
	t.Helper()
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
}
