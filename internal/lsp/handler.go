package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lexgen/internal/rules"
)

var log = commonlog.GetLogger("lexgen.lsp")

// Handler serves diagnostics and semantic tokens for documents tokenized with
// a single rule table.
type Handler struct {
	mu       sync.RWMutex
	table    *rules.Table
	classes  map[string]string
	contents map[string]string
}

// NewHandler returns a handler for table. operators names rules that should
// be highlighted as operators even though their names do not say so.
func NewHandler(table *rules.Table, operators []string) *Handler {
	return &Handler{
		table:    table,
		classes:  classify(table.Names(), operators),
		contents: make(map[string]string),
	}
}

// Initialize advertises full document sync and full semantic tokens.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	h.update(params.TextDocument.URI, params.TextDocument.Text)
	h.publish(ctx, params.TextDocument.URI)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	uri := params.TextDocument.URI
	h.mu.RLock()
	text := h.contents[uri]
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			start, end := c.Range.IndexesIn(text)
			text = text[:start] + c.Text + text[end:]
		}
	}

	h.update(uri, text)
	h.publish(ctx, uri)
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	delete(h.contents, params.TextDocument.URI)
	h.mu.Unlock()
	return nil
}

// TextDocumentSemanticTokensFull tokenizes the whole document. Documents that
// were never opened are read from disk.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	text, err := h.text(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens, _ := h.tokenize(text)
	return &protocol.SemanticTokens{Data: encode(h.semanticTokens(text, tokens))}, nil
}

func (h *Handler) update(uri protocol.DocumentUri, text string) {
	h.mu.Lock()
	h.contents[uri] = text
	h.mu.Unlock()
}

func (h *Handler) text(uri protocol.DocumentUri) (string, error) {
	h.mu.RLock()
	text, ok := h.contents[uri]
	h.mu.RUnlock()
	if ok {
		return text, nil
	}

	path, err := uriToPath(uri)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	h.update(uri, string(content))
	return string(content), nil
}

func (h *Handler) publish(ctx *glsp.Context, uri protocol.DocumentUri) {
	h.mu.RLock()
	text := h.contents[uri]
	h.mu.RUnlock()

	_, errs := h.tokenize(text)
	diagnostics := ConvertScanErrors(text, errs)
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
