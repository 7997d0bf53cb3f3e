package lsp

import (
	"strings"
	"unicode/utf16"

	"lexgen/internal/scanner"
	"lexgen/token"
)

// SemanticTokenTypes is the legend sent to clients. Rule names are mapped
// onto it by naming convention.
var SemanticTokenTypes = []string{
	"keyword",
	"number",
	"string",
	"comment",
	"operator",
	"variable",
	"type",
	"function",
}

var SemanticTokenModifiers = []string{}

// SemanticToken is one entry before delta encoding. Line and StartChar are
// 0-based; StartChar and Length count UTF-16 code units.
type SemanticToken struct {
	Line      uint32
	StartChar uint32
	Length    uint32
	TokenType int
}

var prefixes = []struct {
	prefix string
	class  string
}{
	{"keyword", "keyword"},
	{"kw", "keyword"},
	{"number", "number"},
	{"num", "number"},
	{"int", "number"},
	{"float", "number"},
	{"digit", "number"},
	{"string", "string"},
	{"str", "string"},
	{"char", "string"},
	{"comment", "comment"},
	{"op", "operator"},
	{"ident", "variable"},
	{"name", "variable"},
	{"var", "variable"},
	{"type", "type"},
	{"func", "function"},
	{"fn", "function"},
}

// classify assigns a semantic token type to each rule name that has one.
func classify(names, operators []string) map[string]string {
	classes := make(map[string]string)
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p.prefix) {
				classes[name] = p.class
				break
			}
		}
	}
	for _, name := range operators {
		classes[name] = "operator"
	}
	return classes
}

func (h *Handler) tokenize(text string) ([]token.Token, []error) {
	return scanner.Tokenize(h.table, text)
}

func (h *Handler) semanticTokens(text string, tokens []token.Token) []SemanticToken {
	var out []SemanticToken
	for _, tok := range tokens {
		class, ok := h.classes[string(tok.Type)]
		if !ok {
			continue
		}
		typ := indexOf(class, SemanticTokenTypes)

		// Lexemes spanning lines are split, one entry per line.
		line, col := uint32(tok.Line), column(text, tok.Offset)
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				line++
				col = 0
			}
			if n := utf16Len(strings.TrimSuffix(part, "\r")); n > 0 {
				out = append(out, SemanticToken{Line: line, StartChar: col, Length: n, TokenType: typ})
			}
		}
	}
	return out
}

// encode produces the LSP wire format: five integers per token with line and
// start relative to the previous token.
func encode(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.TokenType), 0)

		prevLine = t.Line
		prevStart = t.StartChar
	}
	return data
}

// column is the UTF-16 column of the byte offset in text.
func column(text string, offset int) uint32 {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return utf16Len(text[lineStart:offset])
}

func utf16Len(s string) uint32 {
	return uint32(len(utf16.Encode([]rune(s))))
}

func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
